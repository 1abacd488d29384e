package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/protocol"
)

// Seed fetches the listing at url and delivers it to route as a StatusOK
// message. The body must be a JSON snapshot.
func (f *Feed) Seed(ctx context.Context, url, route string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return binderrors.New("B032").WithDetailf("seed %s", url).Wrap(err)
	}
	for k, v := range f.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.RecordFeedError("seed")
		return binderrors.New("B032").WithDetailf("seed %s", url).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.RecordFeedError("seed")
		return binderrors.New("B032").WithDetailf("seed %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, protocol.MaxMessageSize+1))
	if err != nil {
		f.metrics.RecordFeedError("seed")
		return binderrors.New("B032").WithDetailf("seed %s", url).Wrap(err)
	}
	if len(body) > protocol.MaxMessageSize {
		f.metrics.RecordFeedError("seed")
		return binderrors.New("B030").WithDetailf("seed %s: body exceeds %d bytes", url, protocol.MaxMessageSize)
	}

	f.logger.Info("feed seeded", "route", route, "url", url, "bytes", len(body))
	return f.Deliver(ctx, &protocol.Message{
		Route:     route,
		Data:      body,
		Status:    protocol.StatusOK,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Follow dials url and delivers every inbound message until the server
// closes the connection or ctx ends. A normal close returns nil; a
// cancelled context returns ctx.Err(). Undecodable messages are logged
// and skipped.
func (f *Feed) Follow(ctx context.Context, url string) error {
	conn, resp, err := f.dialer.DialContext(ctx, url, f.header)
	if err != nil {
		f.metrics.RecordFeedError("dial")
		detail := fmt.Sprintf("dial %s", url)
		if resp != nil {
			detail += ": " + resp.Status
		}
		return binderrors.New("B032").WithDetail(detail).Wrap(err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	f.logger.Info("feed connected", "url", url)
	conn.SetReadLimit(protocol.MaxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.logger.Info("feed closed", "url", url)
				return nil
			}
			f.metrics.RecordFeedError("read")
			return binderrors.New("B032").WithDetailf("read %s", url).Wrap(err)
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			f.metrics.RecordFeedError("decode")
			f.logger.Error("feed message decode error", "error", err)
			continue
		}
		if err := f.Deliver(ctx, msg); err != nil {
			f.logger.Error("feed delivery error", "route", msg.Route, "error", err)
		}
	}
}
