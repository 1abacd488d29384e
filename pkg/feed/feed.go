package feed

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/bindui/pkg/collection"
	"github.com/vango-dev/bindui/pkg/event"
	"github.com/vango-dev/bindui/pkg/protocol"
	"github.com/vango-dev/bindui/pkg/telemetry"
)

// Handler consumes the snapshot of a renderable message.
type Handler func(ctx context.Context, snap collection.Snapshot)

// delivery is the payload passed through the route dispatcher.
type delivery struct {
	ctx   context.Context
	route string
	snap  collection.Snapshot
}

// Feed routes messages to handlers. Deliveries are serialised: a message
// delivered while another is being routed, from a handler or another
// goroutine, is queued and routed once the current one completes.
type Feed struct {
	mu         sync.Mutex
	delivering bool
	pending    []delivery

	routes  *event.Dispatcher
	logger  *slog.Logger
	metrics *telemetry.Metrics
	client  *http.Client
	dialer  *websocket.Dialer
	header  http.Header
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(f *Feed) {
		f.metrics = m
	}
}

// WithHTTPClient sets the client used by Seed.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Feed) {
		if c != nil {
			f.client = c
		}
	}
}

// WithDialer sets the WebSocket dialer used by Follow.
func WithDialer(d *websocket.Dialer) Option {
	return func(f *Feed) {
		if d != nil {
			f.dialer = d
		}
	}
}

// WithHeader adds request headers to Seed and Follow requests.
func WithHeader(h http.Header) Option {
	return func(f *Feed) {
		f.header = h.Clone()
	}
}

// New creates a Feed with no routes.
func New(opts ...Option) *Feed {
	f := &Feed{
		logger: slog.Default(),
		client: http.DefaultClient,
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.routes = event.New(event.WithLogger(f.logger))
	return f
}

// Handle registers h for route.
func (f *Feed) Handle(route string, h Handler) {
	f.routes.On(route, func(data any) {
		d := data.(delivery)
		h(d.ctx, d.snap)
	})
}

// Bind renders every snapshot for route into rec.
func (f *Feed) Bind(route string, rec *collection.Reconciler) {
	f.Handle(route, func(ctx context.Context, snap collection.Snapshot) {
		rec.RenderContext(ctx, snap)
	})
}

// Unbind removes every handler for route and the routes beneath it.
func (f *Feed) Unbind(route string) {
	f.routes.Off(route)
}

// Deliver routes one message. Error-status messages are logged and
// dropped; an undecodable payload is returned as an error. Called from a
// route handler, Deliver queues the message and returns before it is routed.
func (f *Feed) Deliver(ctx context.Context, msg *protocol.Message) error {
	if err := msg.Validate(); err != nil {
		f.metrics.RecordFeedError("decode")
		return err
	}
	f.metrics.RecordMessage(msg.Route, msg.Status.String())

	if !msg.Status.Renderable() {
		f.logger.Warn("feed error message",
			"route", msg.Route,
			"error", msg.ErrorText(),
			"sent_at", msg.Time(),
		)
		return nil
	}

	snap, err := msg.Snapshot()
	if err != nil {
		f.metrics.RecordFeedError("decode")
		return err
	}
	if !f.routes.Has(msg.Route) {
		f.logger.Debug("feed message unrouted", "route", msg.Route)
		return nil
	}

	f.mu.Lock()
	f.pending = append(f.pending, delivery{ctx: ctx, route: msg.Route, snap: snap})
	if f.delivering {
		f.mu.Unlock()
		f.logger.Debug("feed delivery queued",
			"route", msg.Route,
			"code", "B012",
		)
		return nil
	}
	f.delivering = true
	for len(f.pending) > 0 {
		d := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		f.routes.Emit(d.route, d)
		f.mu.Lock()
	}
	f.delivering = false
	f.pending = nil
	f.mu.Unlock()
	return nil
}
