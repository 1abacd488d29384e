package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/collection"
	"github.com/vango-dev/bindui/pkg/protocol"
	"github.com/vango-dev/bindui/pkg/vtest"
)

const roomsMarkup = `<ul id="rooms"><li class="room"><span name="title"></span><span name="users"></span></li></ul>`

func newRooms(t *testing.T) *collection.Reconciler {
	t.Helper()
	fx := vtest.NewFixture(t, roomsMarkup, "", "li.room")
	rec, err := collection.New(fx.Container, fx.Template, collection.WithName("rooms"))
	require.NoError(t, err)
	return rec
}

func message(t *testing.T, route string, data any, status protocol.Status) *protocol.Message {
	t.Helper()
	m, err := protocol.NewMessage(route, data, status)
	require.NoError(t, err)
	return m
}

func TestDeliverRendersOKAndDone(t *testing.T) {
	rec := newRooms(t)
	f := New()
	f.Bind("rooms", rec)

	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r1"}, {"id": "r2"}}, protocol.StatusOK)))
	assert.Equal(t, []string{"r1", "r2"}, rec.Keys())

	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r2"}}, protocol.StatusDone)))
	assert.Equal(t, []string{"r2"}, rec.Keys())
}

func TestDeliverDropsErrorMessages(t *testing.T) {
	var buf bytes.Buffer
	rec := newRooms(t)
	f := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	f.Bind("rooms", rec)

	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r1"}}, protocol.StatusOK)))
	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", "room service down", protocol.StatusError)))

	assert.Equal(t, []string{"r1"}, rec.Keys())
	assert.Contains(t, buf.String(), "room service down")
}

func TestDeliverRoutes(t *testing.T) {
	rooms, lobby := newRooms(t), newRooms(t)
	f := New()
	f.Bind("rooms", rooms)
	f.Bind("rooms.lobby", lobby)

	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms.lobby", []map[string]any{{"id": "u1"}}, protocol.StatusOK)))
	assert.Equal(t, 0, rooms.Len(), "child routes do not reach the parent")
	assert.Equal(t, 1, lobby.Len())

	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r1"}}, protocol.StatusOK)))
	assert.Equal(t, []string{"r1"}, rooms.Keys())
	assert.Equal(t, []string{"r1"}, lobby.Keys(), "parent routes cascade")

	f.Unbind("rooms.lobby")
	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r2"}}, protocol.StatusOK)))
	assert.Equal(t, []string{"r1"}, lobby.Keys())

	require.NoError(t, f.Deliver(t.Context(), message(t, "nowhere", nil, protocol.StatusOK)))
}

func TestDeliverRejectsBadMessages(t *testing.T) {
	f := New()
	f.Handle("rooms", func(context.Context, collection.Snapshot) { t.Error("handler called") })

	err := f.Deliver(t.Context(), &protocol.Message{Status: protocol.StatusOK})
	assert.True(t, binderrors.Is(err, "B030"))

	err = f.Deliver(t.Context(), &protocol.Message{Route: "rooms", Status: protocol.StatusOK, Data: json.RawMessage(`"x"`)})
	assert.True(t, binderrors.Is(err, "B031"))
}

func TestDeliverFromHandlerIsQueued(t *testing.T) {
	var buf bytes.Buffer
	rec := newRooms(t)
	f := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	f.Bind("rooms", rec)

	var order []string
	f.Handle("ping", func(ctx context.Context, _ collection.Snapshot) {
		order = append(order, "ping start")
		assert.NoError(t, f.Deliver(ctx, message(t, "rooms", []map[string]any{{"id": "r1"}}, protocol.StatusOK)))
		assert.Equal(t, 0, rec.Len(), "nested message is routed after the current one")
		order = append(order, "ping end")
	})
	rec.On(collection.EventCreate, func(data any) { order = append(order, "create "+data.(string)) })

	done := make(chan error, 1)
	go func() { done <- f.Deliver(t.Context(), message(t, "ping", nil, protocol.StatusOK)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("nested Deliver blocked")
	}

	assert.Equal(t, []string{"ping start", "ping end", "create r1"}, order)
	assert.Equal(t, []string{"r1"}, rec.Keys())
	assert.Contains(t, buf.String(), "B012")

	// The feed is usable again after the queue drains.
	require.NoError(t, f.Deliver(t.Context(), message(t, "rooms", []map[string]any{{"id": "r2"}}, protocol.StatusOK)))
	assert.Equal(t, []string{"r2"}, rec.Keys())
}

func TestSeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "r1", "title": "Lobby", "users": 3}, {"id": "r2", "title": "Dev", "users": 0}]`))
	}))
	defer srv.Close()

	rec := newRooms(t)
	f := New(WithHeader(http.Header{"X-Token": []string{"secret"}}))
	f.Bind("rooms", rec)

	require.NoError(t, f.Seed(t.Context(), srv.URL, "rooms"))
	assert.Equal(t, []string{"r1", "r2"}, rec.Keys())
	vtest.ExpectContains(t, rec.Container(), `<span name="title">Lobby</span><span name="users">3</span>`)
}

func TestSeedHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := New().Seed(t.Context(), srv.URL, "rooms")
	require.Error(t, err)
	assert.True(t, binderrors.Is(err, "B032"))
	assert.Contains(t, err.Error(), "503")
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer upgrades one connection and hands it to serve.
func wsServer(t *testing.T, serve func(c *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()
		serve(c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func writeJSON(t *testing.T, c *websocket.Conn, m *protocol.Message) {
	t.Helper()
	b, err := protocol.Encode(m)
	require.NoError(t, err)
	require.NoError(t, c.WriteMessage(websocket.TextMessage, b))
}

func TestFollowDeliversInOrder(t *testing.T) {
	url := wsServer(t, func(c *websocket.Conn) {
		writeJSON(t, c, message(t, "rooms", []map[string]any{{"id": "r1"}, {"id": "r2"}}, protocol.StatusOK))
		c.WriteMessage(websocket.TextMessage, []byte(`garbage`))
		writeJSON(t, c, message(t, "rooms", "transient failure", protocol.StatusError))
		writeJSON(t, c, message(t, "rooms", []map[string]any{{"id": "r2", "title": "Dev"}, {"id": "r3"}}, protocol.StatusDone))
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// Wait for the client to close.
		c.SetReadDeadline(time.Now().Add(5 * time.Second))
		c.ReadMessage()
	})

	rec := newRooms(t)
	calls := vtest.NewRecorder()
	rec.On(collection.EventCreate, calls.Handler("create"))

	f := New()
	f.Bind("rooms", rec)

	require.NoError(t, f.Follow(t.Context(), url))
	assert.Equal(t, []string{"r2", "r3"}, rec.Keys())
	assert.Equal(t, []any{"r1", "r2", "r3"}, calls.Data("create"))
}

func TestFollowStopsOnCancel(t *testing.T) {
	url := wsServer(t, func(c *websocket.Conn) {
		c.SetReadDeadline(time.Now().Add(5 * time.Second))
		c.ReadMessage()
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- New().Follow(ctx, url) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestFollowDialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	err := New().Follow(t.Context(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.Error(t, err)
	assert.True(t, binderrors.Is(err, "B032"))
}
