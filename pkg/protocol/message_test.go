package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/collection"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status     Status
		name       string
		valid      bool
		renderable bool
	}{
		{StatusError, "error", true, false},
		{StatusOK, "ok", true, true},
		{StatusDone, "done", true, true},
		{Status(3), "Status(3)", false, false},
		{Status(-1), "Status(-1)", false, false},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("%v.Valid() = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.Renderable(); got != tt.renderable {
			t.Errorf("%v.Renderable() = %v, want %v", tt.status, got, tt.renderable)
		}
	}
}

func TestNewMessage(t *testing.T) {
	before := time.Now().UnixMilli()
	m, err := NewMessage("rooms", []map[string]any{{"id": "r1"}}, StatusOK)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	if m.Timestamp < before {
		t.Errorf("Timestamp = %d, want >= %d", m.Timestamp, before)
	}
	if string(m.Data) != `[{"id":"r1"}]` {
		t.Errorf("Data = %s", m.Data)
	}

	raw, _ := NewMessage("rooms", json.RawMessage(`{"a":1}`), StatusDone)
	if string(raw.Data) != `{"a":1}` {
		t.Errorf("raw Data = %s", raw.Data)
	}

	if _, err := NewMessage("rooms", make(chan int), StatusOK); !binderrors.Is(err, "B030") {
		t.Errorf("unmarshalable data error = %v, want B030", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	m, _ := NewMessage("rooms", map[string]any{"r1": map[string]any{"title": "Lobby"}}, StatusOK)
	b, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Route != "rooms" || got.Status != StatusOK || got.Timestamp != m.Timestamp {
		t.Errorf("Decode() = %+v, want %+v", got, m)
	}
	if !got.Time().Equal(time.UnixMilli(m.Timestamp)) {
		t.Errorf("Time() = %v", got.Time())
	}
}

func TestEncodeValidates(t *testing.T) {
	if _, err := Encode(&Message{Status: StatusOK}); !binderrors.Is(err, "B030") {
		t.Errorf("Encode(no route) error = %v, want B030", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `nope`},
		{"missing route", `{"status": 1}`},
		{"unknown status", `{"route": "rooms", "status": 7}`},
		{"wrong type", `{"route": 5, "status": 1}`},
		{"too deep", `{"route": "rooms", "status": 1, "data": ` + strings.Repeat("[", MaxDataDepth+1) + strings.Repeat("]", MaxDataDepth+1) + `}`},
		{"too large", `{"route": "` + strings.Repeat("x", MaxMessageSize) + `", "status": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.in)); !binderrors.Is(err, "B030") {
				t.Errorf("Decode() error = %v, want B030", err)
			}
		})
	}
}

func TestDecodeAllowsMaxDepth(t *testing.T) {
	data := strings.Repeat("[", MaxDataDepth) + strings.Repeat("]", MaxDataDepth)
	in := `{"route": "rooms", "status": 1, "data": ` + data + `, "note": "[[[[["}`
	if _, err := Decode([]byte(in)); err != nil {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	m, _ := Decode([]byte(`{"route": "rooms", "status": 1, "data": [{"id": "r1"}]}`))
	snap, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Shape() != collection.ShapeList {
		t.Errorf("Shape() = %v, want list", snap.Shape())
	}

	m, _ = Decode([]byte(`{"route": "rooms", "status": 2, "data": {"r1": {}}}`))
	if snap, _ := m.Snapshot(); snap.Shape() != collection.ShapeMapping {
		t.Errorf("Shape() = %v, want mapping", snap.Shape())
	}

	m, _ = Decode([]byte(`{"route": "rooms", "status": 1}`))
	if snap, err := m.Snapshot(); err != nil || snap.Shape() != collection.ShapeList {
		t.Errorf("empty Snapshot() = %v, %v", snap, err)
	}

	m, _ = Decode([]byte(`{"route": "rooms", "status": 1, "data": "text"}`))
	if _, err := m.Snapshot(); !binderrors.Is(err, "B031") {
		t.Errorf("Snapshot(string) error = %v, want B031", err)
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{``, ""},
		{`"room not found"`, "room not found"},
		{`{"message": "denied"}`, "denied"},
		{`{"error": "boom", "code": 3}`, "boom"},
		{`42`, "42"},
	}
	for _, tt := range tests {
		m := &Message{Route: "rooms", Data: json.RawMessage(tt.data)}
		if got := m.ErrorText(); got != tt.want {
			t.Errorf("ErrorText(%s) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
