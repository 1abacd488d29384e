package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/collection"
)

// Status is the outcome carried by a message.
type Status int

const (
	StatusError Status = 0
	StatusOK    Status = 1
	StatusDone  Status = 2
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusOK:
		return "ok"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusError && s <= StatusDone
}

// Renderable reports whether messages with this status carry a snapshot.
func (s Status) Renderable() bool {
	return s == StatusOK || s == StatusDone
}

// Message is the transport envelope.
type Message struct {
	Route     string          `json:"route"`
	Data      json.RawMessage `json:"data,omitempty"`
	Status    Status          `json:"status"`
	Timestamp int64           `json:"timestamp"`
}

// NewMessage encodes data as the payload and stamps the current time in
// Unix milliseconds. data may already be a json.RawMessage or []byte of
// JSON.
func NewMessage(route string, data any, status Status) (*Message, error) {
	var raw json.RawMessage
	switch v := data.(type) {
	case nil:
	case json.RawMessage:
		raw = v
	case []byte:
		raw = json.RawMessage(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, binderrors.New("B030").WithDetailf("route %q", route).Wrap(err)
		}
		raw = b
	}
	return &Message{
		Route:     route,
		Data:      raw,
		Status:    status,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Time returns the timestamp as a time.Time.
func (m *Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Validate checks the fields Decode relies on.
func (m *Message) Validate() error {
	if m.Route == "" {
		return binderrors.New("B030").WithDetail("missing route")
	}
	if !m.Status.Valid() {
		return binderrors.New("B030").WithDetailf("route %q: unknown status %d", m.Route, int(m.Status))
	}
	return nil
}

// Encode returns the JSON form of m.
func Encode(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Decode parses and validates a message.
func Decode(data []byte) (*Message, error) {
	if len(data) > MaxMessageSize {
		return nil, binderrors.New("B030").WithDetailf("message of %d bytes exceeds %d", len(data), MaxMessageSize)
	}
	// The envelope itself adds one level.
	if d := jsonDepth(data, MaxDataDepth+1); d > MaxDataDepth+1 {
		return nil, binderrors.New("B030").WithDetailf("payload nested deeper than %d", MaxDataDepth)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, binderrors.New("B030").Wrap(err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Snapshot decodes the payload into a collection snapshot. An absent
// payload is an empty List.
func (m *Message) Snapshot() (collection.Snapshot, error) {
	if len(m.Data) == 0 {
		return collection.List{}, nil
	}
	snap, err := collection.ParseSnapshot(m.Data)
	if err != nil {
		return nil, binderrors.New("B031").WithDetailf("route %q", m.Route).Wrap(err)
	}
	return snap, nil
}

// ErrorText returns the payload of an error message as text: JSON strings
// are unquoted, an object's "message" or "error" field is used when
// present, and anything else is returned raw.
func (m *Message) ErrorText() string {
	if len(m.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Data, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(m.Data, &obj); err == nil {
		for _, k := range []string{"message", "error"} {
			if v, ok := obj[k].(string); ok {
				return v
			}
		}
	}
	return string(m.Data)
}
