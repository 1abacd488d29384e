package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/objutil"
)

// Shape identifies a snapshot variant.
type Shape int

const (
	ShapeList Shape = iota + 1
	ShapeMapping
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeMapping:
		return "mapping"
	case ShapeObject:
		return "object"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Snapshot is the data passed to Render. It is implemented by List,
// Mapping and Object only.
type Snapshot interface {
	Shape() Shape
	normalize(primaryKey string) ([]entry, []skip)
}

// entry is one (key, data) pair in snapshot order.
type entry struct {
	key  string
	data any
}

// skip is a List entry that carried no usable key.
type skip struct {
	index int
	data  map[string]any
}

// List is an ordered snapshot. Every entry must carry the primary-key field.
type List []map[string]any

// Shape implements Snapshot.
func (List) Shape() Shape { return ShapeList }

func (l List) normalize(primaryKey string) ([]entry, []skip) {
	entries := make([]entry, 0, len(l))
	var skipped []skip
	for i, m := range l {
		key, ok := KeyString(m[primaryKey])
		if !ok {
			skipped = append(skipped, skip{index: i, data: m})
			continue
		}
		entries = append(entries, entry{key: key, data: m})
	}
	return entries, skipped
}

// ListOf converts a slice of view-model structs (or maps) into a List.
func ListOf[T any](items []T) (List, error) {
	out := make(List, 0, len(items))
	for i, item := range items {
		m, err := objutil.ToMap(item)
		if err != nil {
			return nil, binderrors.New("B013").WithDetailf("list item %d", i).Wrap(err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Mapping is an insertion-ordered key → entry snapshot. Its keys are the
// reconciliation keys.
type Mapping struct {
	*orderedmap.OrderedMap[string, any]
}

// NewMapping creates an empty Mapping.
func NewMapping() Mapping {
	return Mapping{orderedmap.New[string, any]()}
}

// MappingOf builds a Mapping from alternating key, entry pairs.
func MappingOf(pairs ...orderedmap.Pair[string, any]) Mapping {
	m := NewMapping()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Shape implements Snapshot.
func (Mapping) Shape() Shape { return ShapeMapping }

func (m Mapping) normalize(string) ([]entry, []skip) {
	if m.OrderedMap == nil {
		return nil, nil
	}
	entries := make([]entry, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		entries = append(entries, entry{key: p.Key, data: p.Value})
	}
	return entries, nil
}

// Object is an object-of-objects snapshot. Keys are visited in sorted order.
type Object map[string]any

// Shape implements Snapshot.
func (Object) Shape() Shape { return ShapeObject }

func (o Object) normalize(string) ([]entry, []skip) {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{key: k, data: o[k]})
	}
	return entries, nil
}

// ParseSnapshot decodes JSON into a Snapshot: arrays become a List and
// objects a Mapping that keeps the document's key order. null decodes to
// an empty List.
func ParseSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, binderrors.New("B031").WithDetail("empty document")
	}
	switch trimmed[0] {
	case '[':
		var l List
		if err := json.Unmarshal(trimmed, &l); err != nil {
			return nil, binderrors.New("B031").Wrap(err)
		}
		return l, nil
	case '{':
		m := NewMapping()
		if err := json.Unmarshal(trimmed, m.OrderedMap); err != nil {
			return nil, binderrors.New("B031").Wrap(err)
		}
		return m, nil
	case 'n':
		if string(trimmed) == "null" {
			return List{}, nil
		}
	}
	return nil, binderrors.New("B031").WithDetailf("expected array or object, got %q", truncate(trimmed, 16))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// KeyString converts a primary-key value to a reconciliation key. Strings
// are used as-is and numbers in their shortest decimal form. nil, empty
// strings and NaN are not keys.
func KeyString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case json.Number:
		return val.String(), val != ""
	case float64:
		if math.IsNaN(val) {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		if math.IsNaN(float64(val)) {
			return "", false
		}
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case fmt.Stringer:
		s := val.String()
		return s, s != ""
	default:
		s := fmt.Sprint(v)
		return s, s != ""
	}
}
