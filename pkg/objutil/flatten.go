package objutil

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Separator joins path segments in flattened keys.
const Separator = "."

// Flatten turns nested objects into a single-level map keyed by dot paths.
//
//	Flatten({"a": {"b": 1}, "c": [true]}) → {"a.b": 1, "c.0": true}
//
// Empty objects and arrays are kept as leaves so Unflatten can restore them.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		flattenInto(out, k, v)
	}
	return out
}

func flattenInto(out map[string]any, prefix string, v any) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			out[prefix] = val
			return
		}
		for k, child := range val {
			flattenInto(out, prefix+Separator+k, child)
		}
	case []any:
		if len(val) == 0 {
			out[prefix] = val
			return
		}
		for i, child := range val {
			flattenInto(out, prefix+Separator+strconv.Itoa(i), child)
		}
	default:
		rv := reflect.ValueOf(v)
		switch {
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && rv.Len() > 0:
			iter := rv.MapRange()
			for iter.Next() {
				flattenInto(out, prefix+Separator+iter.Key().String(), iter.Value().Interface())
			}
		case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 && rv.Len() > 0:
			for i := 0; i < rv.Len(); i++ {
				flattenInto(out, prefix+Separator+strconv.Itoa(i), rv.Index(i).Interface())
			}
		default:
			out[prefix] = v
		}
	}
}

// Unflatten reverses Flatten. Keys are applied in sorted order, so a deeper
// path always wins over a scalar stored at one of its prefixes.
// Numeric segments produce object keys, not arrays.
func Unflatten(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, Separator)
		cur := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := cur[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[part] = next
			}
			cur = next
		}
		last := parts[len(parts)-1]
		if existing, ok := cur[last].(map[string]any); ok && len(existing) > 0 {
			// A deeper key already populated this object.
			continue
		}
		cur[last] = flat[key]
	}
	return out
}

// Lookup resolves a dot path inside nested objects.
func Lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, Separator) {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
