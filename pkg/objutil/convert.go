package objutil

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Clone returns a deep copy of v.
func Clone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return copystructure.Copy(v)
}

// CloneMap deep-copies an object. It panics only if copystructure cannot
// walk the value, which does not happen for JSON-shaped data.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return copystructure.Must(copystructure.Copy(m)).(map[string]any)
}

// ToMap converts render input to an object. Maps with string keys are
// returned as map[string]any; structs (and pointers to structs) are decoded
// field by field honoring `json` tags, nested structs included.
func ToMap(v any) (map[string]any, error) {
	switch val := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return val, nil
	}

	out := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("objutil: convert %T: %w", v, err)
	}
	return out, nil
}
