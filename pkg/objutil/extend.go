package objutil

import (
	"fmt"
	"maps"

	"dario.cat/mergo"
	"github.com/mitchellh/copystructure"
)

// Extend merges sources into target, left to right, and returns target.
// A nil target is replaced by a new map. Keys of target absent from every
// source are kept; nil and empty source values overwrite.
//
// In deep mode, nested objects are merged recursively and every source is
// copied first, so target never aliases a source's nested values. Arrays
// replace rather than merge. In shallow mode source values are assigned
// as-is.
func Extend(deep bool, target map[string]any, sources ...map[string]any) (map[string]any, error) {
	if target == nil {
		target = make(map[string]any)
	}
	for _, src := range sources {
		if len(src) == 0 {
			continue
		}
		if !deep {
			maps.Copy(target, src)
			continue
		}
		cp, err := copystructure.Copy(src)
		if err != nil {
			return target, fmt.Errorf("objutil: copy extend source: %w", err)
		}
		if err := mergo.Merge(&target, cp.(map[string]any), mergo.WithOverride); err != nil {
			return target, fmt.Errorf("objutil: extend: %w", err)
		}
	}
	return target, nil
}
