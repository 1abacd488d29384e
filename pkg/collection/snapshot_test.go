package collection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	binderrors "github.com/vango-dev/bindui/internal/errors"
)

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`[{"id": "r1", "title": "Lobby"}, {"id": 2}]`))
	require.NoError(t, err)
	require.Equal(t, ShapeList, snap.Shape())
	entries, skipped := snap.normalize("id")
	assert.Empty(t, skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, "r1", entries[0].key)
	assert.Equal(t, "2", entries[1].key)

	snap, err = ParseSnapshot([]byte(` {"zed": {"title": "Z"}, "amy": {"title": "A"}} `))
	require.NoError(t, err)
	require.Equal(t, ShapeMapping, snap.Shape())
	entries, _ = snap.normalize("id")
	require.Len(t, entries, 2)
	assert.Equal(t, "zed", entries[0].key, "document order is kept")
	assert.Equal(t, map[string]any{"title": "A"}, entries[1].data)

	snap, err = ParseSnapshot([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, List{}, snap)
}

func TestParseSnapshotErrors(t *testing.T) {
	for _, in := range []string{"", "   ", `"rooms"`, "42", "[1, 2]", `{"a": }`, "nul"} {
		_, err := ParseSnapshot([]byte(in))
		assert.True(t, binderrors.Is(err, "B031"), "input %q: %v", in, err)
	}
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "list", ShapeList.String())
	assert.Equal(t, "mapping", ShapeMapping.String())
	assert.Equal(t, "object", ShapeObject.String())
	assert.Equal(t, "Shape(9)", Shape(9).String())
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"u1", "u1", true},
		{"", "", false},
		{nil, "", false},
		{float64(42), "42", true},
		{1.5, "1.5", true},
		{math.NaN(), "", false},
		{7, "7", true},
		{int64(-3), "-3", true},
		{uint(9), "9", true},
		{true, "true", true},
	}
	for _, tt := range tests {
		got, ok := KeyString(tt.in)
		assert.Equal(t, tt.ok, ok, "KeyString(%#v)", tt.in)
		assert.Equal(t, tt.want, got, "KeyString(%#v)", tt.in)
	}
}

func TestEmptyMappingNormalizes(t *testing.T) {
	entries, skipped := Mapping{}.normalize("id")
	assert.Empty(t, entries)
	assert.Empty(t, skipped)
}
