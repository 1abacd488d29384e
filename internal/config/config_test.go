package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/bindui/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Collection.PrimaryKey != "id" {
		t.Errorf("Collection.PrimaryKey = %q, want id", cfg.Collection.PrimaryKey)
	}
	if !cfg.Collection.CloneTemplate || !cfg.Collection.RemoveTemplate || !cfg.Collection.RemoveDead {
		t.Errorf("Collection = %+v, want all switches on", cfg.Collection)
	}
	if cfg.Feed.Route != DefaultRoute {
		t.Errorf("Feed.Route = %q, want %q", cfg.Feed.Route, DefaultRoute)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.Is(err, "B040") {
		t.Errorf("Load(missing) error = %v, want B040", err)
	}

	writeConfig(t, tmpDir, `{
  "name": "chat",
  "log": {"level": "DEBUG", "format": "json"},
  "collection": {"primaryKey": "slug", "maxElements": 50, "removeDead": false},
  "feed": {"url": "ws://localhost:8080/ws"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "chat" {
		t.Errorf("Name = %q, want chat", cfg.Name)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Collection.PrimaryKey != "slug" || cfg.Collection.MaxElements != 50 {
		t.Errorf("Collection = %+v", cfg.Collection)
	}
	if cfg.Collection.RemoveDead {
		t.Error("Collection.RemoveDead = true, want false")
	}
	if !cfg.Collection.CloneTemplate {
		t.Error("unset switches keep their defaults")
	}
	if cfg.Feed.Route != DefaultRoute || cfg.Feed.DialTimeout != DefaultDialTimeout {
		t.Errorf("Feed = %+v, want defaults filled in", cfg.Feed)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"log": `},
		{"bad level", `{"log": {"level": "loud"}}`},
		{"bad format", `{"log": {"format": "xml"}}`},
		{"negative max", `{"collection": {"maxElements": -1}}`},
		{"bad timeout", `{"feed": {"dialTimeout": "soon"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			if _, err := Load(dir); !errors.Is(err, "B040") {
				t.Errorf("Load() error = %v, want B040", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"log": {"level": "warn"}, "feed": {"url": "ws://file/ws"}}`)

	t.Setenv("BINDUI_LOG_LEVEL", "error")
	t.Setenv("BINDUI_COLLECTION_PRIMARY_KEY", "room_id")
	t.Setenv("BINDUI_COLLECTION_REMOVE_DEAD", "false")
	t.Setenv("BINDUI_COLLECTION_MAX_ELEMENTS", "5")
	t.Setenv("BINDUI_FEED_URL", "ws://env/ws")
	t.Setenv("BINDUI_METRICS_ADDR", "127.0.0.1:9000")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
	if cfg.Collection.PrimaryKey != "room_id" || cfg.Collection.MaxElements != 5 || cfg.Collection.RemoveDead {
		t.Errorf("Collection = %+v", cfg.Collection)
	}
	if cfg.Feed.URL != "ws://env/ws" {
		t.Errorf("Feed.URL = %q, want ws://env/ws", cfg.Feed.URL)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9000" {
		t.Errorf("Metrics.Addr = %q", cfg.Metrics.Addr)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("BINDUI_COLLECTION_MAX_ELEMENTS", "many")
	if _, err := Resolve(t.TempDir()); !errors.Is(err, "B040") {
		t.Errorf("Resolve() error = %v, want B040", err)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"name": "chat"}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(nested)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Name != "chat" {
		t.Errorf("Name = %q, want chat (found upward)", cfg.Name)
	}

	found, err := FindProjectRoot(nested)
	if err != nil || found != root {
		t.Errorf("FindProjectRoot() = %q, %v, want %q", found, err, root)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "chat"
	cfg.Collection.RemoveDead = false

	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "chat" || loaded.Collection.RemoveDead {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Name = "chat"
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"app":"chat"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestDialTimeout(t *testing.T) {
	cfg := New()
	if cfg.DialTimeout() != 10*time.Second {
		t.Errorf("DialTimeout() = %v, want 10s", cfg.DialTimeout())
	}
	cfg.Feed.DialTimeout = "garbage"
	if cfg.DialTimeout() != 10*time.Second {
		t.Errorf("DialTimeout() fallback = %v, want 10s", cfg.DialTimeout())
	}
}

func TestCollectionOptions(t *testing.T) {
	cfg := New()
	if got := len(cfg.CollectionOptions()); got != 5 {
		t.Errorf("len(CollectionOptions()) = %d, want 5", got)
	}
}
