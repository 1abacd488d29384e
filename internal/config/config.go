package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/collection"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bindui.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BINDUI_"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultRoute is the default feed route.
	DefaultRoute = "rooms"

	// DefaultDialTimeout is the default feed dial timeout.
	DefaultDialTimeout = "10s"

	// DefaultMetricsAddr is the default metrics listen address.
	DefaultMetricsAddr = ":9464"
)

// Config represents the complete bindui.json configuration.
type Config struct {
	// Name labels the application in logs and metrics.
	Name string `json:"name,omitempty" env:"NAME"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" envPrefix:"LOG_"`

	// Collection contains reconciler defaults.
	Collection CollectionConfig `json:"collection" envPrefix:"COLLECTION_"`

	// Feed contains transport configuration.
	Feed FeedConfig `json:"feed" envPrefix:"FEED_"`

	// Metrics contains the metrics endpoint configuration.
	Metrics MetricsConfig `json:"metrics" envPrefix:"METRICS_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// CollectionConfig contains reconciler settings.
type CollectionConfig struct {
	// PrimaryKey is the key field of list entries.
	PrimaryKey string `json:"primaryKey,omitempty" env:"PRIMARY_KEY"`

	// MaxElements caps the entries rendered per snapshot (0 = unlimited).
	MaxElements int `json:"maxElements,omitempty" env:"MAX_ELEMENTS"`

	// CloneTemplate renders new entries from template clones.
	CloneTemplate bool `json:"cloneTemplate" env:"CLONE_TEMPLATE"`

	// RemoveTemplate detaches the template at startup.
	RemoveTemplate bool `json:"removeTemplate" env:"REMOVE_TEMPLATE"`

	// RemoveDead enables the dead-entry sweep.
	RemoveDead bool `json:"removeDead" env:"REMOVE_DEAD"`
}

// FeedConfig contains transport settings.
type FeedConfig struct {
	// URL is the WebSocket endpoint to follow.
	URL string `json:"url,omitempty" env:"URL"`

	// SeedURL is the listing endpoint fetched before following.
	SeedURL string `json:"seedUrl,omitempty" env:"SEED_URL"`

	// Route is the route the seed listing is delivered to.
	Route string `json:"route,omitempty" env:"ROUTE"`

	// DialTimeout bounds the WebSocket handshake (e.g., "10s").
	DialTimeout string `json:"dialTimeout,omitempty" env:"DIAL_TIMEOUT"`
}

// MetricsConfig contains the metrics endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics and /healthz. Empty disables
	// the endpoint.
	Addr string `json:"addr,omitempty" env:"ADDR"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Collection: CollectionConfig{
			PrimaryKey:     collection.DefaultPrimaryKey,
			CloneTemplate:  true,
			RemoveTemplate: true,
			RemoveDead:     true,
		},
		Feed: FeedConfig{
			Route:       DefaultRoute,
			DialTimeout: DefaultDialTimeout,
		},
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for bindui.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("B040").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or rely on BINDUI_ environment variables")
		}
		return nil, errors.New("B040").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("B040").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}
	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the nearest bindui.json at or above startDir. Without one
// it returns the defaults with environment overrides applied.
func Resolve(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		cfg := New()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(root)
}

// ApplyEnv overrides fields from BINDUI_ environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("B040").
			WithDetail("Invalid environment override").
			Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("B040").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("B040").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Collection.PrimaryKey == "" {
		c.Collection.PrimaryKey = collection.DefaultPrimaryKey
	}
	if c.Feed.Route == "" {
		c.Feed.Route = DefaultRoute
	}
	if c.Feed.DialTimeout == "" {
		c.Feed.DialTimeout = DefaultDialTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := levels[c.Log.Level]; !ok {
		return errors.New("B040").
			WithDetailf("Unknown log level %q", c.Log.Level).
			WithSuggestion("Use debug, info, warn or error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("B040").
			WithDetailf("Unknown log format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if c.Collection.MaxElements < 0 {
		return errors.New("B040").
			WithDetail("collection.maxElements must not be negative")
	}
	if _, err := time.ParseDuration(c.Feed.DialTimeout); err != nil {
		return errors.New("B040").
			WithDetailf("Invalid feed.dialTimeout %q", c.Feed.DialTimeout).
			Wrap(err)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := levels[c.Log.Level]; ok {
		return l
	}
	return slog.LevelInfo
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var h slog.Handler
	if c.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	if c.Name != "" {
		logger = logger.With("app", c.Name)
	}
	return logger
}

// DialTimeout returns the parsed feed dial timeout.
func (c *Config) DialTimeout() time.Duration {
	d, err := time.ParseDuration(c.Feed.DialTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDialTimeout)
	}
	return d
}

// CollectionOptions returns the reconciler options for the configured
// collection settings.
func (c *Config) CollectionOptions() []collection.Option {
	return []collection.Option{
		collection.WithPrimaryKey(c.Collection.PrimaryKey),
		collection.WithMaxElements(c.Collection.MaxElements),
		collection.WithCloneTemplate(c.Collection.CloneTemplate),
		collection.WithRemoveTemplate(c.Collection.RemoveTemplate),
		collection.WithRemoveDeadTemplates(c.Collection.RemoveDead),
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing bindui.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("B040").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
