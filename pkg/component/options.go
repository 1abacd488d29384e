package component

import (
	"log/slog"
)

// ProcessFunc transforms render data before it is bound. It receives a
// private copy and may modify it in place.
type ProcessFunc func(data map[string]any) map[string]any

// Option configures a Component.
type Option func(*Component)

// WithSelectors declares named nodes by CSS selector in addition to the
// name/data-name scan. A selector entry replaces a scanned entry with the
// same name.
func WithSelectors(selectors map[string]string) Option {
	return func(c *Component) {
		for name, sel := range selectors {
			c.selectors[name] = sel
		}
	}
}

// WithProcess sets the hook run on render data before binding.
func WithProcess(fn ProcessFunc) Option {
	return func(c *Component) {
		c.process = fn
	}
}

// WithMount sets a hook that runs on the first render only, after the data
// has been bound.
func WithMount(fn func(c *Component)) Option {
	return func(c *Component) {
		c.mount = fn
	}
}

// WithRegistry enables composition: named descendants whose tag is a kind
// registered in reg become nested components.
func WithRegistry(reg *Registry) Option {
	return func(c *Component) {
		c.registry = reg
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}
