package collection

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/bindui/pkg/component"
	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/telemetry"
)

// Default configuration values.
const (
	DefaultPrimaryKey = "id"
	DefaultName       = "collection"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithName labels the reconciler in logs, metrics and spans.
func WithName(name string) Option {
	return func(r *Reconciler) {
		if name != "" {
			r.name = name
		}
	}
}

// WithPrimaryKey sets the field that holds the key of List entries.
func WithPrimaryKey(field string) Option {
	return func(r *Reconciler) {
		if field != "" {
			r.primaryKey = field
		}
	}
}

// WithMaxElements caps the number of entries rendered from one snapshot.
// Entries past the cap are skipped. Zero means unlimited.
func WithMaxElements(n int) Option {
	return func(r *Reconciler) {
		if n >= 0 {
			r.maxElements = n
		}
	}
}

// WithCloneTemplate controls whether new entries use a clone of the
// template. When false the template node itself backs the first new entry
// and later entries use clones of its pristine state.
func WithCloneTemplate(clone bool) Option {
	return func(r *Reconciler) {
		r.cloneTemplate = clone
	}
}

// WithRemoveTemplate controls whether the template is detached from its
// parent when the reconciler is created.
func WithRemoveTemplate(remove bool) Option {
	return func(r *Reconciler) {
		r.removeTemplate = remove
	}
}

// WithRemoveDeadTemplates controls the dead-entry sweep. Disable it to
// render single entries without dropping the others.
func WithRemoveDeadTemplates(remove bool) Option {
	return func(r *Reconciler) {
		r.removeDead = remove
	}
}

// WithKind builds each entry's component from the registry kind instead of
// a plain component.Component. Requires WithRegistry.
func WithKind(kind string) Option {
	return func(r *Reconciler) {
		r.kind = kind
	}
}

// WithRegistry sets the registry used for WithKind and for composition
// inside entries.
func WithRegistry(reg *component.Registry) Option {
	return func(r *Reconciler) {
		r.registry = reg
	}
}

// WithComponentOptions passes options to every plain entry component.
func WithComponentOptions(opts ...component.Option) Option {
	return func(r *Reconciler) {
		r.componentOpts = append(r.componentOpts, opts...)
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithTracer sets the tracer for render spans. The default resolves
// telemetry.DefaultTracerName from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reconciler) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// MutationSink receives the structural container mutations of one render
// in the order they happened.
type MutationSink func(mutations []dom.Mutation)

// WithMutationSink observes the container during each render and hands the
// recorded mutations to sink. Renders that change nothing structural do not
// call sink.
func WithMutationSink(sink MutationSink) Option {
	return func(r *Reconciler) {
		r.sink = sink
	}
}
