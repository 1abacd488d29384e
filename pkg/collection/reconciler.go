package collection

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/component"
	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/event"
	"github.com/vango-dev/bindui/pkg/objutil"
	"github.com/vango-dev/bindui/pkg/telemetry"
)

// Events emitted by a Reconciler. The payload is the entry key.
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventRemove = "remove"
)

// Skip reasons reported in logs and metrics.
const (
	reasonKeyMissing   = "key_missing"
	reasonMaxElements  = "max_elements"
	reasonInvalidEntry = "invalid_entry"
)

// Reconciler keeps one component per key inside a container.
type Reconciler struct {
	container *dom.Node
	template  *dom.Node
	prototype *dom.Node
	adopted   bool

	name           string
	primaryKey     string
	maxElements    int
	cloneTemplate  bool
	removeTemplate bool
	removeDead     bool
	kind           string
	registry       *component.Registry
	componentOpts  []component.Option

	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	sink    MutationSink
	events  *event.Dispatcher

	elements  map[string]component.Bindable
	order     []string
	rendering bool
}

// New creates a Reconciler that renders clones of template into container.
// A nil container or template, or a kind missing from the registry, is a
// configuration error.
func New(container, template *dom.Node, opts ...Option) (*Reconciler, error) {
	if container == nil {
		return nil, binderrors.New("B003")
	}
	if template == nil {
		return nil, binderrors.New("B002")
	}

	r := &Reconciler{
		container:      container,
		template:       template,
		name:           DefaultName,
		primaryKey:     DefaultPrimaryKey,
		cloneTemplate:  true,
		removeTemplate: true,
		removeDead:     true,
		logger:         slog.Default(),
		elements:       make(map[string]component.Bindable),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = telemetry.Tracer("")
	}
	if r.kind != "" {
		if r.registry == nil {
			return nil, binderrors.New("B004").
				WithDetailf("kind %q set without a registry", r.kind).
				WithSuggestion("Pass collection.WithRegistry alongside collection.WithKind")
		}
		if !r.registry.Has(r.kind) {
			return nil, binderrors.New("B004").WithDetailf("kind %q", r.kind)
		}
	}
	r.events = event.New(event.WithLogger(r.logger))

	if r.removeTemplate {
		template.Remove()
	}
	if !r.cloneTemplate {
		r.prototype = template.Clone()
	}
	return r, nil
}

// Render reconciles the container with snap. It always returns r.
func (r *Reconciler) Render(snap Snapshot) *Reconciler {
	return r.RenderContext(context.Background(), snap)
}

// RenderContext is Render with a parent context for the render span.
func (r *Reconciler) RenderContext(ctx context.Context, snap Snapshot) *Reconciler {
	if r.rendering {
		r.logger.Warn("collection render rejected",
			"collection", r.name,
			"code", "B012",
			"error", binderrors.New("B012"),
		)
		r.metrics.RecordRejected(r.name)
		return r
	}
	if snap == nil {
		snap = List{}
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	start := time.Now()
	_, span := r.tracer.Start(ctx, "bindui.collection.render",
		trace.WithAttributes(
			attribute.String("bindui.collection", r.name),
			attribute.String("bindui.snapshot_shape", snap.Shape().String()),
		),
	)

	var obs *dom.Observer
	if r.sink != nil {
		obs = dom.NewObserver(dom.StructuralOnly)
		obs.Observe(r.container)
	}

	entries, skipped := snap.normalize(r.primaryKey)
	for _, s := range skipped {
		r.logger.Warn("collection entry skipped",
			"collection", r.name,
			"code", "B010",
			"index", s.index,
			"primary_key", r.primaryKey,
		)
		r.metrics.RecordSkipped(r.name, reasonKeyMissing)
	}

	seen := make(map[string]struct{}, len(entries))
	created, invalid := 0, 0
	for _, e := range entries {
		data, err := objutil.ToMap(e.data)
		if err != nil {
			r.logger.Warn("collection entry skipped",
				"collection", r.name,
				"code", "B013",
				"key", e.key,
				"error", err,
			)
			r.metrics.RecordSkipped(r.name, reasonInvalidEntry)
			invalid++
			continue
		}

		_, repeat := seen[e.key]
		if !repeat && r.overLimit(len(seen), e.key) {
			r.logger.Warn("collection entry skipped",
				"collection", r.name,
				"code", "B011",
				"key", e.key,
				"max_elements", r.maxElements,
			)
			r.metrics.RecordSkipped(r.name, reasonMaxElements)
			continue
		}
		seen[e.key] = struct{}{}

		b, ok := r.elements[e.key]
		if !ok {
			b = r.create(e.key)
			created++
		}
		b.Render(data)
		if ok {
			r.events.Emit(EventUpdate, e.key)
		} else {
			r.events.Emit(EventCreate, e.key)
		}
	}

	removed := 0
	if r.removeDead {
		removed = r.sweep(seen)
	}

	if obs != nil {
		if muts := obs.Disconnect(); len(muts) > 0 {
			r.sink(muts)
		}
	}

	r.metrics.RecordCreated(r.name, created)
	r.metrics.RecordRemoved(r.name, removed)
	r.metrics.SetEntries(r.name, len(r.elements))
	r.metrics.RecordRender(r.name, time.Since(start))

	span.SetAttributes(
		attribute.Int("bindui.entries", len(entries)),
		attribute.Int("bindui.created", created),
		attribute.Int("bindui.removed", removed),
		attribute.Int("bindui.skipped", len(skipped)+invalid),
	)
	telemetry.EndSpan(span, nil)
	return r
}

// overLimit reports whether a key not yet seen in this render must be
// skipped because of maxElements. accepted is the number of distinct keys
// accepted so far.
func (r *Reconciler) overLimit(accepted int, key string) bool {
	if r.maxElements == 0 {
		return false
	}
	if accepted >= r.maxElements {
		return true
	}
	// Without the sweep, tracked entries are never released.
	_, tracked := r.elements[key]
	return !r.removeDead && !tracked && len(r.elements) >= r.maxElements
}

// create builds, binds, registers and appends the component for key.
func (r *Reconciler) create(key string) component.Bindable {
	node := r.nextNode()
	b := r.newBindable(node)
	if err := b.Attach(); err != nil {
		r.logger.Warn("collection entry attach failed", "collection", r.name, "key", key, "error", err)
	}
	r.elements[key] = b
	r.order = append(r.order, key)
	r.container.AppendChild(node)
	return b
}

func (r *Reconciler) nextNode() *dom.Node {
	if r.cloneTemplate {
		return r.template.Clone()
	}
	if !r.adopted {
		r.adopted = true
		r.template.Remove()
		return r.template
	}
	return r.prototype.Clone()
}

func (r *Reconciler) newBindable(node *dom.Node) component.Bindable {
	if r.kind != "" {
		b, err := r.registry.New(r.kind, node)
		if err == nil {
			return b
		}
		r.logger.Warn("collection kind lookup failed", "collection", r.name, "kind", r.kind, "error", err)
	}
	opts := make([]component.Option, 0, len(r.componentOpts)+2)
	opts = append(opts, component.WithLogger(r.logger))
	if r.registry != nil {
		opts = append(opts, component.WithRegistry(r.registry))
	}
	opts = append(opts, r.componentOpts...)
	return component.New(node, opts...)
}

// sweep removes every tracked entry whose key is not in live.
func (r *Reconciler) sweep(live map[string]struct{}) int {
	var dead []string
	for _, key := range r.order {
		if _, ok := live[key]; !ok {
			dead = append(dead, key)
		}
	}
	for _, key := range dead {
		r.remove(key)
	}
	return len(dead)
}

// RenderSingle renders one entry as a one-key Object snapshot. With the
// dead-entry sweep enabled every other entry is removed.
func (r *Reconciler) RenderSingle(key string, data any) *Reconciler {
	return r.Render(Object{key: data})
}

// Patch merges partial into the entry tracked under key and renders it.
// Other entries are left alone whatever the sweep setting. It reports
// false when key is not tracked or a render is in progress.
func (r *Reconciler) Patch(key string, partial any) bool {
	if r.rendering {
		r.logger.Warn("collection patch rejected during render", "collection", r.name, "key", key, "code", "B012")
		return false
	}
	b, ok := r.elements[key]
	if !ok {
		return false
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	if u, ok := b.(component.Updater); ok {
		u.Update(partial)
	} else {
		b.Render(partial)
	}
	r.events.Emit(EventUpdate, key)
	return true
}

// Get returns the component tracked under key.
func (r *Reconciler) Get(key string) (component.Bindable, bool) {
	b, ok := r.elements[key]
	return b, ok
}

// Keys returns the tracked keys in container order.
func (r *Reconciler) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of tracked entries.
func (r *Reconciler) Len() int {
	return len(r.elements)
}

// Remove detaches and forgets the entry for key.
func (r *Reconciler) Remove(key string) bool {
	if r.rendering {
		r.logger.Warn("collection remove rejected during render", "collection", r.name, "key", key, "code", "B012")
		return false
	}
	if !r.remove(key) {
		return false
	}
	r.metrics.RecordRemoved(r.name, 1)
	r.metrics.SetEntries(r.name, len(r.elements))
	return true
}

// Clear removes every entry.
func (r *Reconciler) Clear() {
	if r.rendering {
		r.logger.Warn("collection clear rejected during render", "collection", r.name, "code", "B012")
		return
	}
	keys := r.Keys()
	for _, key := range keys {
		r.remove(key)
	}
	r.metrics.RecordRemoved(r.name, len(keys))
	r.metrics.SetEntries(r.name, 0)
}

func (r *Reconciler) remove(key string) bool {
	b, ok := r.elements[key]
	if !ok {
		return false
	}
	b.Detach()
	delete(r.elements, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.events.Emit(EventRemove, key)
	return true
}

// Container returns the container node.
func (r *Reconciler) Container() *dom.Node {
	return r.container
}

// Name returns the reconciler's label.
func (r *Reconciler) Name() string {
	return r.name
}

// Events returns the dispatcher for create, update and remove events.
func (r *Reconciler) Events() *event.Dispatcher {
	return r.events
}

// On subscribes to a reconciler event.
func (r *Reconciler) On(name string, handler event.Handler) {
	r.events.On(name, handler)
}
