package component

import (
	"log/slog"
	"sort"
	"strings"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/event"
	"github.com/vango-dev/bindui/pkg/objutil"
)

// Binding attributes, in lookup order.
const (
	AttrName     = "name"
	AttrDataName = "data-name"
)

// Component is the default Bindable implementation.
type Component struct {
	node      *dom.Node
	elements  map[string][]*dom.Node
	nested    map[string]Bindable
	selectors map[string]string

	process  ProcessFunc
	mount    func(*Component)
	registry *Registry
	events   *event.Dispatcher
	logger   *slog.Logger

	cachedData  map[string]any
	renderData  map[string]any
	firstRender bool
	attached    bool
}

var _ Bindable = (*Component)(nil)

// New wraps node. Binding happens on Attach (or lazily on the first Render).
func New(node *dom.Node, opts ...Option) *Component {
	c := &Component{
		node:        node,
		elements:    make(map[string][]*dom.Node),
		nested:      make(map[string]Bindable),
		selectors:   make(map[string]string),
		logger:      slog.Default(),
		firstRender: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.events = event.New(event.WithLogger(c.logger))
	return c
}

// Node returns the wrapped node.
func (c *Component) Node() *dom.Node {
	return c.node
}

// Attach scans the subtree for bindable nodes. Calling it again is a no-op.
func (c *Component) Attach() error {
	if c.attached {
		return nil
	}
	c.attached = true

	c.node.Walk(func(n *dom.Node) bool {
		if !n.IsElement() {
			return false
		}
		name := bindingName(n)
		if name == "" {
			return true
		}
		if c.registry != nil {
			if child, ok := c.upgrade(n); ok {
				c.nested[name] = child
				// The nested component owns its subtree.
				return false
			}
		}
		c.elements[name] = append(c.elements[name], n)
		return true
	})

	names := make([]string, 0, len(c.selectors))
	for name := range c.selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		found, err := c.node.QuerySelectorAll(c.selectors[name])
		if err != nil {
			return err
		}
		if len(found) > 0 {
			c.elements[name] = found
		}
	}
	return nil
}

func (c *Component) upgrade(n *dom.Node) (Bindable, bool) {
	if !c.registry.Has(n.Tag) {
		return nil, false
	}
	child, err := c.registry.New(n.Tag, n)
	if err != nil {
		c.logger.Warn("component upgrade failed", "kind", n.Tag, "error", err)
		return nil, false
	}
	if err := child.Attach(); err != nil {
		c.logger.Warn("nested component attach failed", "kind", n.Tag, "error", err)
	}
	return child, true
}

// bindingName returns the name attribute, falling back to data-name.
func bindingName(n *dom.Node) string {
	if v, ok := n.Attr(AttrName); ok && v != "" {
		return v
	}
	return n.GetAttr(AttrDataName)
}

// Render binds data onto the named nodes. data may be a map or a struct.
// Render never fails: conversion problems are logged and leave the
// component untouched.
func (c *Component) Render(data any) Bindable {
	if err := c.Attach(); err != nil {
		c.logger.Warn("component attach failed", "tag", c.node.Tag, "error", err)
	}

	m, err := objutil.ToMap(data)
	if err != nil {
		c.logger.Warn("render data rejected",
			"tag", c.node.Tag,
			"code", "B013",
			"error", binderrors.New("B013").Wrap(err),
		)
		return c
	}

	c.cachedData = objutil.CloneMap(m)
	work := objutil.CloneMap(m)
	if c.process != nil {
		work = c.process(work)
	}
	c.renderData = work

	obs := dom.NewObserver(dom.StructuralOnly)
	obs.Observe(c.node)
	c.bind(work)
	if muts := obs.Disconnect(); len(muts) > 0 {
		c.logger.Debug("component structure changed during render",
			"tag", c.node.Tag,
			"mutations", len(muts),
			"first", muts[0].String(),
		)
	}

	if c.firstRender {
		if c.mount != nil {
			c.mount(c)
		}
		c.events.Emit("mount", work)
	}
	c.firstRender = false
	c.events.Emit("render", work)
	return c
}

func (c *Component) bind(data map[string]any) {
	nestedNames := make([]string, 0, len(c.nested))
	for name := range c.nested {
		nestedNames = append(nestedNames, name)
	}
	sort.Strings(nestedNames)
	for _, name := range nestedNames {
		if v, ok := objutil.Lookup(data, name); ok {
			c.nested[name].Render(v)
		}
	}

	flat := objutil.Flatten(data)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		nodes, ok := c.elements[key]
		if !ok || ownedByNested(key, nestedNames) {
			continue
		}
		for _, n := range nodes {
			c.bindValue(n, flat[key])
		}
	}
}

func ownedByNested(key string, nested []string) bool {
	for _, name := range nested {
		if key == name || strings.HasPrefix(key, name+objutil.Separator) {
			return true
		}
	}
	return false
}

// bindValue writes a single value into n.
func (c *Component) bindValue(n *dom.Node, v any) {
	switch v.(type) {
	case map[string]any, []any:
		// Empty containers have nothing to display.
		return
	}
	switch {
	case n.IsCheckbox():
		n.SetChecked(objutil.Truthy(v))
	case n.IsRadio():
		n.SetChecked(n.GetAttr("value") == objutil.String(v))
	case n.IsFormControl():
		n.SetValue(objutil.String(v))
	default:
		if err := n.SetInnerHTML(objutil.String(v)); err != nil {
			n.SetTextContent(objutil.String(v))
		}
	}
}

// Detach removes the component's node from its parent.
func (c *Component) Detach() {
	c.node.Remove()
}

// Element returns the first node bound to name.
func (c *Component) Element(name string) *dom.Node {
	if nodes := c.elements[name]; len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Elements returns every node bound to name (radio groups share a name).
func (c *Component) Elements(name string) []*dom.Node {
	return c.elements[name]
}

// Nested returns the nested component registered under name.
func (c *Component) Nested(name string) (Bindable, bool) {
	b, ok := c.nested[name]
	return b, ok
}

// Names returns the bound names in sorted order, nested components included.
func (c *Component) Names() []string {
	names := make([]string, 0, len(c.elements)+len(c.nested))
	for name := range c.elements {
		names = append(names, name)
	}
	for name := range c.nested {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Update merges partial into the last raw render input and renders the
// result, so keys missing from partial keep their previous values.
func (c *Component) Update(partial any) Bindable {
	m, err := objutil.ToMap(partial)
	if err != nil {
		c.logger.Warn("update data rejected",
			"tag", c.node.Tag,
			"code", "B013",
			"error", binderrors.New("B013").Wrap(err),
		)
		return c
	}
	merged, err := objutil.Extend(true, objutil.CloneMap(c.cachedData), m)
	if err != nil {
		c.logger.Warn("update data rejected",
			"tag", c.node.Tag,
			"code", "B013",
			"error", binderrors.New("B013").Wrap(err),
		)
		return c
	}
	return c.Render(merged)
}

// CachedData returns an exact copy of the last raw render input.
func (c *Component) CachedData() map[string]any {
	return c.cachedData
}

// RenderData returns the last processed render input.
func (c *Component) RenderData() map[string]any {
	return c.renderData
}

// IsFirstRender reports whether the component has not rendered yet.
// Mount hooks observe true.
func (c *Component) IsFirstRender() bool {
	return c.firstRender
}

// Events returns the component's dispatcher.
func (c *Component) Events() *event.Dispatcher {
	return c.events
}

// On subscribes to a component event.
func (c *Component) On(name string, handler event.Handler) {
	c.events.On(name, handler)
}

// Off removes a component event namespace.
func (c *Component) Off(name string) {
	c.events.Off(name)
}

// Emit publishes a component event.
func (c *Component) Emit(name string, data any) {
	c.events.Emit(name, data)
}
