package component

import (
	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/event"
)

// Bindable is a renderable unit that wraps a node.
type Bindable interface {
	// Node returns the root node the component wraps.
	Node() *dom.Node

	// Attach discovers the named nodes of the subtree. It is idempotent.
	Attach() error

	// Render binds data onto the named nodes and returns the receiver.
	Render(data any) Bindable

	// Detach removes the root node from its parent.
	Detach()

	// Events returns the embedded dispatcher.
	Events() *event.Dispatcher

	On(name string, handler event.Handler)
	Off(name string)
	Emit(name string, data any)
}

// Updater is a Bindable that can merge partial data into its last render.
type Updater interface {
	Bindable
	Update(partial any) Bindable
}
