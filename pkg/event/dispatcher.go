package event

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	binderrors "github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/objutil"
)

// Handler receives the data passed to Emit.
type Handler func(data any)

// onePrefix marks the private namespaces created by One.
const onePrefix = "one-"

// node is one namespace segment of the registry tree.
type node struct {
	handlers []Handler
	children map[string]*node
	order    []string // child names in registration order
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode()
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

func (n *node) removeChild(name string) {
	if _, ok := n.children[name]; !ok {
		return
	}
	delete(n.children, name)
	for i, o := range n.order {
		if o == name {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
}

func (n *node) empty() bool {
	return len(n.handlers) == 0 && len(n.children) == 0
}

// collect appends the handlers of n and its descendants, depth first:
// own handlers, then children in registration order.
func (n *node) collect(path string, out []boundHandler) []boundHandler {
	for _, h := range n.handlers {
		out = append(out, boundHandler{path: path, fn: h})
	}
	for _, name := range n.order {
		out = n.children[name].collect(join(path, name), out)
	}
	return out
}

func (n *node) count() int {
	total := len(n.handlers)
	for _, c := range n.children {
		total += c.count()
	}
	return total
}

type boundHandler struct {
	path string
	fn   Handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used to report handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher is a namespaced publish/subscribe registry.
// It is safe for concurrent use. Handlers run on the emitting goroutine,
// outside the registry lock, so they may subscribe or unsubscribe freely.
type Dispatcher struct {
	mu     sync.Mutex
	root   *node
	logger *slog.Logger
}

// New creates an empty Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		root:   newNode(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// On appends handler to the handler list of event. Registering the same
// handler twice makes it fire twice.
func (d *Dispatcher) On(event string, handler Handler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.root
	for _, seg := range segments(event) {
		n = n.child(seg)
	}
	n.handlers = append(n.handlers, handler)
}

// One registers handler so that it runs at most once. It lives under a
// private child namespace of event, so OffExact(event) leaves it alone while
// Off(event) removes it along with the rest of the subtree.
func (d *Dispatcher) One(event string, handler Handler) {
	if handler == nil {
		return
	}
	private := join(strings.Join(segments(event), "."), onePrefix+objutil.RandomID(16))

	var fired atomic.Bool
	d.On(private, func(data any) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		d.Off(private)
		handler(data)
	})
}

// Off removes event and its entire namespace subtree. Unknown paths are
// ignored; an empty event clears the whole registry.
func (d *Dispatcher) Off(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	segs := segments(event)
	if len(segs) == 0 {
		d.root = newNode()
		return
	}
	path := d.walk(segs)
	if path == nil {
		return
	}
	parent := path[len(path)-2]
	parent.removeChild(segs[len(segs)-1])
	prune(path[:len(path)-1], segs[:len(segs)-1])
}

// OffExact removes only the handlers registered directly on event, keeping
// nested namespaces. Nodes left without handlers or children are pruned.
func (d *Dispatcher) OffExact(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	segs := segments(event)
	if len(segs) == 0 {
		d.root.handlers = nil
		return
	}
	path := d.walk(segs)
	if path == nil {
		return
	}
	path[len(path)-1].handlers = nil
	prune(path, segs)
}

// Emit invokes every handler registered on event and on all of its
// descendant namespaces. Emitting an unknown path does nothing.
func (d *Dispatcher) Emit(event string, data any) {
	d.mu.Lock()
	segs := segments(event)
	path := d.walk(segs)
	var handlers []boundHandler
	if path != nil {
		handlers = path[len(path)-1].collect(strings.Join(segs, "."), nil)
	}
	d.mu.Unlock()

	for _, h := range handlers {
		d.invoke(h, data)
	}
}

// HandlersCount returns the number of handlers registered on event and all
// of its descendants.
func (d *Dispatcher) HandlersCount(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.walk(segments(event))
	if path == nil {
		return 0
	}
	return path[len(path)-1].count()
}

// Has reports whether a namespace node exists for event.
func (d *Dispatcher) Has(event string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.walk(segments(event)) != nil
}

func (d *Dispatcher) invoke(h boundHandler, data any) {
	defer func() {
		if r := recover(); r != nil {
			err := binderrors.New("B020").WithDetailf("event %q", h.path).Wrap(fmt.Errorf("%v", r))
			d.logger.Error("event handler panicked",
				"event", h.path,
				"panic", r,
				"code", err.Code,
			)
		}
	}()
	h.fn(data)
}

// walk returns the nodes from the root to the node at segs (inclusive),
// or nil if the path does not exist. Must be called with mu held.
func (d *Dispatcher) walk(segs []string) []*node {
	path := make([]*node, 0, len(segs)+1)
	n := d.root
	path = append(path, n)
	for _, seg := range segs {
		c, ok := n.children[seg]
		if !ok {
			return nil
		}
		n = c
		path = append(path, n)
	}
	return path
}

// prune removes empty nodes bottom-up along path. path[i+1] is the child
// named segs[i] of path[i].
func prune(path []*node, segs []string) {
	for i := len(segs) - 1; i >= 0; i-- {
		if !path[i+1].empty() {
			return
		}
		path[i].removeChild(segs[i])
	}
}

func segments(event string) []string {
	parts := strings.Split(event, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
