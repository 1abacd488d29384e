package vtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/event"
)

// Fixture is parsed markup with the nodes a reconciler is built from.
type Fixture struct {
	Root      *dom.Node
	Container *dom.Node
	Template  *dom.Node
}

// NewFixture parses markup, which must have a single root element, and
// resolves the container and template selectors against it. An empty
// containerSel selects the root itself.
func NewFixture(t testing.TB, markup, containerSel, templateSel string) *Fixture {
	t.Helper()
	root := MustParse(t, markup)
	fx := &Fixture{Root: root, Container: root}
	if containerSel != "" {
		fx.Container = mustFind(t, root, containerSel)
	}
	if templateSel != "" {
		fx.Template = mustFind(t, root, templateSel)
	}
	return fx
}

// MustParse parses markup with a single root element or fails the test.
func MustParse(t testing.TB, markup string) *dom.Node {
	t.Helper()
	n, err := dom.ParseOne(markup)
	if err != nil {
		t.Fatalf("parse %q: %v", truncate(markup, 80), err)
	}
	return n
}

func mustFind(t testing.TB, root *dom.Node, sel string) *dom.Node {
	t.Helper()
	if s, err := dom.Compile(sel); err == nil && s.Match(root) {
		return root
	}
	n, err := root.QuerySelector(sel)
	if err != nil {
		t.Fatalf("selector %q: %v", sel, err)
	}
	if n == nil {
		t.Fatalf("selector %q matched nothing in:\n%s", sel, truncate(root.HTML(), 500))
	}
	return n
}

// ExpectContains asserts that the HTML of n contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, fx.Root, "Welcome")
func ExpectContains(t testing.TB, n *dom.Node, expected string) {
	t.Helper()
	html := n.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the HTML of n does not contain unexpected.
func ExpectNotContains(t testing.TB, n *dom.Node, unexpected string) {
	t.Helper()
	html := n.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectCount asserts that exactly want descendants of n match sel.
//
// Example:
//
//	vtest.ExpectCount(t, fx.Container, "li", 3)
func ExpectCount(t testing.TB, n *dom.Node, sel string, want int) {
	t.Helper()
	found, err := n.QuerySelectorAll(sel)
	if err != nil {
		t.Fatalf("selector %q: %v", sel, err)
	}
	if len(found) != want {
		t.Errorf("expected %d %q element(s), got %d in:\n%s", want, sel, len(found), truncate(n.HTML(), 500))
	}
}

// ExpectAttribute asserts that the HTML of n contains attr="value".
//
// Example:
//
//	vtest.ExpectAttribute(t, node, "class", "room active")
func ExpectAttribute(t testing.TB, n *dom.Node, attr, value string) {
	t.Helper()
	html := n.HTML()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// Call is one recorded delivery.
type Call struct {
	Name string
	Data any
}

// Recorder records handler invocations. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handler returns an event.Handler that records deliveries under name.
func (r *Recorder) Handler(name string) event.Handler {
	return func(data any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call{Name: name, Data: data})
	}
}

// Calls returns a copy of the recorded calls in delivery order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns the number of calls recorded under name.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Data returns the payloads recorded under name in delivery order.
func (r *Recorder) Data(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, c := range r.calls {
		if c.Name == name {
			out = append(out, c.Data)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
