package dom

import (
	"fmt"
	"strings"
)

// Selector is a compiled CSS selector (see the package documentation for
// the supported subset).
type Selector struct {
	groups [][]compound // comma groups of descendant chains
}

type attrTest struct {
	key      string
	value    string
	hasValue bool
}

type compound struct {
	tag     string // "" or "*" matches any
	id      string
	classes []string
	attrs   []attrTest
}

// Compile parses a selector.
func Compile(sel string) (*Selector, error) {
	s := &Selector{}
	for _, group := range splitTopLevel(sel, ',') {
		group = strings.TrimSpace(group)
		if group == "" {
			return nil, fmt.Errorf("dom: empty selector group in %q", sel)
		}
		var chain []compound
		for _, part := range fieldsOutsideBrackets(group) {
			c, err := parseCompound(part)
			if err != nil {
				return nil, fmt.Errorf("dom: selector %q: %w", sel, err)
			}
			chain = append(chain, c)
		}
		s.groups = append(s.groups, chain)
	}
	if len(s.groups) == 0 {
		return nil, fmt.Errorf("dom: empty selector")
	}
	return s, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(sel string) *Selector {
	s, err := Compile(sel)
	if err != nil {
		panic(err)
	}
	return s
}

// Match reports whether n matches the selector.
func (s *Selector) Match(n *Node) bool {
	for _, chain := range s.groups {
		if matchChain(n, chain) {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns the descendants of n matching sel in document
// order.
func (n *Node) QuerySelectorAll(sel string) ([]*Node, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return n.FindAll(s), nil
}

// QuerySelector returns the first descendant of n matching sel, or nil.
func (n *Node) QuerySelector(sel string) (*Node, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return n.Find(s), nil
}

// FindAll returns the descendants of n matching s in document order.
func (n *Node) FindAll(s *Selector) []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		if d.IsElement() && s.Match(d) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Find returns the first descendant of n matching s, or nil.
func (n *Node) Find(s *Selector) *Node {
	var found *Node
	n.Walk(func(d *Node) bool {
		if found != nil {
			return false
		}
		if d.IsElement() && s.Match(d) {
			found = d
			return false
		}
		return true
	})
	return found
}

func matchChain(n *Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].match(n) {
		return false
	}
	anc := n.parent
	for i := last - 1; i >= 0; i-- {
		for anc != nil && !chain[i].match(anc) {
			anc = anc.parent
		}
		if anc == nil {
			return false
		}
		anc = anc.parent
	}
	return true
}

func (c compound) match(n *Node) bool {
	if !n.IsElement() {
		return false
	}
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag {
		return false
	}
	if c.id != "" && n.ID() != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.Attr(a.key)
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	start := i
	for i < len(s) && isIdentChar(s[i], true) {
		i++
	}
	c.tag = strings.ToLower(s[start:i])

	for i < len(s) {
		switch s[i] {
		case '#', '.':
			kind := s[i]
			i++
			start = i
			for i < len(s) && isIdentChar(s[i], false) {
				i++
			}
			if start == i {
				return c, fmt.Errorf("missing name after %q", kind)
			}
			if kind == '#' {
				c.id = s[start:i]
			} else {
				c.classes = append(c.classes, s[start:i])
			}
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector")
			}
			body := s[i+1 : i+end]
			i += end + 1
			test := attrTest{key: strings.ToLower(strings.TrimSpace(body))}
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				test.key = strings.ToLower(strings.TrimSpace(body[:eq]))
				test.value = strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`)
				test.hasValue = true
			}
			if test.key == "" {
				return c, fmt.Errorf("empty attribute selector")
			}
			c.attrs = append(c.attrs, test)
		default:
			return c, fmt.Errorf("unexpected %q", s[i])
		}
	}
	return c, nil
}

func isIdentChar(b byte, tag bool) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '-', b == '_':
		return true
	case tag && b == '*':
		return true
	}
	return false
}

// splitTopLevel splits s on sep outside of [...] brackets.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// fieldsOutsideBrackets splits on whitespace outside of [...] brackets.
func fieldsOutsideBrackets(s string) []string {
	var out []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '[':
			depth++
		case ch == ']' && depth > 0:
			depth--
		case depth == 0 && (ch == ' ' || ch == '\t' || ch == '\n'):
			flush()
			continue
		}
		cur.WriteByte(ch)
	}
	flush()
	return out
}
