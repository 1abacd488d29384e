package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML fragment into detached nodes. The fragment is parsed
// as the content of a <template> element, so table rows, list items and
// options are accepted at the top level. Comments are dropped.
func Parse(fragment string) ([]*Node, error) {
	return parseIn(fragment, "template")
}

// ParseOne parses a fragment that must contain exactly one element
// (surrounding whitespace is ignored).
func ParseOne(fragment string) (*Node, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return nil, err
	}
	var el *Node
	for _, n := range nodes {
		if n.Type == TextNode && strings.TrimSpace(n.text) == "" {
			continue
		}
		if el != nil || !n.IsElement() {
			return nil, fmt.Errorf("dom: fragment must contain exactly one element")
		}
		el = n
	}
	if el == nil {
		return nil, fmt.Errorf("dom: fragment contains no element")
	}
	return el, nil
}

// MustParseOne is like ParseOne but panics on error. Intended for
// templates known at compile time.
func MustParseOne(fragment string) *Node {
	n, err := ParseOne(fragment)
	if err != nil {
		panic(err)
	}
	return n
}

// SetInnerHTML parses fragment in the context of n and replaces the
// children of n with the result.
func (n *Node) SetInnerHTML(fragment string) error {
	if n.Type == TextNode {
		n.SetText(fragment)
		return nil
	}
	if n.InnerHTML() == fragment {
		return nil
	}
	nodes, err := parseIn(fragment, n.Tag)
	if err != nil {
		return err
	}
	n.ReplaceChildren(nodes...)
	return nil
}

func parseIn(fragment, contextTag string) ([]*Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}
	parsed, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := convert(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// convert maps an x/net/html node onto a detached Node.
func convert(src *html.Node) *Node {
	switch src.Type {
	case html.TextNode:
		return NewText(src.Data)
	case html.ElementNode:
		n := &Node{Type: ElementNode, Tag: strings.ToLower(src.Data)}
		for _, a := range src.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.setAttr(key, a.Val)
		}
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if cc := convert(c); cc != nil {
				cc.parent = n
				n.children = append(n.children, cc)
			}
		}
		return n
	default:
		return nil
	}
}
