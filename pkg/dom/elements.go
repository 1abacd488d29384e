package dom

import "strings"

// Attr creates an attribute.
func Attr(key, value string) Attribute { return Attribute{Key: key, Value: value} }

// ID sets the id attribute.
func ID(id string) Attribute { return Attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attribute { return Attr("class", strings.Join(classes, " ")) }

// Name sets the name attribute, the primary binding key.
func Name(name string) Attribute { return Attr("name", name) }

// DataName sets the data-name attribute, the fallback binding key.
func DataName(name string) Attribute { return Attr("data-name", name) }

// Data creates a data-* attribute.
func Data(key, value string) Attribute { return Attr("data-"+key, value) }

// Type sets the type attribute.
func Type(t string) Attribute { return Attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attribute { return Attr("value", v) }

// CheckedAttr sets the checked attribute.
func CheckedAttr() Attribute { return Attr("checked", "") }

// SelectedAttr sets the selected attribute.
func SelectedAttr() Attribute { return Attr("selected", "") }

// El creates an element. Arguments can be: nil, Attribute, []Attribute,
// *Node, []*Node or string (a text child).
func El(tag string, args ...any) *Node {
	n := NewElement(tag)
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attribute:
			if v.Key != "" {
				n.setAttr(v.Key, v.Value)
			}
		case []Attribute:
			for _, a := range v {
				if a.Key != "" {
					n.setAttr(a.Key, a.Value)
				}
			}
		case *Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.AppendChild(c)
				}
			}
		case string:
			n.AppendChild(NewText(v))
		}
	}
	return n
}

// Text creates a text node.
func Text(s string) *Node { return NewText(s) }

func Div(args ...any) *Node      { return El("div", args...) }
func Span(args ...any) *Node     { return El("span", args...) }
func P(args ...any) *Node        { return El("p", args...) }
func H2(args ...any) *Node       { return El("h2", args...) }
func Ul(args ...any) *Node       { return El("ul", args...) }
func Li(args ...any) *Node       { return El("li", args...) }
func Table(args ...any) *Node    { return El("table", args...) }
func Tbody(args ...any) *Node    { return El("tbody", args...) }
func Tr(args ...any) *Node       { return El("tr", args...) }
func Td(args ...any) *Node       { return El("td", args...) }
func Label(args ...any) *Node    { return El("label", args...) }
func Button(args ...any) *Node   { return El("button", args...) }
func Input(args ...any) *Node    { return El("input", args...) }
func Textarea(args ...any) *Node { return El("textarea", args...) }
func Select(args ...any) *Node   { return El("select", args...) }
func Option(args ...any) *Node   { return El("option", args...) }
