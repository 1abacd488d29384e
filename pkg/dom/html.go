package dom

import (
	"io"
	"strings"
)

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// HTML serializes n (including n itself) to HTML. Live form properties are
// reflected into the markup: an input's value and checked state, a
// textarea's content and a select's selected option.
func (n *Node) HTML() string {
	var b strings.Builder
	_ = n.WriteHTML(&b)
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	w := &htmlWriter{w: &b}
	w.children(n)
	return b.String()
}

// WriteHTML streams the serialization of n to w.
func (n *Node) WriteHTML(w io.Writer) error {
	hw := &htmlWriter{w: w}
	hw.node(n, n.parent)
	return hw.err
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) write(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) node(n, parent *Node) {
	if n.Type == TextNode {
		if parent != nil && rawTextElements[parent.Tag] {
			h.write(n.text)
			return
		}
		h.write(escapeHTML(n.text))
		return
	}

	h.write("<")
	h.write(n.Tag)
	h.attributes(n)
	h.write(">")

	if IsVoidElement(n.Tag) {
		return
	}

	h.children(n)

	h.write("</")
	h.write(n.Tag)
	h.write(">")
}

func (h *htmlWriter) children(n *Node) {
	if n.Tag == "textarea" && n.valueSet {
		h.write(escapeHTML(n.value))
		return
	}
	sel := selectValue(n)
	for _, c := range n.children {
		if sel != nil {
			h.selectChild(c, n, *sel)
			continue
		}
		h.node(c, n)
	}
}

// selectChild writes options (directly or inside optgroups) of a select
// whose value was set programmatically.
func (h *htmlWriter) selectChild(c, parent *Node, value string) {
	if c.IsElement() && c.Tag == "option" {
		opt := c.Clone()
		if opt.optionValue() == value {
			opt.setAttr("selected", "")
		} else {
			opt.removeAttrQuiet("selected")
		}
		h.node(opt, parent)
		return
	}
	if c.IsElement() && c.Tag == "optgroup" {
		h.write("<optgroup")
		h.attributes(c)
		h.write(">")
		for _, gc := range c.children {
			h.selectChild(gc, c, value)
		}
		h.write("</optgroup>")
		return
	}
	h.node(c, parent)
}

func selectValue(n *Node) *string {
	if n.Tag != "select" || !n.valueSet {
		return nil
	}
	v := n.value
	return &v
}

func (h *htmlWriter) attributes(n *Node) {
	isInput := n.IsInput()
	toggles := isInput && (n.IsCheckbox() || n.IsRadio())
	wroteValue := false

	for _, a := range n.attrs {
		switch {
		case isInput && a.Key == "value" && n.valueSet:
			h.attr("value", n.value)
			wroteValue = true
		case toggles && a.Key == "checked":
			if n.Checked() {
				h.write(" checked")
			}
		default:
			h.attr(a.Key, a.Value)
		}
	}

	if isInput && n.valueSet && !wroteValue {
		h.attr("value", n.value)
	}
	if toggles && n.checkedSet && n.checked && !n.HasAttr("checked") {
		h.write(" checked")
	}
}

func (h *htmlWriter) attr(key, value string) {
	h.write(" ")
	h.write(key)
	if value == "" && isBooleanAttr(key) {
		return
	}
	h.write(`="`)
	h.write(escapeAttr(value))
	h.write(`"`)
}

func (n *Node) removeAttrQuiet(key string) {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i:i], n.attrs[i+1:]...)
			return
		}
	}
}

// booleanAttrs are written without a value when empty.
var booleanAttrs = map[string]bool{
	"autofocus": true,
	"checked":   true,
	"disabled":  true,
	"hidden":    true,
	"multiple":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
}

func isBooleanAttr(key string) bool {
	return booleanAttrs[key]
}
