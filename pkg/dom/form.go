package dom

import "strings"

// IsInput reports whether n is an <input> element.
func (n *Node) IsInput() bool {
	return n.IsElement() && n.Tag == "input"
}

// IsFormControl reports whether n is an input, select or textarea.
func (n *Node) IsFormControl() bool {
	if !n.IsElement() {
		return false
	}
	switch n.Tag {
	case "input", "select", "textarea":
		return true
	}
	return false
}

// InputType returns the lowercased type of an input, defaulting to "text".
func (n *Node) InputType() string {
	t := strings.ToLower(strings.TrimSpace(n.GetAttr("type")))
	if t == "" {
		return "text"
	}
	return t
}

// IsCheckbox reports whether n is <input type="checkbox">.
func (n *Node) IsCheckbox() bool {
	return n.IsInput() && n.InputType() == "checkbox"
}

// IsRadio reports whether n is <input type="radio">.
func (n *Node) IsRadio() bool {
	return n.IsInput() && n.InputType() == "radio"
}

// Value returns the live value of a form control. Until SetValue is called
// it reflects the markup: the value attribute of an input, the text of a
// textarea, or the selected (else first) option of a select.
func (n *Node) Value() string {
	if n.valueSet {
		return n.value
	}
	switch n.Tag {
	case "textarea":
		return n.TextContent()
	case "select":
		var first, selected *Node
		n.Walk(func(d *Node) bool {
			if d.IsElement() && d.Tag == "option" {
				if first == nil {
					first = d
				}
				if selected == nil && d.HasAttr("selected") {
					selected = d
				}
			}
			return true
		})
		if selected == nil {
			selected = first
		}
		if selected == nil {
			return ""
		}
		return selected.optionValue()
	case "option":
		return n.optionValue()
	}
	return n.GetAttr("value")
}

func (n *Node) optionValue() string {
	if v, ok := n.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(n.TextContent())
}

// SetValue sets the live value property.
func (n *Node) SetValue(v string) {
	if n.valueSet && n.value == v {
		return
	}
	n.value = v
	n.valueSet = true
	n.notify(Mutation{Op: OpSetValue, Target: n, Value: v})
}

// Checked returns the live checked state; until SetChecked is called it
// reflects the checked attribute.
func (n *Node) Checked() bool {
	if n.checkedSet {
		return n.checked
	}
	return n.HasAttr("checked")
}

// SetChecked sets the live checked property.
func (n *Node) SetChecked(checked bool) {
	if n.checkedSet && n.checked == checked {
		return
	}
	n.checked = checked
	n.checkedSet = true
	v := "false"
	if checked {
		v = "true"
	}
	n.notify(Mutation{Op: OpSetChecked, Target: n, Value: v})
}
