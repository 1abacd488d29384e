// Package component binds data objects onto named nodes of a live tree.
//
// A Component wraps a *dom.Node. When attached it scans its subtree for
// nodes carrying a name (or, failing that, a data-name) attribute and
// remembers them under that name. Render then flattens the data into dot
// paths and writes every value whose path matches a registered name:
//
//	row := dom.MustParseOne(`<li><span name="user.name"></span>
//	    <input type="checkbox" name="online"></li>`)
//	c := component.New(row)
//	c.Render(map[string]any{"user": map[string]any{"name": "Jim"}, "online": true})
//
// Checkboxes receive the truthiness of the value, radios are checked when
// their own value attribute equals the bound value, other form controls get
// their value property set, and any other element gets its inner HTML
// replaced. Keys without a matching node are ignored, so sparse view models
// are fine.
//
// # Composition
//
// Kinds registered in a Registry are upgraded on attach: a named descendant
// whose tag is a registered kind becomes a nested Bindable and receives the
// sub-object stored under its name.
//
// # Hooks
//
// WithProcess transforms the data before binding (derived display fields),
// WithMount runs once, on the first render. Every Component also embeds an
// event.Dispatcher and emits "mount" and "render" after binding.
package component
