// Package dom provides the live node tree the binding engine mutates.
//
// Unlike a virtual DOM, a dom.Node is stateful: it has a parent, it can be
// moved, detached and cloned, and form controls carry live value and
// checked properties that are distinct from their attributes, the same way
// a browser element does. The engine writes bound data into these nodes and
// the tree can be serialized back to HTML at any time.
//
// # Building Trees
//
// Trees are parsed from HTML fragments or built with element factories:
//
//	row, _ := dom.ParseOne(`<li><span name="name"></span></li>`)
//
//	row := dom.Li(dom.Span(dom.Name("name")))
//
// # Querying
//
// QuerySelector and QuerySelectorAll understand a small CSS subset: type,
// universal, #id, .class, [attr], [attr=value], compound selectors, the
// descendant combinator and comma-separated groups.
//
// # Observing Mutations
//
// An Observer records every change made to a subtree while it is attached.
// Mutation ops use the same vocabulary as DOM patches (InsertNode,
// RemoveNode, SetAttr, RemoveAttr, SetText, SetValue, SetChecked), so a
// recorded list is a patch stream that can be shipped to a remote view.
//
// Nodes are not safe for concurrent mutation.
package dom
