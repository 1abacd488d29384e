// Package objutil holds the data helpers the binding engine is built on:
// deep merge (Extend), dot-path flattening (Flatten/Unflatten/Lookup),
// defensive copies (Clone), view-model conversion (ToMap), value
// coercion (Truthy/String) and random identifiers (RandomID).
//
// All helpers operate on the generic JSON-like shape used by render data:
// map[string]any for objects, []any for arrays and scalars for leaves.
// None of them mutate their inputs unless documented (Extend mutates target).
package objutil
