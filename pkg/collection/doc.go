// Package collection keeps a keyed list of components in sync with changing
// data.
//
// A Reconciler owns a container node and a template node. Each Render takes
// a Snapshot, derives a reconciliation key per entry, creates a component
// (from a clone of the template) for keys it has not seen, renders every
// entry into its component and finally sweeps components whose keys are no
// longer present:
//
//	rec, err := collection.New(list, row)
//	rec.Render(collection.List{
//	    {"id": "u1", "name": "Jim"},
//	    {"id": "u2", "name": "Bob"},
//	})
//	rec.Render(collection.List{{"id": "u1", "name": "Jimmy"}}) // u2 removed
//
// For a fixed key the backing component is never recreated or moved. New
// keys are appended to the container in first-seen order.
//
// Snapshots come in three shapes, each with its own normalizer:
//
//	List     ordered entries; the primary-key field holds the key
//	Mapping  insertion-ordered map; its keys are the keys
//	Object   plain map of objects; keys are visited in sorted order
//
// A Reconciler is not safe for concurrent use. A Render started from inside
// another Render on the same Reconciler (for example from an event handler)
// is rejected and logged.
package collection
