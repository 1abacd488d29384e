// Package errors provides structured, coded errors for bindui.
//
// Every failure the engine can report has a stable code (e.g., "B001") that
// maps to a category, a short message, and a longer explanation. Callers add
// context fluently and can match on the code with Is.
//
// # Error Categories
//
//   - config: setup-time faults (duplicate component kind, missing template)
//   - binding: per-entry reconciliation faults (missing primary key)
//   - handler: subscriber faults isolated during Emit
//   - protocol: malformed transport messages or snapshots
//
// # Usage
//
//	err := errors.New("B001").
//	    WithDetail(`kind "user-row" already registered`).
//	    WithSuggestion("Register each kind once per registry")
//
//	if errors.Is(err, "B001") { ... }
package errors
