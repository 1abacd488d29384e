// Package event provides a namespaced publish/subscribe dispatcher.
//
// Event names are dot-separated paths ("click.tab1"). Handlers registered on
// a path fire when that path or any of its ancestors is emitted:
//
//	d := event.New()
//	d.On("message", onAny)
//	d.On("message.room1", onRoom1)
//
//	d.Emit("message", msg)       // onAny, then onRoom1
//	d.Emit("message.room1", msg) // onRoom1 only
//
// Off removes a whole namespace subtree; OffExact removes only the handlers
// registered on the exact path. One registers a handler under a private
// child namespace so that it fires at most once.
//
// Handler panics are recovered per handler and logged, so one faulty
// subscriber never prevents its siblings (or the emitting caller) from
// running.
package event
