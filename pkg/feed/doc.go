// Package feed delivers protocol messages to reconcilers.
//
// A Feed routes each message to the handlers bound to its route. Routes are
// event namespaces: a handler bound to "rooms.lobby" also receives
// messages sent to "rooms".
//
//	f := feed.New(feed.WithLogger(logger))
//	f.Bind("rooms", roomsReconciler)
//	if err := f.Seed(ctx, "http://localhost:8080/api/rooms", "rooms"); err != nil { ... }
//	err := f.Follow(ctx, "ws://localhost:8080/ws")
//
// Messages are delivered one at a time in arrival order. Error-status
// messages are logged and never rendered.
package feed
