// Package vtest provides testing helpers for bindui components and
// collections.
//
// # Fixtures
//
// A fixture parses markup once and resolves the container and template
// nodes a reconciler needs:
//
//	fx := vtest.NewFixture(t, `<ul id="rooms"><li class="room"><span name="title"></span></li></ul>`,
//	    "#rooms", "li.room")
//	rec, err := collection.New(fx.Container, fx.Template)
//
// # Render Assertions
//
// Assert on the serialized HTML of any node:
//
//	vtest.ExpectContains(t, fx.Root, "Lobby")
//	vtest.ExpectCount(t, fx.Container, "li.room", 2)
//
// # Recording Handlers
//
// A Recorder collects event deliveries:
//
//	rec := vtest.NewRecorder()
//	d.On("create", rec.Handler("create"))
//	if rec.Count("create") != 1 { ... }
package vtest
