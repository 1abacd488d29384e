package vtest_test

import (
	"testing"

	"github.com/vango-dev/bindui/pkg/event"
	"github.com/vango-dev/bindui/pkg/vtest"
)

const roomsMarkup = `<div id="app"><ul id="rooms"><li class="room"><span name="title"></span></li></ul></div>`

func TestNewFixture(t *testing.T) {
	fx := vtest.NewFixture(t, roomsMarkup, "#rooms", "li.room")

	if fx.Root.ID() != "app" {
		t.Errorf("Root.ID() = %q, want app", fx.Root.ID())
	}
	if fx.Container.Tag != "ul" {
		t.Errorf("Container.Tag = %q, want ul", fx.Container.Tag)
	}
	if fx.Template.Tag != "li" || fx.Template.Parent() != fx.Container {
		t.Errorf("Template = <%s> under %v, want <li> under the container", fx.Template.Tag, fx.Template.Parent())
	}
}

func TestNewFixture_RootAsContainer(t *testing.T) {
	fx := vtest.NewFixture(t, roomsMarkup, "", "")
	if fx.Container != fx.Root {
		t.Error("expected the root to be the container")
	}
	if fx.Template != nil {
		t.Error("expected no template")
	}

	fx = vtest.NewFixture(t, roomsMarkup, "div#app", "")
	if fx.Container != fx.Root {
		t.Error("expected a selector matching the root to select it")
	}
}

func TestExpectHelpers(t *testing.T) {
	fx := vtest.NewFixture(t, roomsMarkup, "#rooms", "li.room")

	vtest.ExpectContains(t, fx.Root, `<span name="title">`)
	vtest.ExpectNotContains(t, fx.Root, "Lobby")
	vtest.ExpectCount(t, fx.Root, "li.room", 1)
	vtest.ExpectAttribute(t, fx.Root, "class", "room")
}

func TestRecorder(t *testing.T) {
	rec := vtest.NewRecorder()
	d := event.New()
	d.On("create", rec.Handler("create"))
	d.On("remove", rec.Handler("remove"))

	d.Emit("create", "u1")
	d.Emit("create", "u2")
	d.Emit("remove", "u1")

	if got := rec.Count("create"); got != 2 {
		t.Errorf("Count(create) = %d, want 2", got)
	}
	if got := rec.Data("remove"); len(got) != 1 || got[0] != "u1" {
		t.Errorf("Data(remove) = %v, want [u1]", got)
	}
	calls := rec.Calls()
	if len(calls) != 3 || calls[2].Name != "remove" {
		t.Errorf("Calls() = %v, want create, create, remove", calls)
	}

	rec.Reset()
	if len(rec.Calls()) != 0 {
		t.Error("Reset() left calls behind")
	}
}
