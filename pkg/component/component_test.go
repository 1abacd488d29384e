package component

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/bindui/pkg/dom"
)

const userRow = `<li class="user">
	<span name="name"></span>
	<span data-name="profile.city"></span>
	<input type="checkbox" name="online">
	<input type="radio" name="role" value="admin">
	<input type="radio" name="role" value="member">
	<input type="text" name="nick">
	<select name="room"><option value="lobby">Lobby</option><option value="dev">Dev</option></select>
	<textarea name="bio"></textarea>
</li>`

func TestAttachDiscoversNamedNodes(t *testing.T) {
	c := New(dom.MustParseOne(userRow))
	require.NoError(t, c.Attach())

	assert.Equal(t, []string{"bio", "name", "nick", "online", "profile.city", "role", "room"}, c.Names())
	assert.Len(t, c.Elements("role"), 2)
	assert.Equal(t, "span", c.Element("profile.city").Tag)
	assert.Nil(t, c.Element("missing"))
}

func TestNameWinsOverDataName(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("a"), dom.DataName("b"))))
	require.NoError(t, c.Attach())
	assert.Equal(t, []string{"a"}, c.Names())
}

func TestRenderBindsByElementKind(t *testing.T) {
	c := New(dom.MustParseOne(userRow))

	c.Render(map[string]any{
		"name":    "<b>Jim</b>",
		"profile": map[string]any{"city": "Oslo"},
		"online":  true,
		"role":    "member",
		"nick":    "jj",
		"room":    "dev",
		"bio":     "hello",
		"extra":   "ignored",
	})

	assert.Equal(t, "<b>Jim</b>", c.Element("name").InnerHTML(), "content is set as inner HTML")
	assert.Equal(t, "Oslo", c.Element("profile.city").TextContent())
	assert.True(t, c.Element("online").Checked())
	roles := c.Elements("role")
	assert.False(t, roles[0].Checked(), "admin radio")
	assert.True(t, roles[1].Checked(), "member radio")
	assert.Equal(t, "jj", c.Element("nick").Value())
	assert.Equal(t, "dev", c.Element("room").Value())
	assert.Equal(t, "hello", c.Element("bio").Value())
}

func TestRenderFalsyCheckbox(t *testing.T) {
	c := New(dom.MustParseOne(`<div><input type="checkbox" name="on" checked></div>`))
	for _, v := range []any{false, 0, "", nil} {
		c.Render(map[string]any{"on": v})
		assert.False(t, c.Element("on").Checked(), "value %#v", v)
	}
	c.Render(map[string]any{"on": "yes"})
	assert.True(t, c.Element("on").Checked())
}

func TestRenderNumbersAsText(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("count"))))
	c.Render(map[string]any{"count": float64(3)})
	assert.Equal(t, "3", c.Element("count").TextContent())
}

func TestRenderSparseDataKeepsOtherValues(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("a")), dom.Span(dom.Name("b"))))
	c.Render(map[string]any{"a": "1", "b": "2"})
	c.Render(map[string]any{"a": "3"})

	assert.Equal(t, "3", c.Element("a").TextContent())
	assert.Equal(t, "2", c.Element("b").TextContent())
}

func TestCachedDataIsDefensiveCopy(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("user.name"))))
	in := map[string]any{"user": map[string]any{"name": "Jim"}}
	c.Render(in)

	in["user"].(map[string]any)["name"] = "Bob"

	assert.Equal(t, map[string]any{"user": map[string]any{"name": "Jim"}}, c.CachedData())
}

func TestUpdateMergesIntoCachedData(t *testing.T) {
	c := New(dom.MustParseOne(userRow))
	c.Render(map[string]any{
		"name":    "Jim",
		"profile": map[string]any{"city": "Bergen", "zip": "5000"},
	})

	partial := map[string]any{"profile": map[string]any{"city": "Oslo"}}
	c.Update(partial)
	partial["profile"].(map[string]any)["city"] = "Tromsø"

	assert.Equal(t, map[string]any{
		"name":    "Jim",
		"profile": map[string]any{"city": "Oslo", "zip": "5000"},
	}, c.CachedData())
	assert.Equal(t, "Oslo", c.Element("profile.city").TextContent())
	assert.Equal(t, "Jim", c.Element("name").TextContent())
}

func TestUpdateBeforeRender(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("a"))))
	c.Update(map[string]any{"a": "1"})

	assert.Equal(t, map[string]any{"a": "1"}, c.CachedData())
	assert.Equal(t, "1", c.Element("a").TextContent())

	var buf bytes.Buffer
	c = New(dom.Div(dom.Span(dom.Name("a"))), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	c.Update("scalar")
	assert.Contains(t, buf.String(), "B013")
	assert.Nil(t, c.CachedData())
}

func TestProcessHook(t *testing.T) {
	c := New(dom.Div(dom.Span(dom.Name("display"))),
		WithProcess(func(data map[string]any) map[string]any {
			data["display"] = strings.ToUpper(data["first"].(string)) + " " + data["last"].(string)
			return data
		}),
	)
	in := map[string]any{"first": "jim", "last": "Beam"}
	c.Render(in)

	assert.Equal(t, "JIM Beam", c.Element("display").TextContent())
	assert.NotContains(t, c.CachedData(), "display", "cached data keeps the raw input")
	assert.NotContains(t, in, "display", "the hook must not see the caller's map")
	assert.Equal(t, "JIM Beam", c.RenderData()["display"])
}

func TestFirstRenderLifecycle(t *testing.T) {
	mounts := 0
	var sawFirst bool
	c := New(dom.Div(), WithMount(func(c *Component) {
		mounts++
		sawFirst = c.IsFirstRender()
	}))
	renders := 0
	c.On("render", func(any) { renders++ })
	mountEvents := 0
	c.On("mount", func(any) { mountEvents++ })

	assert.True(t, c.IsFirstRender())
	c.Render(nil)
	c.Render(map[string]any{})

	assert.False(t, c.IsFirstRender())
	assert.Equal(t, 1, mounts)
	assert.True(t, sawFirst)
	assert.Equal(t, 1, mountEvents)
	assert.Equal(t, 2, renders)
}

type room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Users int    `json:"users"`
}

func TestRenderStruct(t *testing.T) {
	c := New(dom.MustParseOne(`<div><h2 name="title"></h2><span name="users"></span></div>`))
	c.Render(room{ID: "r1", Title: "Lobby", Users: 4})

	assert.Equal(t, "Lobby", c.Element("title").TextContent())
	assert.Equal(t, "4", c.Element("users").TextContent())
	assert.Equal(t, "r1", c.CachedData()["id"])
}

func TestRenderRejectsScalarsWithoutPanicking(t *testing.T) {
	var buf bytes.Buffer
	c := New(dom.Div(dom.Span(dom.Name("a"))), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.NotPanics(t, func() { c.Render(42) })
	assert.True(t, c.IsFirstRender(), "a rejected render is not a render")
	assert.Contains(t, buf.String(), "B013")
}

func TestSelectorsTakePrecedence(t *testing.T) {
	root := dom.MustParseOne(`<div><h2 class="title"></h2><span name="title"></span></div>`)
	c := New(root, WithSelectors(map[string]string{"title": "h2.title", "count": "em"}))
	require.NoError(t, c.Attach())

	c.Render(map[string]any{"title": "Lobby"})

	h2, _ := root.QuerySelector("h2")
	span, _ := root.QuerySelector("span")
	assert.Equal(t, "Lobby", h2.TextContent())
	assert.Equal(t, "", span.TextContent(), "scanned entry replaced by the selector")
	assert.Nil(t, c.Element("count"), "selectors without matches add nothing")
}

func TestBadSelectorFailsAttach(t *testing.T) {
	c := New(dom.Div(), WithSelectors(map[string]string{"x": "[oops"}))
	assert.Error(t, c.Attach())
}

func TestAttachIsIdempotent(t *testing.T) {
	root := dom.Div(dom.Span(dom.Name("a")))
	c := New(root)
	require.NoError(t, c.Attach())
	root.AppendChild(dom.Span(dom.Name("b")))
	require.NoError(t, c.Attach())

	assert.Equal(t, []string{"a"}, c.Names(), "binding happens once at attach time")
}

func TestRenderOnlyLogsStructuralMutations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(dom.Div(dom.Span(dom.Name("a")), dom.Input(dom.Name("b"))), WithLogger(logger))

	c.Render(map[string]any{"b": "value only"})
	assert.NotContains(t, buf.String(), "structure changed")

	c.Render(map[string]any{"a": "<i>x</i>"})
	assert.Contains(t, buf.String(), "structure changed")
}

func TestDetach(t *testing.T) {
	parent := dom.Ul()
	node := parent.AppendChild(dom.Li())
	c := New(node)
	c.Detach()
	assert.Equal(t, 0, parent.ChildCount())
	assert.Nil(t, node.Parent())
}

func TestEmitOffDelegateToDispatcher(t *testing.T) {
	c := New(dom.Div())
	got := 0
	c.On("select.row", func(any) { got++ })
	c.Emit("select", nil)
	c.Off("select")
	c.Emit("select", nil)
	assert.Equal(t, 1, got)
	assert.Equal(t, 0, c.Events().HandlersCount("select"))
}
