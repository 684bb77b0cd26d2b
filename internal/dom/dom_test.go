package dom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument(NewManualClock())

	assert.Equal(t, "html", d.DocumentElement().Tag())
	assert.Same(t, d.DocumentElement(), d.Body().Parent())
	assert.Same(t, d.DocumentElement(), d.Head().Parent())
	assert.True(t, d.Body().IsConnected())
}

func TestElement_AppendMovesChild(t *testing.T) {
	d := NewDocument(NewManualClock())
	a := d.CreateElement("div")
	b := d.CreateElement("div")
	child := d.CreateElement("span")

	a.Append(child)
	b.Append(child)

	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, b, child.Parent())
}

func TestElement_RemoveDetaches(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")
	d.Body().Append(el)
	require.True(t, el.IsConnected())

	el.Remove()

	assert.False(t, el.IsConnected())
	assert.Nil(t, el.Parent())
	assert.Empty(t, d.Body().Children())
}

func TestClassList(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")

	assert.True(t, el.ClassList().Add("a", "b"))
	assert.False(t, el.ClassList().Add("a"))
	assert.Equal(t, []string{"a", "b"}, el.ClassList().Values())
	assert.Equal(t, "a b", el.ClassName())

	assert.True(t, el.ClassList().Remove("a"))
	assert.False(t, el.ClassList().Remove("a"))
	assert.False(t, el.HasClass("a"))
	assert.True(t, el.ClassList().Contains("b"))
}

func TestStyleAndComputedStyle(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")

	el.Style().Set("padding-right", "3px")
	el.Style().SetInt("z-index", 1001)

	cs := d.ComputedStyle(el)
	assert.Equal(t, 3, cs.PaddingRight)
	assert.Equal(t, 1001, cs.ZIndex)

	el.Style().Set("padding-right", "")
	assert.Equal(t, "", el.Style().Get("padding-right"))
	assert.Equal(t, 0, d.ComputedStyle(el).PaddingRight)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"12", 12},
		{"12px", 12},
		{" 4 ", 4},
		{"-2", -2},
		{"auto", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLength(tt.in))
		})
	}
}

func TestGetElementByID(t *testing.T) {
	d := NewDocument(NewManualClock())
	tmpl := d.CreateTemplate("greeting", "hello")

	assert.Nil(t, d.GetElementByID("greeting"), "detached elements are not found")

	d.Head().Append(tmpl)
	assert.Same(t, tmpl, d.GetElementByID("greeting"))
	assert.Nil(t, d.GetElementByID(""))
}

func TestTemplate_CloneContent(t *testing.T) {
	d := NewDocument(NewManualClock())
	tmpl := d.CreateTemplate("t", "**body**")

	frag := tmpl.CloneContent()
	host := d.CreateElement("div")
	host.Append(frag)

	assert.Empty(t, frag.Children(), "fragment children move on append")
	require.Len(t, host.Children(), 1)
	assert.Equal(t, "**body**", host.TextContent())

	// The template itself is untouched.
	assert.Equal(t, "**body**", tmpl.Content().TextContent())
}

func TestSetMarkupReplacesChildren(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")
	el.Append(d.CreateElement("span"))

	el.SetMarkup("plain")

	assert.Empty(t, el.Children())
	assert.Equal(t, "plain", el.Markup())
}

func TestDispatch_Bubbles(t *testing.T) {
	d := NewDocument(NewManualClock())
	outer := d.CreateElement("div")
	inner := d.CreateElement("div")
	outer.Append(inner)

	var got []string
	outer.AddEventListener(EventClick, func(ev *Event) {
		got = append(got, "outer")
		assert.Same(t, inner, ev.Target)
		assert.Same(t, outer, ev.CurrentTarget)
	})
	inner.AddEventListener(EventClick, func(ev *Event) {
		got = append(got, "inner")
	})

	inner.Dispatch(NewEvent(EventClick))
	assert.Equal(t, []string{"inner", "outer"}, got)
}

func TestDispatch_StopImmediatePropagation(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")
	calls := 0
	el.AddEventListener(EventKeyDown, func(ev *Event) {
		calls++
		ev.StopImmediatePropagation()
	})
	el.AddEventListener(EventKeyDown, func(ev *Event) {
		calls++
	})

	el.Dispatch(NewKeyEvent(KeyEscape))
	assert.Equal(t, 1, calls)
}

func TestDispatch_OnceAndRemovedDuringDispatch(t *testing.T) {
	d := NewDocument(NewManualClock())
	el := d.CreateElement("div")

	onceCalls := 0
	el.AddEventListener(EventClick, func(*Event) { onceCalls++ }, Once())

	var second *Listener
	el.AddEventListener(EventClick, func(*Event) { second.Remove() })
	secondCalls := 0
	second = el.AddEventListener(EventClick, func(*Event) { secondCalls++ })

	el.Dispatch(NewEvent(EventClick))
	el.Dispatch(NewEvent(EventClick))

	assert.Equal(t, 1, onceCalls)
	assert.Equal(t, 0, secondCalls)
	assert.Equal(t, 1, el.ListenerCount(EventClick))
}

func TestTransitionEnd(t *testing.T) {
	clock := NewManualClock()
	d := NewDocument(clock)
	el := d.CreateElement("div")
	el.SetTransition(100 * time.Millisecond)
	d.Body().Append(el)

	fired := 0
	el.AddEventListener(EventTransitionEnd, func(*Event) { fired++ })

	el.ClassList().Add("show")
	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, 0, fired)

	// A newer change replaces the pending transition.
	el.ClassList().Remove("show")
	clock.Advance(60 * time.Millisecond)
	assert.Equal(t, 0, fired)
	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, 1, fired)

	// No change, no transition.
	el.ClassList().Remove("show")
	clock.Flush()
	assert.Equal(t, 1, fired)
}

func TestTransitionEnd_DetachedDoesNotFire(t *testing.T) {
	clock := NewManualClock()
	d := NewDocument(clock)
	el := d.CreateElement("div")
	el.SetTransition(10 * time.Millisecond)
	d.Body().Append(el)

	fired := false
	el.AddEventListener(EventTransitionEnd, func(*Event) { fired = true })
	el.ClassList().Add("show")
	el.Remove()
	clock.Flush()

	assert.False(t, fired)
}

func TestScrollbarProbe(t *testing.T) {
	d := NewDocument(NewManualClock(), WithViewport(100, 30), WithScrollbarWidth(2))
	probe := d.CreateElement("div")
	probe.Style().Set("overflow", "scroll")

	// Detached elements have no scrollbar.
	assert.Equal(t, 0, probe.OffsetWidth()-probe.ClientWidth())

	d.Body().Append(probe)
	assert.Equal(t, 100, probe.OffsetWidth())
	assert.Equal(t, 2, probe.OffsetWidth()-probe.ClientWidth())
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	var order []int

	clock.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
	clock.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 1)
		clock.AfterFunc(5*time.Millisecond, func() { order = append(order, 3) })
	})
	stopped := clock.AfterFunc(15*time.Millisecond, func() { order = append(order, 99) })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	clock.Advance(12 * time.Millisecond)
	assert.Equal(t, []int{1}, order)

	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{1, 3, 2}, order)
	assert.Equal(t, 0, clock.Pending())
}
