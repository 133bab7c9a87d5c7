package host

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// mustMount mounts el or fails the test.
func mustMount(t *testing.T, h *Host, el Element) func() {
	t.Helper()
	unmount, err := h.Mount(el)
	if err != nil {
		t.Fatalf("Mount(%q): %v", el.ID, err)
	}
	return unmount
}

type fixedLocator map[[2]int]string

func (f fixedLocator) Hit(x, y int) string { return f[[2]int{x, y}] }

func TestMountErrors(t *testing.T) {
	h := New()
	mustMount(t, h, Element{ID: "root"})

	cases := []struct {
		name string
		el   Element
		want error
	}{
		{"empty id", Element{}, ErrEmptyID},
		{"duplicate", Element{ID: "root"}, ErrDuplicateID},
		{"unknown parent", Element{ID: "x", Parent: "missing"}, ErrUnknownParent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Mount(tc.el)
			if !errors.Is(err, tc.want) {
				t.Errorf("Mount() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUnmountRemovesSubtreeAndFocus(t *testing.T) {
	h := New()
	unmount := mustMount(t, h, Element{ID: "panel"})
	mustMount(t, h, Element{ID: "btn", Parent: "panel", Focusable: true})

	if !h.Focus("btn") {
		t.Fatal("Focus(btn) = false")
	}
	unmount()
	unmount()

	if h.Mounted("btn") || h.Mounted("panel") {
		t.Error("subtree still mounted after unmount")
	}
	if h.Active() != "" {
		t.Errorf("Active() = %q after unmounting focused element", h.Active())
	}
}

func TestDescendantsDocumentOrder(t *testing.T) {
	h := New()
	mustMount(t, h, Element{ID: "list"})
	mustMount(t, h, Element{ID: "a", Parent: "list", Role: "menuitem"})
	mustMount(t, h, Element{ID: "group", Parent: "list"})
	mustMount(t, h, Element{ID: "c", Parent: "list", Role: "menuitem"})
	mustMount(t, h, Element{ID: "b", Parent: "group", Role: "menuitem"})

	got := h.Descendants("list", ByRole("menuitem"))
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Descendants() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Descendants()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeyBubblesThenDocumentThenDefault(t *testing.T) {
	h := New()
	var order []string
	mustMount(t, h, Element{ID: "outer", OnKey: func(*KeyEvent) { order = append(order, "outer") }})
	mustMount(t, h, Element{
		ID: "btn", Parent: "outer", Focusable: true,
		OnKey:   func(*KeyEvent) { order = append(order, "btn") },
		OnClick: func(*PointerEvent) { order = append(order, "click") },
	})
	h.OnKey("doc", func(*KeyEvent) { order = append(order, "doc") })
	h.Focus("btn")

	h.Key(Key(KeyEnter))

	want := []string{"btn", "outer", "doc", "click"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPreventDefaultSuppressesClick(t *testing.T) {
	h := New()
	clicked := false
	mustMount(t, h, Element{
		ID: "btn", Focusable: true,
		OnKey:   func(e *KeyEvent) { e.PreventDefault() },
		OnClick: func(*PointerEvent) { clicked = true },
	})
	h.Focus("btn")

	ev := h.Key(Key(KeySpace))
	if !ev.DefaultPrevented() {
		t.Error("DefaultPrevented() = false")
	}
	if clicked {
		t.Error("click fired despite PreventDefault")
	}
}

func TestTabSkipsInertAndNegativeTabIndex(t *testing.T) {
	h := New()
	mustMount(t, h, Element{ID: "root"})
	mustMount(t, h, Element{ID: "a", Parent: "root", Focusable: true})
	mustMount(t, h, Element{ID: "b", Parent: "root", Focusable: true, TabIndex: -1})
	mustMount(t, h, Element{ID: "c", Parent: "root", Focusable: true})
	mustMount(t, h, Element{ID: "portal"})
	mustMount(t, h, Element{ID: "d", Parent: "portal", Focusable: true})

	h.Focus("a")
	h.Key(Key(KeyTab))
	if h.Active() != "c" {
		t.Errorf("after Tab Active() = %q, want c", h.Active())
	}

	h.SetAttr("root", "inert", "")
	if h.Focus("a") {
		t.Error("Focus() succeeded on inert element")
	}
	h.Key(Key(KeyTab))
	if h.Active() != "d" {
		t.Errorf("after Tab with inert root Active() = %q, want d", h.Active())
	}
	h.Key(Key(KeyTab))
	if h.Active() != "d" {
		t.Errorf("Tab should stay on the only tabbable element, got %q", h.Active())
	}
}

func TestTabFromOutsideTabOrder(t *testing.T) {
	h := New()
	mustMount(t, h, Element{ID: "root"})
	mustMount(t, h, Element{ID: "a", Parent: "root", Focusable: true})
	mustMount(t, h, Element{ID: "menu", Parent: "root"})
	mustMount(t, h, Element{ID: "item-0", Parent: "menu", Focusable: true, TabIndex: -1})
	mustMount(t, h, Element{ID: "item-1", Parent: "menu", Focusable: true, TabIndex: -1})
	mustMount(t, h, Element{ID: "c", Parent: "root", Focusable: true})
	mustMount(t, h, Element{ID: "d", Parent: "root", Focusable: true})
	mustMount(t, h, Element{ID: "tail", Parent: "root", Focusable: true, TabIndex: -1})

	tests := []struct {
		from, key, want string
	}{
		{"item-0", KeyTab, "c"},
		{"item-1", KeyTab, "c"},
		{"item-0", KeyShiftTab, "a"},
		{"item-1", KeyShiftTab, "a"},
		{"tail", KeyTab, "a"},
		{"tail", KeyShiftTab, "d"},
		{"d", KeyTab, "a"},
		{"a", KeyShiftTab, "d"},
	}
	for _, tt := range tests {
		t.Run(tt.from+" "+tt.key, func(t *testing.T) {
			if !h.Focus(tt.from) {
				t.Fatalf("Focus(%q) failed", tt.from)
			}
			h.Key(Key(tt.key))
			if h.Active() != tt.want {
				t.Errorf("Active() = %q, want %q", h.Active(), tt.want)
			}
		})
	}

	h.Blur()
	h.Key(Key(KeyShiftTab))
	if h.Active() != "d" {
		t.Errorf("Shift+Tab with nothing focused = %q, want d", h.Active())
	}
}

func TestFromKeyMsgCtrl(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		key  string
		ctrl bool
	}{
		{tea.KeyMsg{Type: tea.KeyBackspace}, "backspace", false},
		{tea.KeyMsg{Type: tea.KeyDelete}, "delete", false},
		{tea.KeyMsg{Type: tea.KeyPgUp}, "pgup", false},
		{tea.KeyMsg{Type: tea.KeyCtrlA}, "ctrl+a", true},
		{tea.KeyMsg{Type: tea.KeyCtrlUp}, "ctrl+up", true},
	}
	for _, tt := range tests {
		ev := FromKeyMsg(tt.msg)
		if ev.Key != tt.key || ev.Ctrl != tt.ctrl {
			t.Errorf("FromKeyMsg(%v) = {Key: %q, Ctrl: %v}, want {%q, %v}", tt.msg, ev.Key, ev.Ctrl, tt.key, tt.ctrl)
		}
	}
}

func TestSubscriptionCancel(t *testing.T) {
	h := New()
	calls := 0
	var second *Subscription
	h.OnKey("first", func(*KeyEvent) { second.Cancel() })
	second = h.OnKey("second", func(*KeyEvent) { calls++ })

	if h.ListenerCount() != 2 {
		t.Fatalf("ListenerCount() = %d, want 2", h.ListenerCount())
	}
	h.Key(Key(KeyEscape))
	if calls != 0 {
		t.Error("listener cancelled mid-dispatch still fired")
	}
	if h.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", h.ListenerCount())
	}
	second.Cancel()
	if h.ListenerCount() != 1 {
		t.Errorf("double Cancel changed ListenerCount to %d", h.ListenerCount())
	}
}

func TestPointerOrderAndStopPropagation(t *testing.T) {
	h := New(WithLocator(fixedLocator{{1, 1}: "inner", {5, 5}: "outer"}))
	var order []string
	mustMount(t, h, Element{ID: "outer", OnClick: func(*PointerEvent) { order = append(order, "outer") }})
	mustMount(t, h, Element{
		ID: "inner", Parent: "outer", Focusable: true,
		OnClick: func(e *PointerEvent) {
			order = append(order, "inner")
			e.StopPropagation()
		},
	})
	h.OnPointerDown("doc", func(e *PointerEvent) { order = append(order, "down:"+e.Target) })

	h.Pointer(PointerEvent{X: 1, Y: 1, Button: ButtonLeft})
	if h.Active() != "inner" {
		t.Errorf("Active() = %q, want inner", h.Active())
	}
	h.Pointer(PointerEvent{X: 5, Y: 5, Button: ButtonLeft})

	want := []string{"down:inner", "inner", "down:outer", "outer"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestUpdateTranslatesTeaMessages(t *testing.T) {
	h := New()
	var keys []string
	h.OnKey("doc", func(e *KeyEvent) { keys = append(keys, e.Key) })

	msgs := []tea.Msg{
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyEsc},
		tea.KeyMsg{Type: tea.KeyShiftTab},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}},
	}
	for _, msg := range msgs {
		if !h.Update(msg) {
			t.Errorf("Update(%v) = false", msg)
		}
	}
	want := []string{KeyEnter, KeySpace, KeyEscape, KeyShiftTab, "x"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	if h.Update(tea.MouseMsg{Action: tea.MouseActionMotion}) {
		t.Error("Update(motion) = true, want false")
	}
	if h.Update(tea.WindowSizeMsg{}) {
		t.Error("Update(WindowSizeMsg) = true, want false")
	}
}

func TestBodyStyle(t *testing.T) {
	h := New()
	h.SetBodyStyle("overflow", "hidden")
	if got := h.BodyStyle("overflow"); got != "hidden" {
		t.Errorf("BodyStyle = %q, want hidden", got)
	}
	h.SetBodyStyle("overflow", "")
	if got := h.BodyStyle("overflow"); got != "" {
		t.Errorf("BodyStyle = %q after clear", got)
	}
}
