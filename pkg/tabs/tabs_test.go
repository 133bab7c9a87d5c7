package tabs

import (
	"errors"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

func newABC(t *testing.T, value string) (*host.Host, *Tabs, *[]string) {
	t.Helper()
	h := host.New()
	var changes []string
	tb, err := New(h, Options{
		ID:            "sections",
		Tabs:          []Tab{{"a", "Alpha"}, {"b", "Beta"}, {"c", "Gamma"}},
		Value:         value,
		OnValueChange: func(v string) { changes = append(changes, v) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, tb, &changes
}

func TestArrowKeysMoveFocusWithoutSelecting(t *testing.T) {
	h, tb, changes := newABC(t, "a")
	h.Focus(tb.TabID("b"))

	ev := h.Key(host.Key(host.KeyRight))
	if h.Active() != tb.TabID("c") {
		t.Errorf("ArrowRight from b: Active() = %q, want c", h.Active())
	}
	if !ev.DefaultPrevented() {
		t.Error("ArrowRight default not prevented")
	}
	if len(*changes) != 0 {
		t.Errorf("ArrowRight invoked OnValueChange: %v", *changes)
	}

	h.Key(host.Key(host.KeyRight))
	if h.Active() != tb.TabID("a") {
		t.Errorf("ArrowRight from last: Active() = %q, want wrap to a", h.Active())
	}
	h.Key(host.Key(host.KeyLeft))
	if h.Active() != tb.TabID("c") {
		t.Errorf("ArrowLeft from first: Active() = %q, want wrap to c", h.Active())
	}
	if len(*changes) != 0 {
		t.Errorf("arrow keys invoked OnValueChange: %v", *changes)
	}
}

func TestClickSelects(t *testing.T) {
	h, tb, changes := newABC(t, "a")
	h.Pointer(host.PointerEvent{Button: host.ButtonLeft, Target: tb.TabID("c")})
	if len(*changes) != 1 || (*changes)[0] != "c" {
		t.Errorf("changes = %v, want [c]", *changes)
	}
	if tb.Value() != "a" {
		t.Errorf("tabs changed their own value to %q", tb.Value())
	}
}

func TestEnterActivatesFocusedTab(t *testing.T) {
	h, tb, changes := newABC(t, "a")
	h.Focus(tb.TabID("a"))
	h.Key(host.Key(host.KeyRight))
	h.Key(host.Key(host.KeyEnter))
	if len(*changes) != 1 || (*changes)[0] != "b" {
		t.Errorf("changes = %v, want [b]", *changes)
	}
}

func TestHomeEndNotBound(t *testing.T) {
	h, tb, _ := newABC(t, "a")
	h.Focus(tb.TabID("b"))
	h.Key(host.Key(host.KeyEnd))
	if h.Active() != tb.TabID("b") {
		t.Errorf("End moved focus to %q", h.Active())
	}
}

func TestSelectionAttributes(t *testing.T) {
	h, tb, _ := newABC(t, "a")
	if role, _ := h.Attr("sections", "role"); role != "tablist" {
		t.Errorf("list role = %q", role)
	}
	tb.SetValue("b")
	cases := map[string][2]string{
		"a": {"false", "inactive"},
		"b": {"true", "active"},
		"c": {"false", "inactive"},
	}
	for v, want := range cases {
		id := tb.TabID(v)
		if role, _ := h.Attr(id, "role"); role != "tab" {
			t.Errorf("%s role = %q", v, role)
		}
		sel, _ := h.Attr(id, "aria-selected")
		st, _ := h.Attr(id, "data-state")
		if sel != want[0] || st != want[1] {
			t.Errorf("%s aria-selected=%q data-state=%q, want %v", v, sel, st, want)
		}
	}
}

func TestRequiresValueChange(t *testing.T) {
	if _, err := New(host.New(), Options{ID: "x"}); !errors.Is(err, ErrNoValueChange) {
		t.Errorf("error = %v", err)
	}
}

func TestView(t *testing.T) {
	_, tb, _ := newABC(t, "b")
	v := tb.View(theme.NewStyles(theme.Default()), mouse.Plain)
	for _, want := range []string{"Alpha", "Beta", "Gamma"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q: %q", want, v)
		}
	}
}
