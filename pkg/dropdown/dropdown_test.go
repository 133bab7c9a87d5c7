package dropdown

import (
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/teamkit/pkg/disclosure"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

func newTestDropdown(t *testing.T, selected *[]string) (*host.Host, *Dropdown) {
	t.Helper()
	h := host.New()
	for _, el := range []host.Element{
		{ID: "root"},
		{ID: "name-input", Parent: "root", Focusable: true},
	} {
		if _, err := h.Mount(el); err != nil {
			t.Fatal(err)
		}
	}
	pick := func(v string) func() {
		return func() { *selected = append(*selected, v) }
	}
	dd, err := New(h, Options{
		ID: "actions", Parent: "root", Label: "Actions",
		Items: []Item{
			{ID: "edit", Label: "Edit", OnSelect: pick("edit")},
			{ID: "archive", Label: "Archive", OnSelect: pick("archive")},
			{Label: "Delete", OnSelect: pick("delete")},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, dd
}

func TestOutsidePointerDownCloses(t *testing.T) {
	var selected []string
	h, dd := newTestDropdown(t, &selected)

	hm := mouse.NewHitMap()
	hm.AddRect("root", 0, 0, 80, 24, nil)
	hm.AddRect("name-input", 0, 10, 20, 1, nil)
	hm.AddRect(dd.Disclosure().ID(), 0, 0, 20, 6, nil)
	hm.AddRect(dd.Disclosure().TriggerID(), 0, 0, 12, 1, nil)
	h.SetLocator(hm)

	h.Pointer(host.PointerEvent{X: 2, Y: 0, Button: host.ButtonLeft})
	if !dd.Disclosure().IsOpen() {
		t.Fatal("pointer press on trigger did not open")
	}

	// Inside the container but not on an item.
	h.Pointer(host.PointerEvent{X: 15, Y: 4, Button: host.ButtonLeft})
	if !dd.Disclosure().IsOpen() {
		t.Fatal("pointer-down inside the container closed the menu")
	}

	h.Pointer(host.PointerEvent{X: 5, Y: 10, Button: host.ButtonLeft})
	if dd.Disclosure().IsOpen() {
		t.Error("pointer-down outside the container left the menu open")
	}
	if len(selected) != 0 {
		t.Errorf("dismissal fired callbacks: %v", selected)
	}
}

func TestKeyboardActivationClosesAndRestoresFocus(t *testing.T) {
	var selected []string
	h, dd := newTestDropdown(t, &selected)
	trigger := dd.Disclosure().TriggerID()

	h.Focus(trigger)
	h.Key(host.Key(host.KeyEnter))
	h.Key(host.Key(host.KeyDown))
	if h.Active() != dd.ItemID(1) {
		t.Fatalf("Active() = %q, want second item", h.Active())
	}

	ev := h.Key(host.Key(host.KeySpace))
	if !ev.DefaultPrevented() {
		t.Error("Space on an item did not prevent default")
	}
	if len(selected) != 1 || selected[0] != "archive" {
		t.Errorf("selected = %v, want [archive]", selected)
	}
	if dd.Disclosure().IsOpen() {
		t.Error("menu still open after activation")
	}
	if h.Active() != trigger {
		t.Errorf("Active() = %q, want trigger", h.Active())
	}
}

func TestClickActivationCloses(t *testing.T) {
	var selected []string
	h, dd := newTestDropdown(t, &selected)

	if err := dd.Disclosure().Open(disclosure.Pointer); err != nil {
		t.Fatal(err)
	}
	h.Pointer(host.PointerEvent{Button: host.ButtonLeft, Target: dd.ItemID(2)})
	if len(selected) != 1 || selected[0] != "delete" {
		t.Errorf("selected = %v, want [delete]", selected)
	}
	if dd.Disclosure().IsOpen() {
		t.Error("menu still open after click")
	}
}

func TestItemRoles(t *testing.T) {
	var selected []string
	h, dd := newTestDropdown(t, &selected)
	if err := dd.Disclosure().Open(disclosure.Pointer); err != nil {
		t.Fatal(err)
	}
	if role, _ := h.Attr(dd.Disclosure().ContentID(), "role"); role != "menu" {
		t.Errorf("menu role = %q", role)
	}
	for i := range 3 {
		if role, _ := h.Attr(dd.ItemID(i), "role"); role != "menuitem" {
			t.Errorf("item %d role = %q", i, role)
		}
	}
	if dd.ItemID(2) != "actions-item-2" {
		t.Errorf("ItemID(2) = %q, want positional id", dd.ItemID(2))
	}
}

func TestView(t *testing.T) {
	var selected []string
	_, dd := newTestDropdown(t, &selected)
	s := theme.NewStyles(theme.Default())

	closed := dd.View(s, mouse.Plain)
	if !strings.Contains(closed, "Actions") || strings.Contains(closed, "Archive") {
		t.Errorf("closed view = %q", closed)
	}
	if err := dd.Disclosure().Open(disclosure.Pointer); err != nil {
		t.Fatal(err)
	}
	if open := dd.View(s, mouse.Plain); !strings.Contains(open, "Archive") {
		t.Errorf("open view missing items: %q", open)
	}
}
