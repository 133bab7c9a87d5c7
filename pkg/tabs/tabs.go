// Package tabs is a controlled tab strip using manual activation: arrow
// keys only move focus between tabs, and the selection changes when a tab
// is clicked or activated with Enter/Space. Focus and selection are kept
// apart on purpose so screen reader users can browse tab names without
// switching panels.
package tabs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/focus"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// ErrNoValueChange is returned when Tabs are built without a change
// callback.
var ErrNoValueChange = errors.New("tabs: OnValueChange is required")

// Tab is one entry of the strip.
type Tab struct {
	Value string
	Label string
}

// Options configure Tabs.
type Options struct {
	ID            string // tablist element id
	Parent        string
	Tabs          []Tab
	Value         string
	OnValueChange func(string)
}

// Tabs is a mounted tablist.
type Tabs struct {
	h        *host.Host
	id       string
	tabs     []Tab
	value    string
	onChange func(string)
	roving   *focus.Roving
	unmount  func()
}

// New mounts the tablist and one tab button per entry.
func New(h *host.Host, opts Options) (*Tabs, error) {
	if h == nil {
		return nil, host.ErrNoHost
	}
	if opts.OnValueChange == nil {
		return nil, ErrNoValueChange
	}
	t := &Tabs{h: h, id: opts.ID, tabs: opts.Tabs, value: opts.Value, onChange: opts.OnValueChange}
	t.roving = focus.NewRoving(h, opts.ID, host.ByRole("tab"), focus.TabKeys())

	unmount, err := h.Mount(host.Element{
		ID:     opts.ID,
		Parent: opts.Parent,
		Role:   "tablist",
		OnKey:  t.listKey,
	})
	if err != nil {
		return nil, fmt.Errorf("tabs: mount tablist: %w", err)
	}
	for i, tab := range opts.Tabs {
		selected := tab.Value == opts.Value
		_, err := h.Mount(host.Element{
			ID:        t.tabID(i),
			Parent:    opts.ID,
			Role:      "tab",
			Label:     tab.Label,
			Focusable: true,
			Attrs: map[string]string{
				"aria-selected": strconv.FormatBool(selected),
				"data-state":    dataState(selected),
			},
			OnClick: func(*host.PointerEvent) { t.onChange(tab.Value) },
		})
		if err != nil {
			unmount()
			return nil, fmt.Errorf("tabs: mount tab %q: %w", tab.Value, err)
		}
	}
	t.unmount = unmount
	return t, nil
}

func dataState(selected bool) string {
	if selected {
		return "active"
	}
	return "inactive"
}

func (t *Tabs) tabID(i int) string { return t.id + "-tab-" + strconv.Itoa(i) }

// TabID returns the element id of the tab holding value, or "".
func (t *Tabs) TabID(value string) string {
	for i, tab := range t.tabs {
		if tab.Value == value {
			return t.tabID(i)
		}
	}
	return ""
}

// Value returns the value last supplied by the caller.
func (t *Tabs) Value() string { return t.value }

// SetValue applies a caller-owned selection.
func (t *Tabs) SetValue(v string) {
	t.value = v
	for i, tab := range t.tabs {
		selected := tab.Value == v
		t.h.SetAttr(t.tabID(i), "aria-selected", strconv.FormatBool(selected))
		t.h.SetAttr(t.tabID(i), "data-state", dataState(selected))
	}
}

// Keys returns the arrow-key bindings for help rendering.
func (t *Tabs) Keys() focus.KeyMap { return t.roving.Keys() }

// Unmount removes the tablist.
func (t *Tabs) Unmount() {
	if t.unmount != nil {
		t.unmount()
		t.unmount = nil
	}
}

// listKey moves focus among the tabs. The selection is untouched.
func (t *Tabs) listKey(e *host.KeyEvent) {
	t.roving.Refresh()
	t.roving.HandleKey(e)
}

// View renders the strip on one line.
func (t *Tabs) View(s theme.Styles, m mouse.Marker) string {
	cells := make([]string, 0, len(t.tabs))
	for i, tab := range t.tabs {
		id := t.tabID(i)
		style := s.Tab
		if tab.Value == t.value {
			style = s.TabSelected
		}
		if t.h.Active() == id {
			style = s.TabFocused
		}
		cells = append(cells, m.Mark(id, style.Render(tab.Label)))
	}
	return m.Mark(t.id, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}
