// Package dropdown is a disclosure menu whose items run a callback and
// close the menu when activated.
package dropdown

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/disclosure"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// Item is one menu entry.
type Item struct {
	ID       string // optional; defaults to the item's position
	Label    string
	OnSelect func()
}

// Options configure a Dropdown.
type Options struct {
	ID        string
	Parent    string
	Label     string
	Items     []Item
	Typeahead bool
}

// Dropdown is a mounted menu button.
type Dropdown struct {
	h     *host.Host
	d     *disclosure.Disclosure
	items []Item
}

// New mounts a dropdown trigger. Items are mounted each time it opens.
func New(h *host.Host, opts Options) (*Dropdown, error) {
	dd := &Dropdown{h: h, items: opts.Items}
	d, err := disclosure.New(h, disclosure.Options{
		ID:          opts.ID,
		Parent:      opts.Parent,
		Label:       opts.Label,
		ContentRole: "menu",
		ItemRole:    "menuitem",
		Items:       dd.elements,
		Typeahead:   opts.Typeahead,
	})
	if err != nil {
		return nil, err
	}
	dd.d = d
	return dd, nil
}

// Disclosure exposes the underlying open/close core.
func (dd *Dropdown) Disclosure() *disclosure.Disclosure { return dd.d }

// SetItems replaces the menu entries. An open menu keeps showing the old
// entries until it is reopened.
func (dd *Dropdown) SetItems(items []Item) { dd.items = items }

// ItemID returns the element id of the i-th item.
func (dd *Dropdown) ItemID(i int) string {
	key := dd.items[i].ID
	if key == "" {
		key = strconv.Itoa(i)
	}
	return dd.d.ID() + "-item-" + key
}

// Unmount removes the dropdown from the host.
func (dd *Dropdown) Unmount() { dd.d.Unmount() }

func (dd *Dropdown) elements(string) []host.Element {
	els := make([]host.Element, 0, len(dd.items))
	for i, it := range dd.items {
		els = append(els, host.Element{
			ID:        dd.ItemID(i),
			Role:      "menuitem",
			Label:     it.Label,
			Focusable: true,
			TabIndex:  -1,
			OnKey: func(e *host.KeyEvent) {
				if e.Key == host.KeyEnter || e.Key == host.KeySpace {
					e.PreventDefault()
					dd.activate(it, true)
				}
			},
			OnClick: func(e *host.PointerEvent) {
				dd.activate(it, e.Synthetic)
			},
		})
	}
	return els
}

// activate runs the item callback and closes the menu. Keyboard
// activation hands focus back to the trigger.
func (dd *Dropdown) activate(it Item, keyboard bool) {
	if it.OnSelect != nil {
		it.OnSelect()
	}
	if keyboard {
		dd.d.CloseAndRestore()
		return
	}
	dd.d.Close()
}

// View renders the trigger and, while open, the menu below it.
func (dd *Dropdown) View(s theme.Styles, m mouse.Marker) string {
	label := dd.d.TriggerID()
	if el, ok := dd.h.Element(dd.d.TriggerID()); ok {
		label = el.Label
	}

	trigger := s.Trigger
	caret := " ▾"
	if dd.d.IsOpen() {
		trigger = s.TriggerOpen
		caret = " ▴"
	}
	out := m.Mark(dd.d.TriggerID(), trigger.Render(label+caret))
	if !dd.d.IsOpen() {
		return out
	}

	lines := make([]string, 0, len(dd.d.Items()))
	for _, id := range dd.d.Items() {
		el, _ := dd.h.Element(id)
		style := s.Item
		if dd.h.Active() == id {
			style = s.ItemFocused
		}
		lines = append(lines, m.Mark(id, style.Render(el.Label)))
	}
	menu := m.Mark(dd.d.ContentID(), s.Menu.Render(strings.Join(lines, "\n")))
	return lipgloss.JoinVertical(lipgloss.Left, out, menu)
}
