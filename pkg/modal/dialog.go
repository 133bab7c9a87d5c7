package modal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// Title returns the heading element the dialog is labelled by.
func Title(text string) host.Element {
	return host.Element{ID: TitleID, Role: "heading", Label: text}
}

// Description returns the element the dialog is described by.
func Description(text string) host.Element {
	return host.Element{ID: DescriptionID, Label: text}
}

// CloseButton returns a button that closes m.
func CloseButton(m *Manager, id, label string) host.Element {
	if label == "" {
		label = "Close"
	}
	return host.Element{
		ID:        id,
		Role:      "button",
		Label:     label,
		Focusable: true,
		OnClick:   func(*host.PointerEvent) { m.Close() },
	}
}

// Action is a dialog button.
type Action struct {
	ID      string
	Label   string
	OnClick func(m *Manager)
}

// Dialog is a ready-made Content: a title, an optional description, a row
// of action buttons and an optional close button.
type Dialog struct {
	Title       string
	Description string
	Actions     []Action
	Closable    bool

	h   *host.Host
	ids []string
}

const dialogCloseID = "modal-close"

// Mount implements Content.
func (d *Dialog) Mount(h *host.Host, parent string, m *Manager) error {
	d.h = h
	d.ids = d.ids[:0]

	els := []host.Element{Title(d.Title)}
	if d.Description != "" {
		els = append(els, Description(d.Description))
	}
	for _, a := range d.Actions {
		els = append(els, host.Element{
			ID:        a.ID,
			Role:      "button",
			Label:     a.Label,
			Focusable: true,
			OnClick: func(*host.PointerEvent) {
				if a.OnClick != nil {
					a.OnClick(m)
				}
			},
		})
		d.ids = append(d.ids, a.ID)
	}
	if d.Closable {
		els = append(els, CloseButton(m, dialogCloseID, "Close"))
		d.ids = append(d.ids, dialogCloseID)
	}
	for _, el := range els {
		el.Parent = parent
		if _, err := h.Mount(el); err != nil {
			return fmt.Errorf("dialog %q: %w", d.Title, err)
		}
	}
	return nil
}

// View implements Content.
func (d *Dialog) View(s theme.Styles, mk mouse.Marker) string {
	rows := []string{s.Title.Render(d.Title)}
	if d.Description != "" {
		rows = append(rows, s.Description.Render(d.Description))
	}
	buttons := make([]string, 0, len(d.ids))
	for _, id := range d.ids {
		el, ok := d.h.Element(id)
		if !ok {
			continue
		}
		style := s.Trigger
		if d.h.Active() == id {
			style = s.TriggerOpen
		}
		label := el.Label
		if id == dialogCloseID {
			style = style.Inherit(s.CloseButton)
			label = "✕ " + label
		}
		buttons = append(buttons, mk.Mark(id, style.Render(label)))
	}
	if len(buttons) > 0 {
		rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}
	return strings.Join(rows, "\n")
}
