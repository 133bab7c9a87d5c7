package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/preview"
)

func (m *Model) marker() mouse.Marker {
	if m.zones != nil {
		return m.zones
	}
	return mouse.Plain
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	mk := m.marker()
	if m.zones != nil {
		m.zones.Reset()
	}

	var frame string
	switch {
	case m.modal.IsOpen():
		frame = m.modal.View(m.styles, mk, m.width, m.height)
	case m.upload.Picker().IsOpen():
		frame = m.pickerView()
	default:
		header := lipgloss.JoinHorizontal(lipgloss.Top,
			m.tabs.View(m.styles, mk), "  ", m.actions.View(m.styles, mk))
		body := m.formView(mk)
		if m.tab == TabTokens {
			body = m.tokensView()
		}
		frame = lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", m.statusView(), m.help.View(m.keys))
	}
	if m.zones != nil {
		return m.zones.Scan(frame)
	}
	return frame
}

func (m *Model) button(mk mouse.Marker, id string) string {
	el, _ := m.h.Element(id)
	style := m.styles.Trigger
	if m.h.Active() == id {
		style = m.styles.TriggerOpen
	}
	return mk.Mark(id, style.Render(el.Label))
}

func (m *Model) field(label, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Label.Render(label), body)
}

func (m *Model) formView(mk mouse.Marker) string {
	s := m.styles
	var thumbs []string
	for _, id := range m.image.Keys() {
		f, _ := m.image.Get(id)
		view, ok := m.previews[id]
		if f == nil {
			view, _ = m.renderer.Render(id, nil, m.cfg.Preview.Width*2, 1)
		} else if !ok {
			view = preview.Placeholder(f.Name, m.cfg.Preview.Width*2)
		}
		thumbs = append(thumbs, s.Thumb.Render(view))
	}
	if len(thumbs) == 0 {
		thumbs = append(thumbs, s.Muted.Render("No image"))
	}
	image := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, thumbs...),
		lipgloss.JoinHorizontal(lipgloss.Top, m.button(mk, ImageEditID), " ", m.button(mk, ImageRemoveID)),
	)

	nameStyle := s.Trigger
	if m.h.Active() == NameID {
		nameStyle = s.TriggerOpen
	}
	name := mk.Mark(NameID, nameStyle.Width(34).Render(m.name.View()))

	rows := []string{
		m.field("Team image", image),
		m.field("Team name *", name),
		m.field("Category", m.category.View(s, mk)),
		m.button(mk, SubmitID),
		s.Muted.Render("A company or club name works well as a team name."),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) tokensView() string {
	toks := m.theme.Tokens()
	lines := make([]string, 0, len(toks)+1)
	lines = append(lines, m.styles.Title.Render(m.theme.Name))
	for _, tk := range toks {
		lines = append(lines, fmt.Sprintf("%s %-22s %s", tk.Swatch().Render("    "), tk.Key, m.styles.Muted.Render(tk.Value)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) pickerView() string {
	p := m.upload.Picker()
	title := fmt.Sprintf("Choose an image (%s) · enter: pick · esc: done", m.upload.Accept())
	rows := []string{m.styles.Title.Render(ansi.Truncate(title, m.width, "…")), p.View()}
	if err := p.Err(); err != nil {
		rows = append(rows, m.styles.Danger.Render(err.Error()))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) statusView() string {
	if m.status == "" {
		return ""
	}
	st := m.styles.Muted
	if m.statusErr {
		st = m.styles.Danger
	}
	return st.Render(ansi.Truncate(m.status, max(m.width, 1), "…"))
}
