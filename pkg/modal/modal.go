// Package modal manages the program's single dialog slot.
//
// While a dialog is open the manager owns four document-level effects:
// the body scroll lock, the inert and aria-hidden marks on the application
// root, an Escape listener and the Tab focus trap. All four are set up in
// Open and torn down on every path through Close.
package modal

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/focus"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// Element ids owned by the manager.
const (
	BackdropID    = "modal-backdrop"
	PanelID       = "modal-panel"
	TitleID       = "modal-title"
	DescriptionID = "modal-description"
)

// ErrNoContent is returned by Open when content is nil.
var ErrNoContent = errors.New("modal: nil content")

// Content is what a dialog shows. Mount creates its elements under parent;
// they are removed with the panel when the dialog closes.
type Content interface {
	Mount(h *host.Host, parent string, m *Manager) error
	View(s theme.Styles, mk mouse.Marker) string
}

// State is the observable manager state.
type State struct {
	Open          bool
	Content       Content
	PreviousFocus string
}

// Option configures a Manager.
type Option func(*Manager)

// WithAppRoot overrides the element marked inert while open. The default
// is the host's app root.
func WithAppRoot(id string) Option {
	return func(m *Manager) { m.appRoot = id }
}

// Manager shows at most one dialog at a time.
type Manager struct {
	h        *host.Host
	modality *Modality
	appRoot  string
	state    State

	unmount       func()
	subs          []*host.Subscription
	locked        bool
	savedOverflow string
}

// NewManager creates a manager reading input modality from modality.
func NewManager(h *host.Host, modality *Modality, opts ...Option) (*Manager, error) {
	if h == nil {
		return nil, host.ErrNoHost
	}
	if modality == nil {
		return nil, errors.New("modal: nil modality")
	}
	m := &Manager{h: h, modality: modality, appRoot: h.AppRoot()}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// State returns the current state.
func (m *Manager) State() State { return m.state }

// IsOpen reports whether a dialog is shown.
func (m *Manager) IsOpen() bool { return m.state.Open }

// Open shows c. The previously focused element is remembered only when the
// last input was from the keyboard. Opening while a dialog is shown swaps
// the content and keeps the focus remembered by the first Open.
func (m *Manager) Open(c Content) error {
	if c == nil {
		return ErrNoContent
	}
	if m.state.Open {
		return m.swap(c)
	}

	prev := ""
	if m.modality.Last() == Keyboard {
		prev = m.h.Active()
	}

	if err := m.mountFrame(); err != nil {
		return err
	}
	if err := c.Mount(m.h, PanelID, m); err != nil {
		m.unmount()
		m.unmount = nil
		return fmt.Errorf("modal: mount content: %w", err)
	}

	m.state = State{Open: true, Content: c, PreviousFocus: prev}
	m.lockScroll()
	m.h.SetAttr(m.appRoot, "inert", "")
	m.h.SetAttr(m.appRoot, "aria-hidden", "true")
	m.subs = append(m.subs,
		m.h.OnKey("modal/escape", m.escape),
		m.h.OnKey("modal/trap", m.trap),
	)
	m.focusFirst()
	m.h.Logger().Debug("modal opened", "previous_focus", prev, "modality", m.modality.Last())
	return nil
}

// swap replaces the content of an open dialog. Document effects and the
// remembered focus stay as they are.
func (m *Manager) swap(c Content) error {
	if m.unmount != nil {
		m.unmount()
		m.unmount = nil
	}
	if err := m.mountFrame(); err != nil {
		m.Close()
		return err
	}
	if err := c.Mount(m.h, PanelID, m); err != nil {
		m.Close()
		return fmt.Errorf("modal: mount content: %w", err)
	}
	m.state.Content = c
	m.focusFirst()
	return nil
}

// mountFrame mounts the backdrop and panel elements.
func (m *Manager) mountFrame() error {
	unmount, err := m.h.Mount(host.Element{
		ID:   BackdropID,
		Role: "dialog",
		Attrs: map[string]string{
			"aria-modal":       "true",
			"aria-labelledby":  TitleID,
			"aria-describedby": DescriptionID,
		},
		OnClick: func(*host.PointerEvent) { m.Close() },
	})
	if err != nil {
		return fmt.Errorf("modal: mount backdrop: %w", err)
	}
	if _, err := m.h.Mount(host.Element{
		ID:      PanelID,
		Parent:  BackdropID,
		OnClick: func(e *host.PointerEvent) { e.StopPropagation() },
	}); err != nil {
		unmount()
		return fmt.Errorf("modal: mount panel: %w", err)
	}
	m.unmount = unmount
	return nil
}

// Close hides the dialog, releases every document effect and restores the
// remembered focus. Closing a closed manager is a no-op.
func (m *Manager) Close() {
	if !m.state.Open {
		return
	}
	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
	if m.unmount != nil {
		m.unmount()
		m.unmount = nil
	}
	m.unlockScroll()
	m.h.RemoveAttr(m.appRoot, "inert")
	m.h.RemoveAttr(m.appRoot, "aria-hidden")

	prev := m.state.PreviousFocus
	m.state = State{}
	if prev != "" {
		m.h.Focus(prev)
	}
	m.h.Logger().Debug("modal closed", "restored_focus", prev)
}

func (m *Manager) lockScroll() {
	if m.locked {
		return
	}
	m.savedOverflow = m.h.BodyStyle("overflow")
	m.h.SetBodyStyle("overflow", "hidden")
	m.locked = true
}

func (m *Manager) unlockScroll() {
	if !m.locked {
		return
	}
	m.h.SetBodyStyle("overflow", m.savedOverflow)
	m.savedOverflow = ""
	m.locked = false
}

// Focusables returns the panel's Tab stops in document order.
func (m *Manager) Focusables() []string {
	return m.h.Descendants(PanelID, func(el host.Element) bool {
		return el.Focusable && el.TabIndex >= 0
	})
}

func (m *Manager) focusFirst() {
	items := m.Focusables()
	if len(items) == 0 {
		m.h.Blur()
		return
	}
	m.h.Focus(items[0])
}

func (m *Manager) escape(e *host.KeyEvent) {
	if e.Key == host.KeyEscape {
		m.Close()
	}
}

// trap keeps Tab inside the panel. With nothing focusable inside, Tab does
// nothing at all.
func (m *Manager) trap(e *host.KeyEvent) {
	if e.Key != host.KeyTab && e.Key != host.KeyShiftTab {
		return
	}
	e.PreventDefault()
	items := m.Focusables()
	if len(items) == 0 {
		return
	}
	cur := focus.IndexOf(items, m.h.Active())
	next := focus.Next(cur, len(items))
	if e.Key == host.KeyShiftTab {
		next = focus.Prev(cur, len(items))
	}
	m.h.Focus(items[next])
}

// View renders the dialog centered over a dimmed width x height backdrop.
// It returns "" while closed.
func (m *Manager) View(s theme.Styles, mk mouse.Marker, width, height int) string {
	if !m.state.Open {
		return ""
	}
	panel := mk.Mark(PanelID, s.Panel.Render(m.state.Content.View(s, mk)))
	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(s.Backdrop.GetForeground()),
	)
	return mk.Mark(BackdropID, placed)
}
