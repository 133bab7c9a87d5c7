// Package selectmenu is a single-choice listbox built on the disclosure
// core. It is a controlled widget: the chosen value belongs to the caller,
// who receives proposals through OnValueChange and feeds the accepted value
// back with SetValue.
package selectmenu

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/teamkit/pkg/disclosure"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
	"gitlab.com/tinyland/lab/teamkit/pkg/mouse"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// ErrNoValueChange is returned when a Select is built without a change
// callback.
var ErrNoValueChange = errors.New("selectmenu: OnValueChange is required")

// Option is one choice. Values are unique within a Select.
type Option struct {
	Value string
	Label string
}

// BuildRegistry derives the value-to-label map for options. The empty
// value always maps to placeholder unless an option claims it.
func BuildRegistry(placeholder string, options []Option) map[string]string {
	reg := make(map[string]string, len(options)+1)
	reg[""] = placeholder
	for _, o := range options {
		reg[o.Value] = o.Label
	}
	return reg
}

// Options configure a Select.
type Options struct {
	ID            string
	Parent        string
	Placeholder   string
	Options       []Option
	Value         string
	OnValueChange func(string)
	Typeahead     bool
}

// Select is a mounted listbox button.
type Select struct {
	h           *host.Host
	d           *disclosure.Disclosure
	placeholder string
	options     []Option
	registry    map[string]string
	value       string
	onChange    func(string)
}

// New mounts a select trigger.
func New(h *host.Host, opts Options) (*Select, error) {
	if opts.OnValueChange == nil {
		return nil, ErrNoValueChange
	}
	s := &Select{
		h:           h,
		placeholder: opts.Placeholder,
		value:       opts.Value,
		onChange:    opts.OnValueChange,
	}
	s.SetOptions(opts.Options)

	d, err := disclosure.New(h, disclosure.Options{
		ID:           opts.ID,
		Parent:       opts.Parent,
		Label:        s.Label(),
		ContentRole:  "listbox",
		ItemRole:     "option",
		Items:        s.elements,
		InitialFocus: func() string { return s.optionID(s.index(s.value)) },
		Typeahead:    opts.Typeahead,
	})
	if err != nil {
		return nil, err
	}
	s.d = d
	return s, nil
}

// Disclosure exposes the underlying open/close core.
func (s *Select) Disclosure() *disclosure.Disclosure { return s.d }

// Unmount removes the select from the host.
func (s *Select) Unmount() { s.d.Unmount() }

// SetOptions replaces the option set and rebuilds the label registry. An
// open list is refreshed in place.
func (s *Select) SetOptions(options []Option) {
	s.options = options
	s.registry = BuildRegistry(s.placeholder, options)
	if s.d == nil {
		return
	}
	s.h.SetLabel(s.d.TriggerID(), s.Label())
	if st := s.d.State(); st.Open {
		origin := disclosure.Pointer
		if st.OpenedByKeyboard {
			origin = disclosure.Keyboard
		}
		s.d.Close()
		if err := s.d.Open(origin); err != nil {
			s.h.Logger().Error("selectmenu reopen failed", "id", s.d.ID(), "err", err)
		}
	}
}

// Value returns the value last supplied by the caller.
func (s *Select) Value() string { return s.value }

// SetValue applies a caller-owned value and refreshes option state.
func (s *Select) SetValue(v string) {
	s.value = v
	s.h.SetLabel(s.d.TriggerID(), s.Label())
	for i, o := range s.options {
		s.markSelected(s.optionID(i), o.Value == v)
	}
}

// Label returns the text the trigger shows for the current value.
func (s *Select) Label() string {
	if l, ok := s.registry[s.value]; ok {
		return l
	}
	return s.placeholder
}

// Registry returns a copy of the label registry.
func (s *Select) Registry() map[string]string {
	out := make(map[string]string, len(s.registry))
	for k, v := range s.registry {
		out[k] = v
	}
	return out
}

// OptionID returns the element id of the option holding value, or "".
func (s *Select) OptionID(value string) string {
	return s.optionID(s.index(value))
}

func (s *Select) index(value string) int {
	for i, o := range s.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

func (s *Select) optionID(i int) string {
	if i < 0 || s.d == nil {
		return ""
	}
	return s.d.ID() + "-option-" + strconv.Itoa(i)
}

func (s *Select) markSelected(id string, selected bool) {
	state := "inactive"
	if selected {
		state = "active"
	}
	s.h.SetAttr(id, "aria-selected", strconv.FormatBool(selected))
	s.h.SetAttr(id, "data-state", state)
}

func (s *Select) elements(string) []host.Element {
	els := make([]host.Element, 0, len(s.options))
	for i, o := range s.options {
		selected := o.Value == s.value
		state := "inactive"
		if selected {
			state = "active"
		}
		els = append(els, host.Element{
			ID:        s.optionID(i),
			Role:      "option",
			Label:     o.Label,
			Focusable: true,
			TabIndex:  -1,
			Attrs: map[string]string{
				"aria-selected": strconv.FormatBool(selected),
				"data-state":    state,
			},
			OnKey: func(e *host.KeyEvent) {
				if e.Key == host.KeyEnter || e.Key == host.KeySpace {
					e.PreventDefault()
					s.choose(o.Value, true)
				}
			},
			OnClick: func(e *host.PointerEvent) {
				s.choose(o.Value, e.Synthetic)
			},
		})
	}
	return els
}

// choose proposes value to the caller and closes the list. Keyboard
// choices return focus to the trigger.
func (s *Select) choose(value string, keyboard bool) {
	s.onChange(value)
	if keyboard {
		s.d.CloseAndRestore()
		return
	}
	s.d.Close()
}

// View renders the trigger and, while open, the option list.
func (s *Select) View(st theme.Styles, m mouse.Marker) string {
	label := s.Label()
	if _, ok := s.registry[s.value]; !ok || s.value == "" {
		label = st.Placeholder.Render(label)
	}
	trigger := st.Trigger
	if s.d.IsOpen() {
		trigger = st.TriggerOpen
	}
	out := m.Mark(s.d.TriggerID(), trigger.Render(label+" ▾"))
	if !s.d.IsOpen() {
		return out
	}

	lines := make([]string, 0, len(s.options))
	for _, id := range s.d.Items() {
		el, _ := s.h.Element(id)
		style, mark := st.Item, "  "
		if el.Attrs["data-state"] == "active" {
			style, mark = st.ItemSelected, "✓ "
		}
		if s.h.Active() == id {
			style = st.ItemFocused
		}
		lines = append(lines, m.Mark(id, style.Render(mark+el.Label)))
	}
	list := m.Mark(s.d.ContentID(), st.Menu.Render(strings.Join(lines, "\n")))
	return lipgloss.JoinVertical(lipgloss.Left, out, list)
}
