package host

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Normalized key names. Printable characters keep their literal rune string.
const (
	KeyEnter    = "enter"
	KeySpace    = "space"
	KeyEscape   = "esc"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyHome     = "home"
	KeyEnd      = "end"
)

// KeyEvent is a keyboard event travelling through the host. Handlers may
// cancel the default action or stop it from reaching outer handlers.
type KeyEvent struct {
	Key    string // normalized key name
	Runes  []rune // printable input, empty for named keys
	Target string // element focused when the event was dispatched
	Ctrl   bool
	Alt    bool

	prevented bool
	stopped   bool
}

// String returns the normalized key name so a KeyEvent can be matched
// against bubbles key bindings.
func (e *KeyEvent) String() string { return e.Key }

// PreventDefault cancels the host default action (focus movement for Tab,
// synthetic click for Enter/Space).
func (e *KeyEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *KeyEvent) DefaultPrevented() bool { return e.prevented }

// StopPropagation keeps the event from reaching ancestors and document
// listeners.
func (e *KeyEvent) StopPropagation() { e.stopped = true }

// Printable reports whether the event carries printable runes.
func (e *KeyEvent) Printable() bool {
	return len(e.Runes) > 0 && !e.Ctrl && !e.Alt && e.Key != KeySpace
}

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheel
)

// PointerEvent is a pointer press travelling through the host.
type PointerEvent struct {
	X, Y      int
	Button    Button
	Target    string // topmost element under the pointer, "" for none
	Synthetic bool   // click produced by Enter/Space on a focused element

	stopped bool
}

// StopPropagation keeps a click from bubbling to ancestor elements.
func (e *PointerEvent) StopPropagation() { e.stopped = true }

// Key builds a KeyEvent for a named key. Mostly useful in tests.
func Key(name string) KeyEvent {
	if name == " " {
		name = KeySpace
	}
	return KeyEvent{Key: name}
}

// Rune builds a KeyEvent for a printable character.
func Rune(r rune) KeyEvent {
	if r == ' ' {
		return KeyEvent{Key: KeySpace, Runes: []rune{r}}
	}
	return KeyEvent{Key: string(r), Runes: []rune{r}}
}

// FromKeyMsg translates a Bubble Tea key message into a host KeyEvent.
func FromKeyMsg(msg tea.KeyMsg) KeyEvent {
	ev := KeyEvent{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyEnter:
		ev.Key = KeyEnter
	case tea.KeySpace:
		ev.Key = KeySpace
		ev.Runes = []rune{' '}
	case tea.KeyEsc:
		ev.Key = KeyEscape
	case tea.KeyTab:
		ev.Key = KeyTab
	case tea.KeyShiftTab:
		ev.Key = KeyShiftTab
	case tea.KeyUp:
		ev.Key = KeyUp
	case tea.KeyDown:
		ev.Key = KeyDown
	case tea.KeyLeft:
		ev.Key = KeyLeft
	case tea.KeyRight:
		ev.Key = KeyRight
	case tea.KeyHome:
		ev.Key = KeyHome
	case tea.KeyEnd:
		ev.Key = KeyEnd
	case tea.KeyRunes:
		ev.Runes = msg.Runes
		ev.Key = string(msg.Runes)
		if ev.Key == " " {
			ev.Key = KeySpace
		}
	default:
		ev.Key = msg.String()
		ev.Ctrl = strings.HasPrefix(ev.Key, "ctrl+")
	}
	return ev
}

// FromMouseMsg translates a Bubble Tea mouse message. ok is false for
// anything that is not a button press.
func FromMouseMsg(msg tea.MouseMsg) (PointerEvent, bool) {
	if msg.Action != tea.MouseActionPress {
		return PointerEvent{}, false
	}
	ev := PointerEvent{X: msg.X, Y: msg.Y}
	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = ButtonRight
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown,
		tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		ev.Button = ButtonWheel
	default:
		ev.Button = ButtonNone
	}
	return ev, true
}
