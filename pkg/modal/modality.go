package modal

import (
	"sync/atomic"

	"gitlab.com/tinyland/lab/teamkit/pkg/host"
)

// Input is the kind of input the user reached for last.
type Input int32

const (
	Pointer Input = iota
	Keyboard
)

func (i Input) String() string {
	if i == Keyboard {
		return "keyboard"
	}
	return "pointer"
}

// Modality tracks the last input modality for the whole program. Create one
// at start-up, Install it on the host and share it with every Manager. It
// is written only by its own two listeners; everything else reads it.
type Modality struct {
	last atomic.Int32
	subs []*host.Subscription
}

// NewModality returns a tracker that starts in pointer modality.
func NewModality() *Modality {
	return &Modality{}
}

// Install attaches the tracking listeners. A pointer press records Pointer;
// Tab, Shift+Tab, Enter and Space record Keyboard. Other keys leave the
// modality alone. Installing twice is a no-op.
func (m *Modality) Install(h *host.Host) {
	if len(m.subs) > 0 {
		return
	}
	m.subs = []*host.Subscription{
		h.OnPointerDown("modality/pointer", func(*host.PointerEvent) {
			m.last.Store(int32(Pointer))
		}),
		h.OnKey("modality/keyboard", func(e *host.KeyEvent) {
			switch e.Key {
			case host.KeyTab, host.KeyShiftTab, host.KeyEnter, host.KeySpace:
				m.last.Store(int32(Keyboard))
			}
		}),
	}
}

// Uninstall detaches the tracking listeners.
func (m *Modality) Uninstall() {
	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
}

// Last returns the most recent modality.
func (m *Modality) Last() Input {
	return Input(m.last.Load())
}
