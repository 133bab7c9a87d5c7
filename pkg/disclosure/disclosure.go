// Package disclosure implements the open/close core shared by menu-like
// widgets: a trigger button, a content element that exists only while
// open, outside-press and Escape dismissal, and roving focus over the
// content's items.
//
// Document listeners are attached on open and cancelled on every path to
// closed, so an idle disclosure holds no listeners.
package disclosure

import (
	"fmt"

	"gitlab.com/tinyland/lab/teamkit/pkg/focus"
	"gitlab.com/tinyland/lab/teamkit/pkg/host"
)

// Origin says what kind of input opened a disclosure.
type Origin int

const (
	Pointer Origin = iota
	Keyboard
)

func (o Origin) String() string {
	if o == Keyboard {
		return "keyboard"
	}
	return "pointer"
}

// State is the observable disclosure state.
type State struct {
	Open             bool
	OpenedByKeyboard bool
}

// Options configure a Disclosure.
type Options struct {
	ID     string // container element id; trigger and content ids derive from it
	Parent string
	Label  string // trigger label

	ContentRole string // "menu" or "listbox"
	ItemRole    string // role of the roving items, e.g. "menuitem"

	// Items returns the elements to mount inside the content on open.
	// Elements without a Parent are mounted directly under the content.
	Items func(contentID string) []host.Element
	// InitialFocus names the item to focus on open. Unknown or empty ids
	// fall back to the first item.
	InitialFocus func() string

	Keys      *focus.KeyMap // defaults to focus.MenuKeys
	Typeahead bool

	OnOpen  func(Origin)
	OnClose func()
}

// Disclosure is a mounted trigger and its on-demand content.
type Disclosure struct {
	h     *host.Host
	opts  Options
	state State

	roving  *focus.Roving
	subs    []*host.Subscription
	unmount func()
	content func()
}

// New mounts the container and trigger elements.
func New(h *host.Host, opts Options) (*Disclosure, error) {
	if h == nil {
		return nil, host.ErrNoHost
	}
	if opts.ContentRole == "" {
		opts.ContentRole = "menu"
	}
	keys := focus.MenuKeys()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	pred := host.IsFocusable
	if opts.ItemRole != "" {
		pred = host.ByRole(opts.ItemRole)
	}

	d := &Disclosure{h: h, opts: opts}
	d.roving = focus.NewRoving(h, d.ContentID(), pred, keys)
	if opts.Typeahead {
		d.roving.WithTypeahead()
	}

	unmountRoot, err := h.Mount(host.Element{ID: opts.ID, Parent: opts.Parent})
	if err != nil {
		return nil, fmt.Errorf("disclosure: mount container: %w", err)
	}
	_, err = h.Mount(host.Element{
		ID:        d.TriggerID(),
		Parent:    opts.ID,
		Role:      "button",
		Label:     opts.Label,
		Focusable: true,
		Attrs: map[string]string{
			"aria-haspopup": "true",
			"aria-expanded": "false",
		},
		OnKey:   d.triggerKey,
		OnClick: d.triggerClick,
	})
	if err != nil {
		unmountRoot()
		return nil, fmt.Errorf("disclosure: mount trigger: %w", err)
	}
	d.unmount = unmountRoot
	return d, nil
}

// ID returns the container element id.
func (d *Disclosure) ID() string { return d.opts.ID }

// TriggerID returns the trigger button id.
func (d *Disclosure) TriggerID() string { return d.opts.ID + "-trigger" }

// ContentID returns the content element id. The element exists only
// while open.
func (d *Disclosure) ContentID() string { return d.opts.ID + "-content" }

// State returns the current state.
func (d *Disclosure) State() State { return d.state }

// IsOpen reports whether the content is shown.
func (d *Disclosure) IsOpen() bool { return d.state.Open }

// Items returns the item ids discovered on the last open.
func (d *Disclosure) Items() []string { return d.roving.Items() }

// Roving exposes the item focus list.
func (d *Disclosure) Roving() *focus.Roving { return d.roving }

func (d *Disclosure) triggerKey(e *host.KeyEvent) {
	if e.Key != host.KeyEnter && e.Key != host.KeySpace {
		return
	}
	e.PreventDefault()
	if err := d.Toggle(Keyboard); err != nil {
		d.h.Logger().Error("disclosure toggle failed", "id", d.opts.ID, "err", err)
	}
}

func (d *Disclosure) triggerClick(e *host.PointerEvent) {
	origin := Pointer
	if e.Synthetic {
		origin = Keyboard
	}
	if err := d.Toggle(origin); err != nil {
		d.h.Logger().Error("disclosure toggle failed", "id", d.opts.ID, "err", err)
	}
}

// Toggle opens a closed disclosure and closes an open one.
func (d *Disclosure) Toggle(origin Origin) error {
	if d.state.Open {
		d.Close()
		return nil
	}
	return d.Open(origin)
}

// Open shows the content, mounts its items, focuses the initial item and
// attaches the dismissal listeners. Opening an open disclosure is a no-op.
func (d *Disclosure) Open(origin Origin) error {
	if d.state.Open {
		return nil
	}
	if d.unmount == nil {
		return fmt.Errorf("disclosure %q: open after unmount", d.opts.ID)
	}

	unmountContent, err := d.h.Mount(host.Element{
		ID:     d.ContentID(),
		Parent: d.opts.ID,
		Role:   d.opts.ContentRole,
	})
	if err != nil {
		return fmt.Errorf("disclosure: mount content: %w", err)
	}
	if d.opts.Items != nil {
		for _, el := range d.opts.Items(d.ContentID()) {
			if el.Parent == "" {
				el.Parent = d.ContentID()
			}
			if _, err := d.h.Mount(el); err != nil {
				unmountContent()
				return fmt.Errorf("disclosure: mount item: %w", err)
			}
		}
	}

	d.content = unmountContent
	d.state = State{Open: true, OpenedByKeyboard: origin == Keyboard}
	d.h.SetAttr(d.TriggerID(), "aria-expanded", "true")

	d.roving.Refresh()
	initial := ""
	if d.opts.InitialFocus != nil {
		initial = d.opts.InitialFocus()
	}
	d.roving.FocusID(initial)

	d.subs = append(d.subs,
		d.h.OnPointerDown(d.opts.ID+"/outside", d.outsidePress),
		d.h.OnKey(d.opts.ID+"/keys", d.documentKey),
	)
	d.h.Logger().Debug("disclosure opened", "id", d.opts.ID, "origin", origin, "items", len(d.roving.Items()))
	if d.opts.OnOpen != nil {
		d.opts.OnOpen(origin)
	}
	return nil
}

// Close hides the content and detaches the listeners. Focus is not moved;
// callers that need focus returned use CloseAndRestore.
func (d *Disclosure) Close() {
	if !d.state.Open {
		return
	}
	for _, s := range d.subs {
		s.Cancel()
	}
	d.subs = nil
	if d.content != nil {
		d.content()
		d.content = nil
	}
	d.state = State{}
	d.h.SetAttr(d.TriggerID(), "aria-expanded", "false")
	d.h.Logger().Debug("disclosure closed", "id", d.opts.ID)
	if d.opts.OnClose != nil {
		d.opts.OnClose()
	}
}

// CloseAndRestore closes the disclosure and moves focus back to the
// trigger.
func (d *Disclosure) CloseAndRestore() {
	d.Close()
	d.h.Focus(d.TriggerID())
}

// Unmount closes the disclosure and removes its elements.
func (d *Disclosure) Unmount() {
	d.Close()
	if d.unmount != nil {
		d.unmount()
		d.unmount = nil
	}
}

func (d *Disclosure) outsidePress(e *host.PointerEvent) {
	if !d.h.Contains(d.opts.ID, e.Target) {
		d.Close()
	}
}

func (d *Disclosure) documentKey(e *host.KeyEvent) {
	if e.Key == host.KeyEscape {
		if d.state.OpenedByKeyboard {
			d.CloseAndRestore()
		} else {
			d.Close()
		}
		return
	}
	d.roving.HandleKey(e)
}
