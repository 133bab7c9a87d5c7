package host

// Subscription is a document-level listener registration.
type Subscription struct {
	h         *Host
	name      string
	onKey     func(*KeyEvent)
	onPointer func(*PointerEvent)
	cancelled bool
}

// Cancel detaches the listener. It is safe to call more than once, and a
// listener cancelled mid-dispatch does not fire for the current event.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	if s.onKey != nil {
		s.h.keyListeners = removeSub(s.h.keyListeners, s)
	} else {
		s.h.pointerListeners = removeSub(s.h.pointerListeners, s)
	}
	s.h.log.Debug("listener detached", "name", s.name)
}

func removeSub(list []*Subscription, s *Subscription) []*Subscription {
	for i, c := range list {
		if c == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// OnKey registers a document key listener.
func (h *Host) OnKey(name string, fn func(*KeyEvent)) *Subscription {
	s := &Subscription{h: h, name: name, onKey: fn}
	h.keyListeners = append(h.keyListeners, s)
	h.log.Debug("listener attached", "name", name, "kind", "key")
	return s
}

// OnPointerDown registers a document pointer-down listener.
func (h *Host) OnPointerDown(name string, fn func(*PointerEvent)) *Subscription {
	s := &Subscription{h: h, name: name, onPointer: fn}
	h.pointerListeners = append(h.pointerListeners, s)
	h.log.Debug("listener attached", "name", name, "kind", "pointer")
	return s
}

// ListenerCount returns the number of attached document listeners.
func (h *Host) ListenerCount() int {
	return len(h.keyListeners) + len(h.pointerListeners)
}

// Active returns the focused element id, or "" when nothing has focus.
func (h *Host) Active() string { return h.active }

// Focus moves keyboard focus to id. It fails for unknown, non-focusable or
// inert elements.
func (h *Host) Focus(id string) bool {
	n, ok := h.nodes[id]
	if !ok || !n.el.Focusable || h.Inert(id) {
		return false
	}
	h.active = id
	return true
}

// Blur clears keyboard focus.
func (h *Host) Blur() { h.active = "" }

// Key dispatches a key event to the focused element, its ancestors, the
// document listeners and finally the default action.
func (h *Host) Key(ev KeyEvent) *KeyEvent {
	e := &ev
	e.Target = h.active
	listeners := append([]*Subscription(nil), h.keyListeners...)

	for n := h.nodes[e.Target]; n != nil && !e.stopped; n = n.parent {
		if h.nodes[n.el.ID] != n {
			break
		}
		if n.el.OnKey != nil {
			n.el.OnKey(e)
		}
	}
	for _, s := range listeners {
		if e.stopped {
			break
		}
		if !s.cancelled {
			s.onKey(e)
		}
	}
	if !e.prevented {
		h.defaultKey(e)
	}
	return e
}

func (h *Host) defaultKey(e *KeyEvent) {
	switch e.Key {
	case KeyTab:
		h.moveTab(1)
	case KeyShiftTab:
		h.moveTab(-1)
	case KeyEnter, KeySpace:
		if e.Target == "" || e.Target != h.active {
			return
		}
		if n := h.nodes[e.Target]; n != nil && n.el.OnClick != nil {
			h.click(&PointerEvent{Button: ButtonLeft, Target: e.Target, Synthetic: true})
		}
	}
}

// Tabbable returns every element reachable with Tab, in document order.
func (h *Host) Tabbable() []string {
	var out []string
	h.walkTabbable(func(id string, tabbable bool) {
		if tabbable {
			out = append(out, id)
		}
	})
	return out
}

// walkTabbable visits every mounted element in document order and reports
// whether it is a Tab stop.
func (h *Host) walkTabbable(visit func(id string, tabbable bool)) {
	var walk func(*node, bool)
	walk = func(n *node, inert bool) {
		if _, ok := n.attrs["inert"]; ok {
			inert = true
		}
		visit(n.el.ID, !inert && n.el.Focusable && n.el.TabIndex >= 0)
		for _, c := range n.children {
			walk(c, inert)
		}
	}
	for _, r := range h.roots {
		walk(r, false)
	}
}

// moveTab moves focus to the next (dir > 0) or previous Tab stop. When the
// focused element is not itself a Tab stop, the search starts from its
// place in document order.
func (h *Host) moveTab(dir int) {
	var order []string
	at, self := -1, false
	h.walkTabbable(func(id string, tabbable bool) {
		if id == h.active && h.active != "" {
			at, self = len(order), tabbable
		}
		if tabbable {
			order = append(order, id)
		}
	})
	n := len(order)
	if n == 0 {
		return
	}

	var next int
	switch {
	case self:
		next = (at + dir + n) % n
	case at < 0 && dir > 0:
		next = 0
	case at < 0:
		next = n - 1
	case dir > 0:
		// order[at] is the first stop after the focused element.
		next = at % n
	default:
		next = (at - 1 + n) % n
	}
	h.active = order[next]
}

// Pointer dispatches a pointer press. When ev.Target is empty it is resolved
// through the Locator.
func (h *Host) Pointer(ev PointerEvent) *PointerEvent {
	e := &ev
	if e.Target == "" && h.locator != nil {
		e.Target = h.locator.Hit(e.X, e.Y)
	}
	if !h.Mounted(e.Target) {
		e.Target = ""
	}
	if e.Button == ButtonWheel || e.Button == ButtonNone {
		return e
	}

	listeners := append([]*Subscription(nil), h.pointerListeners...)
	for _, s := range listeners {
		if !s.cancelled {
			s.onPointer(e)
		}
	}

	if e.Button != ButtonLeft || e.Target == "" || h.Inert(e.Target) {
		return e
	}
	if n := h.nodes[e.Target]; n != nil && n.el.Focusable {
		h.active = e.Target
	}
	h.click(e)
	return e
}

// Click dispatches a click on id as if it had been pressed with the pointer
// but without running pointer-down listeners.
func (h *Host) Click(id string) *PointerEvent {
	e := &PointerEvent{Button: ButtonLeft, Target: id}
	if h.Mounted(id) && !h.Inert(id) {
		h.click(e)
	}
	return e
}

func (h *Host) click(e *PointerEvent) {
	for n := h.nodes[e.Target]; n != nil && !e.stopped; n = n.parent {
		if h.nodes[n.el.ID] != n {
			break
		}
		if n.el.OnClick != nil {
			n.el.OnClick(e)
		}
	}
}
