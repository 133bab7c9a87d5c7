// Package host is the interaction surface headless widgets mount into. It
// plays the part a browser document plays for web components: it owns the
// element tree, keyboard focus, element attributes, document-level listeners
// and pointer hit-testing, and it applies default actions for keys nobody
// cancelled.
//
// All dispatch is synchronous and happens on the caller's goroutine, which in
// a Bubble Tea program is the Update loop. A Host is not safe for concurrent
// use.
//
// Dispatch order for a key event:
//
//  1. the focused element, then each ancestor (bubbling)
//  2. document listeners, in registration order
//  3. the default action, unless a handler called PreventDefault
//
// Pointer presses run document pointer-down listeners first, then move focus
// to the pressed element (if focusable) and finally bubble a click from the
// topmost element under the pointer.
package host

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultAppRoot is the element id modal dialogs mark inert while open.
const DefaultAppRoot = "root"

var (
	// ErrEmptyID is returned when mounting an element without an id.
	ErrEmptyID = errors.New("host: element id is empty")
	// ErrDuplicateID is returned when an id is already mounted.
	ErrDuplicateID = errors.New("host: element id already mounted")
	// ErrUnknownParent is returned when the parent id is not mounted.
	ErrUnknownParent = errors.New("host: parent element not mounted")
	// ErrNoHost is returned by widget constructors given a nil host.
	ErrNoHost = errors.New("host: nil host")
)

// Locator resolves pointer coordinates to element ids.
type Locator interface {
	// Hit returns the topmost element id at (x, y), or "".
	Hit(x, y int) string
}

// Element describes a node to mount.
type Element struct {
	ID        string
	Parent    string // "" mounts a new root
	Role      string
	Label     string // accessible name, also used for typeahead
	Attrs     map[string]string
	Focusable bool
	TabIndex  int // negative values keep the element out of Tab order

	OnKey   func(*KeyEvent)
	OnClick func(*PointerEvent)
}

type node struct {
	el       Element
	attrs    map[string]string
	parent   *node
	children []*node
}

// Host owns the element tree and dispatches input to it.
type Host struct {
	nodes   map[string]*node
	roots   []*node
	active  string
	locator Locator
	log     *slog.Logger
	appRoot string
	body    map[string]string

	keyListeners     []*Subscription
	pointerListeners []*Subscription
}

// Option configures a Host.
type Option func(*Host)

// WithLocator sets the pointer hit-tester.
func WithLocator(l Locator) Option {
	return func(h *Host) { h.locator = l }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithAppRoot overrides the application root element id.
func WithAppRoot(id string) Option {
	return func(h *Host) {
		if id != "" {
			h.appRoot = id
		}
	}
}

// New creates an empty Host.
func New(opts ...Option) *Host {
	h := &Host{
		nodes:   make(map[string]*node),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		appRoot: DefaultAppRoot,
		body:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Logger returns the host logger so widgets can log through it.
func (h *Host) Logger() *slog.Logger { return h.log }

// AppRoot returns the application root element id.
func (h *Host) AppRoot() string { return h.appRoot }

// SetLocator replaces the pointer hit-tester.
func (h *Host) SetLocator(l Locator) { h.locator = l }

// Mount adds el to the tree and returns a function that removes it along
// with its subtree. Calling the returned function more than once is safe.
func (h *Host) Mount(el Element) (func(), error) {
	if el.ID == "" {
		return nil, ErrEmptyID
	}
	if _, ok := h.nodes[el.ID]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, el.ID)
	}
	n := &node{el: el, attrs: make(map[string]string, len(el.Attrs)+1)}
	for k, v := range el.Attrs {
		n.attrs[k] = v
	}
	if el.Role != "" {
		n.attrs["role"] = el.Role
	}
	if el.Parent == "" {
		h.roots = append(h.roots, n)
	} else {
		p, ok := h.nodes[el.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q (child %q)", ErrUnknownParent, el.Parent, el.ID)
		}
		n.parent = p
		p.children = append(p.children, n)
	}
	h.nodes[el.ID] = n
	return func() { h.unmount(n) }, nil
}

func (h *Host) unmount(n *node) {
	if h.nodes[n.el.ID] != n {
		return
	}
	h.forget(n)
	if n.parent != nil {
		n.parent.children = removeNode(n.parent.children, n)
	} else {
		h.roots = removeNode(h.roots, n)
	}
}

func (h *Host) forget(n *node) {
	for _, c := range n.children {
		h.forget(c)
	}
	delete(h.nodes, n.el.ID)
	if h.active == n.el.ID {
		h.active = ""
	}
}

func removeNode(list []*node, n *node) []*node {
	for i, c := range list {
		if c == n {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Mounted reports whether id is in the tree.
func (h *Host) Mounted(id string) bool {
	_, ok := h.nodes[id]
	return ok
}

// Element returns the mounted element with its current attributes.
func (h *Host) Element(id string) (Element, bool) {
	n, ok := h.nodes[id]
	if !ok {
		return Element{}, false
	}
	el := n.el
	el.Attrs = make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		el.Attrs[k] = v
	}
	return el, true
}

// SetLabel updates the accessible name of a mounted element.
func (h *Host) SetLabel(id, label string) {
	if n, ok := h.nodes[id]; ok {
		n.el.Label = label
	}
}

// Attr returns an attribute value and whether it is present.
func (h *Host) Attr(id, name string) (string, bool) {
	n, ok := h.nodes[id]
	if !ok {
		return "", false
	}
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttr sets an attribute on a mounted element. Unknown ids are ignored.
func (h *Host) SetAttr(id, name, value string) {
	if n, ok := h.nodes[id]; ok {
		n.attrs[name] = value
	}
}

// RemoveAttr deletes an attribute.
func (h *Host) RemoveAttr(id, name string) {
	if n, ok := h.nodes[id]; ok {
		delete(n.attrs, name)
	}
}

// Contains reports whether id is ancestor or a descendant of ancestor.
func (h *Host) Contains(ancestor, id string) bool {
	for n := h.nodes[id]; n != nil; n = n.parent {
		if n.el.ID == ancestor {
			return true
		}
	}
	return false
}

// Inert reports whether id or any ancestor carries the inert attribute.
func (h *Host) Inert(id string) bool {
	for n := h.nodes[id]; n != nil; n = n.parent {
		if _, ok := n.attrs["inert"]; ok {
			return true
		}
	}
	return false
}

// Descendants returns the ids below root, in document order, for which
// match returns true. A nil match selects every descendant.
func (h *Host) Descendants(root string, match func(Element) bool) []string {
	n, ok := h.nodes[root]
	if !ok {
		return nil
	}
	var out []string
	var walk func(*node)
	walk = func(p *node) {
		for _, c := range p.children {
			if match == nil || match(c.el) {
				out = append(out, c.el.ID)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// ByRole matches elements with the given role.
func ByRole(role string) func(Element) bool {
	return func(el Element) bool { return el.Role == role }
}

// IsFocusable matches every focusable element, including those kept out of
// Tab order.
func IsFocusable(el Element) bool { return el.Focusable }

// BodyStyle returns a document body style property.
func (h *Host) BodyStyle(prop string) string { return h.body[prop] }

// SetBodyStyle sets a body style property. An empty value removes it.
func (h *Host) SetBodyStyle(prop, value string) {
	if value == "" {
		delete(h.body, prop)
		return
	}
	h.body[prop] = value
}

// Update translates Bubble Tea input messages and dispatches them. It
// reports whether msg was input the host understood.
func (h *Host) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		h.Key(FromKeyMsg(msg))
		return true
	case tea.MouseMsg:
		ev, ok := FromMouseMsg(msg)
		if ok {
			h.Pointer(ev)
		}
		return ok
	}
	return false
}
