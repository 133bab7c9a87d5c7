package focus

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sahilm/fuzzy"

	"gitlab.com/tinyland/lab/teamkit/pkg/host"
)

// KeyMap binds the roving navigation keys.
type KeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
}

// MenuKeys is the vertical menu/listbox keymap.
func MenuKeys() KeyMap {
	return KeyMap{
		Next:  key.NewBinding(key.WithKeys(host.KeyDown), key.WithHelp("↓", "next")),
		Prev:  key.NewBinding(key.WithKeys(host.KeyUp), key.WithHelp("↑", "previous")),
		First: key.NewBinding(key.WithKeys(host.KeyHome), key.WithHelp("home", "first")),
		Last:  key.NewBinding(key.WithKeys(host.KeyEnd), key.WithHelp("end", "last")),
	}
}

// TabKeys is the horizontal tablist keymap. Home and End are not bound.
func TabKeys() KeyMap {
	return KeyMap{
		Next:  key.NewBinding(key.WithKeys(host.KeyRight), key.WithHelp("→", "next tab")),
		Prev:  key.NewBinding(key.WithKeys(host.KeyLeft), key.WithHelp("←", "previous tab")),
		First: key.NewBinding(key.WithDisabled()),
		Last:  key.NewBinding(key.WithDisabled()),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.First, k.Last}}
}

// Roving moves focus among the elements of a scope that satisfy match. The
// item list is discovered from the host tree on Refresh, never declared up
// front, so it always reflects what is mounted at that moment.
type Roving struct {
	h         *host.Host
	scope     string
	match     func(host.Element) bool
	keys      KeyMap
	items     []string
	typeahead bool
	query     string
}

// NewRoving creates a roving list over the descendants of scope.
func NewRoving(h *host.Host, scope string, match func(host.Element) bool, keys KeyMap) *Roving {
	return &Roving{h: h, scope: scope, match: match, keys: keys}
}

// WithTypeahead enables fuzzy label matching for printable keys.
func (r *Roving) WithTypeahead() *Roving {
	r.typeahead = true
	return r
}

// Keys returns the keymap.
func (r *Roving) Keys() KeyMap { return r.keys }

// Refresh recomputes the item list from the host tree.
func (r *Roving) Refresh() []string {
	r.items = r.h.Descendants(r.scope, r.match)
	r.query = ""
	return r.items
}

// Items returns the list computed by the last Refresh.
func (r *Roving) Items() []string { return r.items }

// Current returns the index of the focused item, or -1.
func (r *Roving) Current() int {
	return IndexOf(r.items, r.h.Active())
}

// FocusIndex focuses the item at i. Out-of-range indices are ignored.
func (r *Roving) FocusIndex(i int) bool {
	if i < 0 || i >= len(r.items) {
		return false
	}
	return r.h.Focus(r.items[i])
}

// FocusID focuses id if it is one of the items, else the first item.
func (r *Roving) FocusID(id string) bool {
	if i := IndexOf(r.items, id); i >= 0 {
		return r.FocusIndex(i)
	}
	return r.FocusIndex(0)
}

// HandleKey applies navigation for e. It reports whether e was a
// navigation key; handled keys have their default action prevented even
// when the list is empty.
func (r *Roving) HandleKey(e *host.KeyEvent) bool {
	n := len(r.items)
	switch {
	case key.Matches(e, r.keys.Next):
		e.PreventDefault()
		r.query = ""
		r.FocusIndex(Next(r.Current(), n))
	case key.Matches(e, r.keys.Prev):
		e.PreventDefault()
		r.query = ""
		r.FocusIndex(Prev(r.Current(), n))
	case key.Matches(e, r.keys.First):
		e.PreventDefault()
		r.query = ""
		r.FocusIndex(0)
	case key.Matches(e, r.keys.Last):
		e.PreventDefault()
		r.query = ""
		r.FocusIndex(n - 1)
	case r.typeahead && e.Printable():
		return r.Typeahead(string(e.Runes))
	default:
		return false
	}
	return true
}

// Typeahead appends input to the pending query and focuses the best fuzzy
// match among item labels. When the accumulated query stops matching, the
// new input alone is tried. No match leaves focus unchanged.
func (r *Roving) Typeahead(input string) bool {
	if len(r.items) == 0 || input == "" {
		return false
	}
	labels := make([]string, len(r.items))
	for i, id := range r.items {
		if el, ok := r.h.Element(id); ok {
			labels[i] = el.Label
		}
	}
	r.query += input
	matches := fuzzy.Find(r.query, labels)
	if len(matches) == 0 && r.query != input {
		r.query = input
		matches = fuzzy.Find(r.query, labels)
	}
	if len(matches) == 0 {
		r.query = ""
		return false
	}
	return r.FocusIndex(matches[0].Index)
}
