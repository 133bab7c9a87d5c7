// Package theme holds the design tokens the widgets render with: the color
// palette and type scale of the product, a registry of named variants and
// the lipgloss styles derived from them.
package theme

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is one palette of design tokens. Colors are "#RRGGBB" or
// "#RRGGBBAA" hex strings, or 256-color indices after Adapt.
type Theme struct {
	Name string

	BrandPrimary   string
	BrandSecondary string
	BrandTertiary  string

	PointPurple string
	PointCyan   string
	PointPink   string
	PointRose   string
	PointOrange string
	PointYellow string

	BackgroundPrimary   string
	BackgroundSecondary string
	BackgroundTertiary  string
	BackgroundInverse   string

	InteractionInactive string
	InteractionHover    string
	InteractionPressed  string

	BorderPrimary string

	TextPrimary   string
	TextSecondary string
	TextTertiary  string
	TextDefault   string
	TextInverse   string
	TextDisabled  string

	StatusDanger string

	IconPrimary string
	IconInverse string
	IconBrand   string
}

// Current holds the active theme (set via SetCurrent).
var Current Theme

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	Register(Default())
	Register(Midnight())
	Current = Default()
}

// Register adds t to the registry under its lowercase name, replacing any
// theme of the same name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup returns a named theme and whether it is registered.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all registered theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	Current = Get(name)
}

// Default is the product palette as designed for light surfaces.
func Default() Theme {
	return Theme{
		Name: "default",

		BrandPrimary:   "#5189FA",
		BrandSecondary: "#EEF3FF",
		BrandTertiary:  "#315296",

		PointPurple: "#A855F7",
		PointCyan:   "#06B6D4",
		PointPink:   "#EC4899",
		PointRose:   "#F43F5E",
		PointOrange: "#F97316",
		PointYellow: "#EAB308",

		BackgroundPrimary:   "#FFFFFF",
		BackgroundSecondary: "#F1F5F9",
		BackgroundTertiary:  "#E2E8F0",
		BackgroundInverse:   "#E2E8F0",

		InteractionInactive: "#94A3B8",
		InteractionHover:    "#416EC8",
		InteractionPressed:  "#3B63B5",

		BorderPrimary: "#F8FAFC80",

		TextPrimary:   "#1E293B",
		TextSecondary: "#334155",
		TextTertiary:  "#0F172A",
		TextDefault:   "#64748B",
		TextInverse:   "#FFFFFF",
		TextDisabled:  "#94A3B8",

		StatusDanger: "#FC4B4B",

		IconPrimary: "#64748B",
		IconInverse: "#F8FAFC",
		IconBrand:   "#74A1FB",
	}
}

// Midnight keeps the brand and point colors and inverts the surfaces for
// dark terminals.
func Midnight() Theme {
	t := Default()
	t.Name = "midnight"
	t.BrandSecondary = "#1E2A44"
	t.BackgroundPrimary = "#0F172A"
	t.BackgroundSecondary = "#1E293B"
	t.BackgroundTertiary = "#334155"
	t.BackgroundInverse = "#F1F5F9"
	t.BorderPrimary = "#334155"
	t.TextPrimary = "#F1F5F9"
	t.TextSecondary = "#CBD5E1"
	t.TextTertiary = "#F8FAFC"
	t.TextDefault = "#94A3B8"
	t.TextInverse = "#0F172A"
	t.TextDisabled = "#475569"
	t.IconPrimary = "#94A3B8"
	t.IconInverse = "#0F172A"
	return t
}

// colors lists every color token under its file key, in file order.
func (t *Theme) colors() []tokenField {
	return []tokenField{
		{"brand.primary", &t.BrandPrimary},
		{"brand.secondary", &t.BrandSecondary},
		{"brand.tertiary", &t.BrandTertiary},
		{"point.purple", &t.PointPurple},
		{"point.cyan", &t.PointCyan},
		{"point.pink", &t.PointPink},
		{"point.rose", &t.PointRose},
		{"point.orange", &t.PointOrange},
		{"point.yellow", &t.PointYellow},
		{"background.primary", &t.BackgroundPrimary},
		{"background.secondary", &t.BackgroundSecondary},
		{"background.tertiary", &t.BackgroundTertiary},
		{"background.inverse", &t.BackgroundInverse},
		{"interaction.inactive", &t.InteractionInactive},
		{"interaction.hover", &t.InteractionHover},
		{"interaction.pressed", &t.InteractionPressed},
		{"border.primary", &t.BorderPrimary},
		{"text.primary", &t.TextPrimary},
		{"text.secondary", &t.TextSecondary},
		{"text.tertiary", &t.TextTertiary},
		{"text.default", &t.TextDefault},
		{"text.inverse", &t.TextInverse},
		{"text.disabled", &t.TextDisabled},
		{"status.danger", &t.StatusDanger},
		{"icon.primary", &t.IconPrimary},
		{"icon.inverse", &t.IconInverse},
		{"icon.brand", &t.IconBrand},
	}
}

// Token is one named color.
type Token struct {
	Key   string
	Value string
}

// Tokens returns every color token in file order.
func (t Theme) Tokens() []Token {
	fields := t.colors()
	out := make([]Token, len(fields))
	for i, f := range fields {
		out[i] = Token{Key: f.key, Value: *f.value}
	}
	return out
}

// Swatch returns a style painting the token color as background.
func (tk Token) Swatch() lipgloss.Style {
	return lipgloss.NewStyle().Background(color(tk.Value))
}

type tokenField struct {
	key   string
	value *string
}
