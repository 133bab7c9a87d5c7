package theme

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Adapt converts every color of t to the nearest color the profile can
// show. TrueColor returns t unchanged; Ascii clears all colors.
func Adapt(t Theme, p termenv.Profile) Theme {
	if p == termenv.TrueColor {
		return t
	}
	for _, c := range t.colors() {
		*c.value = adaptColor(*c.value, p)
	}
	return t
}

func adaptColor(hex string, p termenv.Profile) string {
	if !hexColorRegex.MatchString(hex) {
		return hex
	}
	switch c := p.Convert(termenv.RGBColor(opaque(hex))).(type) {
	case termenv.ANSI256Color:
		return strconv.Itoa(int(c))
	case termenv.ANSIColor:
		return strconv.Itoa(int(c))
	case termenv.RGBColor:
		return string(c)
	default:
		return ""
	}
}

// opaque drops the alpha channel of a "#RRGGBBAA" color; terminals have
// no blending.
func opaque(hex string) string {
	if strings.HasPrefix(hex, "#") && len(hex) == 9 {
		return hex[:7]
	}
	return hex
}

func color(hex string) lipgloss.Color {
	return lipgloss.Color(opaque(hex))
}

// Styles are the lipgloss styles widget views render with.
type Styles struct {
	Trigger     lipgloss.Style
	TriggerOpen lipgloss.Style
	Placeholder lipgloss.Style

	Menu         lipgloss.Style
	Item         lipgloss.Style
	ItemFocused  lipgloss.Style
	ItemSelected lipgloss.Style

	Tab         lipgloss.Style
	TabSelected lipgloss.Style
	TabFocused  lipgloss.Style

	Backdrop    lipgloss.Style
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Description lipgloss.Style
	CloseButton lipgloss.Style

	Thumb   lipgloss.Style
	Label   lipgloss.Style
	Danger  lipgloss.Style
	Muted   lipgloss.Style
	Focused lipgloss.Style
}

// NewStyles derives widget styles from t.
func NewStyles(t Theme) Styles {
	base := lipgloss.NewStyle().Foreground(color(t.TextPrimary))
	pad := base.Padding(0, 1)

	return Styles{
		Trigger: pad.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(t.InteractionInactive)),
		TriggerOpen: pad.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(t.BrandPrimary)),
		Placeholder: lipgloss.NewStyle().Foreground(color(t.TextDisabled)),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(color(t.BackgroundTertiary)),
		Item: pad,
		ItemFocused: pad.
			Foreground(color(t.TextInverse)).
			Background(color(t.InteractionHover)),
		ItemSelected: pad.
			Foreground(color(t.BrandPrimary)).
			Bold(TypeScale["md-semibold"].Bold()),

		Tab: pad.Foreground(color(t.TextDefault)),
		TabSelected: pad.
			Foreground(color(t.BrandPrimary)).
			Bold(true).
			Underline(true),
		TabFocused: pad.
			Foreground(color(t.TextInverse)).
			Background(color(t.InteractionPressed)),

		Backdrop: lipgloss.NewStyle().Foreground(color(t.InteractionInactive)).Faint(true),
		Panel: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(t.BrandTertiary)),
		Title:       base.Bold(TypeScale["xl-semibold"].Bold()),
		Description: lipgloss.NewStyle().Foreground(color(t.TextDefault)),
		CloseButton: lipgloss.NewStyle().Foreground(color(t.IconPrimary)),

		Thumb: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(color(t.BackgroundTertiary)),
		Label:   lipgloss.NewStyle().Foreground(color(t.TextSecondary)).Bold(TypeScale["md-medium"].Bold()),
		Danger:  lipgloss.NewStyle().Foreground(color(t.StatusDanger)),
		Muted:   lipgloss.NewStyle().Foreground(color(t.TextDefault)),
		Focused: lipgloss.NewStyle().Foreground(color(t.BrandPrimary)).Bold(true),
	}
}
