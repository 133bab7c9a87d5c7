// Package mouse resolves pointer coordinates to widget element ids.
//
// Two locators are provided. HitMap holds explicit rectangles and suits
// layouts computed by hand (and tests). ZoneLocator wraps bubblezone so
// views can mark regions inline while rendering and let the zone manager
// measure them. Both satisfy host.Locator.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Marker wraps rendered content for an element id so pointer presses on
// it can be located later.
type Marker interface {
	Mark(id, rendered string) string
}

// Plain is a Marker that leaves content untouched.
var Plain Marker = plain{}

type plain struct{}

func (plain) Mark(_, rendered string) string { return rendered }

// Rect is a screen rectangle. Width and height are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is an ordered set of regions. Regions added later sit on top.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

// Hit implements host.Locator.
func (m *HitMap) Hit(x, y int) string {
	if r := m.Test(x, y); r != nil {
		return r.ID
	}
	return ""
}

// Regions returns the registered regions, bottom first.
func (m *HitMap) Regions() []Region {
	return m.regions
}

// Clear removes every region. Call before re-registering after a layout
// change.
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// ZoneLocator hit-tests against bubblezone markers. Terminal output has no
// real stacking, so overlays are nested inside (or drawn beside) what they
// cover: when several zones contain a point the smallest one wins, and ties
// go to the zone marked last.
type ZoneLocator struct {
	zones *zone.Manager
	order []string
	seen  map[string]bool
}

// NewZoneLocator creates a locator with its own zone manager.
func NewZoneLocator() *ZoneLocator {
	return &ZoneLocator{zones: zone.New(), seen: make(map[string]bool)}
}

// Mark wraps rendered content for id. Call it from View.
func (z *ZoneLocator) Mark(id, rendered string) string {
	if !z.seen[id] {
		z.seen[id] = true
		z.order = append(z.order, id)
	}
	return z.zones.Mark(id, rendered)
}

// Scan strips zone markers from the final frame and records positions.
// Call it once on the root view.
func (z *ZoneLocator) Scan(frame string) string {
	return z.zones.Scan(frame)
}

// Reset forgets the marking order. Call at the start of each View so
// overlays that closed stop shadowing the content underneath.
func (z *ZoneLocator) Reset() {
	z.order = z.order[:0]
	clear(z.seen)
}

// Hit implements host.Locator.
func (z *ZoneLocator) Hit(x, y int) string {
	msg := tea.MouseMsg{X: x, Y: y}
	best, bestArea := "", -1
	for i := len(z.order) - 1; i >= 0; i-- {
		info := z.zones.Get(z.order[i])
		if info == nil || info.IsZero() || !info.InBounds(msg) {
			continue
		}
		area := (info.EndX - info.StartX + 1) * (info.EndY - info.StartY + 1)
		if bestArea < 0 || area < bestArea {
			best, bestArea = z.order[i], area
		}
	}
	return best
}

// Close releases the zone manager's background worker.
func (z *ZoneLocator) Close() {
	z.zones.Close()
}
