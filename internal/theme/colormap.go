package theme

import (
	"strings"
	"sync"
)

// ColorMap interns color strings to small integer ids.
//
// Id 0 is reserved for "no color". Lookups are case-insensitive: colors are
// stored upper-cased. Different textual formats of the same visual color
// ("#FF0000" and "rgb(255,0,0)") get different ids.
type ColorMap struct {
	mu     sync.RWMutex
	ids    map[string]int
	colors []string // colors[id-1]
}

// NewColorMap creates an empty color map.
func NewColorMap() *ColorMap {
	return &ColorMap{
		ids: make(map[string]int),
	}
}

// ID returns the id for color, assigning the next free id on first use.
// The empty string maps to 0.
func (m *ColorMap) ID(color string) int {
	if color == "" {
		return 0
	}
	color = strings.ToUpper(color)

	m.mu.RLock()
	id, ok := m.ids[color]
	m.mu.RUnlock()
	if ok {
		return id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[color]; ok {
		return id
	}
	m.colors = append(m.colors, color)
	id = len(m.colors)
	m.ids[color] = id
	return id
}

// Color returns the upper-cased color for id, or "" if id is unknown.
func (m *ColorMap) Color(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id <= 0 || id > len(m.colors) {
		return ""
	}
	return m.colors[id-1]
}

// Colors returns all interned colors ordered by id, starting with id 1.
func (m *ColorMap) Colors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.colors))
	copy(out, m.colors)
	return out
}

// Len returns the number of interned colors.
func (m *ColorMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.colors)
}
