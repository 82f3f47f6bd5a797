// Package termstyle turns packed token attributes into terminal styles.
package termstyle

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/tmscope/internal/theme"
	"github.com/dshills/tmscope/internal/tokenattr"
)

// ColorSource maps color ids to hex strings. *theme.Theme and
// *theme.ColorMap implement it.
type ColorSource interface {
	Color(id int) string
}

var (
	_ ColorSource = (*theme.Theme)(nil)
	_ ColorSource = (*theme.ColorMap)(nil)
)

type rgba struct {
	c     colorful.Color
	alpha float64
}

// Resolver converts attributes to tcell styles. Parsed colors are cached per
// id. It is safe for concurrent use.
type Resolver struct {
	colors ColorSource

	mu    sync.RWMutex
	cache map[int]*rgba // nil value: id has no usable color
}

// NewResolver creates a resolver over colors.
func NewResolver(colors ColorSource) *Resolver {
	return &Resolver{
		colors: colors,
		cache:  make(map[int]*rgba),
	}
}

// Style returns the terminal style for a. Colors with an alpha channel are
// blended onto the background color when there is one.
func (r *Resolver) Style(a tokenattr.Attributes) tcell.Style {
	style := tcell.StyleDefault

	bg := r.lookup(a.Background())
	if bg != nil {
		style = style.Background(toTcell(bg.c))
	}
	if fg := r.lookup(a.Foreground()); fg != nil {
		c := fg.c
		if fg.alpha < 1 && bg != nil {
			c = bg.c.BlendRgb(fg.c, fg.alpha)
		}
		style = style.Foreground(toTcell(c))
	}

	fs := a.FontStyle()
	if fs.Has(tokenattr.Bold) {
		style = style.Bold(true)
	}
	if fs.Has(tokenattr.Italic) {
		style = style.Italic(true)
	}
	if fs.Has(tokenattr.Underline) {
		style = style.Underline(true)
	}
	if fs.Has(tokenattr.Strikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

// Color returns the tcell color for id, ignoring any alpha channel.
func (r *Resolver) Color(id int) (tcell.Color, bool) {
	c := r.lookup(id)
	if c == nil {
		return tcell.ColorDefault, false
	}
	return toTcell(c.c), true
}

func (r *Resolver) lookup(id int) *rgba {
	if id == 0 {
		return nil
	}
	r.mu.RLock()
	c, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return c
	}

	c, err := parseHex(r.colors.Color(id))
	if err != nil {
		c = nil
	}
	r.mu.Lock()
	r.cache[id] = c
	r.mu.Unlock()
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	red, green, blue := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(red), int32(green), int32(blue))
}

// parseHex parses #rgb, #rgba, #rrggbb and #rrggbbaa colors.
func parseHex(s string) (*rgba, error) {
	if !theme.IsValidHexColor(s) {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}

	alpha := 1.0
	switch len(s) {
	case 5:
		a, _ := strconv.ParseUint(s[4:5]+s[4:5], 16, 8)
		alpha = float64(a) / 255
		s = s[:4]
	case 9:
		a, _ := strconv.ParseUint(s[7:9], 16, 8)
		alpha = float64(a) / 255
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return &rgba{c: c, alpha: alpha}, nil
}
