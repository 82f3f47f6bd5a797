package theme

import (
	"iter"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Theme is a resolved theme together with the theme it includes.
type Theme struct {
	name     string
	raw      RawTheme
	include  RawTheme
	own      *ParsedTheme
	included *ParsedTheme
	colorMap *ColorMap

	guiColors atomic.Pointer[GuiColors]
}

// Option configures CreateFromRawTheme.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	colorMap *ColorMap
}

// WithLogger sets the logger used to report unresolved includes.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithColorMap interns colors into an existing map instead of a fresh one.
func WithColorMap(m *ColorMap) Option {
	return func(o *options) {
		if m != nil {
			o.colorMap = m
		}
	}
}

// CreateFromRawTheme resolves raw and the theme it includes. The resolver may
// be nil, in which case includes are ignored.
func CreateFromRawTheme(raw RawTheme, resolver Resolver, opts ...Option) (*Theme, error) {
	if raw == nil {
		return nil, ErrNilRawTheme
	}
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.colorMap == nil {
		o.colorMap = NewColorMap()
	}

	own := CreateFromParsedTheme(ParseTheme(raw), o.colorMap)
	includeRules, include := parseInclude(raw, resolver, o.logger)
	included := CreateFromParsedTheme(includeRules, o.colorMap)

	return &Theme{
		name:     raw.Name(),
		raw:      raw,
		include:  include,
		own:      own,
		included: included,
		colorMap: o.colorMap,
	}, nil
}

// Name returns the display name of the theme.
func (t *Theme) Name() string {
	return t.name
}

// Match returns candidate rules for a scope chain given outermost first. The
// own theme's candidates come first, innermost scope first, followed by the
// included theme's candidates in the same order. Duplicates are kept.
func (t *Theme) Match(scopeNames []string) []*TrieRule {
	var out []*TrieRule
	for i := len(scopeNames) - 1; i >= 0; i-- {
		out = append(out, t.own.Match(scopeNames[i])...)
	}
	for i := len(scopeNames) - 1; i >= 0; i-- {
		out = append(out, t.included.Match(scopeNames[i])...)
	}
	return out
}

// Defaults returns the own theme's default rule.
func (t *Theme) Defaults() *TrieRule {
	return t.own.Defaults()
}

// ColorID interns color and returns its id.
func (t *Theme) ColorID(color string) int {
	return t.colorMap.ID(color)
}

// Color returns the color for id, or "".
func (t *Theme) Color(id int) string {
	return t.colorMap.Color(id)
}

// ColorMap returns the color map shared by the own and included theme.
func (t *Theme) ColorMap() *ColorMap {
	return t.colorMap
}

// GuiColors returns the merged editor colors. The included theme's colors
// are applied first so the own theme wins on conflicts.
func (t *Theme) GuiColors() *GuiColors {
	if g := t.guiColors.Load(); g != nil {
		return g
	}
	merged := make(map[string]string)
	if t.include != nil {
		maps.Copy(merged, t.include.GuiColors())
	}
	maps.Copy(merged, t.raw.GuiColors())
	g := &GuiColors{m: merged}
	if t.guiColors.CompareAndSwap(nil, g) {
		return g
	}
	return t.guiColors.Load()
}

// GuiColors is a read-only view of a theme's editor colors.
type GuiColors struct {
	m map[string]string
}

// Get returns the color for key.
func (g *GuiColors) Get(key string) (string, bool) {
	c, ok := g.m[key]
	return c, ok
}

// Len returns the number of colors.
func (g *GuiColors) Len() int {
	return len(g.m)
}

// Keys returns the color names in sorted order.
func (g *GuiColors) Keys() []string {
	return slices.Sorted(maps.Keys(g.m))
}

// All iterates over all colors in unspecified order.
func (g *GuiColors) All() iter.Seq2[string, string] {
	return maps.All(g.m)
}
