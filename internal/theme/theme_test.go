package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/tmscope/internal/tokenattr"
)

func TestCreateFromRawTheme_NilTheme(t *testing.T) {
	_, err := CreateFromRawTheme(nil, nil)
	require.ErrorIs(t, err, ErrNilRawTheme)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTheme_MatchOrder(t *testing.T) {
	base := &testTheme{
		name:     "base",
		settings: []RawThemeSetting{rule("keyword", nil, "#00ff00", nil)},
	}
	own := &testTheme{
		name:    "own",
		include: "base",
		settings: []RawThemeSetting{
			rule("keyword", "bold", "#ff0000", nil),
			rule("source", nil, "#0000ff", nil),
		},
	}

	th, err := CreateFromRawTheme(own, mapResolver(map[string]RawTheme{"base": base}))
	require.NoError(t, err)
	assert.Equal(t, "own", th.Name())

	got := th.Match([]string{"source.go", "keyword.control.go"})
	require.Len(t, got, 4)

	// Own theme, innermost first.
	assert.Equal(t, "#FF0000", th.Color(got[0].Foreground))
	assert.Equal(t, tokenattr.Bold, got[0].FontStyle)
	assert.Equal(t, "#0000FF", th.Color(got[1].Foreground))
	// Included theme, innermost first.
	assert.Equal(t, "#00FF00", th.Color(got[2].Foreground))
	assert.Zero(t, got[3].Foreground)
}

func TestTheme_MatchKeepsDuplicates(t *testing.T) {
	base := &testTheme{settings: []RawThemeSetting{rule("a", nil, "#00ff00", nil)}}
	own := &testTheme{include: "base", settings: []RawThemeSetting{rule("a", nil, "#ff0000", nil)}}

	th, err := CreateFromRawTheme(own, mapResolver(map[string]RawTheme{"base": base}))
	require.NoError(t, err)

	got := th.Match([]string{"a", "a"})
	require.Len(t, got, 4)
	assert.Same(t, got[0], got[1])
	assert.Same(t, got[2], got[3])
	for i, want := range []string{"#FF0000", "#FF0000", "#00FF00", "#00FF00"} {
		assert.Equal(t, want, th.Color(got[i].Foreground), "rule %d", i)
	}
}

func TestTheme_SharedColorMap(t *testing.T) {
	base := &testTheme{settings: []RawThemeSetting{rule("a", nil, "#00ff00", nil)}}
	own := &testTheme{include: "base", settings: []RawThemeSetting{rule("a", nil, "#ff0000", nil)}}

	th, err := CreateFromRawTheme(own, mapResolver(map[string]RawTheme{"base": base}))
	require.NoError(t, err)

	assert.Equal(t, []string{"#000000", "#FFFFFF", "#FF0000", "#00FF00"}, th.ColorMap().Colors())
	assert.Equal(t, 3, th.ColorID("#FF0000"))
	assert.Equal(t, 3, th.ColorID("#ff0000"))
	assert.Equal(t, 5, th.ColorID("#abcdef"))
	assert.Equal(t, "#ABCDEF", th.Color(5))
	assert.Empty(t, th.Color(99))
}

func TestTheme_UnresolvedIncludeDegrades(t *testing.T) {
	own := &testTheme{include: "missing", settings: []RawThemeSetting{rule("a", nil, "#ff0000", nil)}}

	th, err := CreateFromRawTheme(own, mapResolver(nil))
	require.NoError(t, err)

	got := th.Match([]string{"a"})
	require.Len(t, got, 2)
	assert.Zero(t, got[1].Foreground)
}

func TestTheme_Defaults(t *testing.T) {
	own := &testTheme{settings: []RawThemeSetting{rule(nil, "", "#f8f8f2", "#272822")}}
	th, err := CreateFromRawTheme(own, nil)
	require.NoError(t, err)

	d := th.Defaults()
	assert.Equal(t, tokenattr.None, d.FontStyle)
	assert.Equal(t, "#F8F8F2", th.Color(d.Foreground))
	assert.Equal(t, "#272822", th.Color(d.Background))
}

func TestTheme_GuiColors(t *testing.T) {
	base := &testTheme{colors: map[string]string{
		"editor.background": "#111111",
		"editor.foreground": "#222222",
	}}
	own := &testTheme{include: "base", colors: map[string]string{
		"editor.background": "#333333",
	}}

	th, err := CreateFromRawTheme(own, mapResolver(map[string]RawTheme{"base": base}))
	require.NoError(t, err)

	g := th.GuiColors()
	assert.Same(t, g, th.GuiColors())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"editor.background", "editor.foreground"}, g.Keys())

	c, ok := g.Get("editor.background")
	require.True(t, ok)
	assert.Equal(t, "#333333", c)

	c, ok = g.Get("editor.foreground")
	require.True(t, ok)
	assert.Equal(t, "#222222", c)

	_, ok = g.Get("missing")
	assert.False(t, ok)

	n := 0
	for range g.All() {
		n++
	}
	assert.Equal(t, 2, n)
}

func TestTheme_WithColorMap(t *testing.T) {
	cm := NewColorMap()
	cm.ID("#123456")

	th, err := CreateFromRawTheme(&testTheme{}, nil, WithColorMap(cm))
	require.NoError(t, err)
	assert.Same(t, cm, th.ColorMap())
	assert.Equal(t, 2, th.Defaults().Foreground)
}

func TestColorMap_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cm := NewColorMap()
		colors := rapid.SliceOf(rapid.StringMatching(`#[0-9a-fA-F]{6}`)).Draw(t, "colors")
		for _, c := range colors {
			id := cm.ID(c)
			if id <= 0 {
				t.Fatalf("ID(%q) = %d", c, id)
			}
			if got := cm.Color(id); got != strings.ToUpper(c) {
				t.Fatalf("Color(ID(%q)) = %q", c, got)
			}
			if cm.ID(strings.ToLower(c)) != id {
				t.Fatalf("case variants of %q got different ids", c)
			}
		}
		if cm.ID("") != 0 {
			t.Fatal("empty color must map to 0")
		}
	})
}
