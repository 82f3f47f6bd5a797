package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tmscope/internal/theme"
	"github.com/dshills/tmscope/internal/tokenattr"
)

type rawTheme struct {
	settings []theme.RawThemeSetting
}

func (r *rawTheme) Name() string                         { return "test" }
func (r *rawTheme) Include() string                      { return "" }
func (r *rawTheme) Settings() []theme.RawThemeSetting    { return r.settings }
func (r *rawTheme) TokenColors() []theme.RawThemeSetting { return nil }
func (r *rawTheme) GuiColors() map[string]string         { return nil }

func setting(scope, fontStyle, fg string) theme.RawThemeSetting {
	return theme.RawThemeSetting{
		Scope:    scope,
		Settings: &theme.RawStyle{FontStyle: fontStyle, Foreground: fg},
	}
}

func newTestTheme(t *testing.T) *theme.Theme {
	t.Helper()
	th, err := theme.CreateFromRawTheme(&rawTheme{settings: []theme.RawThemeSetting{
		{Settings: &theme.RawStyle{Foreground: "#f8f8f2", Background: "#272822"}},
		setting("comment", "italic", "#75715e"),
		setting("string", "", "#e6db74"),
		setting("meta.tag string", "bold", "#ff0000"),
	}}, nil)
	require.NoError(t, err)
	return th
}

func TestScopeMetadataProvider_TokenType(t *testing.T) {
	p := NewScopeMetadataProvider(1, nil, nil)

	tests := []struct {
		scope string
		want  tokenattr.OptionalStandardTokenType
	}{
		{"comment.line.double-slash.go", tokenattr.OptionalComment},
		{"string.quoted.double.go", tokenattr.OptionalString},
		{"string.regex.js", tokenattr.OptionalString},
		{"constant.regex.js", tokenattr.OptionalRegEx},
		{"regex.other.js", tokenattr.OptionalRegEx},
		{"meta.embedded.block.css", tokenattr.OptionalOther},
		{"keyword.control.go", tokenattr.OptionalNotSet},
		{"comment", tokenattr.OptionalComment},
		{"string", tokenattr.OptionalString},
		{"punctuation.definition.comment", tokenattr.OptionalComment},
		{"source.regex", tokenattr.OptionalRegEx},
		{"meta.embedded", tokenattr.OptionalOther},
		{"stringify.call", tokenattr.OptionalNotSet},
		{"source.string.go", tokenattr.OptionalString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.MetadataForScope(tt.scope).TokenType, tt.scope)
	}
}

func TestScopeMetadataProvider_EmbeddedLanguages(t *testing.T) {
	p := NewScopeMetadataProvider(1, map[string]int{
		"source.css":        2,
		"source.css.scss":   3,
		"meta.embedded.php": 4,
	}, nil)

	assert.Equal(t, 2, p.MetadataForScope("source.css").LanguageID)
	assert.Equal(t, 2, p.MetadataForScope("source.css.embedded.html").LanguageID)
	assert.Equal(t, 3, p.MetadataForScope("source.css.scss").LanguageID)
	assert.Equal(t, 0, p.MetadataForScope("source.cssx").LanguageID)
	assert.Equal(t, 0, p.MetadataForScope("text.html").LanguageID)

	assert.Equal(t, BasicScopeAttributes{LanguageID: 1, TokenType: tokenattr.OptionalNotSet}, p.DefaultAttributes())
}

func TestScopeMetadataProvider_Cached(t *testing.T) {
	p := NewScopeMetadataProvider(1, nil, newTestTheme(t))
	a := p.MetadataForScope("string.quoted")
	assert.Same(t, a, p.MetadataForScope("string.quoted"))
	require.NotEmpty(t, a.ThemeData)
}

func TestNewRootScopeStack(t *testing.T) {
	th := newTestTheme(t)
	p := NewScopeMetadataProvider(5, nil, th)

	root, err := NewRootScopeStack("source.go", p)
	require.NoError(t, err)

	a := root.TokenAttributes()
	assert.Equal(t, 5, a.LanguageID())
	assert.Equal(t, tokenattr.Other, a.TokenType())
	assert.Equal(t, tokenattr.None, a.FontStyle())
	assert.Equal(t, "#F8F8F2", th.Color(a.Foreground()))
	assert.Equal(t, "#272822", th.Color(a.Background()))
	assert.Nil(t, root.Parent())

	_, err = NewRootScopeStack("source.go", nil)
	require.ErrorIs(t, err, ErrNilProvider)
}

func TestPush_ThemeEndToEnd(t *testing.T) {
	th := newTestTheme(t)
	p := NewScopeMetadataProvider(1, nil, th)
	root, err := NewRootScopeStack("text.html", p)
	require.NoError(t, err)

	str, err := root.Push("string.quoted.double.html", p)
	require.NoError(t, err)
	a := str.TokenAttributes()
	assert.Equal(t, "#E6DB74", th.Color(a.Foreground()))
	assert.Equal(t, tokenattr.None, a.FontStyle())
	assert.Equal(t, tokenattr.String, a.TokenType())

	tag, err := root.Push("meta.tag.html string.quoted.double.html", p)
	require.NoError(t, err)
	a = tag.TokenAttributes()
	assert.Equal(t, "#FF0000", th.Color(a.Foreground()))
	assert.Equal(t, tokenattr.Bold, a.FontStyle())
	assert.Equal(t, "#272822", th.Color(a.Background()))

	cmt, err := tag.Push("comment.block.html", p)
	require.NoError(t, err)
	a = cmt.TokenAttributes()
	assert.Equal(t, tokenattr.Comment, a.TokenType())
	assert.Equal(t, tokenattr.Italic, a.FontStyle())
	assert.Equal(t, []string{"text.html", "meta.tag.html", "string.quoted.double.html", "comment.block.html"}, cmt.ScopeNames())
}
