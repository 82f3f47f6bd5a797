package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tmscope/internal/theme"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const baseTheme = `{"name": "Base", "tokenColors": [
	{"scope": "keyword", "settings": {"foreground": "#00ff00"}}
]}`

const childTheme = `{"name": "Child", "include": "base.json", "tokenColors": [
	{"scope": "string", "settings": {"foreground": "#ff0000"}}
]}`

func newTestRegistry(t *testing.T) (*Registry, string, string) {
	t.Helper()
	dir1, dir2 := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(dir1, "base.json"), baseTheme)
	writeFile(t, filepath.Join(dir1, "child.json"), childTheme)
	writeFile(t, filepath.Join(dir1, "Solarized Dark.yaml"), "name: Solarized Dark\n")
	writeFile(t, filepath.Join(dir1, "orphan.toml"), "include = \"nope.json\"\n")
	writeFile(t, filepath.Join(dir1, "notes.txt"), "not a theme")
	writeFile(t, filepath.Join(dir1, "sub", "extra.json"), `{"name": "Extra"}`)

	writeFile(t, filepath.Join(dir2, "base.toml"), "name = \"Shadowed\"\n")
	writeFile(t, filepath.Join(dir2, "light.toml"), "name = \"Light\"\n")

	r := NewRegistry(WithDirs(dir1, dir2, filepath.Join(dir1, "missing")))
	require.NoError(t, r.Refresh())
	return r, dir1, dir2
}

func TestRegistry_Catalog(t *testing.T) {
	r, dir1, _ := newTestRegistry(t)

	c := r.Catalog()
	assert.Equal(t, []string{"base", "child", "light", "orphan", "solarized-dark"}, c.Keys())

	base, ok := c.Get("base")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir1, "base.json"), base.Path)
	assert.Equal(t, FormatJSON, base.Format)
	assert.Equal(t, "Base", base.Name)

	orphan, ok := c.Get("orphan")
	require.True(t, ok)
	assert.Equal(t, "Orphan", orphan.Name)

	all := c.All()
	all[0].Key = "mutated"
	assert.Equal(t, "base", r.Catalog().All()[0].Key)
}

func TestRegistry_RefreshReportsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.json"), `{"name": "Good"}`)
	writeFile(t, filepath.Join(dir, "broken.json"), `{"name": `)

	r := NewRegistry(WithDirs(dir))
	err := r.Refresh()

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, filepath.Join(dir, "broken.json"), pe.Path)
	assert.Equal(t, []string{"good"}, r.Catalog().Keys())
}

func TestRegistry_Resolve(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	tests := []struct {
		name string
		want string
	}{
		{"base", "Base"},
		{"base.json", "Base"},
		{"./base.json", "Base"},
		{"light.toml", "Light"},
		{"sub/extra.json", "Extra"},
		{"Solarized Dark", "Solarized Dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := r.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw.Name())
		})
	}

	_, err := r.Resolve("nope")
	require.ErrorIs(t, err, ErrThemeNotFound)
}

func TestRegistry_ResolveCaches(t *testing.T) {
	r, dir1, _ := newTestRegistry(t)

	first, err := r.Resolve("base")
	require.NoError(t, err)
	again, err := r.Resolve("base.json")
	require.NoError(t, err)
	assert.Same(t, first, again)

	path := filepath.Join(dir1, "base.json")
	writeFile(t, path, `{"name": "Base v2"}`)

	cached, err := r.Resolve("base")
	require.NoError(t, err)
	assert.Equal(t, "Base", cached.Name())

	r.Invalidate(path)
	fresh, err := r.Resolve("base")
	require.NoError(t, err)
	assert.Equal(t, "Base v2", fresh.Name())
}

func TestRegistry_LoadIncludeChain(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	th, err := r.Load("child")
	require.NoError(t, err)
	assert.Equal(t, "Child", th.Name())

	got := th.Match([]string{"keyword.control"})
	require.Len(t, got, 2)
	assert.Zero(t, got[0].Foreground)
	assert.Equal(t, "#00FF00", th.Color(got[1].Foreground))

	got = th.Match([]string{"string.quoted"})
	assert.Equal(t, "#FF0000", th.Color(got[0].Foreground))
}

func TestRegistry_LoadMissingIncludeDegrades(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	th, err := r.Load("orphan")
	require.NoError(t, err)
	for _, rule := range th.Match([]string{"keyword"}) {
		assert.Zero(t, rule.Foreground)
		assert.Nil(t, rule.ParentScopes)
	}
}

func TestRegistry_Preload(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	themes, err := r.Preload(context.Background(), "base", "child", "light")
	require.NoError(t, err)
	require.Len(t, themes, 3)
	assert.Equal(t, "Base", themes[0].Name())
	assert.Equal(t, "Child", themes[1].Name())
	assert.Equal(t, "Light", themes[2].Name())

	_, err = r.Preload(context.Background(), "base", "nope")
	require.ErrorIs(t, err, ErrThemeNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Preload(ctx, "base")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_WithFileSystem(t *testing.T) {
	memfs := fstest.MapFS{
		"themes/dark.yaml": {Data: []byte("name: Dark\ntokenColors:\n  - scope: comment\n    settings: {fontStyle: italic}\n")},
		"themes/readme.md": {Data: []byte("# themes")},
	}
	r := NewRegistry(WithFileSystem(memfs), WithDirs("themes"), WithCacheTTL(0))
	require.NoError(t, r.Refresh())
	assert.Equal(t, []string{"dark"}, r.Catalog().Keys())

	th, err := r.Load("dark")
	require.NoError(t, err)
	assert.Equal(t, "Dark", th.Name())
	assert.NotEmpty(t, th.Match([]string{"comment.line"}))
}

func TestRegistry_ImplementsResolver(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	raw := &inlineTheme{include: "base"}

	rules, included := theme.ParseInclude(raw, r)
	require.Len(t, rules, 1)
	assert.Equal(t, "keyword", rules[0].Scope)
	assert.Equal(t, "Base", included.Name())
}

type inlineTheme struct {
	include string
}

func (t *inlineTheme) Name() string                         { return "inline" }
func (t *inlineTheme) Include() string                      { return t.include }
func (t *inlineTheme) Settings() []theme.RawThemeSetting    { return nil }
func (t *inlineTheme) TokenColors() []theme.RawThemeSetting { return nil }
func (t *inlineTheme) GuiColors() map[string]string         { return nil }

func TestSlugify(t *testing.T) {
	assert.Equal(t, "solarized-dark", slugify("Solarized Dark"))
	assert.Equal(t, "one-dark-pro", slugify("One_Dark--Pro"))
	assert.Equal(t, "dark-vs", slugify("dark_vs"))
	assert.Equal(t, "", slugify("!!"))
	assert.Equal(t, "Solarized Dark", humaniseSlug("solarized-dark"))
	assert.Equal(t, "Theme", humaniseSlug(""))

	assert.Equal(t, "élan-dark", keyFor("themes/élan-dark.json"))
	assert.Equal(t, "Élan Dark", humaniseSlug(keyFor("élan-dark.json")))
	assert.Equal(t, "Ünïcode 42", humaniseSlug("ünïcode-42"))
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		out = append(out, e)
	}
	return out
}

func findEntry(entries []map[string]any, msg string) (map[string]any, bool) {
	for _, e := range entries {
		if e["message"] == msg {
			return e, true
		}
	}
	return nil, false
}

func TestRegistry_ComponentLoggers(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(dir1, "!!.json"), `{"name": "Unnamed"}`)
	writeFile(t, filepath.Join(dir1, "orphan.toml"), "include = \"nope.json\"\n")
	writeFile(t, filepath.Join(dir2, "orphan.json"), `{"name": "Shadowed"}`)

	var buf bytes.Buffer
	r := NewRegistry(WithDirs(dir1, dir2), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, r.Refresh())
	assert.Equal(t, []string{"orphan"}, r.Catalog().Keys())

	_, err := r.Load("orphan")
	require.NoError(t, err)
	assert.True(t, r.handleEvent(fsnotify.Event{Name: filepath.Join(dir1, "orphan.toml"), Op: fsnotify.Write}))

	entries := logEntries(t, &buf)
	tests := []struct {
		msg       string
		component string
		file      string
	}{
		{"theme file name has no usable key", "registry", "!!.json"},
		{"theme key already taken", "registry", "orphan.json"},
		{"include not resolved", "theme", ""},
		{"theme file changed", "watcher", ""},
	}
	for _, tt := range tests {
		e, ok := findEntry(entries, tt.msg)
		require.True(t, ok, tt.msg)
		assert.Equal(t, tt.component, e["component"], tt.msg)
		if tt.file != "" {
			assert.Equal(t, tt.file, e["file"], tt.msg)
		}
	}

	e, _ := findEntry(entries, "theme key already taken")
	assert.Equal(t, "orphan", e["key"])
}
