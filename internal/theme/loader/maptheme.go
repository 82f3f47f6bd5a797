package loader

import (
	"maps"

	"github.com/dshills/tmscope/internal/theme"
)

// MapTheme is a theme.RawTheme over a decoded theme file. It recognizes the
// keys "name", "include", "settings", "tokenColors" and "colors".
type MapTheme struct {
	name        string
	include     string
	settings    []theme.RawThemeSetting
	tokenColors []theme.RawThemeSetting
	colors      map[string]string
}

var _ theme.RawTheme = (*MapTheme)(nil)

// NewMapTheme converts a decoded theme document. fallbackName is used when
// the document has no "name".
func NewMapTheme(fallbackName string, doc map[string]any) *MapTheme {
	t := &MapTheme{
		name:        fallbackName,
		settings:    rawSettings(doc["settings"]),
		tokenColors: rawSettings(doc["tokenColors"]),
		colors:      make(map[string]string),
	}
	if name, ok := doc["name"].(string); ok && name != "" {
		t.name = name
	}
	if include, ok := doc["include"].(string); ok {
		t.include = include
	}
	if colors, ok := doc["colors"].(map[string]any); ok {
		for k, v := range colors {
			if s, ok := v.(string); ok {
				t.colors[k] = s
			}
		}
	}
	return t
}

// Name returns the document's name, or the fallback name.
func (t *MapTheme) Name() string { return t.name }

// Include returns the name of the included theme, or "".
func (t *MapTheme) Include() string { return t.include }

// Settings returns the rules of the TextMate "settings" list.
func (t *MapTheme) Settings() []theme.RawThemeSetting { return t.settings }

// TokenColors returns the rules of the VS Code "tokenColors" list.
func (t *MapTheme) TokenColors() []theme.RawThemeSetting { return t.tokenColors }

// GuiColors returns a copy of the editor colors.
func (t *MapTheme) GuiColors() map[string]string {
	return maps.Clone(t.colors)
}

// rawSettings converts a list of rule objects. Entries that are not objects
// keep their position with nil settings so rule indexes match the file.
func rawSettings(v any) []theme.RawThemeSetting {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]theme.RawThemeSetting, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out[i].Name, _ = entry["name"].(string)
		out[i].Scope = entry["scope"]
		if style, ok := entry["settings"].(map[string]any); ok {
			out[i].Settings = &theme.RawStyle{
				FontStyle:  style["fontStyle"],
				Foreground: style["foreground"],
				Background: style["background"],
			}
		}
	}
	return out
}
