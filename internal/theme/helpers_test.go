package theme

import "errors"

type testTheme struct {
	name        string
	include     string
	settings    []RawThemeSetting
	tokenColors []RawThemeSetting
	colors      map[string]string
}

func (t *testTheme) Name() string                   { return t.name }
func (t *testTheme) Include() string                { return t.include }
func (t *testTheme) Settings() []RawThemeSetting    { return t.settings }
func (t *testTheme) TokenColors() []RawThemeSetting { return t.tokenColors }
func (t *testTheme) GuiColors() map[string]string   { return t.colors }

func rule(scope any, fontStyle, fg, bg any) RawThemeSetting {
	return RawThemeSetting{
		Scope:    scope,
		Settings: &RawStyle{FontStyle: fontStyle, Foreground: fg, Background: bg},
	}
}

var errNoTheme = errors.New("no such theme")

func mapResolver(themes map[string]RawTheme) Resolver {
	return ResolverFunc(func(name string) (RawTheme, error) {
		if t, ok := themes[name]; ok {
			return t, nil
		}
		return nil, errNoTheme
	})
}
