package theme

// RawTheme is an undecoded theme as read from disk. Scope and style values are
// kept loosely typed because theme files in the wild disagree on them.
type RawTheme interface {
	// Name returns the display name of the theme, if any.
	Name() string

	// Include returns the name of a theme this one extends, or "".
	Include() string

	// Settings returns rules in the TextMate "settings" format.
	Settings() []RawThemeSetting

	// TokenColors returns rules in the VS Code "tokenColors" format.
	TokenColors() []RawThemeSetting

	// GuiColors returns editor (non token) colors keyed by name.
	GuiColors() map[string]string
}

// RawThemeSetting is one rule entry of a raw theme.
type RawThemeSetting struct {
	// Name is the optional human readable rule name.
	Name string

	// Scope is a comma separated string, a list of strings, or anything
	// else (treated as the theme-wide default rule).
	Scope any

	// Settings holds the style. Entries without settings are ignored.
	Settings *RawStyle
}

// RawStyle holds the style fields of a rule. Values that are not strings
// are ignored during parsing.
type RawStyle struct {
	FontStyle  any
	Foreground any
	Background any
}

// Resolver looks up included themes by name.
type Resolver interface {
	Resolve(name string) (RawTheme, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (RawTheme, error)

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) (RawTheme, error) {
	return f(name)
}
