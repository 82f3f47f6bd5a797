package grammar

import (
	"github.com/dshills/tmscope/internal/theme"
	"github.com/dshills/tmscope/internal/tokenattr"
)

// BasicScopeAttributes is the per-scope metadata a grammar supplies when a
// scope is pushed.
type BasicScopeAttributes struct {
	// LanguageID is the embedded language id. 0 keeps the current language.
	LanguageID int

	// TokenType is the standard token type, or OptionalNotSet.
	TokenType tokenattr.OptionalStandardTokenType

	// ThemeData holds candidate theme rules in priority order. The first
	// candidate whose ParentScopes match the scope stack is applied.
	ThemeData []*theme.TrieRule
}

// MetadataProvider supplies scope metadata to AttributedScopeStack.
type MetadataProvider interface {
	MetadataForScope(scope string) *BasicScopeAttributes
}

// ThemeProvider is the part of a theme used for scope lookups.
// *theme.Theme implements it.
type ThemeProvider interface {
	Match(scopeNames []string) []*theme.TrieRule
	Defaults() *theme.TrieRule
}

var _ ThemeProvider = (*theme.Theme)(nil)
