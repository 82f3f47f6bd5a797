package grammar

import (
	"maps"
	"regexp"
	"sync"

	"github.com/dshills/tmscope/internal/tokenattr"
)

var standardTokenTypeRe = regexp.MustCompile(`\b(comment|string|regex|meta\.embedded)\b`)

// ScopeMetadataProvider derives BasicScopeAttributes for scope names from a
// grammar's embedded language table and a theme. Results are cached per scope.
type ScopeMetadataProvider struct {
	defaults  BasicScopeAttributes
	languages map[string]int
	theme     ThemeProvider
	cache     sync.Map // scope -> *BasicScopeAttributes
}

// NewScopeMetadataProvider creates a provider. embeddedLanguages maps scope
// prefixes such as "source.css" to language ids. themeProvider may be nil, in
// which case scopes carry no theme candidates.
func NewScopeMetadataProvider(initialLanguageID int, embeddedLanguages map[string]int, themeProvider ThemeProvider) *ScopeMetadataProvider {
	return &ScopeMetadataProvider{
		defaults: BasicScopeAttributes{
			LanguageID: initialLanguageID,
			TokenType:  tokenattr.OptionalNotSet,
		},
		languages: maps.Clone(embeddedLanguages),
		theme:     themeProvider,
	}
}

// DefaultAttributes returns the attributes of the grammar's root language.
func (p *ScopeMetadataProvider) DefaultAttributes() BasicScopeAttributes {
	return p.defaults
}

// MetadataForScope implements MetadataProvider.
func (p *ScopeMetadataProvider) MetadataForScope(scope string) *BasicScopeAttributes {
	if v, ok := p.cache.Load(scope); ok {
		return v.(*BasicScopeAttributes)
	}
	attrs := &BasicScopeAttributes{
		LanguageID: p.languageID(scope),
		TokenType:  standardTokenType(scope),
	}
	if p.theme != nil {
		attrs.ThemeData = p.theme.Match([]string{scope})
	}
	v, _ := p.cache.LoadOrStore(scope, attrs)
	return v.(*BasicScopeAttributes)
}

// languageID returns the id of the longest embedded language scope that
// scope equals or extends, or 0.
func (p *ScopeMetadataProvider) languageID(scope string) int {
	best, id := -1, 0
	for prefix, lang := range p.languages {
		if len(prefix) > best && matchesScope(scope, prefix) {
			best, id = len(prefix), lang
		}
	}
	return id
}

func standardTokenType(scope string) tokenattr.OptionalStandardTokenType {
	m := standardTokenTypeRe.FindStringSubmatch(scope)
	if m == nil {
		return tokenattr.OptionalNotSet
	}
	switch m[1] {
	case "comment":
		return tokenattr.OptionalComment
	case "string":
		return tokenattr.OptionalString
	case "regex":
		return tokenattr.OptionalRegEx
	default:
		return tokenattr.OptionalOther
	}
}

// NewRootScopeStack creates the one-node stack for a grammar's root scope.
// The node starts from the provider's default language and the theme
// defaults, then takes the root scope's own metadata.
func NewRootScopeStack(scopeName string, provider *ScopeMetadataProvider) (*AttributedScopeStack, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	fontStyle, foreground, background := tokenattr.NotSet, 0, 0
	if provider.theme != nil {
		if d := provider.theme.Defaults(); d != nil {
			fontStyle, foreground, background = d.FontStyle, d.Foreground, d.Background
		}
	}
	base := tokenattr.Set(0, provider.defaults.LanguageID, provider.defaults.TokenType,
		tokenattr.BracketsPreserve, fontStyle, foreground, background)

	probe := &AttributedScopeStack{scopePath: scopeName}
	attrs := MergeAttributes(base, probe, provider.MetadataForScope(scopeName))
	return NewAttributedScopeStack(nil, scopeName, attrs), nil
}
