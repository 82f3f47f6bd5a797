package theme

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/tmscope/internal/tokenattr"
)

// Defaults used when a theme has no empty-scope rule.
const (
	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"
)

// ParsedTheme is a resolved rule set: theme defaults plus a scope trie.
// It is immutable after construction apart from the Match memo.
type ParsedTheme struct {
	root     *TrieElement
	defaults *TrieRule
	cache    sync.Map // scope name -> []*TrieRule
}

// CreateFromParsedTheme sorts rules, folds the leading empty-scope rules into
// the defaults and inserts the rest into the trie. Colors are interned in
// colorMap, defaults first. The input slice is not modified.
func CreateFromParsedTheme(rules []ParsedRule, colorMap *ColorMap) *ParsedTheme {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b ParsedRule) int {
		if r := strings.Compare(a.Scope, b.Scope); r != 0 {
			return r
		}
		if r := strArrCmp(a.ParentScopes, b.ParentScopes); r != 0 {
			return r
		}
		return a.Index - b.Index
	})

	fontStyle := tokenattr.None
	foreground := DefaultForeground
	background := DefaultBackground
	for len(sorted) > 0 && sorted[0].Scope == "" {
		r := sorted[0]
		sorted = sorted[1:]
		if r.FontStyle != tokenattr.NotSet {
			fontStyle = r.FontStyle
		}
		if r.Foreground != "" {
			foreground = r.Foreground
		}
		if r.Background != "" {
			background = r.Background
		}
	}

	defaults := NewTrieRule("", 0, nil, fontStyle, colorMap.ID(foreground), colorMap.ID(background))
	root := NewTrieElement(NewTrieRule("", 0, nil, tokenattr.NotSet, 0, 0), nil)
	for _, r := range sorted {
		root.Insert(r.Name, 0, r.Scope, r.ParentScopes, r.FontStyle, colorMap.ID(r.Foreground), colorMap.ID(r.Background))
	}

	return &ParsedTheme{root: root, defaults: defaults}
}

// Match returns the candidate rules for a single scope name, most specific
// first. Results are memoized; callers must not modify them.
func (p *ParsedTheme) Match(scopeName string) []*TrieRule {
	if v, ok := p.cache.Load(scopeName); ok {
		return v.([]*TrieRule)
	}
	v, _ := p.cache.LoadOrStore(scopeName, p.root.Match(scopeName))
	return v.([]*TrieRule)
}

// Defaults returns the theme-wide default rule.
func (p *ParsedTheme) Defaults() *TrieRule {
	return p.defaults
}
