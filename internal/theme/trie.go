package theme

import (
	"slices"
	"strings"

	"github.com/dshills/tmscope/internal/tokenattr"
)

// TrieRule is a resolved theme rule stored in the trie.
type TrieRule struct {
	// Name is the name of the last rule written into this one.
	Name string

	// ScopeDepth is the number of scope segments the rule was declared for.
	ScopeDepth int

	// ParentScopes is the ancestor constraint, innermost selector first.
	// Nil means the rule applies regardless of ancestors.
	ParentScopes []string

	FontStyle  tokenattr.FontStyle
	Foreground int
	Background int
}

// NewTrieRule creates a trie rule.
func NewTrieRule(name string, scopeDepth int, parentScopes []string, fontStyle tokenattr.FontStyle, foreground, background int) *TrieRule {
	return &TrieRule{
		Name:         name,
		ScopeDepth:   scopeDepth,
		ParentScopes: parentScopes,
		FontStyle:    fontStyle,
		Foreground:   foreground,
		Background:   background,
	}
}

func (r *TrieRule) clone() *TrieRule {
	c := *r
	return &c
}

func cloneRules(rules []*TrieRule) []*TrieRule {
	out := make([]*TrieRule, len(rules))
	for i, r := range rules {
		out[i] = r.clone()
	}
	return out
}

// AcceptOverwrite folds a rule declared at scopeDepth into r. A shallower
// declaration is ignored; otherwise the depth is raised and every field the
// declaration sets (font style not NotSet, non-zero colors) replaces the
// current one.
func (r *TrieRule) AcceptOverwrite(name string, scopeDepth int, fontStyle tokenattr.FontStyle, foreground, background int) {
	if scopeDepth < r.ScopeDepth {
		return
	}
	r.ScopeDepth = scopeDepth
	if name != "" {
		r.Name = name
	}
	if fontStyle != tokenattr.NotSet {
		r.FontStyle = fontStyle
	}
	if foreground != 0 {
		r.Foreground = foreground
	}
	if background != 0 {
		r.Background = background
	}
}

// TrieElement is a node of the theme trie. Each node corresponds to one dot
// separated scope segment.
type TrieElement struct {
	mainRule              *TrieRule
	rulesWithParentScopes []*TrieRule
	children              map[string]*TrieElement
}

// NewTrieElement creates a trie node.
func NewTrieElement(mainRule *TrieRule, rulesWithParentScopes []*TrieRule) *TrieElement {
	return &TrieElement{
		mainRule:              mainRule,
		rulesWithParentScopes: rulesWithParentScopes,
		children:              make(map[string]*TrieElement),
	}
}

// Match returns the candidate rules for scope, most specific first. The
// deepest node reachable by the scope's segments answers; its main rule is
// always part of the result.
func (e *TrieElement) Match(scope string) []*TrieRule {
	node := e
	for scope != "" {
		head, tail := splitHead(scope)
		child, ok := node.children[head]
		if !ok {
			break
		}
		node = child
		scope = tail
	}

	out := make([]*TrieRule, 0, 1+len(node.rulesWithParentScopes))
	out = append(out, node.mainRule)
	out = append(out, node.rulesWithParentScopes...)
	sortBySpecificity(out)
	return out
}

// Insert adds a rule for scope below this node.
func (e *TrieElement) Insert(name string, scopeDepth int, scope string, parentScopes []string, fontStyle tokenattr.FontStyle, foreground, background int) {
	node := e
	for scope != "" {
		head, tail := splitHead(scope)
		child, ok := node.children[head]
		if !ok {
			child = NewTrieElement(node.mainRule.clone(), cloneRules(node.rulesWithParentScopes))
			node.children[head] = child
		}
		node = child
		scope = tail
		scopeDepth++
	}
	node.insertHere(name, scopeDepth, parentScopes, fontStyle, foreground, background)
}

func (e *TrieElement) insertHere(name string, scopeDepth int, parentScopes []string, fontStyle tokenattr.FontStyle, foreground, background int) {
	if parentScopes == nil {
		e.mainRule.AcceptOverwrite(name, scopeDepth, fontStyle, foreground, background)
		return
	}

	for _, rule := range e.rulesWithParentScopes {
		if strArrCmp(rule.ParentScopes, parentScopes) == 0 {
			rule.AcceptOverwrite(name, scopeDepth, fontStyle, foreground, background)
			return
		}
	}

	// Unset fields inherit from the main rule.
	if fontStyle == tokenattr.NotSet {
		fontStyle = e.mainRule.FontStyle
	}
	if foreground == 0 {
		foreground = e.mainRule.Foreground
	}
	if background == 0 {
		background = e.mainRule.Background
	}
	e.rulesWithParentScopes = append(e.rulesWithParentScopes,
		NewTrieRule(name, scopeDepth, parentScopes, fontStyle, foreground, background))
}

func splitHead(scope string) (head, tail string) {
	if i := strings.IndexByte(scope, '.'); i >= 0 {
		return scope[:i], scope[i+1:]
	}
	return scope, ""
}

func sortBySpecificity(rules []*TrieRule) {
	if len(rules) < 2 {
		return
	}
	slices.SortStableFunc(rules, cmpBySpecificity)
}

func cmpBySpecificity(a, b *TrieRule) int {
	if a.ScopeDepth != b.ScopeDepth {
		return b.ScopeDepth - a.ScopeDepth
	}
	aLen, bLen := len(a.ParentScopes), len(b.ParentScopes)
	if aLen == bLen {
		for i := 0; i < aLen; i++ {
			if d := len(b.ParentScopes[i]) - len(a.ParentScopes[i]); d != 0 {
				return d
			}
		}
	}
	return bLen - aLen
}
