package grammar

import (
	"strings"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/dshills/tmscope/internal/tokenattr"
)

// AttributedScopeStack is a persistent stack of scope segments, each carrying
// the token attributes resolved for the chain up to and including it.
//
// Nodes are immutable once built and may be shared between any number of
// stacks. A nil *AttributedScopeStack is the empty stack.
type AttributedScopeStack struct {
	parent          *AttributedScopeStack
	scopePath       string
	tokenAttributes tokenattr.Attributes
	hash            uint64

	scopeNames atomic.Pointer[[]string]
}

// NewAttributedScopeStack creates a node on top of parent.
func NewAttributedScopeStack(parent *AttributedScopeStack, scopePath string, attrs tokenattr.Attributes) *AttributedScopeStack {
	return &AttributedScopeStack{
		parent:          parent,
		scopePath:       scopePath,
		tokenAttributes: attrs,
		hash:            scopeHash(parent, scopePath, attrs),
	}
}

func scopeHash(parent *AttributedScopeStack, scopePath string, attrs tokenattr.Attributes) uint64 {
	h := uint64(17)
	if parent != nil {
		h = parent.hash
	}
	h = 31*h + uint64(attrs)
	return 31*h + xxhash.Sum64String(scopePath)
}

// Parent returns the enclosing node, or nil at the root.
func (s *AttributedScopeStack) Parent() *AttributedScopeStack {
	if s == nil {
		return nil
	}
	return s.parent
}

// ScopePath returns the scope segment of this node.
func (s *AttributedScopeStack) ScopePath() string {
	if s == nil {
		return ""
	}
	return s.scopePath
}

// TokenAttributes returns the resolved attributes of this node.
func (s *AttributedScopeStack) TokenAttributes() tokenattr.Attributes {
	if s == nil {
		return 0
	}
	return s.tokenAttributes
}

// Hash returns the structural hash of the whole chain.
func (s *AttributedScopeStack) Hash() uint64 {
	if s == nil {
		return 0
	}
	return s.hash
}

// Equals reports whether both chains hold the same (scope path, attributes)
// pairs from leaf to root.
func (s *AttributedScopeStack) Equals(other *AttributedScopeStack) bool {
	a, b := s, other
	for {
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		if a.hash != b.hash || a.scopePath != b.scopePath || a.tokenAttributes != b.tokenAttributes {
			return false
		}
		a, b = a.parent, b.parent
	}
}

// Push pushes scopePath. See PushAttributed.
func (s *AttributedScopeStack) Push(scopePath string, provider MetadataProvider) (*AttributedScopeStack, error) {
	return s.PushAttributed(&scopePath, provider)
}

// PushAttributed pushes the segments of scopePath and returns the new top.
// A nil scopePath returns s unchanged. Segments are separated by single
// spaces; empty segments are pushed as they are.
func (s *AttributedScopeStack) PushAttributed(scopePath *string, provider MetadataProvider) (*AttributedScopeStack, error) {
	if scopePath == nil {
		return s, nil
	}
	if provider == nil {
		return nil, ErrNilProvider
	}

	path := *scopePath
	if !strings.Contains(path, " ") {
		return s.pushSingle(path, provider), nil
	}
	target := s
	for segment := range strings.SplitSeq(path, " ") {
		target = target.pushSingle(segment, provider)
	}
	return target, nil
}

func (s *AttributedScopeStack) pushSingle(scope string, provider MetadataProvider) *AttributedScopeStack {
	raw := provider.MetadataForScope(scope)
	// Rule constraints list the rule's own scope first, so they are matched
	// against the chain that already ends in scope.
	probe := &AttributedScopeStack{parent: s, scopePath: scope}
	attrs := MergeAttributes(s.TokenAttributes(), probe, raw)
	return NewAttributedScopeStack(s, scope, attrs)
}

// MergeAttributes folds raw into existing. The first theme candidate whose
// ParentScopes match scopesList supplies the style; when none matches the
// style of existing is kept. Balanced brackets are always kept.
func MergeAttributes(existing tokenattr.Attributes, scopesList *AttributedScopeStack, raw *BasicScopeAttributes) tokenattr.Attributes {
	if raw == nil {
		return existing
	}

	fontStyle := tokenattr.NotSet
	foreground, background := 0, 0
	for _, candidate := range raw.ThemeData {
		if candidate == nil {
			continue
		}
		if matches(scopesList, candidate.ParentScopes) {
			fontStyle = candidate.FontStyle
			foreground = candidate.Foreground
			background = candidate.Background
			break
		}
	}

	return tokenattr.Set(existing, raw.LanguageID, raw.TokenType, tokenattr.BracketsPreserve,
		fontStyle, foreground, background)
}

// matchesScope reports whether scope equals selector or extends it by a
// dot separated suffix.
func matchesScope(scope, selector string) bool {
	if len(scope) == len(selector) {
		return scope == selector
	}
	return len(scope) > len(selector) && scope[len(selector)] == '.' && scope[:len(selector)] == selector
}

// matches reports whether the selectors of parentScopes are found in order
// walking from target towards the root. Unmatched nodes are skipped.
func matches(target *AttributedScopeStack, parentScopes []string) bool {
	if len(parentScopes) == 0 {
		return true
	}
	i := 0
	for ; target != nil; target = target.parent {
		if matchesScope(target.scopePath, parentScopes[i]) {
			i++
			if i == len(parentScopes) {
				return true
			}
		}
	}
	return false
}

// ScopeNames returns the scope paths from root to leaf. The slice is computed
// once and shared; callers must not modify it.
func (s *AttributedScopeStack) ScopeNames() []string {
	if s == nil {
		return nil
	}
	if names := s.scopeNames.Load(); names != nil {
		return *names
	}

	depth := 0
	for n := s; n != nil; n = n.parent {
		depth++
	}
	names := make([]string, depth)
	n := s
	for i := depth - 1; i >= 0; i-- {
		names[i] = n.scopePath
		n = n.parent
	}

	if s.scopeNames.CompareAndSwap(nil, &names) {
		return names
	}
	return *s.scopeNames.Load()
}

// String returns the scope names joined by spaces.
func (s *AttributedScopeStack) String() string {
	return strings.Join(s.ScopeNames(), " ")
}
