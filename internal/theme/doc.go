// Package theme resolves TextMate themes into a structure that answers
// "which style applies to this scope" cheaply.
//
// Raw theme rules are parsed into ParsedRule values, sorted, and folded into a
// prefix trie keyed by dot separated scope segments. The trie answers Match
// for a single scope name with candidate rules ordered most specific first;
// ancestor constraints (ParentScopes) stay unresolved and are checked later by
// the scope stack that owns the full scope chain.
//
// Usage:
//
//	th, err := theme.CreateFromRawTheme(raw, registry)
//	if err != nil {
//		return err
//	}
//	rules := th.Match([]string{"source.go", "string.quoted.double.go"})
//
// After construction a Theme is safe for concurrent use.
package theme
