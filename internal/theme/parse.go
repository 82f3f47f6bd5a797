package theme

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/tmscope/internal/tokenattr"
)

// ParsedRule is one raw theme declaration after comma splitting.
type ParsedRule struct {
	Name  string
	Scope string

	// ParentScopes is the ancestor constraint, innermost first. Nil means
	// no constraint.
	ParentScopes []string

	// Index is the position of the declaring entry in its source list.
	Index int

	FontStyle  tokenattr.FontStyle
	Foreground string
	Background string
}

// ParseTheme flattens the settings and tokenColors lists of raw into rules.
// A nil raw theme yields no rules.
func ParseTheme(raw RawTheme) []ParsedRule {
	if raw == nil {
		return nil
	}
	var rules []ParsedRule
	rules = appendParsed(rules, raw.Settings())
	rules = appendParsed(rules, raw.TokenColors())
	return rules
}

// ParseInclude parses the theme raw includes. An empty include, a resolver
// failure or a missing theme all yield (nil, nil).
func ParseInclude(raw RawTheme, resolver Resolver) ([]ParsedRule, RawTheme) {
	return parseInclude(raw, resolver, zerolog.Nop())
}

func parseInclude(raw RawTheme, resolver Resolver, log zerolog.Logger) ([]ParsedRule, RawTheme) {
	if raw == nil || resolver == nil {
		return nil, nil
	}
	include := raw.Include()
	if include == "" {
		return nil, nil
	}
	included, err := resolver.Resolve(include)
	if err != nil {
		log.Debug().Err(err).Str("include", include).Msg("include not resolved")
		return nil, nil
	}
	if included == nil {
		log.Debug().Str("include", include).Msg("include resolved to nothing")
		return nil, nil
	}
	return ParseTheme(included), included
}

func appendParsed(rules []ParsedRule, settings []RawThemeSetting) []ParsedRule {
	for i, entry := range settings {
		if entry.Settings == nil {
			continue
		}

		fontStyle := parseFontStyle(entry.Settings.FontStyle)
		foreground := hexOrEmpty(entry.Settings.Foreground)
		background := hexOrEmpty(entry.Settings.Background)

		for _, selector := range scopeSelectors(entry.Scope) {
			scope, parents := splitSelector(selector)
			rules = append(rules, ParsedRule{
				Name:         entry.Name,
				Scope:        scope,
				ParentScopes: parents,
				Index:        i,
				FontStyle:    fontStyle,
				Foreground:   foreground,
				Background:   background,
			})
		}
	}
	return rules
}

// scopeSelectors turns the loosely typed scope field into trimmed selectors.
func scopeSelectors(scope any) []string {
	switch s := scope.(type) {
	case string:
		var out []string
		for part := range strings.SplitSeq(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(s))
		for _, part := range s {
			out = append(out, strings.TrimSpace(part))
		}
		return out
	case []any:
		out := make([]string, 0, len(s))
		for _, v := range s {
			if part, ok := v.(string); ok {
				out = append(out, strings.TrimSpace(part))
			}
		}
		return out
	default:
		return []string{""}
	}
}

// splitSelector splits "a b c" into scope "c" and parents [c b a].
func splitSelector(selector string) (string, []string) {
	segments := strings.Split(selector, " ")
	scope := segments[len(segments)-1]
	if len(segments) == 1 {
		return scope, nil
	}
	parents := make([]string, len(segments))
	for i, seg := range segments {
		parents[len(segments)-1-i] = seg
	}
	return scope, parents
}

func parseFontStyle(v any) tokenattr.FontStyle {
	s, ok := v.(string)
	if !ok {
		return tokenattr.NotSet
	}
	style := tokenattr.None
	for _, word := range strings.Split(s, " ") {
		switch word {
		case "italic":
			style |= tokenattr.Italic
		case "bold":
			style |= tokenattr.Bold
		case "underline":
			style |= tokenattr.Underline
		case "strikethrough":
			style |= tokenattr.Strikethrough
		}
	}
	return style
}

func hexOrEmpty(v any) string {
	s, ok := v.(string)
	if !ok || !IsValidHexColor(s) {
		return ""
	}
	return s
}
