package loader

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keyFor derives a catalog key from a file name or path.
func keyFor(path string) string {
	base := filepath.Base(path)
	return slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// humaniseSlug turns "solarized-dark" into "Solarized Dark".
func humaniseSlug(slug string) string {
	if slug == "" {
		return "Theme"
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}
