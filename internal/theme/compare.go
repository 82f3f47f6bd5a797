package theme

import "strings"

// IsValidHexColor reports whether s is #rgb, #rgba, #rrggbb or #rrggbbaa.
func IsValidHexColor(s string) bool {
	switch len(s) {
	case 4, 5, 7, 9:
	default:
		return false
	}
	if s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// strArrCmp orders parent scope lists: nil first, then shorter lists, then
// element-wise ordinal comparison.
func strArrCmp(a, b []string) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	for i := range a {
		if r := strings.Compare(a[i], b[i]); r != 0 {
			return r
		}
	}
	return 0
}
