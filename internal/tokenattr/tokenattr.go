// Package tokenattr packs the per-token style metadata produced by scope
// resolution into a single 32-bit value.
//
// Layout (least significant bit first):
//
//	bits  0-7   language id
//	bits  8-9   standard token type
//	bit   10    balanced brackets flag
//	bits 11-14  font style
//	bits 15-23  foreground color id
//	bits 24-31  background color id
//
// Every field supports "keep the existing value" semantics in Set, so callers
// can fold partial updates onto an existing value without decoding it first.
package tokenattr

import (
	"fmt"
	"strings"
)

// Attributes is the packed token metadata.
type Attributes uint32

const (
	languageIDMask       Attributes = 0b00000000_00000000_00000000_11111111
	tokenTypeMask        Attributes = 0b00000000_00000000_00000011_00000000
	balancedBracketsMask Attributes = 0b00000000_00000000_00000100_00000000
	fontStyleMask        Attributes = 0b00000000_00000000_01111000_00000000
	foregroundMask       Attributes = 0b00000000_11111111_10000000_00000000
	backgroundMask       Attributes = 0b11111111_00000000_00000000_00000000

	languageIDOffset       = 0
	tokenTypeOffset        = 8
	balancedBracketsOffset = 10
	fontStyleOffset        = 11
	foregroundOffset       = 15
	backgroundOffset       = 24
)

// FontStyle is a set of font style flags. NotSet means "inherit".
type FontStyle int8

// Font style flags.
const (
	NotSet        FontStyle = -1
	None          FontStyle = 0
	Italic        FontStyle = 1
	Bold          FontStyle = 2
	Underline     FontStyle = 4
	Strikethrough FontStyle = 8
)

// Has returns true if the style contains the given flag.
func (f FontStyle) Has(flag FontStyle) bool {
	if f == NotSet {
		return false
	}
	return f&flag != 0
}

// String returns the space separated keyword form, e.g. "italic bold".
func (f FontStyle) String() string {
	switch f {
	case NotSet:
		return "not set"
	case None:
		return "none"
	}
	var parts []string
	if f&Italic != 0 {
		parts = append(parts, "italic")
	}
	if f&Bold != 0 {
		parts = append(parts, "bold")
	}
	if f&Underline != 0 {
		parts = append(parts, "underline")
	}
	if f&Strikethrough != 0 {
		parts = append(parts, "strikethrough")
	}
	return strings.Join(parts, " ")
}

// StandardTokenType is the coarse token classification stored in the packed value.
type StandardTokenType uint8

// Standard token types.
const (
	Other   StandardTokenType = 0
	Comment StandardTokenType = 1
	String  StandardTokenType = 2
	RegEx   StandardTokenType = 3
)

// String returns the name of the token type.
func (t StandardTokenType) String() string {
	switch t {
	case Other:
		return "other"
	case Comment:
		return "comment"
	case String:
		return "string"
	case RegEx:
		return "regex"
	default:
		return "unknown"
	}
}

// OptionalStandardTokenType is a StandardTokenType that may be absent.
type OptionalStandardTokenType uint8

// Optional token types. OptionalNotSet keeps the existing value in Set.
const (
	OptionalOther   OptionalStandardTokenType = OptionalStandardTokenType(Other)
	OptionalComment OptionalStandardTokenType = OptionalStandardTokenType(Comment)
	OptionalString  OptionalStandardTokenType = OptionalStandardTokenType(String)
	OptionalRegEx   OptionalStandardTokenType = OptionalStandardTokenType(RegEx)
	OptionalNotSet  OptionalStandardTokenType = 8
)

// Brackets is the tri-state balanced brackets argument of Set.
type Brackets int8

// Brackets values.
const (
	BracketsPreserve Brackets = iota
	BracketsNone
	BracketsBalanced
)

// LanguageID returns the language id field.
func (a Attributes) LanguageID() int {
	return int((a & languageIDMask) >> languageIDOffset)
}

// TokenType returns the standard token type field.
func (a Attributes) TokenType() StandardTokenType {
	return StandardTokenType((a & tokenTypeMask) >> tokenTypeOffset)
}

// ContainsBalancedBrackets reports whether the balanced brackets flag is set.
func (a Attributes) ContainsBalancedBrackets() bool {
	return a&balancedBracketsMask != 0
}

// FontStyle returns the font style field.
func (a Attributes) FontStyle() FontStyle {
	return FontStyle((a & fontStyleMask) >> fontStyleOffset)
}

// Foreground returns the foreground color id.
func (a Attributes) Foreground() int {
	return int((a & foregroundMask) >> foregroundOffset)
}

// Background returns the background color id.
func (a Attributes) Background() int {
	return int((a & backgroundMask) >> backgroundOffset)
}

// String returns a debug representation of all fields.
func (a Attributes) String() string {
	return fmt.Sprintf("{languageId: %d, tokenType: %s, balancedBrackets: %t, fontStyle: %s, foreground: %d, background: %d}",
		a.LanguageID(), a.TokenType(), a.ContainsBalancedBrackets(), a.FontStyle(), a.Foreground(), a.Background())
}

// Set returns existing with the given fields replaced. A languageID of 0,
// OptionalNotSet, BracketsPreserve, NotSet and color id 0 keep the current
// value of their field.
func Set(
	existing Attributes,
	languageID int,
	tokenType OptionalStandardTokenType,
	brackets Brackets,
	fontStyle FontStyle,
	foreground int,
	background int,
) Attributes {
	lang := existing.LanguageID()
	tt := existing.TokenType()
	balanced := existing.ContainsBalancedBrackets()
	fs := existing.FontStyle()
	fg := existing.Foreground()
	bg := existing.Background()

	if languageID != 0 {
		lang = languageID
	}
	if tokenType != OptionalNotSet {
		tt = StandardTokenType(tokenType)
	}
	switch brackets {
	case BracketsNone:
		balanced = false
	case BracketsBalanced:
		balanced = true
	}
	if fontStyle != NotSet {
		fs = fontStyle
	}
	if foreground != 0 {
		fg = foreground
	}
	if background != 0 {
		bg = background
	}

	var bracketsBit Attributes
	if balanced {
		bracketsBit = 1
	}

	return (Attributes(lang)<<languageIDOffset)&languageIDMask |
		(Attributes(tt)<<tokenTypeOffset)&tokenTypeMask |
		bracketsBit<<balancedBracketsOffset |
		(Attributes(fs)<<fontStyleOffset)&fontStyleMask |
		(Attributes(fg)<<foregroundOffset)&foregroundMask |
		(Attributes(bg)<<backgroundOffset)&backgroundMask
}
