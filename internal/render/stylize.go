package render

import (
	"strings"

	"github.com/gerunddev/vaultview/internal/markdown"
)

const (
	frakturBoldUpper  = 0x1D56C
	frakturBoldLower  = 0x1D586
	doubleStruckUpper = 0x1D538
	doubleStruckLower = 0x1D552
)

// Letters whose double-struck form predates the mathematical alphanumeric
// block and lives in Letterlike Symbols instead
var doubleStruckExceptions = map[rune]rune{
	'C': 'ℂ',
	'H': 'ℍ',
	'N': 'ℕ',
	'P': 'ℙ',
	'Q': 'ℚ',
	'R': 'ℝ',
	'Z': 'ℤ',
}

// Stylize transliterates ASCII letters of s into the given Unicode
// variant. Everything else passes through unchanged
func Stylize(s string, v markdown.StylizedVariant) string {
	if v == markdown.VariantNone {
		return s
	}
	return strings.Map(func(r rune) rune {
		return stylizeRune(r, v)
	}, s)
}

func stylizeRune(r rune, v markdown.StylizedVariant) rune {
	switch v {
	case markdown.VariantFraktur:
		switch {
		case r >= 'A' && r <= 'Z':
			return frakturBoldUpper + (r - 'A')
		case r >= 'a' && r <= 'z':
			return frakturBoldLower + (r - 'a')
		}
	case markdown.VariantDoubleStruck:
		if e, ok := doubleStruckExceptions[r]; ok {
			return e
		}
		switch {
		case r >= 'A' && r <= 'Z':
			return doubleStruckUpper + (r - 'A')
		case r >= 'a' && r <= 'z':
			return doubleStruckLower + (r - 'a')
		}
	}
	return r
}
