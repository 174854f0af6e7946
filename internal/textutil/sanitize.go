package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// forbiddenChars are rejected by Windows filesystems and are replaced in every
// component so a crate can be copied between machines.
const forbiddenChars = `<>:"/\|?*`

// SanitizeComponent makes one filename component (an artist or a title) safe.
// Forbidden characters and control characters become "-", whitespace runs
// collapse to one space, and trailing spaces and dots are removed. When
// titleCaseAllCaps is set, text written entirely in capitals is converted to
// Title Case.
func SanitizeComponent(text string, titleCaseAllCaps bool) string {
	if text == "" {
		return ""
	}
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), strings.ContainsRune(forbiddenChars, r):
			return '-'
		}
		return r
	}, text)
	text = strings.Join(strings.Fields(text), " ")
	if titleCaseAllCaps && IsAllCaps(text) {
		text = cases.Title(language.Und).String(text)
	}
	return strings.TrimRight(text, " .")
}

// IsAllCaps reports whether text has at least one cased letter and no lower
// case letters.
func IsAllCaps(text string) bool {
	return text == strings.ToUpper(text) && text != strings.ToLower(text)
}

// SanitizeFileName cleans a complete file name (without directory). Unlike
// SanitizeComponent it never changes letter case.
func SanitizeFileName(name string) string {
	return SanitizeComponent(strings.TrimSpace(name), false)
}
