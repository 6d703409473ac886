package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxSheetName is the sheet name length limit of the xlsx format, in characters.
const maxSheetName = 31

var sheetNameReplacer = regexp.MustCompile(`[\s\\/?*\[\]:]+`)

// SanitizeSheetName maps a section name to a legal sheet name: whitespace and
// characters forbidden in sheet names collapse to a single space, surrounding
// spaces and apostrophes are removed and the result is cut to 31 characters.
// The result may be empty.
func SanitizeSheetName(name string) string {
	s := sheetNameReplacer.ReplaceAllString(name, " ")
	s = strings.Trim(s, " '")
	s = truncateRunes(s, maxSheetName)
	return strings.TrimRight(s, " '")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// sheetNamer hands out unique sheet names. Sheet names compare case-insensitively.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

// name returns a unique sheet name for the section at 1-based position index.
func (n *sheetNamer) name(section string, index int) string {
	base := SanitizeSheetName(section)
	if base == "" {
		base = fmt.Sprintf("Section %d", index)
	}

	candidate := base
	for i := 2; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		trimmed := strings.TrimRight(truncateRunes(base, maxSheetName-len(suffix)), " ")
		candidate = trimmed + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}
