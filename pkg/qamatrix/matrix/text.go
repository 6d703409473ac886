// Package matrix turns compliance-matrix slides into spreadsheet rows: it
// segments a deck into sections, locates table headers, classifies rows and
// expands them into output rows.
package matrix

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// fold returns s case-folded with whitespace runs collapsed to single spaces.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// foldLabel returns s trimmed and case-folded. Header labels compare exactly
// after this, inner whitespace included.
func foldLabel(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// containsFold reports whether substr occurs in s ignoring case and whitespace layout.
func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// indexFold returns the byte range of the first occurrence of substr in s,
// ignoring case and whitespace layout, or -1.
func indexFold(s, substr string) (start, end int) {
	if substr == "" {
		return -1, -1
	}
	for i := range s {
		if n, ok := hasPrefixFold(s[i:], substr); ok {
			return i, i + n
		}
	}
	return -1, -1
}

// hasPrefixFold reports whether s starts with prefix under simple case folding
// and returns the number of bytes of s consumed. A whitespace run in prefix
// matches any non-empty whitespace run in s.
func hasPrefixFold(s, prefix string) (int, bool) {
	n, i := 0, 0
	for i < len(prefix) {
		if n >= len(s) {
			return 0, false
		}
		pr, psize := utf8.DecodeRuneInString(prefix[i:])
		sr, size := utf8.DecodeRuneInString(s[n:])
		if unicode.IsSpace(pr) {
			if !unicode.IsSpace(sr) {
				return 0, false
			}
			i = skipSpace(prefix, i)
			n = skipSpace(s, n)
			continue
		}
		if sr != pr && !strings.EqualFold(string(sr), string(pr)) {
			return 0, false
		}
		i += psize
		n += size
	}
	return n, true
}

// skipSpace returns the offset of the first non-space rune of s at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// CleanText trims s and drops control characters other than TAB, LF and CR,
// which spreadsheet cells cannot hold.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, s)
}
