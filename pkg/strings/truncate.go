// Package strings holds string helpers shared by the CLI output code.
package strings

import (
	"strings"
)

// CellMaxLen is the widest value a table cell shows before it is cut.
const CellMaxLen = 100

// minTruncateLen leaves room for one rune plus "...".
const minTruncateLen = 4

// TruncateCell renders s on a single line of at most maxLen runes. Runs of
// whitespace, including newlines from multi-line YAML strings, collapse to
// one space; longer values end in "...".
func TruncateCell(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
