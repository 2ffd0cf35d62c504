package utils

import (
	"fmt"
	"strings"
)

// HasPrefixIgnoreCase checks if string has prefix case-insensitively. The
// REPL uses this to let a basket entry match a product name by prefix
// rather than requiring the exact numeric id.
func HasPrefixIgnoreCase(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// FormatWithCommas formats an integer with comma separators, used by the
// CLI startup banner to print the catalog's product count.
func FormatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
