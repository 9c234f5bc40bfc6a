package sqlgen

import (
	"strconv"
	"strings"
)

// Quote renders s as a single-quoted SQL string literal, doubling any
// embedded single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Ident renders name as a double-quoted SQL identifier.
func Ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Int renders an integer literal.
func Int(n int) string { return strconv.Itoa(n) }

// NullableInt renders NULL for a missing value.
func NullableInt(n *int) string {
	if n == nil {
		return "NULL"
	}
	return Int(*n)
}

// NullableString renders NULL for an empty string.
func NullableString(s string) string {
	if s == "" {
		return "NULL"
	}
	return Quote(s)
}
