package formatter

import "strings"

// QuotePath quotes a node path only when the bare form would not survive a
// lexer round trip, i.e. when it contains spaces or quotes.
func QuotePath(path string) string {
	if strings.ContainsAny(path, " \t\"") {
		return QuoteString(path)
	}
	return path
}

// QuoteString renders a double-quoted string with \" and \\ escapes.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
