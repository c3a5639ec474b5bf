package sqlxrepos

import "strings"

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// prefixed qualifies columns with a table alias.
func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = alias + "." + col
	}
	return out
}
