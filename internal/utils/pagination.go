// Package utils carries tiny cross-layer helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// number. The list endpoints use it for page and page_size query values,
// where garbage input should fall back to the default rather than error.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
