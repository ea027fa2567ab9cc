package utils

import "strconv"

// ParseID parses a positive row id. Anything else yields 0, which matches no row
// since ids start at 1.
func ParseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}
