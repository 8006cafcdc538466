package vm

import "strconv"

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ftoa matches Java's default float/double textual form closely enough
// for println output: shortest round-trip decimal representation.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
