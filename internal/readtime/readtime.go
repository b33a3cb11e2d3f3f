// Package readtime estimates how long an article takes to read.
package readtime

import "strings"

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

// Estimate returns the reading time for the given content in whole minutes,
// rounding up, with a minimum of one minute. Words are approximated by
// splitting on whitespace runs.
func Estimate(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
