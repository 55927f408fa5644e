// Package textmatch implements case-insensitive substring search.
package textmatch

import "strings"

// Index returns the offset of the first case-insensitive occurrence of needle
// in haystack, or -1 if there is none. An empty needle matches at offset 0,
// including against an empty haystack.
//
// Both operands are lowercased before searching, so the offset refers to the
// folded haystack. For ASCII text it is also the offset in the original.
func Index(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Index(strings.ToLower(haystack), strings.ToLower(needle))
}

// Contains reports whether needle occurs in haystack, ignoring case.
func Contains(haystack, needle string) bool {
	return Index(haystack, needle) >= 0
}
