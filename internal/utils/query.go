// Package utils provides small helpers for reading request parameters,
// independent of domain logic.
package utils

import "strconv"

// AtoiDefault parses s as a decimal int, returning def when s is empty or
// not a valid int. s is not trimmed.
//
//	utils.AtoiDefault("42", 0) // 42
//	utils.AtoiDefault("x", 5)  // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int { return min(max(n, lo), hi) }

// LimitParam reads a page-size query value: def when missing or invalid,
// otherwise clamped to [1, hi].
func LimitParam(raw string, def, hi int) int {
	return Clamp(AtoiDefault(raw, def), 1, hi)
}
