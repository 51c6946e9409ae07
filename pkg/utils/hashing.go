package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"
)

// Digest returns the hex sha256 of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Excerpt cuts s to at most n runes.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
