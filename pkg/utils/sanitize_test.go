package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStoryText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "once upon a time", "once upon a time"},
		{"newlines", "line one\nline two\r\nline three", "line one line two line three"},
		{"quotes", `she said "run" and 'hide'`, "she said run and hide"},
		{"curly quotes", "“hello” ‘there’", "hello there"},
		{"colon hyphen underscore period", "Chapter 1: the well-known snake_case end.", "Chapter 1 the well known snake case end"},
		{"only stripped characters", "...---", ""},
		{"keeps other punctuation", "wait, what?! (yes)", "wait, what?! (yes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeStoryText(tt.in))
		})
	}
}

func TestExcerptAndDigest(t *testing.T) {
	assert.Equal(t, "héll", Excerpt("héllo", 4))
	assert.Equal(t, "short", Excerpt("short", 10))

	d := Digest("story")
	assert.Len(t, d, 64)
	assert.Equal(t, d, Digest("story"))
	assert.NotEqual(t, d, Digest("story!"))
}
