package utils

import "strings"

var storyTextReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	`"`, " ",
	"'", " ",
	"“", " ",
	"”", " ",
	"‘", " ",
	"’", " ",
	":", " ",
	"-", " ",
	"_", " ",
	".", " ",
)

// SanitizeStoryText strips characters the Render Backend's text pipeline
// chokes on and collapses the resulting whitespace runs.
func SanitizeStoryText(s string) string {
	return strings.Join(strings.Fields(storyTextReplacer.Replace(s)), " ")
}
