// Package prompt builds the completion prompt for a query and extends it
// with rejected suggestions.
package prompt

import "strings"

const (
	// Label frames the prompt as a shell script
	Label = "Bash"

	rephrase = "\n\n# Same command, but differently formatted\n"
)

// Initialize returns the initial prompt for query
func Initialize(query string) string {
	return "# " + Label + "\n# " + query + "\n"
}

// Extend appends a rejected suggestion and asks for a different rendition
func Extend(prompt, rejected string) string {
	return prompt + rejected + rephrase
}

// Rejections counts the rejected suggestions recorded in prompt
func Rejections(prompt string) int {
	return strings.Count(prompt, rephrase)
}
