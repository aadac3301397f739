package client

import (
	"embed"
	"strings"
)

// embeddedPrompts holds the built-in prompt templates so packaged executables
// can load them without needing access to the source tree.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// DefaultExplainPrompt returns the built-in system prompt for explanations.
func DefaultExplainPrompt() string {
	return readPrompt("prompts/explain.txt")
}

// DefaultCategorizePrompt returns the built-in categorization template. It
// contains the CategoriesToken placeholder.
func DefaultCategorizePrompt() string {
	return readPrompt("prompts/categorize.txt")
}

func readPrompt(name string) string {
	data, err := embeddedPrompts.ReadFile(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
