package prompts

import (
	"bytes"
	"fmt"
	"text/template"
)

// Render expands a system prompt template with the given variables using Go
// template syntax, e.g. "You are a {{.role}} for {{.company}}."
func Render(content string, variables map[string]string) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}

	return buf.String(), nil
}
