package jinja

import "fmt"

// TemplateString is a raw template string as carried in configuration.
type TemplateString string

// Validate parses the template and reports syntax errors without rendering.
func (t TemplateString) Validate() error {
	if _, err := Parse(string(t)); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return nil
}

// Render parses the template and evaluates it against ctx.
func (t TemplateString) Render(ctx Context) (string, error) {
	doc, err := Parse(string(t))
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	return NewEvaluator(ctx).Render(doc)
}
