// Package prompt assembles the variable context for chat-template rendering
// and exposes the public rendering entry points.
package prompt

import (
	"fmt"

	"github.com/promptforge/chattemplate/pkg/jinja"
	v "github.com/promptforge/chattemplate/pkg/validator"
)

// Message is a single chat message.
type Message struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

func (m Message) Validate() error {
	return v.All(
		v.NotEmpty(m.Role, "message role"),
		v.HasNoTags(m.Role, "message role"),
	)
}

// RenderContext carries the named string variables and boolean flags
// injected into the base scope alongside the messages.
type RenderContext struct {
	vars  map[string]string
	flags map[string]bool
}

func NewRenderContext() *RenderContext {
	return &RenderContext{
		vars:  map[string]string{},
		flags: map[string]bool{},
	}
}

// DefaultContext returns the context used by Render: an end-of-sequence
// token of "</s>" and add_generation_prompt enabled.
func DefaultContext() *RenderContext {
	ctx := NewRenderContext()
	ctx.SetVar("eos_token", "</s>")
	ctx.SetFlag("add_generation_prompt", true)
	return ctx
}

func (c *RenderContext) SetVar(name, value string) {
	c.vars[name] = value
}

func (c *RenderContext) SetFlag(name string, value bool) {
	c.flags[name] = value
}

// BuildScope materializes the base variable scope: messages as a list of
// {role, content} dicts, plus every context var and flag as a top-level
// binding.
func BuildScope(messages []Message, ctx *RenderContext) jinja.Context {
	list := make(jinja.ListValue, 0, len(messages))
	for _, m := range messages {
		list = append(list, jinja.DictValue{
			"role":    jinja.StringValue(m.Role),
			"content": jinja.StringValue(m.Content),
		})
	}
	scope := jinja.Context{"messages": list}
	if ctx != nil {
		for name, val := range ctx.vars {
			scope[name] = jinja.StringValue(val)
		}
		for name, val := range ctx.flags {
			scope[name] = jinja.BoolValue(val)
		}
	}
	return scope
}

// Render renders a chat template against messages with the default context.
func Render(template string, messages []Message) (string, error) {
	return RenderWithContext(template, messages, DefaultContext())
}

// RenderWithContext renders a chat template against messages and an
// explicit context. Parse and evaluation failures propagate to the caller;
// there is no best-effort fallback.
func RenderWithContext(template string, messages []Message, ctx *RenderContext) (string, error) {
	if err := v.Each(messages); err != nil {
		return "", fmt.Errorf("invalid messages: %w", err)
	}
	out, err := jinja.TemplateString(template).Render(BuildScope(messages, ctx))
	if err != nil {
		return "", fmt.Errorf("rendering chat template: %w", err)
	}
	return out, nil
}
