package prompt

import (
	"encoding/json"
	"fmt"
	"os"
)

// TokenizerConfig is the subset of an HF-style tokenizer_config.json needed
// for chat-template rendering.
type TokenizerConfig struct {
	ChatTemplate string     `json:"chat_template"`
	BOSToken     TokenField `json:"bos_token"`
	EOSToken     TokenField `json:"eos_token"`
}

// TokenField decodes a special-token entry, which appears either as a bare
// string or as an added-token object with a "content" field.
type TokenField string

func (t *TokenField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TokenField(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("token field is neither a string nor an added-token object: %w", err)
	}
	*t = TokenField(obj.Content)
	return nil
}

// LoadTokenizerConfig reads a tokenizer_config.json from disk. Configs
// without a chat_template are rejected.
func LoadTokenizerConfig(path string) (*TokenizerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg TokenizerConfig
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding tokenizer config: %w", err)
	}
	if cfg.ChatTemplate == "" {
		return nil, fmt.Errorf("tokenizer config %s has no chat_template", path)
	}
	return &cfg, nil
}

// Context returns a render context seeded from the config's special tokens,
// with add_generation_prompt set as given.
func (c *TokenizerConfig) Context(addGenerationPrompt bool) *RenderContext {
	ctx := NewRenderContext()
	if c.BOSToken != "" {
		ctx.SetVar("bos_token", string(c.BOSToken))
	}
	if c.EOSToken != "" {
		ctx.SetVar("eos_token", string(c.EOSToken))
	}
	ctx.SetFlag("add_generation_prompt", addGenerationPrompt)
	return ctx
}
