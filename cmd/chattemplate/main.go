// Command chattemplate renders HF-style chat_template strings against a
// list of chat messages.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/promptforge/chattemplate/pkg/common"
	"github.com/promptforge/chattemplate/pkg/jinja"
	"github.com/promptforge/chattemplate/pkg/prompt"
	v "github.com/promptforge/chattemplate/pkg/validator"
)

var (
	verbose             bool
	templateFile        string
	tokenizerConfigFile string
	messagesFile        string
	eosToken            string
	bosToken            string
	addGenerationPrompt bool
	strictRoles         bool
)

var rootCmd = cobra.Command{
	Use:   "chattemplate",
	Short: "Render chat_template strings against chat messages",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

// loadMessages decodes a list of {role, content} records from a YAML (or
// JSON) file.
func loadMessages(path string) ([]prompt.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var msgs []prompt.Message
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&msgs); err != nil {
		return nil, fmt.Errorf("decoding messages file: %w", err)
	}
	return msgs, nil
}

// loadTemplate resolves the template source and its render context from
// either --template or --tokenizer-config.
func loadTemplate() (string, *prompt.RenderContext, error) {
	switch {
	case templateFile != "" && tokenizerConfigFile != "":
		return "", nil, fmt.Errorf("--template and --tokenizer-config are mutually exclusive")
	case tokenizerConfigFile != "":
		cfg, err := prompt.LoadTokenizerConfig(tokenizerConfigFile)
		if err != nil {
			return "", nil, err
		}
		slog.Debug("loaded tokenizer config",
			"path", tokenizerConfigFile,
			"eos_token", string(cfg.EOSToken))
		return cfg.ChatTemplate, cfg.Context(addGenerationPrompt), nil
	case templateFile != "":
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return "", nil, err
		}
		ctx := prompt.DefaultContext()
		ctx.SetFlag("add_generation_prompt", addGenerationPrompt)
		return string(data), ctx, nil
	default:
		return "", nil, fmt.Errorf("one of --template or --tokenizer-config is required")
	}
}

var renderCmd = cobra.Command{
	Use:   "render",
	Short: "Render a chat template and print the resulting prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		if messagesFile == "" {
			return fmt.Errorf("--messages is required")
		}
		msgs, err := loadMessages(messagesFile)
		if err != nil {
			return err
		}
		if strictRoles {
			for i, m := range msgs {
				if err := v.MatchesAllowed(m.Role, common.KnownRoles(),
					fmt.Sprintf("message %d role", i)); err != nil {
					return err
				}
			}
		}

		tmpl, ctx, err := loadTemplate()
		if err != nil {
			return err
		}
		if eosToken != "" {
			ctx.SetVar("eos_token", eosToken)
		}
		if bosToken != "" {
			ctx.SetVar("bos_token", bosToken)
		}

		slog.Debug("rendering chat template", "messages", len(msgs))
		out, err := prompt.RenderWithContext(tmpl, msgs, ctx)
		if err != nil {
			return err
		}
		// The rendered prompt is byte-exact; no trailing newline is added.
		fmt.Print(out)
		return nil
	},
}

var checkCmd = cobra.Command{
	Use:   "check FILE...",
	Short: "Parse template files and report syntax errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no template files specified")
		}
		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := jinja.TemplateString(data).Validate(); err != nil {
				color.Red("%s: %v", path, err)
				failed++
				continue
			}
			color.Green("%s: ok", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d templates failed to parse", failed, len(args))
		}
		return nil
	},
}

var astCmd = cobra.Command{
	Use:   "ast FILE",
	Short: "Parse a template file and print its syntax tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one template file")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := jinja.Parse(string(data))
		if err != nil {
			return err
		}
		fmt.Print(jinja.Pretty(doc))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	renderCmd.Flags().StringVar(&templateFile, "template", "", "Path to a raw chat template file")
	renderCmd.Flags().StringVar(&tokenizerConfigFile, "tokenizer-config", "", "Path to an HF tokenizer_config.json with a chat_template")
	renderCmd.Flags().StringVar(&messagesFile, "messages", "", "Path to a YAML/JSON file with the chat messages")
	renderCmd.Flags().StringVar(&eosToken, "eos-token", "", "Override the eos_token variable")
	renderCmd.Flags().StringVar(&bosToken, "bos-token", "", "Override the bos_token variable")
	renderCmd.Flags().BoolVar(&addGenerationPrompt, "add-generation-prompt", true, "Set the add_generation_prompt flag")
	renderCmd.Flags().BoolVar(&strictRoles, "strict-roles", false, "Reject messages whose role is not a well-known chat role")
	rootCmd.AddCommand(&renderCmd)

	rootCmd.AddCommand(&checkCmd)
	rootCmd.AddCommand(&astCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
