package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	mentions "github.com/yangbooom/mentions-go"
)

type rootOptions struct {
	configPath string
	unit       string
	markdown   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "mentions",
		Short: "Inspect and edit markup with embedded mentions",
		Long: `mentions maps markup such as "Hi @[John](42)" to the plain text a user
sees ("Hi John") and applies plain-text edits back to the markup.

Markup is read from the first argument, or from stdin when the argument
is "-" or missing. Mention types default to "@[__display__](__id__)" and
can be loaded from a YAML or TOML file with --config.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "mention type definitions (.yaml, .yml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.unit, "unit", "", "unit of plain-text indices: rune, byte, utf16 or grapheme")
	cmd.PersistentFlags().BoolVar(&opts.markdown, "markdown", false, "parse literal text as Markdown when exporting entities")

	cmd.AddCommand(
		newPlainCommand(opts),
		newMentionsCommand(opts),
		newMapCommand(opts),
		newEditCommand(opts),
		newSerializeCommand(),
		newEntitiesCommand(opts),
		newCopyCommand(opts),
		newPasteCommand(opts),
	)
	return cmd
}

func (o *rootOptions) engine(cmd *cobra.Command) (*mentions.Engine, error) {
	var opts []mentions.Option
	if o.unit != "" {
		unit, err := mentions.ParseUnit(o.unit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mentions.WithUnit(unit))
	}
	if cmd.Flags().Changed("markdown") {
		opts = append(opts, mentions.WithMarkdown(o.markdown))
	}
	if o.configPath != "" {
		return mentions.LoadFile(o.configPath, opts...)
	}
	return mentions.New(nil, opts...)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPlainCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plain [markup]",
		Short: "Print the plain-text projection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.PlainText(value))
			return nil
		},
	}
}

func newMentionsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mentions [markup]",
		Short: "List mentions as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			found := e.ExtractMentions(value)
			if found == nil {
				found = []mentions.Mention{}
			}
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}
}

func parsePolicy(s string) (mentions.BoundaryPolicy, error) {
	for _, p := range []mentions.BoundaryPolicy{mentions.PolicyStart, mentions.PolicyEnd, mentions.PolicyNull} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy %q, want start, end or null", s)
}

func newMapCommand(opts *rootOptions) *cobra.Command {
	var (
		index  int
		policy string
	)
	cmd := &cobra.Command{
		Use:   "map [markup]",
		Short: "Map a plain-text index to a markup byte offset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePolicy(policy)
			if err != nil {
				return err
			}
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			offset, ok := e.MapPlainToMarkup(value, index, p)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), offset)
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "plain-text index")
	cmd.Flags().StringVarP(&policy, "policy", "p", "start", "policy inside a mention: start, end or null")
	return cmd
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var (
		newPlain    string
		beforeStart int
		beforeEnd   int
		caret       int
	)
	cmd := &cobra.Command{
		Use:   "edit [markup]",
		Short: "Apply a plain-text edit and print the result as JSON",
		Long: `Apply a plain-text edit to markup. --new is the edited plain text,
--before-start/--before-end the selection before the edit and --caret the
caret after it. Omitted selections are derived by diffing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("new") {
				return fmt.Errorf("--new is required")
			}
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var change mentions.Change
			if cmd.Flags().Changed("before-start") {
				end := beforeStart
				if cmd.Flags().Changed("before-end") {
					end = beforeEnd
				}
				change.Before = mentions.Selection{Start: beforeStart, End: end, Active: true}
			}
			if cmd.Flags().Changed("caret") {
				change.After = mentions.Selection{Start: caret, End: caret, Active: true}
			}
			return writeJSON(cmd.OutOrStdout(), e.ApplyChange(value, newPlain, change))
		},
	}
	cmd.Flags().StringVar(&newPlain, "new", "", "edited plain text")
	cmd.Flags().IntVar(&beforeStart, "before-start", 0, "selection start before the edit")
	cmd.Flags().IntVar(&beforeEnd, "before-end", 0, "selection end before the edit")
	cmd.Flags().IntVar(&caret, "caret", 0, "caret after the edit")
	return cmd
}

func newSerializeCommand() *cobra.Command {
	var (
		template string
		id       string
		display  string
	)
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Fill a mention template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), mentions.Serialize(template, id, display))
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", mentions.DefaultTemplate, "mention template")
	cmd.Flags().StringVar(&id, "id", "", "mention id")
	cmd.Flags().StringVar(&display, "display", "", "mention display text")
	return cmd
}

type entitiesOutput struct {
	Text     string                   `json:"text"`
	Entities []mentions.MessageEntity `json:"entities"`
}

func newEntitiesCommand(opts *rootOptions) *cobra.Command {
	var maxLen int
	cmd := &cobra.Command{
		Use:   "entities [markup]",
		Short: "Export text and UTF-16 entities as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			text, entities := e.Entities(value)
			if maxLen <= 0 {
				return writeJSON(cmd.OutOrStdout(), entitiesOutput{Text: text, Entities: orEmpty(entities)})
			}
			chunks := mentions.SplitEntities(text, entities, maxLen)
			out := make([]entitiesOutput, 0, len(chunks))
			for _, c := range chunks {
				out = append(out, entitiesOutput{Text: c.Text, Entities: orEmpty(c.Entities)})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&maxLen, "split", 0, "split into chunks of at most this many UTF-16 code units")
	return cmd
}

func orEmpty(entities []mentions.MessageEntity) []mentions.MessageEntity {
	if entities == nil {
		return []mentions.MessageEntity{}
	}
	return entities
}

func newCopyCommand(opts *rootOptions) *cobra.Command {
	var (
		start, end int
		toClip     bool
	)
	cmd := &cobra.Command{
		Use:   "copy [markup]",
		Short: "Copy the markup covering a plain-text selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			frag := e.Copy(value, mentions.Selection{Start: start, End: end, Active: true})
			if toClip {
				if err := clipboard.WriteAll(frag.Markup); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Copied %d bytes of markup to clipboard\n", len(frag.Markup))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), frag.Markup)
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "selection start")
	cmd.Flags().IntVar(&end, "end", 0, "selection end")
	cmd.Flags().BoolVar(&toClip, "clipboard", false, "write the fragment to the system clipboard")
	return cmd
}

func newPasteCommand(opts *rootOptions) *cobra.Command {
	var (
		start, end int
		fragment   string
		fromClip   bool
	)
	cmd := &cobra.Command{
		Use:   "paste [markup]",
		Short: "Paste a markup fragment over a plain-text selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromClip {
				text, err := clipboard.ReadAll()
				if err != nil {
					return fmt.Errorf("failed to read clipboard: %w", err)
				}
				fragment = text
			}
			e, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			value, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("end") {
				end = start
			}
			res := e.Paste(value, mentions.Selection{Start: start, End: end, Active: true}, fragment)
			fmt.Fprintln(cmd.OutOrStdout(), res.Markup)
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "selection start")
	cmd.Flags().IntVar(&end, "end", 0, "selection end")
	cmd.Flags().StringVar(&fragment, "fragment", "", "markup fragment to paste")
	cmd.Flags().BoolVar(&fromClip, "clipboard", false, "read the fragment from the system clipboard")
	return cmd
}
