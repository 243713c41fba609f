package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/vocab"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage your vocabulary list",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your words",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		items, err := s.VocabRepo().List(cmd.Context(), vocab.Filter{Owner: resolveOwner(cmd), Limit: limit})
		if err != nil {
			return fmt.Errorf("list words: %w", err)
		}

		out := cmd.OutOrStdout()
		switch output {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(items)
		case "table", "":
		default:
			return fmt.Errorf("unknown output %q: want table, json or yaml", output)
		}

		if len(items) == 0 {
			fmt.Fprintln(out, "No words yet. Add one with `phasa words add` or `phasa words import`.")
			return nil
		}
		printWords(out, items)
		return nil
	},
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <thai> <translation>",
	Short: "Add a word",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		it := vocab.Item{
			Owner:       resolveOwner(cmd),
			Thai:        args[0],
			Translation: args[1],
		}
		applyWordFlags(cmd, &it)

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.VocabRepo().Create(cmd.Context(), &it); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%s is already in your word list", it.Thai)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as %s\n", it.Thai, it.Translation, it.ID)
		return nil
	},
}

var wordsEditCmd = &cobra.Command{
	Use:   "edit <id|thai>",
	Short: "Change the details of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		repo := s.VocabRepo()
		it, err := findWord(cmd, repo, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("translation") {
			it.Translation, _ = cmd.Flags().GetString("translation")
		}
		applyWordFlags(cmd, it)

		if err := repo.Update(cmd.Context(), *it); err != nil {
			return fmt.Errorf("update word: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", it.Thai)
		return nil
	},
}

var wordsRmCmd = &cobra.Command{
	Use:     "rm <id|thai>...",
	Aliases: []string{"remove"},
	Short:   "Remove words",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		repo := s.VocabRepo()
		for _, arg := range args {
			it, err := findWord(cmd, repo, arg)
			if err != nil {
				return err
			}
			if err := repo.Delete(cmd.Context(), it.ID); err != nil {
				return fmt.Errorf("remove %s: %w", it.Thai, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", it.Thai, it.Translation)
		}
		return nil
	},
}

var wordsImportCmd = &cobra.Command{
	Use:   "import <file.json|file.yaml>",
	Short: "Import words from a JSON or YAML file",
	Long: `Import a list of words. Each entry has thai and translation, and may
have romanization, example {thai, translation} and gloss {text, reading}.
Words you already have are skipped. Use - to read JSON from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var (
			r      io.Reader
			format = vocab.FormatJSON
		)
		if path == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
			if format, err = vocab.FormatFromPath(path); err != nil {
				return err
			}
		}

		items, err := vocab.Decode(r, format)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		added, err := s.VocabRepo().Import(cmd.Context(), resolveOwner(cmd), items)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d words", added, len(items))
		if skipped := len(items) - added; skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d already in your list)", skipped)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

// wordFinder looks words up by ID or Thai text.
type wordFinder interface {
	vocab.Source
	FindByThai(ctx context.Context, owner, thai string) (*vocab.Item, error)
}

// minIDPrefix is the shortest ID prefix findWord accepts.
const minIDPrefix = 4

// findWord resolves arg as one of the learner's item IDs, then as their
// Thai word, then as a unique prefix of one of their IDs.
func findWord(cmd *cobra.Command, repo wordFinder, arg string) (*vocab.Item, error) {
	ctx := cmd.Context()
	owner := resolveOwner(cmd)
	it, err := repo.Get(ctx, arg)
	if err == nil && it.Owner == owner {
		return it, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	it, err = repo.FindByThai(ctx, owner, arg)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return it, err
	}

	if len(arg) >= minIDPrefix {
		items, err := repo.List(ctx, vocab.Filter{Owner: owner})
		if err != nil {
			return nil, err
		}
		var match *vocab.Item
		for i := range items {
			if !strings.HasPrefix(items[i].ID, arg) {
				continue
			}
			if match != nil {
				return nil, fmt.Errorf("%q matches more than one word; use a longer ID", arg)
			}
			match = &items[i]
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, fmt.Errorf("no word %q in your list", arg)
}

// applyWordFlags copies the optional detail flags that were set onto it.
func applyWordFlags(cmd *cobra.Command, it *vocab.Item) {
	flags := cmd.Flags()
	if flags.Changed("roman") {
		it.Romanization, _ = flags.GetString("roman")
	}
	if flags.Changed("example") || flags.Changed("example-translation") {
		if it.Example == nil {
			it.Example = &vocab.Example{}
		}
		if flags.Changed("example") {
			it.Example.Thai, _ = flags.GetString("example")
		}
		if flags.Changed("example-translation") {
			it.Example.Translation, _ = flags.GetString("example-translation")
		}
	}
	if flags.Changed("gloss") || flags.Changed("gloss-reading") {
		if it.Gloss == nil {
			it.Gloss = &vocab.Gloss{}
		}
		if flags.Changed("gloss") {
			it.Gloss.Text, _ = flags.GetString("gloss")
		}
		if flags.Changed("gloss-reading") {
			it.Gloss.Reading, _ = flags.GetString("gloss-reading")
		}
	}
}

// printWords writes items as an aligned table. Thai text has combining
// marks, so columns are padded by display width.
func printWords(w io.Writer, items []vocab.Item) {
	fmt.Fprintf(w, "%s  %s  %s  %s\n", pad("ID", 8), pad("Thai", 16), pad("Romanization", 16), "Translation")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, it := range items {
		id := it.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", pad(id, 8), pad(it.Thai, 16), pad(it.Romanization, 16), it.Translation)
	}
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func init() {
	wordsListCmd.Flags().IntP("limit", "n", 0, "Maximum number of words to show (0 = all)")
	wordsListCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	for _, c := range []*cobra.Command{wordsAddCmd, wordsEditCmd} {
		c.Flags().StringP("roman", "r", "", "Romanization")
		c.Flags().String("example", "", "Example sentence in Thai")
		c.Flags().String("example-translation", "", "Translation of the example sentence")
		c.Flags().String("gloss", "", "Equivalent in another language, e.g. 猫")
		c.Flags().String("gloss-reading", "", "Reading of the gloss, e.g. ねこ")
	}
	wordsEditCmd.Flags().StringP("translation", "t", "", "New translation")

	wordsCmd.AddCommand(wordsListCmd)
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsEditCmd)
	wordsCmd.AddCommand(wordsRmCmd)
	wordsCmd.AddCommand(wordsImportCmd)
}
