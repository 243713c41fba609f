package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/app"
	"github.com/abhisek/phasa/internal/questiongen"
	"github.com/abhisek/phasa/internal/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz right away",
	Long: `Open the quiz preview for one kind of question, skipping the home menu.

Kinds: word_match, cloze, token_reorder, mixed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		useLLM, _ := cmd.Flags().GetBool("llm")
		size, _ := cmd.Flags().GetInt("size")

		mode, err := questiongen.ParseMode(kind)
		if err != nil {
			return err
		}
		return runApp(cmd, runOptions{
			start:    &app.Start{Mode: mode, LLM: useLLM},
			poolSize: size,
		})
	},
}

func init() {
	playCmd.Flags().StringP("kind", "k", string(questiongen.ModeMixed), "Question kind: word_match, cloze, token_reorder or mixed")
	playCmd.Flags().Bool("llm", false, "Generate questions with the configured LLM provider")
	playCmd.Flags().IntP("size", "n", quiz.DefaultPoolSize, "Number of questions")
}
