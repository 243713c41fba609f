package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/drill"
	"github.com/abhisek/phasa/internal/questiongen"
	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/quizlog"
	"github.com/abhisek/phasa/internal/vocab"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Run a quiz on plain stdin/stdout",
	Long: `Ask quiz questions line by line, without the full-screen interface.

Answer multiple-choice questions with the option number. For sentence
building, type the token numbers in order (e.g. "3 1 2"). Type q to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kind, _ := cmd.Flags().GetString("kind")
		useLLM, _ := cmd.Flags().GetBool("llm")
		size, _ := cmd.Flags().GetInt("size")
		days, _ := cmd.Flags().GetInt("daily")

		mode, err := questiongen.ParseMode(kind)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		owner := resolveOwner(cmd)
		vocabRepo := st.VocabRepo()
		eventRepo := st.EventRepo()

		var items []vocab.Item
		if days > 0 {
			now := time.Now()
			sets, err := vocabRepo.ListDaily(ctx, vocab.DailyFilter{
				Owner: owner,
				From:  now.AddDate(0, 0, -(days - 1)).Format(vocab.DateLayout),
				To:    now.Format(vocab.DateLayout),
			})
			if err != nil {
				return fmt.Errorf("list daily words: %w", err)
			}
			items = quiz.FromDailySets(sets)
		} else {
			items, err = vocabRepo.List(ctx, vocab.Filter{Owner: owner})
			if err != nil {
				return fmt.Errorf("list words: %w", err)
			}
		}

		var src quiz.Source = questiongen.NewLocal(mode)
		source := "local"
		if useLLM {
			sources, err := llmSources(ctx, eventRepo)
			if err != nil {
				return err
			}
			src = sources(mode)
			source = "llm"
		}

		rec := quizlog.New(eventRepo, quizlog.Meta{Owner: owner, Kind: string(mode), Source: source})
		ctrl := quiz.NewController(items, src,
			quiz.WithContext(ctx),
			quiz.WithPoolSize(size),
			quiz.WithObserver(rec),
		)
		defer ctrl.Close()
		if ctrl.TotalQuestions() > 0 {
			rec.Start(ctx, ctrl.TotalQuestions())
		}

		_, err = drill.New(ctrl, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		if errors.Is(err, drill.ErrStopped) {
			fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
			return nil
		}
		return err
	},
}

func init() {
	drillCmd.Flags().StringP("kind", "k", string(questiongen.ModeMixed), "Question kind: word_match, cloze, token_reorder or mixed")
	drillCmd.Flags().Bool("llm", false, "Generate questions with the configured LLM provider")
	drillCmd.Flags().IntP("size", "n", quiz.DefaultPoolSize, "Number of questions")
	drillCmd.Flags().Int("daily", 0, "Practice the daily words of the last N days instead of your own list")
}
