package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/quiz"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		st, err := s.EventRepo().Stats(cmd.Context(), resolveOwner(cmd))
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if st.Quizzes == 0 && st.Answers == 0 {
			fmt.Fprintln(out, "No quizzes yet. Run `phasa` or `phasa drill` to start.")
			return nil
		}

		fmt.Fprintf(out, "Quizzes finished:   %d\n", st.Quizzes)
		fmt.Fprintf(out, "Questions answered: %d\n", st.Answers)
		fmt.Fprintf(out, "First try:          %d (%.0f%%)\n", st.FirstTry, st.Accuracy()*100)
		fmt.Fprintf(out, "Words practiced:    %d\n", st.WordsSeen)
		fmt.Fprintf(out, "Time practicing:    %dm %02ds\n", st.TotalSeconds/60, st.TotalSeconds%60)

		if len(st.ByKind) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-20s  %8s  %9s  %6s\n", "Kind", "Answers", "First try", "Rate")
			fmt.Fprintln(out, strings.Repeat("─", 50))
			for _, k := range st.ByKind {
				name := k.Kind
				if kind, err := quiz.ParseKind(k.Kind); err == nil {
					name = kind.DisplayName()
				}
				var rate float64
				if k.Answers > 0 {
					rate = float64(k.FirstTry) / float64(k.Answers) * 100
				}
				fmt.Fprintf(out, "%-20s  %8d  %9d  %5.0f%%\n", name, k.Answers, k.FirstTry, rate)
			}
		}

		if len(st.Missed) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Words to review")
			fmt.Fprintln(out, strings.Repeat("─", 50))
			for _, m := range st.Missed {
				fmt.Fprintf(out, "  %s  missed %d×\n", pad(m.Thai, 16), m.Misses)
			}
		}
		return nil
	},
}
