package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear quiz history",
	Long:  "Delete recorded quizzes and answers. Your words are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		withLLM, _ := cmd.Flags().GetBool("llm")
		yes, _ := cmd.Flags().GetBool("yes")

		out := cmd.OutOrStdout()
		if !yes {
			what := "all quiz history"
			if withLLM {
				what += " and the LLM request log"
			}
			fmt.Fprintf(out, "This deletes %s. Type yes to continue: ", what)
			sc := bufio.NewScanner(cmd.InOrStdin())
			if !sc.Scan() || strings.TrimSpace(sc.Text()) != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		n, err := s.EventRepo().Reset(cmd.Context(), withLLM)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintf(out, "Deleted %d records.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("llm", false, "Also delete the LLM request log")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
