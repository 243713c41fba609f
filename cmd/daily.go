package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/vocab"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Manage the daily word sets",
}

var dailyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show daily word sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from == "" && to == "" && days > 0 {
			now := time.Now()
			from = now.AddDate(0, 0, -(days - 1)).Format(vocab.DateLayout)
			to = now.Format(vocab.DateLayout)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		sets, err := s.VocabRepo().ListDaily(cmd.Context(), vocab.DailyFilter{Owner: resolveOwner(cmd), From: from, To: to})
		if err != nil {
			return fmt.Errorf("list daily words: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sets) == 0 {
			fmt.Fprintln(out, "No daily words in that range.")
			return nil
		}
		for i, set := range sets {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s  (%d words)\n", set.Date, len(set.Items))
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, it := range set.Items {
				fmt.Fprintf(out, "  %s  %s\n", pad(it.Thai, 16), it.Translation)
			}
		}
		return nil
	},
}

var dailyAddCmd = &cobra.Command{
	Use:   "add <date|today> <id|thai>...",
	Short: "Add words to the set of a day",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[0]
		if date == "today" {
			date = time.Now().Format(vocab.DateLayout)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		repo := s.VocabRepo()
		ids := make([]string, 0, len(args)-1)
		for _, arg := range args[1:] {
			it, err := findWord(cmd, repo, arg)
			if err != nil {
				return err
			}
			ids = append(ids, it.ID)
		}

		if err := repo.AddDaily(cmd.Context(), date, ids...); err != nil {
			return fmt.Errorf("add daily words: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d words to %s\n", len(ids), date)
		return nil
	},
}

func init() {
	dailyListCmd.Flags().Int("days", 7, "Show the last N days (ignored with --from/--to)")
	dailyListCmd.Flags().String("from", "", "First date, YYYY-MM-DD")
	dailyListCmd.Flags().String("to", "", "Last date, YYYY-MM-DD")

	dailyCmd.AddCommand(dailyListCmd)
	dailyCmd.AddCommand(dailyAddCmd)
}
