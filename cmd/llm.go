package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/llm"
	"github.com/abhisek/phasa/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the log of LLM requests",
	Long: `Every question generated by an LLM is logged with its prompt, response,
token counts and latency. These commands read that log.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")
		output, _ := cmd.Flags().GetString("output")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if failed {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			events = onlyFailed(events, limit)
		}

		out := cmd.OutOrStdout()
		switch output {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		case "table", "":
		default:
			return fmt.Errorf("unknown output format %q", output)
		}

		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM requests logged.")
			return nil
		}
		printLLMEvents(out, events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and response of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printPurposeUsage(out, byPurpose)
		fmt.Fprintln(out)
		printModelCost(out, byModel)
		return nil
	},
}

func onlyFailed(events []store.LLMEvent, limit int) []store.LLMEvent {
	var out []store.LLMEvent
	for _, e := range events {
		if e.Success {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printLLMEvents(w io.Writer, events []store.LLMEvent) {
	fmt.Fprintf(w, "%s  %s  %s  %s  %6s  %6s  %6s\n",
		pad("ID", 5), pad("Time", 19), pad("Purpose", 13), pad("Model", 26), "In", "Out", "Ms")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range events {
		mark := "✓"
		if !e.Success {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %6d  %6d  %6d  %s\n",
			pad(strconv.Itoa(e.ID), 5),
			e.Timestamp.Local().Format(timeLayout),
			pad(e.Purpose, 13),
			pad(clip(e.Model, 26), 26),
			e.InputTokens, e.OutputTokens, e.LatencyMs, mark)
	}
}

func printLLMEvent(w io.Writer, e *store.LLMEvent) {
	field := func(name, value string) { fmt.Fprintf(w, "%s %s\n", pad(name+":", 10), value) }
	field("ID", strconv.Itoa(e.ID))
	field("Time", e.Timestamp.Local().Format(timeLayout))
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Purpose", e.Purpose)
	field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	if c, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
		field("Cost", formatCost(c)+" (estimated)")
	}
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	if e.Success {
		field("Result", "ok")
	} else {
		field("Result", "failed: "+e.ErrorMessage)
	}

	section := func(name, body string) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, name)
		fmt.Fprintln(w, strings.Repeat("─", 60))
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(w, body)
	}
	section("Request", e.RequestBody)
	section("Response", e.ResponseBody)
}

func printPurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	fmt.Fprintf(w, "%s  %6s  %10s  %10s  %8s\n", pad("Purpose", 16), "Calls", "In", "Out", "Avg ms")
	fmt.Fprintln(w, strings.Repeat("─", 58))
	var calls, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%s  %6d  %10d  %10d  %8d\n",
			pad(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 58))
	fmt.Fprintf(w, "%s  %6d  %10d  %10d\n", pad("Total", 16), calls, in, out)
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	fmt.Fprintf(w, "%s  %6s  %10s\n", pad("Model", 32), "Calls", "Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 52))
	var total float64
	var unknown []string
	for _, u := range usage {
		cost := "?"
		if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%s  %6d  %10s\n", pad(clip(u.Model, 32), 32), u.Calls, cost)
	}
	fmt.Fprintln(w, strings.Repeat("─", 52))
	label := "Total"
	if len(unknown) > 0 {
		label = "Total (partial)"
	}
	fmt.Fprintf(w, "%s  %6s  %10s\n", pad(label, 32), "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unknown, ", "))
	}
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. question-gen)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmListCmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
