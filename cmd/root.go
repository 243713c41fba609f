package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "phasa",
	Short: "Thai vocabulary quizzes in the terminal",
	Long: `Phasa (ภาษา) helps you practice Thai vocabulary with word match,
fill-the-blank and sentence-building quizzes.

Set PHASA_ANTHROPIC_API_KEY, PHASA_OPENAI_API_KEY, PHASA_GEMINI_API_KEY or
PHASA_OPENROUTER_API_KEY (or the provider's standard *_API_KEY variable) to
enable AI-generated quizzes.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, runOptions{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every
// subcommand through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PHASA_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Learner name; words and history are kept per learner (overrides PHASA_USER env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PHASA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveOwner returns the learner from --user, then PHASA_USER. Empty
// means the guest learner.
func resolveOwner(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return strings.TrimSpace(u)
	}
	return strings.TrimSpace(os.Getenv("PHASA_USER"))
}

// openStore opens the database selected by the command's flags.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	slog.Debug("opening database", "path", dbPath)
	return store.Open(dbPath)
}

// setupLogging sends diagnostics to stderr at the level named by
// PHASA_LOG_LEVEL (debug, info, warn, error). The default is warn so the
// TUI stays clean.
func setupLogging() {
	level := slog.LevelWarn
	if v := os.Getenv("PHASA_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelWarn
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
