package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. The root command runs the TUI
// check-in.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mindcheck",
		Short: "Situational GAD-7 and PHQ-9 check-in",
		Long: "mindcheck walks you through the GAD-7 anxiety and PHQ-9 depression\n" +
			"screeners, reworded as everyday situations, and scores the result.\n" +
			"It is not a diagnosis.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("offline", false, "Skip AI rewording and use the standard wording")
	flags.String("vocabulary", "", "Path to a rewrite vocabulary JSON file (overrides MINDCHECK_VOCABULARY)")
	flags.String("env-file", "", "Path to the secrets file (default .env)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (overrides MINDCHECK_LOG_LEVEL)")
	flags.Bool("usage", false, "Print token usage and estimated cost on exit")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newCopingCmd())
	root.AddCommand(newEnginesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
