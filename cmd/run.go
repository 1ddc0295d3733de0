package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mindcheck/internal/app"
)

// runApp builds the runtime and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}

	runErr := app.Run(app.Options{
		Session: rt.session,
		Status:  rt.status(),
	})
	if err := rt.finish(commandContext(cmd), cmd.OutOrStdout()); err != nil && runErr == nil {
		return err
	}
	return runErr
}
