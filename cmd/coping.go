package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindcheck/internal/coping"
)

func newCopingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coping [mood...]",
		Short: "List moods or print quick coping tips for one",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, "Moods:")
				for _, m := range coping.AllMoods() {
					fmt.Fprintf(out, "  %-12s %s\n", m, m.DisplayName())
				}
				return nil
			}

			mood, err := coping.ParseMood(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "For feeling %s:\n", mood.DisplayName())
			for _, tip := range coping.Suggestions(mood) {
				fmt.Fprintf(out, "  • %s\n", tip)
			}
			return nil
		},
	}
}
