package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/screener"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score GAD-7 and PHQ-9 answers without the TUI",
		Long: "Score answer lists given as comma separated indexes, one per item:\n" +
			"0 = not at all, 1 = several days, 2 = more than half the days,\n" +
			"3 = nearly every day.",
		Example: "  mindcheck score --gad 0,1,1,0,2,0,1 --phq 0,0,1,1,0,0,2,0,0",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gadFlag, _ := cmd.Flags().GetString("gad")
			phqFlag, _ := cmd.Flags().GetString("phq")

			gad, err := parseAnswers(gadFlag, screener.AnxietyScreener())
			if err != nil {
				return err
			}
			phq, err := parseAnswers(phqFlag, screener.DepressionScreener())
			if err != nil {
				return err
			}

			writeReport(cmd.OutOrStdout(), checkin.NewReport(gad, phq))
			return nil
		},
	}
	cmd.Flags().String("gad", "", "GAD-7 answers, 7 comma separated values 0-3")
	cmd.Flags().String("phq", "", "PHQ-9 answers, 9 comma separated values 0-3")
	_ = cmd.MarkFlagRequired("gad")
	_ = cmd.MarkFlagRequired("phq")
	return cmd
}

func parseAnswers(s string, sc screener.Screener) (screener.AnswerSet, error) {
	levels, err := screener.ParseLevels(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sc.Name, err)
	}
	answers := screener.FromLevels(levels)
	if err := answers.Complete(sc); err != nil {
		return nil, err
	}
	return answers, nil
}

func writeReport(w io.Writer, r *checkin.Report) {
	gad, phq := screener.AnxietyScreener(), screener.DepressionScreener()
	fmt.Fprintf(w, "%s %s score: %d/%d  %s\n", gad.Icon, gad.Name, r.AnxietyScore, gad.MaxScore(), r.AnxietyBand.Summary())
	fmt.Fprintf(w, "%s %s score: %d/%d  %s\n", phq.Icon, phq.Name, r.DepressionScore, phq.MaxScore(), r.DepressionBand.Summary())
	fmt.Fprintf(w, "Combined: %d/%d\n", r.AnxietyScore+r.DepressionScore, checkin.MaxCombined())
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Badge.Title())
	fmt.Fprintln(w, r.Badge.Tier.Message())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This is a screening tool, not a diagnosis.")
}
