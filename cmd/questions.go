package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/screener"
)

// questionsJSON is the --json shape of one prepared battery.
type questionsJSON struct {
	Screener string   `json:"screener"`
	Name     string   `json:"name"`
	Items    []string `json:"items"`
	Engine   string   `json:"engine,omitempty"`
	Accepted bool     `json:"accepted"`
	Reason   string   `json:"reason"`
}

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the situational screener items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			which, _ := cmd.Flags().GetString("screener")
			refresh, _ := cmd.Flags().GetBool("refresh")
			asJSON, _ := cmd.Flags().GetBool("json")

			ids, err := screenerIDs(which)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd, false)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			if err := rt.session.Prepare(ctx, refresh, ids...); err != nil {
				rt.finish(ctx, cmd.ErrOrStderr()) //nolint:errcheck
				return fmt.Errorf("prepare questions: %w", err)
			}

			var batteries []*checkin.Battery
			for _, id := range ids {
				b, _ := rt.session.Battery(id)
				batteries = append(batteries, b)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				err = writeQuestionsJSON(out, batteries)
			} else {
				writeQuestions(out, batteries)
			}
			if ferr := rt.finish(ctx, cmd.ErrOrStderr()); err == nil {
				err = ferr
			}
			return err
		},
	}
	cmd.Flags().String("screener", "all", "Which screener to print: gad7, phq9 or all")
	cmd.Flags().Bool("refresh", false, "Bypass the rewrite cache")
	cmd.Flags().Bool("json", false, "Print JSON instead of text")
	return cmd
}

func screenerIDs(which string) ([]screener.ID, error) {
	switch strings.ToLower(strings.TrimSpace(which)) {
	case "", "all":
		return []screener.ID{screener.Anxiety, screener.Depression}, nil
	case string(screener.Anxiety):
		return []screener.ID{screener.Anxiety}, nil
	case string(screener.Depression):
		return []screener.ID{screener.Depression}, nil
	}
	return nil, fmt.Errorf("unknown screener %q: want gad7, phq9 or all", which)
}

func writeQuestions(w io.Writer, batteries []*checkin.Battery) {
	for i, b := range batteries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", b.Screener.Icon, b.Screener.Heading())
		fmt.Fprintln(w, strings.Repeat("─", 60))
		for n, item := range b.Items {
			fmt.Fprintf(w, "%2d. %s\n", n+1, item)
		}
		if b.Meta.Accepted {
			fmt.Fprintf(w, "✓ Situational wording by AI (%s)\n", b.Meta.Engine)
		} else {
			fmt.Fprintf(w, "AI output not used, showing standard wording (%s)\n", b.Meta.Reason)
		}
	}
}

func writeQuestionsJSON(w io.Writer, batteries []*checkin.Battery) error {
	out := make([]questionsJSON, 0, len(batteries))
	for _, b := range batteries {
		out = append(out, questionsJSON{
			Screener: string(b.Screener.ID),
			Name:     b.Screener.Name,
			Items:    b.Items,
			Engine:   b.Meta.Engine,
			Accepted: b.Meta.Accepted,
			Reason:   b.Meta.Reason,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
