package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/config"
	"github.com/abhisek/mindcheck/internal/llm"
	"github.com/abhisek/mindcheck/internal/metrics"
	"github.com/abhisek/mindcheck/internal/rewrite"
	"github.com/abhisek/mindcheck/internal/store"
)

// runtime holds everything a command needs to run a check-in.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	metrics  *metrics.Metrics
	engines  []llm.Engine
	rewriter *rewrite.Rewriter
	session  *checkin.Session

	usage       bool
	metricsFile string
}

// newRuntime loads configuration and builds the rewriter and session. With
// tui set, logs go to MINDCHECK_LOG_FILE or nowhere so the screen stays
// clean.
func newRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	flags := cmd.Flags()
	offline, _ := flags.GetBool("offline")
	vocabPath, _ := flags.GetString("vocabulary")
	envFile, _ := flags.GetString("env-file")
	logLevel, _ := flags.GetString("log-level")

	cfg, err := config.Load(config.Options{
		EnvFile:        envFile,
		Offline:        offline,
		VocabularyPath: vocabPath,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}
	rt.usage, _ = flags.GetBool("usage")
	rt.metricsFile, _ = flags.GetString("metrics-file")

	if tui {
		rt.logger, err = config.NewTUILogger(cfg.Log)
	} else {
		rt.logger, err = config.NewLogger(cfg.Log)
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	rt.store, err = store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	ctx := commandContext(cmd)
	rt.engines, err = llm.NewEngines(ctx, cfg.LLM, rt.store.EventRepo(), rt.logger)
	if err != nil {
		rt.store.Close()
		return nil, fmt.Errorf("build engines: %w", err)
	}

	vocab := rewrite.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		vocab, err = rewrite.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			rt.store.Close()
			return nil, err
		}
	}

	rt.metrics = metrics.New()
	rt.rewriter = rewrite.New(rt.engines, vocab, cfg.Rewrite,
		rewrite.WithLogger(rt.logger),
		rewrite.WithMetrics(rt.metrics),
		rewrite.WithJournal(rt.store.EventRepo()),
	)
	rt.session = checkin.New(rt.rewriter)

	rt.logger.Debug("runtime ready",
		zap.String("session", rt.session.ID),
		zap.Int("engines", len(rt.engines)),
		zap.Bool("offline", cfg.Offline))
	return rt, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// status is the short engine summary shown in the TUI header.
func (rt *runtime) status() string {
	switch n := len(rt.engines); n {
	case 0:
		return "offline"
	case 1:
		return "AI: 1 engine"
	default:
		return fmt.Sprintf("AI: %d engines", n)
	}
}

// finish prints usage, writes metrics and releases the journal.
func (rt *runtime) finish(ctx context.Context, w io.Writer) error {
	defer rt.logger.Sync() //nolint:errcheck
	defer rt.store.Close()

	if rt.usage {
		if err := printUsage(ctx, w, rt.store.UsageRepo()); err != nil {
			return err
		}
	}
	if rt.metricsFile != "" {
		if err := rt.metrics.WriteFile(rt.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func printUsage(ctx context.Context, w io.Writer, repo store.UsageRepo) error {
	usage, err := repo.ByEngine(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(usage) == 0 {
		fmt.Fprintln(w, "No generation calls made.")
		return nil
	}

	fmt.Fprintln(w, "Usage by Engine")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	fmt.Fprintf(w, "%-32s  %6s  %6s  %8s  %8s  %8s  %8s\n",
		"Engine", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 84))

	var total float64
	for _, u := range usage {
		cost := "n/a"
		if c := llm.LookupCost(u.Model); c != nil {
			v := c.Cost(u.InputTokens, u.OutputTokens)
			total += v
			cost = fmt.Sprintf("$%.4f", v)
		}
		fmt.Fprintf(w, "%-32s  %6d  %6d  %8d  %8d  %8.0f  %8s\n",
			u.Engine, u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
	}

	fmt.Fprintln(w, strings.Repeat("─", 84))
	fmt.Fprintf(w, "Estimated total cost: $%.4f\n", total)
	return nil
}
