package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"abstain/internal/agent"
	"abstain/internal/ledger"
	"abstain/internal/logging"
	"abstain/internal/observability"
	"abstain/internal/runner"
	"abstain/internal/spec"
	"abstain/internal/ui/live"
)

// newCaller is a test seam for building the remote caller.
var newCaller runner.CallerFactory = func(cfg spec.ProviderConfig) (agent.Caller, error) {
	return agent.FromConfig(cfg, os.LookupEnv, nil)
}

// openLedger is a test seam for opening the ledger.
var openLedger runner.LedgerOpener = ledger.Open

// readLedgerKeys is a test seam for the read-only ledger load used by status.
var readLedgerKeys runner.KeyReader = ledger.ReadKeys

type runOptions struct {
	configPath  string
	limit       int
	concurrency int
	batchSize   int
	uiMode      string
	verbose     bool
	noColor     bool
	metricsAddr string
	logLevel    string
	logFormat   string
	logPath     string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every pending (question, prompt, model) combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExperiment(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addConfigFlag(cmd, &opts.configPath)
	f := cmd.Flags()
	f.IntVar(&opts.limit, "limit", 0, "Only evaluate the first N questions (0 uses the config)")
	f.IntVar(&opts.concurrency, "concurrency", 0, "Maximum units in flight (0 uses the config)")
	f.IntVar(&opts.batchSize, "batch-size", 0, "Completions between ledger flushes (0 uses the config)")
	f.StringVar(&opts.uiMode, "ui", "auto", "Output mode: auto|live|plain")
	f.BoolVar(&opts.verbose, "verbose", false, "Print every outcome as plain text (disables the live UI)")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colors in the live UI")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the config)")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: text|json (overrides the config)")
	f.StringVar(&opts.logPath, "log", "", "Append logs to this file instead of stderr")
	return cmd
}

func runExperiment(ctx context.Context, opts runOptions, stdout, stderr io.Writer) error {
	if opts.limit < 0 || opts.concurrency < 0 || opts.batchSize < 0 {
		return usageError{err: errors.New("--limit, --concurrency, and --batch-size must be >= 0")}
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	decision, err := resolveUIMode(opts.uiMode, opts.verbose, stdout)
	if err != nil {
		return usageError{err: err}
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}
	closeLog, err := setupLogging(cfg.Log, opts, stderr, decision.useLive)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.New("run")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *observability.Metrics
	if opts.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
		_, shutdown, err := serveMetrics(opts.metricsAddr, registry, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	reporter := runner.NewReporter(stdout)
	var observer runner.Observer = reporter
	var controller *live.Controller
	if decision.useLive {
		controller = live.Start(stdout, live.Options{NoColor: colorDisabled(opts.noColor), Interrupt: cancel})
		observer = controller
	}

	summary, err := runner.Run(ctx, cfg, runner.RunParams{
		Concurrency: opts.concurrency,
		BatchSize:   opts.batchSize,
		Limit:       opts.limit,
		Observer:    observer,
		Logger:      logger,
		Metrics:     metrics,
		Deps: runner.Deps{
			CallerFactory: newCaller,
			OpenLedger:    openLedger,
		},
	})
	if controller != nil {
		controller.Close()
		controller.Wait()
		if summary.RunID != "" {
			reporter.OnRunEnd(summary)
		}
	}
	if err != nil {
		if summary.Interrupted {
			return fmt.Errorf("run interrupted, %d tasks not started: %w", summary.NotStarted(), err)
		}
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
