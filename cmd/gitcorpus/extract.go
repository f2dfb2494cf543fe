package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitcorpus/internal/config"
	"github.com/fyrsmithlabs/gitcorpus/internal/corpus"
	"github.com/fyrsmithlabs/gitcorpus/internal/dispatch"
	"github.com/fyrsmithlabs/gitcorpus/internal/extraction"
	"github.com/fyrsmithlabs/gitcorpus/internal/license"
	"github.com/fyrsmithlabs/gitcorpus/internal/logging"
	"github.com/fyrsmithlabs/gitcorpus/internal/telemetry"
)

// Flag values. Flags sit on top of file and environment configuration;
// only flags the user actually set override.
var (
	configPath     string
	reposDir       string
	outputDir      string
	maxCommits     int
	maxDiffSize    int
	maxStyleSize   int
	skipBots       bool
	markSource     bool
	includeLicense bool
	workers        int
	logLevel       string
	logFormat      string
)

// extractCmd runs the pipeline
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract commit records from every repository under the mirrors directory",
	Long: `Extract walks every git repository one level under the mirrors directory
and writes one JSONL artifact of commit records per repository.

Examples:
  # Extract with defaults (./repos -> ./commit_data)
  gitcorpus extract

  # Bound the extraction and raise parallelism
  gitcorpus extract --repos-dir /srv/mirrors --max-commits 500 --workers 8

  # Full provenance run with bot filtering
  gitcorpus extract --skip-bot-commits --mark-source --include-license`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	flags := extractCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to YAML config file")
	flags.StringVarP(&reposDir, "repos-dir", "r", "", "directory containing the git repositories")
	flags.StringVarP(&outputDir, "output-dir", "o", "", "directory receiving one JSONL artifact per repository")
	flags.IntVarP(&maxCommits, "max-commits", "m", 0, "maximum commits to extract per repository")
	flags.IntVarP(&maxDiffSize, "max-diff-size", "d", 0, "diff truncation ceiling in bytes")
	flags.IntVarP(&maxStyleSize, "max-style-size", "c", 0, "style guide truncation ceiling in bytes")
	flags.BoolVarP(&skipBots, "skip-bot-commits", "b", false, "drop commits authored by bots")
	flags.BoolVarP(&markSource, "mark-source", "s", false, "record remote URLs in each record")
	flags.BoolVar(&includeLicense, "include-license", false, "detect and record the repository license")
	flags.IntVarP(&workers, "workers", "t", 0, "repositories processed in parallel")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log encoding (console or json)")
	rootCmd.AddCommand(extractCmd)
}

// runExtract drives one extraction run end to end: configuration, logger,
// telemetry, discovery, dispatch, summary.
func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	ctx := logging.WithRunID(context.Background(), uuid.NewString())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn(ctx, "signal received, stopping extraction", zap.String("signal", sig.String()))
		cancel()
	}()

	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}()

	var metrics *telemetry.PipelineMetrics
	if tel.IsEnabled() {
		metrics, err = tel.PipelineMetrics()
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
	}

	// License detection shells out; fail before any work if the tool is gone.
	if cfg.Extract.IncludeLicense {
		if err := license.EnsureTool(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(cfg.Source.ReposDir); err != nil {
		return fmt.Errorf("repos directory: %w", err)
	}
	if err := os.MkdirAll(cfg.Source.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	paths, err := corpus.ListRepositories(cfg.Source.ReposDir)
	if err != nil {
		return fmt.Errorf("listing repositories: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no git repositories found under %s", cfg.Source.ReposDir)
	}

	logger.Info(ctx, "extraction starting",
		zap.String("repos_dir", cfg.Source.ReposDir),
		zap.String("output_dir", cfg.Source.OutputDir),
		zap.Int("repositories", len(paths)),
		zap.Int("workers", cfg.Dispatch.Workers),
		zap.Int("max_commits", cfg.Extract.MaxCommits))

	proc := corpus.NewProcessor(corpus.ProcessorConfig{
		OutputDir:  cfg.Source.OutputDir,
		MaxCommits: cfg.Extract.MaxCommits,
		Extraction: extraction.Options{
			MaxDiffBytes:   cfg.Extract.MaxDiffBytes,
			MaxStyleBytes:  cfg.Extract.MaxStyleBytes,
			SkipBotCommits: cfg.Extract.SkipBotCommits,
			MarkSource:     cfg.Extract.MarkSource,
			IncludeLicense: cfg.Extract.IncludeLicense,
		},
	}, logger.Named("corpus"), metrics)

	disp := dispatch.NewDispatcher(cfg.Dispatch.Workers)
	disp.SetLogger(logger.Named("dispatch"))
	disp.SetMetrics(metrics)

	start := time.Now()
	results := disp.Run(ctx, proc, paths)

	var processed, failed, records int
	for _, res := range results {
		if res.Failed() {
			failed++
			continue
		}
		processed++
		records += res.Retained
	}

	logger.Info(ctx, "extraction finished",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
		zap.Int("records", records),
		zap.Duration("duration", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("extraction interrupted: %w", err)
	}
	return nil
}

// applyFlags overlays explicitly set flags onto the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("repos-dir") {
		cfg.Source.ReposDir = reposDir
	}
	if flags.Changed("output-dir") {
		cfg.Source.OutputDir = outputDir
	}
	if flags.Changed("max-commits") {
		cfg.Extract.MaxCommits = maxCommits
	}
	if flags.Changed("max-diff-size") {
		cfg.Extract.MaxDiffBytes = maxDiffSize
	}
	if flags.Changed("max-style-size") {
		cfg.Extract.MaxStyleBytes = maxStyleSize
	}
	if flags.Changed("skip-bot-commits") {
		cfg.Extract.SkipBotCommits = skipBots
	}
	if flags.Changed("mark-source") {
		cfg.Extract.MarkSource = markSource
	}
	if flags.Changed("include-license") {
		cfg.Extract.IncludeLicense = includeLicense
	}
	if flags.Changed("workers") {
		cfg.Dispatch.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
}

// newLogger builds the pipeline logger from the two CLI-exposed knobs.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	lcfg := logging.NewDefaultConfig()
	lcfg.Level = level
	lcfg.Format = cfg.Logging.Format
	return logging.NewLogger(lcfg)
}

// telemetryConfig maps the CLI configuration onto the telemetry package.
func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tcfg := telemetry.NewDefaultConfig()
	tcfg.Enabled = cfg.Telemetry.Enabled
	tcfg.Endpoint = cfg.Telemetry.Endpoint
	tcfg.ServiceName = cfg.Telemetry.ServiceName
	tcfg.Insecure = cfg.Telemetry.Insecure
	tcfg.ExportInterval = cfg.Telemetry.ExportInterval
	tcfg.ServiceVersion = version
	return tcfg
}
