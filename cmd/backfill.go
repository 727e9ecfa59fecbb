package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gasometer/backfill/internal/backfill"
	"github.com/gasometer/backfill/internal/config"
	"github.com/gasometer/backfill/internal/ingest"
	"github.com/gasometer/backfill/internal/utils"
)

// loadConfig resolves defaults < YAML file < flags. Only flags the user set
// override the file.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if url := os.Getenv(ingest.EnvAPIURL); url != "" && cfg.Ingest.URL == config.DefaultIngestURL {
		cfg.Ingest.URL = url
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("projects-dir") {
		cfg.ProjectsDir = config.ExpandHome(flags.projectsDir)
	}
	if changed("api-url") {
		cfg.Ingest.URL = flags.apiURL
	}
	if changed("concurrency") {
		cfg.Ingest.Concurrency = flags.concurrency
	}
	if changed("timeout") {
		cfg.Ingest.Timeout = flags.timeout
	}
	if changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if changed("export") {
		cfg.Export.Path = config.ExpandHome(flags.exportPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// prepare loads env files and config and configures logging. The returned
// cleanup must be called when the command finishes.
func prepare(cmd *cobra.Command, flags *rootFlags) (*config.Config, func(), error) {
	loadEnvFiles(envFiles()...)

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, nil, err
	}

	closer, runID, err := setupLogging(cfg, flags.debug)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("run_id", runID).
		Str("projects_dir", cfg.ProjectsDir).
		Str("api_url", cfg.Ingest.URL).
		Str("api_key", utils.MaskKey(cfg.Ingest.APIKey)).
		Int("concurrency", cfg.Ingest.Concurrency).
		Msg("config loaded")

	return cfg, func() { _ = closer.Close() }, nil
}

// newPoster returns the ingest client, or nil for a dry run.
func newPoster(cfg *config.Config) ingest.Poster {
	if cfg.IsDryRun() {
		return nil
	}
	return ingest.NewClient(cfg.Ingest.URL, cfg.Ingest.APIKey,
		ingest.WithTimeout(cfg.Ingest.Timeout),
		ingest.WithUserAgent("gasometer-backfill/"+Version),
	)
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runBackfill(cmd *cobra.Command, flags *rootFlags) error {
	cfg, cleanup, err := prepare(cmd, flags)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signalContext(cmd)
	defer stop()

	out := newPrinter(cmd.OutOrStdout())
	r := backfill.New(cfg, newPoster(cfg))
	r.Progress = consoleProgress(out)
	defer func() { _ = r.Close() }()

	report, err := r.Collect(ctx)
	if err != nil {
		return err
	}
	out.Summary(report, flags.byRig)
	if export := r.Export; export.Enabled() {
		out.Success(fmt.Sprintf("Wrote %d %s to %s", export.Count(), utils.Plural(export.Count(), "event", "events"), export.Path()))
	}

	return send(ctx, out, cfg, r, report)
}

// send dispatches the report or prints why it did not.
func send(ctx context.Context, out *printer, cfg *config.Config, r *backfill.Runner, report *backfill.Report) error {
	if cfg.IsDryRun() {
		out.Blank()
		if !cfg.HasAPIKey() {
			out.Line("No %s set. Dry run only.", ingest.EnvAPIKey)
		} else {
			out.Line("Dry run requested. Nothing sent.")
		}
		r.Send(ctx, report)
		return nil
	}

	out.Blank()
	out.Line("Ingesting %d events...", len(report.Events))
	r.Send(ctx, report)
	out.Dispatched(report)
	return nil
}

func consoleProgress(out *printer) backfill.Progress {
	return backfill.Progress{
		OnDiscovered: func(files int) {
			out.Line("Found %d transcript files", files)
			out.Line("Parsing transcripts...")
		},
		OnParsed: func(done, total int) {
			out.Line("  Parsed %d/%d...", done, total)
		},
		OnDispatch: func(done, total, ok, failed int) {
			out.Line("  Progress: %d/%d (%d ok, %d fail)", done, total, ok, failed)
		},
	}
}
