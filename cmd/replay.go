package main

import (
	"github.com/spf13/cobra"

	"github.com/gasometer/backfill/internal/backfill"
	"github.com/gasometer/backfill/internal/utils"
)

func newReplayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "replay FILE",
		Short: "Send a cost-event JSONL file",
		Long: "Replay reads one cost event per line (for example ~/.gt/costs.jsonl or a file written\n" +
			"with --export), fills a missing rig from the session id prefix, and posts every valid event.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, flags, args[0])
		},
	}
}

func runReplay(cmd *cobra.Command, flags *rootFlags, path string) error {
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

	report, err := r.LoadReplay(path)
	if err != nil {
		return err
	}
	out.Line("Loaded %d events from %s (%d skipped, invalid)", report.Sessions, path, report.Skipped)
	out.Blank()
	out.Line("Total cost: %s", utils.FormatUSD(report.Total))
	out.breakdown(report.ByRole)
	if flags.byRig {
		out.Blank()
		out.Line("By rig:")
		out.breakdownWithSessions(report.ByRig)
	}

	return send(ctx, out, cfg, r, report)
}
