package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// rootFlags are shared by the backfill and replay actions.
type rootFlags struct {
	configPath  string
	projectsDir string
	apiURL      string
	concurrency int
	timeout     time.Duration
	dryRun      bool
	exportPath  string
	byRig       bool
	debug       bool
}

// NewRootCmd builds the command tree. The root command itself runs a backfill.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "gasometer-backfill",
		Short: "Backfill session costs from local transcripts",
		Long: "gasometer-backfill scans ~/.claude/projects for session transcripts, totals token usage,\n" +
			"prices each session by model, prints a per-role cost summary and posts one cost event\n" +
			"per session to the gasometer ingest API. Without GASOMETER_API_KEY it is a dry run.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackfill(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&flags.apiURL, "api-url", "", "Ingest endpoint (default $GASOMETER_API_URL or production)")
	pf.IntVar(&flags.concurrency, "concurrency", 0, "Maximum POSTs in flight (default 15)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Per-request timeout (default 10s)")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Print the summary without sending anything")
	pf.BoolVar(&flags.byRig, "by-rig", false, "Also print the cost summary per rig")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Enable debug logging")

	root.Flags().StringVar(&flags.projectsDir, "projects-dir", "", "Transcript root (default ~/.claude/projects)")
	root.Flags().StringVar(&flags.exportPath, "export", "", "Also write every built event to this JSONL file")

	root.AddCommand(
		newReplayCmd(flags),
		newPriceCmd(),
	)

	root.Version = Version
	root.SetVersionTemplate(fmt.Sprintf("gasometer-backfill %s\n", Version))

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		newPrinter(root.ErrOrStderr()).Error(err.Error())
		return 1
	}
	return 0
}
