package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/gasometer/backfill/internal/backfill"
	"github.com/gasometer/backfill/internal/costcontrol"
	"github.com/gasometer/backfill/internal/utils"
)

// printer writes console report lines. ANSI colors are used only when w is a
// terminal so piped output stays plain.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = term.IsTerminal(int(f.Fd())) // #nosec G115 -- fd fits in int
	}
	return p
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func (p *printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Blank() {
	_, _ = fmt.Fprintln(p.w)
}

func (p *printer) Success(msg string) {
	p.Line("%s %s", p.paint("0;32", "[OK]"), msg)
}

func (p *printer) Warn(msg string) {
	p.Line("%s %s", p.paint("1;33", "[WARN]"), msg)
}

func (p *printer) Error(msg string) {
	p.Line("%s %s", p.paint("0;31", "[ERROR]"), msg)
}

// Summary prints the parse totals and the per-role (and optionally per-rig)
// cost breakdown.
func (p *printer) Summary(r *backfill.Report, byRig bool) {
	p.Line("Parsed %d sessions (%d skipped, no token data)", r.Sessions, r.Skipped)
	if r.ParseErrors > 0 {
		p.Warn(fmt.Sprintf("%d %s could not be read", r.ParseErrors, utils.Plural(r.ParseErrors, "transcript", "transcripts")))
	}
	p.Blank()
	p.Line("Total cost: %s", utils.FormatUSD(r.Total))
	p.breakdown(r.ByRole)

	if byRig {
		p.Blank()
		p.Line("By rig:")
		p.breakdownWithSessions(r.ByRig)
	}
}

func (p *printer) breakdown(rows []costcontrol.Breakdown) {
	for _, row := range rows {
		p.Line("  %s: %s", row.Name, utils.FormatUSD(row.Cost))
	}
}

func (p *printer) breakdownWithSessions(rows []costcontrol.Breakdown) {
	for _, row := range rows {
		p.Line("  %s: %s (%d %s)", row.Name, utils.FormatUSD(row.Cost), row.Sessions, utils.Plural(row.Sessions, "session", "sessions"))
	}
}

// Dispatched prints the final tally of a send.
func (p *printer) Dispatched(r *backfill.Report) {
	p.Blank()
	p.Line("Done: %d ok, %d failed", r.Dispatch.OK, r.Dispatch.Failed)
}
