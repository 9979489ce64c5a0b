package main

import (
	"fmt"
	"strings"

	drawioexport "github.com/alnah/go-drawio-export"
	"github.com/alnah/go-drawio-export/internal/hints"
)

// diagnosticIndent prefixes each line of renderer output under a FAILED line.
const diagnosticIndent = "    "

// consoleReporter prints batch progress to the environment's writers.
// Failures always go to Stderr; everything else is silenced by quiet.
type consoleReporter struct {
	env      *Environment
	quiet    bool
	verbose  bool
	renderer *drawioexport.Renderer
	cfg      drawioexport.ExportConfig

	timedOut bool
}

// Compile-time interface implementation check.
var _ drawioexport.Reporter = (*consoleReporter)(nil)

func newConsoleReporter(env *Environment, quiet, verbose bool, r *drawioexport.Renderer, cfg drawioexport.ExportConfig) *consoleReporter {
	return &consoleReporter{env: env, quiet: quiet, verbose: verbose, renderer: r, cfg: cfg}
}

// PageStarted prints the renderer command line in verbose mode.
func (c *consoleReporter) PageStarted(page drawioexport.Page, outputPath string) {
	if !c.verbose || c.quiet {
		return
	}
	args := c.renderer.BuildArgs(c.cfg, page, outputPath)
	fmt.Fprintf(c.env.Stderr, "page %d %q: %s %s\n", page.Index+1, page.Name, c.renderer.Executable(), quoteArgs(args))
}

// PageFinished prints one line per page.
func (c *consoleReporter) PageFinished(r drawioexport.ExportResult) {
	if !r.Succeeded {
		fmt.Fprintf(c.env.Stderr, "FAILED page %d %q (exit %d)\n", r.Page.Index+1, r.Page.Name, r.ExitCode)
		for _, line := range strings.Split(r.DiagnosticOutput, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintln(c.env.Stderr, diagnosticIndent+line)
			}
		}
		if strings.Contains(r.DiagnosticOutput, "timed out") {
			c.timedOut = true
		}
		return
	}

	if c.quiet {
		return
	}
	if r.OverwroteIndex >= 0 {
		fmt.Fprintf(c.env.Stderr, "warning: page %d %q overwrote the output of page %d (use --on-collision suffix)\n",
			r.Page.Index+1, r.Page.Name, r.OverwroteIndex+1)
	}
	if c.verbose {
		fmt.Fprintf(c.env.Stdout, "Exported %s (%s)\n", r.OutputPath, formatDuration(r.Duration))
	} else {
		fmt.Fprintf(c.env.Stdout, "Exported %s\n", r.OutputPath)
	}
}

// Summary prints the totals and hints for failed pages.
func (c *consoleReporter) Summary(batch *drawioexport.BatchResult) {
	failed := batch.Failed()

	if failed > 0 {
		hint := hints.ForRenderFailure()
		if c.timedOut {
			hint += hints.ForTimeout()
		}
		if hint != "" {
			fmt.Fprintln(c.env.Stderr, strings.TrimPrefix(hint, "\n"))
		}
	}

	if c.quiet {
		return
	}
	if len(batch.Results) == 0 {
		fmt.Fprintf(c.env.Stdout, "No pages found in %s\n", c.cfg.InputPath)
		return
	}
	fmt.Fprintf(c.env.Stdout, "\n%d exported, %d failed\n", batch.Succeeded(), failed)
}

// quoteArgs joins args for display, quoting those containing spaces.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			quoted[i] = fmt.Sprintf("%q", a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
