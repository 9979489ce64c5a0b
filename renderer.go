package drawioexport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultRendererPath is the draw.io desktop executable, looked up on PATH.
const DefaultRendererPath = "drawio"

// draw.io CLI flags, in the order they are emitted.
const (
	flagExport      = "-x"
	flagPageIndex   = "-p"
	flagOutput      = "-o"
	flagFormat      = "-f"
	flagScale       = "-s"
	flagTransparent = "-t"
)

// Renderer drives the external renderer for one page at a time.
type Renderer struct {
	// Path is the executable name or path. Empty means DefaultRendererPath.
	Path string
	// ExtraArgs are passed before the export arguments (e.g. "--no-sandbox").
	ExtraArgs []string
	// Timeout bounds a single page render. Zero means no timeout.
	Timeout time.Duration
	// Runner executes the process. Nil means ExecRunner.
	Runner CommandRunner
}

// NewRenderer creates a Renderer using the real command runner.
func NewRenderer(path string, extraArgs ...string) *Renderer {
	return &Renderer{Path: path, ExtraArgs: extraArgs, Runner: &ExecRunner{}}
}

// Executable returns the program that will be run.
func (r *Renderer) Executable() string {
	if r.Path == "" {
		return DefaultRendererPath
	}
	return r.Path
}

// BuildArgs returns the argument vector for rendering page to outputPath.
//
// The draw.io CLI numbers pages from 1, so the selector is page.Index+1.
// The source document is always the last argument.
func (r *Renderer) BuildArgs(cfg ExportConfig, page Page, outputPath string) []string {
	args := make([]string, 0, len(r.ExtraArgs)+12)
	args = append(args, r.ExtraArgs...)
	args = append(args,
		flagExport,
		flagPageIndex, strconv.Itoa(page.Index+1),
		flagOutput, outputPath,
		flagFormat, cfg.Format,
		flagScale, FormatScale(cfg.Scale),
	)
	if cfg.Transparent {
		args = append(args, flagTransparent)
	}
	return append(args, cfg.InputPath)
}

// Render exports page to outputPath and reports the outcome.
//
// A non-zero exit or a per-page timeout yields Succeeded=false and a nil
// error. The error is non-nil only when the renderer cannot be started
// (wrapping ErrRendererInvocation) or ctx itself ends.
func (r *Renderer) Render(ctx context.Context, cfg ExportConfig, page Page, outputPath string) (ExportResult, error) {
	result := ExportResult{
		Page:           page,
		OutputPath:     outputPath,
		OverwroteIndex: -1,
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runner := r.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	start := time.Now()
	out, err := runner.Run(runCtx, r.Executable(), r.BuildArgs(cfg, page, outputPath)...)
	result.Duration = time.Since(start)
	result.ExitCode = out.ExitCode
	result.DiagnosticOutput = joinOutput(out.Stdout, out.Stderr)

	switch {
	case err == nil:
		result.Succeeded = out.ExitCode == 0
		return result, nil
	case ctx.Err() != nil:
		return result, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		result.DiagnosticOutput = joinOutput(result.DiagnosticOutput,
			fmt.Sprintf("renderer timed out after %s", r.Timeout))
		return result, nil
	case errors.Is(err, ErrRendererInvocation):
		return result, err
	default:
		// Started but could not be waited on cleanly: a page failure.
		result.DiagnosticOutput = joinOutput(result.DiagnosticOutput, err.Error())
		return result, nil
	}
}

// FormatScale renders a scale factor without trailing zeros ("1", "1.5").
func FormatScale(scale float64) string {
	return strconv.FormatFloat(scale, 'f', -1, 64)
}

// joinOutput concatenates non-empty trimmed output blocks, one per line.
func joinOutput(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimRight(p, "\r\n"); strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
