package drawioexport

import (
	"context"
	"fmt"
	"time"
)

// Reporter receives progress as the batch runs.
// Calls happen on the goroutine running Exporter.Run, in page order.
type Reporter interface {
	// PageStarted is called once the output path is resolved, before the
	// renderer is invoked.
	PageStarted(page Page, outputPath string)
	// PageFinished is called after each renderer invocation.
	PageFinished(result ExportResult)
}

// nopReporter discards progress.
type nopReporter struct{}

func (nopReporter) PageStarted(Page, string)  {}
func (nopReporter) PageFinished(ExportResult) {}

// pageRenderer abstracts Renderer for tests.
type pageRenderer interface {
	Render(ctx context.Context, cfg ExportConfig, page Page, outputPath string) (ExportResult, error)
}

// Compile-time interface implementation check.
var _ pageRenderer = (*Renderer)(nil)

// Exporter exports every page of a document, one page at a time.
// Create with NewExporter; an Exporter holds no per-run state and can run
// several batches in sequence.
type Exporter struct {
	renderer pageRenderer
	reporter Reporter
	readDoc  func(path string) (*Document, error)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRenderer sets the renderer. Defaults to NewRenderer(DefaultRendererPath).
func WithRenderer(r *Renderer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(e *Exporter) {
		if r != nil {
			e.reporter = r
		}
	}
}

// NewExporter creates an Exporter with default configuration.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		renderer: NewRenderer(DefaultRendererPath),
		reporter: nopReporter{},
		readDoc:  ReadDocument,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run exports every page of cfg.InputPath in document order.
//
// The document is read, output paths are planned, and the output directory
// is created before any page is rendered; a failure in any of these steps is
// returned with a nil batch. Afterwards a page whose render fails is recorded
// and the batch continues. If the renderer cannot be started, or ctx ends,
// Run stops and returns the pages recorded so far along with the error.
func (e *Exporter) Run(ctx context.Context, cfg ExportConfig) (*BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := e.readDoc(cfg.InputPath)
	if err != nil {
		return nil, err
	}

	plan, err := PlanOutputs(cfg, doc.Pages)
	if err != nil {
		return nil, err
	}

	if err := EnsureDirectory(cfg); err != nil {
		return nil, err
	}

	batch := &BatchResult{
		Document: doc,
		Results:  make([]ExportResult, 0, len(plan)),
	}

	for _, out := range plan {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		e.reporter.PageStarted(out.Page, out.OutputPath)

		start := time.Now()
		result, err := e.renderer.Render(ctx, cfg, out.Page, out.OutputPath)
		if err != nil {
			return batch, fmt.Errorf("page %d %q: %w", out.Page.Index+1, out.Page.Name, err)
		}
		if result.Duration == 0 {
			result.Duration = time.Since(start)
		}
		result.OverwroteIndex = out.OverwritesIndex

		batch.Results = append(batch.Results, result)
		e.reporter.PageFinished(result)
	}

	return batch, nil
}
