package drawioexport

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by NewExportConfig.
const (
	DefaultFormat          = "PNG"
	DefaultScale           = 1.0
	DefaultOutputDirectory = "."
)

// Page is one exportable unit of a document.
// Index is the 0-based position in document order; Name is the display
// label, verbatim, and is neither unique nor path-safe.
type Page struct {
	Index int
	Name  string
	ID    string
}

// Document is a parsed diagram file.
type Document struct {
	Path  string
	Pages []Page
}

// ExtensionPolicy decides the output file extension.
type ExtensionPolicy string

// Extension policies.
const (
	// ExtensionFixed always writes ".png", whatever the format.
	ExtensionFixed ExtensionPolicy = "fixed"
	// ExtensionFromFormat derives the extension from the export format.
	ExtensionFromFormat ExtensionPolicy = "format"
)

// CollisionPolicy decides what happens when two pages map to the same path.
type CollisionPolicy string

// Collision policies.
const (
	// CollisionOverwrite lets the later page overwrite the earlier output.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionSuffix appends " (2)", " (3)", ... to later duplicates.
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionError refuses to export a document with duplicate outputs.
	CollisionError CollisionPolicy = "error"
)

// CollisionPolicies lists valid collision policies, in display order.
var CollisionPolicies = []CollisionPolicy{CollisionOverwrite, CollisionSuffix, CollisionError}

// Options holds raw, unvalidated export settings.
// Zero values select defaults.
type Options struct {
	InputPath       string
	BaseName        string
	OutputDirectory string
	Format          string
	Scale           float64
	Transparent     bool
	Extension       ExtensionPolicy
	OnCollision     CollisionPolicy
}

// ExportConfig holds resolved run-wide settings.
// Build it with NewExportConfig and pass it by value; it is never modified
// after construction.
type ExportConfig struct {
	InputPath       string // absolute
	BaseName        string
	OutputDirectory string // absolute, ends with exactly one separator
	Format          string
	Scale           float64
	Transparent     bool
	Extension       ExtensionPolicy
	OnCollision     CollisionPolicy
}

// NewExportConfig validates opts, applies defaults and normalizes paths.
// Relative paths resolve against the current working directory.
func NewExportConfig(opts Options) (ExportConfig, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return ExportConfig{}, ErrEmptyInputPath
	}

	inputPath, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return ExportConfig{}, fmt.Errorf("resolving input path: %w", err)
	}

	cfg := ExportConfig{
		InputPath:   inputPath,
		BaseName:    opts.BaseName,
		Format:      opts.Format,
		Scale:       opts.Scale,
		Transparent: opts.Transparent,
		Extension:   opts.Extension,
		OnCollision: opts.OnCollision,
	}

	if cfg.BaseName == "" {
		cfg.BaseName = stem(inputPath)
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Extension == "" {
		cfg.Extension = ExtensionFixed
	}
	if cfg.OnCollision == "" {
		cfg.OnCollision = CollisionOverwrite
	}

	cfg.OutputDirectory, err = NormalizeDirectory(opts.OutputDirectory)
	if err != nil {
		return ExportConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return ExportConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the config is usable.
// Does not touch the file system.
func (c ExportConfig) Validate() error {
	if c.InputPath == "" {
		return ErrEmptyInputPath
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 1) {
		return fmt.Errorf("%w: %v (must be a positive number)", ErrInvalidScale, c.Scale)
	}
	if !IsValidFormat(c.Format) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrInvalidFormat, c.Format, strings.Join(SupportedFormats, ", "))
	}
	switch c.Extension {
	case ExtensionFixed, ExtensionFromFormat:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExtensionPolicy, c.Extension)
	}
	if _, err := ParseCollisionPolicy(string(c.OnCollision)); err != nil {
		return err
	}
	return nil
}

// ParseCollisionPolicy parses a policy name, case-insensitively.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CollisionPolicies {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be overwrite, suffix, or error)", ErrInvalidCollisionPolicy, s)
}

// ExportResult is the outcome of rendering one page.
type ExportResult struct {
	Page             Page
	OutputPath       string
	Succeeded        bool
	ExitCode         int
	DiagnosticOutput string
	Duration         time.Duration

	// OverwroteIndex is the index of an earlier page whose output this page
	// replaced, or -1.
	OverwroteIndex int
}

// BatchResult holds one ExportResult per attempted page, in page order.
type BatchResult struct {
	Document *Document
	Results  []ExportResult
}

// Succeeded returns the number of pages exported successfully.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of pages whose render failed.
func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// Failures returns the failed results, in page order.
func (b *BatchResult) Failures() []ExportResult {
	var out []ExportResult
	for _, r := range b.Results {
		if !r.Succeeded {
			out = append(out, r)
		}
	}
	return out
}

// stem returns the file name of path without its extension.
// A dot file such as ".drawio" is its own stem.
func stem(path string) string {
	base := filepath.Base(path)
	if s := strings.TrimSuffix(base, filepath.Ext(base)); s != "" {
		return s
	}
	return base
}
