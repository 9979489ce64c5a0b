package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	drawioexport "github.com/alnah/go-drawio-export"
	"github.com/alnah/go-drawio-export/internal/config"
	"github.com/alnah/go-drawio-export/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input file specified")
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrPartialFailure = errors.New("some pages failed to export")
)

// exportJob is a fully resolved export: what to render and how to report it.
type exportJob struct {
	cfg      drawioexport.ExportConfig
	renderer *drawioexport.Renderer
	reporter *consoleReporter
	strict   bool
}

// runExport parses export flags and runs one batch.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	if flags.common.help {
		printExportUsage(env.Stdout)
		return nil
	}

	job, err := prepareExport(flags, positional, env)
	if err != nil {
		return err
	}
	return job.run(ctx)
}

// prepareExport resolves flags, environment and config file into a job.
func prepareExport(flags *exportFlags, positional []string, env *Environment) (*exportJob, error) {
	input, err := resolveInputPath(positional)
	if err != nil {
		if errors.Is(err, ErrNoInput) {
			printExportUsage(env.Stderr)
		}
		return nil, err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := applyEnvConfig(envCfg, cfg); err != nil {
		return nil, err
	}
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exportCfg, err := buildExportConfig(input, cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := buildRenderer(cfg, env)
	if err != nil {
		return nil, err
	}

	job := &exportJob{
		cfg:      exportCfg,
		renderer: renderer,
		reporter: newConsoleReporter(env, flags.common.quiet, flags.common.verbose, renderer, exportCfg),
		strict:   flags.strict,
	}

	if exportCfg.ExtensionMismatch() && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "warning: format %s is written with a .png extension; use --format-extension to name files .%s\n",
			exportCfg.Format, drawioexport.FormatExtension(exportCfg.Format))
	}
	return job, nil
}

// run exports every page once and reports the outcome.
func (j *exportJob) run(ctx context.Context) error {
	exp := drawioexport.NewExporter(
		drawioexport.WithRenderer(j.renderer),
		drawioexport.WithReporter(j.reporter),
	)

	batch, err := exp.Run(ctx, j.cfg)
	if batch != nil {
		j.reporter.Summary(batch)
	}
	if err != nil {
		return withHint(err)
	}

	if j.strict && batch.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrPartialFailure, batch.Failed(), len(batch.Results))
	}
	return nil
}

// resolveInputPath returns the single positional input file.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		if strings.TrimSpace(args[0]) == "" {
			return "", ErrNoInput
		}
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input file, got %d: %s", ErrUsage, len(args), strings.Join(args, " "))
	}
}

// loadConfig loads the config named by the flag, falling back to the
// environment. No name means defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searchedPaths(err)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// searchedPaths extracts the "tried a, b" list from a not-found error.
func searchedPaths(err error) []string {
	msg := err.Error()
	i := strings.Index(msg, "tried ")
	if i < 0 {
		return nil
	}
	return strings.Split(msg[i+len("tried "):], ", ")
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// An explicit --scale must be positive; zero in the config means "unset".
func mergeFlags(flags *exportFlags, cfg *config.Config) error {
	if flags.changed["renderer"] {
		cfg.Renderer.Path = flags.renderer.path
	}
	if flags.changed["renderer-arg"] {
		cfg.Renderer.Args = flags.renderer.args
	}
	if flags.changed["timeout"] {
		cfg.Renderer.Timeout = flags.renderer.timeout.String()
	}

	o := &cfg.Output
	if flags.changed["output-directory"] {
		o.Directory = flags.output.directory
	}
	if flags.changed["basename"] {
		o.BaseName = flags.output.basename
	}
	if flags.changed["format"] {
		o.Format = flags.output.format
	}
	if flags.changed["scale"] {
		if !validScale(flags.output.scale) {
			return fmt.Errorf("%w: --scale %v (must be a positive number)", drawioexport.ErrInvalidScale, flags.output.scale)
		}
		o.Scale = flags.output.scale
	}
	if flags.changed["transparent"] {
		o.Transparent = flags.output.transparent
	}
	if flags.changed["format-extension"] {
		o.FormatExtension = flags.output.formatExtension
	}
	if flags.changed["on-collision"] {
		o.OnCollision = flags.output.onCollision
	}
	return nil
}

// validScale reports whether s is a finite scale factor greater than zero.
func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 1)
}

// buildExportConfig turns the merged config into a validated ExportConfig.
func buildExportConfig(input string, cfg *config.Config) (drawioexport.ExportConfig, error) {
	opts := drawioexport.Options{
		InputPath:       input,
		BaseName:        cfg.Output.BaseName,
		OutputDirectory: cfg.Output.Directory,
		Format:          cfg.Output.Format,
		Scale:           cfg.Output.Scale,
		Transparent:     cfg.Output.Transparent,
		Extension:       drawioexport.ExtensionFixed,
	}
	if cfg.Output.FormatExtension {
		opts.Extension = drawioexport.ExtensionFromFormat
	}
	if cfg.Output.OnCollision != "" {
		policy, err := drawioexport.ParseCollisionPolicy(cfg.Output.OnCollision)
		if err != nil {
			return drawioexport.ExportConfig{}, err
		}
		opts.OnCollision = policy
	}

	exportCfg, err := drawioexport.NewExportConfig(opts)
	if err != nil {
		if errors.Is(err, drawioexport.ErrInvalidFormat) {
			return drawioexport.ExportConfig{}, fmt.Errorf("%w%s", err, hints.ForFormat(drawioexport.SupportedFormats))
		}
		return drawioexport.ExportConfig{}, err
	}
	return exportCfg, nil
}

// buildRenderer creates the renderer from the merged config.
func buildRenderer(cfg *config.Config, env *Environment) (*drawioexport.Renderer, error) {
	timeout, err := cfg.Renderer.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	r := drawioexport.NewRenderer(cfg.Renderer.Path, cfg.Renderer.Args...)
	r.Timeout = timeout
	if env.Runner != nil {
		r.Runner = env.Runner
	}
	return r, nil
}

// withHint appends an actionable hint to fatal export errors.
func withHint(err error) error {
	switch {
	case errors.Is(err, drawioexport.ErrRendererInvocation):
		return fmt.Errorf("%w%s", err, hints.ForRendererNotFound())
	case errors.Is(err, drawioexport.ErrDirectoryCreate):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	default:
		return err
	}
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
