package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-drawio-export/internal/watch"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	help    bool
}

// outputFlags holds flags that shape the exported files.
type outputFlags struct {
	basename        string
	directory       string
	format          string
	scale           float64
	transparent     bool
	formatExtension bool
	onCollision     string
}

// rendererFlags holds flags that control the draw.io process.
type rendererFlags struct {
	path    string
	args    []string
	timeout time.Duration
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common   commonFlags
	output   outputFlags
	renderer rendererFlags
	strict   bool

	// changed records flags given on the command line, so an explicit
	// "--transparent=false" can override a config file.
	changed map[string]bool
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	exportFlags
	debounce time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show renderer commands and timing")
	fs.BoolVarP(&f.help, "help", "h", false, "show usage")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.basename, "basename", "b", "", "output base name (default: input file stem)")
	fs.StringVarP(&f.directory, "output-directory", "d", "", "output directory (default: current directory)")
	fs.StringVarP(&f.format, "format", "f", "", "export format: png, jpg, svg, pdf, vsdx, xml")
	fs.Float64VarP(&f.scale, "scale", "s", 0, "scale factor (default: 1)")
	fs.BoolVarP(&f.transparent, "transparent", "t", false, "transparent background")
	fs.BoolVar(&f.formatExtension, "format-extension", false, "derive file extension from format instead of .png")
	fs.StringVar(&f.onCollision, "on-collision", "", "duplicate page names: overwrite, suffix, error")
}

// addRendererFlags adds renderer flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.path, "renderer", "", "draw.io executable (default: drawio on PATH)")
	fs.StringArrayVar(&f.args, "renderer-arg", nil, "extra renderer argument (repeatable)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-page timeout, e.g. 2m (0 = none)")
}

// newExportFlagSet builds the static flag schema shared by export and watch.
func newExportFlagSet(name string, f *exportFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	addOutputFlags(fs, &f.output)
	addRendererFlags(fs, &f.renderer)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.strict, "strict", false, "exit with code 3 when any page fails")
	return fs
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newExportFlagSet("export", f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newExportFlagSet("watch", &f.exportFlags)
	fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before re-exporting")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.debounce <= 0 {
		return nil, nil, fmt.Errorf("%w: --debounce must be positive, got %s", ErrUsage, f.debounce)
	}
	f.changed = changedFlags(fs)
	return f, fs.Args(), nil
}

// changedFlags returns the names of flags set on the command line.
func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { changed[fl.Name] = true })
	return changed
}
