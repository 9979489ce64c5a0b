package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export [command] [flags] <file.drawio>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export every page of a draw.io document to its own image.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export all pages (default when a file is given)")
	fmt.Fprintln(w, "  watch      Export, then re-export whenever the file changes")
	fmt.Fprintln(w, "  doctor     Check that draw.io can be run")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'drawio-export help <command>' for details on a specific command.")
}

// printExportFlags prints the flags shared by export and watch.
func printExportFlags(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -b, --basename <s>          Output base name (default: input file stem)")
	fmt.Fprintln(w, "  -d, --output-directory <p>  Output directory (default: current directory)")
	fmt.Fprintln(w, "  -f, --format <s>            Format: png, jpg, svg, pdf, vsdx, xml (default: PNG)")
	fmt.Fprintln(w, "  -s, --scale <f>             Scale factor (default: 1)")
	fmt.Fprintln(w, "  -t, --transparent           Transparent background")
	fmt.Fprintln(w, "      --format-extension      Use the format as file extension instead of .png")
	fmt.Fprintln(w, "      --on-collision <s>      Duplicate page names: overwrite, suffix, error")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "      --renderer <path>       draw.io executable (default: drawio on PATH)")
	fmt.Fprintln(w, "      --renderer-arg <s>      Extra renderer argument, repeatable (e.g. --no-sandbox)")
	fmt.Fprintln(w, "      --timeout <d>           Per-page timeout, e.g. 2m (default: none)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Control:")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path (.yaml, .yml, .toml)")
	fmt.Fprintln(w, "      --strict                Exit with code 3 when any page fails")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show renderer commands and timing")
	fmt.Fprintln(w, "  -h, --help                  Show this help")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export [export] <file.drawio> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export each page to \"{dir}/{basename} - {page name}.png\".")
	fmt.Fprintln(w)
	printExportFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DRAWIO_EXPORT_CONFIG, DRAWIO_EXPORT_RENDERER, DRAWIO_EXPORT_OUTPUT_DIR,")
	fmt.Fprintln(w, "  DRAWIO_EXPORT_FORMAT, DRAWIO_EXPORT_SCALE, DRAWIO_EXPORT_TIMEOUT,")
	fmt.Fprintln(w, "  DRAWIO_EXPORT_ON_COLLISION")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  done (failed pages are reported but do not change the code)")
	fmt.Fprintln(w, "  1  fatal error: input, config, document, directory or renderer")
	fmt.Fprintln(w, "  2  invalid flags")
	fmt.Fprintln(w, "  3  some pages failed (--strict only)")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export watch <file.drawio> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export all pages, then export again each time the file is saved.")
	fmt.Fprintln(w, "Stops on Ctrl+C.")
	fmt.Fprintln(w)
	printExportFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>          Quiet period before re-exporting (default: 500ms)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export doctor [--json] [-c <config>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the renderer, display, container and temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                  Machine-readable output")
	fmt.Fprintln(w, "  -c, --config <name>         Check the renderer named in this config file")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: drawio-export version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: drawio-export help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
