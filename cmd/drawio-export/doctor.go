package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	drawioexport "github.com/alnah/go-drawio-export"
	"github.com/alnah/go-drawio-export/internal/config"
	"github.com/alnah/go-drawio-export/internal/fileutil"
	"github.com/alnah/go-drawio-export/internal/hints"
)

// versionProbeTimeout bounds "drawio --version"; Electron can hang without a display.
const versionProbeTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Renderer rendererInfo `json:"renderer"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds draw.io detection results.
type rendererInfo struct {
	Found   bool   `json:"found"`
	Name    string `json:"name"`
	Source  string `json:"source"` // "config", "DRAWIO_EXPORT_RENDERER", "default"
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Display       bool   `json:"display"`
	RendererEnv   string `json:"drawio_export_renderer"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var jsonOutput, help bool
	var configName string

	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.BoolVarP(&help, "help", "h", false, "show usage")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(env.Stderr, "%v: doctor: %v\n", ErrUsage, err)
		return ExitUsage
	}
	if help {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(env.Stderr, "%v: doctor: unexpected argument %q\n", ErrUsage, fs.Arg(0))
		return ExitUsage
	}

	result := runDoctor(ctx, env, configName)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks. The renderer is resolved the
// way export resolves it: config file, then environment, then default.
func runDoctor(ctx context.Context, env *Environment, configName string) *doctorResult {
	envCfg := loadEnvConfig()
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:          runtime.GOOS,
			Arch:        runtime.GOARCH,
			RendererEnv: envCfg.Renderer,
		},
	}

	cfg, err := loadConfig(configName, envCfg.ConfigPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		cfg = config.DefaultConfig()
	}
	if err := applyEnvConfig(envCfg, cfg); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Environment: %v", err))
	}

	source := "default"
	switch {
	case envCfg.Renderer != "":
		source = "DRAWIO_EXPORT_RENDERER"
	case cfg.Renderer.Path != "":
		source = "config"
	}

	checkRenderer(ctx, result, env, cfg.Renderer, source)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkRenderer locates the draw.io executable and asks for its version,
// passing the configured extra arguments first as an export would.
func checkRenderer(ctx context.Context, result *doctorResult, env *Environment, rc config.RendererConfig, source string) {
	name := rc.Path
	if name == "" {
		name = drawioexport.DefaultRendererPath
	}
	result.Renderer.Name = name
	result.Renderer.Source = source

	path, err := env.LookPath(name)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("draw.io renderer %q not found. Install draw.io desktop or set renderer.path / DRAWIO_EXPORT_RENDERER", name))
		return
	}
	result.Renderer.Found = true
	result.Renderer.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	probeArgs := append(slices.Clone(rc.Args), "--version")
	out, err := env.Runner.Run(probeCtx, path, probeArgs...)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get draw.io version: %v", err))
	case out.ExitCode != 0:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("draw.io --version exited with code %d", out.ExitCode))
	default:
		result.Renderer.Version = firstLine(out.Stdout)
	}
}

// checkEnvironment detects container, CI and display availability.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI() || os.Getenv("CIRCLECI") != ""
	result.Env.Display = hints.HasDisplay()

	if result.Env.Container || result.Env.CI {
		result.Warnings = append(result.Warnings,
			"Container/CI detected. draw.io usually needs --renderer-arg=--no-sandbox")
	}
	if !result.Env.Display {
		result.Warnings = append(result.Warnings,
			"No display found (DISPLAY, WAYLAND_DISPLAY). Run under xvfb-run")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("DRAWIO_EXPORT_CONTAINER") == "1" {
		return true, "DRAWIO_EXPORT_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable; draw.io writes its
// profile and intermediate files there.
func checkSystem(result *doctorResult) {
	result.System.TempDir = os.TempDir()
	if fileutil.IsWritableDir(result.System.TempDir) {
		result.System.TempWritable = true
		return
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("Temp directory not writable: %s", result.System.TempDir))
}

// firstLine returns the first non-empty trimmed line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "drawio-export doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderer")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Renderer.Path, r.Renderer.Source)
		if r.Renderer.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Renderer.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Renderer.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.Display {
		fmt.Fprintln(w, "  [OK] Display: available")
	} else {
		fmt.Fprintln(w, "  [WARN] Display: none")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to export")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
