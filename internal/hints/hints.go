// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-drawio-export/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the target OS consulted by HasDisplay. Tests override it.
var GOOS = runtime.GOOS

// InCI reports whether a well-known CI environment variable is set.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// HasDisplay reports whether a graphical display is reachable.
// Only Linux and the BSDs need an X11 or Wayland server; draw.io is an
// Electron app and will not start without one.
func HasDisplay() bool {
	switch GOOS {
	case "darwin", "windows":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// ForRendererNotFound returns hints for a renderer that cannot be started.
func ForRendererNotFound() string {
	hints := []string{"install draw.io desktop (https://github.com/jgraph/drawio-desktop/releases)"}
	if os.Getenv("DRAWIO_EXPORT_RENDERER") == "" {
		hints = append(hints, "or point --renderer / DRAWIO_EXPORT_RENDERER at the executable")
	}
	return formatHints(hints)
}

// ForRenderFailure returns hints for pages whose renderer exited non-zero.
// Detects headless and container environments, where Electron needs help.
func ForRenderFailure() string {
	var hints []string

	if InCI() || IsInContainer() {
		hints = append(hints, "use --renderer-arg=--no-sandbox in Docker/CI")
	}
	if !HasDisplay() {
		hints = append(hints, "no display found; run under xvfb-run")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow pages.
func ForTimeout() string {
	return format("for large diagrams, raise --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "drawio-export") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForFormat returns a hint listing valid export formats.
func ForFormat(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
