package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-drawio-export/internal/config"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "DRAWIO_EXPORT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath  string // DRAWIO_EXPORT_CONFIG: config name or path
	Renderer    string // DRAWIO_EXPORT_RENDERER: draw.io executable
	OutputDir   string // DRAWIO_EXPORT_OUTPUT_DIR: output directory
	Format      string // DRAWIO_EXPORT_FORMAT: export format
	Scale       string // DRAWIO_EXPORT_SCALE: scale factor
	Timeout     string // DRAWIO_EXPORT_TIMEOUT: per-page timeout
	OnCollision string // DRAWIO_EXPORT_ON_COLLISION: collision policy
}

// knownEnvVars lists valid DRAWIO_EXPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DRAWIO_EXPORT_CONFIG":       true,
	"DRAWIO_EXPORT_RENDERER":     true,
	"DRAWIO_EXPORT_OUTPUT_DIR":   true,
	"DRAWIO_EXPORT_FORMAT":       true,
	"DRAWIO_EXPORT_SCALE":        true,
	"DRAWIO_EXPORT_TIMEOUT":      true,
	"DRAWIO_EXPORT_ON_COLLISION": true,
	"DRAWIO_EXPORT_CONTAINER":    true, // doctor: force container detection
}

// loadEnvConfig reads configuration from environment variables.
// Values are kept raw; applyEnvConfig validates them.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:  os.Getenv("DRAWIO_EXPORT_CONFIG"),
		Renderer:    os.Getenv("DRAWIO_EXPORT_RENDERER"),
		OutputDir:   os.Getenv("DRAWIO_EXPORT_OUTPUT_DIR"),
		Format:      os.Getenv("DRAWIO_EXPORT_FORMAT"),
		Scale:       os.Getenv("DRAWIO_EXPORT_SCALE"),
		Timeout:     os.Getenv("DRAWIO_EXPORT_TIMEOUT"),
		OnCollision: os.Getenv("DRAWIO_EXPORT_ON_COLLISION"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized DRAWIO_EXPORT_* variables.
// Helps catch typos like DRAWIO_EXPORT_OUTPUTDIR instead of DRAWIO_EXPORT_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				unknown = append(unknown, name)
			}
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// A set variable overrides the config file value.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	if env.Renderer != "" {
		cfg.Renderer.Path = env.Renderer
	}
	if env.Timeout != "" {
		cfg.Renderer.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.Directory = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.OnCollision != "" {
		cfg.Output.OnCollision = env.OnCollision
	}
	if env.Scale != "" {
		scale, err := strconv.ParseFloat(strings.TrimSpace(env.Scale), 64)
		if err != nil {
			return fmt.Errorf("%w: DRAWIO_EXPORT_SCALE=%q is not a number", config.ErrInvalidConfig, env.Scale)
		}
		if !validScale(scale) {
			return fmt.Errorf("%w: DRAWIO_EXPORT_SCALE=%q must be a positive number", config.ErrInvalidConfig, env.Scale)
		}
		cfg.Output.Scale = scale
	}
	return nil
}
