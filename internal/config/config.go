package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-drawio-export/internal/codec"
	"github.com/alnah/go-drawio-export/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// AppDir is the directory under the user config dir searched for named configs.
const AppDir = "drawio-export"

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxBaseNameLength = 255  // Single path component
	MaxFormatLength   = 10   // "png", "vsdx"
	MaxArgs           = 32   // Extra renderer arguments
)

// collisionPolicies mirrors the values accepted by the export package.
var collisionPolicies = []string{"overwrite", "suffix", "error"}

// Config holds defaults for an export run.
type Config struct {
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
}

// RendererConfig defines how the draw.io executable is run.
type RendererConfig struct {
	Path    string   `yaml:"path" toml:"path"`       // Executable (empty = "drawio" on PATH)
	Args    []string `yaml:"args" toml:"args"`       // Extra arguments before the export flags
	Timeout string   `yaml:"timeout" toml:"timeout"` // Per-page limit, Go duration (empty = none)
}

// OutputConfig defines where and how pages are written.
type OutputConfig struct {
	Directory       string  `yaml:"directory" toml:"directory"`             // Empty = current directory
	BaseName        string  `yaml:"basename" toml:"basename"`               // Empty = input file stem
	Format          string  `yaml:"format" toml:"format"`                   // Empty = PNG
	Scale           float64 `yaml:"scale" toml:"scale"`                     // 0 = 1
	Transparent     bool    `yaml:"transparent" toml:"transparent"`         // Transparent background
	FormatExtension bool    `yaml:"formatExtension" toml:"formatExtension"` // Derive extension from format
	OnCollision     string  `yaml:"onCollision" toml:"onCollision"`         // overwrite, suffix, error
}

// TimeoutDuration returns the parsed per-page timeout, 0 when unset.
func (r RendererConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(r.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(r.Timeout))
	if err != nil {
		return 0, fmt.Errorf("%w: renderer.timeout: %v", ErrInvalidConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: renderer.timeout must not be negative, got %s", ErrInvalidConfig, d)
	}
	return d, nil
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("renderer.path", c.Renderer.Path, MaxPathLength); err != nil {
		return err
	}
	if len(c.Renderer.Args) > MaxArgs {
		return fmt.Errorf("%w: renderer.args has %d entries (max %d)", ErrInvalidConfig, len(c.Renderer.Args), MaxArgs)
	}
	for i, arg := range c.Renderer.Args {
		if err := validateFieldLength(fmt.Sprintf("renderer.args[%d]", i), arg, MaxPathLength); err != nil {
			return err
		}
	}
	if _, err := c.Renderer.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("output.directory", c.Output.Directory, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.basename", c.Output.BaseName, MaxBaseNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.format", c.Output.Format, MaxFormatLength); err != nil {
		return err
	}
	if c.Output.Scale < 0 || math.IsNaN(c.Output.Scale) || math.IsInf(c.Output.Scale, 0) {
		return fmt.Errorf("%w: output.scale must be positive, got %v", ErrInvalidConfig, c.Output.Scale)
	}
	if p := strings.ToLower(strings.TrimSpace(c.Output.OnCollision)); p != "" && !contains(collisionPolicies, p) {
		return fmt.Errorf("%w: output.onCollision %q (want %s)", ErrInvalidConfig, c.Output.OnCollision, strings.Join(collisionPolicies, ", "))
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s: %d characters (max %d)", ErrInvalidConfig, fieldName, len(value), maxLength)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultConfig returns an empty configuration; zero values select the
// export defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or a known extension, it's treated
// as a file path. Otherwise, it's treated as a config name and searched in
// standard locations. Returns error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if strings.TrimSpace(nameOrPath) == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := codec.FormatFor(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := codec.Decode(format, data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	if fileutil.IsFilePath(s) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return contains(codec.Extensions, ext)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, <user config dir>/drawio-export/
func resolveConfigPath(name string) (string, error) {
	triedPaths := make([]string, 0, len(codec.Extensions)*2) // 2 locations

	for _, ext := range codec.Extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range codec.Extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
