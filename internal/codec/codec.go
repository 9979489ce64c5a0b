// Package codec decodes configuration files, isolating the YAML and TOML
// libraries from callers. Both decoders are strict: unknown keys fail.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// MaxInputSize limits decoded input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData           = errors.New("codec: nil or empty data")
	ErrNilDestination    = errors.New("codec: nil destination pointer")
	ErrInputTooLarge     = errors.New("codec: input exceeds maximum size")
	ErrUnknownKeys       = errors.New("codec: unknown keys")
	ErrUnsupportedFormat = errors.New("codec: unsupported file format")
)

// Format identifies a configuration file syntax.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Extensions lists recognized file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".toml"}

// FormatFor returns the format implied by the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q (want .yaml, .yml or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Decode decodes data in format f into v.
func Decode(f Format, data []byte, v any) error {
	switch f {
	case YAML:
		return DecodeYAML(data, v)
	case TOML:
		return DecodeTOML(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// DecodeYAML decodes YAML, rejecting unknown fields.
func DecodeYAML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	return nil
}

// DecodeTOML decodes TOML, rejecting keys that do not map to a field of v.
func DecodeTOML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return nil
}
