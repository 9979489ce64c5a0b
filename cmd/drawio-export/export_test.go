package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	drawioexport "github.com/alnah/go-drawio-export"
	"github.com/alnah/go-drawio-export/internal/config"
)

// writeConfig writes a config file into dir and returns its path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestResolveInputPath - Positional argument handling
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "single", args: []string{"a.drawio"}, want: "a.drawio"},
		{name: "none", args: nil, wantErr: ErrNoInput},
		{name: "blank", args: []string{"  "}, wantErr: ErrNoInput},
		{name: "two", args: []string{"a.drawio", "b.drawio"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveInputPath(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveInputPath() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Only changed flags override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Renderer: config.RendererConfig{Path: "file-drawio", Args: []string{"--file"}, Timeout: "10s"},
		Output: config.OutputConfig{
			Directory:   "file-dir",
			BaseName:    "FromFile",
			Format:      "pdf",
			Scale:       3,
			Transparent: true,
			OnCollision: "suffix",
		},
	}

	flags, _, err := parseExportFlags([]string{
		"--transparent=false", "-f", "svg", "--renderer-arg", "--no-sandbox", "--timeout", "2m", "in.drawio",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := mergeFlags(flags, cfg); err != nil {
		t.Fatalf("mergeFlags() error = %v", err)
	}

	if cfg.Output.Transparent {
		t.Error("explicit --transparent=false should override config")
	}
	if cfg.Output.Format != "svg" {
		t.Errorf("Format = %q, want svg", cfg.Output.Format)
	}
	if !slices.Equal(cfg.Renderer.Args, []string{"--no-sandbox"}) {
		t.Errorf("Args = %q", cfg.Renderer.Args)
	}
	if d, err := cfg.Renderer.TimeoutDuration(); err != nil || d != 2*time.Minute {
		t.Errorf("Timeout = %q", cfg.Renderer.Timeout)
	}

	if cfg.Renderer.Path != "file-drawio" || cfg.Output.Directory != "file-dir" || cfg.Output.BaseName != "FromFile" {
		t.Errorf("unchanged flags must keep config values: %+v", cfg)
	}
	if cfg.Output.Scale != 3 || cfg.Output.OnCollision != "suffix" {
		t.Errorf("unchanged flags must keep config values: %+v", cfg.Output)
	}
}

func TestMergeFlags_RejectsNonPositiveScale(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"0", "-0.5", "+Inf"} {
		flags, _, err := parseExportFlags([]string{"-s", value, "in.drawio"})
		if err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{Output: config.OutputConfig{Scale: 2}}

		err = mergeFlags(flags, cfg)
		if !errors.Is(err, drawioexport.ErrInvalidScale) {
			t.Errorf("-s %s: error = %v, want ErrInvalidScale", value, err)
		}
		if cfg.Output.Scale != 2 {
			t.Errorf("-s %s: Scale = %v, want config value kept", value, cfg.Output.Scale)
		}
	}
}

// ---------------------------------------------------------------------------
// TestBuildExportConfig - Config to library options
// ---------------------------------------------------------------------------

func TestBuildExportConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "Diagrams.drawio")

	tests := []struct {
		name    string
		output  config.OutputConfig
		check   func(t *testing.T, c drawioexport.ExportConfig)
		wantErr error
	}{
		{
			name:   "defaults",
			output: config.OutputConfig{},
			check: func(t *testing.T, c drawioexport.ExportConfig) {
				if c.BaseName != "Diagrams" || c.Format != drawioexport.DefaultFormat || c.Scale != 1 {
					t.Errorf("config = %+v", c)
				}
				if c.Extension != drawioexport.ExtensionFixed || c.OnCollision != drawioexport.CollisionOverwrite {
					t.Errorf("policies = %q, %q", c.Extension, c.OnCollision)
				}
			},
		},
		{
			name:   "format extension and suffix",
			output: config.OutputConfig{Format: "svg", FormatExtension: true, OnCollision: "SUFFIX", Directory: dir},
			check: func(t *testing.T, c drawioexport.ExportConfig) {
				if c.Extension != drawioexport.ExtensionFromFormat || c.OnCollision != drawioexport.CollisionSuffix {
					t.Errorf("policies = %q, %q", c.Extension, c.OnCollision)
				}
				if c.FileExtension() != "svg" {
					t.Errorf("FileExtension() = %q", c.FileExtension())
				}
			},
		},
		{
			name:    "unknown format",
			output:  config.OutputConfig{Format: "bmp"},
			wantErr: drawioexport.ErrInvalidFormat,
		},
		{
			name:    "unknown collision policy",
			output:  config.OutputConfig{OnCollision: "rename"},
			wantErr: drawioexport.ErrInvalidCollisionPolicy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildExportConfig(input, &config.Config{Output: tt.output})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildExportConfig() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestBuildExportConfig_FormatHint(t *testing.T) {
	t.Parallel()

	_, err := buildExportConfig("in.drawio", &config.Config{Output: config.OutputConfig{Format: "gif"}})
	if err == nil || !strings.Contains(err.Error(), "hint: available: png, jpg") {
		t.Errorf("error = %v, want format list hint", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuildRenderer - Renderer settings
// ---------------------------------------------------------------------------

func TestBuildRenderer(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	env, _, _ := testEnv(runner)
	cfg := &config.Config{Renderer: config.RendererConfig{Path: "/opt/drawio", Args: []string{"--no-sandbox"}, Timeout: "30s"}}

	r, err := buildRenderer(cfg, env)
	if err != nil {
		t.Fatalf("buildRenderer() error = %v", err)
	}
	if r.Executable() != "/opt/drawio" || r.Timeout != 30*time.Second {
		t.Errorf("renderer = %+v", r)
	}
	if !slices.Equal(r.ExtraArgs, []string{"--no-sandbox"}) {
		t.Errorf("ExtraArgs = %q", r.ExtraArgs)
	}
	if r.Runner != runner {
		t.Error("renderer should use the environment runner")
	}
}

func TestBuildRenderer_BadTimeout(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(&fakeRunner{})
	_, err := buildRenderer(&config.Config{Renderer: config.RendererConfig{Timeout: "later"}}, env)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

// ---------------------------------------------------------------------------
// TestSearchedPaths / TestWithHint - Error decoration
// ---------------------------------------------------------------------------

func TestSearchedPaths(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: work (tried a/work.yaml, b/work.toml)", config.ErrConfigNotFound)
	got := searchedPaths(fmt.Errorf("wrapped: %w", err))
	if len(got) != 2 || got[0] != "a/work.yaml" {
		t.Errorf("searchedPaths() = %q", got)
	}

	if got := searchedPaths(errors.New("no list")); got != nil {
		t.Errorf("searchedPaths() = %q, want nil", got)
	}
}

func TestWithHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "renderer", err: drawioexport.ErrRendererInvocation, want: "hint: install draw.io"},
		{name: "directory", err: drawioexport.ErrDirectoryCreate, want: "hint: check parent directory"},
		{name: "other", err: drawioexport.ErrDocumentParse, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := withHint(tt.err)
			if !errors.Is(got, tt.err) {
				t.Errorf("withHint() lost the cause: %v", got)
			}
			if tt.want == "" {
				if got.Error() != tt.err.Error() {
					t.Errorf("withHint() = %q, want unchanged", got)
				}
				return
			}
			if !strings.Contains(got.Error(), tt.want) {
				t.Errorf("withHint() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExportJob_Strict - Partial failure exit
// ---------------------------------------------------------------------------

func TestExportJob_Strict(t *testing.T) {
	t.Parallel()

	input := writeDiagram(t, threePages)
	flags, positional, err := parseExportFlags([]string{input, "-d", filepath.Dir(input), "--strict", "-q"})
	if err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv(&fakeRunner{failPage: "1"})

	job, err := prepareExport(flags, positional, env)
	if err != nil {
		t.Fatal(err)
	}
	err = job.run(t.Context())
	if !errors.Is(err, ErrPartialFailure) {
		t.Fatalf("error = %v, want ErrPartialFailure", err)
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("error = %q, want count", err)
	}
}
