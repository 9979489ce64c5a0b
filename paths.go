package drawioexport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-drawio-export/internal/fileutil"
)

// nameSeparator joins the base name and the page name in output file names.
const nameSeparator = " - "

// NormalizeDirectory returns dir as an absolute path ending with exactly one
// separator. An empty dir means the current working directory.
func NormalizeDirectory(dir string) (string, error) {
	if dir == "" {
		dir = DefaultOutputDirectory
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %v", ErrDirectoryCreate, dir, err)
	}
	return fileutil.WithTrailingSeparator(abs), nil
}

// ResolveOutputPath returns "{OutputDirectory}{BaseName} - {page.Name}.{ext}".
// The page name is used verbatim: a name containing separators may point
// outside OutputDirectory.
func ResolveOutputPath(cfg ExportConfig, page Page) string {
	return cfg.OutputDirectory + fileName(cfg, page.Name, 0)
}

// fileName builds the output file name; n > 1 adds a " (n)" suffix.
func fileName(cfg ExportConfig, pageName string, n int) string {
	var b strings.Builder
	b.WriteString(cfg.BaseName)
	b.WriteString(nameSeparator)
	b.WriteString(pageName)
	if n > 1 {
		fmt.Fprintf(&b, " (%d)", n)
	}
	b.WriteByte('.')
	b.WriteString(cfg.FileExtension())
	return b.String()
}

// PlannedOutput is the destination chosen for one page.
type PlannedOutput struct {
	Page       Page
	OutputPath string

	// OverwritesIndex is the index of the earlier page sharing OutputPath,
	// or -1. Only set under CollisionOverwrite.
	OverwritesIndex int
}

// PlanOutputs assigns an output path to every page according to
// cfg.OnCollision. Under CollisionError any duplicate fails the whole plan
// with ErrOutputCollision.
func PlanOutputs(cfg ExportConfig, pages []Page) ([]PlannedOutput, error) {
	plan := make([]PlannedOutput, 0, len(pages))
	owner := make(map[string]int, len(pages)) // output path -> page index
	var collisions []string

	for _, page := range pages {
		path := ResolveOutputPath(cfg, page)
		out := PlannedOutput{Page: page, OutputPath: path, OverwritesIndex: -1}

		if prev, taken := owner[path]; taken {
			switch cfg.OnCollision {
			case CollisionSuffix:
				out.OutputPath = nextFreePath(cfg, page.Name, owner)
			case CollisionError:
				collisions = append(collisions, fmt.Sprintf("pages %d and %d both write %q", prev+1, page.Index+1, path))
			default:
				out.OverwritesIndex = prev
			}
		}

		owner[out.OutputPath] = page.Index
		plan = append(plan, out)
	}

	if len(collisions) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutputCollision, strings.Join(collisions, "; "))
	}
	return plan, nil
}

// nextFreePath returns the first " (n)" variant, n >= 2, not yet owned.
func nextFreePath(cfg ExportConfig, pageName string, owner map[string]int) string {
	for n := 2; ; n++ {
		candidate := cfg.OutputDirectory + fileName(cfg, pageName, n)
		if _, taken := owner[candidate]; !taken {
			return candidate
		}
	}
}

// EnsureDirectory creates cfg.OutputDirectory, and any parents, if needed.
// Calling it again once the directory exists is a no-op.
func EnsureDirectory(cfg ExportConfig) error {
	dir := cfg.OutputDirectory
	if dir == "" {
		return fmt.Errorf("%w: output directory not resolved", ErrDirectoryCreate)
	}

	if fileutil.DirExists(dir) {
		return nil
	}
	if fileutil.FileExists(dir) {
		return fmt.Errorf("%w: %s exists and is not a directory", ErrDirectoryCreate, dir)
	}

	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryCreate, err)
	}
	return nil
}
