// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// DirPermissions is used for every directory the tool creates.
const DirPermissions = 0o750 // rwxr-x---

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "work" -> false (name)
//   - "./work.yaml" -> true (relative path)
//   - "/etc/drawio-export/work.yaml" -> true (absolute)
//   - "C:\config\work.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// WithTrailingSeparator returns dir terminated by exactly one OS separator.
// The root directory becomes a single separator. Only characters that are
// separators on this OS are trimmed; a trailing backslash is part of a
// Unix file name.
func WithTrailingSeparator(dir string) string {
	return strings.TrimRight(dir, separators) + string(filepath.Separator)
}

// separators lists the path separators of the current OS.
var separators = func() string {
	if filepath.Separator == '/' {
		return "/"
	}
	return string(filepath.Separator) + "/"
}()

// IsWritableDir reports whether a file can be created in dir.
func IsWritableDir(dir string) bool {
	f, err := os.CreateTemp(dir, ".drawio-export-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
