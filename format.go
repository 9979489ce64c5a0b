package drawioexport

import "strings"

// fixedExtension is written when the extension policy is ExtensionFixed.
const fixedExtension = "png"

// SupportedFormats lists the export formats accepted by the draw.io CLI.
var SupportedFormats = []string{"png", "jpg", "jpeg", "svg", "pdf", "vsdx", "xml"}

// formatExtensions maps a lowercase format to its file extension.
var formatExtensions = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
	"svg":  "svg",
	"pdf":  "pdf",
	"vsdx": "vsdx",
	"xml":  "xml",
}

// IsValidFormat reports whether format is a known export format
// (case-insensitive).
func IsValidFormat(format string) bool {
	_, ok := formatExtensions[strings.ToLower(format)]
	return ok
}

// FormatExtension returns the extension for format, without the dot.
// Unknown formats fall back to their lowercase name.
func FormatExtension(format string) string {
	f := strings.ToLower(format)
	if ext, ok := formatExtensions[f]; ok {
		return ext
	}
	return f
}

// FileExtension returns the output file extension for c, without the dot.
func (c ExportConfig) FileExtension() string {
	if c.Extension == ExtensionFromFormat {
		return FormatExtension(c.Format)
	}
	return fixedExtension
}

// ExtensionMismatch reports whether the fixed ".png" extension will be
// written for a format that does not produce PNG data.
func (c ExportConfig) ExtensionMismatch() bool {
	return c.Extension == ExtensionFixed && FormatExtension(c.Format) != fixedExtension
}
