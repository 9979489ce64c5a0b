package drawioexport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-drawio-export/internal/drawio"
)

// ReadDocument opens and parses the diagram file at path.
// Any failure wraps ErrDocumentParse.
func ReadDocument(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	f, err := os.Open(abs) // #nosec G304 -- user-provided input document
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := drawio.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentParse, abs, err)
	}

	pages := make([]Page, len(parsed))
	for i, p := range parsed {
		pages[i] = Page(p)
	}
	return &Document{Path: abs, Pages: pages}, nil
}
