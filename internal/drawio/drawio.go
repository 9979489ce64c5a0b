// Package drawio reads the page list of a draw.io document.
//
// A draw.io file is an XML document whose root (normally <mxfile>) holds one
// <diagram> element per page. Only page identity is read; diagram content,
// compressed or not, is never decoded.
package drawio

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// pageElement is the local name of a page entry under the root element.
const pageElement = "diagram"

// Sentinel errors for document parsing.
var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrNoRoot        = errors.New("document has no root element")
)

// Page is one <diagram> entry, in document order.
type Page struct {
	Index int
	Name  string
	ID    string
}

// Parse decodes r and returns the direct <diagram> children of the root
// element. The whole input is consumed so malformed trailing markup is
// reported too. Documents declaring a non-UTF-8 encoding are transcoded;
// UTF-16 input is recognised by its byte order mark.
func Parse(r io.Reader) ([]Page, error) {
	src, fromUTF16 := decodeBOM(bufio.NewReader(r))

	dec := xml.NewDecoder(src)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if fromUTF16 && isUTF16Label(label) {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}

	pages := []Page{}
	depth := 0
	sawToken := false
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}
		sawToken = true

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if sawRoot {
					return nil, fmt.Errorf("parsing XML: multiple root elements (found <%s>)", t.Name.Local)
				}
				sawRoot = true
			}
			if depth == 2 && t.Name.Local == pageElement {
				pages = append(pages, Page{
					Index: len(pages),
					Name:  attr(t, "name"),
					ID:    attr(t, "id"),
				})
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawToken {
		return nil, ErrEmptyDocument
	}
	if !sawRoot {
		return nil, ErrNoRoot
	}
	return pages, nil
}

// attr returns the value of the unqualified attribute name, or "".
func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// decodeBOM strips a UTF-8 byte order mark and converts input starting with
// a UTF-16 one to UTF-8. encoding/xml cannot read the declaration of a UTF-16
// file on its own. The second result reports a UTF-16 conversion.
func decodeBOM(br *bufio.Reader) (io.Reader, bool) {
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
		return br, false
	}
	bom, err := br.Peek(2)
	if err != nil {
		return br, false
	}
	if (bom[0] == 0xFE && bom[1] == 0xFF) || (bom[0] == 0xFF && bom[1] == 0xFE) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		return transform.NewReader(br, dec), true
	}
	return br, false
}

// isUTF16Label reports whether an encoding declaration names UTF-16.
func isUTF16Label(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	return strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf16")
}
