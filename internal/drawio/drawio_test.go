package drawio

// Notes:
// - Parse never decodes <mxGraphModel> or compressed diagram payloads, so the
//   fixtures carry placeholder content only.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"
)

// ---------------------------------------------------------------------------
// TestParse - Page discovery
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Page
	}{
		{
			name: "two pages in document order",
			input: `<?xml version="1.0" encoding="UTF-8"?>
<mxfile host="app.diagrams.net">
  <diagram id="a1" name="Overview">eJzT0yMAAGTvBe8=</diagram>
  <diagram id="b2" name="Detail"><mxGraphModel/></diagram>
</mxfile>`,
			want: []Page{
				{Index: 0, Name: "Overview", ID: "a1"},
				{Index: 1, Name: "Detail", ID: "b2"},
			},
		},
		{
			name:  "no pages",
			input: `<mxfile></mxfile>`,
			want:  []Page{},
		},
		{
			name:  "missing name attribute yields empty name",
			input: `<mxfile><diagram id="x"/></mxfile>`,
			want:  []Page{{Index: 0, Name: "", ID: "x"}},
		},
		{
			name:  "duplicate names are kept",
			input: `<mxfile><diagram name="Same"/><diagram name="Same"/></mxfile>`,
			want:  []Page{{Index: 0, Name: "Same"}, {Index: 1, Name: "Same"}},
		},
		{
			name:  "path-unsafe names are verbatim",
			input: `<mxfile><diagram name="a/b &amp; &quot;c&quot;"/></mxfile>`,
			want:  []Page{{Index: 0, Name: `a/b & "c"`}},
		},
		{
			name:  "other root children are skipped and do not shift index",
			input: `<mxfile><meta/><diagram name="One"/><note/><diagram name="Two"/></mxfile>`,
			want:  []Page{{Index: 0, Name: "One"}, {Index: 1, Name: "Two"}},
		},
		{
			name:  "nested diagram elements are not pages",
			input: `<mxfile><diagram name="Top"><diagram name="Inner"/></diagram></mxfile>`,
			want:  []Page{{Index: 0, Name: "Top"}},
		},
		{
			name:  "ISO-8859-1 declaration is transcoded",
			input: "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><mxfile><diagram name=\"Caf\xe9\"/></mxfile>",
			want:  []Page{{Index: 0, Name: "Café"}},
		},
		{
			name:  "windows-1252 declaration is transcoded",
			input: "<?xml version=\"1.0\" encoding=\"windows-1252\"?><mxfile><diagram name=\"Cost \x80\"/></mxfile>",
			want:  []Page{{Index: 0, Name: "Cost €"}},
		},
		{
			name:  "US-ASCII declaration",
			input: `<?xml version="1.0" encoding="US-ASCII"?><mxfile><diagram name="Plain"/></mxfile>`,
			want:  []Page{{Index: 0, Name: "Plain"}},
		},
		{
			name:  "UTF-8 byte order mark",
			input: "\xef\xbb\xbf<?xml version=\"1.0\" encoding=\"UTF-8\"?><mxfile><diagram name=\"Ünï\"/></mxfile>",
			want:  []Page{{Index: 0, Name: "Ünï"}},
		},
		{
			name:  "root name is not checked",
			input: `<drawing><diagram name="P"/></drawing>`,
			want:  []Page{{Index: 0, Name: "P"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() returned %d pages, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("page[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse_IndexMatchesPosition - N pages -> indices 0..N-1
// ---------------------------------------------------------------------------

func TestParse_IndexMatchesPosition(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 3, 25} {
		var b strings.Builder
		b.WriteString("<mxfile>")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, `<diagram name="Page-%d"/>`, i+1)
		}
		b.WriteString("</mxfile>")

		pages, err := Parse(strings.NewReader(b.String()))
		if err != nil {
			t.Fatalf("n=%d: Parse() error = %v", n, err)
		}
		if len(pages) != n {
			t.Fatalf("n=%d: got %d pages", n, len(pages))
		}
		for i, p := range pages {
			if p.Index != i {
				t.Errorf("n=%d: pages[%d].Index = %d", n, i, p.Index)
			}
			if want := fmt.Sprintf("Page-%d", i+1); p.Name != want {
				t.Errorf("n=%d: pages[%d].Name = %q, want %q", n, i, p.Name, want)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestParse_Errors - Malformed input
// ---------------------------------------------------------------------------

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: ErrEmptyDocument},
		{name: "declaration only", input: `<?xml version="1.0"?>`, wantErr: ErrNoRoot},
		{name: "plain text", input: "this is not xml", wantErr: ErrNoRoot},
		{name: "unclosed root", input: `<mxfile><diagram name="A"/>`},
		{name: "mismatched tags", input: `<mxfile><diagram name="A"></mxfile>`},
		{name: "trailing garbage", input: `<mxfile></mxfile><`},
		{name: "two roots", input: `<mxfile/><mxfile/>`},
		{name: "unknown encoding", input: `<?xml version="1.0" encoding="x-no-such-charset"?><mxfile/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse_UTF16 - Byte order mark detection
// ---------------------------------------------------------------------------

// encodeUTF16 returns s as UTF-16 with a byte order mark.
func encodeUTF16(s string, order binary.ByteOrder) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, order, uint16(0xFEFF))
	for _, u := range utf16.Encode([]rune(s)) {
		_ = binary.Write(&buf, order, u)
	}
	return buf.Bytes()
}

func TestParse_UTF16(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="UTF-16"?><mxfile><diagram id="z" name="Überblick"/><diagram name="Détail"/></mxfile>`

	tests := []struct {
		name  string
		order binary.ByteOrder
	}{
		{name: "little endian", order: binary.LittleEndian},
		{name: "big endian", order: binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(bytes.NewReader(encodeUTF16(doc, tt.order)))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			want := []Page{{Index: 0, Name: "Überblick", ID: "z"}, {Index: 1, Name: "Détail"}}
			if len(got) != len(want) {
				t.Fatalf("Parse() = %+v, want %+v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("page[%d] = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestIsUTF16Label(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  bool
	}{
		{"UTF-16", true},
		{"utf-16le", true},
		{" UTF16 ", true},
		{"UTF-8", false},
		{"ISO-8859-1", false},
	}
	for _, tt := range tests {
		if got := isUTF16Label(tt.label); got != tt.want {
			t.Errorf("isUTF16Label(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}
