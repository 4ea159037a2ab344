// Package export renders layer analyses into portable text formats.
//
// Two formats are supported: CSV for spreadsheet and tooling import, and
// Markdown for human-readable reports. Both renderers are pure - identical
// input always produces byte-identical output - and both apply complete
// escaping so the artifacts survive downstream parsing: CSV fields use
// RFC 4180 quoting with embedded quotes doubled, and Markdown table cells
// escape pipes and collapse embedded newlines.
package export

import "strings"

// DefaultSampleLimit is the number of sample values rendered per attribute
// when no explicit limit is configured.
const DefaultSampleLimit = 10

// Media types for the rendered artifacts.
const (
	MediaTypeCSV      = "text/csv;charset=utf-8"
	MediaTypeMarkdown = "text/markdown;charset=utf-8"
)

// Option configures rendering via [CSV] or [Markdown].
type Option func(*renderer)

type renderer struct {
	sampleLimit int
	showAll     bool
}

// WithSampleLimit caps the number of sample values rendered per attribute.
// Zero or negative limits fall back to [DefaultSampleLimit].
func WithSampleLimit(n int) Option {
	return func(r *renderer) { r.sampleLimit = n }
}

// WithShowAll renders the full histogram instead of truncating at the
// sample limit. Only the Markdown renderer honors this.
func WithShowAll() Option {
	return func(r *renderer) { r.showAll = true }
}

func newRenderer(opts []Option) renderer {
	r := renderer{sampleLimit: DefaultSampleLimit}
	for _, opt := range opts {
		opt(&r)
	}
	if r.sampleLimit <= 0 {
		r.sampleLimit = DefaultSampleLimit
	}
	return r
}

// CSVFilename returns the suggested artifact filename for a layer.
func CSVFilename(layer string) string { return layer + "_attributes.csv" }

// MarkdownFilename returns the suggested artifact filename for a layer.
func MarkdownFilename(layer string) string { return layer + "_attributes.md" }

var newlineCollapser = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
