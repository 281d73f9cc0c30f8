// Package parser extracts positioned text spans from PDF files. It
// wraps the third-party PDF decoder and presents each page as an
// ordered sequence of spans carrying text, font attributes, and
// position, the raw material for heading classification.
package parser

import "context"

// BBox is an axis-aligned bounding box in page coordinates. The PDF
// origin is the bottom-left corner, so Y0 is the lower edge.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Span is a contiguous run of text on a page sharing font attributes
// and position. Spans are immutable once produced.
type Span struct {
	Text     string
	FontSize float64
	FontName string
	Bold     bool
	Page     int // 1-based
	BBox     BBox
	Centered bool
}

// Page holds the ordered spans of one page plus its dimensions in
// points. Spans are in reading order: top to bottom, left to right.
type Page struct {
	Number int
	Width  float64
	Height float64
	Spans  []Span
}

// Document is the full span set extracted from one file.
type Document struct {
	Pages []Page
}

// SpanCount returns the total number of spans across all pages.
func (d *Document) SpanCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Spans)
	}
	return n
}

// SpanSource extracts a Document from a file on disk.
type SpanSource interface {
	Extract(ctx context.Context, path string) (*Document, error)
	SupportedFormats() []string
}
