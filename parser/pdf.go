package parser

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/divyanshahuja36/pdfoutline/outline"
)

// Default page dimensions (US Letter, points) used when a page carries
// no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFSource extracts spans from PDF files using the native decoder.
// The decoder reports individual positioned characters; PDFSource
// groups them into line spans.
type PDFSource struct {
	// RowTolerance is the maximum baseline difference, in points, for
	// two characters to belong to the same line.
	RowTolerance float64

	// WordGap is the horizontal gap, as a fraction of the font size,
	// above which a space is inserted between adjacent characters.
	WordGap float64

	// CenterTolerance is the maximum distance of a span's horizontal
	// midpoint from the page midpoint, as a fraction of the page
	// width, for the span to count as centered.
	CenterTolerance float64
}

// NewPDFSource returns a PDFSource with the default layout tolerances.
func NewPDFSource() *PDFSource {
	return &PDFSource{
		RowTolerance:    2.0,
		WordGap:         0.3,
		CenterTolerance: 0.12,
	}
}

func (p *PDFSource) SupportedFormats() []string { return []string{"pdf"} }

// Extract decodes the file and returns its spans in reading order.
// Pages whose content streams fail to decode are skipped; the rest of
// the document is still returned.
func (p *PDFSource) Extract(ctx context.Context, path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	doc := &Document{}
	totalPages := reader.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		texts, err := pageTexts(page)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}

		width, height := pageSize(page)
		doc.Pages = append(doc.Pages, Page{
			Number: i,
			Width:  width,
			Height: height,
			Spans:  p.groupSpans(texts, i, width),
		})
	}

	return doc, nil
}

// pageTexts reads the page content stream. The decoder panics on some
// malformed streams, so the panic is converted into an error here.
func pageTexts(page pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding page content: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// rowBucket collects the characters of one visual line.
type rowBucket struct {
	yMin, yMax float64
	texts      []pdf.Text
}

// groupSpans turns the page's raw characters into line spans: bucket
// by baseline, order rows top to bottom, then split each row wherever
// the font changes. Whitespace-only spans are dropped.
func (p *PDFSource) groupSpans(texts []pdf.Text, pageNum int, pageWidth float64) []Span {
	var buckets []rowBucket
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		placed := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-p.RowTolerance && t.Y <= buckets[i].yMax+p.RowTolerance {
				buckets[i].texts = append(buckets[i].texts, t)
				buckets[i].yMin = math.Min(buckets[i].yMin, t.Y)
				buckets[i].yMax = math.Max(buckets[i].yMax, t.Y)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, rowBucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	// Top of page first (PDF Y grows upward).
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	var spans []Span
	for _, row := range buckets {
		sort.SliceStable(row.texts, func(i, j int) bool {
			return row.texts[i].X < row.texts[j].X
		})
		spans = append(spans, p.rowToSpans(row.texts, pageNum, pageWidth)...)
	}
	return spans
}

// rowToSpans splits one line of characters into spans at font
// boundaries and assembles each span's text and bounding box.
func (p *PDFSource) rowToSpans(row []pdf.Text, pageNum int, pageWidth float64) []Span {
	var spans []Span

	flush := func(chars []pdf.Text) {
		if len(chars) == 0 {
			return
		}
		var b strings.Builder
		bbox := BBox{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
		size := sanitizeSize(chars[0].FontSize)

		for i, c := range chars {
			if i > 0 {
				prev := chars[i-1]
				if gap := c.X - (prev.X + prev.W); size > 0 && gap > p.WordGap*size {
					b.WriteString(" ")
				}
			}
			b.WriteString(c.S)
			right := c.X + c.W
			if c.W == 0 {
				right = c.X
			}
			bbox.X0 = math.Min(bbox.X0, c.X)
			bbox.X1 = math.Max(bbox.X1, right)
			bbox.Y0 = math.Min(bbox.Y0, c.Y)
			bbox.Y1 = math.Max(bbox.Y1, c.Y+sanitizeSize(c.FontSize))
		}

		text := outline.CleanText(b.String())
		if text == "" {
			return
		}

		font := chars[0].Font
		spans = append(spans, Span{
			Text:     text,
			FontSize: size,
			FontName: font,
			Bold:     isBoldFont(font),
			Page:     pageNum,
			BBox:     bbox,
			Centered: isCentered(bbox, pageWidth, p.CenterTolerance),
		})
	}

	start := 0
	for i := 1; i < len(row); i++ {
		if row[i].Font != row[start].Font || row[i].FontSize != row[start].FontSize {
			flush(row[start:i])
			start = i
		}
	}
	flush(row[start:])
	return spans
}

// sanitizeSize maps missing or malformed font sizes to 0 so they sort
// below every real size and are never mistaken for headings.
func sanitizeSize(size float64) float64 {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return 0
	}
	return size
}

func isBoldFont(name string) bool {
	return strings.Contains(strings.ToLower(name), "bold")
}

func isCentered(bbox BBox, pageWidth, tolerance float64) bool {
	if pageWidth <= 0 {
		return false
	}
	mid := (bbox.X0 + bbox.X1) / 2
	return math.Abs(mid-pageWidth/2) <= tolerance*pageWidth
}

// pageSize reads the page MediaBox, walking up the page tree for
// inherited boxes, and falls back to US Letter.
func pageSize(page pdf.Page) (width, height float64) {
	box := page.V.Key("MediaBox")
	parent := page.V.Key("Parent")
	for depth := 0; box.IsNull() && !parent.IsNull() && depth < 16; depth++ {
		box = parent.Key("MediaBox")
		parent = parent.Key("Parent")
	}
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}

	var coords [4]float64
	for i := 0; i < 4; i++ {
		v := box.Index(i)
		switch v.Kind() {
		case pdf.Integer:
			coords[i] = float64(v.Int64())
		case pdf.Real:
			coords[i] = v.Float64()
		default:
			return defaultPageWidth, defaultPageHeight
		}
	}

	width = coords[2] - coords[0]
	height = coords[3] - coords[1]
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}
