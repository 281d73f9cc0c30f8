// Package classify decides which spans are headings. It builds the
// document font profile in a first pass and applies the layered
// heading rule set in a second.
package classify

import (
	"math"

	"github.com/divyanshahuja36/pdfoutline/parser"
)

// FontProfile holds the document-wide font statistics used as the
// baseline for heading classification, plus the detected title span.
type FontProfile struct {
	// BodySize is the most frequent font size across the document,
	// the baseline for normal text.
	BodySize float64

	// TitleSize is the largest font size among centered spans on the
	// first page, or among all first-page spans when none is centered.
	TitleSize float64

	// TitleText is the text of the span TitleSize came from, and
	// TitlePage the page it was found on (0 when no title exists).
	TitleText string
	TitlePage int
}

// BuildProfile derives the font profile from the full span set. An
// empty document yields the zero profile, which downstream
// classification turns into an empty outline.
func BuildProfile(doc *parser.Document) FontProfile {
	var prof FontProfile

	// Body size: frequency mode over sizes rounded to one decimal,
	// which absorbs the sub-point jitter PDF generators produce.
	counts := make(map[float64]int)
	for _, page := range doc.Pages {
		for _, s := range page.Spans {
			counts[roundSize(s.FontSize)]++
		}
	}
	for size, n := range counts {
		if n > counts[prof.BodySize] || (n == counts[prof.BodySize] && size > prof.BodySize) {
			prof.BodySize = size
		}
	}

	// Title size: largest centered span on page 1, falling back to
	// the largest first-page span of any alignment.
	if len(doc.Pages) > 0 {
		first := doc.Pages[0]
		best, ok := largestSpan(first.Spans, true)
		if !ok {
			best, ok = largestSpan(first.Spans, false)
		}
		if ok {
			prof.TitleSize = best.FontSize
			prof.TitleText = best.Text
			prof.TitlePage = first.Number
		}
	}

	return prof
}

// largestSpan returns the span with the greatest font size, optionally
// restricted to centered spans. The first span wins ties so the title
// is the topmost of equally sized candidates.
func largestSpan(spans []parser.Span, centeredOnly bool) (parser.Span, bool) {
	var best parser.Span
	found := false
	for _, s := range spans {
		if centeredOnly && !s.Centered {
			continue
		}
		if !found || s.FontSize > best.FontSize {
			best = s
			found = true
		}
	}
	return best, found
}

func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}
