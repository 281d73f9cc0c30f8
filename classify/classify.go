package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/divyanshahuja36/pdfoutline/outline"
	"github.com/divyanshahuja36/pdfoutline/parser"
)

// Config holds the heuristic thresholds and pattern sets driving the
// classifier. All values are tunable; DefaultConfig documents the
// defaults.
type Config struct {
	// TitleRatio classifies a span H1 when its size is at least
	// TitleRatio times the title size.
	TitleRatio float64 `json:"title_ratio" yaml:"title_ratio"`

	// BodyRatio classifies a span H2 when its size is at least
	// BodyRatio times the body size.
	BodyRatio float64 `json:"body_ratio" yaml:"body_ratio"`

	// BottomBand is the fraction of the page height, measured from the
	// bottom edge, treated as the signature/footer exclusion zone.
	BottomBand float64 `json:"bottom_band" yaml:"bottom_band"`

	// HeadingPatterns are regular expressions whose match classifies a
	// span H2 regardless of font size.
	HeadingPatterns []string `json:"heading_patterns" yaml:"heading_patterns"`

	// FormFieldPatterns are case-insensitive regular expressions for
	// generic form labels, which are never headings.
	FormFieldPatterns []string `json:"form_field_patterns" yaml:"form_field_patterns"`

	// SignatureKeywords exclude any span containing one of these
	// substrings (case-insensitive) from classification.
	SignatureKeywords []string `json:"signature_keywords" yaml:"signature_keywords"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		TitleRatio: 0.90,
		BodyRatio:  1.30,
		BottomBand: 0.10,
		HeadingPatterns: []string{
			`^(Chapter|Section|Part)\s+[IVX\d]+`,
			`^[IVX]+\.\s+`,
			// All-caps phrases such as "INTRODUCTION"
			`^[A-Z][A-Z\s]{3,}$`,
		},
		FormFieldPatterns: []string{
			`^\d+\.$`,
			`^S\.No$`,
			`^Date$`,
			`^Rs\.?$`,
		},
		SignatureKeywords: []string{
			"signature", "date", "signed", "authorized", "stamp", "seal",
		},
	}
}

// numberedPattern is the weakest, most specific signal: a leading
// numeral such as "1." or "1.1" starts an H3.
var numberedPattern = regexp.MustCompile(`^\d+\.`)

// Classifier applies the layered heading rule set to spans.
type Classifier struct {
	cfg        Config
	heading    []*regexp.Regexp
	formFields []*regexp.Regexp
	keywords   []string
}

// New compiles the configured patterns into a Classifier.
func New(cfg Config) (*Classifier, error) {
	c := &Classifier{cfg: cfg}

	for _, p := range cfg.HeadingPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling heading pattern %q: %w", p, err)
		}
		c.heading = append(c.heading, re)
	}
	for _, p := range cfg.FormFieldPatterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compiling form field pattern %q: %w", p, err)
		}
		c.formFields = append(c.formFields, re)
	}
	for _, kw := range cfg.SignatureKeywords {
		c.keywords = append(c.keywords, strings.ToLower(kw))
	}

	return c, nil
}

// Classify decides whether the span is a heading and, if so, at which
// level. Rules run top-down and the first match wins: exclusion, then
// the title tier (H1), then pattern-or-ratio (H2), then leading
// numerals (H3). The order is a deliberate priority among competing
// signals: exclusion beats everything, absolute size beats patterns,
// and numbering comes last so it never masks a heading the font size
// already identifies.
func (c *Classifier) Classify(s parser.Span, pageHeight float64, prof FontProfile) (outline.Level, bool) {
	text := outline.CleanText(s.Text)
	if text == "" {
		return 0, false
	}

	if c.excluded(s, text, pageHeight) {
		return 0, false
	}

	if prof.TitleSize > 0 && s.FontSize >= c.cfg.TitleRatio*prof.TitleSize {
		return outline.H1, true
	}

	for _, re := range c.heading {
		if re.MatchString(text) {
			return outline.H2, true
		}
	}
	if prof.BodySize > 0 && s.FontSize >= c.cfg.BodyRatio*prof.BodySize {
		return outline.H2, true
	}

	if numberedPattern.MatchString(text) {
		return outline.H3, true
	}

	return 0, false
}

// excluded reports whether the span lies in an exclusion zone: a form
// label, a signature/legal phrase, or the bottom margin band.
func (c *Classifier) excluded(s parser.Span, text string, pageHeight float64) bool {
	for _, re := range c.formFields {
		if re.MatchString(text) {
			return true
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if pageHeight > 0 && s.BBox.Y1 <= c.cfg.BottomBand*pageHeight {
		return true
	}

	return false
}
