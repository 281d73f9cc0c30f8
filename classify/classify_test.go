package classify

import (
	"testing"

	"github.com/divyanshahuja36/pdfoutline/outline"
	"github.com/divyanshahuja36/pdfoutline/parser"
)

func mustClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New(DefaultConfig()): %v", err)
	}
	return c
}

// midSpan places a span safely above the bottom exclusion band.
func midSpan(text string, size float64) parser.Span {
	return parser.Span{
		Text:     text,
		FontSize: size,
		Page:     1,
		BBox:     parser.BBox{X0: 72, Y0: 400, X1: 300, Y1: 400 + size},
	}
}

func TestClassifyRuleLayers(t *testing.T) {
	c := mustClassifier(t)
	prof := FontProfile{BodySize: 11, TitleSize: 24}

	tests := []struct {
		name      string
		span      parser.Span
		wantLevel outline.Level
		wantOK    bool
	}{
		{
			name:      "title tier by size",
			span:      midSpan("Executive Summary", 22), // 22 >= 0.9*24
			wantLevel: outline.H1,
			wantOK:    true,
		},
		{
			name:      "numbered top-level heading in title-sized font is H1 not H3",
			span:      midSpan("1. Introduction", 24),
			wantLevel: outline.H1,
			wantOK:    true,
		},
		{
			name:      "section keyword pattern",
			span:      midSpan("Chapter IV", 11),
			wantLevel: outline.H2,
			wantOK:    true,
		},
		{
			name:      "all caps pattern",
			span:      midSpan("INTRODUCTION", 11),
			wantLevel: outline.H2,
			wantOK:    true,
		},
		{
			name:      "size ratio over body",
			span:      midSpan("Large subheading", 15), // 15 >= 1.3*11
			wantLevel: outline.H2,
			wantOK:    true,
		},
		{
			name:      "numbered heading below ratio falls to H3",
			span:      midSpan("1. Overview", 14), // 14 < 21.6 and 14 < 14.3
			wantLevel: outline.H3,
			wantOK:    true,
		},
		{
			name:      "hierarchical numbering",
			span:      midSpan("1.1 Subsection", 11),
			wantLevel: outline.H3,
			wantOK:    true,
		},
		{
			name:   "plain body text",
			span:   midSpan("The quick brown fox jumps over the lazy dog.", 11),
			wantOK: false,
		},
		{
			name:   "empty text",
			span:   midSpan("   ", 24),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := c.Classify(tt.span, 792, prof)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q): ok = %v, want %v", tt.span.Text, ok, tt.wantOK)
			}
			if ok && level != tt.wantLevel {
				t.Errorf("Classify(%q): level = %v, want %v", tt.span.Text, level, tt.wantLevel)
			}
		})
	}
}

func TestClassifyExclusions(t *testing.T) {
	c := mustClassifier(t)
	prof := FontProfile{BodySize: 11, TitleSize: 24}

	tests := []struct {
		name string
		span parser.Span
	}{
		{
			// Large font never rescues a signature block.
			name: "signature keyword at title size",
			span: midSpan("SIGNATURE OF APPLICANT", 20),
		},
		{
			name: "form label",
			span: midSpan("S.No", 16),
		},
		{
			name: "bare serial form field",
			span: midSpan("3.", 14),
		},
		{
			name: "bottom margin band",
			span: parser.Span{
				Text:     "CONFIDENTIAL NOTICE",
				FontSize: 20,
				Page:     1,
				BBox:     parser.BBox{X0: 72, Y0: 30, X1: 300, Y1: 50}, // bottom 10% of 792pt page
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if level, ok := c.Classify(tt.span, 792, prof); ok {
				t.Errorf("Classify(%q) = %v, want excluded", tt.span.Text, level)
			}
		})
	}
}

func TestClassifyZeroProfile(t *testing.T) {
	c := mustClassifier(t)

	// With a zero profile the size tiers are inert; only patterns fire.
	if level, ok := c.Classify(midSpan("Some body text here", 12), 792, FontProfile{}); ok {
		t.Errorf("zero profile classified %v, want none", level)
	}
	level, ok := c.Classify(midSpan("Chapter 1", 12), 792, FontProfile{})
	if !ok || level != outline.H2 {
		t.Errorf("pattern heading with zero profile = (%v, %v), want (H2, true)", level, ok)
	}
}

func TestClassifyMalformedSizeNeverHeading(t *testing.T) {
	c := mustClassifier(t)
	prof := FontProfile{BodySize: 11, TitleSize: 24}

	// Missing font size is treated as 0 and sorts below every ratio.
	if level, ok := c.Classify(midSpan("Quiet line of text", 0), 792, prof); ok {
		t.Errorf("zero-size span classified %v, want none", level)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadingPatterns = append(cfg.HeadingPatterns, `([unclosed`)
	if _, err := New(cfg); err == nil {
		t.Error("expected error for invalid heading pattern")
	}
}
