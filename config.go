package pdfoutline

import "github.com/divyanshahuja36/pdfoutline/classify"

// Config holds all configuration for the outline extractor.
type Config struct {
	// Classifier carries the heuristic thresholds and pattern sets.
	// Zero-valued fields are replaced by the classify defaults.
	Classifier classify.Config `json:"classifier" yaml:"classifier"`

	// RowTolerance is the maximum baseline difference, in points, for
	// two characters to share a line. Default 2.0.
	RowTolerance float64 `json:"row_tolerance" yaml:"row_tolerance"`

	// WordGap is the horizontal gap, as a fraction of the font size,
	// above which a space is inserted between characters. Default 0.3.
	WordGap float64 `json:"word_gap" yaml:"word_gap"`

	// CenterTolerance is the maximum distance of a span's midpoint
	// from the page midpoint, as a fraction of the page width, for the
	// span to count as centered. Default 0.12.
	CenterTolerance float64 `json:"center_tolerance" yaml:"center_tolerance"`

	// Workers bounds concurrent document processing in batch runs.
	// Zero means one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`

	// TitleFallback substitutes the file stem for the title when the
	// document yields none. Off by default so an empty document
	// produces an empty title.
	TitleFallback bool `json:"title_fallback" yaml:"title_fallback"`

	// CachePath, when set, enables the SQLite result cache: files
	// whose content hash is unchanged are not re-extracted.
	CachePath string `json:"cache_path" yaml:"cache_path"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Classifier:      classify.DefaultConfig(),
		RowTolerance:    2.0,
		WordGap:         0.3,
		CenterTolerance: 0.12,
	}
}

// applyDefaults fills zero-valued fields so a partially populated
// config (e.g. decoded from a sparse file) still works.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Classifier.TitleRatio == 0 {
		c.Classifier.TitleRatio = def.Classifier.TitleRatio
	}
	if c.Classifier.BodyRatio == 0 {
		c.Classifier.BodyRatio = def.Classifier.BodyRatio
	}
	if c.Classifier.BottomBand == 0 {
		c.Classifier.BottomBand = def.Classifier.BottomBand
	}
	if c.Classifier.HeadingPatterns == nil {
		c.Classifier.HeadingPatterns = def.Classifier.HeadingPatterns
	}
	if c.Classifier.FormFieldPatterns == nil {
		c.Classifier.FormFieldPatterns = def.Classifier.FormFieldPatterns
	}
	if c.Classifier.SignatureKeywords == nil {
		c.Classifier.SignatureKeywords = def.Classifier.SignatureKeywords
	}
	if c.RowTolerance == 0 {
		c.RowTolerance = def.RowTolerance
	}
	if c.WordGap == 0 {
		c.WordGap = def.WordGap
	}
	if c.CenterTolerance == 0 {
		c.CenterTolerance = def.CenterTolerance
	}
}
