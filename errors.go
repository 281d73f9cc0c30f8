package pdfoutline

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are not PDFs.
	ErrUnsupportedFormat = errors.New("pdfoutline: unsupported document format")

	// ErrParsingFailed is returned when the PDF decoder cannot produce spans.
	ErrParsingFailed = errors.New("pdfoutline: document parsing failed")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("pdfoutline: invalid configuration")
)
