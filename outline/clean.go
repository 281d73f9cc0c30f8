package outline

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// whitespaceRun matches one or more whitespace characters,
	// including the control characters PDF extraction leaves behind.
	whitespaceRun = regexp.MustCompile(`\s+`)

	// serialMarker matches a leading serial such as "1." or "2)". The
	// trailing whitespace is required so hierarchical numbering like
	// "1.1 Subsection" is left intact.
	serialMarker = regexp.MustCompile(`^\d+[.)]\s+`)
)

// CleanText collapses runs of whitespace into single spaces, drops
// non-printable characters, and trims the result.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// StripSerial removes a leading ordinal marker ("1.", "2)") from a
// heading. The marker is kept when stripping it would leave the text
// empty, so a heading is never reduced to nothing.
func StripSerial(s string) string {
	stripped := serialMarker.ReplaceAllString(s, "")
	if strings.TrimSpace(stripped) == "" {
		return s
	}
	return stripped
}
