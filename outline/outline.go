// Package outline defines the document outline data model and the
// cleaning, deduplication, and assembly stages of the extraction
// pipeline.
package outline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level identifies the depth of a heading in the document hierarchy.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

// String returns the wire representation ("H1", "H2", "H3").
func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return fmt.Sprintf("H?(%d)", int(l))
	}
}

// MarshalJSON encodes the level as its literal string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes "H1"/"H2"/"H3" back into a Level.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// Candidate is a span tentatively classified as a heading, before
// cleaning and duplicate removal. The level is final once assigned.
type Candidate struct {
	Level Level
	Text  string
	Page  int // 1-based
}

// Entry is a single outline entry in the output schema.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the terminal artifact of the pipeline: the document title
// plus its headings in reading order.
type Outline struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"outline"`
}

// dedupKey identifies an exact duplicate heading.
type dedupKey struct {
	level Level
	text  string
	page  int
}

// Builder accumulates heading candidates in discovery order, cleans
// them, drops exact duplicates and the document title, and assembles
// the final Outline.
type Builder struct {
	title     string
	titlePage int
	entries   []Entry
	seen      map[dedupKey]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		entries: make([]Entry, 0),
		seen:    make(map[dedupKey]struct{}),
	}
}

// SetTitle records the document title and the page it was found on.
// The title text is cleaned the same way heading candidates are, and
// any candidate matching it on the same page is excluded from the
// entries list.
func (b *Builder) SetTitle(text string, page int) {
	b.title = CleanText(StripSerial(text))
	b.titlePage = page
}

// Add cleans a candidate and admits it unless it is empty after
// cleaning, repeats the title, or duplicates an earlier entry.
// It reports whether the candidate was admitted.
func (b *Builder) Add(c Candidate) bool {
	text := CleanText(StripSerial(c.Text))
	if text == "" {
		return false
	}
	if b.title != "" && c.Page == b.titlePage && text == b.title {
		return false
	}
	key := dedupKey{level: c.Level, text: strings.ToLower(text), page: c.Page}
	if _, dup := b.seen[key]; dup {
		return false
	}
	b.seen[key] = struct{}{}
	b.entries = append(b.entries, Entry{Level: c.Level, Text: text, Page: c.Page})
	return true
}

// Outline returns the assembled outline. Entries is never nil so the
// empty outline serializes as [].
func (b *Builder) Outline() *Outline {
	return &Outline{Title: b.title, Entries: b.entries}
}
