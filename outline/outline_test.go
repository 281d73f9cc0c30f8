package outline

import (
	"encoding/json"
	"testing"
)

// ---------------------------------------------------------------------------
// Level serialization
// ---------------------------------------------------------------------------

func TestLevelJSONRoundTrip(t *testing.T) {
	for _, l := range []Level{H1, H2, H3} {
		data, err := json.Marshal(l)
		if err != nil {
			t.Fatalf("marshal %v: %v", l, err)
		}
		var got Level
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != l {
			t.Errorf("round trip: got %v, want %v", got, l)
		}
	}

	var bad Level
	if err := json.Unmarshal([]byte(`"H7"`), &bad); err == nil {
		t.Error("expected error for unknown level H7")
	}
}

// ---------------------------------------------------------------------------
// Builder: dedup, title exclusion, ordering
// ---------------------------------------------------------------------------

func TestBuilderDedup(t *testing.T) {
	b := NewBuilder()

	if !b.Add(Candidate{Level: H2, Text: "Section A", Page: 2}) {
		t.Fatal("first occurrence should be admitted")
	}
	// Repeated page header: same level, text, page.
	if b.Add(Candidate{Level: H2, Text: "Section  A", Page: 2}) {
		t.Error("exact duplicate should be rejected")
	}
	// Case difference still counts as a duplicate.
	if b.Add(Candidate{Level: H2, Text: "SECTION A", Page: 2}) {
		t.Error("case-insensitive duplicate should be rejected")
	}
	// Same text on a different page is a new entry.
	if !b.Add(Candidate{Level: H2, Text: "Section A", Page: 3}) {
		t.Error("same text on another page should be admitted")
	}
	// Same text at a different level is a new entry.
	if !b.Add(Candidate{Level: H3, Text: "Section A", Page: 2}) {
		t.Error("same text at another level should be admitted")
	}

	o := b.Outline()
	if len(o.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(o.Entries))
	}
	for i := 1; i < len(o.Entries); i++ {
		if o.Entries[i].Page < o.Entries[i-1].Page {
			t.Errorf("entries out of page order at %d: %d after %d",
				i, o.Entries[i].Page, o.Entries[i-1].Page)
		}
	}
}

func TestBuilderTitleExclusion(t *testing.T) {
	b := NewBuilder()
	b.SetTitle("Annual  Report 2024", 1)

	if b.Add(Candidate{Level: H1, Text: "Annual Report 2024", Page: 1}) {
		t.Error("title must not be duplicated into entries")
	}
	// Same text on a later page is a legitimate heading.
	if !b.Add(Candidate{Level: H1, Text: "Annual Report 2024", Page: 5}) {
		t.Error("title text on another page should be admitted")
	}

	o := b.Outline()
	if o.Title != "Annual Report 2024" {
		t.Errorf("title = %q, want %q", o.Title, "Annual Report 2024")
	}
	if len(o.Entries) != 1 || o.Entries[0].Page != 5 {
		t.Errorf("entries = %+v, want single entry on page 5", o.Entries)
	}
}

func TestBuilderCleansCandidates(t *testing.T) {
	b := NewBuilder()

	if !b.Add(Candidate{Level: H3, Text: "1.   Overview ", Page: 1}) {
		t.Fatal("candidate should be admitted")
	}
	if b.Add(Candidate{Level: H2, Text: "   ", Page: 1}) {
		t.Error("whitespace-only candidate should be rejected")
	}

	o := b.Outline()
	if len(o.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(o.Entries))
	}
	if got := o.Entries[0].Text; got != "Overview" {
		t.Errorf("cleaned text = %q, want %q", got, "Overview")
	}
}

// ---------------------------------------------------------------------------
// Output schema
// ---------------------------------------------------------------------------

func TestOutlineJSONSchema(t *testing.T) {
	b := NewBuilder()
	b.SetTitle("Document Title", 1)
	b.Add(Candidate{Level: H1, Text: "Intro", Page: 1})
	b.Add(Candidate{Level: H2, Text: "Section A", Page: 2})

	data, err := json.Marshal(b.Outline())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"Document Title","outline":[` +
		`{"level":"H1","text":"Intro","page":1},` +
		`{"level":"H2","text":"Section A","page":2}]}`
	if string(data) != want {
		t.Errorf("JSON = %s\nwant %s", data, want)
	}
}

func TestEmptyOutlineJSON(t *testing.T) {
	data, err := json.Marshal(NewBuilder().Outline())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"","outline":[]}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
