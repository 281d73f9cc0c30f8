package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := Document{
		Path:         "/docs/report.pdf",
		Filename:     "report.pdf",
		ContentHash:  "abc123",
		Status:       "done",
		Title:        "Annual Report 2024",
		HeadingCount: 3,
		Outline:      `{"title":"Annual Report 2024","outline":[]}`,
	}

	id, err := s.UpsertDocument(ctx, doc)
	if err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero ID")
	}

	got, err := s.GetDocumentByPath(ctx, doc.Path)
	if err != nil {
		t.Fatalf("GetDocumentByPath: %v", err)
	}
	if got.ContentHash != "abc123" {
		t.Errorf("ContentHash = %q, want %q", got.ContentHash, "abc123")
	}
	if got.Title != doc.Title {
		t.Errorf("Title = %q, want %q", got.Title, doc.Title)
	}
	if got.HeadingCount != 3 {
		t.Errorf("HeadingCount = %d, want 3", got.HeadingCount)
	}
	if got.Outline != doc.Outline {
		t.Errorf("Outline = %q, want %q", got.Outline, doc.Outline)
	}
}

func TestUpsertSamePathUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := Document{Path: "/docs/a.pdf", Filename: "a.pdf", ContentHash: "h1", Status: "done"}
	id1, err := s.UpsertDocument(ctx, first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := first
	second.ContentHash = "h2"
	second.Status = "done"
	id2, err := s.UpsertDocument(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: id %d then %d", id1, id2)
	}

	got, err := s.GetDocumentByPath(ctx, first.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ContentHash != "h2" {
		t.Errorf("ContentHash = %q, want %q after update", got.ContentHash, "h2")
	}

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("got %d documents, want 1", len(docs))
	}
}

func TestGetMissingPath(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDocumentByPath(context.Background(), "/nope.pdf")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("got %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertDocument(ctx, Document{Path: "/docs/b.pdf", Filename: "b.pdf", ContentHash: "h", Status: "done"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDocument(ctx, id); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocumentByPath(ctx, "/docs/b.pdf"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("document still present after delete: %v", err)
	}
}
