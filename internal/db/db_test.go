package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baiirun/taskpaper/internal/document"
	"github.com/baiirun/taskpaper/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := db.Init(); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Should create parent directories
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("failed to get default path: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}

	if !contains(path, ".tp/index.db") {
		t.Errorf("expected path to contain .tp/index.db, got %q", path)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && contains(s[1:], substr))
}

func TestIndexDocument(t *testing.T) {
	db := setupTestDB(t)

	doc := document.ParseString("Groceries:\n- milk @urgent\n- bread @done(2026-08-20)\nsee http://example.org\n")
	if err := db.IndexDocument("/lists/home.taskpaper", doc); err != nil {
		t.Fatalf("failed to index document: %v", err)
	}

	items, err := db.ListItems(ItemFilter{})
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	if items[0].Type != model.ItemTypeProject {
		t.Errorf("line 1 type = %q, want project", items[0].Type)
	}
	if items[0].Line != 1 {
		t.Errorf("line 1 number = %d, want 1", items[0].Line)
	}
	if items[1].Text != "- milk @urgent" {
		t.Errorf("line 2 text = %q", items[1].Text)
	}
	if len(items[1].Tags) != 1 || items[1].Tags[0].Name != "urgent" {
		t.Errorf("line 2 tags = %v, want @urgent", items[1].Tags)
	}
	if !items[2].Done {
		t.Error("line 3 should be done")
	}
	if items[2].DoneDate != "2026-08-20" {
		t.Errorf("line 3 done date = %q, want 2026-08-20", items[2].DoneDate)
	}
	if len(items[3].Links) != 1 || items[3].Links[0] != "http://example.org" {
		t.Errorf("line 4 links = %v, want http://example.org", items[3].Links)
	}
}

func TestIndexDocument_Replaces(t *testing.T) {
	db := setupTestDB(t)
	path := "/lists/home.taskpaper"

	if err := db.IndexDocument(path, document.ParseString("- old thing\n")); err != nil {
		t.Fatalf("failed to index: %v", err)
	}
	if err := db.IndexDocument(path, document.ParseString("- new thing\n- second\n")); err != nil {
		t.Fatalf("failed to reindex: %v", err)
	}

	items, _ := db.ListItems(ItemFilter{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items after reindex, got %d", len(items))
	}
	if items[0].Text != "- new thing" {
		t.Errorf("first item = %q, want the reindexed line", items[0].Text)
	}

	// The FTS rows for the old content must be gone too
	results, err := db.SearchItems("old", 0)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches for replaced content, got %d", len(results))
	}

	docs, _ := db.Documents()
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Items != 2 {
		t.Errorf("document item count = %d, want 2", docs[0].Items)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := setupTestDB(t)
	path := "/lists/home.taskpaper"

	if err := db.IndexDocument(path, document.ParseString("- a thing @tag\n")); err != nil {
		t.Fatalf("failed to index: %v", err)
	}
	if err := db.DeleteDocument(path); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	docs, _ := db.Documents()
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
	items, _ := db.ListItems(ItemFilter{})
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestDeleteDocument_Unknown(t *testing.T) {
	db := setupTestDB(t)

	if err := db.DeleteDocument("/never/indexed.taskpaper"); err != nil {
		t.Errorf("deleting an unknown path should be a no-op, got %v", err)
	}
}

func TestDocuments(t *testing.T) {
	db := setupTestDB(t)

	if err := db.IndexDocument("/b.taskpaper", document.ParseString("- one\n")); err != nil {
		t.Fatalf("failed to index: %v", err)
	}
	if err := db.IndexDocument("/a.taskpaper", document.ParseString("- one\n- two\n")); err != nil {
		t.Fatalf("failed to index: %v", err)
	}

	docs, err := db.Documents()
	if err != nil {
		t.Fatalf("failed to list documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	// Sorted by path
	if docs[0].Path != "/a.taskpaper" || docs[1].Path != "/b.taskpaper" {
		t.Errorf("paths = %q, %q; want /a.taskpaper, /b.taskpaper", docs[0].Path, docs[1].Path)
	}
	if docs[0].Items != 2 || docs[1].Items != 1 {
		t.Errorf("item counts = %d, %d; want 2, 1", docs[0].Items, docs[1].Items)
	}
	if docs[0].IndexedAt.IsZero() {
		t.Error("expected indexed_at to be set")
	}
}
