// Package db maintains the SQLite index over TaskPaper documents.
//
// The index is a derived cache for cross-document queries; the files
// themselves stay the source of truth and reindexing rebuilds any
// document's rows from scratch. The database lives at ~/.tp/index.db
// by default. Use Open() to connect and Init() to create the schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	indexed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	document_id INTEGER NOT NULL REFERENCES documents(id),
	line INTEGER NOT NULL,
	type TEXT NOT NULL,
	body TEXT NOT NULL,
	text TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	done_date TEXT
);

CREATE TABLE IF NOT EXISTS item_tags (
	item_id INTEGER NOT NULL REFERENCES items(id),
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS item_links (
	item_id INTEGER NOT NULL REFERENCES items(id),
	position INTEGER NOT NULL,
	url TEXT NOT NULL,
	PRIMARY KEY (item_id, position)
);

CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
	body,
	content='items',
	content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
	INSERT INTO items_fts(rowid, body) VALUES (NEW.id, NEW.body);
END;

CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
	INSERT INTO items_fts(items_fts, rowid, body) VALUES ('delete', OLD.id, OLD.body);
END;

CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
	INSERT INTO items_fts(items_fts, rowid, body) VALUES ('delete', OLD.id, OLD.body);
	INSERT INTO items_fts(rowid, body) VALUES (NEW.id, NEW.body);
END;

CREATE INDEX IF NOT EXISTS idx_items_document ON items(document_id);
CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);
CREATE INDEX IF NOT EXISTS idx_items_done ON items(done);
CREATE INDEX IF NOT EXISTS idx_item_tags_name ON item_tags(name);
CREATE INDEX IF NOT EXISTS idx_item_tags_item ON item_tags(item_id);
CREATE INDEX IF NOT EXISTS idx_item_links_item ON item_links(item_id);
`

// DB wraps a SQL database connection with index-specific operations.
type DB struct {
	*sql.DB
}

// DefaultPath returns the default index path (~/.tp/index.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tp", "index.db"), nil
}

// Open opens or creates the database at the given path
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Init creates the schema.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
