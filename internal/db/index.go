package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/baiirun/taskpaper/internal/document"
)

// IndexedDocument is a document row with its item count.
type IndexedDocument struct {
	ID        int64
	Path      string
	IndexedAt time.Time
	Items     int
}

// IndexDocument records doc under path, replacing whatever the index
// held for that path before. All rows for the document are written in
// one transaction.
func (db *DB) IndexDocument(path string, doc *document.Document) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()

	// Upsert the document row
	var docID int64
	err = tx.QueryRow(`SELECT id FROM documents WHERE path = ?`, path).Scan(&docID)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`INSERT INTO documents (path, indexed_at) VALUES (?, ?)`, path, now)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		docID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get document id: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	} else {
		if _, err := tx.Exec(`UPDATE documents SET indexed_at = ? WHERE id = ?`, now, docID); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
	}

	// Drop the document's old rows. Items go last so the FTS delete
	// trigger still sees them.
	if err := deleteDocumentRows(tx, docID); err != nil {
		return err
	}

	// Insert the current items
	for i, item := range doc.Items() {
		var doneDate sql.NullString
		if item.Done() {
			date, err := item.DoneDate()
			if err != nil {
				return fmt.Errorf("failed to read done date: %w", err)
			}
			doneDate = sql.NullString{String: date, Valid: true}
		}

		res, err := tx.Exec(`
			INSERT INTO items (document_id, line, type, body, text, done, done_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			docID, i+1, item.Type(), item.Body(), item.String(), item.Done(), doneDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item at line %d: %w", i+1, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get item id: %w", err)
		}

		for pos, tag := range item.Tags() {
			_, err := tx.Exec(`
				INSERT INTO item_tags (item_id, position, name, value)
				VALUES (?, ?, ?, ?)`,
				itemID, pos, tag.Name, tag.Value,
			)
			if err != nil {
				return fmt.Errorf("failed to insert tag %q: %w", tag.Name, err)
			}
		}

		for pos, link := range item.Links() {
			_, err := tx.Exec(`
				INSERT INTO item_links (item_id, position, url)
				VALUES (?, ?, ?)`,
				itemID, pos, link,
			)
			if err != nil {
				return fmt.Errorf("failed to insert link %q: %w", link, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteDocument removes a document and all its rows from the index.
// Unknown paths are a no-op.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var docID int64
	err = tx.QueryRow(`SELECT id FROM documents WHERE path = ?`, path).Scan(&docID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up document: %w", err)
	}

	if err := deleteDocumentRows(tx, docID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// deleteDocumentRows removes a document's items and their tag and link
// rows inside tx. The document row itself is left alone.
func deleteDocumentRows(tx *sql.Tx, docID int64) error {
	if _, err := tx.Exec(`DELETE FROM item_tags WHERE item_id IN (SELECT id FROM items WHERE document_id = ?)`, docID); err != nil {
		return fmt.Errorf("failed to delete tags: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM item_links WHERE item_id IN (SELECT id FROM items WHERE document_id = ?)`, docID); err != nil {
		return fmt.Errorf("failed to delete links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM items WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	return nil
}

// Documents returns every indexed document, sorted by path.
func (db *DB) Documents() ([]IndexedDocument, error) {
	rows, err := db.Query(`
		SELECT d.id, d.path, d.indexed_at, COUNT(i.id)
		FROM documents d
		LEFT JOIN items i ON i.document_id = d.id
		GROUP BY d.id
		ORDER BY d.path`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []IndexedDocument
	for rows.Next() {
		var d IndexedDocument
		if err := rows.Scan(&d.ID, &d.Path, &d.IndexedAt, &d.Items); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
