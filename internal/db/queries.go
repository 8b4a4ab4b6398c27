package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/baiirun/taskpaper/internal/model"
)

// IndexedItem is one line of an indexed document.
type IndexedItem struct {
	ID       int64
	Document string
	Line     int
	Type     model.ItemType
	Body     string
	Text     string
	Done     bool
	DoneDate string
	Tags     []model.Tag
	Links    []string
}

// ItemFilter narrows ListItems. Zero values mean "any"; TagValue only
// applies together with TagName (nil matches any value, pointer to ""
// matches only the bare form).
type ItemFilter struct {
	Document string
	Type     model.ItemType
	TagName  string
	TagValue *string
	Done     *bool
}

// SearchResult is an FTS match with a highlighted snippet.
type SearchResult struct {
	Item    IndexedItem
	Snippet string
}

// TagCount aggregates one tag name across the whole index.
type TagCount struct {
	Name   string
	Count  int
	Values int
}

// Stats summarizes the index.
type Stats struct {
	Documents int
	Items     int
	Projects  int
	Tasks     int
	Notes     int
	Done      int
	Pending   int
}

// ListItems returns indexed items matching the filter, ordered by
// document path and line number.
func (db *DB) ListItems(f ItemFilter) ([]IndexedItem, error) {
	query := `
		SELECT items.id, documents.path, items.line, items.type, items.body, items.text, items.done, items.done_date
		FROM items
		JOIN documents ON documents.id = items.document_id
		WHERE 1=1`
	args := []any{}

	if f.Document != "" {
		query += ` AND documents.path = ?`
		args = append(args, f.Document)
	}
	if f.Type != "" {
		if !f.Type.IsValid() {
			return nil, fmt.Errorf("invalid item type: %s", f.Type)
		}
		query += ` AND items.type = ?`
		args = append(args, f.Type)
	}
	if f.TagName != "" {
		if f.TagValue != nil {
			query += ` AND EXISTS (SELECT 1 FROM item_tags WHERE item_tags.item_id = items.id AND item_tags.name = ? AND item_tags.value = ?)`
			args = append(args, f.TagName, *f.TagValue)
		} else {
			query += ` AND EXISTS (SELECT 1 FROM item_tags WHERE item_tags.item_id = items.id AND item_tags.name = ?)`
			args = append(args, f.TagName)
		}
	}
	if f.Done != nil {
		query += ` AND items.done = ?`
		args = append(args, *f.Done)
	}
	query += ` ORDER BY documents.path, items.line`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []IndexedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*IndexedItem, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachTags(refs); err != nil {
		return nil, err
	}
	if err := db.attachLinks(refs); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItems runs an FTS5 match over item bodies, ranked by bm25.
// The snippet marks matched terms with brackets.
func (db *DB) SearchItems(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT items.id, documents.path, items.line, items.type, items.body, items.text, items.done, items.done_date,
		       snippet(items_fts, 0, '[', ']', '…', 16)
		FROM items_fts
		JOIN items ON items.id = items_fts.rowid
		JOIN documents ON documents.id = items.document_id
		WHERE items_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var doneDate sql.NullString
		if err := rows.Scan(
			&r.Item.ID, &r.Item.Document, &r.Item.Line, &r.Item.Type, &r.Item.Body,
			&r.Item.Text, &r.Item.Done, &doneDate, &r.Snippet,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		r.Item.DoneDate = doneDate.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*IndexedItem, len(results))
	for i := range results {
		refs[i] = &results[i].Item
	}
	if err := db.attachTags(refs); err != nil {
		return nil, err
	}
	if err := db.attachLinks(refs); err != nil {
		return nil, err
	}
	return results, nil
}

// TagCounts reports every tag name in the index with its usage count
// and number of distinct non-empty values, most used first.
func (db *DB) TagCounts() ([]TagCount, error) {
	rows, err := db.Query(`
		SELECT name, COUNT(*), COUNT(DISTINCT CASE WHEN value != '' THEN value END)
		FROM item_tags
		GROUP BY name
		ORDER BY COUNT(*) DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag counts: %w", err)
	}
	defer rows.Close()

	var counts []TagCount
	for rows.Next() {
		var c TagCount
		if err := rows.Scan(&c.Name, &c.Count, &c.Values); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// IndexStats returns document and item totals for the whole index.
func (db *DB) IndexStats() (*Stats, error) {
	stats := &Stats{}

	if err := db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&stats.Documents); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	rows, err := db.Query(`SELECT type, COUNT(*) FROM items GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count item types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.Items += count
		switch model.ItemType(typ) {
		case model.ItemTypeProject:
			stats.Projects = count
		case model.ItemTypeTask:
			stats.Tasks = count
		case model.ItemTypeNote:
			stats.Notes = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM items WHERE type = 'task' AND done = 1`).Scan(&stats.Done); err != nil {
		return nil, fmt.Errorf("failed to count done tasks: %w", err)
	}
	stats.Pending = stats.Tasks - stats.Done

	return stats, nil
}

// scanItem reads one item row in the column order the list and search
// queries share.
func scanItem(rows *sql.Rows) (IndexedItem, error) {
	var item IndexedItem
	var doneDate sql.NullString
	if err := rows.Scan(
		&item.ID, &item.Document, &item.Line, &item.Type, &item.Body,
		&item.Text, &item.Done, &doneDate,
	); err != nil {
		return item, fmt.Errorf("failed to scan item: %w", err)
	}
	item.DoneDate = doneDate.String
	return item, nil
}

// attachTags loads each item's tags in collection order.
func (db *DB) attachTags(items []*IndexedItem) error {
	if len(items) == 0 {
		return nil
	}

	byID, placeholders, args := itemRefs(items)
	rows, err := db.Query(`
		SELECT item_id, name, value FROM item_tags
		WHERE item_id IN (`+placeholders+`)
		ORDER BY item_id, position`, args...)
	if err != nil {
		return fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var tag model.Tag
		if err := rows.Scan(&id, &tag.Name, &tag.Value); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		item := byID[id]
		item.Tags = append(item.Tags, tag)
	}
	return rows.Err()
}

// attachLinks loads each item's links in order of appearance.
func (db *DB) attachLinks(items []*IndexedItem) error {
	if len(items) == 0 {
		return nil
	}

	byID, placeholders, args := itemRefs(items)
	rows, err := db.Query(`
		SELECT item_id, url FROM item_links
		WHERE item_id IN (`+placeholders+`)
		ORDER BY item_id, position`, args...)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		item := byID[id]
		item.Links = append(item.Links, url)
	}
	return rows.Err()
}

func itemRefs(items []*IndexedItem) (map[int64]*IndexedItem, string, []any) {
	byID := make(map[int64]*IndexedItem, len(items))
	placeholders := make([]string, len(items))
	args := make([]any, len(items))
	for i, item := range items {
		byID[item.ID] = item
		placeholders[i] = "?"
		args[i] = item.ID
	}
	return byID, strings.Join(placeholders, ","), args
}
