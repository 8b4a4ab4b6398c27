// Package document maps TaskPaper files onto ordered collections of
// items. Lines are the unit of structure: one item per line, file order
// preserved, and the file on disk stays the source of truth until an
// explicit Save.
package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/baiirun/taskpaper/internal/model"
)

// Document holds the items of a single TaskPaper file in file order.
type Document struct {
	path     string
	items    []*model.Item
	trailing bool
	saved    string
}

// Open reads and parses the file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc := ParseString(string(data))
	doc.path = path
	return doc, nil
}

// New returns an empty document for a file that does not exist yet.
// Save will create it.
func New(path string) *Document {
	return &Document{path: path, trailing: true}
}

// ParseString builds a document from in-memory text. The document has
// no path; give it one with SetPath before saving.
func ParseString(text string) *Document {
	lines, trailing := splitLines(text)
	doc := &Document{trailing: trailing, saved: text}
	for _, line := range lines {
		doc.items = append(doc.items, model.Parse(line))
	}
	return doc
}

func splitLines(text string) (lines []string, trailing bool) {
	if text == "" {
		return nil, false
	}
	if strings.HasSuffix(text, "\n") {
		trailing = true
		text = strings.TrimSuffix(text, "\n")
	}
	return strings.Split(text, "\n"), trailing
}

// Path returns the file this document was opened from or will save to.
func (d *Document) Path() string { return d.path }

// SetPath changes where Save writes.
func (d *Document) SetPath(path string) { d.path = path }

// Items returns the items in file order.
func (d *Document) Items() []*model.Item {
	return append([]*model.Item(nil), d.items...)
}

// Len returns the number of lines in the document.
func (d *Document) Len() int { return len(d.items) }

// Item returns the item at the 1-based line number.
func (d *Document) Item(line int) (*model.Item, error) {
	if line < 1 || line > len(d.items) {
		return nil, fmt.Errorf("line %d out of range (document has %d lines)", line, len(d.items))
	}
	return d.items[line-1], nil
}

// Add parses line and appends it as the last item.
func (d *Document) Add(line string) *model.Item {
	item := model.Parse(line)
	d.items = append(d.items, item)
	return item
}

// String renders the document: one line per item, joined by newlines,
// with the source's trailing newline preserved.
func (d *Document) String() string {
	if len(d.items) == 0 {
		return ""
	}
	lines := make([]string, len(d.items))
	for i, item := range d.items {
		lines[i] = item.String()
	}
	text := strings.Join(lines, "\n")
	if d.trailing {
		text += "\n"
	}
	return text
}

// Modified reports whether the document's current text differs from
// what was last read from or written to disk.
func (d *Document) Modified() bool {
	return d.String() != d.saved
}

// Save writes the document atomically: the text goes to a temp file in
// the same directory, which then replaces the target. An existing
// file's mode is preserved.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("document has no path")
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode()
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	text := d.String()
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), mode); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace document: %w", err)
	}

	d.saved = text
	return nil
}

// Edit opens the document at path, applies fn, and saves only when fn
// returns nil. A failed edit leaves the file untouched.
func Edit(path string, fn func(*Document) error) error {
	doc, err := Open(path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return doc.Save()
}

// FindFiles walks root and returns the TaskPaper files under it, in
// lexical order. Hidden files and directories are skipped. exts lists
// the extensions to accept, dot included.
func FindFiles(root string, exts []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), ".") && path != root {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := filepath.Ext(entry.Name())
		for _, want := range exts {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}
