// Package model implements the single-line TaskPaper item: parsing a raw
// line into its type, ordered tags, links, and body text, and the mutation
// operations that rewrite the line.
package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type ItemType string

const (
	ItemTypeProject ItemType = "project"
	ItemTypeTask    ItemType = "task"
	ItemTypeNote    ItemType = "note"
)

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeProject, ItemTypeTask, ItemTypeNote:
		return true
	}
	return false
}

const doneTag = "done"

// DateFormat is the calendar-date form used for @done values.
const DateFormat = "2006-01-02"

// Item is the parsed representation of one document line.
//
// An item that has not been mutated stringifies back to its source line
// byte for byte. The first successful mutation switches it to canonical
// form: marker, body, then every tag in collection order, single-space
// separated.
type Item struct {
	raw   string
	dirty bool

	typ   ItemType
	body  string
	tags  []Tag
	links []string
}

// Parse decomposes a raw line into an Item. It never fails: any input,
// including the empty string, is a valid (if degenerate) item.
//
// Classification: a (possibly indented) leading "-" followed by whitespace
// makes a task; otherwise a line whose tag-stripped text ends in ":" is a
// project; everything else is a note.
func Parse(line string) *Item {
	it := &Item{raw: line, typ: ItemTypeNote}

	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	if len(rest) > 1 && rest[0] == '-' {
		if r, _ := utf8.DecodeRuneInString(rest[1:]); unicode.IsSpace(r) {
			it.typ = ItemTypeTask
			rest = strings.TrimLeftFunc(rest[1:], unicode.IsSpace)
		}
	}

	spans := scanTags(rest)
	for _, sp := range spans {
		it.tags = append(it.tags, sp.tag)
	}
	it.body = stripTags(rest, spans)

	if it.typ != ItemTypeTask && strings.HasSuffix(it.body, ":") {
		it.typ = ItemTypeProject
	}
	it.links = scanLinks(it.body)
	return it
}

// Type returns the item's structural classification.
func (it *Item) Type() ItemType { return it.typ }

// Body returns the residual text of the line: no marker, no tags.
func (it *Item) Body() string { return it.body }

// Tags returns a copy of the ordered tag collection. Duplicates are
// preserved in order of first appearance.
func (it *Item) Tags() []Tag {
	out := make([]Tag, len(it.tags))
	copy(out, it.tags)
	return out
}

// Links returns a copy of the URL-like substrings found in the body,
// in order of appearance.
func (it *Item) Links() []string {
	out := make([]string, len(it.links))
	copy(out, it.links)
	return out
}

// HasTag reports whether any tag has the given name, regardless of value.
func (it *Item) HasTag(name string) bool {
	for _, t := range it.tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasTagValue reports whether any tag matches both name and value.
func (it *Item) HasTagValue(name, value string) bool {
	for _, t := range it.tags {
		if t.Name == name && t.Value == value {
			return true
		}
	}
	return false
}

// TagValue returns the value of the first tag with the given name.
func (it *Item) TagValue(name string) (string, bool) {
	for _, t := range it.tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// String reconstructs the line. Unmutated items return their source text
// exactly; mutated items render canonically with tags after the body.
func (it *Item) String() string {
	if !it.dirty {
		return it.raw
	}
	parts := make([]string, 0, 1+len(it.tags))
	if it.body != "" {
		parts = append(parts, it.body)
	}
	for _, t := range it.tags {
		parts = append(parts, t.String())
	}
	s := strings.Join(parts, " ")
	if it.typ == ItemTypeTask {
		return "- " + s
	}
	return s
}

// SetTag gives the first tag named name the new value, keeping its place
// in the collection, and removes any later tags with the same name so that
// exactly one remains. With no existing match the tag is appended.
func (it *Item) SetTag(name, value string) error {
	if err := validateTagName(name); err != nil {
		return err
	}
	idx := -1
	for i, t := range it.tags {
		if t.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		it.tags = append(it.tags, Tag{Name: name, Value: value})
	} else {
		it.tags[idx] = Tag{Name: name, Value: value}
		out := it.tags[:idx+1]
		for _, t := range it.tags[idx+1:] {
			if t.Name != name {
				out = append(out, t)
			}
		}
		it.tags = out
	}
	it.dirty = true
	return nil
}

// AddTag appends a tag unconditionally, even when one with the same name
// already exists.
func (it *Item) AddTag(name, value string) error {
	if err := validateTagName(name); err != nil {
		return err
	}
	it.tags = append(it.tags, Tag{Name: name, Value: value})
	it.dirty = true
	return nil
}

// RemoveTag removes every tag with the given name, any value, and returns
// how many were removed. No match is a no-op, not an error.
func (it *Item) RemoveTag(name string) int {
	return it.removeTags(func(t Tag) bool { return t.Name == name })
}

// RemoveTagValue removes only tags matching both name and value.
func (it *Item) RemoveTagValue(name, value string) int {
	return it.removeTags(func(t Tag) bool { return t.Name == name && t.Value == value })
}

func (it *Item) removeTags(match func(Tag) bool) int {
	n := 0
	out := it.tags[:0]
	for _, t := range it.tags {
		if match(t) {
			n++
			continue
		}
		out = append(out, t)
	}
	it.tags = out
	if n > 0 {
		it.dirty = true
	}
	return n
}

// Done reports whether the item carries a @done tag. The state is computed
// from the tag collection on every call, never cached.
func (it *Item) Done() bool { return it.HasTag(doneTag) }

// DoneDate returns the value of the first @done tag, which is the empty
// string for @done with no value. Returns ErrNotDone when the item has no
// @done tag.
func (it *Item) DoneDate() (string, error) {
	if v, ok := it.TagValue(doneTag); ok {
		return v, nil
	}
	return "", ErrNotDone
}

// MarkDone appends @done with today's date. Items that are already done
// are left alone; the recorded date is not refreshed.
func (it *Item) MarkDone() {
	it.MarkDoneAt(time.Now().Format(DateFormat))
}

// MarkDoneAt is MarkDone with a caller-supplied date string, recorded
// verbatim.
func (it *Item) MarkDoneAt(date string) {
	if it.Done() {
		return
	}
	it.tags = append(it.tags, Tag{Name: doneTag, Value: date})
	it.dirty = true
}

// MarkUndone removes all @done tags.
func (it *Item) MarkUndone() {
	it.RemoveTag(doneTag)
}

// ToggleDone flips the completion state.
func (it *Item) ToggleDone() {
	if it.Done() {
		it.MarkUndone()
	} else {
		it.MarkDone()
	}
}

// AppendLink adds a recognized link to the end of the body. Text that
// matches none of the link shapes is rejected with ErrLink and the item
// is left unchanged.
func (it *Item) AppendLink(link string) error {
	if !IsLink(link) {
		return ErrLink
	}
	if it.body == "" {
		it.body = link
	} else {
		it.body += " " + link
	}
	it.links = append(it.links, link)
	it.dirty = true
	// The new body may have gained or lost a trailing colon.
	if it.typ != ItemTypeTask {
		if strings.HasSuffix(it.body, ":") {
			it.typ = ItemTypeProject
		} else {
			it.typ = ItemTypeNote
		}
	}
	return nil
}
