package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrTagName reports a mutation called with an unusable tag name:
	// empty, or containing whitespace, parentheses, or @.
	ErrTagName = errors.New("invalid tag name")

	// ErrLink reports an attempt to append text that matches no link shape.
	ErrLink = errors.New("not a recognized link")

	// ErrNotDone reports a completion-date query on an item with no @done tag.
	ErrNotDone = errors.New("item is not done")
)

// Tag is one @name or @name(value) annotation. A tag without a
// parenthesized value has an empty Value; @name() parses the same way,
// so the two forms are interchangeable everywhere tags are compared.
type Tag struct {
	Name  string
	Value string
}

// String renders the tag in canonical form: @name, or @name(value)
// when the value is non-empty.
func (t Tag) String() string {
	if t.Value == "" {
		return "@" + t.Name
	}
	return "@" + t.Name + "(" + t.Value + ")"
}

func isNameRune(r rune) bool {
	switch r {
	case '@', '(', ')':
		return false
	}
	return !unicode.IsSpace(r)
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrTagName)
	}
	for _, r := range name {
		if !isNameRune(r) {
			return fmt.Errorf("%w: %q", ErrTagName, name)
		}
	}
	return nil
}

// tagSpan is a recognized tag plus the byte range of its source text.
type tagSpan struct {
	tag   Tag
	start int
	end   int
}

// scanTags runs the tag grammar over a line in a single left-to-right pass.
//
// A tag starts at @ immediately followed by at least one name rune (anything
// but whitespace, parens, or another @). If the rune straight after the name
// is an opening paren, everything up to the first closing paren is the value
// and both parens belong to the span. An unterminated paren leaves the tag
// name-only and the paren behind as body text. A lone @ is body text.
func scanTags(s string) []tagSpan {
	var spans []tagSpan
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '@' {
			i += size
			continue
		}
		j := i + size
		for j < len(s) {
			nr, nsize := utf8.DecodeRuneInString(s[j:])
			if !isNameRune(nr) {
				break
			}
			j += nsize
		}
		if j == i+size {
			// Literal @ with no name after it.
			i = j
			continue
		}
		name := s[i+size : j]
		value := ""
		end := j
		if j < len(s) && s[j] == '(' {
			if rel := strings.IndexByte(s[j:], ')'); rel >= 0 {
				value = s[j+1 : j+rel]
				end = j + rel + 1
			}
		}
		spans = append(spans, tagSpan{tag: Tag{Name: name, Value: value}, start: i, end: end})
		i = end
	}
	return spans
}

// stripTags removes the given spans from s. Where an excision leaves
// whitespace on both sides, the two runs merge into one so no double
// space appears at the joint. The result is trimmed at both ends.
func stripTags(s string, spans []tagSpan) string {
	if len(spans) == 0 {
		return strings.TrimSpace(s)
	}
	out := s[:spans[0].start]
	for i, sp := range spans {
		next := len(s)
		if i+1 < len(spans) {
			next = spans[i+1].start
		}
		seg := s[sp.end:next]
		if endsWithSpace(out) && startsWithSpace(seg) {
			seg = strings.TrimLeftFunc(seg, unicode.IsSpace)
		}
		out += seg
	}
	return strings.TrimSpace(out)
}

func endsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}
