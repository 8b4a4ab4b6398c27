package main

import (
	"encoding/json"
	"fmt"

	"github.com/baiirun/taskpaper/internal/db"
	"github.com/baiirun/taskpaper/internal/model"
)

// TagJSON is one tag in JSON output.
type TagJSON struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// ItemJSON is one parsed line in JSON output. Array fields are always
// arrays, never null, so consumers can index without checking.
type ItemJSON struct {
	Line     int       `json:"line"`
	Type     string    `json:"type"`
	Body     string    `json:"body"`
	Text     string    `json:"text"`
	Done     bool      `json:"done"`
	DoneDate string    `json:"done_date,omitempty"`
	Tags     []TagJSON `json:"tags"`
	Links    []string  `json:"links"`
}

// IndexedItemJSON is ItemJSON plus the file the item came from.
type IndexedItemJSON struct {
	File string `json:"file"`
	ItemJSON
}

// SearchResultJSON is one full-text match.
type SearchResultJSON struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Type    string `json:"type"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
}

// TagCountJSON is one row of the tags report.
type TagCountJSON struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Values int    `json:"values"`
}

// StatsJSON is the stats report.
type StatsJSON struct {
	Documents int `json:"documents"`
	Items     int `json:"items"`
	Projects  int `json:"projects"`
	Tasks     int `json:"tasks"`
	Notes     int `json:"notes"`
	Done      int `json:"done"`
	Pending   int `json:"pending"`
}

// newItemJSON converts a parsed item at a 1-based line number.
func newItemJSON(line int, item *model.Item) ItemJSON {
	tags := item.Tags()
	jsonTags := make([]TagJSON, 0, len(tags))
	for _, tag := range tags {
		jsonTags = append(jsonTags, TagJSON{Name: tag.Name, Value: tag.Value})
	}

	links := item.Links()
	if links == nil {
		links = []string{}
	}

	out := ItemJSON{
		Line:  line,
		Type:  string(item.Type()),
		Body:  item.Body(),
		Text:  item.String(),
		Done:  item.Done(),
		Tags:  jsonTags,
		Links: links,
	}
	if date, err := item.DoneDate(); err == nil {
		out.DoneDate = date
	}
	return out
}

// newIndexedItemJSON converts an item loaded from the index.
func newIndexedItemJSON(item db.IndexedItem) IndexedItemJSON {
	jsonTags := make([]TagJSON, 0, len(item.Tags))
	for _, tag := range item.Tags {
		jsonTags = append(jsonTags, TagJSON{Name: tag.Name, Value: tag.Value})
	}

	links := item.Links
	if links == nil {
		links = []string{}
	}

	return IndexedItemJSON{
		File: item.Document,
		ItemJSON: ItemJSON{
			Line:     item.Line,
			Type:     string(item.Type),
			Body:     item.Body,
			Text:     item.Text,
			Done:     item.Done,
			DoneDate: item.DoneDate,
			Tags:     jsonTags,
			Links:    links,
		},
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
