package main

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/baiirun/taskpaper/internal/db"
	"github.com/baiirun/taskpaper/internal/model"
)

func TestItemJSON_Fields(t *testing.T) {
	item := model.Parse("- Buy milk @food @priority(2)")

	got := newItemJSON(3, item)

	if got.Line != 3 {
		t.Errorf("line = %d, want 3", got.Line)
	}
	if got.Type != "task" {
		t.Errorf("type = %q, want task", got.Type)
	}
	if got.Body != "Buy milk" {
		t.Errorf("body = %q, want %q", got.Body, "Buy milk")
	}
	if got.Text != "- Buy milk @food @priority(2)" {
		t.Errorf("text = %q", got.Text)
	}
	if got.Done {
		t.Error("done = true, want false")
	}
	wantTags := []TagJSON{{Name: "food"}, {Name: "priority", Value: "2"}}
	if !reflect.DeepEqual(got.Tags, wantTags) {
		t.Errorf("tags = %v, want %v", got.Tags, wantTags)
	}
	if len(got.Links) != 0 {
		t.Errorf("links = %v, want none", got.Links)
	}
}

func TestItemJSON_DoneDate(t *testing.T) {
	item := model.Parse("- ship it @done(2026-08-20)")

	got := newItemJSON(1, item)

	if !got.Done {
		t.Error("done = false, want true")
	}
	if got.DoneDate != "2026-08-20" {
		t.Errorf("done_date = %q, want 2026-08-20", got.DoneDate)
	}
}

func TestItemJSON_Links(t *testing.T) {
	item := model.Parse("see http://example.org for details")

	got := newItemJSON(1, item)

	if got.Type != "note" {
		t.Errorf("type = %q, want note", got.Type)
	}
	want := []string{"http://example.org"}
	if !reflect.DeepEqual(got.Links, want) {
		t.Errorf("links = %v, want %v", got.Links, want)
	}
}

func TestItemJSON_EmptyArrayFields(t *testing.T) {
	item := model.Parse("plain note")

	output := captureOutput(func() {
		printJSON([]ItemJSON{newItemJSON(1, item)})
	})

	// Array fields must be [] not null, and the zero done date must be
	// omitted entirely.
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &raw); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, output)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 item, got %d", len(raw))
	}
	for _, field := range []string{"tags", "links"} {
		if string(raw[0][field]) == "null" {
			t.Errorf("%s should be [] not null", field)
		}
	}
	if _, has := raw[0]["done_date"]; has {
		t.Error("done_date should be omitted when the item is not done")
	}
}

func TestItemJSON_BareDoneOmitsDate(t *testing.T) {
	item := model.Parse("- archived @done")

	output := captureOutput(func() {
		printJSON(newItemJSON(1, item))
	})

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &raw); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, output)
	}
	if string(raw["done"]) != "true" {
		t.Errorf("done = %s, want true", raw["done"])
	}
	if _, has := raw["done_date"]; has {
		t.Error("done_date should be omitted for a bare @done")
	}
}

func TestIndexedItemJSON(t *testing.T) {
	item := db.IndexedItem{
		ID:       7,
		Document: "/notes/home.taskpaper",
		Line:     2,
		Type:     model.ItemTypeTask,
		Body:     "Buy milk",
		Text:     "- Buy milk @food",
		Done:     false,
		Tags:     []model.Tag{{Name: "food"}},
	}

	got := newIndexedItemJSON(item)

	if got.File != "/notes/home.taskpaper" {
		t.Errorf("file = %q", got.File)
	}
	if got.Line != 2 {
		t.Errorf("line = %d, want 2", got.Line)
	}
	wantTags := []TagJSON{{Name: "food"}}
	if !reflect.DeepEqual(got.Tags, wantTags) {
		t.Errorf("tags = %v, want %v", got.Tags, wantTags)
	}
	if got.Links == nil {
		t.Error("links should be [] not nil")
	}
}

func TestPrintJSON_EmptyResult(t *testing.T) {
	output := captureOutput(func() {
		printJSON([]ItemJSON{})
	})

	var result []ItemJSON
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, output)
	}
	if len(result) != 0 {
		t.Errorf("expected empty array, got %d items", len(result))
	}
	if output == "null\n" {
		t.Error("empty result should print [] not null")
	}
}

func TestStatsJSON_Fields(t *testing.T) {
	output := captureOutput(func() {
		printJSON(StatsJSON{Documents: 2, Items: 7, Projects: 2, Tasks: 4, Notes: 1, Done: 1, Pending: 3})
	})

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, field := range []string{"documents", "items", "projects", "tasks", "notes", "done", "pending"} {
		if _, has := raw[field]; !has {
			t.Errorf("missing field %q", field)
		}
	}
	if string(raw["pending"]) != "3" {
		t.Errorf("pending = %s, want 3", raw["pending"])
	}
}

func TestSearchResultJSON_RoundTrip(t *testing.T) {
	output := captureOutput(func() {
		printJSON([]SearchResultJSON{{
			File:    "/notes/home.taskpaper",
			Line:    2,
			Type:    "task",
			Text:    "- Buy some apples @food",
			Snippet: "Buy some [apples]",
		}})
	})

	var result []SearchResultJSON
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, output)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result))
	}
	if result[0].Snippet != "Buy some [apples]" {
		t.Errorf("snippet = %q", result[0].Snippet)
	}
}
