package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/baiirun/taskpaper/internal/db"
	"github.com/baiirun/taskpaper/internal/document"
	"github.com/baiirun/taskpaper/internal/model"
)

var (
	flagListType    string
	flagListTag     string
	flagListDoc     string
	flagListDone    bool
	flagListPending bool
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List items from a file or from the index",
	Long: `List the items of one TaskPaper file, or of every indexed document
when no file is given. Filters combine; an item must match all of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := buildListFilter()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return runListFile(args[0], filter)
		}
		return runListIndex(filter)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&flagListType, "type", "", "Filter by item type (project, task, note)")
	listCmd.Flags().StringVar(&flagListTag, "tag", "", "Filter by tag, as name or name=value")
	listCmd.Flags().StringVar(&flagListDoc, "doc", "", "Restrict an index listing to one document path")
	listCmd.Flags().BoolVar(&flagListDone, "done", false, "Only done items")
	listCmd.Flags().BoolVar(&flagListPending, "pending", false, "Only items not done")
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

// listFilter is the flag set of the list command in filterable form.
type listFilter struct {
	typ      model.ItemType
	tagName  string
	tagValue *string
	done     *bool
}

func buildListFilter() (listFilter, error) {
	var f listFilter

	if flagListType != "" {
		f.typ = model.ItemType(flagListType)
		if !f.typ.IsValid() {
			return f, fmt.Errorf("invalid type %q (want project, task, or note)", flagListType)
		}
	}
	if flagListTag != "" {
		f.tagName, f.tagValue = parseTagFlag(flagListTag)
	}
	if flagListDone && flagListPending {
		return f, fmt.Errorf("--done and --pending are mutually exclusive")
	}
	if flagListDone {
		done := true
		f.done = &done
	}
	if flagListPending {
		done := false
		f.done = &done
	}
	return f, nil
}

// parseTagFlag splits a --tag argument into name and optional value.
// "food" matches any @food; "priority=2" matches only @priority(2).
func parseTagFlag(s string) (string, *string) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		return name, nil
	}
	return name, &value
}

func (f listFilter) matches(item *model.Item) bool {
	if f.typ != "" && item.Type() != f.typ {
		return false
	}
	if f.tagName != "" {
		if f.tagValue == nil {
			if !item.HasTag(f.tagName) {
				return false
			}
		} else if !item.HasTagValue(f.tagName, *f.tagValue) {
			return false
		}
	}
	if f.done != nil && item.Done() != *f.done {
		return false
	}
	return true
}

func runListFile(path string, f listFilter) error {
	doc, err := document.Open(path)
	if err != nil {
		return err
	}

	items := make([]ItemJSON, 0, doc.Len())
	for i, item := range doc.Items() {
		if !f.matches(item) {
			continue
		}
		items = append(items, newItemJSON(i+1, item))
	}

	if flagJSON {
		printJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("no matching items")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"LINE", "TYPE", "TEXT"})
	for _, item := range items {
		t.AppendRow(table.Row{item.Line, item.Type, item.Text})
	}
	t.Render()
	return nil
}

func runListIndex(f listFilter) error {
	database, err := openIndex()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	items, err := database.ListItems(db.ItemFilter{
		Document: flagListDoc,
		Type:     f.typ,
		TagName:  f.tagName,
		TagValue: f.tagValue,
		Done:     f.done,
	})
	if err != nil {
		return err
	}

	if flagJSON {
		jsonItems := make([]IndexedItemJSON, 0, len(items))
		for _, item := range items {
			jsonItems = append(jsonItems, newIndexedItemJSON(item))
		}
		printJSON(jsonItems)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("no matching items")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"FILE", "LINE", "TYPE", "TEXT"})
	for _, item := range items {
		t.AppendRow(table.Row{item.Document, item.Line, item.Type, item.Text})
	}
	t.Render()
	return nil
}
