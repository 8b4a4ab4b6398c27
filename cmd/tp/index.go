package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/baiirun/taskpaper/internal/document"
)

var flagSearchLimit int

var reindexCmd = &cobra.Command{
	Use:   "reindex [dir]",
	Short: "Rebuild the index from the TaskPaper files under a directory",
	Long: `Walk a directory for TaskPaper files and index each one, replacing
whatever the index held for it before. Documents whose files no longer
exist are pruned. The directory defaults to the configured one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		return runReindex(root)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search across all indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(args, flagSearchLimit)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show tag usage across all indexed documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTags()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats()
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(statsCmd)
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "Maximum number of results")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	tagsCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

func runReindex(root string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if root == "" {
		root = cfg.Dir
	}

	paths, err := document.FindFiles(root, cfg.Extensions)
	if err != nil {
		return err
	}

	database, err := openIndex()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	indexed := 0
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		doc, err := document.Open(abs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			continue
		}
		if err := database.IndexDocument(abs, doc); err != nil {
			return err
		}
		indexed++
	}

	// Prune documents whose files are gone
	docs, err := database.Documents()
	if err != nil {
		return err
	}
	pruned := 0
	for _, d := range docs {
		_, err := os.Stat(d.Path)
		if errors.Is(err, fs.ErrNotExist) {
			if err := database.DeleteDocument(d.Path); err != nil {
				return err
			}
			pruned++
		}
	}

	if pruned > 0 {
		fmt.Printf("indexed %d documents, pruned %d\n", indexed, pruned)
	} else {
		fmt.Printf("indexed %d documents\n", indexed)
	}
	return nil
}

func runSearch(terms []string, limit int) error {
	database, err := openIndex()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	query := buildMatchQuery(terms)
	results, err := database.SearchItems(query, limit)
	if err != nil {
		return err
	}

	if flagJSON {
		jsonResults := make([]SearchResultJSON, 0, len(results))
		for _, r := range results {
			jsonResults = append(jsonResults, SearchResultJSON{
				File:    r.Item.Document,
				Line:    r.Item.Line,
				Type:    string(r.Item.Type),
				Text:    r.Item.Text,
				Snippet: r.Snippet,
			})
		}
		printJSON(jsonResults)
		return nil
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"FILE", "LINE", "MATCH"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Item.Document, r.Item.Line, r.Snippet})
	}
	t.Render()
	return nil
}

// buildMatchQuery quotes each term so FTS5 operators in user input
// ("-", ":") read as plain text, then ANDs them together.
func buildMatchQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

func runTags() error {
	database, err := openIndex()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	counts, err := database.TagCounts()
	if err != nil {
		return err
	}

	if flagJSON {
		jsonCounts := make([]TagCountJSON, 0, len(counts))
		for _, c := range counts {
			jsonCounts = append(jsonCounts, TagCountJSON{Name: c.Name, Count: c.Count, Values: c.Values})
		}
		printJSON(jsonCounts)
		return nil
	}
	if len(counts) == 0 {
		fmt.Println("no tags indexed")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"TAG", "COUNT", "VALUES"})
	for _, c := range counts {
		t.AppendRow(table.Row{"@" + c.Name, c.Count, c.Values})
	}
	t.Render()
	return nil
}

func runStats() error {
	database, err := openIndex()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	stats, err := database.IndexStats()
	if err != nil {
		return err
	}

	if flagJSON {
		printJSON(StatsJSON{
			Documents: stats.Documents,
			Items:     stats.Items,
			Projects:  stats.Projects,
			Tasks:     stats.Tasks,
			Notes:     stats.Notes,
			Done:      stats.Done,
			Pending:   stats.Pending,
		})
		return nil
	}

	fmt.Printf("documents: %d\n", stats.Documents)
	fmt.Printf("items: %d (%d projects, %d tasks, %d notes)\n", stats.Items, stats.Projects, stats.Tasks, stats.Notes)
	fmt.Printf("tasks: %d done, %d pending\n", stats.Done, stats.Pending)
	return nil
}
