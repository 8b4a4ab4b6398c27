package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/baiirun/taskpaper/internal/config"
	"github.com/baiirun/taskpaper/internal/db"
)

var (
	flagConfig string
	flagDB     string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "tp",
	Short: "Work with plain-text TaskPaper lists",
	Long: `A CLI for TaskPaper files: read and edit projects, tasks, and notes
line by line, and search across files through a SQLite index. Edits
rewrite only the lines they change; every other line round-trips
byte for byte.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.tp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Index database (default from config)")
}

// loadConfig reads the configured or default config file.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// openIndex opens the index database, creating the schema if needed.
// The path comes from --db, then the config file, then the built-in
// default.
func openIndex() (*db.DB, error) {
	path := flagDB
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.IndexPath
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := database.Init(); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
