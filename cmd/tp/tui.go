package main

import (
	"github.com/spf13/cobra"

	"github.com/baiirun/taskpaper/internal/document"
	"github.com/baiirun/taskpaper/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <file>",
	Short: "Edit a TaskPaper file interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Open(args[0])
		if err != nil {
			return err
		}
		return tui.Run(doc)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
