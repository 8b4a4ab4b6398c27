package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baiirun/taskpaper/internal/document"
)

var addCmd = &cobra.Command{
	Use:   "add <file> <text>...",
	Short: "Append a line to a TaskPaper file",
	Long: `Append one line to a file, creating the file when it does not exist
yet. The text is taken verbatim, so quote tags that your shell would
otherwise expand: tp add todo.taskpaper "- buy milk @urgent"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(args[0], strings.Join(args[1:], " "))
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <file> <line>",
	Short: "Mark the item on a line as done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}
		return runDone(args[0], line, true)
	},
}

var undoneCmd = &cobra.Command{
	Use:   "undone <file> <line>",
	Short: "Clear the done state of the item on a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := parseLine(args[1])
		if err != nil {
			return err
		}
		return runDone(args[0], line, false)
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Edit the tags of an item",
}

var tagSetCmd = &cobra.Command{
	Use:   "set <file> <line> <name> [value]",
	Short: "Set a tag, replacing any existing tag with the same name",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagSet(args[0], args[1], args[2], optionalArg(args, 3), false)
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <file> <line> <name> [value]",
	Short: "Add a tag, keeping any existing tags with the same name",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagSet(args[0], args[1], args[2], optionalArg(args, 3), true)
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <file> <line> <name> [value]",
	Short: "Remove tags by name, or by name and value",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value *string
		if len(args) == 4 {
			value = &args[3]
		}
		return runTagRemove(args[0], args[1], args[2], value)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagSetCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
}

func parseLine(s string) (int, error) {
	line, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid line number %q", s)
	}
	return line, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runAdd(path, text string) error {
	doc, err := document.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		doc = document.New(path)
	} else if err != nil {
		return err
	}

	item := doc.Add(text)
	if err := doc.Save(); err != nil {
		return err
	}

	fmt.Printf("added %s %s:%d\n", item.Type(), path, doc.Len())
	return nil
}

func runDone(path string, line int, done bool) error {
	var updated string
	err := document.Edit(path, func(doc *document.Document) error {
		item, err := doc.Item(line)
		if err != nil {
			return err
		}
		if done {
			item.MarkDone()
		} else {
			item.MarkUndone()
		}
		updated = item.String()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(updated)
	return nil
}

func runTagSet(path, lineArg, name, value string, add bool) error {
	line, err := parseLine(lineArg)
	if err != nil {
		return err
	}

	var updated string
	err = document.Edit(path, func(doc *document.Document) error {
		item, err := doc.Item(line)
		if err != nil {
			return err
		}
		if add {
			err = item.AddTag(name, value)
		} else {
			err = item.SetTag(name, value)
		}
		if err != nil {
			return err
		}
		updated = item.String()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println(updated)
	return nil
}

func runTagRemove(path, lineArg, name string, value *string) error {
	line, err := parseLine(lineArg)
	if err != nil {
		return err
	}

	var updated string
	var removed int
	err = document.Edit(path, func(doc *document.Document) error {
		item, err := doc.Item(line)
		if err != nil {
			return err
		}
		if value == nil {
			removed = item.RemoveTag(name)
		} else {
			removed = item.RemoveTagValue(name, *value)
		}
		updated = item.String()
		return nil
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Printf("no @%s tag on line %d\n", name, line)
		return nil
	}
	fmt.Println(updated)
	return nil
}
