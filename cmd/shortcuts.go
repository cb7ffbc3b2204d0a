package cmd

import (
	"fmt"
	"io"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

var shortcutsCmd = &cobra.Command{
	Use:     "shortcuts",
	Aliases: []string{"sc"},
	Short:   "List icon shortcuts",
	GroupID: "text",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		if err := writeShortcuts(cmd.OutOrStdout(), jsonOut); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	},
}

func writeShortcuts(w io.Writer, jsonOut bool) error {
	shortcuts := keyword.Shortcuts()
	if jsonOut {
		return writeJSON(w, shortcuts)
	}
	for _, sc := range shortcuts {
		fmt.Fprintln(w, output.FormatShortcut(sc))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(shortcutsCmd)

	shortcutsCmd.Flags().Bool("json", false, "Output as JSON")
}
