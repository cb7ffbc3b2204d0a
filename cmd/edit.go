package cmd

import (
	"fmt"
	"strings"

	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/bazaargen/bazaargen/pkg/editor"
	"github.com/spf13/cobra"
)

// Item effect sections accepted by --section
const (
	sectionUse     = "use"
	sectionPassive = "passive"
	sectionQuest   = "quest"
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit effect text with a live preview",
	Long: `Opens a full-screen editor with a live keyword preview.

Without an id the editor is a scratchpad and the final text is printed.
With a skill id the skill's effect is edited. With an item id one effect
line is edited: --section picks use, passive or quest and --line picks
the 1-based line (0 appends a new one). Saving an empty line removes it.

ctrl+s saves, esc cancels.`,
	GroupID: "cards",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := processorFor(cmd)

		if len(args) == 0 {
			initial, _ := cmd.Flags().GetString("text")
			text, ok, err := editor.Run(p, "Scratchpad", initial)
			if err != nil {
				output.Error("editor failed: %v", err)
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		id := args[0]
		kind, ok := db.KindOfID(id)
		if !ok {
			output.Error("unrecognized id: %s", id)
			return fmt.Errorf("unrecognized id: %s", id)
		}

		switch kind {
		case models.KindSkill:
			skill, err := database.GetSkill(id)
			if err != nil {
				reportLookupError(cmd, id, err)
				return err
			}
			text, ok, err := editor.Run(p, skill.Name+" · effect", skill.Effect)
			if err != nil {
				output.Error("editor failed: %v", err)
				return err
			}
			if !ok {
				fmt.Println("Cancelled")
				return nil
			}
			skill.Effect = text
			if err := database.UpdateSkill(skill); err != nil {
				output.Error("failed to save %s: %v", id, err)
				return err
			}

		case models.KindItem:
			item, err := database.GetItem(id)
			if err != nil {
				reportLookupError(cmd, id, err)
				return err
			}
			section, _ := cmd.Flags().GetString("section")
			line, _ := cmd.Flags().GetInt("line")

			lines, err := itemSection(item, section)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if line < 0 || line > len(*lines) {
				output.Error("line %d out of range (item has %d %s lines)", line, len(*lines), section)
				return fmt.Errorf("line out of range: %d", line)
			}

			initial := ""
			if line > 0 {
				initial = (*lines)[line-1]
			}
			text, ok, err := editor.Run(p, fmt.Sprintf("%s · %s", item.Name, section), initial)
			if err != nil {
				output.Error("editor failed: %v", err)
				return err
			}
			if !ok {
				fmt.Println("Cancelled")
				return nil
			}
			*lines = replaceLine(*lines, line, text)
			if err := database.UpdateItem(item); err != nil {
				output.Error("failed to save %s: %v", id, err)
				return err
			}
		}

		output.Success("UPDATED %s", id)
		return nil
	},
}

// itemSection returns a pointer to the effect list named by section
func itemSection(item *models.Item, section string) (*[]string, error) {
	switch strings.ToLower(section) {
	case "", sectionUse:
		return &item.OnUse, nil
	case sectionPassive:
		return &item.Passive, nil
	case sectionQuest:
		return &item.Quests, nil
	}
	return nil, fmt.Errorf("invalid section: %s (use %s, %s or %s)", section, sectionUse, sectionPassive, sectionQuest)
}

// replaceLine sets the 1-based line to text. Line 0 appends; empty text
// removes the line.
func replaceLine(lines []string, line int, text string) []string {
	text = strings.TrimSpace(text)
	if line == 0 {
		if text == "" {
			return lines
		}
		return append(lines, text)
	}
	if text == "" {
		return append(lines[:line-1:line-1], lines[line:]...)
	}
	out := append([]string(nil), lines...)
	out[line-1] = text
	return out
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("text", "", "Initial scratchpad text")
	editCmd.Flags().String("section", sectionUse, "Item section: use, passive, quest")
	editCmd.Flags().Int("line", 0, "Item line to edit, 1-based (0 appends)")
	editCmd.Flags().String("icon-base", "", "Icon URL prefix (overrides config)")
}
