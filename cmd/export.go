package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/bazaargen/bazaargen/internal/render"
	"github.com/spf13/cobra"
)

const formatPlain = "plain"

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a card as HTML, plain text or JSON",
	Example: `  bazaargen export it-1a2b3c4d > card.html
  bazaargen export sk-0f0f0f0f --format plain`,
	GroupID: "cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case formatHTML, formatPlain, formatJSON:
		default:
			output.Error("unknown format %q (use html, plain or json)", format)
			return fmt.Errorf("unknown format: %s", format)
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		var buf bytes.Buffer
		if err := exportCard(&buf, database, processorFor(cmd), id, format); err != nil {
			reportLookupError(cmd, id, err)
			return err
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := writeFileAtomic(path, buf.Bytes()); err != nil {
			output.Error("write %s: %v", path, err)
			return err
		}
		return nil
	},
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory, so a failed write never leaves a truncated file behind. An
// existing file keeps its permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func exportCard(w io.Writer, database *db.DB, p *keyword.Processor, id, format string) error {
	kind, ok := db.KindOfID(id)
	if !ok {
		return fmt.Errorf("%w: %s", db.ErrNotFound, id)
	}

	switch kind {
	case models.KindItem:
		item, err := database.GetItem(id)
		if err != nil {
			return err
		}
		switch format {
		case formatJSON:
			return writeJSON(w, item)
		case formatPlain:
			return writePlain(w, item.Name, map[string][]string{
				"Use": item.OnUse, "Passive": item.Passive, "Quest": item.Quests,
			}, []string{"Use", "Passive", "Quest"})
		}
		html, err := render.ItemHTML(p, item)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, html)
		return err

	default:
		skill, err := database.GetSkill(id)
		if err != nil {
			return err
		}
		switch format {
		case formatJSON:
			return writeJSON(w, skill)
		case formatPlain:
			return writePlain(w, skill.Name, map[string][]string{"Effect": {skill.Effect}}, []string{"Effect"})
		}
		html, err := render.SkillHTML(p, skill)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, html)
		return err
	}
}

// writePlain prints the card name and each non-empty section with markup stripped
func writePlain(w io.Writer, name string, sections map[string][]string, order []string) error {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("\n")
	for _, label := range order {
		for _, text := range sections[label] {
			plain := strings.TrimSpace(keyword.Strip(text))
			if plain == "" {
				continue
			}
			fmt.Fprintf(&sb, "%s: %s\n", label, plain)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", formatHTML, "Output format: html, plain, json")
	exportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().String("icon-base", "", "Icon URL prefix (overrides config)")
	exportCmd.Flags().Bool("json", false, "Report errors as JSON")
}
