package cmd

import (
	"fmt"
	"io"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/bazaargen/bazaargen/internal/render"
	"github.com/spf13/cobra"
)

// Output formats for process
const (
	formatHTML = "html"
	formatANSI = "ansi"
	formatJSON = "json"
)

// processResult is the --format json payload
type processResult struct {
	Input    string   `json:"input"`
	HTML     string   `json:"html"`
	Plain    string   `json:"plain"`
	Warnings []string `json:"warnings"`
}

var processCmd = &cobra.Command{
	Use:   "process [text...]",
	Short: "Render effect text to styled markup",
	Long: `Converts shortcut markup into styled HTML. Reads stdin when no text is given.

Formats:
  html  markup for embedding in a card page (default)
  ansi  colored terminal text
  json  input, markup, stripped text and validation warnings`,
	Example: `  bazaargen process "Deal /d 10/20/30/40 damage"
  echo "/c00ff00 Green text" | bazaargen process --format ansi`,
	GroupID: "text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readTextInput(args, cmd.InOrStdin())
		if err != nil {
			output.Error("failed to read input: %v", err)
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if err := writeProcessed(cmd.OutOrStdout(), processorFor(cmd), text, format); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	},
}

func writeProcessed(w io.Writer, p *keyword.Processor, text, format string) error {
	markup := p.Process(text)

	switch format {
	case "", formatHTML:
		_, err := fmt.Fprintln(w, markup)
		return err
	case formatANSI:
		_, err := fmt.Fprintln(w, render.ANSI(markup))
		return err
	case formatJSON:
		return writeJSON(w, processResult{
			Input:    text,
			HTML:     markup,
			Plain:    keyword.Strip(markup),
			Warnings: keyword.Validate(text).Warnings,
		})
	default:
		return fmt.Errorf("unknown format %q (use html, ansi or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("format", "f", formatHTML, "Output format: html, ansi, json")
	processCmd.Flags().String("icon-base", "", "Icon URL prefix (overrides config)")
}
