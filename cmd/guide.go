package cmd

import (
	"fmt"
	"strings"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:     "guide",
	Short:   "Show the effect text syntax guide",
	GroupID: "text",
	RunE: func(cmd *cobra.Command, args []string) error {
		md := syntaxGuide()

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		}

		rendered, err := output.RenderMarkdown(md)
		if err != nil {
			output.Warning("markdown render failed: %v", err)
			rendered = md
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// syntaxGuide builds the guide from the live keyword and shortcut tables
func syntaxGuide() string {
	var sb strings.Builder

	sb.WriteString("# Effect Text Syntax\n\n")
	sb.WriteString("Effect text is plain prose with three kinds of markup.\n\n")

	sb.WriteString("## Icons\n\n")
	sb.WriteString("Type a shortcut to insert a keyword icon. Two-letter shortcuts win over ")
	sb.WriteString("one-letter ones, so `/de` is destroy while `/d` is damage. ")
	sb.WriteString("A shortcut may be glued to following letters: `/heal` is the heal icon followed by `al`.\n\n")
	sb.WriteString("| Shortcut | Keyword | Color |\n|---|---|---|\n")
	for _, sc := range keyword.Shortcuts() {
		fmt.Fprintf(&sb, "| `%s` | %s | `%s` |\n", sc.Key, sc.Keyword, sc.Color)
	}

	sb.WriteString("\n## Keywords\n\n")
	sb.WriteString("These words are colored wherever they appear as whole words, in any case:\n\n")
	var words []string
	for _, r := range keyword.Rules() {
		words = append(words, r.Keyword)
	}
	sb.WriteString(strings.Join(words, ", "))
	sb.WriteString("\n\n")

	sb.WriteString("## Custom colors\n\n")
	sb.WriteString("`/cRRGGBB` colors the words that follow it on the same line, up to the next shortcut.\n\n")
	sb.WriteString("    /cff0000 Red words here /d stay plain after the icon\n\n")

	sb.WriteString("## Tiered values\n\n")
	sb.WriteString("Slash-separated numbers are colored by tier. The last value is always diamond, ")
	sb.WriteString("so `10/20` reads gold then diamond.\n\n")
	sb.WriteString("| Tier | Color |\n|---|---|\n")
	for _, tier := range []keyword.Tier{keyword.TierBronze, keyword.TierSilver, keyword.TierGold, keyword.TierDiamond} {
		fmt.Fprintf(&sb, "| %s | `%s` |\n", tier, tier.Color())
	}

	return sb.String()
}

func init() {
	rootCmd.AddCommand(guideCmd)

	guideCmd.Flags().Bool("raw", false, "Print the markdown source without rendering")
}
