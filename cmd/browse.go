package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bazaargen/bazaargen/internal/collection"
	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse submitted items and skills, newest first",
	Long: `Lists items and skills together, newest first. With --collections,
consecutive uploads by one author within the collection window are grouped.`,
	Example: `  bazaargen browse --hero vanessa --tier gold
  bazaargen browse --collections --since 7d`,
	GroupID: "query",
	RunE: func(cmd *cobra.Command, args []string) error {
		listOpts, err := listOptionsFromFlags(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		opts := db.BrowseOptions{ListOptions: listOpts, Kind: models.Kind(strings.ToLower(kind))}
		if opts.Kind != "" && !models.IsValidKind(opts.Kind) {
			output.Error("invalid kind: %s (use item or skill)", kind)
			return fmt.Errorf("invalid kind: %s", kind)
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		cards, err := database.Browse(opts)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		grouped, _ := cmd.Flags().GetBool("collections")
		if !grouped {
			if jsonOut {
				return output.JSON(cards)
			}
			writeCards(cmd.OutOrStdout(), cards, output.TerminalWidth(0))
			return nil
		}

		window, err := config.GetCollectionWindow(getBaseDir())
		if err != nil {
			output.Warning("using default collection window: %v", err)
		}
		if w, _ := cmd.Flags().GetDuration("window"); w > 0 {
			window = w
		}

		groups := collection.Detect(cards, window)
		if jsonOut {
			return output.JSON(groups)
		}
		writeGroups(cmd.OutOrStdout(), groups, output.TerminalWidth(0))
		return nil
	},
}

func writeCards(w io.Writer, cards []models.Card, width int) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards")
		return
	}
	for i := range cards {
		fmt.Fprintln(w, output.FormatCardShort(&cards[i], width))
	}
}

func writeGroups(w io.Writer, groups []collection.Group, width int) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No cards")
		return
	}
	for _, g := range groups {
		if g.Card != nil {
			fmt.Fprintln(w, output.FormatCardShort(g.Card, width))
			continue
		}
		fmt.Fprintln(w, output.FormatCollectionHeader(g.Collection))
		for i := range g.Collection.Cards {
			fmt.Fprintln(w, "  "+output.FormatCardShort(&g.Collection.Cards[i], width-2))
		}
	}
}

// listOptionsFromFlags reads the shared filter flags added by addListFlags
func listOptionsFromFlags(cmd *cobra.Command) (db.ListOptions, error) {
	var opts db.ListOptions
	opts.Hero, _ = cmd.Flags().GetString("hero")
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.AuthorID, _ = cmd.Flags().GetString("author")
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	if tier, _ := cmd.Flags().GetString("tier"); tier != "" {
		opts.Tier = models.NormalizeTier(tier)
		if !models.IsValidTier(opts.Tier) {
			return opts, fmt.Errorf("invalid tier: %s", tier)
		}
	}

	if mine, _ := cmd.Flags().GetBool("mine"); mine {
		id, err := config.Get(getBaseDir(), config.KeyAuthorID)
		if err != nil {
			return opts, err
		}
		if id == "" {
			return opts, fmt.Errorf("no local author yet; run 'bazaargen init' first")
		}
		opts.AuthorID = id
	}

	if since, _ := cmd.Flags().GetString("since"); since != "" {
		d, err := parseSince(since)
		if err != nil {
			return opts, err
		}
		opts.Since = time.Now().Add(-d)
	}
	return opts, nil
}

// parseSince parses a Go duration or a whole number of days ("7d")
func parseSince(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration: %s", s)
}

func init() {
	rootCmd.AddCommand(browseCmd)

	addListFlags(browseCmd)
	browseCmd.Flags().String("kind", "", "Only items or skills")
	browseCmd.Flags().Bool("collections", false, "Group consecutive uploads by one author")
	browseCmd.Flags().Duration("window", 0, "Collection window (overrides config)")
}
