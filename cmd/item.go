package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/bazaargen/bazaargen/internal/render"
	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"items"},
	Short:   "Create and manage item cards",
	GroupID: "cards",
}

var itemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an item",
	Long: `Creates an item card. Without --name an interactive form is shown.

Effect flags are repeatable. A value of "-" reads lines from stdin and
"@path" reads lines from a file.`,
	Example: `  bazaargen item add --name "Venom Fang" --tier gold --cooldown 4 --use "Poison 3/6"
  bazaargen item add --name Shield --passive @passive.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		item := &models.Item{}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			if !stdinIsTerminal() {
				output.Error("--name is required when not running interactively")
				return errNameRequired
			}
			if err := runItemForm(item); err != nil {
				output.Error("%v", err)
				return err
			}
		} else if err := itemFromFlags(cmd, item); err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if err := stampAuthor(&item.AuthorID, &item.AuthorName); err != nil {
			output.Error("%v", err)
			return err
		}

		if err := database.CreateItem(item); err != nil {
			output.Error("failed to create item: %v", err)
			return err
		}

		warnEffectText(item.Texts())
		fmt.Printf("CREATED %s\n", item.ID)
		return nil
	},
}

// itemFromFlags fills item from add flags
func itemFromFlags(cmd *cobra.Command, item *models.Item) error {
	item.Name, _ = cmd.Flags().GetString("name")
	item.Hero, _ = cmd.Flags().GetString("hero")
	tier, _ := cmd.Flags().GetString("tier")
	size, _ := cmd.Flags().GetString("size")
	item.Tier = models.NormalizeTier(tier)
	item.Size = models.NormalizeSize(size)
	item.Cooldown, _ = cmd.Flags().GetFloat64("cooldown")
	item.Ammo, _ = cmd.Flags().GetInt("ammo")
	item.Tags, _ = cmd.Flags().GetStringSlice("tag")

	use, _ := cmd.Flags().GetStringArray("use")
	passive, _ := cmd.Flags().GetStringArray("passive")
	quests, _ := cmd.Flags().GetStringArray("quest")

	stdin := cmd.InOrStdin()
	stdinUsed := false
	item.OnUse, stdinUsed = expandFlagValues(use, stdin, stdinUsed)
	item.Passive, stdinUsed = expandFlagValues(passive, stdin, stdinUsed)
	item.Quests, _ = expandFlagValues(quests, stdin, stdinUsed)

	if !models.IsValidTier(item.Tier) {
		return fmt.Errorf("invalid tier: %s", tier)
	}
	if !models.IsValidSize(item.Size) {
		return fmt.Errorf("invalid size: %s", size)
	}
	return nil
}

// stampAuthor fills the local author identity into a new card
func stampAuthor(id, name *string) error {
	baseDir := getBaseDir()
	authorID, err := config.EnsureAuthor(baseDir)
	if err != nil {
		return fmt.Errorf("author id: %w", err)
	}
	*id = authorID
	*name, _ = config.Get(baseDir, config.KeyAuthorName)
	return nil
}

// warnEffectText prints advisory validation warnings for saved text
func warnEffectText(texts []string) {
	for _, text := range texts {
		for _, w := range keyword.Validate(text).Warnings {
			output.Warning("%s", w)
		}
	}
}

var itemListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		items, err := database.ListItems(opts)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(items)
		}
		if len(items) == 0 {
			fmt.Println("No items")
			return nil
		}
		width := output.TerminalWidth(0)
		for i := range items {
			card := db.ItemCard(&items[i])
			fmt.Println(output.FormatCardShort(&card, width))
		}
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an item card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		item, err := database.GetItem(args[0])
		if err != nil {
			reportLookupError(cmd, args[0], err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(item)
		}
		fmt.Println(render.ItemTerminal(processorFor(cmd), item, output.TerminalWidth(0)))
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete items",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		var failed error
		for _, id := range args {
			if err := database.DeleteItem(id); err != nil {
				output.Error("failed to delete %s: %v", id, err)
				failed = err
				continue
			}
			fmt.Printf("DELETED %s\n", id)
		}
		return failed
	},
}

// reportLookupError prints a not-found or generic error, as JSON under --json
func reportLookupError(cmd *cobra.Command, id string, err error) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	code := output.ErrCodeDatabaseError
	if errors.Is(err, db.ErrNotFound) {
		code = output.ErrCodeNotFound
	}
	slog.Debug("lookup failed", "id", id, "err", err)
	if jsonOut {
		output.JSONErrorWithDetails(code, err.Error(), map[string]interface{}{"id": id})
		return
	}
	if code == output.ErrCodeNotFound {
		fmt.Fprintf(os.Stderr, "no card with id %s\n", id)
		return
	}
	output.Error("%v", err)
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("hero", "", "Filter by hero")
	cmd.Flags().String("tier", "", "Filter by tier")
	cmd.Flags().String("author", "", "Filter by author id")
	cmd.Flags().Bool("mine", false, "Only cards by the local author")
	cmd.Flags().StringP("search", "s", "", "Search names and effect text")
	cmd.Flags().String("since", "", "Only cards created within a duration (e.g. 24h)")
	cmd.Flags().IntP("limit", "n", 50, "Max results (0 for no limit)")
	cmd.Flags().Bool("json", false, "Output as JSON")
}

func addItemFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Item name")
	cmd.Flags().String("hero", "", "Hero the item belongs to")
	cmd.Flags().StringP("tier", "t", string(models.TierBronze), "Tier: bronze, silver, gold, diamond, legendary")
	cmd.Flags().String("size", string(models.SizeSmall), "Size: small, medium, large")
	cmd.Flags().Float64("cooldown", 0, "Cooldown in seconds (0 for passive items)")
	cmd.Flags().Int("ammo", 0, "Ammo count")
	cmd.Flags().StringSlice("tag", nil, "Tag (repeatable or comma-separated)")
	cmd.Flags().StringArray("use", nil, "On-use effect line (repeatable)")
	cmd.Flags().StringArray("passive", nil, "Passive effect line (repeatable)")
	cmd.Flags().StringArray("quest", nil, "Quest line (repeatable)")
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemAddCmd, itemListCmd, itemShowCmd, itemDeleteCmd)

	addItemFlags(itemAddCmd)

	addListFlags(itemListCmd)
	itemShowCmd.Flags().Bool("json", false, "Output as JSON")
	itemShowCmd.Flags().String("icon-base", "", "Icon URL prefix (overrides config)")
}
