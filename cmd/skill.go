package cmd

import (
	"fmt"
	"strings"

	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/bazaargen/bazaargen/internal/render"
	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:     "skill",
	Aliases: []string{"skills"},
	Short:   "Create and manage skill cards",
	GroupID: "cards",
}

var skillAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a skill",
	Long: `Creates a skill card. Without --name an interactive form is shown.
--effect "-" reads the effect from stdin and "@path" from a file.`,
	Example: `  bazaargen skill add --name "Second Wind" --tier silver --effect "/h Heal 20/40"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skill := &models.Skill{}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			if !stdinIsTerminal() {
				output.Error("--name is required when not running interactively")
				return errNameRequired
			}
			if err := runSkillForm(skill); err != nil {
				output.Error("%v", err)
				return err
			}
		} else {
			skill.Name = name
			skill.Hero, _ = cmd.Flags().GetString("hero")
			tier, _ := cmd.Flags().GetString("tier")
			skill.Tier = models.NormalizeTier(tier)
			effect, _ := cmd.Flags().GetString("effect")
			lines, _ := expandFlagValues([]string{effect}, cmd.InOrStdin(), false)
			skill.Effect = strings.Join(lines, "\n")
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if err := stampAuthor(&skill.AuthorID, &skill.AuthorName); err != nil {
			output.Error("%v", err)
			return err
		}

		if err := database.CreateSkill(skill); err != nil {
			output.Error("failed to create skill: %v", err)
			return err
		}

		warnEffectText([]string{skill.Effect})
		fmt.Printf("CREATED %s\n", skill.ID)
		return nil
	},
}

var skillListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List skills, newest first",
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

		skills, err := database.ListSkills(opts)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(skills)
		}
		if len(skills) == 0 {
			fmt.Println("No skills")
			return nil
		}
		width := output.TerminalWidth(0)
		for i := range skills {
			card := db.SkillCard(&skills[i])
			fmt.Println(output.FormatCardShort(&card, width))
		}
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a skill card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		skill, err := database.GetSkill(args[0])
		if err != nil {
			reportLookupError(cmd, args[0], err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(skill)
		}
		fmt.Println(render.SkillTerminal(processorFor(cmd), skill, output.TerminalWidth(0)))
		return nil
	},
}

var skillDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete skills",
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
			if err := database.DeleteSkill(id); err != nil {
				output.Error("failed to delete %s: %v", id, err)
				failed = err
				continue
			}
			fmt.Printf("DELETED %s\n", id)
		}
		return failed
	},
}

func init() {
	rootCmd.AddCommand(skillCmd)
	skillCmd.AddCommand(skillAddCmd, skillListCmd, skillShowCmd, skillDeleteCmd)

	skillAddCmd.Flags().String("name", "", "Skill name")
	skillAddCmd.Flags().String("hero", "", "Hero the skill belongs to")
	skillAddCmd.Flags().StringP("tier", "t", string(models.TierBronze), "Tier: bronze, silver, gold, diamond, legendary")
	skillAddCmd.Flags().String("effect", "", "Effect text")

	addListFlags(skillListCmd)
	skillShowCmd.Flags().Bool("json", false, "Output as JSON")
	skillShowCmd.Flags().String("icon-base", "", "Icon URL prefix (overrides config)")
}
