package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var errNameRequired = errors.New("name is required")

// stdinIsTerminal reports whether interactive forms can be shown
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func tierOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Bronze", string(models.TierBronze)),
		huh.NewOption("Silver", string(models.TierSilver)),
		huh.NewOption("Gold", string(models.TierGold)),
		huh.NewOption("Diamond", string(models.TierDiamond)),
		huh.NewOption("Legendary", string(models.TierLegendary)),
	}
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errNameRequired
	}
	return nil
}

// itemFormValues holds the string-bound fields of the item form
type itemFormValues struct {
	Name     string
	Hero     string
	Tier     string
	Size     string
	Cooldown string
	Ammo     string
	Tags     string // Comma-separated
	OnUse    string // One effect per line
	Passive  string
	Quests   string
}

func (v *itemFormValues) apply(item *models.Item) error {
	item.Name = strings.TrimSpace(v.Name)
	item.Hero = strings.TrimSpace(v.Hero)
	item.Tier = models.NormalizeTier(v.Tier)
	item.Size = models.NormalizeSize(v.Size)

	if s := strings.TrimSpace(v.Cooldown); s != "" {
		cd, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid cooldown %q", s)
		}
		item.Cooldown = cd
	}
	if s := strings.TrimSpace(v.Ammo); s != "" {
		ammo, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid ammo %q", s)
		}
		item.Ammo = ammo
	}

	item.Tags = splitComma(v.Tags)
	item.OnUse = splitLines(v.OnUse)
	item.Passive = splitLines(v.Passive)
	item.Quests = splitLines(v.Quests)
	return nil
}

// runItemForm collects a new item interactively
func runItemForm(item *models.Item) error {
	v := &itemFormValues{Tier: string(models.TierBronze), Size: string(models.SizeSmall)}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.Name).Validate(validateName),
			huh.NewInput().Title("Hero").Placeholder("Vanessa, Pygmalien, Dooley...").Value(&v.Hero),
			huh.NewSelect[string]().Title("Tier").Options(tierOptions()...).Value(&v.Tier),
			huh.NewSelect[string]().Title("Size").Options(
				huh.NewOption("Small", string(models.SizeSmall)),
				huh.NewOption("Medium", string(models.SizeMedium)),
				huh.NewOption("Large", string(models.SizeLarge)),
			).Value(&v.Size),
		),
		huh.NewGroup(
			huh.NewInput().Title("Cooldown (seconds)").Placeholder("blank for passive").Value(&v.Cooldown).
				Validate(optionalNumber),
			huh.NewInput().Title("Ammo").Value(&v.Ammo).Validate(optionalNumber),
			huh.NewInput().Title("Tags").Placeholder("Weapon, Tool").Value(&v.Tags),
		),
		huh.NewGroup(
			huh.NewText().Title("On use").Description("One effect per line. Try /d 10/20").Value(&v.OnUse),
			huh.NewText().Title("Passive").Value(&v.Passive),
			huh.NewText().Title("Quests").Value(&v.Quests),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}
	return v.apply(item)
}

// runSkillForm collects a new skill interactively
func runSkillForm(skill *models.Skill) error {
	tier := string(models.TierBronze)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&skill.Name).Validate(validateName),
			huh.NewInput().Title("Hero").Value(&skill.Hero),
			huh.NewSelect[string]().Title("Tier").Options(tierOptions()...).Value(&tier),
			huh.NewText().Title("Effect").Description("Shortcuts like /h and /sh insert icons").Value(&skill.Effect),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}
	skill.Name = strings.TrimSpace(skill.Name)
	skill.Tier = models.NormalizeTier(tier)
	return nil
}

func optionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("must be a number")
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
