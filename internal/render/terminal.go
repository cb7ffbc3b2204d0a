package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	cardTierFgs = map[models.Tier]lipgloss.Color{
		models.TierBronze:    lipgloss.Color(keyword.TierBronze.Color()),
		models.TierSilver:    lipgloss.Color(keyword.TierSilver.Color()),
		models.TierGold:      lipgloss.Color(keyword.TierGold.Color()),
		models.TierDiamond:   lipgloss.Color(keyword.TierDiamond.Color()),
		models.TierLegendary: lipgloss.Color("#ff8c00"),
	}
)

var iconNames = func() map[string]string {
	m := make(map[string]string)
	for _, sc := range keyword.Shortcuts() {
		m[sc.Keyword] = strings.TrimSuffix(sc.Icon, ".png")
	}
	return m
}()

// ANSI converts processed markup into styled terminal text. Keyword, color
// and tier spans become foreground colors; icons become [Name] badges in
// their keyword color. Unknown tags contribute only their text.
func ANSI(markup string) string {
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return keyword.Strip(markup)
	}

	var sb strings.Builder
	walk(doc.Find("body"), lipgloss.NewStyle(), false, &sb)
	return sb.String()
}

func walk(s *goquery.Selection, style lipgloss.Style, styled bool, sb *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			writeText(sb, style, styled, c.Text())
		case "br":
			sb.WriteString("\n")
		case "img":
			kw := c.AttrOr("data-keyword", c.AttrOr("alt", ""))
			name, ok := iconNames[kw]
			if !ok {
				name = kw
			}
			badge := lipgloss.NewStyle().Bold(true)
			if color, ok := keyword.ColorFor(kw); ok {
				badge = badge.Foreground(lipgloss.Color(color))
			}
			sb.WriteString(badge.Render("[" + name + "]"))
		case "span":
			next, changed := spanStyle(c, style)
			walk(c, next, styled || changed, sb)
		default:
			walk(c, style, styled, sb)
		}
	})
}

func spanStyle(c *goquery.Selection, style lipgloss.Style) (lipgloss.Style, bool) {
	if kw, ok := c.Attr("data-keyword"); ok {
		if color, ok := keyword.ColorFor(kw); ok {
			return style.Foreground(lipgloss.Color(color)).Bold(true), true
		}
	}
	if tier, ok := c.Attr("data-tier"); ok {
		if color := keyword.Tier(tier).Color(); color != "" {
			return style.Foreground(lipgloss.Color(color)).Bold(true), true
		}
	}
	if color, ok := c.Attr("data-color"); ok && color != "" {
		return style.Foreground(lipgloss.Color(color)), true
	}
	return style, false
}

// writeText renders line by line so lipgloss never pads a block to its
// widest line.
func writeText(sb *strings.Builder, style lipgloss.Style, styled bool, text string) {
	if !styled {
		sb.WriteString(text)
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}

func cardStyle(tier models.Tier, width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if fg, ok := cardTierFgs[tier]; ok {
		style = style.BorderForeground(fg)
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style
}

func header(name, hero string, tier models.Tier, extra ...string) string {
	parts := []string{nameStyle.Render(name)}
	meta := []string{string(tier)}
	if hero != "" {
		meta = append(meta, hero)
	}
	meta = append(meta, extra...)
	parts = append(parts, metaStyle.Render(strings.Join(meta, " · ")))
	return strings.Join(parts, "  ")
}

func section(p *keyword.Processor, label string, texts []string) []string {
	var lines []string
	for _, t := range texts {
		if t == "" {
			continue
		}
		lines = append(lines, labelStyle.Render(label)+" "+ANSI(p.Process(t)))
	}
	return lines
}

// ItemTerminal renders a bordered item preview. width <= 0 lets the card
// size itself to its content.
func ItemTerminal(p *keyword.Processor, item *models.Item, width int) string {
	var extra []string
	extra = append(extra, string(item.Size))
	if item.Cooldown > 0 {
		extra = append(extra, fmt.Sprintf("%gs", item.Cooldown))
	}
	if item.Ammo > 0 {
		extra = append(extra, fmt.Sprintf("ammo %d", item.Ammo))
	}

	lines := []string{header(item.Name, item.Hero, item.Tier, extra...)}
	if len(item.Tags) > 0 {
		lines = append(lines, tagStyle.Render(strings.Join(item.Tags, ", ")))
	}
	lines = append(lines, section(p, "Use:", item.OnUse)...)
	lines = append(lines, section(p, "Passive:", item.Passive)...)
	lines = append(lines, section(p, "Quest:", item.Quests)...)

	return cardStyle(item.Tier, width).Render(strings.Join(lines, "\n"))
}

// SkillTerminal renders a bordered skill preview
func SkillTerminal(p *keyword.Processor, skill *models.Skill, width int) string {
	lines := []string{header(skill.Name, skill.Hero, skill.Tier, "skill")}
	if skill.Effect != "" {
		lines = append(lines, ANSI(p.Process(skill.Effect)))
	}
	return cardStyle(skill.Tier, width).Render(strings.Join(lines, "\n"))
}
