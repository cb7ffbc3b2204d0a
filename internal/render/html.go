// Package render builds visual card representations from stored cards:
// HTML fragments for the web and bordered previews for the terminal. Effect
// text is always run through the keyword processor at render time.
package render

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
)

var itemTemplate = template.Must(template.New("item").Parse(`<div class="card item-card tier-{{.Tier}} size-{{.Size}}" data-id="{{.ID}}">
<div class="card-header"><span class="card-name">{{.Name}}</span>{{if .Hero}}<span class="card-hero">{{.Hero}}</span>{{end}}{{if .Cooldown}}<span class="card-cooldown">{{.Cooldown}}s</span>{{end}}{{if .Ammo}}<span class="card-ammo">Ammo {{.Ammo}}</span>{{end}}</div>
{{if .Tags}}<div class="card-tags">{{range .Tags}}<span class="card-tag">{{.}}</span>{{end}}</div>
{{end}}{{range .OnUse}}<div class="card-effect effect-onuse">{{.}}</div>
{{end}}{{range .Passive}}<div class="card-effect effect-passive">{{.}}</div>
{{end}}{{range .Quests}}<div class="card-effect effect-quest">{{.}}</div>
{{end}}</div>`))

var skillTemplate = template.Must(template.New("skill").Parse(`<div class="card skill-card tier-{{.Tier}}" data-id="{{.ID}}">
<div class="card-header"><span class="card-name">{{.Name}}</span>{{if .Hero}}<span class="card-hero">{{.Hero}}</span>{{end}}</div>
{{if .Effect}}<div class="card-effect effect-skill">{{.Effect}}</div>
{{end}}</div>`))

type itemView struct {
	ID, Name, Hero, Cooldown string
	Tier                     models.Tier
	Size                     models.Size
	Ammo                     int
	Tags                     []string
	OnUse, Passive, Quests   []template.HTML
}

type skillView struct {
	ID, Name, Hero string
	Tier           models.Tier
	Effect         template.HTML
}

func processAll(p *keyword.Processor, texts []string) []template.HTML {
	out := make([]template.HTML, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		out = append(out, template.HTML(p.Process(t)))
	}
	return out
}

// ItemHTML renders an item card fragment. Name, hero and tags are escaped;
// effect text is emitted as processed markup.
func ItemHTML(p *keyword.Processor, item *models.Item) (string, error) {
	view := itemView{
		ID:      item.ID,
		Name:    item.Name,
		Hero:    item.Hero,
		Tier:    item.Tier,
		Size:    item.Size,
		Ammo:    item.Ammo,
		Tags:    item.Tags,
		OnUse:   processAll(p, item.OnUse),
		Passive: processAll(p, item.Passive),
		Quests:  processAll(p, item.Quests),
	}
	if item.Cooldown > 0 {
		view.Cooldown = strconv.FormatFloat(item.Cooldown, 'f', -1, 64)
	}

	var buf bytes.Buffer
	if err := itemTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SkillHTML renders a skill card fragment
func SkillHTML(p *keyword.Processor, skill *models.Skill) (string, error) {
	view := skillView{
		ID:     skill.ID,
		Name:   skill.Name,
		Hero:   skill.Hero,
		Tier:   skill.Tier,
		Effect: template.HTML(p.Process(skill.Effect)),
	}

	var buf bytes.Buffer
	if err := skillTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
