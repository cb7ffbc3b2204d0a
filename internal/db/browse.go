package db

import (
	"sort"

	"github.com/bazaargen/bazaargen/internal/models"
)

// BrowseOptions filters community submissions of both kinds
type BrowseOptions struct {
	ListOptions
	Kind models.Kind // empty = both
}

// ItemCard summarizes an item for browsing
func ItemCard(item *models.Item) models.Card {
	return models.Card{
		Kind:       models.KindItem,
		ID:         item.ID,
		Name:       item.Name,
		Hero:       item.Hero,
		Tier:       item.Tier,
		AuthorID:   item.AuthorID,
		AuthorName: item.AuthorName,
		Text:       item.Texts(),
		CreatedAt:  item.CreatedAt,
	}
}

// SkillCard summarizes a skill for browsing
func SkillCard(skill *models.Skill) models.Card {
	var text []string
	if skill.Effect != "" {
		text = []string{skill.Effect}
	}
	return models.Card{
		Kind:       models.KindSkill,
		ID:         skill.ID,
		Name:       skill.Name,
		Hero:       skill.Hero,
		Tier:       skill.Tier,
		AuthorID:   skill.AuthorID,
		AuthorName: skill.AuthorName,
		Text:       text,
		CreatedAt:  skill.CreatedAt,
	}
}

// Browse returns items and skills matching opts merged newest first
func (db *DB) Browse(opts BrowseOptions) ([]models.Card, error) {
	var cards []models.Card

	if opts.Kind == "" || opts.Kind == models.KindItem {
		items, err := db.ListItems(opts.ListOptions)
		if err != nil {
			return nil, err
		}
		for i := range items {
			cards = append(cards, ItemCard(&items[i]))
		}
	}

	if opts.Kind == "" || opts.Kind == models.KindSkill {
		skills, err := db.ListSkills(opts.ListOptions)
		if err != nil {
			return nil, err
		}
		for i := range skills {
			cards = append(cards, SkillCard(&skills[i]))
		}
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.After(cards[j].CreatedAt)
		}
		return cards[i].ID < cards[j].ID
	})

	if opts.Limit > 0 && len(cards) > opts.Limit {
		cards = cards[:opts.Limit]
	}
	return cards, nil
}
