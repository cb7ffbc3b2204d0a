package models

import (
	"strings"
	"time"
)

// Kind distinguishes the two card types authors can create
type Kind string

const (
	KindItem  Kind = "item"
	KindSkill Kind = "skill"
)

// Tier is the starting rarity of a card
type Tier string

const (
	TierBronze    Tier = "bronze"
	TierSilver    Tier = "silver"
	TierGold      Tier = "gold"
	TierDiamond   Tier = "diamond"
	TierLegendary Tier = "legendary"
)

// Size is the board footprint of an item
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Item is an authored item card. Effect fields hold raw author text; the
// styled form is derived on every render and never stored.
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Hero       string    `json:"hero,omitempty"`
	Tier       Tier      `json:"tier"`
	Size       Size      `json:"size"`
	Cooldown   float64   `json:"cooldown,omitempty"` // seconds, 0 = passive item
	Ammo       int       `json:"ammo,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	OnUse      []string  `json:"on_use,omitempty"`
	Passive    []string  `json:"passive,omitempty"`
	Quests     []string  `json:"quests,omitempty"`
	AuthorID   string    `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Texts returns every raw effect string of the item in display order
func (i *Item) Texts() []string {
	var out []string
	out = append(out, i.OnUse...)
	out = append(out, i.Passive...)
	out = append(out, i.Quests...)
	return out
}

// Skill is an authored skill card
type Skill struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Hero       string    `json:"hero,omitempty"`
	Tier       Tier      `json:"tier"`
	Effect     string    `json:"effect"`
	AuthorID   string    `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Card is the kind-tagged summary used when browsing submissions of both kinds
type Card struct {
	Kind       Kind      `json:"kind"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Hero       string    `json:"hero,omitempty"`
	Tier       Tier      `json:"tier"`
	AuthorID   string    `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	Text       []string  `json:"text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Collection is a run of cards one author uploaded close together
type Collection struct {
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Cards      []Card    `json:"cards"`
}

// Config represents the local config state
type Config struct {
	IconBase         string `json:"icon_base,omitempty"`
	CollectionWindow string `json:"collection_window,omitempty"` // duration, e.g. "5m"
	AuthorID         string `json:"author_id,omitempty"`
	AuthorName       string `json:"author_name,omitempty"`
}

// IsValidTier checks if a tier is valid
func IsValidTier(t Tier) bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierDiamond, TierLegendary:
		return true
	}
	return false
}

// IsValidSize checks if a size is valid
func IsValidSize(s Size) bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// IsValidKind checks if a kind is valid
func IsValidKind(k Kind) bool {
	return k == KindItem || k == KindSkill
}

// NormalizeTier lowercases a tier and accepts single-letter aliases
// Accepts: "b", "s", "g", "d", "l"
func NormalizeTier(t string) Tier {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "b":
		return TierBronze
	case "s":
		return TierSilver
	case "g":
		return TierGold
	case "d":
		return TierDiamond
	case "l":
		return TierLegendary
	default:
		return Tier(t)
	}
}

// NormalizeSize lowercases a size and accepts "s", "m", "l"
func NormalizeSize(s string) Size {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "s":
		return SizeSmall
	case "m":
		return SizeMedium
	case "l":
		return SizeLarge
	default:
		return Size(s)
	}
}
