// Package collection groups browse results into collections: runs of cards
// one author uploaded within a short window of each other.
package collection

import (
	"sort"
	"time"

	"github.com/bazaargen/bazaargen/internal/models"
)

// Group is one browse entry: either a collection or a single card.
type Group struct {
	Collection *models.Collection `json:"collection,omitempty"`
	Card       *models.Card       `json:"card,omitempty"`
}

// Newest returns the latest upload time in the group.
func (g Group) Newest() time.Time {
	if g.Collection != nil {
		return g.Collection.End
	}
	return g.Card.CreatedAt
}

func authorKey(c *models.Card) string {
	if c.AuthorID != "" {
		return c.AuthorID
	}
	return c.AuthorName
}

// Detect walks cards in upload order and starts a new run whenever the
// author changes or the gap to the previous card exceeds window. Runs of two
// or more become collections. Groups come back newest first, and cards
// inside a collection oldest first. A window <= 0 disables grouping.
// Cards without any author are never grouped.
func Detect(cards []models.Card, window time.Duration) []Group {
	sorted := make([]models.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var groups []Group
	var run []models.Card

	flush := func() {
		switch {
		case len(run) == 0:
		case len(run) == 1:
			c := run[0]
			groups = append(groups, Group{Card: &c})
		default:
			cards := append([]models.Card(nil), run...)
			groups = append(groups, Group{Collection: &models.Collection{
				AuthorID:   cards[0].AuthorID,
				AuthorName: cards[0].AuthorName,
				Start:      cards[0].CreatedAt,
				End:        cards[len(cards)-1].CreatedAt,
				Cards:      cards,
			}})
		}
		run = run[:0]
	}

	for i := range sorted {
		c := sorted[i]
		if len(run) > 0 {
			prev := run[len(run)-1]
			sameAuthor := authorKey(&c) != "" && authorKey(&c) == authorKey(&prev)
			if window <= 0 || !sameAuthor || c.CreatedAt.Sub(prev.CreatedAt) > window {
				flush()
			}
		}
		run = append(run, c)
	}
	flush()

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Newest().After(groups[j].Newest())
	})
	return groups
}

// Collections returns only the multi-card groups from Detect.
func Collections(cards []models.Card, window time.Duration) []models.Collection {
	var out []models.Collection
	for _, g := range Detect(cards, window) {
		if g.Collection != nil {
			out = append(out, *g.Collection)
		}
	}
	return out
}
