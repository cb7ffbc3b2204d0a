package db

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/bazaargen/bazaargen/internal/models"
)

const (
	itemIDPrefix  = "it-"
	skillIDPrefix = "sk-"
)

// KindOfID reports which card kind an ID belongs to, based on its prefix
func KindOfID(id string) (models.Kind, bool) {
	switch {
	case strings.HasPrefix(id, itemIDPrefix):
		return models.KindItem, true
	case strings.HasPrefix(id, skillIDPrefix):
		return models.KindSkill, true
	}
	return "", false
}

// generateID generates a card ID with the given prefix
func generateID(prefix string) (string, error) {
	bytes := make([]byte, 4) // 8 hex characters
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(bytes), nil
}
