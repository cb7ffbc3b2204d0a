package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bazaargen/bazaargen/internal/models"
)

const skillColumns = `id, name, hero, tier, effect, author_id, author_name, created_at, updated_at`

func scanSkill(row rowScanner) (*models.Skill, error) {
	var skill models.Skill
	var createdAt, updatedAt string
	err := row.Scan(
		&skill.ID, &skill.Name, &skill.Hero, &skill.Tier, &skill.Effect,
		&skill.AuthorID, &skill.AuthorName, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	skill.CreatedAt = parseTime(createdAt)
	skill.UpdatedAt = parseTime(updatedAt)
	return &skill, nil
}

func validateSkill(skill *models.Skill) error {
	if strings.TrimSpace(skill.Name) == "" {
		return fmt.Errorf("skill name is required")
	}
	if skill.Tier == "" {
		skill.Tier = models.TierBronze
	}
	if !models.IsValidTier(skill.Tier) {
		return fmt.Errorf("invalid tier: %s", skill.Tier)
	}
	return nil
}

// CreateSkill stores a new skill and assigns its ID
func (db *DB) CreateSkill(skill *models.Skill) error {
	if err := validateSkill(skill); err != nil {
		return err
	}
	return db.withWriteLock(func() error {
		id, err := generateID(skillIDPrefix)
		if err != nil {
			return err
		}
		now := time.Now()
		if skill.CreatedAt.IsZero() {
			skill.CreatedAt = now
		}
		skill.UpdatedAt = now

		_, err = db.conn.Exec(`
			INSERT INTO skills (`+skillColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, skill.Name, skill.Hero, skill.Tier, skill.Effect,
			skill.AuthorID, skill.AuthorName, formatTime(skill.CreatedAt), formatTime(skill.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
		skill.ID = id
		return nil
	})
}

// GetSkill retrieves a non-deleted skill by ID
func (db *DB) GetSkill(id string) (*models.Skill, error) {
	row := db.conn.QueryRow(`SELECT `+skillColumns+` FROM skills WHERE id = ? AND deleted_at IS NULL`, id)
	skill, err := scanSkill(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return skill, nil
}

// UpdateSkill overwrites every editable field of an existing skill
func (db *DB) UpdateSkill(skill *models.Skill) error {
	if err := validateSkill(skill); err != nil {
		return err
	}
	return db.withWriteLock(func() error {
		skill.UpdatedAt = time.Now()
		res, err := db.conn.Exec(`
			UPDATE skills SET name = ?, hero = ?, tier = ?, effect = ?, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL
		`, skill.Name, skill.Hero, skill.Tier, skill.Effect, formatTime(skill.UpdatedAt), skill.ID)
		if err != nil {
			return fmt.Errorf("update skill: %w", err)
		}
		return requireAffected(res, skill.ID)
	})
}

// DeleteSkill soft-deletes a skill
func (db *DB) DeleteSkill(id string) error {
	return db.withWriteLock(func() error {
		res, err := db.conn.Exec(`UPDATE skills SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
			formatTime(time.Now()), id)
		if err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}
		return requireAffected(res, id)
	})
}

// ListSkills returns non-deleted skills, newest first
func (db *DB) ListSkills(opts ListOptions) ([]models.Skill, error) {
	query, args := buildListQuery(`SELECT `+skillColumns+` FROM skills`, opts, searchColumn{name: "effect"})

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}
	return skills, rows.Err()
}
