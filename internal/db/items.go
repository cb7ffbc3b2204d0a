package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bazaargen/bazaargen/internal/models"
)

// ListOptions contains filter options shared by item, skill and browse listings
type ListOptions struct {
	Hero     string
	Tier     models.Tier
	AuthorID string
	Search   string // matched against name and raw effect text
	Since    time.Time
	Limit    int // max results (no limit if 0)
}

const itemColumns = `id, name, hero, tier, size, cooldown, ammo, tags, on_use, passive, quests,
	author_id, author_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var tags, onUse, passive, quests, createdAt, updatedAt string
	err := row.Scan(
		&item.ID, &item.Name, &item.Hero, &item.Tier, &item.Size, &item.Cooldown, &item.Ammo,
		&tags, &onUse, &passive, &quests,
		&item.AuthorID, &item.AuthorName, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Tags = unmarshalList(tags)
	item.OnUse = unmarshalList(onUse)
	item.Passive = unmarshalList(passive)
	item.Quests = unmarshalList(quests)
	item.CreatedAt = parseTime(createdAt)
	item.UpdatedAt = parseTime(updatedAt)
	return &item, nil
}

func validateItem(item *models.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("item name is required")
	}
	if item.Tier == "" {
		item.Tier = models.TierBronze
	}
	if !models.IsValidTier(item.Tier) {
		return fmt.Errorf("invalid tier: %s", item.Tier)
	}
	if item.Size == "" {
		item.Size = models.SizeSmall
	}
	if !models.IsValidSize(item.Size) {
		return fmt.Errorf("invalid size: %s", item.Size)
	}
	if item.Cooldown < 0 {
		return fmt.Errorf("cooldown cannot be negative")
	}
	if item.Ammo < 0 {
		return fmt.Errorf("ammo cannot be negative")
	}
	return nil
}

// CreateItem stores a new item and assigns its ID. A zero CreatedAt is set
// to now; an explicit one (e.g. from an import) is kept.
func (db *DB) CreateItem(item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return db.withWriteLock(func() error {
		id, err := generateID(itemIDPrefix)
		if err != nil {
			return err
		}
		now := time.Now()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now

		_, err = db.conn.Exec(`
			INSERT INTO items (`+itemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, item.Name, item.Hero, item.Tier, item.Size, item.Cooldown, item.Ammo,
			marshalList(item.Tags), marshalList(item.OnUse), marshalList(item.Passive), marshalList(item.Quests),
			item.AuthorID, item.AuthorName, formatTime(item.CreatedAt), formatTime(item.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		item.ID = id
		return nil
	})
}

// GetItem retrieves a non-deleted item by ID
func (db *DB) GetItem(id string) (*models.Item, error) {
	row := db.conn.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem overwrites every editable field of an existing item
func (db *DB) UpdateItem(item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return db.withWriteLock(func() error {
		item.UpdatedAt = time.Now()
		res, err := db.conn.Exec(`
			UPDATE items SET name = ?, hero = ?, tier = ?, size = ?, cooldown = ?, ammo = ?,
				tags = ?, on_use = ?, passive = ?, quests = ?, updated_at = ?
			WHERE id = ? AND deleted_at IS NULL
		`, item.Name, item.Hero, item.Tier, item.Size, item.Cooldown, item.Ammo,
			marshalList(item.Tags), marshalList(item.OnUse), marshalList(item.Passive), marshalList(item.Quests),
			formatTime(item.UpdatedAt), item.ID)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return requireAffected(res, item.ID)
	})
}

// DeleteItem soft-deletes an item
func (db *DB) DeleteItem(id string) error {
	return db.withWriteLock(func() error {
		res, err := db.conn.Exec(`UPDATE items SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
			formatTime(time.Now()), id)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return requireAffected(res, id)
	})
}

// ListItems returns non-deleted items, newest first
func (db *DB) ListItems(opts ListOptions) ([]models.Item, error) {
	query, args := buildListQuery(`SELECT `+itemColumns+` FROM items`, opts,
		searchColumn{name: "on_use", list: true},
		searchColumn{name: "passive", list: true},
		searchColumn{name: "quests", list: true})

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// searchColumn is a text column matched by ListOptions.Search. List columns
// hold a JSON array and are matched per element.
type searchColumn struct {
	name string
	list bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches search literally anywhere in a value
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// buildListQuery appends the shared filters to base. cols are searched
// alongside the name.
func buildListQuery(base string, opts ListOptions, cols ...searchColumn) (string, []any) {
	query := base + " WHERE deleted_at IS NULL"
	var args []any

	if opts.Hero != "" {
		query += " AND hero = ? COLLATE NOCASE"
		args = append(args, opts.Hero)
	}
	if opts.Tier != "" {
		query += " AND tier = ?"
		args = append(args, opts.Tier)
	}
	if opts.AuthorID != "" {
		query += " AND author_id = ?"
		args = append(args, opts.AuthorID)
	}
	if !opts.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, formatTime(opts.Since))
	}
	if opts.Search != "" {
		pattern := likePattern(opts.Search)
		clauses := []string{`name LIKE ? ESCAPE '\'`}
		for _, c := range cols {
			if c.list {
				clauses = append(clauses, fmt.Sprintf(`EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value LIKE ? ESCAPE '\')`, c.name))
			} else {
				clauses = append(clauses, c.name+` LIKE ? ESCAPE '\'`)
			}
		}
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
		for range clauses {
			args = append(args, pattern)
		}
	}

	query += " ORDER BY created_at DESC, id"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	return query, args
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
