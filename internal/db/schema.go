package db

// SchemaVersion is the current database schema version
const SchemaVersion = 2

const schema = `
-- Items table
CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    hero TEXT DEFAULT '',
    tier TEXT NOT NULL DEFAULT 'bronze',
    size TEXT NOT NULL DEFAULT 'small',
    cooldown REAL DEFAULT 0,
    ammo INTEGER DEFAULT 0,
    tags TEXT DEFAULT '[]',
    on_use TEXT DEFAULT '[]',
    passive TEXT DEFAULT '[]',
    quests TEXT DEFAULT '[]',
    author_id TEXT DEFAULT '',
    author_name TEXT DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    deleted_at DATETIME
);

-- Skills table
CREATE TABLE IF NOT EXISTS skills (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    hero TEXT DEFAULT '',
    tier TEXT NOT NULL DEFAULT 'bronze',
    effect TEXT DEFAULT '',
    author_id TEXT DEFAULT '',
    author_name TEXT DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    deleted_at DATETIME
);

-- Schema info table
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_author ON items(author_id);
CREATE INDEX IF NOT EXISTS idx_skills_created ON skills(created_at);
CREATE INDEX IF NOT EXISTS idx_skills_author ON skills(author_id);
`

// Migration defines a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations is the list of all database migrations in order
var Migrations = []Migration{
	// Version 1 is the initial schema - no migration needed
	{
		Version:     2,
		Description: "Add quests column to items",
		SQL:         `ALTER TABLE items ADD COLUMN quests TEXT DEFAULT '[]';`,
	},
}
