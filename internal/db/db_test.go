package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bazaargen/bazaargen/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	db, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer db.Close()

	dbPath := filepath.Join(dir, ".bazaar", "cards.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}

	version, err := db.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestOpenWithoutInit(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening missing database")
	}
}

func TestOpenAfterInit(t *testing.T) {
	dir := t.TempDir()
	db, err := Initialize(dir)
	if err != nil {
		t.Fatal(err)
	}
	item := &models.Item{Name: "Persisted"}
	if err := db.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	db.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetItem(item.ID)
	if err != nil {
		t.Fatalf("GetItem after reopen: %v", err)
	}
	if got.Name != "Persisted" {
		t.Errorf("Name = %q, want Persisted", got.Name)
	}
}

func TestMigrateLegacyItemsTable(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, dbFile)
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	// Version 1 layout: items without the quests column
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	legacy := strings.Replace(schema, "    quests TEXT DEFAULT '[]',\n", "", 1)
	if _, err := conn.Exec(legacy); err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO schema_info (key, value) VALUES ('version', '1')`); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	exists, err := db.columnExists("items", "quests")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("quests column not added by migration")
	}
	if v, _ := db.GetSchemaVersion(); v != SchemaVersion {
		t.Errorf("schema version = %d, want %d", v, SchemaVersion)
	}
}

func TestCreateAndGetItem(t *testing.T) {
	db := newTestDB(t)

	item := &models.Item{
		Name:     "Fang",
		Hero:     "Vanessa",
		Tier:     models.TierSilver,
		Size:     models.SizeSmall,
		Cooldown: 4,
		Tags:     []string{"weapon"},
		OnUse:    []string{"Deal 10/20/30 /d damage"},
		Passive:  []string{"When you /he, gain /sh"},
		Quests:   []string{"Use this 5 times"},
		AuthorID: "author-1",
	}

	if err := db.CreateItem(item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if !strings.HasPrefix(item.ID, itemIDPrefix) {
		t.Errorf("ID %q missing prefix", item.ID)
	}

	got, err := db.GetItem(item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}

	if got.Name != item.Name || got.Hero != item.Hero || got.Tier != item.Tier {
		t.Errorf("got %+v, want %+v", got, item)
	}
	if got.Cooldown != 4 {
		t.Errorf("Cooldown = %v, want 4", got.Cooldown)
	}
	// Raw author text is stored verbatim
	if len(got.OnUse) != 1 || got.OnUse[0] != "Deal 10/20/30 /d damage" {
		t.Errorf("OnUse = %v", got.OnUse)
	}
	if len(got.Passive) != 1 || len(got.Quests) != 1 || len(got.Tags) != 1 {
		t.Errorf("lists not round-tripped: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreateItemDefaultsAndValidation(t *testing.T) {
	db := newTestDB(t)

	item := &models.Item{Name: "Plain"}
	if err := db.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	if item.Tier != models.TierBronze || item.Size != models.SizeSmall {
		t.Errorf("defaults not applied: tier=%s size=%s", item.Tier, item.Size)
	}

	tests := []struct {
		name string
		item models.Item
	}{
		{"empty name", models.Item{Name: "  "}},
		{"bad tier", models.Item{Name: "x", Tier: "mythic"}},
		{"bad size", models.Item{Name: "x", Size: "huge"}},
		{"negative cooldown", models.Item{Name: "x", Cooldown: -1}},
		{"negative ammo", models.Item{Name: "x", Ammo: -2}},
	}
	for _, tc := range tests {
		item := tc.item
		if err := db.CreateItem(&item); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestCreateItemKeepsCreatedAt(t *testing.T) {
	db := newTestDB(t)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item := &models.Item{Name: "Old", CreatedAt: created}
	if err := db.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	got, _ := db.GetItem(item.ID)
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestUpdateItem(t *testing.T) {
	db := newTestDB(t)

	item := &models.Item{Name: "Before", OnUse: []string{"/d"}}
	if err := db.CreateItem(item); err != nil {
		t.Fatal(err)
	}

	item.Name = "After"
	item.OnUse = []string{"/he 5", "/sh 10"}
	if err := db.UpdateItem(item); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	got, _ := db.GetItem(item.ID)
	if got.Name != "After" || len(got.OnUse) != 2 {
		t.Errorf("update not applied: %+v", got)
	}

	missing := &models.Item{ID: "it-00000000", Name: "ghost"}
	if err := db.UpdateItem(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItem(missing) = %v, want ErrNotFound", err)
	}
}

func TestDeleteItem(t *testing.T) {
	db := newTestDB(t)

	item := &models.Item{Name: "Doomed"}
	if err := db.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteItem(item.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	if _, err := db.GetItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem after delete = %v, want ErrNotFound", err)
	}
	if err := db.DeleteItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteItem = %v, want ErrNotFound", err)
	}

	items, _ := db.ListItems(ListOptions{})
	if len(items) != 0 {
		t.Errorf("deleted item still listed: %v", items)
	}
}

func TestListItemsFilters(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	fixtures := []*models.Item{
		{Name: "Katana", Hero: "Vanessa", Tier: models.TierGold, OnUse: []string{"Deal /d damage"}, AuthorID: "a", CreatedAt: base},
		{Name: "Bandage", Hero: "Pygmalien", Tier: models.TierBronze, OnUse: []string{"/he 10"}, AuthorID: "b", CreatedAt: base.Add(time.Minute)},
		{Name: "Ice Cube", Hero: "vanessa", Tier: models.TierGold, Passive: []string{"freeze an item"}, AuthorID: "a", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, f := range fixtures {
		if err := db.CreateItem(f); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		opts     ListOptions
		expected []string
	}{
		{"all newest first", ListOptions{}, []string{"Ice Cube", "Bandage", "Katana"}},
		{"hero case-insensitive", ListOptions{Hero: "VANESSA"}, []string{"Ice Cube", "Katana"}},
		{"tier", ListOptions{Tier: models.TierBronze}, []string{"Bandage"}},
		{"author", ListOptions{AuthorID: "a"}, []string{"Ice Cube", "Katana"}},
		{"search name", ListOptions{Search: "band"}, []string{"Bandage"}},
		{"search raw text", ListOptions{Search: "freeze"}, []string{"Ice Cube"}},
		{"search shortcut", ListOptions{Search: "/d"}, []string{"Katana"}},
		{"since", ListOptions{Since: base.Add(30 * time.Second)}, []string{"Ice Cube", "Bandage"}},
		{"limit", ListOptions{Limit: 1}, []string{"Ice Cube"}},
	}

	for _, tc := range tests {
		items, err := db.ListItems(tc.opts)
		if err != nil {
			t.Fatalf("%s: ListItems failed: %v", tc.name, err)
		}
		var names []string
		for _, it := range items {
			names = append(names, it.Name)
		}
		if strings.Join(names, ",") != strings.Join(tc.expected, ",") {
			t.Errorf("%s: got %v, want %v", tc.name, names, tc.expected)
		}
	}
}

func TestListSearchIsLiteral(t *testing.T) {
	db := newTestDB(t)

	fixtures := []*models.Item{
		{Name: "Gilded Horn", OnUse: []string{`Gain <b>5</b> & "more"`}},
		{Name: "Sharp Stone", Passive: []string{"100% crit chance"}},
		{Name: "Dull Stone", Passive: []string{"1000 crit chance"}},
		{Name: "Odd Gear", Quests: []string{"use slot_a"}},
		{Name: "Even Gear", Quests: []string{"use slotxa"}},
	}
	for _, f := range fixtures {
		if err := db.CreateItem(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.CreateSkill(&models.Skill{Name: "Discount", Effect: "Costs 50% less"}); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateSkill(&models.Skill{Name: "Markup", Effect: "Costs 500 more"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		search   string
		expected []string
	}{
		{"<b>5</b>", []string{"Gilded Horn"}},
		{`& "more"`, []string{"Gilded Horn"}},
		{"0%", []string{"Sharp Stone"}},
		{"t_a", []string{"Odd Gear"}},
	}
	for _, tc := range tests {
		items, err := db.ListItems(ListOptions{Search: tc.search})
		if err != nil {
			t.Fatalf("ListItems(%q) failed: %v", tc.search, err)
		}
		var names []string
		for _, it := range items {
			names = append(names, it.Name)
		}
		if strings.Join(names, ",") != strings.Join(tc.expected, ",") {
			t.Errorf("search %q: got %v, want %v", tc.search, names, tc.expected)
		}
	}

	skills, err := db.ListSkills(ListOptions{Search: "50%"})
	if err != nil {
		t.Fatal(err)
	}
	if len(skills) != 1 || skills[0].Name != "Discount" {
		t.Errorf("ListSkills(50%%) = %v, want only Discount", skills)
	}

	if got := marshalList([]string{"<b>", `a "b"`}); got != `["<b>","a \"b\""]` {
		t.Errorf("marshalList = %s", got)
	}
}

func TestSkillCRUD(t *testing.T) {
	db := newTestDB(t)

	skill := &models.Skill{Name: "Crit Master", Tier: models.TierGold, Effect: "Your items have +10% /cr"}
	if err := db.CreateSkill(skill); err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	if !strings.HasPrefix(skill.ID, skillIDPrefix) {
		t.Errorf("ID %q missing prefix", skill.ID)
	}

	got, err := db.GetSkill(skill.ID)
	if err != nil {
		t.Fatalf("GetSkill failed: %v", err)
	}
	if got.Effect != skill.Effect {
		t.Errorf("Effect = %q, want %q", got.Effect, skill.Effect)
	}

	got.Effect = "Gain /h"
	if err := db.UpdateSkill(got); err != nil {
		t.Fatalf("UpdateSkill failed: %v", err)
	}
	skills, _ := db.ListSkills(ListOptions{Search: "/h"})
	if len(skills) != 1 {
		t.Errorf("ListSkills(search) = %d, want 1", len(skills))
	}

	if err := db.DeleteSkill(skill.ID); err != nil {
		t.Fatalf("DeleteSkill failed: %v", err)
	}
	if _, err := db.GetSkill(skill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSkill after delete = %v, want ErrNotFound", err)
	}

	if err := db.CreateSkill(&models.Skill{}); err == nil {
		t.Error("expected error for empty skill name")
	}
}

func TestBrowse(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	db.CreateItem(&models.Item{Name: "Sword", CreatedAt: base})
	db.CreateSkill(&models.Skill{Name: "Rage", Effect: "gain /h", CreatedAt: base.Add(time.Minute)})
	db.CreateItem(&models.Item{Name: "Shield", CreatedAt: base.Add(2 * time.Minute)})

	cards, err := db.Browse(BrowseOptions{})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("Browse returned %d cards, want 3", len(cards))
	}
	if cards[0].Name != "Shield" || cards[1].Name != "Rage" || cards[2].Name != "Sword" {
		t.Errorf("unexpected order: %s, %s, %s", cards[0].Name, cards[1].Name, cards[2].Name)
	}
	if cards[1].Kind != models.KindSkill || len(cards[1].Text) != 1 {
		t.Errorf("skill card not mapped: %+v", cards[1])
	}

	skillsOnly, _ := db.Browse(BrowseOptions{Kind: models.KindSkill})
	if len(skillsOnly) != 1 {
		t.Errorf("Browse(kind=skill) = %d, want 1", len(skillsOnly))
	}

	limited, _ := db.Browse(BrowseOptions{ListOptions: ListOptions{Limit: 2}})
	if len(limited) != 2 {
		t.Errorf("Browse(limit=2) = %d, want 2", len(limited))
	}
}

func TestKindOfID(t *testing.T) {
	tests := []struct {
		id   string
		kind models.Kind
		ok   bool
	}{
		{"it-1234abcd", models.KindItem, true},
		{"sk-1234abcd", models.KindSkill, true},
		{"td-1234", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		kind, ok := KindOfID(tc.id)
		if kind != tc.kind || ok != tc.ok {
			t.Errorf("KindOfID(%q) = %q, %v; want %q, %v", tc.id, kind, ok, tc.kind, tc.ok)
		}
	}
}
