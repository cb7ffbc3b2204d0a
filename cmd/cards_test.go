package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bazaargen/bazaargen/internal/collection"
	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/db"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	c := &cobra.Command{Use: "list"}
	addListFlags(c)
	return c
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"90m", 90 * time.Minute, false},
		{"24h", 24 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tc := range tests {
		got, err := parseSince(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseSince(%q) err = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("parseSince(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestListOptionsFromFlags(t *testing.T) {
	useTempBaseDir(t)

	c := newListCommand()
	c.Flags().Set("hero", "Vanessa")
	c.Flags().Set("tier", "g")
	c.Flags().Set("search", "poison")
	c.Flags().Set("since", "1d")
	c.Flags().Set("limit", "5")

	opts, err := listOptionsFromFlags(c)
	if err != nil {
		t.Fatalf("listOptionsFromFlags failed: %v", err)
	}
	if opts.Hero != "Vanessa" || opts.Tier != models.TierGold || opts.Search != "poison" || opts.Limit != 5 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Since.IsZero() || time.Since(opts.Since) < 23*time.Hour {
		t.Errorf("since = %v", opts.Since)
	}
}

func TestListOptionsFromFlagsErrors(t *testing.T) {
	dir := useTempBaseDir(t)

	c := newListCommand()
	c.Flags().Set("tier", "mythic")
	if _, err := listOptionsFromFlags(c); err == nil {
		t.Error("expected error for invalid tier")
	}

	c = newListCommand()
	c.Flags().Set("mine", "true")
	if _, err := listOptionsFromFlags(c); err == nil {
		t.Error("expected error for --mine without an author")
	}

	id, err := config.EnsureAuthor(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := listOptionsFromFlags(c)
	if err != nil || opts.AuthorID != id {
		t.Errorf("--mine opts = %+v, %v", opts, err)
	}
}

func TestWriteGroups(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	cards := []models.Card{
		{Kind: models.KindItem, ID: "it-00000001", Name: "Fang", Tier: models.TierGold, AuthorID: "a", AuthorName: "mak", CreatedAt: base},
		{Kind: models.KindSkill, ID: "sk-00000002", Name: "Second Wind", Tier: models.TierSilver, AuthorID: "a", AuthorName: "mak", CreatedAt: base.Add(time.Minute)},
		{Kind: models.KindItem, ID: "it-00000003", Name: "Lone Shield", Tier: models.TierBronze, AuthorID: "b", CreatedAt: base.Add(30 * time.Minute)},
	}

	var buf bytes.Buffer
	writeGroups(&buf, collection.Detect(cards, 5*time.Minute), 0)
	out := ansi.Strip(buf.String())

	if !strings.Contains(out, "Collection by mak") {
		t.Errorf("expected a collection header, got:\n%s", out)
	}
	if strings.Index(out, "Lone Shield") > strings.Index(out, "Collection by mak") {
		t.Errorf("newest group should come first, got:\n%s", out)
	}
	if !strings.Contains(out, "  it-00000001") {
		t.Errorf("collection members should be indented, got:\n%s", out)
	}

	buf.Reset()
	writeCards(&buf, nil, 0)
	if strings.TrimSpace(buf.String()) != "No cards" {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestReplaceLine(t *testing.T) {
	lines := []string{"one", "two", "three"}

	if got := replaceLine(lines, 0, "four"); strings.Join(got, ",") != "one,two,three,four" {
		t.Errorf("append = %q", got)
	}
	if got := replaceLine(lines, 0, "   "); len(got) != 3 {
		t.Errorf("appending blank should be a no-op, got %q", got)
	}
	if got := replaceLine(lines, 2, " TWO "); strings.Join(got, ",") != "one,TWO,three" {
		t.Errorf("replace = %q", got)
	}
	if got := replaceLine(lines, 2, ""); strings.Join(got, ",") != "one,three" {
		t.Errorf("remove = %q", got)
	}
	if strings.Join(lines, ",") != "one,two,three" {
		t.Errorf("input mutated: %q", lines)
	}
}

func TestItemSection(t *testing.T) {
	item := &models.Item{OnUse: []string{"a"}, Passive: []string{"b"}, Quests: []string{"c"}}

	for section, want := range map[string]string{"": "a", "use": "a", "Passive": "b", "quest": "c"} {
		lines, err := itemSection(item, section)
		if err != nil || (*lines)[0] != want {
			t.Errorf("itemSection(%q) = %v, %v", section, lines, err)
		}
	}
	if _, err := itemSection(item, "lore"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestItemFromFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passive.txt")
	os.WriteFile(path, []byte("Shield 10\nRegen 2\n"), 0644)

	c := &cobra.Command{Use: "add"}
	addItemFlags(c)
	c.SetIn(strings.NewReader("Burn 3\n"))

	c.Flags().Set("name", "Ember Charm")
	c.Flags().Set("tier", "s")
	c.Flags().Set("size", "m")
	c.Flags().Set("cooldown", "4.5")
	c.Flags().Set("tag", "Tool,Relic")
	c.Flags().Set("use", "-")
	c.Flags().Set("passive", "@"+path)

	item := &models.Item{}
	if err := itemFromFlags(c, item); err != nil {
		t.Fatalf("itemFromFlags failed: %v", err)
	}
	if item.Name != "Ember Charm" || item.Tier != models.TierSilver || item.Size != models.SizeMedium {
		t.Errorf("item = %+v", item)
	}
	if item.Cooldown != 4.5 || len(item.Tags) != 2 {
		t.Errorf("cooldown/tags = %v/%v", item.Cooldown, item.Tags)
	}
	if len(item.OnUse) != 1 || item.OnUse[0] != "Burn 3" {
		t.Errorf("on use = %q", item.OnUse)
	}
	if len(item.Passive) != 2 {
		t.Errorf("passive = %q", item.Passive)
	}

	c = &cobra.Command{Use: "add"}
	addItemFlags(c)
	c.Flags().Set("name", "Bad")
	c.Flags().Set("size", "huge")
	if err := itemFromFlags(c, &models.Item{}); err == nil {
		t.Error("expected error for invalid size")
	}
}

func TestItemFormValuesApply(t *testing.T) {
	v := &itemFormValues{
		Name: "  Venom Fang ", Tier: "gold", Size: "small",
		Cooldown: "3", Ammo: "2", Tags: "Weapon, ,Vanessa",
		OnUse: "Poison 3/6\n\nDeal /d 10", Quests: " ",
	}
	item := &models.Item{}
	if err := v.apply(item); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if item.Name != "Venom Fang" || item.Cooldown != 3 || item.Ammo != 2 {
		t.Errorf("item = %+v", item)
	}
	if len(item.Tags) != 2 || len(item.OnUse) != 2 || len(item.Quests) != 0 {
		t.Errorf("lists = %q %q %q", item.Tags, item.OnUse, item.Quests)
	}

	v.Ammo = "1.5"
	if err := v.apply(&models.Item{}); err == nil {
		t.Error("expected error for fractional ammo")
	}
	if optionalNumber("") != nil || optionalNumber("2.5") != nil || optionalNumber("x") == nil {
		t.Error("optionalNumber mismatch")
	}
	if validateName(" ") != errNameRequired || validateName("ok") != nil {
		t.Error("validateName mismatch")
	}
}

func seedCards(t *testing.T, dir string) (*db.DB, *models.Item, *models.Skill) {
	t.Helper()
	database, err := db.Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	item := &models.Item{
		Name:    "Venom Fang",
		Tier:    models.TierGold,
		OnUse:   []string{"Deal /d 10 damage"},
		Passive: []string{"/c00ff00 Toxic blade"},
	}
	if err := database.CreateItem(item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	skill := &models.Skill{Name: "Second Wind", Effect: "/h Heal 20/40"}
	if err := database.CreateSkill(skill); err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	return database, item, skill
}

func TestExportCard(t *testing.T) {
	database, item, skill := seedCards(t, t.TempDir())
	p := keyword.New("/icons")

	var buf bytes.Buffer
	if err := exportCard(&buf, database, p, item.ID, formatHTML); err != nil {
		t.Fatalf("export html failed: %v", err)
	}
	if !strings.Contains(buf.String(), `src="/icons/`) || !strings.Contains(buf.String(), "Venom Fang") {
		t.Errorf("html = %s", buf.String())
	}

	buf.Reset()
	if err := exportCard(&buf, database, p, item.ID, formatPlain); err != nil {
		t.Fatalf("export plain failed: %v", err)
	}
	plain := buf.String()
	if !strings.HasPrefix(plain, "Venom Fang\n") || !strings.Contains(plain, "Use: Deal") || !strings.Contains(plain, "Passive: Toxic blade") {
		t.Errorf("plain = %q", plain)
	}
	if strings.Contains(plain, "/d") || strings.Contains(plain, "/c00ff00") {
		t.Errorf("plain output kept markup: %q", plain)
	}

	buf.Reset()
	if err := exportCard(&buf, database, p, skill.ID, formatJSON); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	var decoded models.Skill
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Effect != skill.Effect {
		t.Errorf("json = %+v, %v", decoded, err)
	}

	buf.Reset()
	if err := exportCard(&buf, database, p, skill.ID, formatHTML); err != nil || !strings.Contains(buf.String(), "skill-card") {
		t.Errorf("skill html = %s, %v", buf.String(), err)
	}

	if err := exportCard(&buf, database, p, "xx-123", formatHTML); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("unknown prefix err = %v", err)
	}
	if err := exportCard(&buf, database, p, "it-deadbeef", formatHTML); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("missing item err = %v", err)
	}
}

func TestAddToGitignore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	os.WriteFile(path, []byte("node_modules/"), 0644)

	addToGitignore(path)
	addToGitignore(path)

	data, _ := os.ReadFile(path)
	if string(data) != "node_modules/\n.bazaar/\n" {
		t.Errorf(".gitignore = %q", data)
	}
}

func newExportCommand(out string) *cobra.Command {
	c := &cobra.Command{Use: "export"}
	c.Flags().StringP("format", "f", formatHTML, "")
	c.Flags().StringP("out", "o", "", "")
	c.Flags().String("icon-base", "", "")
	c.Flags().Bool("json", false, "")
	c.Flags().Set("out", out)
	return c
}

func TestExportOutKeepsFileOnFailure(t *testing.T) {
	dir := useTempBaseDir(t)
	_, item, _ := seedCards(t, dir)

	outDir := t.TempDir()
	path := filepath.Join(outDir, "card.html")
	if err := os.WriteFile(path, []byte("<div>previous export</div>"), 0600); err != nil {
		t.Fatal(err)
	}

	err := exportCmd.RunE(newExportCommand(path), []string{"it-deadbeef"})
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("export of missing card err = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "<div>previous export</div>" {
		t.Errorf("failed export touched the file: %q", data)
	}

	if err := exportCmd.RunE(newExportCommand(path), []string{item.ID}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "Venom Fang") {
		t.Errorf("export did not replace the file: %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(outDir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "card.html")
	if err := writeFileAtomic(path, []byte("x")); err == nil {
		t.Error("expected error for a missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist: %v", err)
	}
}
