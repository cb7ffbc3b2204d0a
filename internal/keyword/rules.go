package keyword

import "strings"

// Keyword colors. Shortcuts reuse the color of the keyword they expand to.
const (
	ColorSlow      = "#cb9f6e"
	ColorHaste     = "#00ecc3"
	ColorHeal      = "#8eea31"
	ColorRegen     = "#6ed34e"
	ColorPoison    = "#0ebe4f"
	ColorBurn      = "#ff9f45"
	ColorCharge    = "#f1c232"
	ColorCooldown  = "#00bfff"
	ColorCrit      = "#f06292"
	ColorDamage    = "#f5503d"
	ColorDestroy   = "#9b59b6"
	ColorFreeze    = "#3fc8f7"
	ColorLifesteal = "#c0392b"
	ColorValue     = "#ffcd19"
	ColorTransform = "#c8a2c8"
	ColorShield    = "#f4cf20"
	ColorMaxHealth = "#5ed454"
	ColorFlying    = "#a6d8ff"
)

// Tier identifies the rarity color applied to one number of a tier sequence.
type Tier string

const (
	TierBronze  Tier = "bronze"
	TierSilver  Tier = "silver"
	TierGold    Tier = "gold"
	TierDiamond Tier = "diamond"
)

// tierLadder is ordered lowest to highest; a sequence of n numbers uses the
// top n rungs.
var tierLadder = []Tier{TierBronze, TierSilver, TierGold, TierDiamond}

var tierColors = map[Tier]string{
	TierBronze:  "#cd7f32",
	TierSilver:  "#c0c0c0",
	TierGold:    "#ffd700",
	TierDiamond: "#b9f2ff",
}

// Color returns the display color for a tier.
func (t Tier) Color() string {
	return tierColors[t]
}

// Rule maps a lowercase keyword to its display color.
type Rule struct {
	Keyword string `json:"keyword"`
	Color   string `json:"color"`
}

// Shortcut is one entry of the shortcut catalogue.
type Shortcut struct {
	Key     string `json:"key"`
	Icon    string `json:"icon"`
	Keyword string `json:"keyword"`
	Color   string `json:"color"`
}

var keywordRules = []Rule{
	{"slow", ColorSlow},
	{"haste", ColorHaste},
	{"heal", ColorHeal},
	{"regen", ColorRegen},
	{"poison", ColorPoison},
	{"burn", ColorBurn},
	{"charge", ColorCharge},
	{"cooldown", ColorCooldown},
	{"crit", ColorCrit},
	{"damage", ColorDamage},
	{"destroy", ColorDestroy},
	{"freeze", ColorFreeze},
	{"lifesteal", ColorLifesteal},
	{"value", ColorValue},
	{"transform", ColorTransform},
	{"shield", ColorShield},
	{"maxhealth", ColorMaxHealth},
	{"flying", ColorFlying},
}

// shortcutTable is the catalogue in display order.
var shortcutTable = []Shortcut{
	{"/s", "Slow.png", "slow", ColorSlow},
	{"/h", "Haste.png", "haste", ColorHaste},
	{"/he", "Heal.png", "heal", ColorHeal},
	{"/r", "Regen.png", "regen", ColorRegen},
	{"/p", "Poison.png", "poison", ColorPoison},
	{"/b", "Burn.png", "burn", ColorBurn},
	{"/c", "Charge.png", "charge", ColorCharge},
	{"/cd", "Cooldown.png", "cooldown", ColorCooldown},
	{"/cr", "Crit.png", "crit", ColorCrit},
	{"/d", "Damage.png", "damage", ColorDamage},
	{"/de", "Destroy.png", "destroy", ColorDestroy},
	{"/f", "Freeze.png", "freeze", ColorFreeze},
	{"/l", "Lifesteal.png", "lifesteal", ColorLifesteal},
	{"/v", "Value.png", "value", ColorValue},
	{"/t", "Transform.png", "transform", ColorTransform},
	{"/sh", "Shield.png", "shield", ColorShield},
	{"/mh", "MaxHealth.png", "maxhealth", ColorMaxHealth},
	{"/fl", "Flying.png", "flying", ColorFlying},
}

var (
	keywordColors = make(map[string]string, len(keywordRules))
	shortcutIndex = make(map[string]int, len(shortcutTable))
)

func init() {
	for _, r := range keywordRules {
		keywordColors[r.Keyword] = r.Color
	}
	for i, s := range shortcutTable {
		shortcutIndex[s.Key] = i
	}
}

// Rules returns the keyword dictionary in declaration order.
func Rules() []Rule {
	out := make([]Rule, len(keywordRules))
	copy(out, keywordRules)
	return out
}

// Shortcuts returns the shortcut catalogue in display order. The slice is a
// fresh copy on every call.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, len(shortcutTable))
	copy(out, shortcutTable)
	return out
}

// ColorFor returns the color of a keyword, matched case-insensitively.
func ColorFor(word string) (string, bool) {
	c, ok := keywordColors[strings.ToLower(word)]
	return c, ok
}

// IsShortcut reports whether key is a recognized trigger such as "/d".
func IsShortcut(key string) bool {
	_, ok := shortcutIndex[key]
	return ok
}

// LookupShortcut returns the catalogue entry for a trigger.
func LookupShortcut(key string) (Shortcut, bool) {
	i, ok := shortcutIndex[key]
	if !ok {
		return Shortcut{}, false
	}
	return shortcutTable[i], true
}
