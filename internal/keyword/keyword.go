// Package keyword turns the shorthand markup authors type into card effect
// text (slash shortcuts, /cRRGGBB color directives, tiered numbers such as
// 1/2/3/4 and bare keywords) into styled HTML, and back into plain text.
//
// Every function here is total: any input, including the empty string,
// yields a result and never an error. The rule tables are fixed at package
// init, so all functions are safe for concurrent use.
package keyword

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultIconBase is the path icon images are resolved against.
const DefaultIconBase = "images/icons"

// Placeholder markers live in the Unicode private use area so that no later
// stage (keywords are ASCII words, tiers are ASCII digits around '/') can see
// into them.
const (
	iconOpen   = "\uE000"
	iconClose  = "\uE001"
	colorClose = "\uE002"
)

// reservedRunes drops placeholder markers from author text so input can
// neither forge an icon nor close a color span.
var reservedRunes = strings.NewReplacer(iconOpen, "", iconClose, "", colorClose, "")

var (
	colorDirectiveRe = regexp.MustCompile(`/c([0-9a-fA-F]{6})\s+([^\s/]\S*(?:[ \t]+[^\s/]\S*)*)`)
	colorPrefixRe    = regexp.MustCompile(`/c[0-9a-fA-F]{6}\s+`)
	twoLetterRe      = shortcutPattern(func(n int) bool { return n == 3 })
	oneLetterRe      = shortcutPattern(func(n int) bool { return n == 2 })
	keywordRe        = keywordPattern()
	tierRe           = regexp.MustCompile(`(\d+)/(\d+)(?:/(\d+))?(?:/(\d+))?`)
	placeholderRe    = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)
	tagRe            = regexp.MustCompile(`<[^>]*>`)
	tokenRe          = regexp.MustCompile(`/[a-z]{1,2}`)
)

// shortcutPattern compiles an alternation of the triggers whose length
// satisfies keep. Triggers are matched anywhere, not only at word boundaries.
func shortcutPattern(keep func(n int) bool) *regexp.Regexp {
	var alts []string
	for _, s := range shortcutTable {
		if keep(len(s.Key)) {
			alts = append(alts, regexp.QuoteMeta(s.Key))
		}
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

// keywordPattern compiles a case-insensitive whole-word alternation of the
// keyword dictionary, longest first.
func keywordPattern() *regexp.Regexp {
	words := make([]string, 0, len(keywordRules))
	for _, r := range keywordRules {
		words = append(words, regexp.QuoteMeta(r.Keyword))
	}
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
}

// Processor renders raw card text into markup. The zero value resolves
// icons against DefaultIconBase.
type Processor struct {
	IconBase string
}

// New returns a Processor resolving icons under iconBase.
func New(iconBase string) *Processor {
	return &Processor{IconBase: iconBase}
}

var defaultProcessor = &Processor{}

// Process converts raw text to markup using the default processor.
func Process(text string) string {
	return defaultProcessor.Process(text)
}

// Process converts raw author text into markup. The stages run in a fixed
// order; each one assumes the output shape of the ones before it.
func (p *Processor) Process(text string) string {
	if text == "" {
		return ""
	}
	out := applyColorDirectives(reservedRunes.Replace(text))
	out = twoLetterRe.ReplaceAllStringFunc(out, iconPlaceholder)
	out = oneLetterRe.ReplaceAllStringFunc(out, iconPlaceholder)
	out = styleKeywords(out)
	out = colorTiers(out)
	return p.resolvePlaceholders(out)
}

func applyColorDirectives(s string) string {
	return colorDirectiveRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := colorDirectiveRe.FindStringSubmatch(m)
		color := "#" + strings.ToLower(sub[1])
		return fmt.Sprintf(`<span class="custom-color" data-color="%s" style="color: %s">%s%s`,
			color, color, sub[2], colorClose)
	})
}

func iconPlaceholder(trigger string) string {
	i, ok := shortcutIndex[trigger]
	if !ok {
		return trigger
	}
	return iconOpen + strconv.Itoa(i) + iconClose
}

func styleKeywords(s string) string {
	return keywordRe.ReplaceAllStringFunc(s, func(word string) string {
		kw := strings.ToLower(word)
		return fmt.Sprintf(`<span class="keyword" data-keyword="%s" style="color: %s; font-weight: bold">%s</span>`,
			kw, keywordColors[kw], word)
	})
}

// TierFor returns the tier of the number at index i in a sequence of total
// numbers. The last number is always diamond. Totals outside 2..4 are clamped.
func TierFor(i, total int) Tier {
	if total < 2 {
		total = 2
	}
	if total > len(tierLadder) {
		total = len(tierLadder)
	}
	idx := len(tierLadder) - total + i
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tierLadder) {
		idx = len(tierLadder) - 1
	}
	return tierLadder[idx]
}

// colorTiers wraps each number of a 2-4 long slash sequence in a tier span.
// Any int/int in prose matches too; authors rely on that being consistent.
func colorTiers(s string) string {
	return tierRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := tierRe.FindStringSubmatch(m)
		nums := make([]string, 0, 4)
		for _, n := range sub[1:] {
			if n != "" {
				nums = append(nums, n)
			}
		}
		parts := make([]string, len(nums))
		for i, n := range nums {
			t := TierFor(i, len(nums))
			parts[i] = fmt.Sprintf(`<span class="tier tier-%s" data-tier="%s" style="color: %s; font-weight: bold">%s</span>`,
				t, t, t.Color(), n)
		}
		return strings.Join(parts, "/")
	})
}

func (p *Processor) resolvePlaceholders(s string) string {
	base := p.IconBase
	if base == "" {
		base = DefaultIconBase
	}
	base = strings.TrimRight(base, "/")

	s = placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		i, err := strconv.Atoi(sub[1])
		if err != nil || i < 0 || i >= len(shortcutTable) {
			return m
		}
		sc := shortcutTable[i]
		return fmt.Sprintf(`<img class="keyword-icon" data-keyword="%s" src="%s/%s" alt="%s">`,
			sc.Keyword, html.EscapeString(base), sc.Icon, sc.Keyword)
	})
	return strings.ReplaceAll(s, colorClose, "</span>")
}

// Strip reduces markup (or raw text) to plain text: tags are dropped, color
// directive prefixes are removed leaving their words, and every shortcut
// trigger is removed wherever it appears, including inside other words.
func Strip(text string) string {
	if text == "" {
		return ""
	}
	out := tagRe.ReplaceAllString(reservedRunes.Replace(text), "")
	out = colorPrefixRe.ReplaceAllString(out, "")
	out = twoLetterRe.ReplaceAllString(out, "")
	out = oneLetterRe.ReplaceAllString(out, "")
	return out
}

// Validation is the advisory result of Validate. Valid is always true.
type Validation struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// Validate reports slash tokens that look like shortcuts but are not
// recognized. It never rejects input.
func Validate(text string) Validation {
	v := Validation{Valid: true, Warnings: []string{}}
	if text == "" {
		return v
	}
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if IsShortcut(tok) {
			continue
		}
		v.Warnings = append(v.Warnings, unknownShortcutWarning(tok))
	}
	return v
}

func unknownShortcutWarning(tok string) string {
	var similar []string
	for _, s := range shortcutTable {
		if s.Key[1] == tok[1] {
			similar = append(similar, s.Key)
		}
	}
	if len(similar) == 0 {
		return fmt.Sprintf("unknown shortcut %q", tok)
	}
	return fmt.Sprintf("unknown shortcut %q (did you mean %s?)", tok, strings.Join(similar, " or "))
}

// Coerce maps an untyped value to processor input. Anything that is not a
// string (including nil) becomes "".
func Coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}
