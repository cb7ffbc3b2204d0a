// Package output provides styled terminal output helpers (success, error,
// warning, card and shortcut formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	tierStyles   = map[models.Tier]lipgloss.Style{
		models.TierBronze:    lipgloss.NewStyle().Foreground(lipgloss.Color(keyword.TierBronze.Color())),
		models.TierSilver:    lipgloss.NewStyle().Foreground(lipgloss.Color(keyword.TierSilver.Color())),
		models.TierGold:      lipgloss.NewStyle().Foreground(lipgloss.Color(keyword.TierGold.Color())),
		models.TierDiamond:   lipgloss.NewStyle().Foreground(lipgloss.Color(keyword.TierDiamond.Color())),
		models.TierLegendary: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8c00")).Bold(true),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeDatabaseError = "database_error"
	ErrCodeConfigError   = "config_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	JSONErrorWithDetails(code, message, nil)
}

// JSONErrorWithDetails outputs an error as JSON with additional context
func JSONErrorWithDetails(code, message string, details map[string]interface{}) {
	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		errObj["details"] = details
	}
	data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
	fmt.Println(string(data))
}

// FormatTier formats a tier with its rarity color
func FormatTier(t models.Tier) string {
	style, ok := tierStyles[t]
	if !ok {
		return fmt.Sprintf("[%s]", t)
	}
	return style.Render(fmt.Sprintf("[%s]", t))
}

// FormatKind formats a card kind
func FormatKind(k models.Kind) string {
	return kindStyle.Render(string(k))
}

// FormatAuthor returns the display name for a card author
func FormatAuthor(name, id string) string {
	if name != "" {
		return name
	}
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "anonymous"
	}
	return id
}

// FormatCardShort formats a browse entry on one line. A positive width
// truncates the styled line without breaking escape sequences.
func FormatCardShort(card *models.Card, width int) string {
	parts := []string{
		titleStyle.Render(card.ID),
		FormatTier(card.Tier),
		card.Name,
		FormatKind(card.Kind),
	}
	if card.Hero != "" {
		parts = append(parts, subtleStyle.Render(card.Hero))
	}
	parts = append(parts, subtleStyle.Render(FormatAuthor(card.AuthorName, card.AuthorID)))
	parts = append(parts, subtleStyle.Render(FormatTimeAgo(card.CreatedAt)))

	line := strings.Join(parts, "  ")
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

// FormatCollectionHeader formats the heading line of a detected collection
func FormatCollectionHeader(c *models.Collection) string {
	span := c.End.Sub(c.Start).Round(time.Second)
	return fmt.Sprintf("%s %s",
		titleStyle.Render(fmt.Sprintf("Collection by %s", FormatAuthor(c.AuthorName, c.AuthorID))),
		subtleStyle.Render(fmt.Sprintf("(%d cards over %s, %s)", len(c.Cards), span, FormatTimeAgo(c.End))))
}

// FormatShortcut formats one catalogue entry with a color swatch
func FormatShortcut(sc keyword.Shortcut) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(sc.Color)).Render("■")
	return fmt.Sprintf("%-4s %s %-10s %s", sc.Key, swatch, sc.Keyword, subtleStyle.Render(sc.Icon))
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nON USE:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	return strings.Join(IndentLines(strings.Split(s, "\n"), spaces), "\n")
}

// BulletList formats items as a bulleted list with optional indentation
func BulletList(items []string, indent int) []string {
	prefix := strings.Repeat(" ", indent)
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = prefix + "- " + item
	}
	return result
}
