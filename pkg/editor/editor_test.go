package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range text {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m, cmd
}

func TestNewRendersInitialPreview(t *testing.T) {
	m := New(nil, "On use", "Deal /d 5 damage")

	plain := ansi.Strip(m.Rendered)
	assert.Contains(t, plain, "[Damage]")
	assert.Contains(t, plain, "5")
	assert.Empty(t, m.Warnings)
	assert.Equal(t, "Deal /d 5 damage", m.Value())
}

func TestTypingSchedulesDebouncedPreview(t *testing.T) {
	m := New(nil, "", "")
	m, cmd := typeText(t, m, "/d")

	assert.Equal(t, "/d", m.Value())
	require.NotNil(t, cmd, "an edit should schedule a preview tick")
	assert.Empty(t, m.Rendered, "preview must wait for the debounce")
}

func TestStaleDebounceIgnored(t *testing.T) {
	m := New(nil, "", "")
	m, _ = typeText(t, m, "/h")

	next, _ := m.Update(previewDebounceMsg{Text: "/"})
	m = next.(Model)
	assert.Empty(t, m.Rendered)

	next, _ = m.Update(previewDebounceMsg{Text: "/h"})
	m = next.(Model)
	assert.Contains(t, ansi.Strip(m.Rendered), "[Haste]")
}

func TestWarningsFollowPreview(t *testing.T) {
	m := New(nil, "", "")
	m, _ = typeText(t, m, "/zz")

	next, _ := m.Update(previewDebounceMsg{Text: "/zz"})
	m = next.(Model)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], `"/zz"`)
	assert.Contains(t, ansi.Strip(m.View()), "unknown shortcut")
}

func TestSaveAndCancel(t *testing.T) {
	m := New(nil, "", "Burn 3")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	saved := next.(Model)
	assert.True(t, saved.Saved())
	assert.False(t, saved.Cancelled())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	cancelled := next.(Model)
	assert.True(t, cancelled.Cancelled())
	assert.False(t, cancelled.Saved())
	require.NotNil(t, cmd)
}

func TestWindowResize(t *testing.T) {
	m := New(nil, "Passive", "Shield 20")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Greater(t, m.preview.Height, 0)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 2})
	m = next.(Model)
	assert.GreaterOrEqual(t, m.preview.Height, 1)
	assert.Contains(t, ansi.Strip(m.View()), "Passive")
}
