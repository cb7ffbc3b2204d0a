// Package editor implements an interactive effect-text editor with a live
// keyword preview.
package editor

import (
	"strings"
	"time"

	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/render"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PreviewDelay is how long typing must pause before the preview re-renders
const PreviewDelay = 150 * time.Millisecond

const (
	defaultWidth  = 80
	defaultHeight = 24
	minPaneHeight = 3
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// previewDebounceMsg carries the text a pending preview was scheduled for
type previewDebounceMsg struct {
	Text string
}

// Model is the bubbletea model for the editor
type Model struct {
	processor *keyword.Processor
	title     string

	input   textarea.Model
	preview viewport.Model

	Warnings []string
	Rendered string

	width, height int
	saved         bool
	cancelled     bool
}

// New creates an editor for initial text. A nil processor uses the default
// icon base.
func New(p *keyword.Processor, title, initial string) Model {
	if p == nil {
		p = keyword.New("")
	}

	ta := textarea.New()
	ta.Placeholder = "Deal /d 10/20/30/40 damage. /c00ff00 Custom color..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(initial)
	ta.Focus()

	m := Model{
		processor: p,
		title:     title,
		input:     ta,
		preview:   viewport.New(defaultWidth, minPaneHeight),
	}
	m.resize(defaultWidth, defaultHeight)
	m.refreshPreview()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			m.saved = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			return m, tea.Batch(cmd, debouncedPreview(after))
		}
		return m, cmd

	case previewDebounceMsg:
		// Ignore stale ticks; a newer keystroke has its own pending tick
		if msg.Text != m.input.Value() {
			return m, nil
		}
		m.refreshPreview()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// debouncedPreview schedules a preview refresh for text
func debouncedPreview(text string) tea.Cmd {
	return tea.Tick(PreviewDelay, func(time.Time) tea.Msg {
		return previewDebounceMsg{Text: text}
	})
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width, m.height = width, height

	// title, labels, warnings and help take five lines; the rest is split
	pane := (height - 5) / 2
	if pane < minPaneHeight {
		pane = minPaneHeight
	}
	m.input.SetWidth(width)
	m.input.SetHeight(pane)
	m.preview.Width = width - previewStyle.GetHorizontalFrameSize()
	m.preview.Height = pane - previewStyle.GetVerticalFrameSize()
	if m.preview.Height < 1 {
		m.preview.Height = 1
	}
}

func (m *Model) refreshPreview() {
	text := m.input.Value()
	m.Rendered = render.ANSI(m.processor.Process(text))
	m.Warnings = keyword.Validate(text).Warnings
	m.preview.SetContent(lipgloss.NewStyle().Width(m.preview.Width).Render(m.Rendered))
}

// View implements tea.Model
func (m Model) View() string {
	var sb strings.Builder
	if m.title != "" {
		sb.WriteString(titleStyle.Render(m.title))
		sb.WriteString("\n")
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Preview"))
	sb.WriteString("\n")
	sb.WriteString(previewStyle.Render(m.preview.View()))
	sb.WriteString("\n")

	if len(m.Warnings) > 0 {
		sb.WriteString(warningStyle.Render("⚠ " + strings.Join(m.Warnings, "; ")))
	} else {
		sb.WriteString(okStyle.Render("✓ no unknown shortcuts"))
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("ctrl+s save · esc cancel · pgup/pgdown scroll preview"))
	return sb.String()
}

// Value returns the current text
func (m Model) Value() string {
	return m.input.Value()
}

// Saved reports whether the user confirmed with ctrl+s
func (m Model) Saved() bool {
	return m.saved
}

// Cancelled reports whether the user left with esc
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Run opens the editor full screen and returns the final text. ok is false
// when the user cancelled.
func Run(p *keyword.Processor, title, initial string) (text string, ok bool, err error) {
	final, err := tea.NewProgram(New(p, title, initial), tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	m, isModel := final.(Model)
	if !isModel || !m.Saved() {
		return initial, false, nil
	}
	return m.Value(), true, nil
}
