// Package logoverlay shows the recent debug log on top of the dialog.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/ui/styles"
)

const (
	viewportMaxHeight = 20
	viewportMinHeight = 4
	// header, two dividers, footer and two border lines
	chromeHeight = 6
	bufferLimit  = 10000
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// levelFilter binds a key to a minimum level.
type levelFilter struct {
	key   string
	label string
	level log.Level
	tag   string
	color lipgloss.TerminalColor
}

var filters = []levelFilter{
	{"d", "Debug", log.LevelDebug, "[DEBUG]", styles.TextMutedColor},
	{"i", "Info", log.LevelInfo, "[INFO]", styles.StatusInfoColor},
	{"w", "Warn", log.LevelWarn, "[WARN]", styles.StatusWarningColor},
	{"e", "Error", log.LevelError, "[ERROR]", styles.StatusErrorColor},
}

// Model is the overlay state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// New returns a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Update handles keys while the overlay is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(ws.Width, ws.Height)
		return m, nil
	}
	if !m.visible {
		return m, nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := km.String(); s {
	case "c":
		log.ClearBuffer()
		m.refresh()
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "ctrl+x", "esc":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	default:
		for _, f := range filters {
			if f.key == s {
				m.minLevel = f.level
				m.refresh()
			}
		}
	}
	return m, nil
}

// View renders the overlay box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", boxWidth))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs")

	body := m.viewport.View()
	if !m.ready {
		body = m.content(boxWidth - 2)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(strings.Join([]string{title, divider, body, divider, m.hints()}, "\n"))
}

// Overlay returns the overlay centered in the window in place of bg, or
// bg unchanged when hidden.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	if m.width == 0 || m.height == 0 {
		return m.View()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.View())
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.visible }

// MinLevel returns the current filter.
func (m Model) MinLevel() log.Level { return m.minLevel }

// Toggle shows or hides the overlay.
func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
		return
	}
	m.Show()
}

// Show makes the overlay visible with fresh content.
func (m *Model) Show() {
	m.visible = true
	if !m.ready {
		m.initViewport()
	}
	m.refresh()
}

// Hide hides the overlay.
func (m *Model) Hide() { m.visible = false }

// SetSize records the window size and re-lays out the viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.initViewport()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, 80), 40)
}

func (m *Model) initViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := max(min(viewportMaxHeight, m.height-chromeHeight), viewportMinHeight)
	m.viewport = viewport.New(m.boxWidth()-2, h)
	m.viewport.SetContent(m.content(m.boxWidth() - 2))
	m.ready = true
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.content(m.boxWidth() - 2))
		m.viewport.GotoBottom()
	}
}

// Entries returns the buffered log lines at or above the filter level.
func (m Model) Entries() []string {
	var out []string
	for _, entry := range log.GetRecentLogs(bufferLimit) {
		if f, ok := filterFor(entry); !ok || f.level >= m.minLevel {
			out = append(out, strings.TrimSuffix(entry, "\n"))
		}
	}
	return out
}

func (m Model) content(width int) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, entry := range entries {
		if ansi.StringWidth(entry) > width {
			entry = ansi.Truncate(entry, width, "…")
		}
		color := lipgloss.TerminalColor(styles.TextPrimaryColor)
		if f, ok := filterFor(entry); ok {
			color = f.color
		}
		lines[i] = lipgloss.NewStyle().Foreground(color).Render(entry)
	}
	return strings.Join(lines, "\n")
}

// hints renders the footer with the active filter in bold.
func (m Model) hints() string {
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{muted.Render("[c] Clear")}
	for _, f := range filters {
		s := muted
		if f.level == m.minLevel {
			s = active
		}
		parts = append(parts, s.Render("["+f.key+"] "+f.label))
	}
	parts = append(parts, muted.Render("[esc] Close"))
	return strings.Join(parts, "  ")
}

// filterFor finds the level tag of a formatted log line.
func filterFor(entry string) (levelFilter, bool) {
	for i := len(filters) - 1; i >= 0; i-- {
		if strings.Contains(entry, filters[i].tag) {
			return filters[i], true
		}
	}
	return levelFilter{}, false
}
