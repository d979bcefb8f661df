// Package captionedlist is a single-choice preference dialog whose rows
// carry a caption under their label.
//
// The dialog is driven by a Host that owns the preference value:
//
//	m := captionedlist.New(pref)
//	if err := m.SetItems(values, labels, captions); err != nil { ... }
//	m.Open()
//
// A row is only committed when the dialog closes positively. Closing emits
// a ClosedMsg describing what happened.
package captionedlist

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/ui/styles"
)

// NoSelection is the clicked index before any row is clicked.
const NoSelection = -1

var (
	// ErrNilValues is returned by SetItems when neither values nor
	// captions are given, so no item count can be derived.
	ErrNilValues = errors.New("captionedlist: nil values")
	// ErrLengthMismatch is returned when values, labels and captions
	// differ in length.
	ErrLengthMismatch = errors.New("captionedlist: values, labels and captions differ in length")
)

// Host owns the preference the dialog edits.
type Host interface {
	Key() string
	// Value returns the stored value, if any.
	Value() (string, bool)
	// CallChangeListener reports whether value may be stored.
	CallChangeListener(value string) bool
	SetValue(value string) error
}

// ClosedMsg is sent when the dialog closes.
type ClosedMsg struct {
	Key      string
	Positive bool
	// Value is the clicked value, empty when no row was clicked.
	Value string
	// Changed reports whether Value was stored.
	Changed bool
	// Err is the error from storing Value.
	Err error
}

// Row is a rendered row.
type Row struct {
	Value   string
	Label   string
	Caption string
	Checked bool
}

const (
	defaultWidth = 60
	minWidth     = 30
	maxWidth     = 72
)

// Model is the dialog state.
type Model struct {
	host Host

	values   []string
	labels   []string
	captions []string

	title         string
	dialogCaption string

	rows         []Row
	clickedIndex int
	cursor       int
	open         bool

	width  int
	height int

	keys KeyMap
	help help.Model
}

// New returns an unbound dialog for host.
func New(host Host) Model {
	return Model{
		host:         host,
		clickedIndex: NoSelection,
		keys:         DefaultKeyMap(),
		help:         help.New(),
	}
}

// SetItems replaces the choices. Nil labels default to the values and nil
// captions to absent captions. Nil values with non-nil captions are an
// empty list. The selection is reset.
func (m *Model) SetItems(values, labels, captions []string) error {
	if values == nil {
		if captions == nil {
			return ErrNilValues
		}
		values = []string{}
	}
	if labels == nil {
		labels = values
	}
	if captions == nil {
		captions = make([]string, len(values))
	}
	if len(labels) != len(values) || len(captions) != len(values) {
		return ErrLengthMismatch
	}

	m.values = slices.Clone(values)
	m.labels = slices.Clone(labels)
	m.captions = slices.Clone(captions)
	m.clickedIndex = NoSelection
	m.cursor = 0
	m.rows = nil
	return nil
}

// SetCaptions replaces the captions alone. Nil means no captions.
func (m *Model) SetCaptions(captions []string) error {
	if captions == nil {
		captions = make([]string, len(m.values))
	}
	if len(captions) != len(m.values) {
		return ErrLengthMismatch
	}
	m.captions = slices.Clone(captions)
	if m.rows != nil {
		m.Refresh()
	}
	return nil
}

// SetTitle sets the text shown in the dialog border.
func (m *Model) SetTitle(title string) { m.title = title }

// SetDialogCaption sets the text shown below the rows.
func (m *Model) SetDialogCaption(caption string) { m.dialogCaption = caption }

// SetSize updates the terminal size the dialog lays out against.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Values returns the item values.
func (m Model) Values() []string { return slices.Clone(m.values) }

// Labels returns the item labels.
func (m Model) Labels() []string { return slices.Clone(m.labels) }

// Captions returns the item captions; "" is an absent caption.
func (m Model) Captions() []string { return slices.Clone(m.captions) }

// ClickedIndex returns the clicked row, or NoSelection.
func (m Model) ClickedIndex() int { return m.clickedIndex }

// Cursor returns the row under the keyboard cursor.
func (m Model) Cursor() int { return m.cursor }

// IsOpen reports whether the dialog is showing.
func (m Model) IsOpen() bool { return m.open }

// Rows returns the rendered rows.
func (m Model) Rows() []Row { return slices.Clone(m.rows) }

// Open shows the dialog with freshly rendered rows and no click. A click
// left over from an earlier session is dropped even though the items did
// not change, so a reopened dialog always starts from the stored value.
func (m *Model) Open() {
	m.open = true
	m.clickedIndex = NoSelection
	m.UpdateContent()
	m.cursor = 0
	for i, r := range m.rows {
		if r.Checked {
			m.cursor = i
			break
		}
	}
	log.Debug(log.CatUI, "dialog opened", "key", m.host.Key(), "rows", len(m.rows))
}

// UpdateContent discards the rendered rows and builds one per item. A row
// is checked when its value equals the host's stored value.
func (m *Model) UpdateContent() {
	current, ok := m.host.Value()
	rows := make([]Row, len(m.values))
	for i, v := range m.values {
		rows[i] = Row{
			Value:   v,
			Label:   m.labels[i],
			Caption: m.captions[i],
			Checked: ok && v == current,
		}
	}
	m.rows = rows
}

// Refresh rebuilds the rows like UpdateContent but keeps a pending click,
// so the checked row still matches what a positive close would store.
func (m *Model) Refresh() {
	m.UpdateContent()
	if m.clickedIndex != NoSelection {
		m.ClickItem(m.clickedIndex)
	}
}

// ClickItem records a click on row i and moves the check mark to it.
// NoSelection clears the click. Other out-of-range indexes are ignored.
func (m *Model) ClickItem(i int) {
	if i != NoSelection && (i < 0 || i >= len(m.rows)) {
		return
	}
	m.clickedIndex = i
	for j := range m.rows {
		m.rows[j].Checked = j == i
	}
	if i >= 0 {
		m.cursor = i
	}
}

// Close hides the dialog. A positive close with a clicked row asks the
// host's change listener and, when it accepts, stores the value.
func (m *Model) Close(positive bool) ClosedMsg {
	m.open = false
	msg := ClosedMsg{Key: m.host.Key(), Positive: positive}
	if m.clickedIndex < 0 || m.clickedIndex >= len(m.values) {
		return msg
	}
	msg.Value = m.values[m.clickedIndex]
	if !positive {
		return msg
	}

	if !m.host.CallChangeListener(msg.Value) {
		log.Debug(log.CatUI, "change vetoed", "key", msg.Key, "value", msg.Value)
		return msg
	}
	if err := m.host.SetValue(msg.Value); err != nil {
		log.ErrorErr(log.CatUI, "storing preference failed", err, "key", msg.Key)
		msg.Err = err
		return msg
	}
	msg.Changed = true
	return msg
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key and mouse input while the dialog is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if !m.open {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.ClickItem(m.cursor)
		case key.Matches(msg, m.keys.Confirm):
			return m.closeCmd(true)
		case key.Matches(msg, m.keys.Cancel):
			return m.closeCmd(false)
		}
		return m, nil

	case tea.MouseMsg:
		if !m.open || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		k := m.host.Key()
		for i := range m.rows {
			if zone.Get(rowZoneID(k, i)).InBounds(msg) {
				m.ClickItem(i)
				return m, nil
			}
		}
		if zone.Get(buttonZoneID(k, buttonOK)).InBounds(msg) {
			return m.closeCmd(true)
		}
		if zone.Get(buttonZoneID(k, buttonCancel)).InBounds(msg) {
			return m.closeCmd(false)
		}
	}
	return m, nil
}

func (m Model) closeCmd(positive bool) (Model, tea.Cmd) {
	closed := m.Close(positive)
	return m, func() tea.Msg { return closed }
}

// View renders the dialog, or "" when closed.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	boxWidth := m.boxWidth()
	inner := boxWidth - 2
	k := m.host.Key()

	var lines []string
	lines = append(lines, "")
	for i, r := range m.rows {
		block := m.renderRow(i, r, inner)
		lines = append(lines, strings.Split(zone.Mark(rowZoneID(k, i), block), "\n")...)
	}
	if len(m.rows) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("  No choices"))
	}

	if m.dialogCaption != "" {
		lines = append(lines, "")
		muted := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
		for _, l := range wrap(m.dialogCaption, inner-2) {
			lines = append(lines, " "+muted.Render(l))
		}
	}

	lines = append(lines, "", m.renderButtons(k))

	m.help.Width = inner - 1
	lines = append(lines, " "+m.help.View(m.keys))

	return styles.RenderFormSection(lines, m.title, "", boxWidth, true, styles.BorderHighlightFocusColor)
}

func (m Model) boxWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth + 4
	}
	return max(min(w-4, maxWidth), minWidth)
}

// renderRow draws "› (•) Label" followed by the wrapped caption.
func (m Model) renderRow(i int, r Row, inner int) string {
	indicator := "( )"
	indicatorStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	if r.Checked {
		indicator = "(•)"
		indicatorStyle = lipgloss.NewStyle().Foreground(styles.SelectionIndicatorColor).Bold(true)
	}
	pointer := "  "
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if i == m.cursor {
		pointer = lipgloss.NewStyle().Foreground(styles.SelectionIndicatorColor).Render("› ")
		labelStyle = labelStyle.Bold(true)
	}

	labelWidth := max(inner-7, 1)
	label := ansi.Truncate(r.Label, labelWidth, "…")
	label = runewidth.FillRight(label, labelWidth)

	var b strings.Builder
	b.WriteString(pointer)
	b.WriteString(indicatorStyle.Render(indicator))
	b.WriteString(" ")
	b.WriteString(labelStyle.Render(label))

	if r.Caption != "" {
		captionStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
		for _, l := range wrap(r.Caption, max(inner-7, 1)) {
			b.WriteString("\n      ")
			b.WriteString(captionStyle.Render(l))
		}
	}
	return b.String()
}

func (m Model) renderButtons(k string) string {
	ok := lipgloss.NewStyle().
		Foreground(styles.ButtonTextColor).
		Background(styles.ButtonPrimaryBgColor).
		Bold(true).
		Padding(0, 2).
		Render("OK")
	cancel := lipgloss.NewStyle().
		Foreground(styles.TextSecondaryColor).
		Padding(0, 1).
		Render("Cancel")
	return " " + zone.Mark(buttonZoneID(k, buttonOK), ok) + "  " + zone.Mark(buttonZoneID(k, buttonCancel), cancel)
}

// wrap word-wraps s to width and hard-cuts words longer than a line.
func wrap(s string, width int) []string {
	lines := strings.Split(wordwrap.String(s, width), "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	return lines
}
