package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/fieldsurvey/collect/internal/config"
	"github.com/fieldsurvey/collect/internal/prefs"
	"github.com/fieldsurvey/collect/internal/ui/captionedlist"
)

func newAutosend(t *testing.T) (*prefs.ListPreference, *prefs.FileStore) {
	t.Helper()
	store, err := prefs.OpenFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)
	p := config.DefaultPreferences()[config.AutosendKey]
	return prefs.NewListPreference(config.AutosendKey, store, p.Choices()), store
}

func runTestChooser(t *testing.T, pref *prefs.ListPreference, msgs ...tea.Msg) chooser {
	t.Helper()
	m, err := newChooser(pref)
	require.NoError(t, err)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))
	for _, msg := range msgs {
		tm.Send(msg)
	}
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	c, ok := final.(chooser)
	require.True(t, ok, "expected chooser model")
	return c
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestChooser_ConfirmStoresClickedValue(t *testing.T) {
	pref, store := newAutosend(t)

	c := runTestChooser(t, pref, down, space, enter)

	require.True(t, c.done)
	require.Equal(t, captionedlist.ClosedMsg{Key: "autosend", Positive: true, Value: "wifi_only", Changed: true}, c.result.closed)
	v, ok := store.Get("autosend")
	require.True(t, ok)
	require.Equal(t, "wifi_only", v)
}

func TestChooser_CancelKeepsValue(t *testing.T) {
	pref, store := newAutosend(t)
	require.NoError(t, store.Set("autosend", "cellular_only"))

	c := runTestChooser(t, pref, down, space, esc)

	require.True(t, c.done)
	require.False(t, c.result.closed.Positive)
	v, _ := store.Get("autosend")
	require.Equal(t, "cellular_only", v)
}

func TestChooser_ConfirmWithoutClick(t *testing.T) {
	pref, store := newAutosend(t)

	c := runTestChooser(t, pref, down, enter)

	require.True(t, c.result.closed.Positive)
	require.False(t, c.result.closed.Changed)
	_, ok := store.Get("autosend")
	require.False(t, ok, "nothing stored without a click")
}

func TestChooser_LogOverlayTakesKeys(t *testing.T) {
	pref, store := newAutosend(t)

	// esc closes the overlay first; the second esc cancels the dialog.
	c := runTestChooser(t, pref,
		tea.KeyMsg{Type: tea.KeyCtrlX},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}},
		esc,
		down, space, esc,
	)

	require.True(t, c.done)
	require.False(t, c.logs.Visible())
	require.False(t, c.result.closed.Positive)
	_, ok := store.Get("autosend")
	require.False(t, ok)
}

func TestChooser_ReloadRefreshesCheckedRow(t *testing.T) {
	pref, store := newAutosend(t)
	m, err := newChooser(pref)
	require.NoError(t, err)
	require.True(t, m.dialog.Rows()[0].Checked, "default value is checked")

	require.NoError(t, store.Set("autosend", "wifi_and_cellular"))
	next, _ := m.Update(prefsReloadedMsg{})
	rows := next.(chooser).dialog.Rows()
	require.False(t, rows[0].Checked)
	require.True(t, rows[3].Checked)
}

func TestChooser_NoDefaultChecksNothing(t *testing.T) {
	_, store := newAutosend(t)
	choices := config.DefaultPreferences()[config.AutosendKey].Choices()
	choices.Default = ""
	pref := prefs.NewListPreference(config.AutosendKey, store, choices)

	m, err := newChooser(pref)
	require.NoError(t, err)
	for i, r := range m.dialog.Rows() {
		require.False(t, r.Checked, "row %d", i)
	}

	require.NoError(t, store.Set(config.AutosendKey, "cellular_only"))
	next, _ := m.Update(prefsReloadedMsg{})
	require.True(t, next.(chooser).dialog.Rows()[2].Checked)
}

func TestChooser_ReloadKeepsClickedRow(t *testing.T) {
	pref, store := newAutosend(t)
	m, err := newChooser(pref)
	require.NoError(t, err)
	m.dialog.ClickItem(1)

	require.NoError(t, store.Set("autosend", "wifi_and_cellular"))
	next, _ := m.Update(prefsReloadedMsg{})
	c := next.(chooser)

	var checkedRows []int
	for i, r := range c.dialog.Rows() {
		if r.Checked {
			checkedRows = append(checkedRows, i)
		}
	}
	require.Equal(t, []int{1}, checkedRows)

	closed := c.dialog.Close(true)
	require.True(t, closed.Changed)
	require.Equal(t, "wifi_only", closed.Value)
	v, _ := store.Get("autosend")
	require.Equal(t, "wifi_only", v)
}

func TestReportChoice(t *testing.T) {
	pref, _ := newAutosend(t)
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	require.NoError(t, reportChoice(c, pref, chooserResult{closed: captionedlist.ClosedMsg{
		Positive: true, Value: "wifi_only", Changed: true,
	}}))
	require.Equal(t, "autosend = wifi_only (Only with Wi-Fi)\n", out.String())

	out.Reset()
	require.NoError(t, reportChoice(c, pref, chooserResult{}))
	require.Equal(t, "autosend unchanged (off)\n", out.String())
}
