package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/prefs"
	"github.com/fieldsurvey/collect/internal/ui/captionedlist"
	"github.com/fieldsurvey/collect/internal/ui/logoverlay"
)

// prefsReloadedMsg is sent when the preference file changed on disk.
type prefsReloadedMsg struct{}

type chooserResult struct {
	closed captionedlist.ClosedMsg
}

// chooser hosts the choice dialog and the log overlay in one program.
type chooser struct {
	dialog captionedlist.Model
	logs   logoverlay.Model
	result chooserResult
	done   bool
}

func newChooser(pref *prefs.ListPreference) (chooser, error) {
	choices := pref.Choices()
	dialog := captionedlist.New(pref)
	if err := dialog.SetItems(choices.Values, choices.Labels, choices.Captions); err != nil {
		return chooser{}, fmt.Errorf("preference %s: %w", pref.Key(), err)
	}
	dialog.SetTitle(choices.Title)
	dialog.SetDialogCaption(choices.Caption)
	dialog.Open()
	return chooser{dialog: dialog, logs: logoverlay.New()}, nil
}

func (c chooser) Init() tea.Cmd {
	return nil
}

func (c chooser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.dialog, _ = c.dialog.Update(msg)
		c.logs, _ = c.logs.Update(msg)
		return c, nil

	case captionedlist.ClosedMsg:
		c.result.closed = msg
		c.done = true
		return c, tea.Quit

	case prefsReloadedMsg:
		c.dialog.Refresh()
		return c, nil

	case logoverlay.CloseMsg:
		return c, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			c.result.closed = c.dialog.Close(false)
			c.done = true
			return c, tea.Quit
		case msg.String() == "ctrl+x" && !c.logs.Visible():
			c.logs.Show()
			return c, nil
		case c.logs.Visible():
			c.logs, cmd = c.logs.Update(msg)
			return c, cmd
		}
	}

	c.dialog, cmd = c.dialog.Update(msg)
	return c, cmd
}

func (c chooser) View() string {
	return zone.Scan(c.logs.Overlay(c.dialog.View()))
}

// runChooser runs the dialog until it closes. External edits to the
// preference file refresh the checked row while the dialog is open.
func runChooser(cmd *cobra.Command, store *prefs.FileStore, pref *prefs.ListPreference) (chooserResult, error) {
	zone.NewGlobal()

	model, err := newChooser(pref)
	if err != nil {
		return chooserResult{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := store.Watch(ctx, func() { p.Send(prefsReloadedMsg{}) }); err != nil {
		log.Warn(log.CatWatcher, "preference watch unavailable", "error", err)
	}

	final, err := p.Run()
	if err != nil {
		return chooserResult{}, fmt.Errorf("running dialog: %w", err)
	}
	return final.(chooser).result, nil
}
