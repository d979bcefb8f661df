package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestRenderFormSection(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	focus := lipgloss.Color("#66BB6A")

	tests := []struct {
		name    string
		content []string
		title   string
		hint    string
		width   int
		want    []string
		notWant []string
	}{
		{
			name:    "title in border",
			content: []string{"(•) Manual updates"},
			title:   "Blank form update mode",
			width:   40,
			want:    []string{"╭─ Blank form update mode", "│(•) Manual updates", "╰", "╯"},
		},
		{
			name:    "hint in parentheses",
			content: []string{"row"},
			title:   "Auto send",
			hint:    "autosend",
			width:   40,
			want:    []string{"Auto send (autosend)"},
		},
		{
			name:    "no title",
			content: []string{"row"},
			width:   12,
			want:    []string{"╭──────────╮"},
			notWant: []string{"╭─ "},
		},
		{
			name:    "too narrow for title",
			content: []string{"X"},
			title:   "T",
			width:   5,
			want:    []string{"╭───╮", "│X  │"},
		},
		{
			name:    "minimum width",
			content: []string{"ABC"},
			width:   1,
			want:    []string{"╭─╮", "│A│", "╰─╯"},
		},
		{
			name:  "empty content",
			title: "Empty",
			width: 20,
			want:  []string{"╭─ Empty", "╰"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderFormSection(tt.content, tt.title, tt.hint, tt.width, false, focus)
			for _, w := range tt.want {
				require.Contains(t, got, w)
			}
			for _, nw := range tt.notWant {
				require.NotContains(t, got, nw)
			}
		})
	}
}

func TestRenderFormSection_LinesHaveBoxWidth(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	content := []string{"short", strings.Repeat("wide ", 20), "日本語のラベル"}
	got := RenderFormSection(content, "A very long dialog title that will not fit", "hint", 30, false, BorderHighlightFocusColor)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, len(content)+2)
	for i, line := range lines {
		require.Equal(t, 30, ansi.StringWidth(line), "line %d: %q", i, line)
	}
	require.Contains(t, lines[0], "A very long")
}

func TestRenderFormSection_FocusChangesColor(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	focus := lipgloss.Color("#54A0FF")
	unfocused := RenderFormSection([]string{"row"}, "Title", "", 30, false, focus)
	focused := RenderFormSection([]string{"row"}, "Title", "", 30, true, focus)

	require.Contains(t, focused, "Title")
	require.NotEqual(t, unfocused, focused)
}
