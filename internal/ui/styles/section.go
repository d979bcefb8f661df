package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RenderFormSection draws content inside a rounded box of the given outer
// width with the title (and optional hint) set into the top border:
//
//	╭─ Title (hint) ───╮
//	│content           │
//	╰──────────────────╯
//
// Content lines wider than the box are truncated. A focused section uses
// focusColor for its border.
func RenderFormSection(content []string, title, hint string, width int, focused bool, focusColor lipgloss.TerminalColor) string {
	width = max(width, 3)
	inner := width - 2

	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = focusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	var b strings.Builder
	b.WriteString(topBorder(title, hint, inner, border, titleStyle, hintStyle))
	b.WriteString("\n")

	side := border.Render("│")
	for _, line := range content {
		if ansi.StringWidth(line) > inner {
			line = ansi.Truncate(line, inner, "")
		}
		pad := inner - ansi.StringWidth(line)
		b.WriteString(side)
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(side)
		b.WriteString("\n")
	}

	b.WriteString(border.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return b.String()
}

// topBorder renders "╭─ title (hint) ──╮". Titles that do not fit are
// truncated; when not even one character fits the border is left plain.
func topBorder(title, hint string, inner int, border, titleStyle, hintStyle lipgloss.Style) string {
	// "─ " before the title and " " after it.
	avail := inner - 3
	if title == "" || avail < 1 {
		return border.Render("╭" + strings.Repeat("─", inner) + "╮")
	}

	label := titleStyle.Render(ansi.Truncate(title, avail, "…"))
	used := ansi.StringWidth(ansi.Truncate(title, avail, "…"))
	if hint != "" && used+3 < avail {
		h := ansi.Truncate("("+hint+")", avail-used-1, "…")
		label += " " + hintStyle.Render(h)
		used += 1 + ansi.StringWidth(h)
	}

	fill := inner - 3 - used
	return border.Render("╭─ ") + label + border.Render(" "+strings.Repeat("─", fill)+"╮")
}
