// Package styles holds the colors and shared rendering helpers of the
// terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme-able colors. ApplyTheme rewrites the Dark variant of each.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E8E8E8"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#777777"}

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#C8C8C8", Dark: "#3C3C3C"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	SelectionBackground     = lipgloss.AdaptiveColor{Light: "#E8F5E9", Dark: "#1E2A1F"}

	ButtonPrimaryBgColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#43A047"}
	ButtonTextColor      = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E8E8E8"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#5A5A5A"}

	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFA726"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#54A0FF"}
)
