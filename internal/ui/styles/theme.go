package styles

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken names a theme-able color, e.g. "text.primary".
type ColorToken string

// Color tokens.
const (
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenBorderDefault   ColorToken = "border.default"
	TokenBorderFocus     ColorToken = "border.focus"
	TokenSelection       ColorToken = "selection.indicator"
	TokenButtonPrimaryBg ColorToken = "button.primary.bg"
	TokenStatusError     ColorToken = "status.error"
	TokenStatusWarning   ColorToken = "status.warning"
	TokenStatusInfo      ColorToken = "status.info"
)

// Preset is a named set of colors.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// ThemeConfig selects a preset and overrides individual tokens.
type ThemeConfig struct {
	Preset string            `mapstructure:"preset"`
	Colors map[string]string `mapstructure:"colors"`
}

// DefaultPreset is applied when no preset is named.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Green accents on a dark terminal",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#E8E8E8",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#777777",
		TokenBorderDefault:   "#3C3C3C",
		TokenBorderFocus:     "#66BB6A",
		TokenSelection:       "#66BB6A",
		TokenButtonPrimaryBg: "#43A047",
		TokenStatusError:     "#EF5350",
		TokenStatusWarning:   "#FFA726",
		TokenStatusInfo:      "#54A0FF",
	},
}

// Presets lists the selectable presets by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,
	"high-contrast": {
		Name:        "high-contrast",
		Description: "White text and yellow focus",
		Colors: map[ColorToken]string{
			TokenTextPrimary:   "#FFFFFF",
			TokenTextSecondary: "#FFFFFF",
			TokenTextMuted:     "#C0C0C0",
			TokenBorderDefault: "#FFFFFF",
			TokenBorderFocus:   "#FFD600",
			TokenSelection:     "#FFD600",
		},
	},
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme installs the preset named by cfg (default when empty) and then
// the per-token overrides.
func ApplyTheme(cfg ThemeConfig) error {
	preset := DefaultPreset
	if cfg.Preset != "" {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q (available: %s)", cfg.Preset, strings.Join(PresetNames(), ", "))
		}
		preset = p
	}

	colors := make(map[ColorToken]string, len(DefaultPreset.Colors))
	for token, c := range DefaultPreset.Colors {
		colors[token] = c
	}
	for token, c := range preset.Colors {
		colors[token] = c
	}
	for name, c := range cfg.Colors {
		token := ColorToken(strings.ToLower(name))
		if _, ok := DefaultPreset.Colors[token]; !ok {
			return fmt.Errorf("unknown color token %q", name)
		}
		if !hexColor.MatchString(c) {
			return fmt.Errorf("invalid color %q for %s: want #RRGGBB", c, name)
		}
		colors[token] = c
	}

	for token, c := range colors {
		setDark(token, c)
	}
	return nil
}

func setDark(token ColorToken, c string) {
	target := map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:     &TextPrimaryColor,
		TokenTextSecondary:   &TextSecondaryColor,
		TokenTextMuted:       &TextMutedColor,
		TokenBorderDefault:   &BorderDefaultColor,
		TokenBorderFocus:     &BorderHighlightFocusColor,
		TokenSelection:       &SelectionIndicatorColor,
		TokenButtonPrimaryBg: &ButtonPrimaryBgColor,
		TokenStatusError:     &StatusErrorColor,
		TokenStatusWarning:   &StatusWarningColor,
		TokenStatusInfo:      &StatusInfoColor,
	}[token]
	if target != nil {
		target.Dark = c
	}
}
