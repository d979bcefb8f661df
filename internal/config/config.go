// Package config loads collect's configuration from defaults, a YAML
// config file and COLLECT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/paths"
	"github.com/fieldsurvey/collect/internal/prefs"
	"github.com/fieldsurvey/collect/internal/ui/styles"
)

const (
	appName = "collect"

	// Built-in list preference keys.
	FormUpdateModeKey = "form_update_mode"
	AutosendKey       = "autosend"

	defaultDatabase = "collect.db"
	defaultPrefs    = "prefs.yaml"
	defaultLogFile  = "debug.log"
)

// Tracing exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// LogConfig configures the debug log.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"`
	File     string `mapstructure:"file"`
}

// Preference is the configured choice set of a list preference.
type Preference struct {
	Title    string   `mapstructure:"title"`
	Caption  string   `mapstructure:"caption"`
	Default  string   `mapstructure:"default"`
	Values   []string `mapstructure:"values"`
	Labels   []string `mapstructure:"labels"`
	Captions []string `mapstructure:"captions"`
}

// Choices converts p for prefs.NewListPreference.
func (p Preference) Choices() prefs.Choices {
	return prefs.Choices{
		Title:    p.Title,
		Caption:  p.Caption,
		Default:  p.Default,
		Values:   p.Values,
		Labels:   p.Labels,
		Captions: p.Captions,
	}
}

// Config is the resolved configuration. Paths are absolute or rooted at
// the storage dir.
type Config struct {
	Storage     string                `mapstructure:"storage"`
	Database    string                `mapstructure:"database"`
	Prefs       string                `mapstructure:"prefs"`
	Log         LogConfig             `mapstructure:"log"`
	Tracing     TracingConfig         `mapstructure:"tracing"`
	Preferences map[string]Preference `mapstructure:"preferences"`
	Theme       styles.ThemeConfig    `mapstructure:"theme"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Layout returns the storage layout for c.
func (c *Config) Layout() paths.Layout {
	return paths.Layout{Root: c.Storage}
}

// Preference returns the configured preference for key.
func (c *Config) Preference(key string) (Preference, bool) {
	p, ok := c.Preferences[key]
	return p, ok
}

// PreferenceKeys returns the configured preference keys in sorted order.
func (c *Config) PreferenceKeys() []string {
	keys := make([]string, 0, len(c.Preferences))
	for k := range c.Preferences {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Options carries command line overrides. Zero values leave the loaded
// configuration alone.
type Options struct {
	// File is an explicit config file; it must exist.
	File string
	// WorkingDir is searched for .collect.yaml and is the default storage
	// location.
	WorkingDir string
	Storage    string
	Debug      bool
}

// Load reads the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	configureViper(v, opts)
	setDefaults(v, opts.WorkingDir)

	if err := readConfig(v.ReadInConfig()); err != nil {
		return nil, err
	}

	if opts.Storage != "" {
		v.Set("storage", opts.Storage)
	}
	if opts.Debug {
		v.Set("log.debug", true)
		v.Set("log.level", "debug")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	log.Debug(log.CatConfig, "config loaded", "file", cfg.File, "storage", cfg.Storage)
	return cfg, nil
}

func configureViper(v *viper.Viper, opts Options) {
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("." + appName)
		v.SetConfigType("yaml")
		if opts.WorkingDir != "" {
			v.AddConfigPath(opts.WorkingDir)
		}
		v.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper, workingDir string) {
	if workingDir == "" {
		workingDir = "."
	}
	v.SetDefault("storage", workingDir)
	v.SetDefault("database", "")
	v.SetDefault("prefs", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("tracing.exporter", ExporterNone)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.file", "")
	v.SetDefault("theme.preset", "")

	for key, p := range DefaultPreferences() {
		base := "preferences." + key + "."
		v.SetDefault(base+"title", p.Title)
		v.SetDefault(base+"caption", p.Caption)
		v.SetDefault(base+"default", p.Default)
		v.SetDefault(base+"values", p.Values)
		v.SetDefault(base+"labels", p.Labels)
		v.SetDefault(base+"captions", p.Captions)
	}
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// resolvePaths anchors file settings at the storage dir.
func (c *Config) resolvePaths() {
	c.Storage = paths.ResolveStorageDir(c.Storage)
	c.Database = c.inStorage(c.Database, defaultDatabase)
	c.Prefs = c.inStorage(c.Prefs, defaultPrefs)
	c.Log.File = c.inStorage(c.Log.File, defaultLogFile)
	if c.Tracing.File != "" {
		c.Tracing.File = c.inStorage(c.Tracing.File, "")
	}
}

func (c *Config) inStorage(p, fallback string) string {
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Storage, p)
}

// Validate checks value ranges and that every preference's choices are
// consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}

	switch c.Tracing.Exporter {
	case ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter: unknown exporter %q", c.Tracing.Exporter)
	}

	for _, key := range c.PreferenceKeys() {
		p := c.Preferences[key]
		if len(p.Values) == 0 {
			return fmt.Errorf("preferences.%s: no values", key)
		}
		if len(p.Labels) != 0 && len(p.Labels) != len(p.Values) {
			return fmt.Errorf("preferences.%s: %d labels for %d values", key, len(p.Labels), len(p.Values))
		}
		if len(p.Captions) != 0 && len(p.Captions) != len(p.Values) {
			return fmt.Errorf("preferences.%s: %d captions for %d values", key, len(p.Captions), len(p.Values))
		}
		if p.Default != "" && !slices.Contains(p.Values, p.Default) {
			return fmt.Errorf("preferences.%s: default %q is not a value", key, p.Default)
		}
	}
	return nil
}

// DefaultPreferences returns the built-in list preferences.
func DefaultPreferences() map[string]Preference {
	return map[string]Preference{
		FormUpdateModeKey: {
			Title:   "Blank form update mode",
			Caption: "Applies to forms downloaded from the server.",
			Default: "manual",
			Values:  []string{"manual", "previously_downloaded", "match_exactly"},
			Labels:  []string{"Manual updates", "Previously downloaded forms only", "Exactly match server"},
			Captions: []string{
				"Forms are only updated when you download them.",
				"Newer versions of forms already on the device are downloaded automatically.",
				"Forms on the device are kept identical to the forms on the server.",
			},
		},
		AutosendKey: {
			Title:   "Auto send",
			Caption: "Finalized forms are sent in the background.",
			Default: "off",
			Values:  []string{"off", "wifi_only", "cellular_only", "wifi_and_cellular"},
			Labels:  []string{"Off", "Only with Wi-Fi", "Only with cellular data", "With Wi-Fi or cellular data"},
			Captions: []string{
				"",
				"Send when a Wi-Fi network is available.",
				"Send when mobile data is available.",
				"Send on any network.",
			},
		},
	}
}
