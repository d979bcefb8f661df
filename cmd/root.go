// Package cmd implements the collect command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/config"
	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/lookup"
	"github.com/fieldsurvey/collect/internal/provider"
	"github.com/fieldsurvey/collect/internal/tracing"
	"github.com/fieldsurvey/collect/internal/ui/styles"
)

// version is set at build time with -ldflags "-X .../cmd.version=v1.2.3".
var version = "dev"

var (
	cfgFile     string
	storageFlag string
	debugFlag   bool

	cfg        *config.Config
	traces     *tracing.Provider
	logCleanup func()
)

const logBufferSize = 500

var rootCmd = &cobra.Command{
	Use:   "collect",
	Short: "Inspect collected forms and edit collection preferences",
	Long: `collect reads the form, instance and media rows of a collect workspace.

It resolves instance metadata, form file paths and media file extensions
from row locators such as
  content://org.odk.collect.android.provider.odk.instances/instances/1
and edits list preferences through an interactive dialog.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .collect.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "workspace directory (default: working directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug log to the storage dir")
}

// setup loads configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	c, err := config.Load(config.Options{
		File:       cfgFile,
		WorkingDir: wd,
		Storage:    storageFlag,
		Debug:      debugFlag || log.EnabledFromEnv(),
	})
	if err != nil {
		return err
	}
	cfg = c

	if cfg.Log.Debug {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o750); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
		cleanup, err := log.Init(cfg.Log.File, logBufferSize)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	}

	if err := styles.ApplyTheme(cfg.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	traces, err = tracing.Setup(cmd.Context(), cfg.Tracing)
	if err != nil {
		return err
	}

	log.Info(log.CatConfig, "command started", "cmd", cmd.CommandPath(), "storage", cfg.Storage, "version", version)
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	var err error
	if traces != nil {
		err = traces.Shutdown(cmd.Context())
		traces = nil
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return err
}

// openStore opens the configured row store and brings its schema up to
// date.
func openStore() (*provider.Store, error) {
	if err := cfg.Layout().EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating storage dirs: %w", err)
	}
	store, err := provider.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newHelper(store *provider.Store) *lookup.Helper {
	opts := []lookup.Option{}
	if traces != nil {
		opts = append(opts, lookup.WithTracer(traces.Tracer(lookup.TracerName)))
	}
	return lookup.New(store, cfg.Layout(), opts...)
}

func notFound(cmd *cobra.Command, what string, loc provider.Locator) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s not found for %s\n", what, loc)
}
