package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/paths"
	"github.com/fieldsurvey/collect/internal/provider"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the workspace database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations",
	Args:  cobra.NoArgs,
	RunE:  runDBMigrate,
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo forms, instances and media",
	Long: `Insert a small set of demo rows and print their locators.

The rows cover a versioned and an unversioned form, an instance of each, and
media with and without a display name.`,
	Args: cobra.NoArgs,
	RunE: runDBSeed,
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd, dbSeedCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBMigrate(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.Database)
	return nil
}

func runDBSeed(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	layout := cfg.Layout()
	version := "2024061201"
	started := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	instanceDir := "all-widgets_2024-06-12_10-00-00"

	var locs []provider.Locator
	add := func(loc provider.Locator, err error) error {
		if err != nil {
			return err
		}
		locs = append(locs, loc)
		return nil
	}
	// Rows store paths relative to their storage subdirectory, the way
	// files saved into the workspace are recorded.
	formFile := func(name, formID string) (string, error) {
		abs := filepath.Join(layout.Dir(paths.FormsDir), name)
		return layout.RelativeFormFilePath(abs), writeDemoXML(abs, formID)
	}
	instanceFile := func(name, formID string) (string, error) {
		abs := filepath.Join(layout.Dir(paths.InstancesDir), name, name+".xml")
		return layout.RelativeInstanceFilePath(abs), writeDemoXML(abs, formID)
	}

	steps := []func() error{
		func() error {
			rel, err := formFile("all-widgets.xml", "all-widgets")
			if err != nil {
				return err
			}
			return add(store.InsertForm(ctx, provider.Form{
				DisplayName: "All widgets", FormID: "all-widgets", Version: &version,
				FilePath: rel, MediaPath: "all-widgets-media",
			}))
		},
		func() error {
			rel, err := formFile("household.xml", "household")
			if err != nil {
				return err
			}
			return add(store.InsertForm(ctx, provider.Form{
				DisplayName: "Household survey", FormID: "household", FilePath: rel,
			}))
		},
		func() error {
			rel, err := instanceFile(instanceDir, "all-widgets")
			if err != nil {
				return err
			}
			return add(store.InsertInstance(ctx, provider.Instance{
				DisplayName: "All widgets", FormID: "all-widgets", Version: &version,
				FilePath:   rel,
				Status:     "complete",
				InstanceID: "uuid:" + uuid.NewString(), LastStatusChange: started,
			}))
		},
		func() error {
			rel, err := instanceFile("household_2024-06-12", "household")
			if err != nil {
				return err
			}
			return add(store.InsertInstance(ctx, provider.Instance{
				DisplayName: "Household survey", FormID: "household",
				FilePath:   rel,
				InstanceID: "uuid:" + uuid.NewString(), LastStatusChange: started,
			}))
		},
		func() error {
			return add(store.InsertMedia(ctx, provider.Media{
				DisplayName: "interview.mp3", MimeType: "audio/mpeg", DataPath: "media/interview.mp3",
			}))
		},
		func() error {
			return add(store.InsertMedia(ctx, provider.Media{MimeType: "audio/mpeg", DataPath: "media/rec-0001"}))
		},
		func() error {
			return add(store.InsertMedia(ctx, provider.Media{MimeType: "image/png", DataPath: "media/photo-0001"}))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	log.Info(log.CatDB, "seeded demo rows", "rows", len(locs))
	for _, loc := range locs {
		fmt.Fprintln(cmd.OutOrStdout(), loc)
	}
	return nil
}

// writeDemoXML writes a minimal XML document for formID at path.
func writeDemoXML(path, formID string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	doc := fmt.Sprintf("<?xml version=\"1.0\"?>\n<data id=%q/>\n", formID)
	return os.WriteFile(path, []byte(doc), 0o600)
}
