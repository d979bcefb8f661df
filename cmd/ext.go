package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/provider"
)

var extCmd = &cobra.Command{
	Use:   "ext <locator>",
	Short: "Print the file extension behind a locator",
	Long: `Print the file extension of the file behind a locator, without the dot.

The file name is tried first. Content locators then fall back to their MIME
type and other locators to the extension in the URL.

Examples:
  collect ext content://org.odk.collect.android.provider.odk.media/media/1
  collect ext file:///sdcard/audio/song.mp3
  collect ext https://example.org/forms/report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExt,
}

func init() {
	rootCmd.AddCommand(extCmd)
}

func runExt(cmd *cobra.Command, args []string) error {
	loc, err := provider.Parse(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ext, ok, err := newHelper(store).FileExtension(cmd.Context(), loc)
	if err != nil {
		return err
	}
	if !ok {
		notFound(cmd, "extension", loc)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ext)
	return nil
}
