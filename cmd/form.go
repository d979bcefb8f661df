package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/lookup"
	"github.com/fieldsurvey/collect/internal/provider"
)

var formDetailsJSON bool

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Look up form metadata",
}

var formDetailsCmd = &cobra.Command{
	Use:   "details <instance-locator>",
	Short: "Show the form an instance was filled against",
	Long: `Show the instance file, form id and form version of an instance row.

Only the first row is used when the locator matches several.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormDetails,
}

var formPathCmd = &cobra.Command{
	Use:   "path <form-locator>",
	Short: "Print the absolute file path of a form",
	Long:  `Print the absolute file path of a form. The locator must match exactly one form row.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFormPath,
}

func init() {
	formDetailsCmd.Flags().BoolVar(&formDetailsJSON, "json", false, "print JSON instead of a rendered summary")
	formCmd.AddCommand(formDetailsCmd, formPathCmd)
	rootCmd.AddCommand(formCmd)
}

func runFormDetails(cmd *cobra.Command, args []string) error {
	loc, err := provider.Parse(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	info, err := newHelper(store).FormDetails(cmd.Context(), loc)
	if err != nil {
		return err
	}
	if info == nil {
		notFound(cmd, "form details", loc)
		return nil
	}

	if formDetailsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	out, err := renderDetails(cmd, info)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// renderDetails renders info as markdown, styled when writing to a
// terminal and plain otherwise.
func renderDetails(cmd *cobra.Command, info *lookup.FormInfo) (string, error) {
	version, ok := info.Version()
	if !ok {
		version = "_none_"
	} else {
		version = "`" + version + "`"
	}

	var md strings.Builder
	md.WriteString("# Form details\n\n")
	fmt.Fprintf(&md, "- **Form ID:** `%s`\n", info.FormID)
	fmt.Fprintf(&md, "- **Version:** %s\n", version)
	fmt.Fprintf(&md, "- **Instance file:** `%s`\n", info.InstancePath)

	style := glamour.WithStandardStyle("notty")
	if termenv.NewOutput(cmd.OutOrStdout()).Profile != termenv.Ascii {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(md.String())
}

func runFormPath(cmd *cobra.Command, args []string) error {
	loc, err := provider.Parse(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, ok, err := newHelper(store).FormPath(cmd.Context(), loc)
	if err != nil {
		return err
	}
	if !ok {
		notFound(cmd, "form path", loc)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), p)
	return nil
}
