package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and edit preferences",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured list preferences and their values",
	Args:  cobra.NoArgs,
	RunE:  runPrefsList,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a preference value",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference value",
	Long: `Store a preference value. Configured list preferences only accept
one of their values.`,
	Args: cobra.ExactArgs(2),
	RunE: runPrefsSet,
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored preference value",
	Long: `Remove a stored preference value. Configured list preferences fall back
to their default afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefsUnset,
}

var prefsChooseCmd = &cobra.Command{
	Use:   "choose <key>",
	Short: "Pick a list preference value in a dialog",
	Long: `Open the choice dialog for a configured list preference.

Keys: j/k or arrows move, space chooses, enter confirms, esc cancels,
ctrl+x shows the debug log. Rows and buttons can be clicked.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefsChoose,
}

func init() {
	prefsCmd.AddCommand(prefsListCmd, prefsGetCmd, prefsSetCmd, prefsUnsetCmd, prefsChooseCmd)
	rootCmd.AddCommand(prefsCmd)
}

// errUnknownPreference is returned for keys without a configured choice set.
var errUnknownPreference = errors.New("unknown preference")

func openPrefs() (*prefs.FileStore, error) {
	store, err := prefs.OpenFileStore(cfg.Prefs)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatPrefs, "preferences opened", "file", store.Path(), "stored", len(store.Keys()))
	return store, nil
}

// listPreference binds a configured preference to store.
func listPreference(store prefs.Store, key string) (*prefs.ListPreference, error) {
	p, ok := cfg.Preference(key)
	if !ok {
		return nil, fmt.Errorf("%w %q (configured: %v)", errUnknownPreference, key, cfg.PreferenceKeys())
	}
	pref := prefs.NewListPreference(key, store, p.Choices())
	pref.SetChangeListener(func(key, value string) bool {
		log.Info(log.CatPrefs, "preference changing", "key", key, "value", value)
		return true
	})
	return pref, nil
}

func runPrefsList(cmd *cobra.Command, _ []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tLABEL")
	for _, key := range cfg.PreferenceKeys() {
		pref, err := listPreference(store, key)
		if err != nil {
			return err
		}
		v, _ := pref.Value()
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, v, pref.Label(v))
	}
	for _, key := range store.Keys() {
		if _, configured := cfg.Preference(key); configured {
			continue
		}
		v, _ := store.Get(key)
		fmt.Fprintf(w, "%s\t%s\t-\n", key, v)
	}
	return w.Flush()
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}

	key := args[0]
	if _, configured := cfg.Preference(key); configured {
		pref, err := listPreference(store, key)
		if err != nil {
			return err
		}
		if v, ok := pref.Value(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}
	} else if v, ok := store.Get(key); ok {
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "preference %s not set\n", key)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if _, configured := cfg.Preference(key); !configured {
		return store.Set(key, value)
	}
	pref, err := listPreference(store, key)
	if err != nil {
		return err
	}
	if !pref.CallChangeListener(value) {
		return fmt.Errorf("change of %s rejected", key)
	}
	return pref.SetValue(value)
}

func runPrefsUnset(_ *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}
	return store.Delete(args[0])
}

func runPrefsChoose(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}
	pref, err := listPreference(store, args[0])
	if err != nil {
		return err
	}

	result, err := runChooser(cmd, store, pref)
	if err != nil {
		return err
	}
	return reportChoice(cmd, pref, result)
}

func reportChoice(cmd *cobra.Command, pref *prefs.ListPreference, result chooserResult) error {
	out := cmd.OutOrStdout()
	switch {
	case result.closed.Err != nil:
		return fmt.Errorf("storing %s: %w", pref.Key(), result.closed.Err)
	case result.closed.Changed:
		fmt.Fprintf(out, "%s = %s (%s)\n", pref.Key(), result.closed.Value, pref.Label(result.closed.Value))
	default:
		v, _ := pref.Value()
		fmt.Fprintf(out, "%s unchanged (%s)\n", pref.Key(), v)
	}
	return nil
}
