package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	_, ok := s.Get("autosend")
	require.False(t, ok)
	require.Empty(t, s.Keys())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s, err := OpenFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("autosend", "wifi_only"))
	require.NoError(t, s.Set("form_update_mode", "manual"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get("autosend")
	require.True(t, ok)
	require.Equal(t, "wifi_only", v)
	require.Equal(t, []string{"autosend", "form_update_mode"}, reopened.Keys())

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file must not remain")
}

func TestFileStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("autosend", "off"))

	require.NoError(t, s.Delete("autosend"))
	require.NoError(t, s.Delete("never-set"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := reopened.Get("autosend")
	require.False(t, ok)
}

func TestFileStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autosend: [unterminated"), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing preferences")
}

func TestFileStore_WatchReloadsExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("autosend", "off"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	require.NoError(t, s.Watch(ctx, func() { changes.Add(1) }))

	require.NoError(t, os.WriteFile(path, []byte("autosend: wifi_and_cellular\n"), 0o600))

	require.Eventually(t, func() bool {
		v, _ := s.Get("autosend")
		return v == "wifi_and_cellular"
	}, 5*time.Second, 20*time.Millisecond)
	require.Positive(t, changes.Load())
}
