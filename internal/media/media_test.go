package media

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldsurvey/collect/internal/provider"
)

type stubResolver struct {
	cursor *provider.MemoryCursor
	err    error
}

func (r *stubResolver) Query(context.Context, provider.Locator) (provider.Cursor, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.cursor == nil {
		return nil, nil
	}
	return r.cursor, nil
}

func (r *stubResolver) Type(context.Context, provider.Locator) (string, error) { return "", nil }

func TestFileName_FileScheme(t *testing.T) {
	n := NewNamer(&stubResolver{})

	name, ok, err := n.FileName(context.Background(), provider.MustParse("file:///sdcard/audio/song.mp3"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "song.mp3", name)

	_, ok, err = n.FileName(context.Background(), provider.MustParse("file:///"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileName_OtherSchemes(t *testing.T) {
	n := NewNamer(&stubResolver{err: errors.New("must not be queried")})

	for _, raw := range []string{"https://x/y.pdf", "/sdcard/a.mp3"} {
		_, ok, err := n.FileName(context.Background(), provider.MustParse(raw))
		require.NoError(t, err)
		require.False(t, ok, raw)
	}
}

func TestFileName_ContentDisplayName(t *testing.T) {
	ctx := context.Background()
	store, err := provider.Open(filepath.Join(t.TempDir(), "collect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())

	named, err := store.InsertMedia(ctx, provider.Media{DisplayName: "interview.m4a", MimeType: "audio/mp4", DataPath: "media/1"})
	require.NoError(t, err)
	unnamed, err := store.InsertMedia(ctx, provider.Media{MimeType: "audio/mpeg", DataPath: "media/2"})
	require.NoError(t, err)

	n := NewNamer(store)

	name, ok, err := n.FileName(ctx, named)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "interview.m4a", name)

	_, ok, err = n.FileName(ctx, unnamed)
	require.NoError(t, err)
	require.False(t, ok, "NULL display name")

	_, ok, err = n.FileName(ctx, provider.MediaLocator(99))
	require.NoError(t, err)
	require.False(t, ok, "no row")

	_, ok, err = n.FileName(ctx, provider.FormLocator(1))
	require.NoError(t, err)
	require.False(t, ok, "forms have no display-name column")
}

func TestFileName_ClosesCursor(t *testing.T) {
	c := provider.NewMemoryCursor([]string{provider.MediaColumns.DisplayName}, [][]sql.NullString{
		{{String: "a.jpg", Valid: true}},
	})
	n := NewNamer(&stubResolver{cursor: c})

	name, ok, err := n.FileName(context.Background(), provider.MediaLocator(1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a.jpg", name)
	require.True(t, c.Closed())
}

func TestFileName_QueryError(t *testing.T) {
	boom := errors.New("store offline")
	n := NewNamer(&stubResolver{err: boom})

	_, _, err := n.FileName(context.Background(), provider.MediaLocator(1))
	require.ErrorIs(t, err, boom)
}

func TestFileName_NoProvider(t *testing.T) {
	n := NewNamer(&stubResolver{})

	_, ok, err := n.FileName(context.Background(), provider.MediaLocator(1))
	require.NoError(t, err)
	require.False(t, ok)
}
