package provider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "collect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func ptr(s string) *string { return &s }

func TestStore_MigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestStore_QueryInstance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loc, err := s.InsertInstance(ctx, Instance{
		DisplayName: "Household 1",
		FilePath:    "household_2026/household_2026.xml",
		FormID:      "household",
		Version:     ptr("2026"),
		InstanceID:  "uuid:1",
	})
	require.NoError(t, err)
	require.Equal(t, InstanceLocator(1), loc)

	c, err := s.Query(ctx, loc)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.Equal(t, 1, c.Count())
	require.True(t, c.Next())

	path, err := c.String(c.ColumnIndex(InstanceColumns.InstanceFilePath))
	require.NoError(t, err)
	require.Equal(t, "household_2026/household_2026.xml", path)

	status, err := c.String(c.ColumnIndex(InstanceColumns.Status))
	require.NoError(t, err)
	require.Equal(t, "incomplete", status)
}

func TestStore_QueryNullVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loc, err := s.InsertForm(ctx, Form{DisplayName: "Trees", FormID: "trees", FilePath: "trees.xml"})
	require.NoError(t, err)

	c, err := s.Query(ctx, loc)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.True(t, c.Next())
	isNull, err := c.IsNull(c.ColumnIndex(FormsColumns.JrVersion))
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestStore_QueryCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.InsertForm(ctx, Form{DisplayName: id, FormID: id, FilePath: id + ".xml"})
		require.NoError(t, err)
	}

	c, err := s.Query(ctx, ContentLocator(FormsAuthority, TableForms, 0))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	require.Equal(t, 3, c.Count())

	var ids []string
	for c.Next() {
		v, err := c.String(c.ColumnIndex(FormsColumns.JrFormID))
		require.NoError(t, err)
		ids = append(ids, v)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestStore_QueryNoMatch(t *testing.T) {
	s := newTestStore(t)

	c, err := s.Query(context.Background(), InstanceLocator(42))
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, 0, c.Count())
	require.NoError(t, c.Close())
}

func TestStore_QueryUnknownAuthority(t *testing.T) {
	s := newTestStore(t)

	c, err := s.Query(context.Background(), MustParse("content://com.example.other/things/1"))
	require.NoError(t, err)
	require.Nil(t, c, "no provider serves the authority")

	c, err = s.Query(context.Background(), MustParse("file:///tmp/a.xml"))
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestStore_QueryUnknownPath(t *testing.T) {
	s := newTestStore(t)

	for _, raw := range []string{
		"content://org.odk.collect.android.provider.odk.forms/instances/1",
		"content://org.odk.collect.android.provider.odk.forms/forms/x",
		"content://org.odk.collect.android.provider.odk.forms/forms/1/extra",
	} {
		_, err := s.Query(context.Background(), MustParse(raw))
		require.ErrorIs(t, err, ErrUnknownLocator, raw)
	}
}

func TestStore_QueryCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, InstanceLocator(1))
	require.Error(t, err)
}

func TestStore_Type(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	audio, err := s.InsertMedia(ctx, Media{MimeType: "audio/mpeg", DataPath: "media/1"})
	require.NoError(t, err)
	blank, err := s.InsertMedia(ctx, Media{DataPath: "media/2"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		loc      Locator
		expected string
	}{
		{"media item", audio, "audio/mpeg"},
		{"media without type", blank, ""},
		{"missing media", MediaLocator(99), ""},
		{"media dir", ContentLocator(MediaAuthority, TableMedia, 0), MediaDirType},
		{"form item", FormLocator(1), FormItemType},
		{"form dir", ContentLocator(FormsAuthority, TableForms, 0), FormDirType},
		{"instance item", InstanceLocator(1), InstanceItemType},
		{"instance dir", ContentLocator(InstancesAuthority, TableInstances, 0), InstanceDirType},
		{"unknown authority", MustParse("content://com.example/x/1"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Type(ctx, tt.loc)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestStore_InsertInstanceUniqueID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := Instance{DisplayName: "x", FilePath: "x/x.xml", FormID: "x", InstanceID: "uuid:dup"}
	_, err := s.InsertInstance(ctx, in)
	require.NoError(t, err)
	_, err = s.InsertInstance(ctx, in)
	require.Error(t, err)
}
