package captionedlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZoneIDs(t *testing.T) {
	require.Equal(t, "pref:autosend:row:2", rowZoneID("autosend", 2))
	require.Equal(t, "pref:autosend:button:ok", buttonZoneID("autosend", buttonOK))
}

func TestParseZoneID(t *testing.T) {
	tests := []struct {
		name   string
		zoneID string
		key    string
		kind   string
		arg    string
		ok     bool
	}{
		{"row", "pref:autosend:row:0", "autosend", "row", "0", true},
		{"button", "pref:form_update_mode:button:cancel", "form_update_mode", "button", "cancel", true},
		{"key with colon", "pref:a:b:row:3", "a:b", "row", "3", true},
		{"bad prefix", "col:0:issue:1", "", "", "", false},
		{"bad row index", "pref:k:row:x", "", "", "", false},
		{"bad button", "pref:k:button:maybe", "", "", "", false},
		{"unknown kind", "pref:k:cell:1", "", "", "", false},
		{"too short", "pref:k", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, kind, arg, ok := parseZoneID(tt.zoneID)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.key, key)
			require.Equal(t, tt.kind, kind)
			require.Equal(t, tt.arg, arg)
		})
	}

	for _, id := range []string{rowZoneID("k", 4), buttonZoneID("k", buttonOK)} {
		_, _, _, ok := parseZoneID(id)
		require.True(t, ok, id)
	}
}
