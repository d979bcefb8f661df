package captionedlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Zone ID formats:
//
//	pref:{key}:row:{index}
//	pref:{key}:button:{ok|cancel}
//
// The preference key keeps zones unique when several dialogs share a
// screen.

const (
	buttonOK     = "ok"
	buttonCancel = "cancel"
)

func rowZoneID(key string, index int) string {
	return fmt.Sprintf("pref:%s:row:%d", key, index)
}

func buttonZoneID(key, button string) string {
	return fmt.Sprintf("pref:%s:button:%s", key, button)
}

// parseZoneID splits a zone ID into its kind ("row" or "button") and
// argument. Keys may themselves contain colons.
//
//nolint:unused // Used in zone_test.go for round-trip verification
func parseZoneID(zoneID string) (key, kind, arg string, ok bool) {
	if !strings.HasPrefix(zoneID, "pref:") {
		return "", "", "", false
	}
	rest := strings.TrimPrefix(zoneID, "pref:")
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return "", "", "", false
	}
	arg = rest[i+1:]
	rest = rest[:i]
	j := strings.LastIndex(rest, ":")
	if j < 0 {
		return "", "", "", false
	}
	key, kind = rest[:j], rest[j+1:]
	switch kind {
	case "row":
		if _, err := strconv.Atoi(arg); err != nil {
			return "", "", "", false
		}
	case "button":
		if arg != buttonOK && arg != buttonCancel {
			return "", "", "", false
		}
	default:
		return "", "", "", false
	}
	return key, kind, arg, true
}
