// Package mimemap maps MIME types and URLs to file extensions.
// Extensions are returned without the leading dot.
package mimemap

import (
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/patrickmn/go-cache"

	"github.com/fieldsurvey/collect/internal/log"
)

// Map resolves extensions for MIME types and memoizes the answers,
// including misses.
type Map struct {
	cache *cache.Cache
}

// New returns a Map whose entries live for ttl. A non-positive ttl keeps
// entries for the life of the Map.
func New(ttl time.Duration) *Map {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Map{cache: cache.New(ttl, 10*time.Minute)}
}

// ExtensionForMimeType returns the preferred extension for mimeType.
// Parameters such as "; charset=utf-8" are ignored.
func (m *Map) ExtensionForMimeType(mimeType string) (string, bool) {
	key := normalize(mimeType)
	if key == "" {
		return "", false
	}

	if v, found := m.cache.Get(key); found {
		ext, _ := v.(string)
		return ext, ext != ""
	}

	ext := lookup(key)
	m.cache.SetDefault(key, ext)
	log.Debug(log.CatMedia, "mime lookup", "type", key, "ext", ext)
	return ext, ext != ""
}

// Len returns the number of memoized types.
func (m *Map) Len() int {
	return m.cache.ItemCount()
}

func normalize(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// lookup prefers the mimetype tree and falls back to the platform table
// for types it does not know.
func lookup(key string) string {
	if mt := mimetype.Lookup(key); mt != nil {
		if ext := strings.TrimPrefix(mt.Extension(), "."); ext != "" {
			return ext
		}
	}
	exts, err := mime.ExtensionsByType(key)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return strings.TrimPrefix(exts[0], ".")
}

var urlFileName = regexp.MustCompile(`^[a-zA-Z_0-9.\-()%]+$`)

// ExtensionFromURL returns the extension of the last path element of raw,
// or "" when there is none. The fragment and query are ignored, and names
// containing characters outside [a-zA-Z_0-9.-()%] yield "".
func ExtensionFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	if i := strings.LastIndexByte(raw, '#'); i > 0 {
		raw = raw[:i]
	}
	if i := strings.LastIndexByte(raw, '?'); i > 0 {
		raw = raw[:i]
	}

	name := raw
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		name = raw[i+1:]
	}
	if name == "" || !urlFileName.MatchString(name) {
		return ""
	}

	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
