package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Locator schemes.
const (
	SchemeContent = "content"
	SchemeFile    = "file"
)

// Authorities served by Store.
const (
	FormsAuthority     = "org.odk.collect.android.provider.odk.forms"
	InstancesAuthority = "org.odk.collect.android.provider.odk.instances"
	MediaAuthority     = "org.odk.collect.android.provider.odk.media"
)

// ErrInvalidLocator is returned when a locator string cannot be parsed.
var ErrInvalidLocator = errors.New("invalid locator")

// Locator is an opaque reference to zero or more rows (content scheme) or to
// a plain file or URL. The zero value is an empty locator.
type Locator struct {
	u *url.URL
}

// Parse parses a locator such as
// "content://org.odk.collect.android.provider.odk.instances/instances/3",
// "file:///sdcard/a.mp3" or "https://example.org/a.pdf".
func Parse(raw string) (Locator, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Locator{}, fmt.Errorf("%w: empty", ErrInvalidLocator)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %w", ErrInvalidLocator, err)
	}
	if u.Scheme == SchemeContent && u.Host == "" {
		return Locator{}, fmt.Errorf("%w: content locator without authority: %s", ErrInvalidLocator, raw)
	}
	return Locator{u: u}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(raw string) Locator {
	loc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// ContentLocator builds content://<authority>/<table> when id <= 0, or
// content://<authority>/<table>/<id> otherwise.
func ContentLocator(authority, table string, id int64) Locator {
	path := "/" + table
	if id > 0 {
		path += "/" + strconv.FormatInt(id, 10)
	}
	return Locator{u: &url.URL{Scheme: SchemeContent, Host: authority, Path: path}}
}

// FormLocator addresses one form row.
func FormLocator(id int64) Locator { return ContentLocator(FormsAuthority, TableForms, id) }

// InstanceLocator addresses one instance row.
func InstanceLocator(id int64) Locator { return ContentLocator(InstancesAuthority, TableInstances, id) }

// MediaLocator addresses one media row.
func MediaLocator(id int64) Locator { return ContentLocator(MediaAuthority, TableMedia, id) }

// IsZero reports whether the locator is empty.
func (l Locator) IsZero() bool { return l.u == nil }

// Scheme returns the locator scheme, or "" for bare paths.
func (l Locator) Scheme() string {
	if l.u == nil {
		return ""
	}
	return l.u.Scheme
}

// IsContent reports whether the locator refers to rows in a row store.
func (l Locator) IsContent() bool { return l.Scheme() == SchemeContent }

// Authority returns the host part of the locator.
func (l Locator) Authority() string {
	if l.u == nil {
		return ""
	}
	return l.u.Host
}

// Path returns the decoded path.
func (l Locator) Path() string {
	if l.u == nil {
		return ""
	}
	return l.u.Path
}

// Segments returns the non-empty path segments.
func (l Locator) Segments() []string {
	var out []string
	for _, s := range strings.Split(l.Path(), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ID returns the trailing numeric row id, if the locator has one.
func (l Locator) ID() (int64, bool) {
	segs := l.Segments()
	if len(segs) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(segs[len(segs)-1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (l Locator) String() string {
	if l.u == nil {
		return ""
	}
	return l.u.String()
}
