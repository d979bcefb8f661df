// Package media derives file names for locators.
package media

import (
	"context"
	"fmt"
	"path"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/provider"
)

// Namer resolves the file name behind a locator.
type Namer struct {
	resolver provider.Resolver
}

// NewNamer returns a Namer that reads display names from resolver.
func NewNamer(resolver provider.Resolver) *Namer {
	return &Namer{resolver: resolver}
}

// FileName returns the file name for loc.
//
// file locators use the last element of their path. content locators use
// the display-name column of the first matching row. Other schemes have no
// resolvable name.
func (n *Namer) FileName(ctx context.Context, loc provider.Locator) (string, bool, error) {
	switch loc.Scheme() {
	case provider.SchemeFile:
		name := path.Base(loc.Path())
		if name == "." || name == "/" {
			return "", false, nil
		}
		return name, true, nil
	case provider.SchemeContent:
		return n.displayName(ctx, loc)
	default:
		return "", false, nil
	}
}

func (n *Namer) displayName(ctx context.Context, loc provider.Locator) (name string, ok bool, err error) {
	c, err := n.resolver.Query(ctx, loc)
	if err != nil {
		return "", false, fmt.Errorf("resolving file name: %w", err)
	}
	if c == nil {
		return "", false, nil
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if !c.Next() {
		return "", false, nil
	}
	col := c.ColumnIndex(provider.MediaColumns.DisplayName)
	if col < 0 {
		// Rows without a display name (forms, instances) have no file name.
		log.Debug(log.CatMedia, "no display name column", "locator", loc)
		return "", false, nil
	}
	isNull, err := c.IsNull(col)
	if err != nil {
		return "", false, err
	}
	if isNull {
		return "", false, nil
	}
	name, err = c.String(col)
	if err != nil {
		return "", false, err
	}
	return name, name != "", nil
}
