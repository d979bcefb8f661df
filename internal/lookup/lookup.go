// Package lookup answers metadata questions about rows behind a locator:
// the form an instance belongs to, the file a form is stored in, and the
// extension of a media file.
//
// Absence is not an error. Each operation reports "not found" through its
// ok result (or a nil *FormInfo) and reserves the error for failures of the
// underlying row store, which are returned unchanged apart from wrapping.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fieldsurvey/collect/internal/log"
	"github.com/fieldsurvey/collect/internal/media"
	"github.com/fieldsurvey/collect/internal/mimemap"
	"github.com/fieldsurvey/collect/internal/provider"
)

// TracerName is the instrumentation scope used for lookup spans.
const TracerName = "github.com/fieldsurvey/collect/internal/lookup"

// FormInfo describes the form an instance was filled against.
type FormInfo struct {
	InstancePath string  `json:"instancePath"`
	FormID       string  `json:"formId"`
	FormVersion  *string `json:"formVersion"`
}

// Version returns the form version and whether one is recorded.
func (f *FormInfo) Version() (string, bool) {
	if f == nil || f.FormVersion == nil {
		return "", false
	}
	return *f.FormVersion, true
}

// PathResolver turns stored relative paths into absolute ones.
type PathResolver interface {
	AbsoluteFormFilePath(path string) string
	AbsoluteInstanceFilePath(path string) string
}

// FileNamer resolves the file name behind a locator.
type FileNamer interface {
	FileName(ctx context.Context, loc provider.Locator) (string, bool, error)
}

// ExtensionMapper maps a MIME type to a file extension.
type ExtensionMapper interface {
	ExtensionForMimeType(mimeType string) (string, bool)
}

// Helper performs lookups against a row store.
type Helper struct {
	resolver provider.Resolver
	layout   PathResolver
	namer    FileNamer
	mimes    ExtensionMapper
	tracer   trace.Tracer
}

// Option configures a Helper.
type Option func(*Helper)

// WithNamer replaces the media naming service.
func WithNamer(n FileNamer) Option {
	return func(h *Helper) { h.namer = n }
}

// WithMimeMap replaces the MIME extension map.
func WithMimeMap(m ExtensionMapper) Option {
	return func(h *Helper) { h.mimes = m }
}

// WithTracer sets the tracer used for lookup spans.
func WithTracer(t trace.Tracer) Option {
	return func(h *Helper) { h.tracer = t }
}

// New returns a Helper reading rows from resolver and resolving paths with
// layout. Unless overridden, file names come from a media.Namer over the
// same resolver and spans go to the global tracer provider.
func New(resolver provider.Resolver, layout PathResolver, opts ...Option) *Helper {
	h := &Helper{
		resolver: resolver,
		layout:   layout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.namer == nil {
		h.namer = media.NewNamer(resolver)
	}
	if h.mimes == nil {
		h.mimes = mimemap.New(0)
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(TracerName)
	}
	return h
}

// FormDetails returns the instance path, form id and form version of the
// instance row at loc. Only the first row is used when loc matches several.
// A nil result with a nil error means no row matched.
func (h *Helper) FormDetails(ctx context.Context, loc provider.Locator) (info *FormInfo, err error) {
	ctx, span := h.start(ctx, "lookup.FormDetails", loc)
	defer func() { end(span, err) }()

	c, err := h.resolver.Query(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("form details: %w", err)
	}
	if c == nil {
		log.Debug(log.CatLookup, "no provider", "locator", loc)
		return nil, nil
	}
	defer closeCursor(c, &err)

	span.SetAttributes(attribute.Int("rows", c.Count()))
	if !c.Next() {
		log.Debug(log.CatLookup, "no instance row", "locator", loc)
		return nil, nil
	}

	instancePath, _, err := column(c, provider.InstanceColumns.InstanceFilePath)
	if err != nil {
		return nil, err
	}
	formID, _, err := column(c, provider.InstanceColumns.JrFormID)
	if err != nil {
		return nil, err
	}
	version, present, err := column(c, provider.InstanceColumns.JrVersion)
	if err != nil {
		return nil, err
	}

	info = &FormInfo{
		InstancePath: h.layout.AbsoluteInstanceFilePath(instancePath),
		FormID:       formID,
	}
	if present {
		info.FormVersion = &version
	}
	log.Debug(log.CatLookup, "form details", "locator", loc, "form", formID, "versioned", present)
	return info, nil
}

// FormPath returns the absolute file path of the form row at loc. The
// lookup succeeds only when loc matches exactly one row.
func (h *Helper) FormPath(ctx context.Context, loc provider.Locator) (p string, ok bool, err error) {
	ctx, span := h.start(ctx, "lookup.FormPath", loc)
	defer func() { end(span, err) }()

	c, err := h.resolver.Query(ctx, loc)
	if err != nil {
		return "", false, fmt.Errorf("form path: %w", err)
	}
	if c == nil {
		log.Debug(log.CatLookup, "no provider", "locator", loc)
		return "", false, nil
	}
	defer closeCursor(c, &err)

	n := c.Count()
	span.SetAttributes(attribute.Int("rows", n))
	if n != 1 || !c.Next() {
		log.Debug(log.CatLookup, "form path needs exactly one row", "locator", loc, "rows", n)
		return "", false, nil
	}

	rel, _, err := column(c, provider.FormsColumns.FormFilePath)
	if err != nil {
		return "", false, err
	}
	return h.layout.AbsoluteFormFilePath(rel), true, nil
}

// FileExtension returns the extension of the file behind loc, without the
// leading dot. A dotted file name wins; otherwise content locators fall back
// to their MIME type and other locators to the extension in their URL.
func (h *Helper) FileExtension(ctx context.Context, loc provider.Locator) (ext string, ok bool, err error) {
	ctx, span := h.start(ctx, "lookup.FileExtension", loc)
	defer func() { end(span, err) }()

	name, named, err := h.namer.FileName(ctx, loc)
	if err != nil {
		return "", false, fmt.Errorf("file extension: %w", err)
	}
	if named {
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			ext = name[i+1:]
			log.Debug(log.CatLookup, "extension from name", "locator", loc, "ext", ext)
			return ext, ext != "", nil
		}
	}

	if loc.IsContent() {
		mimeType, err := h.resolver.Type(ctx, loc)
		if err != nil {
			return "", false, fmt.Errorf("file extension: %w", err)
		}
		ext, ok = h.mimes.ExtensionForMimeType(mimeType)
		log.Debug(log.CatLookup, "extension from type", "locator", loc, "type", mimeType, "ext", ext)
		return ext, ok && ext != "", nil
	}

	ext = mimemap.ExtensionFromURL(loc.String())
	log.Debug(log.CatLookup, "extension from url", "locator", loc, "ext", ext)
	return ext, ext != "", nil
}

func (h *Helper) start(ctx context.Context, name string, loc provider.Locator) (context.Context, trace.Span) {
	return h.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("locator", loc.String()),
		attribute.String("scheme", loc.Scheme()),
	))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// closeCursor closes c and keeps the first error seen by the caller.
func closeCursor(c provider.Cursor, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing cursor: %w", cerr)
	}
}

// column reads a text column of the current row. A NULL value is reported
// as not present.
func column(c provider.Cursor, name string) (string, bool, error) {
	idx := c.ColumnIndex(name)
	isNull, err := c.IsNull(idx)
	if err != nil {
		return "", false, fmt.Errorf("reading column %s: %w", name, err)
	}
	if isNull {
		return "", false, nil
	}
	v, err := c.String(idx)
	if err != nil {
		return "", false, fmt.Errorf("reading column %s: %w", name, err)
	}
	return v, true, nil
}
