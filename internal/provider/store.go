package provider

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver" // registers the "sqlite3" database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // bundled SQLite build

	"github.com/fieldsurvey/collect/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a Resolver backed by a SQLite database holding the forms,
// instances and media tables.
type Store struct {
	db     *sql.DB
	tables map[string]string // authority -> table
}

// Open opens (creating if needed) the SQLite database at path.
// Call Migrate before the first query on a new database.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening row store: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening row store: %w", err)
	}

	log.Debug(log.CatDB, "row store opened", "path", path)
	return &Store{
		db: db,
		tables: map[string]string{
			FormsAuthority:     TableForms,
			InstancesAuthority: TableInstances,
			MediaAuthority:     TableMedia,
		},
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies all pending up migrations.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	// m.Close would also close s.db through the driver, so only the source
	// is released here.
	defer func() { _ = src.Close() }()

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Debug(log.CatDB, "schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info(log.CatDB, "schema migrated", "version", version)
	return nil
}

// route maps a locator to its table and optional row id. ok is false when
// no table serves the authority.
func (s *Store) route(loc Locator) (table string, id int64, ok bool, err error) {
	if !loc.IsContent() {
		return "", 0, false, nil
	}
	table, ok = s.tables[loc.Authority()]
	if !ok {
		return "", 0, false, nil
	}

	segs := loc.Segments()
	switch {
	case len(segs) == 1 && segs[0] == table:
		return table, 0, true, nil
	case len(segs) == 2 && segs[0] == table:
		id, hasID := loc.ID()
		if !hasID {
			return "", 0, true, fmt.Errorf("%w: %s", ErrUnknownLocator, loc)
		}
		return table, id, true, nil
	default:
		return "", 0, true, fmt.Errorf("%w: %s", ErrUnknownLocator, loc)
	}
}

// Query implements Resolver. Rows are read into memory and the database
// rows are released before Query returns.
func (s *Store) Query(ctx context.Context, loc Locator) (Cursor, error) {
	table, id, ok, err := s.route(loc)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug(log.CatProvider, "no provider for locator", "locator", loc)
		return nil, nil
	}

	query := "SELECT * FROM " + table
	var args []any
	if id > 0 {
		query += " WHERE _id = ?"
		args = append(args, id)
	}
	query += " ORDER BY _id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", loc, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", loc, err)
	}

	var data [][]sql.NullString
	for rows.Next() {
		row := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("reading %s: %w", loc, err)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}

	log.Debug(log.CatProvider, "query", "locator", loc, "rows", len(data))
	return NewMemoryCursor(columns, data), nil
}

// Type implements Resolver.
func (s *Store) Type(ctx context.Context, loc Locator) (string, error) {
	table, id, ok, err := s.route(loc)
	if err != nil || !ok {
		return "", err
	}

	switch table {
	case TableForms:
		if id > 0 {
			return FormItemType, nil
		}
		return FormDirType, nil
	case TableInstances:
		if id > 0 {
			return InstanceItemType, nil
		}
		return InstanceDirType, nil
	}

	if id == 0 {
		return MediaDirType, nil
	}
	var mimeType sql.NullString
	err = s.db.QueryRowContext(ctx, "SELECT mime_type FROM media WHERE _id = ?", id).Scan(&mimeType)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading type of %s: %w", loc, err)
	}
	return strings.TrimSpace(mimeType.String), nil
}

// Form is a row of the forms table.
type Form struct {
	ID          int64
	DisplayName string
	FormID      string
	Version     *string
	FilePath    string
	MediaPath   string
}

// Instance is a row of the instances table.
type Instance struct {
	ID               int64
	DisplayName      string
	FilePath         string
	FormID           string
	Version          *string
	Status           string
	InstanceID       string
	LastStatusChange time.Time
}

// Media is a row of the media table.
type Media struct {
	ID          int64
	DisplayName string
	MimeType    string
	DataPath    string
}

// InsertForm adds a form row and returns its locator.
func (s *Store) InsertForm(ctx context.Context, f Form) (Locator, error) {
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO forms(displayName, jrFormId, jrVersion, formFilePath, formMediaPath)
	VALUES (?, ?, ?, ?, ?)`,
		f.DisplayName, f.FormID, nullable(f.Version), f.FilePath, f.MediaPath)
	if err != nil {
		return Locator{}, fmt.Errorf("inserting form %s: %w", f.FormID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Locator{}, err
	}
	return FormLocator(id), nil
}

// InsertInstance adds an instance row and returns its locator.
func (s *Store) InsertInstance(ctx context.Context, in Instance) (Locator, error) {
	status := in.Status
	if status == "" {
		status = "incomplete"
	}
	changed := in.LastStatusChange
	if changed.IsZero() {
		changed = time.Now()
	}
	var instanceID any
	if in.InstanceID != "" {
		instanceID = in.InstanceID
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO instances(displayName, instanceFilePath, jrFormId, jrVersion, status, lastStatusChangeDate, instanceId)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.DisplayName, in.FilePath, in.FormID, nullable(in.Version), status, changed.UnixMilli(), instanceID)
	if err != nil {
		return Locator{}, fmt.Errorf("inserting instance of %s: %w", in.FormID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Locator{}, err
	}
	return InstanceLocator(id), nil
}

// InsertMedia adds a media row and returns its locator.
func (s *Store) InsertMedia(ctx context.Context, m Media) (Locator, error) {
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO media(_display_name, mime_type, _data)
	VALUES (?, ?, ?)`,
		emptyAsNull(m.DisplayName), emptyAsNull(m.MimeType), m.DataPath)
	if err != nil {
		return Locator{}, fmt.Errorf("inserting media %s: %w", m.DataPath, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Locator{}, err
	}
	return MediaLocator(id), nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func emptyAsNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Resolver = (*Store)(nil)
