// Package store persists per-panel unit selections in a SQL database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sambeau/unitconv/pkg/units"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

// Preference is the unit a dashboard panel displays its values in.
type Preference struct {
	ID        string             `json:"id"`
	Panel     string             `json:"panel"`
	Category  units.CategoryName `json:"category"`
	Unit      string             `json:"unit"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AuditEntry is a stored preference whose unit no longer belongs to its
// stored category.
type AuditEntry struct {
	Preference
	Reason string `json:"reason"`
	// Current is the category the unit id resolves to today, if any.
	Current units.CategoryName `json:"current_category,omitempty"`
}

// schemas per driver. MySQL cannot index unbounded TEXT columns.
var schemas = map[string]string{
	"sqlite": `
CREATE TABLE IF NOT EXISTS unit_preferences (
	id TEXT PRIMARY KEY,
	panel TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	unit TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`,
	"postgres": `
CREATE TABLE IF NOT EXISTS unit_preferences (
	id UUID PRIMARY KEY,
	panel TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	unit TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	"mysql": `
CREATE TABLE IF NOT EXISTS unit_preferences (
	id CHAR(36) PRIMARY KEY,
	panel VARCHAR(255) NOT NULL UNIQUE,
	category VARCHAR(64) NOT NULL,
	unit VARCHAR(128) NOT NULL,
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`,
}

// Store wraps the preference database connection.
type Store struct {
	db       *sql.DB
	driver   string
	registry *units.Registry
	logger   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry validates preferences against r instead of the default registry.
func WithRegistry(r *units.Registry) Option {
	return func(s *Store) { s.registry = r }
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open connects to the database and creates the schema if needed.
// driver is one of sqlite, postgres or mysql. MySQL DSNs need parseTime=true.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("store dsn is required")
	}

	if driver == "sqlite" {
		if err := createFile(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// one connection so :memory: databases are shared
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db, driver: driver, registry: units.Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = units.Default()
	}
	return s, nil
}

// createFile creates a sqlite database file with restrictive permissions.
func createFile(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if _, err := os.Stat(dsn); os.IsNotExist(err) {
		f, err := os.OpenFile(dsn, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			return fmt.Errorf("creating store database: %w", err)
		}
		f.Close()
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// rebind rewrites ? placeholders for drivers that number them.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// validate resolves the category of a preference. An empty category is
// inferred from the unit id.
func (s *Store) validate(panel string, category units.CategoryName, unit string) (units.CategoryName, error) {
	if strings.TrimSpace(panel) == "" {
		return "", uerrors.New("PREF-0002", nil)
	}
	if unit == "" {
		return "", uerrors.New("UNIT-0006", map[string]any{"Field": "preference"})
	}

	if category == "" {
		c, ok := s.registry.FindCategory(unit)
		if !ok {
			return "", uerrors.NewUnknownUnit(unit, s.registry.IDs())
		}
		return c.Name, nil
	}

	if !s.registry.IsCategoryName(string(category)) {
		return "", uerrors.NewUnknownCategory(string(category), categoryNames(s.registry))
	}
	if _, ok := s.registry.Lookup(category, unit); !ok {
		return "", uerrors.New("PREF-0001", map[string]any{"Unit": unit, "Category": category})
	}
	return category, nil
}

func categoryNames(r *units.Registry) []string {
	names := r.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// Save stores the unit for a panel, replacing any previous selection.
func (s *Store) Save(ctx context.Context, panel string, category units.CategoryName, unit string) (*Preference, error) {
	category, err := s.validate(panel, category, unit)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Microsecond)
	pref := &Preference{Panel: panel, Category: category, Unit: unit, UpdatedAt: now}

	err = tx.QueryRowContext(ctx,
		s.rebind("SELECT id, created_at FROM unit_preferences WHERE panel = ?"),
		panel,
	).Scan(&pref.ID, &pref.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		pref.ID = uuid.New().String()
		pref.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			s.rebind("INSERT INTO unit_preferences (id, panel, category, unit, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
			pref.ID, panel, string(category), unit, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert preference: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get preference: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE unit_preferences SET category = ?, unit = ?, updated_at = ? WHERE id = ?"),
			string(category), unit, now, pref.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update preference: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	pref.CreatedAt = pref.CreatedAt.UTC()
	s.logger.Debug("saved unit preference",
		zap.String("panel", panel),
		zap.String("category", string(category)),
		zap.String("unit", unit),
	)
	return pref, nil
}

// Get returns the preference stored for a panel.
func (s *Store) Get(ctx context.Context, panel string) (*Preference, error) {
	var p Preference
	var category string
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, panel, category, unit, created_at, updated_at FROM unit_preferences WHERE panel = ?"),
		panel,
	).Scan(&p.ID, &p.Panel, &category, &p.Unit, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uerrors.New("PREF-0003", map[string]any{"Panel": panel})
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	p.Category = units.CategoryName(category)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// List returns every stored preference ordered by panel.
func (s *Store) List(ctx context.Context) ([]Preference, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, panel, category, unit, created_at, updated_at FROM unit_preferences ORDER BY panel",
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	prefs := []Preference{}
	for rows.Next() {
		var p Preference
		var category string
		if err := rows.Scan(&p.ID, &p.Panel, &category, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.Category = units.CategoryName(category)
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// Delete removes the preference for a panel.
func (s *Store) Delete(ctx context.Context, panel string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM unit_preferences WHERE panel = ?"),
		panel,
	)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if n == 0 {
		return uerrors.New("PREF-0003", map[string]any{"Panel": panel})
	}
	s.logger.Debug("deleted unit preference", zap.String("panel", panel))
	return nil
}

// Audit reports stored preferences that no longer validate against the
// registry, e.g. after a unit id was renamed or moved between categories.
func (s *Store) Audit(ctx context.Context) ([]AuditEntry, error) {
	prefs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := []AuditEntry{}
	for _, p := range prefs {
		if !s.registry.IsCategoryName(string(p.Category)) {
			entry := AuditEntry{Preference: p, Reason: "unknown category"}
			if c, ok := s.registry.FindCategory(p.Unit); ok {
				entry.Current = c.Name
			}
			entries = append(entries, entry)
			continue
		}
		if _, ok := s.registry.Lookup(p.Category, p.Unit); ok {
			continue
		}
		entry := AuditEntry{Preference: p, Reason: "unit not in category"}
		if c, ok := s.registry.FindCategory(p.Unit); ok {
			entry.Current = c.Name
		} else {
			entry.Reason = "unknown unit"
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		s.logger.Warn("stale unit preferences", zap.Int("count", len(entries)))
	}
	return entries, nil
}
