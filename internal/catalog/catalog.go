// Package catalog persists an index of scanned observation files so that
// dataset-wide tooling (reports, training set assembly) can query what is
// on disk without reopening every FITS file.
package catalog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Observation is one catalogued (file, channel) pair.
type Observation struct {
	ID            int64
	ScanID        string
	Path          string
	Channel       string
	Wavelength    float64
	FrameCount    int
	MinTimeOffset float64
	MaxTimeOffset float64
	Width         int
	Height        int
	ScannedAt     time.Time
}

// Store provides persistence for observations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path and
// applies any pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("catalog: load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("catalog: create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("catalog: create migrate instance: %w", err)
	}
	// Note: not closing m — it would close the shared DB connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("catalog: migration up failed: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the observation for (path, channel).
func (s *Store) Upsert(o Observation) error {
	query := `
		INSERT INTO observations (
			scan_id, path, channel, wavelength, frame_count,
			min_time_offset, max_time_offset, width, height, scanned_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, channel) DO UPDATE SET
			scan_id = excluded.scan_id,
			wavelength = excluded.wavelength,
			frame_count = excluded.frame_count,
			min_time_offset = excluded.min_time_offset,
			max_time_offset = excluded.max_time_offset,
			width = excluded.width,
			height = excluded.height,
			scanned_at = excluded.scanned_at
	`
	_, err := s.db.Exec(query,
		o.ScanID,
		o.Path,
		o.Channel,
		o.Wavelength,
		o.FrameCount,
		o.MinTimeOffset,
		o.MaxTimeOffset,
		o.Width,
		o.Height,
		o.ScannedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("catalog: upserting %s/%s: %w", o.Path, o.Channel, err)
	}
	return nil
}

// Observations returns all catalogued observations ordered by path then
// channel.
func (s *Store) Observations() ([]Observation, error) {
	return s.query(`
		SELECT id, scan_id, path, channel, wavelength, frame_count,
		       min_time_offset, max_time_offset, width, height, scanned_at
		FROM observations ORDER BY path, channel`)
}

// ByChannel returns the observations for one channel ordered by path.
func (s *Store) ByChannel(channel string) ([]Observation, error) {
	return s.query(`
		SELECT id, scan_id, path, channel, wavelength, frame_count,
		       min_time_offset, max_time_offset, width, height, scanned_at
		FROM observations WHERE channel = ? ORDER BY path`, channel)
}

func (s *Store) query(q string, args ...any) ([]Observation, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		var scannedAt string
		if err := rows.Scan(&o.ID, &o.ScanID, &o.Path, &o.Channel, &o.Wavelength,
			&o.FrameCount, &o.MinTimeOffset, &o.MaxTimeOffset, &o.Width, &o.Height, &scannedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, scannedAt); err == nil {
			o.ScannedAt = t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
