package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "mapclean.db"

// HistoryDB provides SQLite-based storage for cleaning run history.
//
// Design decision: We store one flat row per run rather than JSON blobs
// because the interesting queries (runs for a map, latest parameters,
// removal counts over time) are all column lookups.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most uses.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the location of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per cleaning run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		output_path TEXT,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		min_area REAL NOT NULL,
		free_thresh INTEGER NOT NULL,
		occupied_thresh INTEGER NOT NULL,
		regions_found INTEGER NOT NULL,
		regions_removed INTEGER NOT NULL,
		obstacle_pixels INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		error TEXT,
		cleaned_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path);
	CREATE INDEX IF NOT EXISTS idx_runs_cleaned_at ON runs(cleaned_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores the summary of a finished cleaning run and returns the
// new row's identifier.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.CleanReport) (int64, error) {
	s := model.NewSummary(report)

	query := `
	INSERT INTO runs (
		input_path, output_path, width, height,
		min_area, free_thresh, occupied_thresh,
		regions_found, regions_removed, obstacle_pixels,
		duration_ms, error, cleaned_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		s.InputPath,
		s.OutputPath,
		s.Width,
		s.Height,
		s.Params.MinArea,
		s.Params.FreeThresh,
		s.Params.OccupiedThresh,
		s.RegionsFound,
		s.RegionsRemoved,
		s.ObstaclePixels,
		s.Duration.Milliseconds(),
		s.Error,
		s.DateCleaned.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit returns everything.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	query := `
	SELECT id, input_path, output_path, width, height,
		min_area, free_thresh, occupied_thresh,
		regions_found, regions_removed, obstacle_pixels,
		duration_ms, error, cleaned_at
	FROM runs
	ORDER BY cleaned_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunsFor returns the run history of a single input map, newest first.
func (hdb *HistoryDB) RunsFor(ctx context.Context, inputPath string, limit int) ([]model.RunRecord, error) {
	query := `
	SELECT id, input_path, output_path, width, height,
		min_area, free_thresh, occupied_thresh,
		regions_found, regions_removed, obstacle_pixels,
		duration_ms, error, cleaned_at
	FROM runs
	WHERE input_path = ?
	ORDER BY cleaned_at DESC, id DESC
	`
	args := []any{inputPath}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for %s: %w", inputPath, err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// LastRunFor returns the most recent run for the given input, or nil
// when the map has never been cleaned.
func (hdb *HistoryDB) LastRunFor(ctx context.Context, inputPath string) (*model.RunRecord, error) {
	records, err := hdb.RunsFor(ctx, inputPath, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// scanRuns reads RunRecords from a result set.
func scanRuns(rows *sql.Rows) ([]model.RunRecord, error) {
	records := make([]model.RunRecord, 0)
	for rows.Next() {
		var rec model.RunRecord
		var durationMS int64
		var errText sql.NullString
		var outputPath sql.NullString
		var cleanedAt string

		if err := rows.Scan(
			&rec.ID,
			&rec.Summary.InputPath,
			&outputPath,
			&rec.Summary.Width,
			&rec.Summary.Height,
			&rec.Summary.Params.MinArea,
			&rec.Summary.Params.FreeThresh,
			&rec.Summary.Params.OccupiedThresh,
			&rec.Summary.RegionsFound,
			&rec.Summary.RegionsRemoved,
			&rec.Summary.ObstaclePixels,
			&durationMS,
			&errText,
			&cleanedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.Summary.OutputPath = outputPath.String
		rec.Summary.Error = errText.String
		rec.Summary.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Summary.DateCleaned = parseTimestamp(cleanedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return records, nil
}

// parseTimestamp handles the timestamp formats SQLite may hand back
// depending on how the value was written.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ErrNoHistory is returned by callers that require at least one stored
// run for an input map.
var ErrNoHistory = errors.New("no cleaning history for this map")
