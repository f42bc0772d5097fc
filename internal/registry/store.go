package registry

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current registry schema version. Bump this when the
// schema changes; mismatched databases must be recreated.
const schemaVersion = 1

// Lifecycle stages a model version can be in.
const (
	StageNone       = "none"
	StageProduction = "production"
)

// ErrNoVersions indicates no version of the requested model is registered.
var ErrNoVersions = errors.New("no registered model versions")

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("registry schema version mismatch")

// Version is one registered model version.
type Version struct {
	Name         string
	Version      int
	RunID        string
	ArtifactPath string
	Stage        string
	CreatedAt    time.Time
}

// Store is the SQLite-backed model registry.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the registry database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}

	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if version.Int64 != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version.Int64, schemaVersion, s.path)
	}
	return nil
}

// Register records a new version of the named model. Versions are a
// monotonically increasing sequence per model name.
func (s *Store) Register(ctx context.Context, name, runID, artifactPath string) (*Version, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) + 1 FROM model_versions WHERE name = ?", name,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next version: %w", err)
	}

	createdAt := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO model_versions (name, version, run_id, artifact_path, stage, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		name, next, runID, artifactPath, StageNone, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert model version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register tx: %w", err)
	}

	return &Version{
		Name:         name,
		Version:      next,
		RunID:        runID,
		ArtifactPath: artifactPath,
		Stage:        StageNone,
		CreatedAt:    createdAt,
	}, nil
}

// Promote flags one version of the model as production and demotes any
// previously promoted version of the same model.
func (s *Store) Promote(ctx context.Context, name string, version int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin promote tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE model_versions SET stage = ? WHERE name = ? AND version = ?",
		StageProduction, name, version,
	)
	if err != nil {
		return fmt.Errorf("promote version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("model %q version %d: %w", name, version, ErrNoVersions)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE model_versions SET stage = ? WHERE name = ? AND version != ? AND stage = ?",
		StageNone, name, version, StageProduction,
	)
	if err != nil {
		return fmt.Errorf("demote previous versions: %w", err)
	}
	return tx.Commit()
}

// Resolve finds the concrete version to serve for a model name: the version
// flagged production when one exists, otherwise the numerically highest
// registered version.
func (s *Store) Resolve(ctx context.Context, name string) (*Version, error) {
	v, err := s.scanVersion(ctx,
		`SELECT name, version, run_id, artifact_path, stage, created_at
         FROM model_versions WHERE name = ? AND stage = ?
         ORDER BY version DESC LIMIT 1`, name, StageProduction)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	v, err = s.scanVersion(ctx,
		`SELECT name, version, run_id, artifact_path, stage, created_at
         FROM model_versions WHERE name = ?
         ORDER BY version DESC LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("model %q: %w", name, ErrNoVersions)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List returns every registered version of the model, newest first.
func (s *Store) List(ctx context.Context, name string) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, version, run_id, artifact_path, stage, created_at
         FROM model_versions WHERE name = ? ORDER BY version DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		v, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanVersion(ctx context.Context, query string, args ...any) (*Version, error) {
	return scanRow(s.db.QueryRowContext(ctx, query, args...))
}

func scanRow(row rowScanner) (*Version, error) {
	var v Version
	var createdAt string
	if err := row.Scan(&v.Name, &v.Version, &v.RunID, &v.ArtifactPath, &v.Stage, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan model version: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	v.CreatedAt = parsed
	return &v, nil
}
