// Package store keeps uploaded inputs and extraction outputs on disk with
// an SQLite registry on top. Every file gets an expiry; the Janitor sweeps
// expired entries so residue never outlives its retention window.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a file ID is unknown or already swept.
var ErrNotFound = errors.New("file not found")

// Kind separates uploads from extraction outputs.
type Kind string

const (
	KindUpload Kind = "upload"
	KindOutput Kind = "output"
)

// File is one registry entry.
type File struct {
	ID        string
	Kind      Kind
	Name      string // original user-facing filename
	Path      string // on-disk location
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is the file registry. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
}

// Open initializes the registry database and the upload/output directories.
func Open(dir, dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range []string{"uploads", "outputs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", sub, err)
		}
	}
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dir: dir, logger: logger}, nil
}

// Close releases the registry database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) dirFor(kind Kind) string {
	if kind == KindOutput {
		return filepath.Join(s.dir, "outputs")
	}
	return filepath.Join(s.dir, "uploads")
}

// Put writes data to disk and registers it under a fresh ID with the given
// retention. The stored name is reduced to its base so an uploaded path can
// never escape the data directory.
func (s *Store) Put(ctx context.Context, kind Kind, name string, data []byte, ttl time.Duration) (*File, error) {
	id := uuid.Must(uuid.NewV7()).String()
	now := time.Now()

	f := &File{
		ID:        id,
		Kind:      kind,
		Name:      filepath.Base(name),
		Path:      filepath.Join(s.dirFor(kind), id+".docx"),
		Size:      int64(len(data)),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", f.Path, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, kind, name, path, size, created_at, expires_at)
		VALUES (?,?,?,?,?,?,?)`,
		f.ID, string(f.Kind), f.Name, f.Path, f.Size, f.CreatedAt.Unix(), f.ExpiresAt.Unix())
	if err != nil {
		os.Remove(f.Path)
		return nil, fmt.Errorf("register %s: %w", f.ID, err)
	}

	s.logger.Debug("file stored", "id", f.ID, "kind", f.Kind, "name", f.Name, "size", f.Size)
	return f, nil
}

// Get returns the registry entry for an ID.
func (s *Store) Get(ctx context.Context, id string) (*File, error) {
	var f File
	var kind string
	var created, expires int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, name, path, size, created_at, expires_at
		FROM files WHERE id = ?`, id).
		Scan(&f.ID, &kind, &f.Name, &f.Path, &f.Size, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.Kind = Kind(kind)
	f.CreatedAt = time.Unix(created, 0)
	f.ExpiresAt = time.Unix(expires, 0)
	return &f, nil
}

// Read returns the file's bytes together with its registry entry.
func (s *Store) Read(ctx context.Context, id string) ([]byte, *File, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return data, f, nil
}

// Delete removes a file from disk and from the registry.
func (s *Store) Delete(ctx context.Context, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	return err
}

// SweepExpired deletes every entry whose expiry has passed. Returns the
// number of files removed. A missing on-disk file is not an error: the row
// is cleaned up anyway.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path FROM files WHERE expires_at < ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type victim struct{ id, path string }
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.id, &v.path); err != nil {
			return 0, err
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	for _, v := range victims {
		if err := os.Remove(v.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("sweep: remove file failed", "id", v.id, "error", err)
			continue
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, v.id); err != nil {
			s.logger.Warn("sweep: delete row failed", "id", v.id, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
