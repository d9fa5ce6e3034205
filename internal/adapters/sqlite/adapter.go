// Package sqlite provides a SQLite-backed implementation of the resolution
// cache port. One row per title/artist key, so repeat resolutions of the
// same candidate stay deterministic and skip the catalog round trip.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/snapsong-labs/snapsong/internal/core/domain"
	"github.com/snapsong-labs/snapsong/internal/core/ports"
)

// Adapter implements the resolution cache port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.ResolutionCache = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev.
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS resolutions (
			key         TEXT PRIMARY KEY,
			spotify_id  TEXT NOT NULL,
			title       TEXT NOT NULL,
			artist      TEXT NOT NULL,
			spotify_url TEXT NOT NULL,
			preview_url TEXT,
			energy      REAL,
			resolved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := a.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create resolutions table: %w", err)
	}
	return nil
}

// Get returns the cached match for a key. The second return value reports
// whether the key was present.
func (a *Adapter) Get(ctx context.Context, key string) (domain.TrackMatch, bool, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT spotify_id, title, artist, spotify_url, preview_url
		FROM resolutions WHERE key = ?
	`, key)

	var match domain.TrackMatch
	var previewURL sql.NullString
	if err := row.Scan(&match.ID, &match.Title, &match.Artist, &match.SpotifyURL, &previewURL); err != nil {
		if err == sql.ErrNoRows {
			return domain.TrackMatch{}, false, nil
		}
		return domain.TrackMatch{}, false, fmt.Errorf("failed to load resolution: %w", err)
	}
	if previewURL.Valid {
		match.PreviewURL = previewURL.String
	}

	return match, true, nil
}

// Put upserts a resolved match, keeping any previously analyzed energy.
func (a *Adapter) Put(ctx context.Context, key string, match domain.TrackMatch) error {
	query := `
		INSERT INTO resolutions (key, spotify_id, title, artist, spotify_url, preview_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			spotify_id=excluded.spotify_id,
			title=excluded.title,
			artist=excluded.artist,
			spotify_url=excluded.spotify_url,
			preview_url=excluded.preview_url;
	`
	var previewURL any
	if match.PreviewURL != "" {
		previewURL = match.PreviewURL
	}
	if _, err := a.db.ExecContext(ctx, query, key, match.ID, match.Title, match.Artist, match.SpotifyURL, previewURL); err != nil {
		return fmt.Errorf("failed to save resolution: %w", err)
	}

	return nil
}

// UpdateEnergy records the analyzed preview energy for an existing row.
func (a *Adapter) UpdateEnergy(ctx context.Context, key string, energy float64) error {
	if _, err := a.db.ExecContext(ctx, "UPDATE resolutions SET energy = ? WHERE key = ?", energy, key); err != nil {
		return fmt.Errorf("failed to update energy: %w", err)
	}
	return nil
}
