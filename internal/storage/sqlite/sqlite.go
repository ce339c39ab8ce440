// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// newSlug returns a short random token for public trip links.
func newSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}

// CreateTrip persists a new trip and its initial roster.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	// Generate IDs if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.PublicSlug == "" {
		trip.PublicSlug = newSlug()
	}
	now := time.Now().Unix()
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now
	}
	trip.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, owner_id, name, public_slug, is_closed, ended_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Name, trip.PublicSlug, trip.IsClosed, trip.EndedAt, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertMembers(ctx, tx, trip.ID, trip.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, including its members.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.getTrip(ctx, "id", tripID)
}

// GetTripBySlug retrieves a trip by its public slug, including its members.
func (s *SQLiteStore) GetTripBySlug(ctx context.Context, slug string) (*models.Trip, error) {
	return s.getTrip(ctx, "public_slug", slug)
}

// getTrip looks a trip up by one of its unique columns.
func (s *SQLiteStore) getTrip(ctx context.Context, column, value string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, public_slug, is_closed, ended_at, created_at, updated_at
		 FROM trips WHERE `+column+` = ?`,
		value,
	).Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.PublicSlug, &trip.IsClosed, &trip.EndedAt, &trip.CreatedAt, &trip.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	members, err := s.listMembers(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	trip.Members = members

	return trip, nil
}

// ListTripsByOwner retrieves all trips owned by ownerID, newest first.
func (s *SQLiteStore) ListTripsByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, public_slug, is_closed, ended_at, created_at, updated_at
		 FROM trips WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.PublicSlug, &trip.IsClosed, &trip.EndedAt, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	for _, trip := range trips {
		members, err := s.listMembers(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		trip.Members = members
	}

	return trips, nil
}

// SetTripClosed updates the closed flag of a trip.
func (s *SQLiteStore) SetTripClosed(ctx context.Context, tripID string, closed bool, endedAt int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE trips SET is_closed = ?, ended_at = ?, updated_at = ? WHERE id = ?",
		closed, endedAt, time.Now().Unix(), tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return requireAffected(result, "trip", tripID)
}

// DeleteTrip removes a trip. Members and transactions cascade.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return requireAffected(result, "trip", tripID)
}

// requireAffected converts a zero-row write into storage.ErrNotFound.
func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
