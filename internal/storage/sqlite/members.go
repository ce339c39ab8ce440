package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// execer and queryRower are satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertMembers writes members at positions 0..n-1.
func insertMembers(ctx context.Context, ex execer, tripID string, members []models.Member) error {
	for i, m := range members {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO trip_members (trip_id, position, name, name_key, balance) VALUES (?, ?, ?, ?, ?)",
			tripID, i, m.Name, models.NameKey(m.Name), m.Balance,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("member %q: %w", m.Name, storage.ErrDuplicateMember)
		}
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

// listMembers returns a trip's roster in position order.
func (s *SQLiteStore) listMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, balance FROM trip_members WHERE trip_id = ? ORDER BY position",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.Name, &m.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// tripExists returns storage.ErrNotFound when no trip has the given ID.
func tripExists(ctx context.Context, q queryRower, tripID string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up trip: %w", err)
	}
	return nil
}

// AddMember appends a zero-balance member at the end of the roster.
func (s *SQLiteStore) AddMember(ctx context.Context, tripID, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tripExists(ctx, tx, tripID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_members (trip_id, position, name, name_key, balance)
		 VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM trip_members WHERE trip_id = ?), ?, ?, 0)`,
		tripID, tripID, name, models.NameKey(name),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member %q: %w", name, storage.ErrDuplicateMember)
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadTripMembers returns the roster of an existing trip.
func (s *SQLiteStore) LoadTripMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	if err := tripExists(ctx, s.db, tripID); err != nil {
		return nil, err
	}
	return s.listMembers(ctx, tripID)
}

// SaveTripMembers replaces the roster in one transaction so readers never
// observe a partially written set of balances.
func (s *SQLiteStore) SaveTripMembers(ctx context.Context, tripID string, members []models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tripExists(ctx, tx, tripID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_members WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	if err := insertMembers(ctx, tx, tripID, members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
