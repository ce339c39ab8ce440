// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

var (
	// ErrNotFound is returned when a referenced trip, transaction or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMember is returned when a member name already exists in a trip,
	// compared case-insensitively.
	ErrDuplicateMember = errors.New("member with this name already exists")

	// ErrEmailTaken is returned by CreateUser when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	TripStore
	TransactionStore
	UserStore

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// TripStore persists trips and their member rosters.
type TripStore interface {
	// CreateTrip persists a new trip with its initial members.
	// ID, PublicSlug and timestamps are populated by the store when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip and its members by ID.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// GetTripBySlug retrieves a trip by its public slug.
	GetTripBySlug(ctx context.Context, slug string) (*models.Trip, error)

	// ListTripsByOwner returns the owner's trips, newest first.
	ListTripsByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error)

	// SetTripClosed updates the closed flag and the end timestamp.
	SetTripClosed(ctx context.Context, tripID string, closed bool, endedAt int64) error

	// AddMember appends a member with a zero balance.
	// Returns ErrDuplicateMember if the name is already on the roster.
	AddMember(ctx context.Context, tripID, name string) error

	// DeleteTrip removes a trip together with its members and transactions.
	DeleteTrip(ctx context.Context, tripID string) error

	// LoadTripMembers returns the roster in order.
	// Returns ErrNotFound if the trip does not exist.
	LoadTripMembers(ctx context.Context, tripID string) ([]models.Member, error)

	// SaveTripMembers replaces the whole roster atomically.
	SaveTripMembers(ctx context.Context, tripID string, members []models.Member) error
}

// TransactionStore persists trip transactions.
type TransactionStore interface {
	// CreateTransaction persists a new transaction.
	// ID and timestamps are populated by the store when empty.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// UpdateTransaction replaces every mutable field of an existing transaction.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// ListTransactions returns every transaction of a trip, newest first.
	ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error)
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
