// Package ledger keeps stored member balances in step with the transaction log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
)

// BalanceStore is the persistence the recomputer needs.
type BalanceStore interface {
	LoadTripMembers(ctx context.Context, tripID string) ([]models.Member, error)
	ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error)
	SaveTripMembers(ctx context.Context, tripID string, members []models.Member) error
}

// Observer receives recompute measurements.
type Observer interface {
	ObserveRecompute(d time.Duration, members int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRecompute(time.Duration, int, error) {}

// Recomputer rebuilds and persists a trip's balances from scratch.
type Recomputer struct {
	store    BalanceStore
	locks    *TripLocks
	observer Observer
}

// Option configures a Recomputer.
type Option func(*Recomputer)

// WithObserver reports every recompute to o.
func WithObserver(o Observer) Option {
	return func(r *Recomputer) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewRecomputer creates a Recomputer backed by store.
func NewRecomputer(store BalanceStore, opts ...Option) *Recomputer {
	r := &Recomputer{
		store:    store,
		locks:    NewTripLocks(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recompute loads the roster and every transaction of tripID, rebuilds the
// balances and saves them. The caller must hold the trip lock.
// A missing trip surfaces the store's not-found error unchanged.
func (r *Recomputer) Recompute(ctx context.Context, tripID string) (members []models.Member, err error) {
	start := time.Now()
	defer func() {
		r.observer.ObserveRecompute(time.Since(start), len(members), err)
	}()

	roster, err := r.store.LoadTripMembers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	txns, err := r.store.ListTransactions(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	updated := calculator.RecomputeBalances(roster, txns)

	if err := r.store.SaveTripMembers(ctx, tripID, updated); err != nil {
		return nil, fmt.Errorf("save members: %w", err)
	}

	slog.Debug("Recomputed balances", "trip_id", tripID, "members", len(updated), "transactions", len(txns))
	return updated, nil
}

// Mutate runs fn and then Recompute while holding the trip lock, so that no
// other mutation of the same trip interleaves between the write and the
// rebuild. fn's error aborts before recomputing.
func (r *Recomputer) Mutate(ctx context.Context, tripID string, fn func(ctx context.Context) error) ([]models.Member, error) {
	unlock := r.locks.Lock(tripID)
	defer unlock()

	if fn != nil {
		if err := fn(ctx); err != nil {
			return nil, err
		}
	}

	return r.Recompute(ctx, tripID)
}

// Lock exposes the trip lock for callers that must read and write a trip
// atomically without recomputing.
func (r *Recomputer) Lock(tripID string) (unlock func()) {
	return r.locks.Lock(tripID)
}
