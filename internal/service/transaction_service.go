package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/validation"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

var _ apiconnect.TransactionServiceHandler = (*TransactionService)(nil)

// TransactionService implements the Connect TransactionService.
// Every write is followed by a balance rebuild under the trip lock.
type TransactionService struct {
	store  storage.Store
	ledger *ledger.Recomputer
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store, rec *ledger.Recomputer) *TransactionService {
	return &TransactionService{store: store, ledger: rec}
}

// mutate runs fn under the trip lock once the trip is confirmed to be owned
// by the caller and open, then rebuilds the balances. notOwned is returned
// when the trip belongs to someone else.
func (s *TransactionService) mutate(ctx context.Context, tripID string, notOwned error, fn func(ctx context.Context) error) ([]models.Member, error) {
	owner := middleware.GetUserID(ctx)
	return s.ledger.Mutate(ctx, tripID, func(ctx context.Context) error {
		trip, err := s.store.GetTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.OwnerID != owner {
			return notOwned
		}
		if trip.IsClosed {
			return ErrTripClosed
		}
		return fn(ctx)
	})
}

// ownedTransaction loads a transaction whose trip the caller owns.
func (s *TransactionService) ownedTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction_id is required", ErrInvalidInput)
	}
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, txn.TripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != middleware.GetUserID(ctx) {
		return nil, ErrForbidden
	}
	return txn, nil
}

// ListTransactions returns the trip's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	trip, err := ownedTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}

	txns, err := s.store.ListTransactions(ctx, trip.ID)
	if err != nil {
		slog.Error("ListTransactions failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	slog.Info("ListTransactions successful", "trip_id", trip.ID, "count", len(txns))
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: txns}), nil
}

// CreateTransaction records an expense and rebuilds the trip balances.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	slog.Info("CreateTransaction request received",
		"trip_id", req.Msg.TripID,
		"title", req.Msg.Title,
		"payers_count", len(req.Msg.Payers),
		"participants_count", len(req.Msg.Participants),
		"split_type", req.Msg.SplitType,
	)

	if strings.TrimSpace(req.Msg.TripID) == "" {
		return nil, toConnectError(fmt.Errorf("%w: trip_id is required", ErrInvalidInput))
	}

	txn := &models.Transaction{
		TripID:        req.Msg.TripID,
		Title:         req.Msg.Title,
		Payers:        req.Msg.Payers,
		Participants:  req.Msg.Participants,
		SplitType:     req.Msg.SplitType,
		CustomAmounts: req.Msg.CustomAmounts,
	}

	notOwned := fmt.Errorf("trip %s: %w", txn.TripID, storage.ErrNotFound)
	members, err := s.mutate(ctx, txn.TripID, notOwned, func(ctx context.Context) error {
		if err := validation.Transaction(txn); err != nil {
			return err
		}
		return s.store.CreateTransaction(ctx, txn)
	})
	if err != nil {
		slog.Warn("CreateTransaction failed", "trip_id", txn.TripID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Transaction created", "trip_id", txn.TripID, "transaction_id", txn.ID, "total", txn.TotalAmount)
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: txn, Members: members}), nil
}

// UpdateTransaction applies a partial update and rebuilds the trip balances.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	slog.Info("UpdateTransaction request received", "transaction_id", req.Msg.TransactionID)

	existing, err := s.ownedTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError(err)
	}

	patch := validation.Patch{
		Title:         req.Msg.Title,
		Payers:        req.Msg.Payers,
		Participants:  req.Msg.Participants,
		SplitType:     req.Msg.SplitType,
		CustomAmounts: req.Msg.CustomAmounts,
	}

	var updated models.Transaction
	members, err := s.mutate(ctx, existing.TripID, ErrForbidden, func(ctx context.Context) error {
		// Re-read under the lock so concurrent patches compose.
		current, err := s.store.GetTransaction(ctx, existing.ID)
		if err != nil {
			return err
		}
		updated, err = validation.ApplyPatch(*current, patch)
		if err != nil {
			return err
		}
		return s.store.UpdateTransaction(ctx, &updated)
	})
	if err != nil {
		slog.Warn("UpdateTransaction failed", "transaction_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Transaction updated", "trip_id", updated.TripID, "transaction_id", updated.ID)
	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: &updated, Members: members}), nil
}

// DeleteTransaction removes an expense and rebuilds the trip balances.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.TransactionID)

	txn, err := s.ownedTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.mutate(ctx, txn.TripID, ErrForbidden, func(ctx context.Context) error {
		return s.store.DeleteTransaction(ctx, txn.ID)
	})
	if err != nil {
		slog.Warn("DeleteTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Transaction deleted", "trip_id", txn.TripID, "transaction_id", txn.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{OK: true, Members: members}), nil
}
