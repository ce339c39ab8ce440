package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateTransaction persists a new transaction with its payers and participants.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if txn.CreatedAt == 0 {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tripExists(ctx, tx, txn.TripID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, trip_id, title, split_type, total_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.TripID, txn.Title, string(txn.SplitType), txn.TotalAmount, txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertDetails(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertDetails writes the payer and participant rows of txn.
func insertDetails(ctx context.Context, ex execer, txn *models.Transaction) error {
	for i, p := range txn.Payers {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO transaction_payers (transaction_id, position, name, amount) VALUES (?, ?, ?, ?)",
			txn.ID, i, p.Name, p.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}

	for i, name := range txn.Participants {
		var custom sql.NullFloat64
		if txn.SplitType == models.SplitCustom && i < len(txn.CustomAmounts) {
			custom = sql.NullFloat64{Float64: txn.CustomAmounts[i], Valid: true}
		}
		_, err := ex.ExecContext(ctx,
			"INSERT INTO transaction_participants (transaction_id, position, name, custom_amount) VALUES (?, ?, ?, ?)",
			txn.ID, i, name, custom,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	return nil
}

// GetTransaction retrieves a transaction with its payers and participants.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var splitType string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, title, split_type, total_amount, created_at, updated_at
		 FROM transactions WHERE id = ?`,
		transactionID,
	).Scan(&txn.ID, &txn.TripID, &txn.Title, &splitType, &txn.TotalAmount, &txn.CreatedAt, &txn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	txn.SplitType = models.SplitType(splitType)

	byID := map[string]*models.Transaction{txn.ID: txn}
	if err := s.loadDetails(ctx, "transaction_id = ?", txn.ID, byID); err != nil {
		return nil, err
	}

	return txn, nil
}

// UpdateTransaction replaces the mutable fields and the detail rows of a transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE transactions SET title = ?, split_type = ?, total_amount = ?, updated_at = ? WHERE id = ?",
		txn.Title, string(txn.SplitType), txn.TotalAmount, txn.UpdatedAt, txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if err := requireAffected(result, "transaction", txn.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_payers WHERE transaction_id = ?", txn.ID); err != nil {
		return fmt.Errorf("failed to clear payers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_participants WHERE transaction_id = ?", txn.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertDetails(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction. Detail rows cascade.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireAffected(result, "transaction", transactionID)
}

// ListTransactions returns the trip's transactions, newest first.
// Returns storage.ErrNotFound if the trip does not exist.
func (s *SQLiteStore) ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error) {
	if err := tripExists(ctx, s.db, tripID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, title, split_type, total_amount, created_at, updated_at
		 FROM transactions WHERE trip_id = ? ORDER BY created_at DESC, rowid DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	byID := make(map[string]*models.Transaction)
	for rows.Next() {
		txn := &models.Transaction{}
		var splitType string
		if err := rows.Scan(&txn.ID, &txn.TripID, &txn.Title, &splitType, &txn.TotalAmount, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.SplitType = models.SplitType(splitType)
		txns = append(txns, txn)
		byID[txn.ID] = txn
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	// One query per detail table for the whole trip instead of per transaction.
	const where = "transaction_id IN (SELECT id FROM transactions WHERE trip_id = ?)"
	if err := s.loadDetails(ctx, where, tripID, byID); err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(txns))
	for _, txn := range txns {
		out = append(out, *txn)
	}
	return out, nil
}

// loadDetails fills payers and participants of the transactions in byID,
// selecting detail rows with the given WHERE clause and argument.
func (s *SQLiteStore) loadDetails(ctx context.Context, where string, arg any, byID map[string]*models.Transaction) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id, name, amount FROM transaction_payers WHERE "+where+" ORDER BY transaction_id, position",
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to load payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var id string
		var p models.Payer
		if err := payerRows.Scan(&id, &p.Name, &p.Amount); err != nil {
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		if txn, ok := byID[id]; ok {
			txn.Payers = append(txn.Payers, p)
		}
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}

	partRows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id, name, custom_amount FROM transaction_participants WHERE "+where+" ORDER BY transaction_id, position",
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var id, name string
		var custom sql.NullFloat64
		if err := partRows.Scan(&id, &name, &custom); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		txn, ok := byID[id]
		if !ok {
			continue
		}
		txn.Participants = append(txn.Participants, name)
		if txn.SplitType == models.SplitCustom {
			txn.CustomAmounts = append(txn.CustomAmounts, custom.Float64)
		}
	}
	if err := partRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	for _, txn := range byID {
		if txn.Payers == nil {
			txn.Payers = []models.Payer{}
		}
		if txn.Participants == nil {
			txn.Participants = []string{}
		}
	}

	return nil
}
