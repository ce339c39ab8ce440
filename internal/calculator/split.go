package calculator

import "github.com/mmynk/tripsplit/internal/models"

// Share is the amount one participant owes for a transaction.
type Share struct {
	Name   string
	Amount float64
}

// TransactionDebits computes how much each participant owes for tx.
//
// For equal splits every participant owes total_paid / len(participants); the
// share itself is not rounded. For custom splits participant i owes
// CustomAmounts[i].
//
// ok is false when the debit phase must be skipped entirely: no participants,
// an unknown split type, or custom amounts that are missing or do not line up
// with the participants. Partial debits are never produced.
func TransactionDebits(tx models.Transaction) (shares []Share, ok bool) {
	if len(tx.Participants) == 0 {
		return nil, false
	}

	switch tx.SplitType {
	case models.SplitEqual:
		share := tx.TotalPaid() / float64(len(tx.Participants))
		shares = make([]Share, len(tx.Participants))
		for i, name := range tx.Participants {
			shares[i] = Share{Name: name, Amount: share}
		}
		return shares, true

	case models.SplitCustom:
		if len(tx.CustomAmounts) != len(tx.Participants) {
			return nil, false
		}
		shares = make([]Share, len(tx.Participants))
		for i, name := range tx.Participants {
			shares[i] = Share{Name: name, Amount: tx.CustomAmounts[i]}
		}
		return shares, true
	}

	return nil, false
}
