package models

// SplitType is the rule dividing a transaction's cost among participants.
type SplitType string

const (
	// SplitEqual divides the total paid evenly among participants.
	SplitEqual SplitType = "equal"
	// SplitCustom debits each participant an explicit amount.
	SplitCustom SplitType = "custom"
)

// Valid reports whether the split type is supported.
func (s SplitType) Valid() bool {
	return s == SplitEqual || s == SplitCustom
}

// Payer is one contribution towards a transaction.
type Payer struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Transaction is one expense event of a trip.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// TripID is the trip this transaction belongs to.
	TripID string `json:"trip_id"`

	// Title is the human-readable description (e.g., "Dinner at the beach").
	Title string `json:"title"`

	// Payers are the people who fronted money and how much each paid.
	Payers []Payer `json:"payers"`

	// Participants are the names who owe a share of the total.
	Participants []string `json:"participants"`

	// SplitType selects how participants are debited.
	SplitType SplitType `json:"split_type"`

	// CustomAmounts is parallel to Participants when SplitType is custom.
	// Empty for equal splits.
	CustomAmounts []float64 `json:"custom_amounts,omitempty"`

	// TotalAmount is the sum of payer amounts. Always derived, never client-supplied.
	TotalAmount float64 `json:"total_amount"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// TotalPaid returns the sum of all payer amounts.
func (t *Transaction) TotalPaid() float64 {
	var total float64
	for _, p := range t.Payers {
		total += p.Amount
	}
	return total
}

// Recalculate re-derives TotalAmount from the payers.
func (t *Transaction) Recalculate() {
	t.TotalAmount = t.TotalPaid()
}
