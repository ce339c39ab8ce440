package models

// Algorithm names the strategy used to produce a settlement.
type Algorithm string

const (
	// AlgorithmOptimal is the exhaustive minimum-transfer search.
	AlgorithmOptimal Algorithm = "optimal"
	// AlgorithmGreedy matches largest debtor with largest creditor.
	AlgorithmGreedy Algorithm = "greedy"
	// AlgorithmNone is reported when nothing needs settling.
	AlgorithmNone Algorithm = "none"
)

// Transfer is one payment from a debtor to a creditor.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// SettlementResult lists the transfers that bring every balance to zero.
type SettlementResult struct {
	Settlements []Transfer `json:"settlements"`
	Algorithm   Algorithm  `json:"algorithm"`
}
