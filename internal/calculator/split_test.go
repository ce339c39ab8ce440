package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/tripsplit/internal/models"
)

func TestTransactionDebits(t *testing.T) {
	tests := []struct {
		name         string
		tx           models.Transaction
		wantOK       bool
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name: "equal split among three",
			tx: models.Transaction{
				Payers:       []models.Payer{{Name: "Alice", Amount: 90}},
				Participants: []string{"Alice", "Bob", "Charlie"},
				SplitType:    models.SplitEqual,
			},
			wantOK: true,
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 3 {
					t.Fatalf("got %d shares, want 3", len(shares))
				}
				for _, s := range shares {
					if math.Abs(s.Amount-30) > 1e-9 {
						t.Errorf("%s share = %v, want 30", s.Name, s.Amount)
					}
				}
			},
		},
		{
			name: "equal split sums every payer",
			tx: models.Transaction{
				Payers:       []models.Payer{{Name: "Alice", Amount: 60}, {Name: "Bob", Amount: 40}},
				Participants: []string{"Alice", "Bob", "Charlie", "Diana"},
				SplitType:    models.SplitEqual,
			},
			wantOK: true,
			validateFunc: func(t *testing.T, shares []Share) {
				for _, s := range shares {
					if math.Abs(s.Amount-25) > 1e-9 {
						t.Errorf("%s share = %v, want 25", s.Name, s.Amount)
					}
				}
			},
		},
		{
			name: "equal share is not rounded",
			tx: models.Transaction{
				Payers:       []models.Payer{{Name: "Alice", Amount: 100}},
				Participants: []string{"Alice", "Bob", "Charlie"},
				SplitType:    models.SplitEqual,
			},
			wantOK: true,
			validateFunc: func(t *testing.T, shares []Share) {
				if shares[0].Amount != 100.0/3.0 {
					t.Errorf("share = %v, want %v", shares[0].Amount, 100.0/3.0)
				}
			},
		},
		{
			name: "custom split uses parallel amounts",
			tx: models.Transaction{
				Payers:        []models.Payer{{Name: "Alice", Amount: 50}},
				Participants:  []string{"Alice", "Bob"},
				SplitType:     models.SplitCustom,
				CustomAmounts: []float64{20, 30},
			},
			wantOK: true,
			validateFunc: func(t *testing.T, shares []Share) {
				if shares[0].Name != "Alice" || shares[0].Amount != 20 {
					t.Errorf("first share = %+v, want Alice 20", shares[0])
				}
				if shares[1].Name != "Bob" || shares[1].Amount != 30 {
					t.Errorf("second share = %+v, want Bob 30", shares[1])
				}
			},
		},
		{
			name: "custom split with misaligned amounts is skipped",
			tx: models.Transaction{
				Payers:        []models.Payer{{Name: "Alice", Amount: 50}},
				Participants:  []string{"Alice", "Bob"},
				SplitType:     models.SplitCustom,
				CustomAmounts: []float64{50},
			},
			wantOK: false,
		},
		{
			name: "custom split without amounts is skipped",
			tx: models.Transaction{
				Payers:       []models.Payer{{Name: "Alice", Amount: 50}},
				Participants: []string{"Alice", "Bob"},
				SplitType:    models.SplitCustom,
			},
			wantOK: false,
		},
		{
			name: "no participants is skipped",
			tx: models.Transaction{
				Payers:    []models.Payer{{Name: "Alice", Amount: 50}},
				SplitType: models.SplitEqual,
			},
			wantOK: false,
		},
		{
			name: "unknown split type is skipped",
			tx: models.Transaction{
				Payers:       []models.Payer{{Name: "Alice", Amount: 50}},
				Participants: []string{"Alice"},
				SplitType:    "percent",
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, ok := TransactionDebits(tt.tx)
			if ok != tt.wantOK {
				t.Fatalf("TransactionDebits() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && shares != nil {
				t.Errorf("expected no shares when skipped, got %v", shares)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{-33.336, -33.34},
		{1.005, 1.01},
		{-1.005, -1.01},
		{0.004, 0},
		{50, 50},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); got != tt.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := RoundCents(math.Inf(-1)); !math.IsInf(got, -1) {
		t.Errorf("RoundCents(-Inf) = %v, want -Inf", got)
	}
	if got := RoundCents(math.NaN()); !math.IsNaN(got) {
		t.Errorf("RoundCents(NaN) = %v, want NaN", got)
	}
}
