package calculator

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/tripsplit/internal/models"
)

// balanceEntry is the working state for one normalized name.
type balanceEntry struct {
	display string
	balance float64
}

// balanceSheet tracks balances by normalized name while keeping the first
// display name seen for each key.
type balanceSheet struct {
	entries    map[string]*balanceEntry
	discovered []string // keys not present in the roster, in first-seen order
}

func newBalanceSheet(roster []models.Member) *balanceSheet {
	sheet := &balanceSheet{entries: make(map[string]*balanceEntry, len(roster))}
	for _, m := range roster {
		key := models.NameKey(m.Name)
		if _, exists := sheet.entries[key]; exists {
			continue
		}
		sheet.entries[key] = &balanceEntry{display: m.Name}
	}
	return sheet
}

// entry returns the entry for name, inserting it at zero if it is new.
func (s *balanceSheet) entry(name string) *balanceEntry {
	key := models.NameKey(name)
	if e, exists := s.entries[key]; exists {
		return e
	}
	e := &balanceEntry{display: strings.TrimSpace(name)}
	s.entries[key] = e
	s.discovered = append(s.discovered, key)
	return e
}

func (s *balanceSheet) apply(tx models.Transaction) {
	// Register every name first so participants skipped by the debit
	// phase still join the roster.
	for _, p := range tx.Payers {
		s.entry(p.Name)
	}
	for _, name := range tx.Participants {
		s.entry(name)
	}

	shares, ok := TransactionDebits(tx)
	if !finiteAmounts(tx.TotalPaid(), shares) {
		return
	}

	for _, p := range tx.Payers {
		s.entry(p.Name).balance += p.Amount
	}
	if !ok {
		return
	}
	for _, share := range shares {
		s.entry(share.Name).balance -= share.Amount
	}
}

// finiteAmounts reports whether paid and every share are finite. A
// transaction that fails it moves no money.
func finiteAmounts(paid float64, shares []Share) bool {
	if math.IsNaN(paid) || math.IsInf(paid, 0) {
		return false
	}
	for _, share := range shares {
		if math.IsNaN(share.Amount) || math.IsInf(share.Amount, 0) {
			return false
		}
	}
	return true
}

// RecomputeBalances rebuilds every member balance from the full transaction
// history of a trip.
//
// The result starts with the roster members in their original order, followed
// by names that only appear in transactions, sorted by display name. Names are
// matched case-insensitively after trimming. Members are never dropped, even
// with no transactions. Balances are rounded to cents after all transactions
// are folded, so the result does not depend on transaction order. A
// transaction whose amounts are not finite registers its names but moves no
// money.
func RecomputeBalances(roster []models.Member, transactions []models.Transaction) []models.Member {
	sheet := newBalanceSheet(roster)
	for _, tx := range transactions {
		sheet.apply(tx)
	}

	result := make([]models.Member, 0, len(roster)+len(sheet.discovered))
	for _, m := range roster {
		e := sheet.entries[models.NameKey(m.Name)]
		result = append(result, models.Member{Name: m.Name, Balance: RoundCents(e.balance)})
	}

	discovered := make([]models.Member, len(sheet.discovered))
	for i, key := range sheet.discovered {
		e := sheet.entries[key]
		discovered[i] = models.Member{Name: e.display, Balance: RoundCents(e.balance)}
	}
	sortByDisplayName(discovered)

	return append(result, discovered...)
}

// sortByDisplayName orders members with locale-aware collation, falling back
// to byte order so the result is deterministic.
func sortByDisplayName(members []models.Member) {
	c := collate.New(language.Und)
	slices.SortFunc(members, func(a, b models.Member) int {
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Name, b.Name)
	})
}
