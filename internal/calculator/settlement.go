package calculator

import (
	"cmp"
	"math"
	"math/bits"
	"slices"

	"github.com/mmynk/tripsplit/internal/models"
)

const (
	// Epsilon is the magnitude below which a balance counts as settled.
	Epsilon = 1e-6

	// OptimalThreshold is the largest roster size solved with the exhaustive search.
	OptimalThreshold = 15

	// DefaultMaxSearchNodes caps the exhaustive search before falling back to greedy.
	DefaultMaxSearchNodes = 250_000
)

// Options tunes ComputeSettlementWithOptions.
type Options struct {
	// OptimalThreshold is compared against the number of balances passed in,
	// zero-balance members included.
	OptimalThreshold int

	// MaxSearchNodes bounds the optimal search. Zero or negative disables the cap.
	MaxSearchNodes int
}

// DefaultOptions returns the production settlement options.
func DefaultOptions() Options {
	return Options{
		OptimalThreshold: OptimalThreshold,
		MaxSearchNodes:   DefaultMaxSearchNodes,
	}
}

// party is a debtor or creditor with the magnitude still to settle.
type party struct {
	name   string
	amount float64
}

// ComputeSettlement produces transfers that bring every balance to zero using
// the default options.
func ComputeSettlement(balances []models.Member) models.SettlementResult {
	return ComputeSettlementWithOptions(balances, DefaultOptions())
}

// ComputeSettlementWithOptions produces transfers that bring every balance to zero.
//
// Rosters up to opts.OptimalThreshold members are solved with a depth-first
// search that minimizes the number of transfers. A search that exceeds
// opts.MaxSearchNodes settles whole-cent balances group by group instead.
// Larger rosters, and exhausted searches over sub-cent balances, use the
// greedy largest-first matching.
// Every transfer amount is rounded to cents when it is created and the
// remaining balances are reduced by the rounded amount.
//
// The function is total: balances within Epsilon of zero yield an empty
// settlement with AlgorithmNone.
func ComputeSettlementWithOptions(balances []models.Member, opts Options) models.SettlementResult {
	debtors, creditors := partition(balances)
	if len(debtors) == 0 && len(creditors) == 0 {
		return models.SettlementResult{Settlements: []models.Transfer{}, Algorithm: models.AlgorithmNone}
	}

	if len(balances) <= opts.OptimalThreshold {
		if transfers, ok := settleOptimal(debtors, creditors, opts.MaxSearchNodes); ok {
			return models.SettlementResult{Settlements: transfers, Algorithm: models.AlgorithmOptimal}
		}
	}

	return models.SettlementResult{
		Settlements: settleGreedy(debtors, creditors),
		Algorithm:   models.AlgorithmGreedy,
	}
}

// partition splits balances into debtors (owing, magnitude -balance) and
// creditors (owed, magnitude balance), keeping input order.
func partition(balances []models.Member) (debtors, creditors []party) {
	for _, m := range balances {
		switch {
		case m.Balance < -Epsilon:
			debtors = append(debtors, party{name: m.Name, amount: -m.Balance})
		case m.Balance > Epsilon:
			creditors = append(creditors, party{name: m.Name, amount: m.Balance})
		}
	}
	return debtors, creditors
}

// transferAmount is the cent-rounded payment between two parties. A payment
// smaller than half a cent is kept unrounded so the matching always progresses.
func transferAmount(debt, credit float64) float64 {
	exact := math.Min(debt, credit)
	if pay := RoundCents(exact); pay > 0 {
		return pay
	}
	return exact
}

// halfCent is the largest remainder that rounds to zero cents.
const halfCent = 0.005

// deduct subtracts pay from remaining. A remainder that cannot be paid in
// whole cents counts as settled.
func deduct(remaining, pay float64) float64 {
	left := remaining - pay
	if left < halfCent {
		return 0
	}
	return left
}

// search is the state of one exhaustive settlement search.
type search struct {
	debtors   []party
	creditors []party
	current   []models.Transfer

	best  []models.Transfer
	found bool

	// target is the fewest transfers any settlement can use. The search
	// stops at the first one that short. Zero means unknown.
	target int
	done   bool

	nodes     int
	maxNodes  int
	exhausted bool
}

// settleOptimal finds a settlement with the fewest transfers. When the node
// budget runs out on whole-cent balances the zero-sum grouping still gives a
// minimal settlement. ok is false when no complete assignment exists or the
// budget ran out without one.
func settleOptimal(debtors, creditors []party, maxNodes int) (transfers []models.Transfer, ok bool) {
	s := &search{
		debtors:   slices.Clone(debtors),
		creditors: slices.Clone(creditors),
		maxNodes:  maxNodes,
	}
	groups, grouped := zeroSumGroups(debtors, creditors)
	if grouped {
		s.target = len(debtors) + len(creditors) - len(groups)
	}
	s.visit(0)

	if s.exhausted && grouped {
		return settleGroups(debtors, creditors, groups), true
	}
	if s.exhausted || !s.found {
		return nil, false
	}
	if s.best == nil {
		s.best = []models.Transfer{}
	}
	return s.best, true
}

// visit explores every way to pay the first debtor at or after i that still
// owes money. Amounts are restored after each branch.
func (s *search) visit(i int) {
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.exhausted = true
		return
	}

	for i < len(s.debtors) && s.debtors[i].amount == 0 {
		i++
	}
	if i == len(s.debtors) {
		if !s.found || len(s.current) < len(s.best) {
			s.best = slices.Clone(s.current)
			s.found = true
			s.done = len(s.best) <= s.target
		}
		return
	}
	// Each transfer settles at most one debtor and one creditor.
	if s.found && len(s.current)+s.unsettled() >= len(s.best) {
		return
	}

	debtor := &s.debtors[i]
	for j := range s.creditors {
		creditor := &s.creditors[j]
		if creditor.amount == 0 {
			continue
		}

		pay := transferAmount(debtor.amount, creditor.amount)
		debt, credit := debtor.amount, creditor.amount
		debtor.amount = deduct(debt, pay)
		creditor.amount = deduct(credit, pay)
		s.current = append(s.current, models.Transfer{From: debtor.name, To: creditor.name, Amount: pay})

		s.visit(i)

		s.current = s.current[:len(s.current)-1]
		debtor.amount, creditor.amount = debt, credit

		if s.exhausted || s.done {
			return
		}
	}
}

// unsettled is the larger of the debtor and creditor counts still owing.
func (s *search) unsettled() int {
	var d, c int
	for _, p := range s.debtors {
		if p.amount != 0 {
			d++
		}
	}
	for _, p := range s.creditors {
		if p.amount != 0 {
			c++
		}
	}
	return max(d, c)
}

// maxGroupParties caps the subset enumeration in zeroSumGroups.
const maxGroupParties = 16

// zeroSumGroups splits the parties into the most groups that each sum to zero.
// Debtors are indexed first, then creditors. A group of k parties settles in
// k-1 transfers and no fewer, so no settlement beats one transfer less than
// the party count per group. ok is false for more than maxGroupParties
// parties, amounts with a sub-cent part, or a nonzero total.
func zeroSumGroups(debtors, creditors []party) (groups [][]int, ok bool) {
	n := len(debtors) + len(creditors)
	if n == 0 || n > maxGroupParties {
		return nil, false
	}
	cents := make([]int64, 0, n)
	for _, d := range debtors {
		c, ok := wholeCents(d.amount)
		if !ok {
			return nil, false
		}
		cents = append(cents, -c)
	}
	for _, cr := range creditors {
		c, ok := wholeCents(cr.amount)
		if !ok {
			return nil, false
		}
		cents = append(cents, c)
	}

	// most[mask] is the largest number of zero-sum prefixes in some ordering
	// of mask.
	full := 1<<n - 1
	sums := make([]int64, full+1)
	most := make([]int, full+1)
	for mask := 1; mask <= full; mask++ {
		sums[mask] = sums[mask&(mask-1)] + cents[bits.TrailingZeros(uint(mask))]
		best := 0
		for rest := mask; rest != 0; rest &= rest - 1 {
			best = max(best, most[mask&^(1<<bits.TrailingZeros(uint(rest)))])
		}
		if sums[mask] == 0 {
			best++
		}
		most[mask] = best
	}
	if sums[full] != 0 {
		return nil, false
	}

	// Peel parties off along the best ordering; the parties between two
	// zero-sum prefixes form one group.
	boundary := full
	for mask := full; mask != 0; {
		drop := -1
		for rest := mask; rest != 0; rest &= rest - 1 {
			i := bits.TrailingZeros(uint(rest))
			if drop < 0 || most[mask&^(1<<i)] > most[mask&^(1<<drop)] {
				drop = i
			}
		}
		mask &^= 1 << drop
		if mask != 0 && sums[mask] == 0 {
			groups = append(groups, maskIndexes(boundary&^mask, n))
			boundary = mask
		}
	}
	groups = append(groups, maskIndexes(boundary, n))

	slices.SortFunc(groups, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })
	return groups, true
}

func maskIndexes(mask, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// settleGroups pays every group off on its own, each debtor in turn paying
// the next creditor of its group that is still owed.
func settleGroups(debtors, creditors []party, groups [][]int) []models.Transfer {
	transfers := []models.Transfer{}
	for _, group := range groups {
		var ds, cs []party
		for _, i := range group {
			if i < len(debtors) {
				ds = append(ds, debtors[i])
			} else {
				cs = append(cs, creditors[i-len(debtors)])
			}
		}

		for di, ci := 0, 0; di < len(ds) && ci < len(cs); {
			d, c := &ds[di], &cs[ci]
			pay := transferAmount(d.amount, c.amount)
			transfers = append(transfers, models.Transfer{From: d.name, To: c.name, Amount: pay})

			d.amount = deduct(d.amount, pay)
			c.amount = deduct(c.amount, pay)
			if d.amount == 0 {
				di++
			}
			if c.amount == 0 {
				ci++
			}
		}
	}
	return transfers
}

// wholeCents converts v to cents when it has no sub-cent part.
func wholeCents(v float64) (int64, bool) {
	c := math.Round(v * 100)
	if math.Abs(v*100-c) > 1e-6 || math.Abs(c) > 1<<53 {
		return 0, false
	}
	return int64(c), true
}

// settleGreedy repeatedly pays the largest remaining creditor from the
// largest remaining debtor. Ties are broken by name so the output is stable.
func settleGreedy(debtors, creditors []party) []models.Transfer {
	ds := slices.Clone(debtors)
	cs := slices.Clone(creditors)
	transfers := []models.Transfer{}

	for len(ds) > 0 && len(cs) > 0 {
		sortLargestFirst(ds)
		sortLargestFirst(cs)

		d, c := &ds[0], &cs[0]
		pay := transferAmount(d.amount, c.amount)
		transfers = append(transfers, models.Transfer{From: d.name, To: c.name, Amount: pay})

		d.amount = deduct(d.amount, pay)
		c.amount = deduct(c.amount, pay)
		if d.amount == 0 {
			ds = ds[1:]
		}
		if c.amount == 0 {
			cs = cs[1:]
		}
	}

	return transfers
}

func sortLargestFirst(parties []party) {
	slices.SortFunc(parties, func(a, b party) int {
		if n := cmp.Compare(b.amount, a.amount); n != 0 {
			return n
		}
		return cmp.Compare(a.name, b.name)
	})
}

// Apply returns a copy of balances with every transfer applied: the sender's
// balance rises by the amount and the receiver's falls by it. A complete
// settlement leaves every balance within a cent of zero.
func Apply(balances []models.Member, result models.SettlementResult) []models.Member {
	out := slices.Clone(balances)
	index := make(map[string]int, len(out))
	for i, m := range out {
		index[m.Name] = i
	}
	for _, t := range result.Settlements {
		if i, ok := index[t.From]; ok {
			out[i].Balance += t.Amount
		}
		if i, ok := index[t.To]; ok {
			out[i].Balance -= t.Amount
		}
	}
	return out
}
