/*
summary.go - Per-member obligation/payment summary

PURPOSE:
  Computes the single most reused figure in the system: for one member and
  one year, what was owed, what was paid, and what remains. Every
  higher-level aggregate (dues statistics, owing list, export) calls
  MemberPaymentSummary rather than recomputing the obligation inline.

DEGENERATE CASE:
  No allocation for the year is NOT an error. It yields an all-zero
  summary; the presenter surfaces it as "no allocation found".

SEE ALSO:
  - stats.go: Union-wide statistics built on these summaries
  - owing.go: Arrears derivation built on these summaries
*/
package reconcile

import (
	"sort"
	"time"
)

// =============================================================================
// MEMBER SUMMARY
// =============================================================================

// MemberSummary is the reconciled dues position of one member for one year.
type MemberSummary struct {
	MemberID MemberID
	Year     int

	// Expected is the full-year obligation (monthly x 12, no pro-rating).
	Expected Money

	// Paid is the sum of matching dues payments.
	Paid Money

	// Owing is max(0, Expected - Paid). Overpayment is absorbed.
	Owing Money

	// Rate is Paid/Expected as a percentage, 0 when Expected is zero.
	Rate float64

	// PaidMonths is the set of distinct months with at least one payment,
	// ascending. Duplicate payments in a month count once.
	PaidMonths []time.Month

	// PaymentCount is the raw number of payment records. Kept separate from
	// len(PaidMonths) because the two diverge when a member pays twice in
	// one month; see MonthsOwingBasis in owing.go.
	PaymentCount int
}

// FullyPaid reports whether the member met the full obligation.
func (s MemberSummary) FullyPaid() bool {
	return s.Expected.IsPositive() && s.Paid.GreaterOrEqual(s.Expected)
}

// MemberPaymentSummary reconciles one member against the dues ledger for a
// year. alloc may be nil (no allocation configured for that year), in which
// case the summary is all zeros. payments may be the full ledger; only
// records matching the member, year, and dues kind are considered.
func MemberPaymentSummary(m Member, year int, alloc *DuesAllocation, payments []Payment) MemberSummary {
	s := MemberSummary{MemberID: m.ID, Year: year}
	if alloc == nil {
		return s
	}

	s.Expected = alloc.AnnualFor(m.Executive)

	seen := make(map[time.Month]bool)
	for _, p := range payments {
		if p.MemberID != m.ID || p.Year != year || p.Kind != KindDues {
			continue
		}
		s.Paid = s.Paid.Add(p.Amount)
		s.PaymentCount++
		if !seen[p.Month] {
			seen[p.Month] = true
			s.PaidMonths = append(s.PaidMonths, p.Month)
		}
	}
	sort.Slice(s.PaidMonths, func(i, j int) bool { return s.PaidMonths[i] < s.PaidMonths[j] })

	s.Owing = s.Expected.Sub(s.Paid).MaxZero()
	s.Rate = s.Paid.PercentOf(s.Expected)
	return s
}
