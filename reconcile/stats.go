/*
stats.go - Dues collection statistics for a year

PURPOSE:
  Answers "how is collection going?" for a year: how many members of each
  role have fully paid, the union-wide expected/paid/owing totals, and the
  overall collection rate.

DIVERGENCE NOTE:
  TotalPaid sums the dues ledger union-wide, not per member. A payment
  whose member id matches no current directory entry (a departed member)
  is included here but invisible in any per-member summary. The engine
  does not reconcile that divergence.
*/
package reconcile

// =============================================================================
// DUES STATS
// =============================================================================

// DuesStats is the union-wide collection position for one year.
type DuesStats struct {
	Year int

	// Fully-paid member counts by role (Rate == 100 via MemberPaymentSummary).
	ExecutivesPaid int
	RegularsPaid   int

	TotalExpected Money
	TotalPaid     Money
	TotalOwing    Money

	// OverallRate is TotalPaid/TotalExpected as a percentage.
	OverallRate float64
}

// ComputeDuesStats computes collection statistics for a year. With no
// allocation for the year it returns the all-zero record — a defined
// degenerate case, not an error.
func ComputeDuesStats(members []Member, alloc *DuesAllocation, payments []Payment, year int) DuesStats {
	st := DuesStats{Year: year}
	if alloc == nil {
		return st
	}

	var execs, regulars int64
	for _, m := range members {
		if m.Executive {
			execs++
		} else {
			regulars++
		}
		if MemberPaymentSummary(m, year, alloc, payments).FullyPaid() {
			if m.Executive {
				st.ExecutivesPaid++
			} else {
				st.RegularsPaid++
			}
		}
	}

	st.TotalExpected = alloc.AnnualFor(true).MulInt(execs).
		Add(alloc.AnnualFor(false).MulInt(regulars))

	for _, p := range payments {
		if p.Kind == KindDues && p.Year == year {
			st.TotalPaid = st.TotalPaid.Add(p.Amount)
		}
	}

	st.TotalOwing = st.TotalExpected.Sub(st.TotalPaid).MaxZero()
	st.OverallRate = st.TotalPaid.PercentOf(st.TotalExpected)
	return st
}
