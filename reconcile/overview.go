/*
overview.go - Union-wide income overview for a year

PURPOSE:
  Aggregates the finance ledger and the dues ledger into the headline
  figures the overview screen shows: member counts by role, total income
  with a per-type breakdown, and the year's budget.

DOUBLE-COUNT NOTE:
  Total income mixes positive finance-ledger amounts with dues-ledger
  payment amounts. If a dues payment is ever mirrored into the finance
  ledger as a dues-type entry, it is counted twice. The engine preserves
  this documented behavior rather than deduplicating across the two
  ledgers; callers that need a deduplicated view must keep dues out of
  the finance ledger.
*/
package reconcile

// =============================================================================
// OVERVIEW STATS
// =============================================================================

// OverviewStats is a flat record of union-wide counts and sums for a year.
// Absent data yields zeros; there are no error conditions.
type OverviewStats struct {
	Year int

	TotalMembers int
	Executives   int
	Regulars     int

	// TotalIncome = positive finance amounts + dues payment amounts.
	TotalIncome Money

	// Per-type breakdown. Dues includes both dues-type finance entries and
	// dues ledger payments.
	Dues          Money
	Contributions Money
	Others        Money

	// Budget is the first budget-type entry for the year in ledger order.
	Budget    Money
	HasBudget bool

	// Skipped counts finance entries excluded because their year could not
	// be resolved (unusable timestamp).
	Skipped int
}

// Overview computes the overview statistics for a year from snapshots of
// the member directory, finance ledger, and dues ledger.
func Overview(members []Member, finances []FinanceEntry, payments []Payment, year int) OverviewStats {
	o := OverviewStats{Year: year}

	for _, m := range members {
		o.TotalMembers++
		if m.Executive {
			o.Executives++
		} else {
			o.Regulars++
		}
	}

	for _, e := range finances {
		y, ok := e.BelongsTo()
		if !ok {
			o.Skipped++
			continue
		}
		if y != year {
			continue
		}
		if e.Type == EntryBudget {
			if !o.HasBudget {
				o.Budget = e.Amount
				o.HasBudget = true
			}
			continue
		}
		if !e.Amount.IsPositive() {
			continue
		}
		o.TotalIncome = o.TotalIncome.Add(e.Amount)
		switch e.Type {
		case EntryDues:
			o.Dues = o.Dues.Add(e.Amount)
		case EntryContribution:
			o.Contributions = o.Contributions.Add(e.Amount)
		default:
			o.Others = o.Others.Add(e.Amount)
		}
	}

	for _, p := range payments {
		if p.Kind != KindDues || p.Year != year {
			continue
		}
		o.TotalIncome = o.TotalIncome.Add(p.Amount)
		o.Dues = o.Dues.Add(p.Amount)
	}

	return o
}

// BudgetForYear returns the first budget-type entry for the year in ledger
// order. Stores keep finance entries ordered by recording time, so "first"
// is stable. Ledgers created through this module reject a second budget for
// the same year; the first-match rule covers imported data.
func BudgetForYear(finances []FinanceEntry, year int) (FinanceEntry, bool) {
	for _, e := range finances {
		if e.Type == EntryBudget && e.Year == year {
			return e, true
		}
	}
	return FinanceEntry{}, false
}
