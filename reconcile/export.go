/*
export.go - Income/expense categorization for document export

PURPOSE:
  Produces the figures the yearly statement (CSV, and on-screen summary)
  is rendered from: the year's income entries, its expense lines (negative
  finance entries plus withdrawals from the dues account), net income, and
  how many members are fully paid vs. in arrears.

  Year filtering follows the same dual-path rule as the overview: budget
  and dues entries match on their stored year, everything else on the
  recorded timestamp.
*/
package reconcile

// =============================================================================
// YEAR EXPORT
// =============================================================================

// ExpenseSource tags where an expense line came from.
type ExpenseSource string

const (
	ExpenseFinance    ExpenseSource = "finance"    // Negative finance entry
	ExpenseWithdrawal ExpenseSource = "withdrawal" // Withdrawal from the dues ledger
)

// ExpenseLine is one expense row in the yearly statement. Amount is the
// positive magnitude regardless of source sign convention.
type ExpenseLine struct {
	Source      ExpenseSource
	Description string
	Amount      Money
}

// YearExport is everything the exporter needs to render a yearly statement.
// It feeds directly into document templates; no further business logic.
type YearExport struct {
	Year int

	Income   []FinanceEntry
	Expenses []ExpenseLine

	TotalIncome   Money
	TotalExpenses Money
	Net           Money

	MembersPaid  int
	MembersOwing int

	// Skipped counts finance entries excluded for unusable timestamps.
	Skipped int
}

// Export assembles the yearly statement data. allocs is the full allocation
// table; the year's allocation (if any) drives the paid/owing member counts
// through the same shared summary computation as every other aggregate.
func Export(members []Member, payments []Payment, finances []FinanceEntry, allocs []DuesAllocation, year int) YearExport {
	ex := YearExport{Year: year}

	for _, e := range finances {
		y, ok := e.BelongsTo()
		if !ok {
			ex.Skipped++
			continue
		}
		if y != year || e.Type == EntryBudget {
			continue
		}
		switch {
		case e.Amount.IsPositive():
			ex.Income = append(ex.Income, e)
			ex.TotalIncome = ex.TotalIncome.Add(e.Amount)
		case e.Amount.IsNegative():
			ex.Expenses = append(ex.Expenses, ExpenseLine{
				Source:      ExpenseFinance,
				Description: e.Description,
				Amount:      e.Amount.Abs(),
			})
			ex.TotalExpenses = ex.TotalExpenses.Add(e.Amount.Abs())
		}
	}

	for _, p := range payments {
		if p.Kind != KindWithdrawal || p.Year != year {
			continue
		}
		ex.Expenses = append(ex.Expenses, ExpenseLine{
			Source:      ExpenseWithdrawal,
			Description: "dues account withdrawal",
			Amount:      p.Amount,
		})
		ex.TotalExpenses = ex.TotalExpenses.Add(p.Amount)
	}

	ex.Net = ex.TotalIncome.Sub(ex.TotalExpenses)

	alloc := AllocationForYear(allocs, year)
	for _, m := range members {
		s := MemberPaymentSummary(m, year, alloc, payments)
		if s.FullyPaid() {
			ex.MembersPaid++
		} else if s.Owing.IsPositive() {
			ex.MembersOwing++
		}
	}

	return ex
}
