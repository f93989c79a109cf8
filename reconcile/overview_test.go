package reconcile_test

import (
	"testing"
	"time"

	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// OVERVIEW TESTS
// =============================================================================

func contribution(amount float64, at time.Time) reconcile.FinanceEntry {
	return reconcile.FinanceEntry{
		Type:       reconcile.EntryContribution,
		Amount:     money(amount),
		RecordedAt: at,
	}
}

func budgetEntry(year int, amount float64) reconcile.FinanceEntry {
	return reconcile.FinanceEntry{
		Type:   reconcile.EntryBudget,
		Amount: money(amount),
		Year:   year,
	}
}

func TestOverview_TotalIncomeSumsFinancesAndDuesPayments(t *testing.T) {
	// GIVEN: Positive finance entries and dues payments for the year, plus a
	//        dues-type finance entry mirroring a payment
	// WHEN: Computing the overview
	// THEN: TotalIncome = positive finances + dues payments, exactly. The
	//       mirrored dues entry is counted twice — documented behavior, the
	//       engine does not deduplicate across the two ledgers.

	mid2024 := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	finances := []reconcile.FinanceEntry{
		contribution(100, mid2024),
		{Type: reconcile.EntryOther, Amount: money(30), RecordedAt: mid2024},
		{Type: reconcile.EntryDues, Amount: money(10), Year: 2024}, // mirrored dues
		{Type: reconcile.EntryOther, Amount: money(-40), RecordedAt: mid2024}, // expense, not income
	}
	payments := []reconcile.Payment{
		duesPayment("m1", 2024, time.January, 10),
		duesPayment("m2", 2024, time.February, 25),
	}

	o := reconcile.Overview(nil, finances, payments, 2024)

	// 100 + 30 + 10 (mirrored) + 10 + 25 = 175
	if !o.TotalIncome.Equal(money(175)) {
		t.Errorf("expected total income 175, got %v", o.TotalIncome)
	}
	if !o.Dues.Equal(money(45)) {
		t.Errorf("expected dues breakdown 45, got %v", o.Dues)
	}
	if !o.Contributions.Equal(money(100)) {
		t.Errorf("expected contributions 100, got %v", o.Contributions)
	}
	if !o.Others.Equal(money(30)) {
		t.Errorf("expected others 30, got %v", o.Others)
	}
}

func TestOverview_MemberCountsByRole(t *testing.T) {
	// GIVEN: Two executives and three regulars
	// WHEN: Computing the overview
	// THEN: Counts split by the executive flag

	members := []reconcile.Member{
		executiveMember("e1", "A"), executiveMember("e2", "B"),
		regularMember("m1", "C"), regularMember("m2", "D"), regularMember("m3", "E"),
	}

	o := reconcile.Overview(members, nil, nil, 2024)
	if o.TotalMembers != 5 || o.Executives != 2 || o.Regulars != 3 {
		t.Errorf("expected 5/2/3, got %d/%d/%d", o.TotalMembers, o.Executives, o.Regulars)
	}
}

func TestOverview_YearDerivation_DualPath(t *testing.T) {
	// GIVEN: A budget entry with stored year 2024 but a 2025 timestamp, and
	//        a contribution recorded in 2025
	// WHEN: Computing 2024's overview
	// THEN: The budget matches on its stored year; the contribution falls
	//       into 2025 by timestamp and is excluded

	in2025 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	b := budgetEntry(2024, 5000)
	b.RecordedAt = in2025

	finances := []reconcile.FinanceEntry{b, contribution(100, in2025)}

	o := reconcile.Overview(nil, finances, nil, 2024)
	if !o.HasBudget || !o.Budget.Equal(money(5000)) {
		t.Errorf("expected budget 5000 via stored year, got %v (has=%v)", o.Budget, o.HasBudget)
	}
	if !o.TotalIncome.IsZero() {
		t.Errorf("expected zero income for 2024, got %v", o.TotalIncome)
	}
}

func TestOverview_UnusableTimestamp_ExcludedAndCounted(t *testing.T) {
	// GIVEN: A contribution with a zero timestamp (year underivable)
	// WHEN: Computing the overview
	// THEN: The record is skipped, not aggregated, and the skip is counted

	finances := []reconcile.FinanceEntry{
		{Type: reconcile.EntryContribution, Amount: money(100)}, // zero RecordedAt
	}

	o := reconcile.Overview(nil, finances, nil, 2024)
	if !o.TotalIncome.IsZero() {
		t.Errorf("expected zero income, got %v", o.TotalIncome)
	}
	if o.Skipped != 1 {
		t.Errorf("expected 1 skipped entry, got %d", o.Skipped)
	}
}

func TestBudgetForYear_FirstMatchWins(t *testing.T) {
	// GIVEN: Two budget entries for the same year (imported data)
	// WHEN: Looking up the year's budget
	// THEN: First in ledger order wins

	finances := []reconcile.FinanceEntry{
		budgetEntry(2024, 5000),
		budgetEntry(2024, 9999),
	}

	b, ok := reconcile.BudgetForYear(finances, 2024)
	if !ok || !b.Amount.Equal(money(5000)) {
		t.Errorf("expected first budget 5000, got %v (ok=%v)", b.Amount, ok)
	}

	if _, ok := reconcile.BudgetForYear(finances, 2023); ok {
		t.Error("expected no budget for 2023")
	}
}
