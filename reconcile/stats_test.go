package reconcile_test

import (
	"testing"
	"time"

	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// DUES STATS TESTS
// =============================================================================

func TestDuesStats_NoAllocation_AllZero(t *testing.T) {
	// GIVEN: No allocation for 2025, one member, empty ledger
	// WHEN: Computing stats and owing members
	// THEN: Zero stats record, empty owing list

	members := []reconcile.Member{regularMember("m1", "Ama Mensah")}

	st := reconcile.ComputeDuesStats(members, nil, nil, 2025)
	if st.ExecutivesPaid != 0 || st.RegularsPaid != 0 {
		t.Errorf("expected zero paid counts, got %d/%d", st.ExecutivesPaid, st.RegularsPaid)
	}
	if !st.TotalExpected.IsZero() || !st.TotalPaid.IsZero() || !st.TotalOwing.IsZero() {
		t.Errorf("expected zero totals, got expected=%v paid=%v owing=%v",
			st.TotalExpected, st.TotalPaid, st.TotalOwing)
	}
	if st.OverallRate != 0 {
		t.Errorf("expected zero rate, got %v", st.OverallRate)
	}

	owing := reconcile.OwingMembers(members, nil, nil, 2025, reconcile.BasisDistinctMonths)
	if len(owing) != 0 {
		t.Errorf("expected empty owing list, got %d entries", len(owing))
	}
}

func TestDuesStats_MixedCollection(t *testing.T) {
	// GIVEN: Allocation exec=50/reg=25 monthly; one executive fully paid
	//        (600 of 600), one regular at half (150 of 300)
	// WHEN: Computing stats for 2024
	// THEN: executivesPaid=1, totalOwing=150, overallRate ~ 83.33

	members := []reconcile.Member{
		executiveMember("e1", "Kofi Boateng"),
		regularMember("m1", "Ama Mensah"),
	}
	alloc := &reconcile.DuesAllocation{
		Year:             2024,
		ExecutiveMonthly: money(50),
		RegularMonthly:   money(25),
	}

	var payments []reconcile.Payment
	for mo := time.January; mo <= time.December; mo++ {
		payments = append(payments, duesPayment("e1", 2024, mo, 50))
	}
	for mo := time.January; mo <= time.June; mo++ {
		payments = append(payments, duesPayment("m1", 2024, mo, 25))
	}

	st := reconcile.ComputeDuesStats(members, alloc, payments, 2024)

	if st.ExecutivesPaid != 1 {
		t.Errorf("expected 1 executive fully paid, got %d", st.ExecutivesPaid)
	}
	if st.RegularsPaid != 0 {
		t.Errorf("expected 0 regulars fully paid, got %d", st.RegularsPaid)
	}
	if !st.TotalExpected.Equal(money(900)) {
		t.Errorf("expected total expected 900, got %v", st.TotalExpected)
	}
	if !st.TotalPaid.Equal(money(750)) {
		t.Errorf("expected total paid 750, got %v", st.TotalPaid)
	}
	if !st.TotalOwing.Equal(money(150)) {
		t.Errorf("expected total owing 150, got %v", st.TotalOwing)
	}
	if !approxEqual(st.OverallRate, 83.33) {
		t.Errorf("expected overall rate ~83.33, got %v", st.OverallRate)
	}
}

func TestDuesStats_OrphanPaymentCountsInTotalPaid(t *testing.T) {
	// GIVEN: A dues payment whose member id matches nobody in the directory
	// WHEN: Computing stats
	// THEN: TotalPaid includes it (union-wide sum, by specification), while
	//       no per-member summary ever sees it

	members := []reconcile.Member{regularMember("m1", "Ama Mensah")}
	alloc := alloc2024(20, 10)
	payments := []reconcile.Payment{
		duesPayment("m1", 2024, time.January, 10),
		duesPayment("ghost", 2024, time.January, 40),
	}

	st := reconcile.ComputeDuesStats(members, alloc, payments, 2024)
	if !st.TotalPaid.Equal(money(50)) {
		t.Errorf("expected total paid 50 including orphan payment, got %v", st.TotalPaid)
	}

	s := reconcile.MemberPaymentSummary(members[0], 2024, alloc, payments)
	if !s.Paid.Equal(money(10)) {
		t.Errorf("expected member paid 10, got %v", s.Paid)
	}
}

func TestDuesStats_OverCollection_OwingClampedToZero(t *testing.T) {
	// GIVEN: Union-wide payments exceeding the total expected
	// WHEN: Computing stats
	// THEN: TotalOwing is zero, never negative

	members := []reconcile.Member{regularMember("m1", "Ama Mensah")}
	payments := []reconcile.Payment{duesPayment("m1", 2024, time.January, 1000)}

	st := reconcile.ComputeDuesStats(members, alloc2024(20, 10), payments, 2024)
	if !st.TotalOwing.IsZero() {
		t.Errorf("expected zero owing, got %v", st.TotalOwing)
	}
}
