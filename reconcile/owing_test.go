package reconcile_test

import (
	"testing"
	"time"

	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// OWING MEMBERS TESTS
// =============================================================================

func TestOwingMembers_SortedDescending_NoNonOwing(t *testing.T) {
	// GIVEN: Three members: fully paid, half paid, unpaid
	// WHEN: Deriving the owing list
	// THEN: Only the two in arrears appear, largest shortfall first

	members := []reconcile.Member{
		regularMember("paid", "Fully Paid"),
		regularMember("half", "Half Paid"),
		regularMember("none", "Never Paid"),
	}
	alloc := alloc2024(20, 10)

	var payments []reconcile.Payment
	for mo := time.January; mo <= time.December; mo++ {
		payments = append(payments, duesPayment("paid", 2024, mo, 10))
	}
	for mo := time.January; mo <= time.June; mo++ {
		payments = append(payments, duesPayment("half", 2024, mo, 10))
	}

	owing := reconcile.OwingMembers(members, alloc, payments, 2024, reconcile.BasisDistinctMonths)

	if len(owing) != 2 {
		t.Fatalf("expected 2 owing members, got %d", len(owing))
	}
	if owing[0].Member.ID != "none" || owing[1].Member.ID != "half" {
		t.Errorf("expected order [none, half], got [%s, %s]",
			owing[0].Member.ID, owing[1].Member.ID)
	}
	for _, o := range owing {
		if !o.Summary.Owing.IsPositive() {
			t.Errorf("member %s has non-positive owing %v", o.Member.ID, o.Summary.Owing)
		}
	}
	if !owing[0].Summary.Owing.GreaterOrEqual(owing[1].Summary.Owing) {
		t.Error("owing list not sorted descending")
	}
}

func TestOwingMembers_MonthsOwingBases(t *testing.T) {
	// GIVEN: A member who paid twice in January and nothing else
	// WHEN: Deriving months owing under each basis
	// THEN: Distinct-months reads 11, payment-count reads 10

	members := []reconcile.Member{regularMember("m1", "Ama Mensah")}
	alloc := alloc2024(20, 10)
	payments := []reconcile.Payment{
		duesPayment("m1", 2024, time.January, 10),
		duesPayment("m1", 2024, time.January, 10),
	}

	byMonths := reconcile.OwingMembers(members, alloc, payments, 2024, reconcile.BasisDistinctMonths)
	if len(byMonths) != 1 || byMonths[0].MonthsOwing != 11 {
		t.Errorf("distinct-months basis: expected 11, got %+v", byMonths)
	}

	byCount := reconcile.OwingMembers(members, alloc, payments, 2024, reconcile.BasisPaymentCount)
	if len(byCount) != 1 || byCount[0].MonthsOwing != 10 {
		t.Errorf("payment-count basis: expected 10, got %+v", byCount)
	}
}

func TestOwingMembers_PaymentCountBasis_ClampedAtZero(t *testing.T) {
	// GIVEN: A member with 15 small payments (more records than months)
	//        who still owes money
	// WHEN: Deriving months owing on the payment-count basis
	// THEN: Months owing clamps at zero instead of going negative

	members := []reconcile.Member{regularMember("m1", "Ama Mensah")}
	alloc := alloc2024(20, 10)

	var payments []reconcile.Payment
	for i := 0; i < 15; i++ {
		payments = append(payments, duesPayment("m1", 2024, time.January, 1))
	}

	owing := reconcile.OwingMembers(members, alloc, payments, 2024, reconcile.BasisPaymentCount)
	if len(owing) != 1 {
		t.Fatalf("expected 1 owing member, got %d", len(owing))
	}
	if owing[0].MonthsOwing != 0 {
		t.Errorf("expected months owing clamped to 0, got %d", owing[0].MonthsOwing)
	}
}

func TestOwingMembers_TieBrokenByName(t *testing.T) {
	// GIVEN: Two members owing the same amount
	// WHEN: Deriving the owing list twice
	// THEN: Order is deterministic (alphabetical on ties)

	members := []reconcile.Member{
		regularMember("m2", "Zara Owusu"),
		regularMember("m1", "Ama Mensah"),
	}
	alloc := alloc2024(20, 10)

	owing := reconcile.OwingMembers(members, alloc, nil, 2024, reconcile.BasisDistinctMonths)
	if len(owing) != 2 {
		t.Fatalf("expected 2 owing members, got %d", len(owing))
	}
	if owing[0].Member.FullName != "Ama Mensah" {
		t.Errorf("expected alphabetical tie-break, got %s first", owing[0].Member.FullName)
	}
}
