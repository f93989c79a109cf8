/*
owing.go - Members in arrears

PURPOSE:
  Derives the list shown on the "owing members" screen: every member with
  a positive shortfall, sorted by how much they owe.

MONTHS-OWING BASIS:
  The original application computed months owing as 12 minus the raw
  payment COUNT, while paid months elsewhere counted distinct MONTHS. The
  two disagree when a member pays twice in one month. Both readings are
  implemented behind MonthsOwingBasis; distinct months is the default, the
  payment-count reading is kept for compatibility until the product owner
  settles the intended semantics.
*/
package reconcile

import "sort"

// =============================================================================
// MONTHS-OWING BASIS
// =============================================================================

type MonthsOwingBasis int

const (
	// BasisDistinctMonths: months owing = 12 - distinct paid months.
	// Consistent with PaidMonths. Default.
	BasisDistinctMonths MonthsOwingBasis = iota

	// BasisPaymentCount: months owing = 12 - raw payment count, clamped at 0.
	// Matches the original application's figure.
	BasisPaymentCount
)

// =============================================================================
// OWING MEMBERS
// =============================================================================

// OwingMember pairs a member with their arrears position.
type OwingMember struct {
	Member      Member
	Summary     MemberSummary
	MonthsOwing int
}

// OwingMembers returns every member with Owing > 0, sorted descending by
// the owing amount (ties broken by name for a stable order). With no
// allocation for the year the result is empty.
func OwingMembers(members []Member, alloc *DuesAllocation, payments []Payment, year int, basis MonthsOwingBasis) []OwingMember {
	var out []OwingMember
	for _, m := range members {
		s := MemberPaymentSummary(m, year, alloc, payments)
		if !s.Owing.IsPositive() {
			continue
		}
		out = append(out, OwingMember{
			Member:      m,
			Summary:     s,
			MonthsOwing: monthsOwing(s, basis),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Summary.Owing, out[j].Summary.Owing
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].Member.FullName < out[j].Member.FullName
	})
	return out
}

func monthsOwing(s MemberSummary, basis MonthsOwingBasis) int {
	var paid int
	switch basis {
	case BasisPaymentCount:
		paid = s.PaymentCount
	default:
		paid = len(s.PaidMonths)
	}
	if paid >= monthsPerYear {
		return 0
	}
	return monthsPerYear - paid
}
