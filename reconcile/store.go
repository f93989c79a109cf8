/*
store.go - Persistence interfaces for the four collections

PURPOSE:
  Defines the interface between the engine and the database. The two
  ledgers (dues payments, finance entries) are APPEND-ONLY: no Update, no
  Delete. The member directory allows profile edits; the allocation table
  is write-once per year.

WHY APPEND-ONLY LEDGERS?
  - Audit trail: every figure on a report is traceable to records
  - Correctness: aggregates are recomputed from the full ledger, so there
    is no cached total that can drift out of sync

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - reconcile/store: In-memory for tests/dev

SEE ALSO:
  - snapshot.go: How loaded collections feed the pure computations
*/
package reconcile

import "context"

// =============================================================================
// STORE INTERFACES
// =============================================================================

// MemberStore persists the member directory. Members are never deleted;
// SaveMember inserts or updates (profile edits).
type MemberStore interface {
	SaveMember(ctx context.Context, m Member) error
	GetMember(ctx context.Context, id MemberID) (*Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
}

// AllocationStore persists the dues allocation table. One allocation per
// year; PutAllocation returns ErrAllocationExists on a duplicate year.
// Allocations are immutable once created.
type AllocationStore interface {
	PutAllocation(ctx context.Context, a DuesAllocation) error
	GetAllocation(ctx context.Context, year int) (*DuesAllocation, error)
	ListAllocations(ctx context.Context) ([]DuesAllocation, error)
}

// DuesLedger persists dues payments and withdrawals. Append-only.
type DuesLedger interface {
	// AppendPayment adds one record. Returns ErrDuplicateID if the id exists.
	AppendPayment(ctx context.Context, p Payment) error

	// ListPayments returns the full ledger ordered by recording time.
	ListPayments(ctx context.Context) ([]Payment, error)

	// ListPaymentsByYear returns the ledger filtered to one year.
	ListPaymentsByYear(ctx context.Context, year int) ([]Payment, error)
}

// FinanceLedger persists all other money movements. Append-only.
// A second budget-type entry for a year is rejected with ErrBudgetExists.
type FinanceLedger interface {
	AppendEntry(ctx context.Context, e FinanceEntry) error
	ListEntries(ctx context.Context) ([]FinanceEntry, error)
}

// Store bundles all four collections behind one handle.
type Store interface {
	MemberStore
	AllocationStore
	DuesLedger
	FinanceLedger
}

// LoadSnapshot reads all four collections into one snapshot. Used at the
// report boundary; each collection load is independent, matching the
// cache's tolerance for partially-arrived state.
func LoadSnapshot(ctx context.Context, s Store) (Snapshot, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	allocs, err := s.ListAllocations(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	payments, err := s.ListPayments(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	finances, err := s.ListEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Members:     members,
		Allocations: allocs,
		Payments:    payments,
		Finances:    finances,
	}, nil
}
