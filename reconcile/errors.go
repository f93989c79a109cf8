/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The pure computations in this package never return errors for business
  data (absent allocation, empty ledgers, zero members all produce
  well-defined zeroed output); these errors belong to the storage and
  validation boundary.

SEE ALSO:
  - store.go: Storage interfaces returning these errors
  - types.go: Validate methods returning these errors
*/
package reconcile

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMemberNotFound is returned when a referenced member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrAllocationNotFound is returned when no allocation exists for the year.
	// The engine itself treats a missing allocation as a degenerate case, not
	// an error; only direct allocation lookups return this.
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrAllocationExists is returned when creating a second allocation for
	// the same year. One allocation per year.
	ErrAllocationExists = errors.New("allocation already exists for year")

	// ErrBudgetExists is returned when appending a second budget-type finance
	// entry for the same year.
	ErrBudgetExists = errors.New("budget entry already exists for year")

	// ErrInvalidMonth is returned when a payment month is outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrNonPositiveAmount is returned when a ledger record carries a zero or
	// negative amount where a positive one is required.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrDuplicateID is returned when appending a ledger record whose id
	// already exists. Ledgers are append-only; retries must not duplicate.
	ErrDuplicateID = errors.New("duplicate record id")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrAllocationExists) ||
		errors.Is(err, ErrBudgetExists) ||
		errors.Is(err, ErrDuplicateID)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrAllocationNotFound)
}
