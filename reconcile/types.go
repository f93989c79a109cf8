/*
Package reconcile provides the core dues reconciliation engine.

PURPOSE:
  This package contains the domain types and pure computations for
  reconciling a union's member dues obligations against recorded payments.
  Given a target year and snapshots of the member directory, the dues
  allocation table, the payment ledger, and the finance ledger, it produces
  per-member obligation/payment/owing figures and union-wide aggregates.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A decimal-backed monetary amount (the union's currency)
  - Member: A directory record with the executive/regular role flag
  - DuesAllocation: Year-keyed monthly amounts owed per role
  - Payment: An append-only dues ledger record (member, year, month, amount)
  - FinanceEntry: An append-only record of all other money movements

DESIGN PRINCIPLES:
  1. Purity: Every computation is a function of immutable snapshot inputs
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Totality: Absent data yields zeroed output, never an error
  4. Append-only: Ledger records are never updated or deleted

SEE ALSO:
  - summary.go: Per-member obligation/payment summary
  - overview.go: Union-wide income overview
  - stats.go: Dues collection statistics
  - owing.go: Members in arrears
  - export.go: Income/expense categorization for document export
*/
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal-backed monetary amount
// =============================================================================

// Money is an amount in the union's currency. The engine returns raw
// numbers; rendering with the "GH₵" prefix is the presenter's job.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func MoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney parses s, returning zero on malformed input.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{Value: d}
}

func (m Money) Add(b Money) Money           { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money           { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) MulInt(n int64) Money        { return Money{Value: m.Value.Mul(decimal.NewFromInt(n))} }
func (m Money) Neg() Money                  { return Money{Value: m.Value.Neg()} }
func (m Money) Abs() Money                  { return Money{Value: m.Value.Abs()} }
func (m Money) IsZero() bool                { return m.Value.IsZero() }
func (m Money) IsNegative() bool            { return m.Value.IsNegative() }
func (m Money) IsPositive() bool            { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool    { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool       { return m.Value.LessThan(b.Value) }
func (m Money) Equal(b Money) bool          { return m.Value.Equal(b.Value) }
func (m Money) GreaterOrEqual(b Money) bool { return !m.Value.LessThan(b.Value) }

// MaxZero clamps negative amounts to zero. Owing figures use this:
// overpayment is absorbed, never reported as negative owing.
func (m Money) MaxZero() Money {
	if m.IsNegative() {
		return Money{}
	}
	return m
}

func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

// String renders with two decimal places (no currency prefix).
func (m Money) String() string { return m.Value.StringFixed(2) }

// PercentOf returns m/total*100 as a float, or 0 when total is not positive.
func (m Money) PercentOf(total Money) float64 {
	if !total.IsPositive() {
		return 0
	}
	f, _ := m.Value.Div(total.Value).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MemberID string
type EntryID string

// =============================================================================
// MEMBER - Directory record
// =============================================================================

// Member is a union member. Members are never hard-deleted; ledger records
// may therefore reference members no longer in the directory snapshot.
type Member struct {
	ID        MemberID
	FullName  string
	Phone     string
	Address   string
	Executive bool
	JoinedAt  time.Time
	BirthDate *time.Time
	PhotoRef  string
	CreatedAt time.Time
}

// =============================================================================
// DUES ALLOCATION - Year-keyed monthly amounts per role
// =============================================================================

// DuesAllocation holds the monthly dues amounts for one year, split by
// role. At most one allocation exists per year.
type DuesAllocation struct {
	Year             int
	ExecutiveMonthly Money
	RegularMonthly   Money
	CreatedAt        time.Time
	CreatedBy        string
}

// MonthlyFor returns the monthly amount owed for the given role.
func (a DuesAllocation) MonthlyFor(executive bool) Money {
	if executive {
		return a.ExecutiveMonthly
	}
	return a.RegularMonthly
}

// AnnualFor returns the full-year obligation for the given role.
// Obligation ignores join date: there is no pro-rating for mid-year joiners.
func (a DuesAllocation) AnnualFor(executive bool) Money {
	return a.MonthlyFor(executive).MulInt(monthsPerYear)
}

const monthsPerYear = 12

// AllocationForYear finds the allocation for a year, nil if absent.
func AllocationForYear(allocs []DuesAllocation, year int) *DuesAllocation {
	for i := range allocs {
		if allocs[i].Year == year {
			return &allocs[i]
		}
	}
	return nil
}

// =============================================================================
// PAYMENT - Dues ledger record (append-only)
// =============================================================================

type PaymentKind string

const (
	KindDues       PaymentKind = "dues"       // Monthly dues payment
	KindWithdrawal PaymentKind = "withdrawal" // Money taken out of the dues account
)

// Payment is one dues ledger record. Multiple payments per member per month
// are possible; "months paid" derives from the set of distinct months, not
// the payment count.
type Payment struct {
	ID         EntryID
	MemberID   MemberID
	Year       int
	Month      time.Month // 1..12
	Amount     Money
	Kind       PaymentKind
	RecordedAt time.Time
	RecordedBy string
}

// Validate checks the record shape before it is appended to the ledger.
func (p Payment) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return ErrInvalidMonth
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// =============================================================================
// FINANCE ENTRY - All other money movements (append-only)
// =============================================================================

type EntryType string

const (
	EntryDues         EntryType = "dues"         // Dues mirrored into the finance ledger
	EntryContribution EntryType = "contribution" // Voluntary contribution
	EntryOther        EntryType = "other"        // Miscellaneous income/expense
	EntryBudget       EntryType = "budget"       // The year's budget figure
	EntryWithdrawal   EntryType = "withdrawal"   // Money withdrawn
)

// FinanceEntry records any non-dues-specific money movement. Amount is
// signed: positive = income, negative = expense.
type FinanceEntry struct {
	ID          EntryID
	Type        EntryType
	Amount      Money
	Year        int // Meaningful for budget/dues entries only
	Description string
	RecordedAt  time.Time
	RecordedBy  string
}

// BelongsTo resolves which year an entry belongs to. Budget and dues
// entries carry an explicit year; every other type derives it from the
// recorded timestamp. Entries whose timestamp is unusable report ok=false
// and are excluded from aggregates rather than aborting the computation.
func (e FinanceEntry) BelongsTo() (year int, ok bool) {
	switch e.Type {
	case EntryBudget, EntryDues:
		return e.Year, true
	default:
		if e.RecordedAt.IsZero() {
			return 0, false
		}
		return e.RecordedAt.Year(), true
	}
}
