/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Monetary amounts cross the wire as plain numbers (two-decimal values in
  the union's currency). The engine computes on decimals internally;
  conversion happens only at this boundary.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// MemberDTO represents a member in API responses.
type MemberDTO struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Executive bool   `json:"executive"`
	JoinedAt  string `json:"joined_at"`
	BirthDate string `json:"birth_date,omitempty"`
	PhotoRef  string `json:"photo_ref,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SaveMemberRequest creates or updates a member.
type SaveMemberRequest struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Executive bool   `json:"executive"`
	JoinedAt  string `json:"joined_at"`  // ISO date
	BirthDate string `json:"birth_date"` // ISO date, optional
	PhotoRef  string `json:"photo_ref"`
}

// AllocationDTO represents one year's dues allocation.
type AllocationDTO struct {
	Year             int     `json:"year"`
	ExecutiveMonthly float64 `json:"executive_monthly"`
	RegularMonthly   float64 `json:"regular_monthly"`
	CreatedAt        string  `json:"created_at,omitempty"`
	CreatedBy        string  `json:"created_by,omitempty"`
}

// CreateAllocationRequest creates a year's allocation.
type CreateAllocationRequest struct {
	Year             int     `json:"year"`
	ExecutiveMonthly float64 `json:"executive_monthly"`
	RegularMonthly   float64 `json:"regular_monthly"`
	CreatedBy        string  `json:"created_by"`
}

// PaymentDTO represents a dues ledger record.
type PaymentDTO struct {
	ID         string  `json:"id"`
	MemberID   string  `json:"member_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"kind"`
	RecordedAt string  `json:"recorded_at"`
	RecordedBy string  `json:"recorded_by,omitempty"`
}

// CreatePaymentRequest appends a dues payment or withdrawal.
type CreatePaymentRequest struct {
	MemberID   string  `json:"member_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"kind"` // "dues" (default) or "withdrawal"
	RecordedBy string  `json:"recorded_by"`
}

// FinanceEntryDTO represents a finance ledger record.
type FinanceEntryDTO struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Year        int     `json:"year,omitempty"`
	Description string  `json:"description,omitempty"`
	RecordedAt  string  `json:"recorded_at"`
	RecordedBy  string  `json:"recorded_by,omitempty"`
}

// CreateFinanceEntryRequest appends a finance ledger record.
type CreateFinanceEntryRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	RecordedBy  string  `json:"recorded_by"`
}

// MemberSummaryDTO is one member's reconciled position for a year.
type MemberSummaryDTO struct {
	MemberID   string  `json:"member_id"`
	Year       int     `json:"year"`
	Expected   float64 `json:"expected"`
	Paid       float64 `json:"paid"`
	Owing      float64 `json:"owing"`
	Rate       float64 `json:"rate"`
	PaidMonths []int   `json:"paid_months"`
	FullyPaid  bool    `json:"fully_paid"`

	// NoAllocation flags the degenerate all-zero case so the client can
	// show "no allocation found" instead of a zero balance.
	NoAllocation bool `json:"no_allocation,omitempty"`
}

// OverviewDTO is the union-wide overview for a year.
type OverviewDTO struct {
	Year          int     `json:"year"`
	TotalMembers  int     `json:"total_members"`
	Executives    int     `json:"executives"`
	Regulars      int     `json:"regulars"`
	TotalIncome   float64 `json:"total_income"`
	Dues          float64 `json:"dues"`
	Contributions float64 `json:"contributions"`
	Others        float64 `json:"others"`
	Budget        float64 `json:"budget"`
	HasBudget     bool    `json:"has_budget"`
	Skipped       int     `json:"skipped_records,omitempty"`
}

// DuesStatsDTO is the collection position for a year.
type DuesStatsDTO struct {
	Year           int     `json:"year"`
	ExecutivesPaid int     `json:"executives_paid"`
	RegularsPaid   int     `json:"regulars_paid"`
	TotalExpected  float64 `json:"total_expected"`
	TotalPaid      float64 `json:"total_paid"`
	TotalOwing     float64 `json:"total_owing"`
	OverallRate    float64 `json:"overall_rate"`
}

// OwingMemberDTO is one arrears row.
type OwingMemberDTO struct {
	Member      MemberDTO        `json:"member"`
	Summary     MemberSummaryDTO `json:"summary"`
	MonthsOwing int              `json:"months_owing"`
}

// ExpenseLineDTO is one expense row of the yearly statement.
type ExpenseLineDTO struct {
	Source      string  `json:"source"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// ExportDTO is the yearly statement in JSON form.
type ExportDTO struct {
	Year          int               `json:"year"`
	Income        []FinanceEntryDTO `json:"income"`
	Expenses      []ExpenseLineDTO  `json:"expenses"`
	TotalIncome   float64           `json:"total_income"`
	TotalExpenses float64           `json:"total_expenses"`
	Net           float64           `json:"net"`
	MembersPaid   int               `json:"members_paid"`
	MembersOwing  int               `json:"members_owing"`
	Skipped       int               `json:"skipped_records,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toMemberDTO(m reconcile.Member) MemberDTO {
	dto := MemberDTO{
		ID:        string(m.ID),
		FullName:  m.FullName,
		Phone:     m.Phone,
		Address:   m.Address,
		Executive: m.Executive,
		JoinedAt:  m.JoinedAt.Format("2006-01-02"),
		PhotoRef:  m.PhotoRef,
	}
	if m.BirthDate != nil {
		dto.BirthDate = m.BirthDate.Format("2006-01-02")
	}
	if !m.CreatedAt.IsZero() {
		dto.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toMemberDTOs(members []reconcile.Member) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toMemberDTO(m)
	}
	return dtos
}

func toAllocationDTO(a reconcile.DuesAllocation) AllocationDTO {
	dto := AllocationDTO{
		Year:             a.Year,
		ExecutiveMonthly: a.ExecutiveMonthly.Float64(),
		RegularMonthly:   a.RegularMonthly.Float64(),
		CreatedBy:        a.CreatedBy,
	}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPaymentDTO(p reconcile.Payment) PaymentDTO {
	return PaymentDTO{
		ID:         string(p.ID),
		MemberID:   string(p.MemberID),
		Year:       p.Year,
		Month:      int(p.Month),
		Amount:     p.Amount.Float64(),
		Kind:       string(p.Kind),
		RecordedAt: p.RecordedAt.Format(time.RFC3339),
		RecordedBy: p.RecordedBy,
	}
}

func toFinanceEntryDTO(e reconcile.FinanceEntry) FinanceEntryDTO {
	return FinanceEntryDTO{
		ID:          string(e.ID),
		Type:        string(e.Type),
		Amount:      e.Amount.Float64(),
		Year:        e.Year,
		Description: e.Description,
		RecordedAt:  e.RecordedAt.Format(time.RFC3339),
		RecordedBy:  e.RecordedBy,
	}
}

func toSummaryDTO(s reconcile.MemberSummary, noAllocation bool) MemberSummaryDTO {
	months := make([]int, len(s.PaidMonths))
	for i, m := range s.PaidMonths {
		months[i] = int(m)
	}
	return MemberSummaryDTO{
		MemberID:     string(s.MemberID),
		Year:         s.Year,
		Expected:     s.Expected.Float64(),
		Paid:         s.Paid.Float64(),
		Owing:        s.Owing.Float64(),
		Rate:         s.Rate,
		PaidMonths:   months,
		FullyPaid:    s.FullyPaid(),
		NoAllocation: noAllocation,
	}
}

func toOverviewDTO(o reconcile.OverviewStats) OverviewDTO {
	return OverviewDTO{
		Year:          o.Year,
		TotalMembers:  o.TotalMembers,
		Executives:    o.Executives,
		Regulars:      o.Regulars,
		TotalIncome:   o.TotalIncome.Float64(),
		Dues:          o.Dues.Float64(),
		Contributions: o.Contributions.Float64(),
		Others:        o.Others.Float64(),
		Budget:        o.Budget.Float64(),
		HasBudget:     o.HasBudget,
		Skipped:       o.Skipped,
	}
}

func toDuesStatsDTO(st reconcile.DuesStats) DuesStatsDTO {
	return DuesStatsDTO{
		Year:           st.Year,
		ExecutivesPaid: st.ExecutivesPaid,
		RegularsPaid:   st.RegularsPaid,
		TotalExpected:  st.TotalExpected.Float64(),
		TotalPaid:      st.TotalPaid.Float64(),
		TotalOwing:     st.TotalOwing.Float64(),
		OverallRate:    st.OverallRate,
	}
}

func toOwingDTOs(owing []reconcile.OwingMember, noAllocation bool) []OwingMemberDTO {
	dtos := make([]OwingMemberDTO, len(owing))
	for i, o := range owing {
		dtos[i] = OwingMemberDTO{
			Member:      toMemberDTO(o.Member),
			Summary:     toSummaryDTO(o.Summary, noAllocation),
			MonthsOwing: o.MonthsOwing,
		}
	}
	return dtos
}

func toExportDTO(ex reconcile.YearExport) ExportDTO {
	dto := ExportDTO{
		Year:          ex.Year,
		TotalIncome:   ex.TotalIncome.Float64(),
		TotalExpenses: ex.TotalExpenses.Float64(),
		Net:           ex.Net.Float64(),
		MembersPaid:   ex.MembersPaid,
		MembersOwing:  ex.MembersOwing,
		Skipped:       ex.Skipped,
	}
	for _, e := range ex.Income {
		dto.Income = append(dto.Income, toFinanceEntryDTO(e))
	}
	for _, e := range ex.Expenses {
		dto.Expenses = append(dto.Expenses, ExpenseLineDTO{
			Source:      string(e.Source),
			Description: e.Description,
			Amount:      e.Amount.Float64(),
		})
	}
	return dto
}
