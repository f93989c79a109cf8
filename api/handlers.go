/*
handlers.go - HTTP API handlers for the dues reconciliation service

PURPOSE:
  Exposes the member directory, allocation table, the two ledgers, and the
  reconciliation reports over REST. Handles HTTP request/response and JSON
  serialization; all figures come from the pure functions in reconcile.

ENDPOINTS:
  Members:
    GET    /api/members                  List (optional ?q= fuzzy search)
    POST   /api/members                  Create
    GET    /api/members/{id}             Get
    PUT    /api/members/{id}             Profile edit
    GET    /api/members/{id}/summary     Dues position (?year=YYYY)

  Allocations:
    GET    /api/allocations              List
    POST   /api/allocations              Create (409 if year exists)
    GET    /api/allocations/{year}       Get

  Ledgers:
    GET/POST /api/payments               Dues ledger (append-only)
    GET/POST /api/finances               Finance ledger (append-only)

  Reports:
    GET    /api/reports/{year}/overview
    GET    /api/reports/{year}/dues      (?months_owing_basis=months|payments)
    GET    /api/reports/{year}/owing
    GET    /api/reports/{year}/export    (?format=json|csv)

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load one (dev only, resets data)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (duplicate year/budget/id)
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The auth/session provider is an external collaborator;
  deploy behind it.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unionhall/dues-engine/export"
	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store reconcile.Store

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store reconcile.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// MEMBER HANDLERS
// =============================================================================

// ListMembers returns all members, optionally ranked by a fuzzy name query.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members", err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		members = rankMembers(members, q)
	}

	writeJSON(w, http.StatusOK, toMemberDTOs(members))
}

// SaveMember creates a member (POST /api/members).
func (h *Handler) SaveMember(w http.ResponseWriter, r *http.Request) {
	var req SaveMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.saveMember(w, r, req)
}

// UpdateMember edits a member's profile (PUT /api/members/{id}).
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetMember(r.Context(), reconcile.MemberID(id)); err != nil {
		writeStoreError(w, "Failed to update member", err)
		return
	}

	var req SaveMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id
	h.saveMember(w, r, req)
}

func (h *Handler) saveMember(w http.ResponseWriter, r *http.Request, req SaveMemberRequest) {
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "full_name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	joined, err := parseDate(req.JoinedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid joined_at date", err)
		return
	}

	m := reconcile.Member{
		ID:        reconcile.MemberID(req.ID),
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		Executive: req.Executive,
		JoinedAt:  joined,
		PhotoRef:  req.PhotoRef,
	}
	if req.BirthDate != "" {
		birth, err := parseDate(req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid birth_date date", err)
			return
		}
		m.BirthDate = &birth
	}

	if err := h.Store.SaveMember(r.Context(), m); err != nil {
		writeStoreError(w, "Failed to save member", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(m))
}

// GetMember returns a single member.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.Store.GetMember(r.Context(), reconcile.MemberID(id))
	if err != nil {
		writeStoreError(w, "Failed to get member", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(*m))
}

// GetMemberSummary returns a member's reconciled dues position for a year.
func (h *Handler) GetMemberSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	year, err := queryYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	m, err := h.Store.GetMember(r.Context(), reconcile.MemberID(id))
	if err != nil {
		writeStoreError(w, "Failed to get member", err)
		return
	}

	alloc, err := h.allocationOrNil(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load allocation", err)
		return
	}
	payments, err := h.Store.ListPaymentsByYear(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	s := reconcile.MemberPaymentSummary(*m, year, alloc, payments)
	writeJSON(w, http.StatusOK, toSummaryDTO(s, alloc == nil))
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// ListAllocations returns the full allocation table.
func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.Store.ListAllocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list allocations", err)
		return
	}
	dtos := make([]AllocationDTO, len(allocs))
	for i, a := range allocs {
		dtos[i] = toAllocationDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAllocation creates one year's allocation. One per year.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}
	if req.ExecutiveMonthly < 0 || req.RegularMonthly < 0 {
		writeError(w, http.StatusBadRequest, "monthly amounts must not be negative", nil)
		return
	}

	a := reconcile.DuesAllocation{
		Year:             req.Year,
		ExecutiveMonthly: reconcile.NewMoney(req.ExecutiveMonthly),
		RegularMonthly:   reconcile.NewMoney(req.RegularMonthly),
		CreatedBy:        req.CreatedBy,
	}
	if err := h.Store.PutAllocation(r.Context(), a); err != nil {
		writeStoreError(w, "Failed to create allocation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAllocationDTO(a))
}

// GetAllocation returns the allocation for one year.
func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	a, err := h.Store.GetAllocation(r.Context(), year)
	if err != nil {
		writeStoreError(w, "Failed to get allocation", err)
		return
	}
	writeJSON(w, http.StatusOK, toAllocationDTO(*a))
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// CreatePayment appends a record to the dues ledger.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := reconcile.PaymentKind(req.Kind)
	if kind == "" {
		kind = reconcile.KindDues
	}
	if kind != reconcile.KindDues && kind != reconcile.KindWithdrawal {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown payment kind %q", req.Kind), nil)
		return
	}

	p := reconcile.Payment{
		ID:         reconcile.EntryID(uuid.NewString()),
		MemberID:   reconcile.MemberID(req.MemberID),
		Year:       req.Year,
		Month:      time.Month(req.Month),
		Amount:     reconcile.NewMoney(req.Amount),
		Kind:       kind,
		RecordedAt: time.Now().UTC(),
		RecordedBy: req.RecordedBy,
	}
	if err := h.Store.AppendPayment(r.Context(), p); err != nil {
		writeStoreError(w, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// ListPayments returns the dues ledger, optionally filtered.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	var (
		payments []reconcile.Payment
		err      error
	)
	if ys := r.URL.Query().Get("year"); ys != "" {
		year, convErr := strconv.Atoi(ys)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", convErr)
			return
		}
		payments, err = h.Store.ListPaymentsByYear(r.Context(), year)
	} else {
		payments, err = h.Store.ListPayments(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	if member := r.URL.Query().Get("member"); member != "" {
		filtered := payments[:0]
		for _, p := range payments {
			if p.MemberID == reconcile.MemberID(member) {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateFinanceEntry appends a record to the finance ledger.
func (h *Handler) CreateFinanceEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateFinanceEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	typ := reconcile.EntryType(req.Type)
	switch typ {
	case reconcile.EntryDues, reconcile.EntryContribution, reconcile.EntryOther,
		reconcile.EntryBudget, reconcile.EntryWithdrawal:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown entry type %q", req.Type), nil)
		return
	}

	e := reconcile.FinanceEntry{
		ID:          reconcile.EntryID(uuid.NewString()),
		Type:        typ,
		Amount:      reconcile.NewMoney(req.Amount),
		Year:        req.Year,
		Description: req.Description,
		RecordedAt:  time.Now().UTC(),
		RecordedBy:  req.RecordedBy,
	}
	if err := h.Store.AppendEntry(r.Context(), e); err != nil {
		writeStoreError(w, "Failed to record finance entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toFinanceEntryDTO(e))
}

// ListFinanceEntries returns the finance ledger, optionally filtered by year
// (using the same dual-path year derivation as the reports).
func (h *Handler) ListFinanceEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list finance entries", err)
		return
	}

	if ys := r.URL.Query().Get("year"); ys != "" {
		year, convErr := strconv.Atoi(ys)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", convErr)
			return
		}
		filtered := entries[:0]
		for _, e := range entries {
			if y, ok := e.BelongsTo(); ok && y == year {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	dtos := make([]FinanceEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toFinanceEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetOverview returns the union-wide overview for a year.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOverviewDTO(report.Overview))
}

// GetDuesStats returns collection statistics for a year.
func (h *Handler) GetDuesStats(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDuesStatsDTO(report.Dues))
}

// GetOwingMembers returns the arrears list for a year.
func (h *Handler) GetOwingMembers(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	noAlloc := report.Dues.TotalExpected.IsZero() && len(report.Owing) == 0
	writeJSON(w, http.StatusOK, toOwingDTOs(report.Owing, noAlloc))
}

// ExportReport returns the yearly statement as JSON or CSV.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildReport(w, r)
	if !ok {
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, toExportDTO(report.Export))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="union-statement-%d.csv"`, report.Year))
		if err := export.WriteCSV(w, report); err != nil {
			// Headers are already out; best we can do is log.
			log.Printf("csv export failed: %v", err)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown format %q", format), nil)
	}
}

// buildReport loads a snapshot and computes the full report for the year in
// the URL. Writes the error response itself when something fails.
func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (reconcile.Report, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return reconcile.Report{}, false
	}

	snap, err := reconcile.LoadSnapshot(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return reconcile.Report{}, false
	}

	report := reconcile.BuildReport(snap, year, monthsOwingBasis(r))
	if report.Overview.Skipped > 0 {
		log.Printf("report %d: %d finance entries excluded (unusable timestamps)",
			year, report.Overview.Skipped)
	}
	return report, true
}

// monthsOwingBasis reads the optional query override. Distinct months is the
// default; "payments" selects the legacy raw-count reading.
func monthsOwingBasis(r *http.Request) reconcile.MonthsOwingBasis {
	if r.URL.Query().Get("months_owing_basis") == "payments" {
		return reconcile.BasisPaymentCount
	}
	return reconcile.BasisDistinctMonths
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) allocationOrNil(ctx context.Context, year int) (*reconcile.DuesAllocation, error) {
	a, err := h.Store.GetAllocation(ctx, year)
	if errors.Is(err, reconcile.ErrAllocationNotFound) {
		return nil, nil // degenerate case, not an error
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func queryYear(r *http.Request) (int, error) {
	ys := r.URL.Query().Get("year")
	if ys == "" {
		return time.Now().UTC().Year(), nil
	}
	return strconv.Atoi(ys)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Error = fmt.Sprintf("%s: %v", msg, err)
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, msg string, err error) {
	switch {
	case reconcile.IsNotFound(err):
		writeError(w, http.StatusNotFound, msg, err)
	case errors.Is(err, reconcile.ErrAllocationExists),
		errors.Is(err, reconcile.ErrBudgetExists),
		errors.Is(err, reconcile.ErrDuplicateID):
		writeError(w, http.StatusConflict, msg, err)
	case reconcile.IsClientError(err):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}
