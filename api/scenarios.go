/*
scenarios.go - Demo scenario loading

PURPOSE:
  Ships a few canned chapters so the reconciliation reports can be
  demonstrated without hand-entering months of ledger data. Loading a
  scenario wipes the store first, so the endpoint only works against
  stores that opt in by implementing Resetter.

SCENARIOS:
  small-chapter:  A handful of members, most paid up, one in arrears
  arrears-heavy:  Collection has stalled mid-year across the board
  no-allocation:  Payments recorded before any allocation exists

SEE ALSO:
  - handlers.go: Error/JSON helpers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/unionhall/dues-engine/reconcile"
)

// Resetter is implemented by stores that support wiping all data. Scenario
// loading refuses to run against stores that don't.
type Resetter interface {
	Reset(ctx context.Context) error
}

// scenario pairs the catalog entry with its loader.
type scenario struct {
	ScenarioDTO
	load func(ctx context.Context, s reconcile.Store) error
}

var scenarios = []scenario{
	{
		ScenarioDTO{
			ID:          "small-chapter",
			Name:        "Small chapter",
			Description: "Six members, 2025 allocation set, most dues collected, one member behind",
		},
		loadSmallChapter,
	},
	{
		ScenarioDTO{
			ID:          "arrears-heavy",
			Name:        "Arrears heavy",
			Description: "Collection stalled after March; nearly everyone owes",
		},
		loadArrearsHeavy,
	},
	{
		ScenarioDTO{
			ID:          "no-allocation",
			Name:        "No allocation",
			Description: "Payments on record but no allocation for the year",
		},
		loadNoAllocation,
	},
}

// ListScenarios returns the scenario catalog.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, sc := range scenarios {
		out[i] = sc.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadScenario wipes the store and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	resetter, ok := h.Store.(Resetter)
	if !ok {
		writeError(w, http.StatusConflict, "Store does not support scenario loading", nil)
		return
	}

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var selected *scenario
	for i := range scenarios {
		if scenarios[i].ID == req.ScenarioID {
			selected = &scenarios[i]
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}

	if err := resetter.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := selected.load(r.Context(), h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = selected.ID
	writeJSON(w, http.StatusOK, selected.ScenarioDTO)
}

// =============================================================================
// SCENARIO DATA
// =============================================================================

func loadSmallChapter(ctx context.Context, s reconcile.Store) error {
	year := 2025
	members := []reconcile.Member{
		demoMember("Ama Mensah", true),
		demoMember("Kofi Boateng", true),
		demoMember("Efua Asante", false),
		demoMember("Yaw Owusu", false),
		demoMember("Akosua Darko", false),
		demoMember("Kwame Addo", false),
	}
	for _, m := range members {
		if err := s.SaveMember(ctx, m); err != nil {
			return err
		}
	}
	if err := s.PutAllocation(ctx, reconcile.DuesAllocation{
		Year:             year,
		ExecutiveMonthly: reconcile.NewMoney(20),
		RegularMonthly:   reconcile.NewMoney(10),
		CreatedBy:        "demo",
	}); err != nil {
		return err
	}

	// Executives paid through June, regulars through May, the last member
	// only January.
	for i, m := range members {
		months := 6
		switch {
		case i == len(members)-1:
			months = 1
		case !m.Executive:
			months = 5
		}
		amount := reconcile.NewMoney(10)
		if m.Executive {
			amount = reconcile.NewMoney(20)
		}
		if err := demoPayments(ctx, s, m.ID, year, months, amount); err != nil {
			return err
		}
	}

	if err := s.AppendEntry(ctx, reconcile.FinanceEntry{
		ID:     reconcile.EntryID(uuid.NewString()),
		Type:   reconcile.EntryBudget,
		Amount: reconcile.NewMoney(1500),
		Year:   year,
	}); err != nil {
		return err
	}
	return s.AppendEntry(ctx, reconcile.FinanceEntry{
		ID:          reconcile.EntryID(uuid.NewString()),
		Type:        reconcile.EntryContribution,
		Amount:      reconcile.NewMoney(350),
		Description: "homecoming levy",
		RecordedAt:  time.Date(year, time.April, 12, 0, 0, 0, 0, time.UTC),
	})
}

func loadArrearsHeavy(ctx context.Context, s reconcile.Store) error {
	year := 2025
	names := []string{"Adjoa Kumi", "Kojo Appiah", "Abena Sarpong", "Fiifi Tetteh",
		"Esi Quartey", "Nana Gyasi", "Kweku Antwi", "Araba Danso"}
	for i, name := range names {
		m := demoMember(name, i < 2)
		if err := s.SaveMember(ctx, m); err != nil {
			return err
		}
		amount := reconcile.NewMoney(15)
		if m.Executive {
			amount = reconcile.NewMoney(25)
		}
		// Everyone stopped after March; two members never paid at all.
		months := 3
		if i >= len(names)-2 {
			months = 0
		}
		if err := demoPayments(ctx, s, m.ID, year, months, amount); err != nil {
			return err
		}
	}
	return s.PutAllocation(ctx, reconcile.DuesAllocation{
		Year:             year,
		ExecutiveMonthly: reconcile.NewMoney(25),
		RegularMonthly:   reconcile.NewMoney(15),
		CreatedBy:        "demo",
	})
}

func loadNoAllocation(ctx context.Context, s reconcile.Store) error {
	year := 2025
	m := demoMember("Maame Serwaa", false)
	if err := s.SaveMember(ctx, m); err != nil {
		return err
	}
	return demoPayments(ctx, s, m.ID, year, 4, reconcile.NewMoney(10))
}

func demoMember(name string, executive bool) reconcile.Member {
	return reconcile.Member{
		ID:        reconcile.MemberID(uuid.NewString()),
		FullName:  name,
		Executive: executive,
		JoinedAt:  time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func demoPayments(ctx context.Context, s reconcile.Store, id reconcile.MemberID, year, months int, amount reconcile.Money) error {
	for m := 1; m <= months; m++ {
		p := reconcile.Payment{
			ID:         reconcile.EntryID(uuid.NewString()),
			MemberID:   id,
			Year:       year,
			Month:      time.Month(m),
			Amount:     amount,
			Kind:       reconcile.KindDues,
			RecordedAt: time.Date(year, time.Month(m), 28, 0, 0, 0, 0, time.UTC),
			RecordedBy: "demo",
		}
		if err := s.AppendPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
