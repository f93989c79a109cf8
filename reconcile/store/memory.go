// Package store provides in-memory Store implementations for tests and dev.
package store

import (
	"context"
	"sync"

	"github.com/unionhall/dues-engine/reconcile"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	members     map[reconcile.MemberID]reconcile.Member
	memberOrder []reconcile.MemberID
	allocations map[int]reconcile.DuesAllocation
	payments    []reconcile.Payment
	finances    []reconcile.FinanceEntry
	paymentIDs  map[reconcile.EntryID]bool
	financeIDs  map[reconcile.EntryID]bool
	budgets     map[int]bool
}

func NewMemory() *Memory {
	return &Memory{
		members:     make(map[reconcile.MemberID]reconcile.Member),
		allocations: make(map[int]reconcile.DuesAllocation),
		paymentIDs:  make(map[reconcile.EntryID]bool),
		financeIDs:  make(map[reconcile.EntryID]bool),
		budgets:     make(map[int]bool),
	}
}

// -----------------------------------------------------------------------------
// MemberStore
// -----------------------------------------------------------------------------

func (m *Memory) SaveMember(_ context.Context, mem reconcile.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.members[mem.ID]; !exists {
		m.memberOrder = append(m.memberOrder, mem.ID)
	}
	m.members[mem.ID] = mem
	return nil
}

func (m *Memory) GetMember(_ context.Context, id reconcile.MemberID) (*reconcile.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.members[id]
	if !ok {
		return nil, reconcile.ErrMemberNotFound
	}
	return &mem, nil
}

func (m *Memory) ListMembers(_ context.Context) ([]reconcile.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reconcile.Member, 0, len(m.memberOrder))
	for _, id := range m.memberOrder {
		out = append(out, m.members[id])
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// AllocationStore
// -----------------------------------------------------------------------------

func (m *Memory) PutAllocation(_ context.Context, a reconcile.DuesAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.allocations[a.Year]; exists {
		return reconcile.ErrAllocationExists
	}
	m.allocations[a.Year] = a
	return nil
}

func (m *Memory) GetAllocation(_ context.Context, year int) (*reconcile.DuesAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.allocations[year]
	if !ok {
		return nil, reconcile.ErrAllocationNotFound
	}
	return &a, nil
}

func (m *Memory) ListAllocations(_ context.Context) ([]reconcile.DuesAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reconcile.DuesAllocation, 0, len(m.allocations))
	for _, a := range m.allocations {
		out = append(out, a)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// DuesLedger (append-only)
// -----------------------------------------------------------------------------

func (m *Memory) AppendPayment(_ context.Context, p reconcile.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID != "" && m.paymentIDs[p.ID] {
		return reconcile.ErrDuplicateID
	}
	m.payments = append(m.payments, p)
	if p.ID != "" {
		m.paymentIDs[p.ID] = true
	}
	return nil
}

func (m *Memory) ListPayments(_ context.Context) ([]reconcile.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reconcile.Payment, len(m.payments))
	copy(out, m.payments)
	return out, nil
}

func (m *Memory) ListPaymentsByYear(_ context.Context, year int) ([]reconcile.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []reconcile.Payment
	for _, p := range m.payments {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// FinanceLedger (append-only)
// -----------------------------------------------------------------------------

func (m *Memory) AppendEntry(_ context.Context, e reconcile.FinanceEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID != "" && m.financeIDs[e.ID] {
		return reconcile.ErrDuplicateID
	}
	if e.Type == reconcile.EntryBudget {
		if m.budgets[e.Year] {
			return reconcile.ErrBudgetExists
		}
		m.budgets[e.Year] = true
	}
	m.finances = append(m.finances, e)
	if e.ID != "" {
		m.financeIDs[e.ID] = true
	}
	return nil
}

func (m *Memory) ListEntries(_ context.Context) ([]reconcile.FinanceEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reconcile.FinanceEntry, len(m.finances))
	copy(out, m.finances)
	return out, nil
}

// -----------------------------------------------------------------------------
// Reset (dev/demo only)
// -----------------------------------------------------------------------------

// Reset discards everything. Exists for demo scenario loading; production
// data is append-only and never goes through here.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = make(map[reconcile.MemberID]reconcile.Member)
	m.memberOrder = nil
	m.allocations = make(map[int]reconcile.DuesAllocation)
	m.payments = nil
	m.finances = nil
	m.paymentIDs = make(map[reconcile.EntryID]bool)
	m.financeIDs = make(map[reconcile.EntryID]bool)
	m.budgets = make(map[int]bool)
	return nil
}
