/*
snapshot.go - Shared snapshot cache and full-report assembly

PURPOSE:
  The original application had every screen independently subscribe to the
  same four collections, with no ordering guarantee between callbacks.
  This file replaces that with a single shared cache: each collection is
  replaced independently as fresh data arrives, and reports are computed
  on demand from whatever is currently cached. Partial state is fine —
  a missing collection reads as empty and yields zeroed figures.

CONCURRENCY:
  The cache is safe for concurrent use. Writers replace whole collections
  under the lock; readers get copies, so computations never observe a
  collection mid-replacement and no locking discipline leaks into the
  pure functions.
*/
package reconcile

import "sync"

// =============================================================================
// SNAPSHOT - Immutable view of the four input collections
// =============================================================================

// Snapshot is one consistent view of the engine's inputs.
type Snapshot struct {
	Members     []Member
	Allocations []DuesAllocation
	Payments    []Payment
	Finances    []FinanceEntry
}

// =============================================================================
// REPORT - All derived figures for one year
// =============================================================================

// Report bundles every derived figure for a year. It is what the
// presenter renders and what the exporter serializes.
type Report struct {
	Year     int
	Overview OverviewStats
	Dues     DuesStats
	Owing    []OwingMember
	Export   YearExport
}

// BuildReport computes all derived figures for a year from one snapshot.
// Pure; recomputed in full on every call.
func BuildReport(snap Snapshot, year int, basis MonthsOwingBasis) Report {
	alloc := AllocationForYear(snap.Allocations, year)
	return Report{
		Year:     year,
		Overview: Overview(snap.Members, snap.Finances, snap.Payments, year),
		Dues:     ComputeDuesStats(snap.Members, alloc, snap.Payments, year),
		Owing:    OwingMembers(snap.Members, alloc, snap.Payments, year, basis),
		Export:   Export(snap.Members, snap.Payments, snap.Finances, snap.Allocations, year),
	}
}

// =============================================================================
// CACHE - Independently-updatable collection holder
// =============================================================================

// Cache holds the latest snapshot of each collection. Collections arrive
// independently (there is no fixed update order); setters replace one
// collection at a time and readers compute from the current mix.
type Cache struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewCache() *Cache { return &Cache{} }

func (c *Cache) SetMembers(members []Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Members = append([]Member(nil), members...)
}

func (c *Cache) SetAllocations(allocs []DuesAllocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Allocations = append([]DuesAllocation(nil), allocs...)
}

func (c *Cache) SetPayments(payments []Payment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Payments = append([]Payment(nil), payments...)
}

func (c *Cache) SetFinances(finances []FinanceEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Finances = append([]FinanceEntry(nil), finances...)
}

// Snapshot returns a copy of the current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Members:     append([]Member(nil), c.snap.Members...),
		Allocations: append([]DuesAllocation(nil), c.snap.Allocations...),
		Payments:    append([]Payment(nil), c.snap.Payments...),
		Finances:    append([]FinanceEntry(nil), c.snap.Finances...),
	}
}

// Report computes the full report for a year from the cached state.
func (c *Cache) Report(year int, basis MonthsOwingBasis) Report {
	return BuildReport(c.Snapshot(), year, basis)
}
