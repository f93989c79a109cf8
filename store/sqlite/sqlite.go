/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements reconcile.Store (member directory, allocation table, dues
  ledger, finance ledger) on SQLite. The same patterns apply to PostgreSQL
  with minor dialect differences.

APPEND-ONLY ENFORCEMENT:
  The two ledger tables have no UPDATE or DELETE paths. Record ids are
  primary keys, so a retried append fails with ErrDuplicateID instead of
  duplicating. A partial unique index rejects a second budget entry for
  the same year.

KEY TABLES:
  members:         Directory records (insert-or-update; never deleted)
  allocations:     One row per year, write-once
  payments:        Append-only dues/withdrawal ledger
  finance_entries: Append-only finance ledger

AMOUNTS:
  Monetary amounts are stored as TEXT (decimal string), never floats.

TIMESTAMPS:
  Stored as RFC3339 TEXT. A row whose timestamp fails to parse is still
  returned, with a zero time: the engine's year-derivation rule then
  excludes it from aggregates instead of failing the whole load.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/union.db")
  if err != nil { ... }
  defer st.Close()
  snap, err := reconcile.LoadSnapshot(ctx, st)

SEE ALSO:
  - reconcile/store.go: Interface definitions
  - reconcile/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/unionhall/dues-engine/reconcile"
)

// Store implements reconcile.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Member directory (insert-or-update; never deleted)
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		executive INTEGER NOT NULL DEFAULT 0,
		joined_at TEXT NOT NULL,
		birth_date TEXT,
		photo_ref TEXT,
		created_at TEXT NOT NULL
	);

	-- Dues allocation table: one row per year, write-once
	CREATE TABLE IF NOT EXISTS allocations (
		year INTEGER PRIMARY KEY,
		executive_monthly TEXT NOT NULL,
		regular_monthly TEXT NOT NULL,
		created_at TEXT NOT NULL,
		created_by TEXT
	);

	-- Dues ledger (append-only)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		amount TEXT NOT NULL,
		kind TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		recorded_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payments_year
		ON payments(year);
	CREATE INDEX IF NOT EXISTS idx_payments_member_year
		ON payments(member_id, year);

	-- Finance ledger (append-only)
	CREATE TABLE IF NOT EXISTS finance_entries (
		id TEXT PRIMARY KEY,
		entry_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		recorded_at TEXT NOT NULL,
		recorded_by TEXT
	);

	-- One budget entry per year
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_budget_year
		ON finance_entries(year)
		WHERE entry_type = 'budget';

	CREATE INDEX IF NOT EXISTS idx_finance_entries_type
		ON finance_entries(entry_type);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMBER STORE
// =============================================================================

func (s *Store) SaveMember(ctx context.Context, m reconcile.Member) error {
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var birth any
	if m.BirthDate != nil {
		birth = m.BirthDate.Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, full_name, phone, address, executive, joined_at, birth_date, photo_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			phone = excluded.phone,
			address = excluded.address,
			executive = excluded.executive,
			joined_at = excluded.joined_at,
			birth_date = excluded.birth_date,
			photo_ref = excluded.photo_ref`,
		string(m.ID), m.FullName, m.Phone, m.Address, boolToInt(m.Executive),
		m.JoinedAt.Format(time.RFC3339), birth, m.PhotoRef, created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, id reconcile.MemberID) (*reconcile.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, phone, address, executive, joined_at, birth_date, photo_ref, created_at
		FROM members WHERE id = ?`, string(id))
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, reconcile.ErrMemberNotFound
	}
	m, err := scanMember(rows)
	if err != nil {
		return nil, err
	}
	return &m, rows.Err()
}

func (s *Store) ListMembers(ctx context.Context) ([]reconcile.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, phone, address, executive, joined_at, birth_date, photo_ref, created_at
		FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMember(rows *sql.Rows) (reconcile.Member, error) {
	var (
		m               reconcile.Member
		id              string
		phone, addr     sql.NullString
		executive       int
		joined, created string
		birth, photo    sql.NullString
	)
	if err := rows.Scan(&id, &m.FullName, &phone, &addr, &executive, &joined, &birth, &photo, &created); err != nil {
		return reconcile.Member{}, fmt.Errorf("scan member: %w", err)
	}
	m.ID = reconcile.MemberID(id)
	m.Phone = phone.String
	m.Address = addr.String
	m.Executive = executive != 0
	m.JoinedAt = parseTime(joined)
	m.CreatedAt = parseTime(created)
	m.PhotoRef = photo.String
	if birth.Valid {
		if t := parseTime(birth.String); !t.IsZero() {
			m.BirthDate = &t
		}
	}
	return m, nil
}

// =============================================================================
// ALLOCATION STORE
// =============================================================================

func (s *Store) PutAllocation(ctx context.Context, a reconcile.DuesAllocation) error {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allocations (year, executive_monthly, regular_monthly, created_at, created_by)
		VALUES (?, ?, ?, ?, ?)`,
		a.Year, a.ExecutiveMonthly.String(), a.RegularMonthly.String(),
		created.Format(time.RFC3339), a.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return reconcile.ErrAllocationExists
		}
		return fmt.Errorf("put allocation: %w", err)
	}
	return nil
}

func (s *Store) GetAllocation(ctx context.Context, year int) (*reconcile.DuesAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, executive_monthly, regular_monthly, created_at, created_by
		FROM allocations WHERE year = ?`, year)
	if err != nil {
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, reconcile.ErrAllocationNotFound
	}
	a, err := scanAllocation(rows)
	if err != nil {
		return nil, err
	}
	return &a, rows.Err()
}

func (s *Store) ListAllocations(ctx context.Context) ([]reconcile.DuesAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, executive_monthly, regular_monthly, created_at, created_by
		FROM allocations ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []reconcile.DuesAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAllocation(rows *sql.Rows) (reconcile.DuesAllocation, error) {
	var (
		a         reconcile.DuesAllocation
		exec, reg string
		created   string
		by        sql.NullString
	)
	if err := rows.Scan(&a.Year, &exec, &reg, &created, &by); err != nil {
		return reconcile.DuesAllocation{}, fmt.Errorf("scan allocation: %w", err)
	}
	a.ExecutiveMonthly = reconcile.MustParseMoney(exec)
	a.RegularMonthly = reconcile.MustParseMoney(reg)
	a.CreatedAt = parseTime(created)
	a.CreatedBy = by.String
	return a, nil
}

// =============================================================================
// DUES LEDGER (append-only)
// =============================================================================

func (s *Store) AppendPayment(ctx context.Context, p reconcile.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	recorded := p.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, member_id, year, month, amount, kind, recorded_at, recorded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.MemberID), p.Year, int(p.Month), p.Amount.String(),
		string(p.Kind), recorded.Format(time.RFC3339), p.RecordedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return reconcile.ErrDuplicateID
		}
		return fmt.Errorf("append payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context) ([]reconcile.Payment, error) {
	return s.queryPayments(ctx, `
		SELECT id, member_id, year, month, amount, kind, recorded_at, recorded_by
		FROM payments ORDER BY recorded_at, id`)
}

func (s *Store) ListPaymentsByYear(ctx context.Context, year int) ([]reconcile.Payment, error) {
	return s.queryPayments(ctx, `
		SELECT id, member_id, year, month, amount, kind, recorded_at, recorded_by
		FROM payments WHERE year = ? ORDER BY recorded_at, id`, year)
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]reconcile.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Payment
	for rows.Next() {
		var (
			p        reconcile.Payment
			id, mid  string
			month    int
			amount   string
			kind     string
			recorded string
			by       sql.NullString
		)
		if err := rows.Scan(&id, &mid, &p.Year, &month, &amount, &kind, &recorded, &by); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ID = reconcile.EntryID(id)
		p.MemberID = reconcile.MemberID(mid)
		p.Month = time.Month(month)
		p.Amount = reconcile.MustParseMoney(amount)
		p.Kind = reconcile.PaymentKind(kind)
		p.RecordedAt = parseTime(recorded)
		p.RecordedBy = by.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// FINANCE LEDGER (append-only)
// =============================================================================

func (s *Store) AppendEntry(ctx context.Context, e reconcile.FinanceEntry) error {
	recorded := e.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO finance_entries (id, entry_type, amount, year, description, recorded_at, recorded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.Type), e.Amount.String(), e.Year,
		e.Description, recorded.Format(time.RFC3339), e.RecordedBy)
	if err != nil {
		if isUniqueViolation(err) {
			// Distinguish the one-budget-per-year index from a duplicate id.
			if e.Type == reconcile.EntryBudget {
				if exists, checkErr := s.budgetExists(ctx, e.Year); checkErr == nil && exists {
					return reconcile.ErrBudgetExists
				}
			}
			return reconcile.ErrDuplicateID
		}
		return fmt.Errorf("append finance entry: %w", err)
	}
	return nil
}

func (s *Store) budgetExists(ctx context.Context, year int) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM finance_entries WHERE entry_type = 'budget' AND year = ?`,
		year).Scan(&n)
	return n > 0, err
}

func (s *Store) ListEntries(ctx context.Context) ([]reconcile.FinanceEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_type, amount, year, description, recorded_at, recorded_by
		FROM finance_entries ORDER BY recorded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list finance entries: %w", err)
	}
	defer rows.Close()

	var out []reconcile.FinanceEntry
	for rows.Next() {
		var (
			e        reconcile.FinanceEntry
			id, typ  string
			amount   string
			desc, by sql.NullString
			recorded string
		)
		if err := rows.Scan(&id, &typ, &amount, &e.Year, &desc, &recorded, &by); err != nil {
			return nil, fmt.Errorf("scan finance entry: %w", err)
		}
		e.ID = reconcile.EntryID(id)
		e.Type = reconcile.EntryType(typ)
		e.Amount = reconcile.MustParseMoney(amount)
		e.Description = desc.String
		e.RecordedAt = parseTime(recorded)
		e.RecordedBy = by.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// RESET (dev/demo only)
// =============================================================================

// Reset wipes every table. Exists for demo scenario loading; production data
// is append-only and never goes through here.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"payments", "finance_entries", "allocations", "members"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// parseTime parses an RFC3339 timestamp, returning the zero time on
// malformed input. The engine excludes zero-time records from aggregates
// instead of failing the load.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation matches sqlite's constraint error without depending on
// the driver's error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
