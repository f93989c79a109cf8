package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/unionhall/dues-engine/export"
	"github.com/unionhall/dues-engine/reconcile"
)

func TestWriteCSV_FullStatement(t *testing.T) {
	// GIVEN: A small chapter with income, an expense, and one owing member
	// WHEN: Rendering the yearly statement
	// THEN: The CSV parses, carries the currency prefix, and includes the
	//       summary, income, expense, and arrears sections

	snap := reconcile.Snapshot{
		Members: []reconcile.Member{
			{ID: "m1", FullName: "Ama Mensah"},
		},
		Allocations: []reconcile.DuesAllocation{
			{Year: 2024, RegularMonthly: reconcile.NewMoney(10)},
		},
		Payments: []reconcile.Payment{
			{MemberID: "m1", Year: 2024, Month: time.January,
				Amount: reconcile.NewMoney(10), Kind: reconcile.KindDues},
		},
		Finances: []reconcile.FinanceEntry{
			{Type: reconcile.EntryContribution, Amount: reconcile.NewMoney(200),
				Description: "homecoming levy",
				RecordedAt:  time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
			{Type: reconcile.EntryOther, Amount: reconcile.NewMoney(-80),
				Description: "venue hire",
				RecordedAt:  time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
	r := reconcile.BuildReport(snap, 2024, reconcile.BasisDistinctMonths)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Yearly Financial Statement",
		"GH₵ 210.00", // total income: 200 contribution + 10 dues
		"homecoming levy",
		"venue hire",
		"Ama Mensah",
		"Members Owing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("statement missing %q", want)
		}
	}

	// Must stay machine-readable.
	cr := csv.NewReader(strings.NewReader(out))
	cr.FieldsPerRecord = -1
	if _, err := cr.ReadAll(); err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	// GIVEN: A year with no data at all
	// WHEN: Rendering
	// THEN: A valid statement with zeroed figures, no error

	r := reconcile.BuildReport(reconcile.Snapshot{}, 2026, reconcile.BasisDistinctMonths)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "GH₵ 0.00") {
		t.Error("expected zeroed amounts in empty statement")
	}
}
