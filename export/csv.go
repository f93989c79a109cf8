/*
Package export renders yearly reports as downloadable documents.

PURPOSE:
  Takes the reconciliation engine's output and writes it as a CSV
  statement: a summary block, the year's income rows, its expense rows,
  and the members in arrears. The engine returns raw numbers; this is the
  one place the "GH₵" presentation convention is applied.

  PDF output is intentionally absent; the CSV statement carries the same
  content and opens in any spreadsheet.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/unionhall/dues-engine/reconcile"
)

// CurrencyPrefix is the fixed display currency for exported amounts.
const CurrencyPrefix = "GH₵"

// formatAmount renders a Money value with the currency prefix and two
// decimal places.
func formatAmount(m reconcile.Money) string {
	return CurrencyPrefix + " " + m.String()
}

// WriteCSV renders the full yearly statement for r to w.
func WriteCSV(w io.Writer, r reconcile.Report) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Yearly Financial Statement", strconv.Itoa(r.Year)},
		{},
		{"Summary"},
		{"Total members", strconv.Itoa(r.Overview.TotalMembers)},
		{"Executives", strconv.Itoa(r.Overview.Executives)},
		{"Regular members", strconv.Itoa(r.Overview.Regulars)},
		{"Total income", formatAmount(r.Overview.TotalIncome)},
		{"Dues collected", formatAmount(r.Overview.Dues)},
		{"Contributions", formatAmount(r.Overview.Contributions)},
		{"Other income", formatAmount(r.Overview.Others)},
		{"Total expenses", formatAmount(r.Export.TotalExpenses)},
		{"Net income", formatAmount(r.Export.Net)},
	}
	if r.Overview.HasBudget {
		rows = append(rows, []string{"Budget", formatAmount(r.Overview.Budget)})
	}
	rows = append(rows,
		[]string{"Members fully paid", strconv.Itoa(r.Export.MembersPaid)},
		[]string{"Members owing", strconv.Itoa(r.Export.MembersOwing)},
		[]string{"Collection rate", fmt.Sprintf("%.2f%%", r.Dues.OverallRate)},
	)
	if r.Overview.Skipped > 0 {
		rows = append(rows, []string{"Records excluded (bad dates)", strconv.Itoa(r.Overview.Skipped)})
	}

	rows = append(rows, nil, []string{"Income"}, []string{"Type", "Description", "Amount"})
	for _, e := range r.Export.Income {
		rows = append(rows, []string{string(e.Type), e.Description, formatAmount(e.Amount)})
	}

	rows = append(rows, nil, []string{"Expenses"}, []string{"Source", "Description", "Amount"})
	for _, e := range r.Export.Expenses {
		rows = append(rows, []string{string(e.Source), e.Description, formatAmount(e.Amount)})
	}

	rows = append(rows, nil, []string{"Members Owing"},
		[]string{"Member", "Expected", "Paid", "Owing", "Months owing"})
	for _, o := range r.Owing {
		rows = append(rows, []string{
			o.Member.FullName,
			formatAmount(o.Summary.Expected),
			formatAmount(o.Summary.Paid),
			formatAmount(o.Summary.Owing),
			strconv.Itoa(o.MonthsOwing),
		})
	}

	for _, row := range rows {
		if row == nil {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
