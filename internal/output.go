package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// JSONReport is the root JSON output object
type JSONReport struct {
	Assets      []JSONItem  `json:"assets"`
	Liabilities []JSONItem  `json:"liabilities"`
	Expenses    []JSONItem  `json:"expenses"`
	Summary     JSONSummary `json:"summary"`
}

// JSONItem is one record of a category
type JSONItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Class       string  `json:"class,omitempty"`
}

// JSONSummary holds the derived figures of a refreshed profile
type JSONSummary struct {
	TotalAssets          float64 `json:"total_assets"`
	TotalLiabilities     float64 `json:"total_liabilities"`
	TotalExpenses        float64 `json:"total_expenses"`
	MonthlyIncome        float64 `json:"monthly_income"`
	DisposableIncome     float64 `json:"disposable_income"`
	NetWorth             float64 `json:"net_worth"`
	Goal                 float64 `json:"goal"`
	Progress             float64 `json:"progress"`
	DebtToIncomeRatio    float64 `json:"debt_to_income_ratio"`
	CreditScore          uint16  `json:"credit_score,omitempty"`
	CreditScoreUpdatedAt string  `json:"credit_score_updated_at,omitempty"`
	LastUpdatedAt        string  `json:"last_updated_at"`
	Currency             string  `json:"currency"`
}

// NewJSONReport collects the records and figures of p. The cached figures are
// reported as they are, so callers refresh first.
func NewJSONReport(p *Profile, currency Currency) JSONReport {
	report := JSONReport{
		Assets:      []JSONItem{},
		Liabilities: []JSONItem{},
		Expenses:    []JSONItem{},
		Summary: JSONSummary{
			TotalAssets:       p.TotalAssets(),
			TotalLiabilities:  p.TotalLiabilities(),
			TotalExpenses:     p.TotalExpenses(),
			MonthlyIncome:     p.MonthlyIncome(),
			DisposableIncome:  p.DisposableIncome(),
			NetWorth:          p.NetWorth(),
			Goal:              p.Goal(),
			Progress:          p.Progress(),
			DebtToIncomeRatio: p.DebtToIncomeRatio(),
			CreditScore:       p.CreditScore(),
			LastUpdatedAt:     p.LastUpdatedAt().UTC().Format(time.RFC3339),
			Currency:          currency.Code,
		},
	}
	if p.CreditScore() != 0 {
		report.Summary.CreditScoreUpdatedAt = p.CreditScoreUpdatedAt().UTC().Format(time.RFC3339)
	}

	for _, a := range p.Assets() {
		report.Assets = append(report.Assets, JSONItem{a.Description(), a.Amount(), a.Class.String()})
	}
	for _, l := range p.Liabilities() {
		report.Liabilities = append(report.Liabilities, JSONItem{l.Description(), l.Amount(), l.Class.String()})
	}
	for _, e := range p.Expenses() {
		report.Expenses = append(report.Expenses, JSONItem{e.Description(), e.Amount(), e.Class.String()})
	}
	return report
}

// PrintProfileJSON outputs the profile in JSON format
func PrintProfileJSON(w io.Writer, p *Profile, currency Currency) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewJSONReport(p, currency)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// PrintProfileTable renders assets, liabilities and expenses side by side,
// one row per index up to the longest category, followed by the summary figures
func PrintProfileTable(w io.Writer, p *Profile, currency Currency) {
	whole := currency.WithDigits(0)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Assets", "Liabilities", "Expenses"})

	rows := max(p.Count(CategoryAsset), p.Count(CategoryLiability), p.Count(CategoryExpense))
	for i := range rows {
		row := make(table.Row, 0, len(Categories))
		for _, c := range Categories {
			row = append(row, itemCell(p, c, i, currency))
		}
		t.AppendRow(row)
	}

	t.AppendSeparator()

	label := func(name, value string) string {
		return text.Bold.Sprint(name+":") + " " + value
	}
	t.AppendFooter(table.Row{
		label("Net worth", whole.Format(p.NetWorth())),
		"",
		label("Total expenses", currency.Format(-p.TotalExpenses())),
	})
	t.AppendFooter(table.Row{
		label("Goal", whole.Format(p.Goal())),
		"",
		label("Monthly income", currency.Format(p.MonthlyIncome())),
	})
	t.AppendFooter(table.Row{
		label("Progress", currency.FormatPercent(p.Progress())),
		"",
		label("Disposable income", currency.Format(p.DisposableIncome())),
	})
	t.AppendFooter(table.Row{
		label("Debt to income", currency.FormatPercent(p.DebtToIncomeRatio())),
		"",
		"",
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault

	t.Render()
}

// PrintProfileCSV lists every record as category,description,amount,class
func PrintProfileCSV(w io.Writer, p *Profile) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Description", "Amount", "Class"})
	t.Style().Format.Header = text.FormatDefault

	amount := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, a := range p.Assets() {
		t.AppendRow(table.Row{CategoryAsset.String(), a.Description(), amount(a.Amount()), a.Class.String()})
	}
	for _, l := range p.Liabilities() {
		t.AppendRow(table.Row{CategoryLiability.String(), l.Description(), amount(l.Amount()), l.Class.String()})
	}
	for _, e := range p.Expenses() {
		t.AppendRow(table.Row{CategoryExpense.String(), e.Description(), amount(e.Amount()), e.Class.String()})
	}
	t.RenderCSV()
}

func itemCell(p *Profile, c Category, index int, currency Currency) string {
	item, err := p.Item(c, index)
	if err != nil {
		return ""
	}
	return item.Description() + ": " + currency.Format(item.Amount())
}
