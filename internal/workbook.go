package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, one per category plus the summary
const (
	SheetAssets      = "Assets"
	SheetLiabilities = "Liabilities"
	SheetExpenses    = "Expenses"
	SheetSummary     = "Summary"
)

// summary rows read back on import
const (
	summaryMonthlyIncome = "Monthly income"
	summaryGoal          = "Goal"
	summaryCreditScore   = "Credit score"
)

var categorySheets = map[Category]string{
	CategoryAsset:     SheetAssets,
	CategoryLiability: SheetLiabilities,
	CategoryExpense:   SheetExpenses,
}

// ExportWorkbook writes p as an xlsx workbook with one sheet per category
// and a summary sheet
func ExportWorkbook(p *Profile, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetAssets); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetLiabilities, SheetExpenses, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	rows := map[string][][]any{
		SheetAssets:      {{"Description", "Amount", "Class"}},
		SheetLiabilities: {{"Description", "Amount", "Class"}},
		SheetExpenses:    {{"Description", "Amount", "Class"}},
	}
	for _, a := range p.Assets() {
		rows[SheetAssets] = append(rows[SheetAssets], []any{a.Description(), a.Amount(), a.Class.String()})
	}
	for _, l := range p.Liabilities() {
		rows[SheetLiabilities] = append(rows[SheetLiabilities], []any{l.Description(), l.Amount(), l.Class.String()})
	}
	for _, e := range p.Expenses() {
		rows[SheetExpenses] = append(rows[SheetExpenses], []any{e.Description(), e.Amount(), e.Class.String()})
	}
	rows[SheetSummary] = [][]any{
		{"Field", "Value"},
		{summaryMonthlyIncome, p.MonthlyIncome()},
		{summaryGoal, p.Goal()},
		{summaryCreditScore, int(p.CreditScore())},
		{"Total assets", p.TotalAssets()},
		{"Total liabilities", p.TotalLiabilities()},
		{"Total expenses", p.TotalExpenses()},
		{"Disposable income", p.DisposableIncome()},
		{"Net worth", p.NetWorth()},
		{"Debt to income", p.DebtToIncomeRatio()},
		{"Progress", p.Progress()},
	}

	for sheet, sheetRows := range rows {
		for i, row := range sheetRows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ImportWorkbook builds a profile from a workbook laid out like the one
// ExportWorkbook writes. Category sheets are found by name and columns by
// their header; the summary sheet is optional. l, if not nil, is installed
// before the records are added. The returned profile is refreshed.
func ImportWorkbook(path string, l Listener) (*Profile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]string)
	for _, name := range f.GetSheetList() {
		sheets[strings.ToLower(strings.TrimSpace(name))] = name
	}

	p := New()
	p.SetListener(l)

	found := false
	for _, c := range Categories {
		sheet, ok := sheets[strings.ToLower(categorySheets[c])]
		if !ok {
			continue
		}
		found = true
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if err := importItems(p, c, sheet, rows); err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, fmt.Errorf("no %s, %s or %s sheet found", SheetAssets, SheetLiabilities, SheetExpenses)
	}

	if sheet, ok := sheets[strings.ToLower(SheetSummary)]; ok {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if err := importSummary(p, rows); err != nil {
			return nil, err
		}
	}

	p.Refresh()
	return p, nil
}

func importItems(p *Profile, c Category, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	descCol, amountCol, classCol := -1, -1, -1
	for j, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "description":
			descCol = j
		case "amount":
			amountCol = j
		case "class":
			classCol = j
		}
	}
	if descCol < 0 || amountCol < 0 {
		return fmt.Errorf("sheet %s: could not find required columns (Description, Amount)", sheet)
	}

	for i, row := range rows[1:] {
		desc := cellAt(row, descCol)
		amountStr := cellAt(row, amountCol)
		if desc == "" && amountStr == "" {
			continue
		}

		amount, err := ParseAmount(amountStr)
		if err != nil && !errors.Is(err, errEmptyAmount) {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		class := cellAt(row, classCol)

		switch c {
		case CategoryAsset:
			ac, err := ParseAssetClass(class)
			if err != nil {
				return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
			}
			p.AddAsset(desc, amount, ac)
		case CategoryLiability:
			lc, err := ParseLiabilityClass(class)
			if err != nil {
				return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
			}
			p.AddLiability(desc, amount, lc)
		default:
			ec, err := ParseExpenseClass(class)
			if err != nil {
				return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
			}
			p.AddExpense(desc, amount, ec)
		}
	}
	return nil
}

func importSummary(p *Profile, rows [][]string) error {
	for i, row := range rows {
		field := cellAt(row, 0)
		value := cellAt(row, 1)
		if value == "" {
			continue
		}
		switch {
		case strings.EqualFold(field, summaryMonthlyIncome):
			v, err := ParseAmount(value)
			if err != nil {
				return fmt.Errorf("summary row %d: %w", i+1, err)
			}
			p.SetMonthlyIncome(v)
		case strings.EqualFold(field, summaryGoal):
			v, err := ParseAmount(value)
			if err != nil {
				return fmt.Errorf("summary row %d: %w", i+1, err)
			}
			p.SetGoal(v)
		case strings.EqualFold(field, summaryCreditScore):
			score, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return fmt.Errorf("summary row %d: invalid credit score %q: %w", i+1, value, err)
			}
			if score != 0 {
				p.SetCreditScore(uint16(score))
			}
		}
	}
	return nil
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

var errEmptyAmount = errors.New("empty amount")

// ParseAmount reads a money amount as typed into a spreadsheet: currency
// symbols and grouping spaces are dropped ("1 234,50 kr", "$1,234.50",
// "1.234,50 €", "1,234,567", "-42"). With both separators present the last
// one is the decimal separator, and a separator repeated on its own groups
// thousands. A lone separator followed by exactly three digits is rejected
// as ambiguous ("$1,234", "1.234 €"), except for a dot in a bare number
// such as a numeric cell holds.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '.', r == ',':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		if strings.TrimSpace(s) == "" {
			return 0, errEmptyAmount
		}
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	bare := cleaned == strings.TrimSpace(s)

	commas, dots := strings.Count(cleaned, ","), strings.Count(cleaned, ".")
	var sep rune
	switch {
	case commas > 0 && dots > 0:
		sep = '.'
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			sep = ','
		}
		if strings.Count(cleaned, string(sep)) > 1 {
			return 0, fmt.Errorf("invalid amount %q: repeated decimal separator", s)
		}
	case commas == 1 && dots == 0:
		sep = ','
	case dots == 1 && commas == 0:
		sep = '.'
	}

	if sep != 0 && commas+dots == 1 {
		i := strings.IndexRune(cleaned, sep)
		whole := strings.TrimLeft(strings.TrimPrefix(cleaned[:i], "-"), "0")
		if len(cleaned)-i-1 == 3 && whole != "" && !(sep == '.' && bare) {
			return 0, fmt.Errorf("ambiguous amount %q: %q may group thousands or start decimals", s, sep)
		}
	}

	normalized := strings.Map(func(r rune) rune {
		switch {
		case r == sep:
			return '.'
		case r == ',', r == '.':
			return -1
		default:
			return r
		}
	}, cleaned)

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
