package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultSavingsRates are the yearly rates of the savings projection
var DefaultSavingsRates = []float64{0.01, 0.02, 0.04, 0.06, 0.10, 0.13, 0.16, 0.19}

// PeriodsPerYear of the savings projection: the 15th and the last day of each month
const PeriodsPerYear = 24

// SimpleInterest is principal*(1 + rate*periods)
func SimpleInterest(principal, rate, periods float64) float64 {
	return principal * (1 + rate*periods)
}

// CompoundInterest is principal*(1 + rate)^periods
func CompoundInterest(principal, rate, periods float64) float64 {
	return principal * math.Pow(1+rate, periods)
}

// AnnuityPresentValue is the value today of paying amount at the end of each
// of periods periods. A zero rate yields amount*periods.
func AnnuityPresentValue(amount, rate, periods float64) float64 {
	if rate == 0 {
		return amount * periods
	}
	d := math.Pow(1+rate, periods)
	return amount / rate * (1 - 1/d)
}

// AnnuityDuePresentValue is AnnuityPresentValue with payments at the start of each period
func AnnuityDuePresentValue(amount, rate, periods float64) float64 {
	return AnnuityPresentValue(amount, rate, periods) * (1 + rate)
}

// AnnuityFutureValue is the balance after depositing amount at the end of
// each of periods periods. A zero rate yields amount*periods.
func AnnuityFutureValue(amount, rate, periods float64) float64 {
	if rate == 0 {
		return amount * periods
	}
	return amount / rate * (math.Pow(1+rate, periods) - 1)
}

// AnnuityDueFutureValue is AnnuityFutureValue with deposits at the start of each period
func AnnuityDueFutureValue(amount, rate, periods float64) float64 {
	return AnnuityFutureValue(amount, rate, periods) * (1 + rate)
}

// DaysInMonth follows the Gregorian leap year rules
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SavingsRow is the projected balance at one deposit date, one per rate
type SavingsRow struct {
	Date     time.Time `json:"date"`
	Period   int       `json:"period"`
	Balances []float64 `json:"balances"`
}

// SavingsProjection tracks a fixed deposit made twice a month
type SavingsProjection struct {
	Deposit float64      `json:"deposit"`
	Years   int          `json:"years"`
	Rates   []float64    `json:"rates"`
	Rows    []SavingsRow `json:"rows"`
}

// ProjectSavings projects deposit per period over years starting with the
// month of start. Each yearly rate is compounded per period as rate/24.
func ProjectSavings(deposit float64, years int, start time.Time, rates []float64) SavingsProjection {
	proj := SavingsProjection{
		Deposit: deposit,
		Years:   years,
		Rates:   rates,
	}
	if years <= 0 {
		return proj
	}

	proj.Rows = make([]SavingsRow, 0, years*PeriodsPerYear)
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	period := 1
	for m := range years * 12 {
		month := first.AddDate(0, m, 0)
		for _, day := range []int{15, DaysInMonth(month.Year(), month.Month())} {
			row := SavingsRow{
				Date:     time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC),
				Period:   period,
				Balances: make([]float64, len(rates)),
			}
			for i, r := range rates {
				row.Balances[i] = AnnuityFutureValue(deposit, r/PeriodsPerYear, float64(period))
			}
			proj.Rows = append(proj.Rows, row)
			period++
		}
	}
	return proj
}

func rateHeader(rate float64) string {
	return "Total (" + strconv.FormatFloat(math.Round(rate*10000)/100, 'f', -1, 64) + "%)"
}

func savingsTable(w io.Writer, proj SavingsProjection, cell func(float64) string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Date"}
	for _, r := range proj.Rates {
		header = append(header, rateHeader(r))
	}
	t.AppendHeader(header)

	for _, row := range proj.Rows {
		r := table.Row{row.Date.Format("Jan 02 2006")}
		for _, b := range row.Balances {
			r = append(r, cell(b))
		}
		t.AppendRow(r)
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}

// PrintSavingsTable renders the projection with one column per rate
func PrintSavingsTable(w io.Writer, proj SavingsProjection, currency Currency) {
	fmt.Fprintf(w, "Deposit per period: %s\n", currency.Format(proj.Deposit))
	fmt.Fprintf(w, "Number of years:    %d\n\n", proj.Years)

	t := savingsTable(w, proj, currency.Format)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault

	configs := make([]table.ColumnConfig, 0, len(proj.Rates))
	for i := range proj.Rates {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

// PrintSavingsCSV renders the projection as CSV with plain two-digit amounts
func PrintSavingsCSV(w io.Writer, proj SavingsProjection) {
	t := savingsTable(w, proj, func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	})
	t.RenderCSV()
}

// PrintSavingsJSON outputs the projection in JSON format
func PrintSavingsJSON(w io.Writer, proj SavingsProjection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(proj); err != nil {
		return fmt.Errorf("encoding savings projection: %w", err)
	}
	return nil
}
