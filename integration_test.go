package main

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/financial-profile/internal"
	"github.com/xuri/excelize/v2"
)

// runCLIWithConfig runs the financial-profile CLI with a custom config file and returns stdout
func runCLIWithConfig(t *testing.T, configContent string, args ...string) string {
	t.Helper()
	output, err := execCLI(t, configContent, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Fatalf("CLI failed: %v\nStderr: %s", err, exitErr.Stderr)
		}
		t.Fatalf("CLI failed: %v", err)
	}
	return output
}

// runCLI runs the CLI with an empty config to avoid interference from the user's config
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	return runCLIWithConfig(t, "", args...)
}

// runCLIJSON runs the CLI with JSON output and parses the result
func runCLIJSON(t *testing.T, args ...string) internal.JSONReport {
	t.Helper()
	output := runCLI(t, append(args, "--output", "json")...)

	var result internal.JSONReport
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// runCLIExpectError runs the CLI, requires a non-zero exit and returns stderr
func runCLIExpectError(t *testing.T, args ...string) string {
	t.Helper()
	_, err := execCLI(t, "", args...)
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected the CLI to exit with an error, got %v", err)
	}
	return string(exitErr.Stderr)
}

func execCLI(t *testing.T, configContent string, args ...string) (string, error) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fullArgs := append([]string{"--config", configPath, "--currency", "USD"}, args...)
	cmd := exec.Command("go", append([]string{"run", "."}, fullArgs...)...)

	// Capture stdout only (stderr has go download messages and logs)
	output, err := cmd.Output()
	return string(output), err
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCLI_CreatesProfileFromDefaultSeed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")

	result := runCLIJSON(t, file)

	if len(result.Assets) != 17 || len(result.Liabilities) != 4 || len(result.Expenses) != 16 {
		t.Errorf("counts = %d/%d/%d, want 17/4/16", len(result.Assets), len(result.Liabilities), len(result.Expenses))
	}
	s := result.Summary
	if !near(s.TotalAssets, 20978.54) || !near(s.TotalLiabilities, 1600) || !near(s.TotalExpenses, 3771) {
		t.Errorf("totals = %v/%v/%v", s.TotalAssets, s.TotalLiabilities, s.TotalExpenses)
	}
	if !near(s.NetWorth, 19378.54) || !near(s.DisposableIncome, 2629) {
		t.Errorf("net worth = %v, disposable income = %v", s.NetWorth, s.DisposableIncome)
	}
	if s.Currency != "USD" {
		t.Errorf("currency = %q, want USD", s.Currency)
	}

	if _, err := os.Stat(file); err != nil {
		t.Fatalf("profile file was not written: %v", err)
	}
}

func TestCLI_LoadsExistingProfile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")

	p := internal.New()
	p.AddAsset("Cash", 500, internal.AssetCash)
	p.AddLiability("Car loan", 200, internal.LiabilityCurrent)
	p.Add(internal.CategoryExpense, "Rent", 1000)
	p.SetMonthlyIncome(3000)
	p.Refresh()
	if err := internal.Save(p, file); err != nil {
		t.Fatal(err)
	}

	result := runCLIJSON(t, file)

	if len(result.Assets) != 1 || result.Assets[0].Description != "Cash" {
		t.Fatalf("assets = %+v, want the saved profile", result.Assets)
	}
	if result.Liabilities[0].Class != "current" {
		t.Errorf("liability class = %q, want current", result.Liabilities[0].Class)
	}
	if !near(result.Summary.NetWorth, 300) || !near(result.Summary.DisposableIncome, 2000) {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestCLI_TableOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")
	output := runCLI(t, file)

	for _, want := range []string{"Assets", "Liabilities", "Expenses", "Net worth:", "Disposable income:", "$2,629.00"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}
}

func TestCLI_CSVOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")
	output := runCLI(t, file, "--output", "csv")
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if lines[0] != "Category,Description,Amount,Class" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 1+17+4+16 {
		t.Errorf("got %d lines, want header plus 37 records", len(lines))
	}
}

func TestCLI_SortByDescription(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")
	result := runCLIJSON(t, file, "--sort", "description-asc")

	for i := 1; i < len(result.Expenses); i++ {
		if result.Expenses[i-1].Description > result.Expenses[i].Description {
			t.Fatalf("expenses not sorted by description: %q before %q",
				result.Expenses[i-1].Description, result.Expenses[i].Description)
		}
	}
}

func TestCLI_ConfigSeed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")
	config := `use_default_seed: false
seed:
  salary: 120000
  goal: 50000
  assets:
    - description: Savings account
      amount: 10000
      class: cash
  expenses:
    - description: Rent
      amount: 2000
`
	output := runCLIWithConfig(t, config, file, "--output", "json")

	var result internal.JSONReport
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if len(result.Assets) != 1 || len(result.Liabilities) != 0 || len(result.Expenses) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/0/1", len(result.Assets), len(result.Liabilities), len(result.Expenses))
	}
	s := result.Summary
	if !near(s.MonthlyIncome, 10000) || !near(s.DisposableIncome, 8000) {
		t.Errorf("income = %v, disposable = %v", s.MonthlyIncome, s.DisposableIncome)
	}
	if !near(s.Progress, 0.2) {
		t.Errorf("progress = %v, want 0.2", s.Progress)
	}
}

func TestCLI_ResetRecreatesProfile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.fp")

	p := internal.New()
	p.AddAsset("Only asset", 1, internal.AssetCash)
	p.Refresh()
	if err := internal.Save(p, file); err != nil {
		t.Fatal(err)
	}

	result := runCLIJSON(t, file, "--reset")
	if len(result.Assets) != 17 {
		t.Errorf("assets = %d after reset, want the 17 seeded ones", len(result.Assets))
	}

	reloaded, err := internal.Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Count(internal.CategoryAsset) != 17 {
		t.Errorf("saved file has %d assets, want 17", reloaded.Count(internal.CategoryAsset))
	}
}

func TestCLI_ExportAndImportWorkbook(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "profile.xlsx")

	runCLI(t, filepath.Join(dir, "first.fp"), "--export", workbook)

	f, err := excelize.OpenFile(workbook)
	if err != nil {
		t.Fatalf("exported workbook does not open: %v", err)
	}
	rows, err := f.GetRows(internal.SheetExpenses)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 17 {
		t.Errorf("expenses sheet has %d rows, want header plus 16", len(rows))
	}

	second := filepath.Join(dir, "second.fp")
	result := runCLIJSON(t, second, "--import", workbook)
	if !near(result.Summary.NetWorth, 19378.54) || !near(result.Summary.DisposableIncome, 2629) {
		t.Errorf("imported summary = %+v", result.Summary)
	}
	if _, err := internal.Load(second); err != nil {
		t.Errorf("imported profile was not saved: %v", err)
	}
}

func TestCLI_SavingsProjection(t *testing.T) {
	config := "savings_rates: [0, 0.12]\n"

	output := runCLIWithConfig(t, config, "--savings", "100", "--years", "2", "--output", "json")
	var proj internal.SavingsProjection
	if err := json.Unmarshal([]byte(output), &proj); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if len(proj.Rows) != 48 {
		t.Fatalf("rows = %d, want 48", len(proj.Rows))
	}
	if !near(proj.Rows[47].Balances[0], 4800) {
		t.Errorf("zero-rate balance = %v, want 4800", proj.Rows[47].Balances[0])
	}

	csv := runCLIWithConfig(t, config, "--savings", "100", "--years", "1", "--output", "csv")
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if lines[0] != "Date,Total (0%),Total (12%)" || len(lines) != 25 {
		t.Errorf("csv header = %q with %d lines", lines[0], len(lines))
	}
}

func TestCLI_ForeignFileIsNotOverwritten(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	content := []byte("these are not the bytes you are looking for\n")
	if err := os.WriteFile(file, content, 0644); err != nil {
		t.Fatal(err)
	}

	stderr := runCLIExpectError(t, file)
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("stderr = %q, want an error message", stderr)
	}

	after, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(content) {
		t.Error("foreign file was modified")
	}
}

func TestCLI_InvalidYears(t *testing.T) {
	stderr := runCLIExpectError(t, "--savings", "100", "--years", "0")
	if !strings.Contains(stderr, "--years") {
		t.Errorf("stderr = %q, want it to mention --years", stderr)
	}
}
