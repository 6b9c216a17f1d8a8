package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/iwvelando/amortize/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

var expectedLoans = []string{
	"30 year mortgage",
	"30 year mortgage with extra principal",
	"Interest free car loan",
}

// loadCalculations loads the test configuration and processes it exactly as
// the CLI does.
func loadCalculations(t *testing.T) []calculator.Calculation {
	t.Helper()
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	ctx := context.Background()
	calcCache, err := cache.New(ctx, conf.Cache, logger)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}

	results, err := calculator.NewService(logger, calcCache).GetCalculations(ctx, conf.Loans)
	if err != nil {
		t.Fatalf("GetCalculations() error = %v", err)
	}
	return results
}

func TestMainIntegrationBaseline(t *testing.T) {
	results := loadCalculations(t)

	if len(results) != len(expectedLoans) {
		t.Fatalf("Expected %d loans, got %d", len(expectedLoans), len(results))
	}
	for i, expected := range expectedLoans {
		if results[i].Name != expected {
			t.Errorf("Expected loan %s, got %s", expected, results[i].Name)
		}
	}

	baselineChecks := []struct {
		loan            string
		periodicPayment float64
		totalInterest   float64
		payments        int
		payoffLabel     string
	}{
		{"30 year mortgage", 1199.10, 231676.38, 360, "January 2056"},
		{"Interest free car loan", 416.67, 0, 60, "March 2031"},
	}

	for _, check := range baselineChecks {
		calc := testutil.FindCalculation(results, check.loan)
		if calc == nil {
			t.Errorf("Loan %s not found", check.loan)
			continue
		}
		if math.Abs(calc.Result.PeriodicPayment-check.periodicPayment) > 0.01 {
			t.Errorf("Loan %s payment = %.2f, expected %.2f", check.loan, calc.Result.PeriodicPayment, check.periodicPayment)
		}
		if math.Abs(calc.Result.TotalInterest-check.totalInterest) > 1.0 {
			t.Errorf("Loan %s total interest = %.2f, expected %.2f", check.loan, calc.Result.TotalInterest, check.totalInterest)
		}
		if len(calc.Result.Schedule) != check.payments {
			t.Errorf("Loan %s payments = %d, expected %d", check.loan, len(calc.Result.Schedule), check.payments)
		}
		if label := calc.Result.Last().PeriodLabel; label != check.payoffLabel {
			t.Errorf("Loan %s payoff = %s, expected %s", check.loan, label, check.payoffLabel)
		}
	}
}

func TestExtraPrincipalSavings(t *testing.T) {
	results := loadCalculations(t)

	base := testutil.FindCalculation(results, "30 year mortgage")
	extra := testutil.FindCalculation(results, "30 year mortgage with extra principal")
	if base == nil || extra == nil {
		t.Fatal("mortgage loans not found")
	}

	if base.Savings != nil || base.Baseline != nil {
		t.Errorf("Loan without extra principal should carry no baseline or savings")
	}
	if extra.Savings == nil || extra.Baseline == nil {
		t.Fatal("Loan with extra principal should carry a baseline and savings")
	}

	if len(extra.Result.Schedule) >= len(base.Result.Schedule) {
		t.Errorf("Extra principal should shorten the loan: %d >= %d",
			len(extra.Result.Schedule), len(base.Result.Schedule))
	}
	if extra.Savings.PeriodsSaved != len(base.Result.Schedule)-len(extra.Result.Schedule) {
		t.Errorf("PeriodsSaved = %d, expected %d", extra.Savings.PeriodsSaved,
			len(base.Result.Schedule)-len(extra.Result.Schedule))
	}
	if math.Abs(extra.Savings.InterestSavings-(base.Result.TotalInterest-extra.Result.TotalInterest)) > 0.01 {
		t.Errorf("InterestSavings = %.2f, expected %.2f", extra.Savings.InterestSavings,
			base.Result.TotalInterest-extra.Result.TotalInterest)
	}
	if math.Abs(extra.Baseline.TotalInterest-base.Result.TotalInterest) > 0.01 {
		t.Errorf("Baseline interest = %.2f, expected %.2f", extra.Baseline.TotalInterest, base.Result.TotalInterest)
	}
}

func TestCSVOutputFormat(t *testing.T) {
	results := loadCalculations(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, "csv", results); err != nil {
		t.Fatalf("output.Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("CSV output is empty")
	}

	if records[0][0] != "loan" || len(records[0]) != 7 {
		t.Errorf("Unexpected CSV header: %v", records[0])
	}

	expectedRows := 0
	for _, calc := range results {
		expectedRows += len(calc.Result.Schedule)
	}
	if len(records)-1 != expectedRows {
		t.Errorf("Expected %d CSV rows, got %d", expectedRows, len(records)-1)
	}

	for i, record := range records[1:] {
		if len(record) != 7 {
			t.Errorf("Row %d has %d fields, expected 7", i+1, len(record))
		}
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	results := loadCalculations(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, "pretty", results); err != nil {
		t.Fatalf("output.Write() error = %v", err)
	}
	out := buf.String()

	for _, name := range expectedLoans {
		if !strings.Contains(out, "--- Results for loan "+name+" ---") {
			t.Errorf("Pretty output missing header for %s", name)
		}
	}

	expectedLines := []string{
		"Monthly payment: $1,199.10",
		"Payments: 360 (paid off January 2056)",
		"Interest saved:",
	}
	for _, line := range expectedLines {
		if !strings.Contains(out, line) {
			t.Errorf("Pretty output missing %q", line)
		}
	}

	lines := 0
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		lines++
	}
	if lines < 360 {
		t.Errorf("Pretty output has %d lines, expected at least one per payment", lines)
	}
}

func TestJSONOutputFormat(t *testing.T) {
	results := loadCalculations(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, "json", results); err != nil {
		t.Fatalf("output.Write() error = %v", err)
	}

	var views []calculator.View
	if err := json.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if len(views) != len(results) {
		t.Fatalf("Expected %d JSON loans, got %d", len(results), len(views))
	}
	if views[1].Savings == nil {
		t.Errorf("JSON output for loan with extra principal should include savings")
	}
	if views[2].Summary.TotalInterest.String() != "0" {
		t.Errorf("Interest free loan total interest = %s, expected 0", views[2].Summary.TotalInterest)
	}
}

func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings for test configuration, got %v", warnings)
	}

	conf.Loans = append(conf.Loans, config.Loan{Principal: 1000, AnnualRate: 5, TermMonths: 0})
	_, err = calculator.NewService(zap.NewNop(), nil).GetCalculations(context.Background(), conf.Loans)
	if err == nil {
		t.Fatal("Expected an error for a loan with a zero term")
	}
	if !strings.Contains(err.Error(), "Loan 4") || !strings.Contains(err.Error(), "termMonths") {
		t.Errorf("Error %q should name the loan and field", err.Error())
	}
}
