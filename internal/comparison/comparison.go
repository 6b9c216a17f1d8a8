// Package comparison manages saved loans and ranks them against each other.
package comparison

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/internal/store"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Report ranks the saved loans. Best is nil until at least two loans are
// saved, and both savings figures are then zero.
type Report struct {
	Loans           []*store.SavedLoan `json:"loans"`
	Best            *store.SavedLoan   `json:"best,omitempty"`
	MonthlySavings  decimal.Decimal    `json:"monthlySavings"`
	LifetimeSavings decimal.Decimal    `json:"lifetimeSavings"`
}

// Service saves loans through a Store and reports on them.
type Service struct {
	store      store.Store
	calculator *calculator.Service
	logger     *zap.Logger
}

// NewService returns a Service backed by s.
func NewService(s store.Store, calc *calculator.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = calculator.NewService(logger, nil)
	}
	return &Service{store: s, calculator: calc, logger: logger}
}

// Save computes the loan and stores its parameters with its summary.
func (s *Service) Save(ctx context.Context, name string, params amortization.LoanParameters) (*store.SavedLoan, error) {
	calc, err := s.calculator.Calculate(ctx, name, params)
	if err != nil {
		return nil, err
	}

	loan := NewSavedLoan(name, calc.Result)
	if err := s.store.SaveLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("save loan %s: %w", name, err)
	}

	s.logger.Info("loan saved for comparison",
		zap.String("op", "comparison.Save"),
		zap.String("id", loan.ID.String()),
		zap.String("name", name),
	)
	return loan, nil
}

// List returns every saved loan.
func (s *Service) List(ctx context.Context) ([]*store.SavedLoan, error) {
	return s.store.ListLoans(ctx)
}

// Get returns one saved loan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.SavedLoan, error) {
	return s.store.GetLoan(ctx, id)
}

// Remove deletes one saved loan.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteLoan(ctx, id); err != nil {
		return err
	}
	s.logger.Info("saved loan removed",
		zap.String("op", "comparison.Remove"),
		zap.String("id", id.String()),
	)
	return nil
}

// Clear deletes every saved loan.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.ClearLoans(ctx); err != nil {
		return err
	}
	s.logger.Info("saved loans cleared",
		zap.String("op", "comparison.Clear"),
	)
	return nil
}

// Report ranks the currently saved loans.
func (s *Service) Report(ctx context.Context) (Report, error) {
	loans, err := s.store.ListLoans(ctx)
	if err != nil {
		return Report{}, err
	}
	return Compare(loans), nil
}

// NewSavedLoan captures the parameters and rounded summary of result.
func NewSavedLoan(name string, result *amortization.Result) *store.SavedLoan {
	summary := result.Summary()
	view := calculator.NewParamsView(result.Params)
	return &store.SavedLoan{
		Name:              name,
		Principal:         view.Principal,
		AnnualRatePercent: view.AnnualRatePercent,
		TermMonths:        view.TermMonths,
		ExtraPrincipal:    view.ExtraPrincipalPerPeriod,
		StartDate:         view.StartDate,
		PeriodicPayment:   summary.PeriodicPayment,
		TotalPaid:         summary.TotalPaid,
		TotalInterest:     summary.TotalInterest,
		Payments:          summary.Payments,
	}
}

// Compare picks the loan with the lowest total interest and measures it
// against the highest periodic payment and the highest total paid among all
// loans. Ties keep the earlier loan.
func Compare(loans []*store.SavedLoan) Report {
	report := Report{
		Loans:           loans,
		MonthlySavings:  decimal.Zero,
		LifetimeSavings: decimal.Zero,
	}
	if report.Loans == nil {
		report.Loans = []*store.SavedLoan{}
	}
	if len(loans) < 2 {
		return report
	}

	best, highestPayment, highestTotal := loans[0], loans[0], loans[0]
	for _, loan := range loans[1:] {
		if loan.TotalInterest.LessThan(best.TotalInterest) {
			best = loan
		}
		if loan.PeriodicPayment.GreaterThan(highestPayment.PeriodicPayment) {
			highestPayment = loan
		}
		if loan.TotalPaid.GreaterThan(highestTotal.TotalPaid) {
			highestTotal = loan
		}
	}

	report.Best = best
	report.MonthlySavings = highestPayment.PeriodicPayment.Sub(best.PeriodicPayment)
	report.LifetimeSavings = highestTotal.TotalPaid.Sub(best.TotalPaid)
	return report
}
