// Package store persists saved loans for comparison.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no saved loan has the requested ID.
var ErrNotFound = errors.New("saved loan not found")

// SavedLoan is a loan's parameters plus its summary figures. Schedules are
// never stored; they are recomputed on demand.
type SavedLoan struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
	ExtraPrincipal    decimal.Decimal `json:"extraPrincipal"`
	StartDate         string          `json:"startDate,omitempty"`
	PeriodicPayment   decimal.Decimal `json:"periodicPayment"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
	Payments          int             `json:"payments"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Store defines the operations on saved loans.
type Store interface {
	SaveLoan(ctx context.Context, loan *SavedLoan) error
	GetLoan(ctx context.Context, id uuid.UUID) (*SavedLoan, error)
	ListLoans(ctx context.Context) ([]*SavedLoan, error)
	DeleteLoan(ctx context.Context, id uuid.UUID) error
	ClearLoans(ctx context.Context) error
	Close() error
}
