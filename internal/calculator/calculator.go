// Package calculator turns configured or requested loans into calculations,
// pairing each schedule that carries extra principal with its zero-extra
// baseline.
package calculator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/amortization"
	"go.uber.org/zap"
)

// Calculation holds the full-precision results for one loan.
type Calculation struct {
	Name     string
	Result   *amortization.Result
	Baseline *amortization.Result
	Savings  *amortization.Savings
}

// Comparison holds two calculations of the same loan and what the
// alternative saves relative to the base.
type Comparison struct {
	Base        *amortization.Result
	Alternative *amortization.Result
	Savings     amortization.Savings
}

// Service computes calculations, optionally caching their rendered views.
type Service struct {
	logger *zap.Logger
	cache  cache.Cache
}

// NewService returns a Service. Both arguments may be nil.
func NewService(logger *zap.Logger, c cache.Cache) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, cache: c}
}

// Calculate builds the schedule for params. When extra principal is present
// the zero-extra baseline and the resulting savings are computed too.
func (s *Service) Calculate(ctx context.Context, name string, params amortization.LoanParameters) (*Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := amortization.BuildSchedule(params)
	if err != nil {
		s.logger.Debug("schedule rejected",
			zap.String("op", "calculator.Calculate"),
			zap.String("loan", name),
			zap.Error(err),
		)
		return nil, err
	}

	calc := &Calculation{Name: name, Result: result}
	if params.ExtraPrincipalPerPeriod > 0 {
		baseline, err := amortization.BuildSchedule(params.WithExtraPrincipal(0))
		if err != nil {
			return nil, fmt.Errorf("baseline schedule: %w", err)
		}
		savings := amortization.CompareSchedules(baseline, result)
		calc.Baseline = baseline
		calc.Savings = &savings
	}

	s.logger.Debug("schedule computed",
		zap.String("op", "calculator.Calculate"),
		zap.String("loan", name),
		zap.Int("periods", result.Periods()),
		zap.Float64("totalInterest", result.TotalInterest),
	)
	return calc, nil
}

// CalculateView is Calculate rendered for presentation, served from the cache
// when an identical loan was computed before.
func (s *Service) CalculateView(ctx context.Context, name string, params amortization.LoanParameters) (View, error) {
	key := CacheKey(name, params)
	var view View
	if s.load(ctx, key, &view, "calculator.CalculateView") {
		return view, nil
	}

	calc, err := s.Calculate(ctx, name, params)
	if err != nil {
		return View{}, err
	}
	view = calc.View()
	s.store(ctx, key, view, "calculator.CalculateView")
	return view, nil
}

// CalculateCached is Calculate served from the cache when an identical loan
// was computed before. The full-precision schedule is cached, not its view.
func (s *Service) CalculateCached(ctx context.Context, name string, params amortization.LoanParameters) (*Calculation, error) {
	key := resultCacheKey(name, params)
	var calc Calculation
	if s.load(ctx, key, &calc, "calculator.CalculateCached") && calc.Result != nil {
		return &calc, nil
	}

	computed, err := s.Calculate(ctx, name, params)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, computed, "calculator.CalculateCached")
	return computed, nil
}

// load decodes the cached JSON under key into dst.
func (s *Service) load(ctx context.Context, key string, dst interface{}, op string) bool {
	if s.cache == nil {
		return false
	}
	cached, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		s.logger.Warn("discarding unreadable cache entry",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	s.logger.Debug("cache hit",
		zap.String("op", op),
		zap.String("key", key),
	)
	return true
}

// store caches value under key as JSON. Failures are logged, not returned.
func (s *Service) store(ctx context.Context, key string, value interface{}, op string) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err == nil {
		err = s.cache.Set(ctx, key, string(encoded))
	}
	if err != nil {
		s.logger.Warn("failed to cache calculation",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Compare computes both loans and the savings of alternative over base.
func (s *Service) Compare(ctx context.Context, base, alternative amortization.LoanParameters) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseResult, err := amortization.BuildSchedule(base)
	if err != nil {
		return nil, fmt.Errorf("base loan: %w", err)
	}
	altResult, err := amortization.BuildSchedule(alternative)
	if err != nil {
		return nil, fmt.Errorf("alternative loan: %w", err)
	}

	savings := amortization.CompareSchedules(baseResult, altResult)
	s.logger.Debug("loans compared",
		zap.String("op", "calculator.Compare"),
		zap.Float64("interestSavings", savings.InterestSavings),
		zap.Int("periodsSaved", savings.PeriodsSaved),
	)
	return &Comparison{Base: baseResult, Alternative: altResult, Savings: savings}, nil
}

// GetCalculations processes every configured loan in order.
func (s *Service) GetCalculations(ctx context.Context, loans []config.Loan) ([]Calculation, error) {
	results := make([]Calculation, 0, len(loans))
	for i, loan := range loans {
		name := loan.Name
		if name == "" {
			name = fmt.Sprintf("Loan %d", i+1)
		}

		params, err := loan.Parameters()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loan.DisplayName(i), err)
		}
		calc, err := s.CalculateCached(ctx, name, params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loan.DisplayName(i), err)
		}
		results = append(results, *calc)
	}
	return results, nil
}

// CacheKey identifies a calculation view by its name and exact parameters.
func CacheKey(name string, params amortization.LoanParameters) string {
	return "calculation:" + paramsHash(name, params)
}

func resultCacheKey(name string, params amortization.LoanParameters) string {
	return "result:" + paramsHash(name, params)
}

func paramsHash(name string, params amortization.LoanParameters) string {
	start := ""
	if !params.StartDate.IsZero() {
		start = params.StartDate.Format(config.DateTimeLayout)
	}
	raw := name + "|" +
		strconv.FormatFloat(params.Principal, 'g', -1, 64) + "|" +
		strconv.FormatFloat(params.AnnualRatePercent, 'g', -1, 64) + "|" +
		strconv.Itoa(params.TermMonths) + "|" +
		strconv.FormatFloat(params.ExtraPrincipalPerPeriod, 'g', -1, 64) + "|" +
		start
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
