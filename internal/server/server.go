// Package server exposes the loan calculator over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/internal/comparison"
	"github.com/iwvelando/amortize/internal/store"
	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/internal/export"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Options wires the services behind the API.
type Options struct {
	Calculator  *calculator.Service
	Comparison  *comparison.Service
	MaxBodySize int64
	Version     string
	// Registry receives the request metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

type handler struct {
	logger      *zap.Logger
	calculator  *calculator.Service
	comparison  *comparison.Service
	maxBodySize int64
	version     string
	metrics     *metrics
}

// NewHandler constructs the HTTP handler that serves the calculator API.
// Saved-loan routes answer 503 when no comparison service is configured.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Calculator == nil {
		opts.Calculator = calculator.NewService(logger, nil)
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		calculator:  opts.Calculator,
		comparison:  opts.Comparison,
		maxBodySize: opts.MaxBodySize,
		version:     version,
		metrics:     newMetrics(opts.Registry),
	}

	router := mux.NewRouter()
	router.Use(h.metrics.middleware)

	router.HandleFunc("/api/schedule", h.handleSchedule).Methods(http.MethodPost)
	router.HandleFunc("/api/export", h.handleExport).Methods(http.MethodPost)
	router.HandleFunc("/api/compare", h.handleCompare).Methods(http.MethodPost)
	router.HandleFunc("/api/presets", h.handlePresets).Methods(http.MethodGet)
	router.HandleFunc("/api/loans", h.handleListLoans).Methods(http.MethodGet)
	router.HandleFunc("/api/loans", h.handleSaveLoan).Methods(http.MethodPost)
	router.HandleFunc("/api/loans", h.handleClearLoans).Methods(http.MethodDelete)
	router.HandleFunc("/api/loans/best", h.handleBestLoan).Methods(http.MethodGet)
	router.HandleFunc("/api/loans/{id}", h.handleGetLoan).Methods(http.MethodGet)
	router.HandleFunc("/api/loans/{id}", h.handleDeleteLoan).Methods(http.MethodDelete)
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	router.Handle("/metrics", h.metrics.handler()).Methods(http.MethodGet)

	return router
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("expected a number or string, got %s", trimmed)
	}
	*f = flexString(n.String())
	return nil
}

type loanRequest struct {
	Name           string     `json:"name"`
	Principal      flexString `json:"principal"`
	AnnualRate     flexString `json:"annualRate"`
	TermMonths     flexString `json:"termMonths"`
	ExtraPrincipal flexString `json:"extraPrincipal"`
	StartDate      string     `json:"startDate"`
}

func (req loanRequest) parameters() (amortization.LoanParameters, error) {
	return amortization.ParseLoanParameters(amortization.RawInput{
		Principal:      string(req.Principal),
		AnnualRate:     string(req.AnnualRate),
		TermMonths:     string(req.TermMonths),
		ExtraPrincipal: string(req.ExtraPrincipal),
		StartDate:      req.StartDate,
	})
}

type compareRequest struct {
	Base        loanRequest `json:"base"`
	Alternative loanRequest `json:"alternative"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"

	var req loanRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	params, err := req.parameters()
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	start := time.Now()
	view, err := h.calculator.CalculateView(r.Context(), req.Name, params)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	h.logger.Debug("schedule served",
		zap.String("op", op),
		zap.Int("periods", len(view.Schedule)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	limit := constants.ExportRowLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), op)
			return
		}
		limit = n
	}

	var req loanRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	params, err := req.parameters()
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	calc, err := h.calculator.Calculate(r.Context(), req.Name, params)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	report := export.New(*calc, limit)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := export.WriteText(w, report); err != nil {
			h.logger.Error("failed to write export",
				zap.String("op", op),
				zap.Error(err),
			)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	var req compareRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	base, err := req.Base.parameters()
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("base loan: %w", err), op)
		return
	}
	alternative, err := req.Alternative.parameters()
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("alternative loan: %w", err), op)
		return
	}

	cmp, err := h.calculator.Compare(r.Context(), base, alternative)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, cmp.View())
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, constants.TermPresets)
}

func (h *handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListLoans"
	if !h.requireComparison(w, op) {
		return
	}

	loans, err := h.comparison.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, loans)
}

func (h *handler) handleSaveLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveLoan"
	if !h.requireComparison(w, op) {
		return
	}

	var req loanRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	params, err := req.parameters()
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Loan"
	}
	loan, err := h.comparison.Save(r.Context(), name, params)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, loan)
}

func (h *handler) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetLoan"
	if !h.requireComparison(w, op) {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid loan ID", op)
		return
	}
	loan, err := h.comparison.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, loan)
}

func (h *handler) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteLoan"
	if !h.requireComparison(w, op) {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "invalid loan ID", op)
		return
	}
	if err := h.comparison.Remove(r.Context(), id); err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleClearLoans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClearLoans"
	if !h.requireComparison(w, op) {
		return
	}

	if err := h.comparison.Clear(r.Context()); err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleBestLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBestLoan"
	if !h.requireComparison(w, op) {
		return
	}

	report, err := h.comparison.Report(r.Context())
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) requireComparison(w http.ResponseWriter, op string) bool {
	if h.comparison == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "saved loans are not enabled", op)
		return false
	}
	return true
}

// decode reads a JSON body into dst, answering the request itself on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	var inputErr *amortization.InvalidInputError
	switch {
	case errors.As(err, &inputErr):
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.String("field", inputErr.Field),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"field": inputErr.Field,
		})
	case errors.Is(err, amortization.ErrNonFiniteResult):
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
