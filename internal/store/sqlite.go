package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

const loanColumns = `id, name, principal, annual_rate_percent, term_months, extra_principal, start_date,
	periodic_payment, total_paid, total_interest, payments, created_at`

// SQLiteStore keeps saved loans in an SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database at dataSourceName and creates the schema
// if needed.
func NewSQLiteStore(dataSourceName string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive between calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}

	logger.Info("saved loan store ready",
		zap.String("op", "store.NewSQLiteStore"),
		zap.String("path", dataSourceName),
	)
	return s, nil
}

// Decimal amounts are TEXT so no precision is lost.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS saved_loans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		principal TEXT NOT NULL,
		annual_rate_percent TEXT NOT NULL,
		term_months INTEGER NOT NULL,
		extra_principal TEXT NOT NULL DEFAULT '0',
		start_date TEXT NOT NULL DEFAULT '',
		periodic_payment TEXT NOT NULL,
		total_paid TEXT NOT NULL,
		total_interest TEXT NOT NULL,
		payments INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveLoan inserts loan, assigning an ID and creation time when unset.
func (s *SQLiteStore) SaveLoan(ctx context.Context, loan *SavedLoan) error {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_loans (`+loanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID.String(), loan.Name, loan.Principal, loan.AnnualRatePercent, loan.TermMonths,
		loan.ExtraPrincipal, loan.StartDate, loan.PeriodicPayment, loan.TotalPaid,
		loan.TotalInterest, loan.Payments, loan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.Debug("loan saved",
		zap.String("op", "store.SQLiteStore.SaveLoan"),
		zap.String("id", loan.ID.String()),
		zap.String("name", loan.Name),
	)
	return nil
}

// GetLoan retrieves a saved loan by its ID.
func (s *SQLiteStore) GetLoan(ctx context.Context, id uuid.UUID) (*SavedLoan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM saved_loans WHERE id = ?`, id.String())
	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

// ListLoans returns every saved loan, oldest first.
func (s *SQLiteStore) ListLoans(ctx context.Context) ([]*SavedLoan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+loanColumns+` FROM saved_loans ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	loans := []*SavedLoan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return loans, nil
}

// DeleteLoan removes a saved loan.
func (s *SQLiteStore) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_loans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearLoans removes every saved loan.
func (s *SQLiteStore) ClearLoans(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_loans`)
	if err != nil {
		return fmt.Errorf("failed to clear loans: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		s.logger.Debug("saved loans cleared",
			zap.String("op", "store.SQLiteStore.ClearLoans"),
			zap.Int64("removed", n),
		)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoan(row rowScanner) (*SavedLoan, error) {
	var loan SavedLoan
	var id string
	err := row.Scan(&id, &loan.Name, &loan.Principal, &loan.AnnualRatePercent, &loan.TermMonths,
		&loan.ExtraPrincipal, &loan.StartDate, &loan.PeriodicPayment, &loan.TotalPaid,
		&loan.TotalInterest, &loan.Payments, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid loan id %q: %w", id, err)
	}
	loan.ID = parsed
	return &loan, nil
}
