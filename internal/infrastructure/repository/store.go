package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"gorm.io/gorm"
)

// Store bundles the connection with the per-call timeout applied to every
// repository operation.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewStore(db *gorm.DB, timeout time.Duration, m *metrics.Metrics) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, timeout: timeout, metrics: m}
}

// session returns a handle bound to ctx and the store timeout
func (s *Store) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// fail maps a driver failure onto the application taxonomy
func (s *Store) fail(op string, err error) error {
	translated := translateError(op, err)
	if apperror.IsKind(translated, apperror.KindStoreUnavailable) {
		s.metrics.ObserveStoreFailure(op)
	}
	return translated
}

// Server-side SQLSTATE classes that mean the database itself is unreachable
// or shutting down, rather than rejecting the statement.
var unavailableClasses = []string{"08", "53", "57"}

func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return apperror.NewConflictError(op + ": record already exists")
		case strings.HasPrefix(pgErr.Code, "23"):
			return apperror.NewInternalError(op+": constraint violation", err)
		}
		for _, class := range unavailableClasses {
			if strings.HasPrefix(pgErr.Code, class) {
				return apperror.NewStoreUnavailableError(op, err)
			}
		}
		return apperror.NewInternalError(op+" failed", err)
	}

	// Timeouts, refused connections, broken pipes.
	return apperror.NewStoreUnavailableError(op, err)
}

// mutationError carries a caller error out of a transaction untranslated
type mutationError struct {
	err error
}

func (e *mutationError) Error() string { return e.err.Error() }
func (e *mutationError) Unwrap() error { return e.err }
