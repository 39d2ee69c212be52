package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{"timeout", context.DeadlineExceeded, apperror.KindStoreUnavailable},
		{"connection refused", errors.New("dial tcp: connection refused"), apperror.KindStoreUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, apperror.KindStoreUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, apperror.KindStoreUnavailable},
		{"unique violation", &pgconn.PgError{Code: "23505"}, apperror.KindConflict},
		{"check violation", &pgconn.PgError{Code: "23514"}, apperror.KindInternal},
		{"syntax error", &pgconn.PgError{Code: "42601"}, apperror.KindInternal},
		{"already translated", apperror.NewNotFoundError("Table"), apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperror.IsKind(translateError("load table", tt.err), tt.want))
		})
	}

	assert.NoError(t, translateError("load table", nil))
}

func TestStoreFailCountsUnavailable(t *testing.T) {
	m := metrics.New()
	s := NewStore(nil, 0, m)

	_ = s.fail("append sale", context.DeadlineExceeded)
	_ = s.fail("append sale", &pgconn.PgError{Code: "42601"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreFailures.WithLabelValues("append sale")))
}
