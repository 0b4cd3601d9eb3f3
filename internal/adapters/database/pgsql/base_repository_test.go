package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/oneflow/internal/apperrors"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"number collision", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "invoices_number_key"}, apperrors.ErrDuplicateNumber},
		{"primary key collision", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "invoices_pkey"}, apperrors.ErrDuplicate},
		{"missing project", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "invoices_project_id_fkey"}, apperrors.ErrNotFound},
		{"check constraint", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "timesheets_hours_check"}, apperrors.ErrValidation},
		{"malformed uuid", &pgconn.PgError{Code: pgInvalidTextRepr}, apperrors.ErrValidation},
		{"numeric overflow", &pgconn.PgError{Code: pgNumericOutOfRange}, apperrors.ErrValidation},
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, apperrors.ErrAggregateConflict},
		{"deadlock", &pgconn.PgError{Code: pgDeadlockDetected}, apperrors.ErrAggregateConflict},
		{"lock timeout", &pgconn.PgError{Code: pgLockNotAvailable}, apperrors.ErrAggregateConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err, "test op"), tt.want)
		})
	}
}

func TestMapPgError_UnknownErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	err := mapPgError(cause, "save project")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.KindInternal, apperrors.Kind(err))
	assert.NoError(t, mapPgError(nil, "noop"))
}

func TestMapPgError_NumberCollisionIsAlsoDuplicate(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "sales_orders_number_key"}, "save")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.KindDuplicateNumber, apperrors.Kind(err))
}

func TestAllLedgerKindsHaveColumns(t *testing.T) {
	for kind := range documentTables {
		assert.Contains(t, referenceColumns, kind)
	}
	assert.Len(t, totalColumns, 2)
}
