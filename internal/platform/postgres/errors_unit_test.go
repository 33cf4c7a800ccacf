package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/flashcards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantIs   error
		wantText string
	}{
		{name: "sql_no_rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:   "unique_violation",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "cards_pkey"},
			wantIs: store.ErrDuplicate,
		},
		{
			name:     "check_constraint_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "cards_ease_factor_check"},
			wantIs:   store.ErrInvalidEntity,
			wantText: "cards_ease_factor_check",
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "front"},
			wantIs:   store.ErrInvalidEntity,
			wantText: "front",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapError(tt.err)
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.wantIs)
			if tt.wantText != "" {
				assert.Contains(t, result.Error(), tt.wantText)
			}
		})
	}

	t.Run("passthrough", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, MapError(nil))

		generic := errors.New("some other error")
		assert.Same(t, generic, MapError(generic))

		unknown := &pgconn.PgError{Code: "99999", Message: "unknown error"}
		assert.Same(t, unknown, MapError(unknown))
	})
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	check := &pgconn.PgError{Code: checkViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("context: %w", unique)))
	assert.False(t, IsUniqueViolation(check))
	assert.False(t, IsUniqueViolation(errors.New("some error")))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsCheckConstraintViolation(check))
	assert.False(t, IsCheckConstraintViolation(unique))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		result     sql.Result
		entityName string
		wantErr    bool
		wantIs     error
		errorMsg   string
	}{
		{name: "nil_result", result: nil, entityName: "card", wantErr: true, errorMsg: "nil result"},
		{name: "zero_rows_with_entity", result: mockResult{}, entityName: "card", wantErr: true, wantIs: store.ErrNotFound, errorMsg: "card not found"},
		{name: "zero_rows_no_entity", result: mockResult{}, wantErr: true, wantIs: store.ErrNotFound},
		{name: "one_row", result: mockResult{rowsAffected: 1}, entityName: "card"},
		{name: "rows_affected_error", result: mockResult{err: errors.New("driver error")}, entityName: "card", wantErr: true, errorMsg: "failed to get rows affected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckRowsAffected(tt.result, tt.entityName)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.errorMsg != "" {
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()
	pgErr := &pgconn.PgError{Code: uniqueViolationCode}

	assert.ErrorIs(t, MapUniqueViolation(pgErr, "card", "", store.ErrCardExists), store.ErrCardExists)

	err := MapUniqueViolation(pgErr, "card", "", nil)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "card already exists")

	err = MapUniqueViolation(pgErr, "", "cards_pkey", nil)
	assert.Contains(t, err.Error(), "cards_pkey")

	other := errors.New("not unique")
	assert.Same(t, other, MapUniqueViolation(other, "card", "", nil))
}
