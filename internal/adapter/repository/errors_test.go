package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: ucerrors.ErrClientNotFound},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, want: ucerrors.ErrConflict},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505", Message: "dup"}, want: ucerrors.ErrConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503", Message: "fk"}, want: ucerrors.ErrNotFound},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: ucerrors.ErrStorageUnavailable},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: ucerrors.ErrStorageUnavailable},
		{name: "conflict passes through", err: ucerrors.ErrDuplicateDocument, want: ucerrors.ErrDuplicateDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, ucerrors.ErrClientNotFound)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}

	assert.NoError(t, translateError(nil, ucerrors.ErrClientNotFound))

	plain := errors.New("syntax error")
	assert.Same(t, plain, translateError(plain, ucerrors.ErrClientNotFound))
}
