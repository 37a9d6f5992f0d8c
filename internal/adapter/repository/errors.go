package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps storage errors onto the usecase taxonomy. notFound is
// returned for a missing row.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, ucerrors.ErrNotFound), errors.Is(err, ucerrors.ErrConflict),
		errors.Is(err, ucerrors.ErrInvalidArgument), errors.Is(err, ucerrors.ErrStorageUnavailable):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ucerrors.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", notFound, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ucerrors.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ucerrors.ErrConflict, pgErr.Message)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", notFound, pgErr.Message)
		}
	}

	return err
}

func isConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pgErr *pgconn.PgError
	// class 08: connection exception, 57P01-03: admin shutdown / cannot connect now
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	return false
}
