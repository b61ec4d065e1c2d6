package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

var domainErrors = []error{
	common.ErrorNotFound,
	common.ErrorConflict,
	common.ErrorInvalidArgument,
	common.ErrorResourceExhausted,
	common.ErrorInternal,
	common.ErrorUnauthorized,
	common.ErrorForbidden,
	context.Canceled,
}

// Classify maps an error returned by the store onto the domain error kinds.
// Domain sentinels pass through unchanged; integrity constraint violations
// become common.ErrorConflict; connection and pool failures become
// common.ErrorResourceExhausted; everything else becomes common.ErrorInternal.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			detail := pgErr.ConstraintName
			if detail == "" {
				detail = pgErr.Message
			}
			return fmt.Errorf("%w: %s", common.ErrorConflict, detail)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"), pgErr.Code == "57P03":
			return fmt.Errorf("%w: %s", common.ErrorResourceExhausted, pgErr.Message)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", common.ErrorResourceExhausted, err)
	}

	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
