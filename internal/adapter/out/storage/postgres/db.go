package postgres

import (
	"context"
	"errors"
	"fmt"

	"userbase/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var ErrBuildingQuery = errors.New("error building sql-query")

// DB is the subset of pgx used by the storages. *pgxpool.Pool and pgxmock
// pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// executor returns the transaction stored in ctx by the trm manager, or db
// when there is none.
func executor(ctx context.Context, db DB, getter *trmpgx.CtxGetter) DB {
	if getter == nil {
		return db
	}
	if tr, ok := db.(trmpgx.Tr); ok {
		return getter.DefaultTrOrDB(ctx, tr)
	}
	return db
}

func mapError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", service.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
