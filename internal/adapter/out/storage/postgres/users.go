package postgres

import (
	"context"
	"fmt"
	"strings"

	"userbase/internal/model"
	"userbase/internal/service"
	"userbase/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db DB, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		db:     db,
		getter: getter,
	}
}

var returningUser = "RETURNING " + strings.Join(tableinfo.UserColumns, ", ")

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}

	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserIDColumn,
			tableinfo.UserFirstNameColumn,
			tableinfo.UserLastNameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(in.ID, in.FirstName, in.LastName, in.Email, in.PasswordHash).
		Suffix(returningUser).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := scanUser(executor(ctx, s.db, s.getter).QueryRow(ctx, query, args...))
	if err != nil {
		return model.User{}, mapError(err, "exec insert user")
	}
	return out, nil
}

func (s *UserStorage) getUserBy(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := sq.
		Select(tableinfo.UserColumns...).
		From(tableinfo.UsersTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := scanUser(executor(ctx, s.db, s.getter).QueryRow(ctx, query, args...))
	if err != nil {
		return model.User{}, mapError(err, "exec select user")
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	return s.getUserBy(ctx, sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.getUserBy(ctx, sq.Eq{tableinfo.UserEmailColumn: email})
}

func (s *UserStorage) CountUsers(ctx context.Context) (int64, error) {
	query, args, err := sq.
		Select("COUNT(*)").
		From(tableinfo.UsersTableName).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var total int64
	if err := executor(ctx, s.db, s.getter).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("exec count users: %w", err)
	}
	return total, nil
}

func listUsersQueryBuilder(offset, limit int64) (sq.SelectBuilder, error) {
	if limit <= 0 {
		return sq.SelectBuilder{}, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	if offset < 0 {
		return sq.SelectBuilder{}, fmt.Errorf("%w: offset must be >= 0, got %d", service.ErrInvalidRequest, offset)
	}
	return sq.
		Select(tableinfo.UserColumns...).
		From(tableinfo.UsersTableName).
		OrderBy(
			tableinfo.UserCreatedAtColumn+" ASC",
			tableinfo.UserIDColumn+" ASC",
		).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar), nil
}

func (s *UserStorage) ListUsers(ctx context.Context, offset, limit int64) ([]model.User, error) {
	qb, err := listUsersQueryBuilder(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingQuery, err)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := executor(ctx, s.db, s.getter).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select users: %w", err)
	}
	defer rows.Close()

	out := make([]model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *UserStorage) UpdateUser(ctx context.Context, in model.User) (model.User, error) {
	qb := sq.
		Update(tableinfo.UsersTableName).
		Set(tableinfo.UserFirstNameColumn, in.FirstName).
		Set(tableinfo.UserLastNameColumn, in.LastName).
		Set(tableinfo.UserEmailColumn, in.Email).
		Set(tableinfo.UserUpdatedAtColumn, sq.Expr("NOW()"))
	if in.PasswordHash != "" {
		qb = qb.Set(tableinfo.UserPasswordHashColumn, in.PasswordHash)
	}

	query, args, err := qb.
		Where(sq.Eq{tableinfo.UserIDColumn: in.ID}).
		Suffix(returningUser).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := scanUser(executor(ctx, s.db, s.getter).QueryRow(ctx, query, args...))
	if err != nil {
		return model.User{}, mapError(err, "exec update user")
	}
	return out, nil
}

func (s *UserStorage) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	query, args, err := sq.
		Delete(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserIDColumn: userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := executor(ctx, s.db, s.getter).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "exec delete user")
	}
	return nil
}
