package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/EgorLis/my-auth/internal/domain"
)

const userColumns = "id, name, email, pass_hash, role, verified, created_at, updated_at"

// Ensure: PGRepo implements domain.UsersRepo
var _ domain.UsersRepo = (*PGRepo)(nil)

func (r *PGRepo) users() string { return fmt.Sprintf("%s.users", r.schema) }

// mapPGError переводит ошибки драйвера в доменные:
// 23505 (unique_violation) -> ErrConflict, pgx.ErrNoRows -> ErrNotFound.
func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PassHash, &u.Role, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PGRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	q := r.qb().Insert(r.users()).
		Columns("name", "email", "pass_hash", "role", "verified").
		Values(u.Name, u.Email, u.PassHash, u.Role, u.Verified).
		Suffix("RETURNING " + userColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPGError(err)
	}
	r.logger.Printf("CreateUser ok in %s id=%s email=%s", time.Since(start), out.ID, out.Email)
	return out, nil
}

func (r *PGRepo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	q := r.qb().Select(userColumns).
		From(r.users()).
		Where(sq.Eq{"email": email})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByEmail", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UserByEmail scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPGError(err)
	}
	r.logger.Printf("UserByEmail ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	q := r.qb().Select(userColumns).
		From(r.users()).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByID", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UserByID scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPGError(err)
	}
	r.logger.Printf("UserByID ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) UpdateUser(ctx context.Context, id domain.UserID, upd domain.UserUpdate) (domain.User, error) {
	q := r.qb().Update(r.users()).
		Set("name", upd.Name).
		Set("email", upd.Email).
		Set("role", upd.Role).
		Set("verified", upd.Verified).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateUser", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UpdateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPGError(err)
	}
	r.logger.Printf("UpdateUser ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) DeleteUser(ctx context.Context, id domain.UserID) error {
	q := r.qb().Delete(r.users()).Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteUser", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteUser exec error after %s: %v", time.Since(start), err)
		return mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("DeleteUser ok in %s id=%s", time.Since(start), id)
	return nil
}

func (r *PGRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	q := r.qb().Select(userColumns).
		From(r.users()).
		OrderBy("created_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListUsers", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ListUsers query error after %s: %v", time.Since(start), err)
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("ListUsers ok in %s count=%d", time.Since(start), len(out))
	return out, nil
}
