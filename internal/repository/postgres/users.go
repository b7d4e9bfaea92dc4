package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

type UserRepository struct {
	s *Store
}

const userColumns = `login, password_hash, role, date_created, date_updated`

var userSortColumns = map[string]string{
	"login":       "login",
	"role":        "role",
	"dateCreated": "date_created",
	"dateUpdated": "date_updated",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.Login, &u.PasswordHash, &role, &u.DateCreated, &u.DateUpdated); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, login string) (domain.User, error) {
	row := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE login = $1`+forUpdate(ctx), login)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate(err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user %q: %w", login, err)
	}
	return exists, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	isNew := u.DateCreated.IsZero()
	u.Touch(r.s.now())

	if isNew {
		_, err := r.s.q(ctx).ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5)`,
			u.Login, u.PasswordHash, string(u.Role), u.DateCreated, u.DateUpdated)
		if err != nil {
			return translate(err)
		}
		return nil
	}

	err := r.s.q(ctx).QueryRowContext(ctx,
		`UPDATE users SET password_hash = $1, role = $2, date_updated = $3
		 WHERE login = $4 RETURNING date_created`,
		u.PasswordHash, string(u.Role), u.DateUpdated, u.Login).Scan(&u.DateCreated)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, login string) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM users WHERE login = $1`, login)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context, page repository.PageRequest) (repository.Page[domain.User], error) {
	return r.find(ctx, "", nil, page)
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role, page repository.PageRequest) (repository.Page[domain.User], error) {
	return r.find(ctx, " WHERE role = $1", []any{string(role)}, page)
}

func (r *UserRepository) find(ctx context.Context, where string, args []any, page repository.PageRequest) (repository.Page[domain.User], error) {
	page = page.Normalize()

	order, err := orderBy(page.Sort, userSortColumns, "login")
	if err != nil {
		return repository.Page[domain.User]{}, err
	}

	var total int64
	if err := r.s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return repository.Page[domain.User]{}, fmt.Errorf("count users: %w", err)
	}

	limit, args := limitOffset(page, args)
	rows, err := r.s.q(ctx).QueryContext(ctx, `SELECT `+userColumns+` FROM users`+where+order+limit, args...)
	if err != nil {
		return repository.Page[domain.User]{}, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users, err := collect(rows, scanUser)
	if err != nil {
		return repository.Page[domain.User]{}, fmt.Errorf("scan users: %w", err)
	}
	return repository.NewPage(users, page, total), nil
}

func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
