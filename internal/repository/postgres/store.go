// Package postgres implements the repository contract on database/sql with
// the lib/pq driver. The schema is created by pkg/database.Migrate.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"todotracker/internal/repository"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Todos() *TodoRepository { return &TodoRepository{s: s} }

// WithinTx runs fn in one transaction. Nested calls join the outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translate(err))
	}
	return nil
}

// forUpdate locks the selected row when a transaction is open so that a
// check followed by a write cannot interleave with another request.
func forUpdate(ctx context.Context) string {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return " FOR UPDATE"
	}
	return ""
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

// orderBy renders ORDER BY for the whitelisted columns and appends the
// primary key as a tie breaker.
func orderBy(orders []repository.Order, columns map[string]string, pk string) (string, error) {
	clause := " ORDER BY "
	for _, o := range orders {
		col, ok := columns[o.Field]
		if !ok {
			return "", fmt.Errorf("%w: %q", repository.ErrBadSort, o.Field)
		}
		clause += col
		if o.Desc {
			clause += " DESC"
		}
		clause += ", "
	}
	return clause + pk, nil
}

func limitOffset(page repository.PageRequest, args []any) (string, []any) {
	n := len(args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), append(args, page.Size, page.Offset())
}
