package postgres

import (
	"context"
	"fmt"
	"strings"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

type TodoRepository struct {
	s *Store
}

const todoColumns = `id, title, description, completed, priority, username, date_created, date_updated`

var todoSortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"completed":   "completed",
	"priority":    "CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END",
	"owner":       "username",
	"dateCreated": "date_created",
	"dateUpdated": "date_updated",
}

var filterColumns = map[repository.Field]string{
	repository.FieldOwner:     "username",
	repository.FieldTitle:     "title",
	repository.FieldPriority:  "priority",
	repository.FieldCompleted: "completed",
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var t domain.Todo
	var priority string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &priority, &t.Owner, &t.DateCreated, &t.DateUpdated)
	if err != nil {
		return domain.Todo{}, err
	}
	t.Priority = domain.Priority(priority)
	return t, nil
}

// where renders the filter as a conjunction of parameterized equalities.
func where(filter repository.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	if err := filter.Validate(); err != nil {
		return "", nil, err
	}

	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, p := range filter {
		value := p.Value
		if prio, ok := value.(domain.Priority); ok {
			value = string(prio)
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", filterColumns[p.Field], len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id int64) (domain.Todo, error) {
	row := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`+forUpdate(ctx), id)
	t, err := scanTodo(row)
	if err != nil {
		return domain.Todo{}, translate(err)
	}
	return t, nil
}

func (r *TodoRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM todos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check todo %d: %w", id, err)
	}
	return exists, nil
}

func (r *TodoRepository) Save(ctx context.Context, t *domain.Todo) error {
	t.Touch(r.s.now())

	if t.ID == 0 {
		err := r.s.q(ctx).QueryRowContext(ctx,
			`INSERT INTO todos (title, description, completed, priority, username, date_created, date_updated)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			t.Title, t.Description, t.Completed, string(t.Priority), t.Owner, t.DateCreated, t.DateUpdated,
		).Scan(&t.ID)
		return translate(err)
	}

	err := r.s.q(ctx).QueryRowContext(ctx,
		`UPDATE todos SET title = $1, description = $2, completed = $3, priority = $4, username = $5, date_updated = $6
		 WHERE id = $7 RETURNING date_created`,
		t.Title, t.Description, t.Completed, string(t.Priority), t.Owner, t.DateUpdated, t.ID,
	).Scan(&t.DateCreated)
	return translate(err)
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM todos WHERE username = $1`, owner)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

func (r *TodoRepository) FindAll(ctx context.Context, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	return r.FindFiltered(ctx, nil, page)
}

func (r *TodoRepository) FindByOwner(ctx context.Context, owner string, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	return r.FindFiltered(ctx, repository.Filter{repository.OwnerIs(owner)}, page)
}

func (r *TodoRepository) FindFiltered(ctx context.Context, filter repository.Filter, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	page = page.Normalize()

	cond, args, err := where(filter)
	if err != nil {
		return repository.Page[domain.Todo]{}, err
	}
	order, err := orderBy(page.Sort, todoSortColumns, "id")
	if err != nil {
		return repository.Page[domain.Todo]{}, err
	}

	var total int64
	if err := r.s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`+cond, args...).Scan(&total); err != nil {
		return repository.Page[domain.Todo]{}, fmt.Errorf("count todos: %w", err)
	}

	limit, args := limitOffset(page, args)
	rows, err := r.s.q(ctx).QueryContext(ctx, `SELECT `+todoColumns+` FROM todos`+cond+order+limit, args...)
	if err != nil {
		return repository.Page[domain.Todo]{}, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos, err := collect(rows, scanTodo)
	if err != nil {
		return repository.Page[domain.Todo]{}, fmt.Errorf("scan todos: %w", err)
	}
	return repository.NewPage(todos, page, total), nil
}
