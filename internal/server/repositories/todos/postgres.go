// Package todos provides the PostgreSQL-backed todo repository. Every query
// filters by owner_id; a todo is never visible outside its owner.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoapp/internal/common"
	"todoapp/internal/dbx"
	"todoapp/internal/server/models"
)

// PostgresRepository implements todo storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (owner_id, title, description, due_date, completed)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.OwnerID, todo.Title, todo.Description, todo.DueDate, todo.Completed).Scan(&todo.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Todo, error) {
	query :=
		`SELECT id, owner_id, title, description, due_date, completed FROM todos
		 WHERE id = $1 AND owner_id = $2
		 `

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&todo.ID, &todo.OwnerID, &todo.Title, &todo.Description, &todo.DueDate, &todo.Completed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	query :=
		`SELECT id, owner_id, title, description, due_date, completed FROM todos
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Todo
	for rows.Next() {
		var item models.Todo
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.DueDate, &item.Completed,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites the full row. The owner_id filter means an update against
// someone else's todo touches zero rows and reports ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query :=
		`UPDATE todos
		 SET title = $1, description = $2, due_date = $3, completed = $4
		 WHERE id = $5 AND owner_id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.DueDate, todo.Completed, todo.ID, todo.OwnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
