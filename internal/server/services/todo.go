package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoapp/internal/common"
	"todoapp/internal/dbx"
	"todoapp/internal/server/models"
	"todoapp/internal/server/repositories/repomanager"
)

// TodoService implements ownership-scoped todo operations. The owner ID
// always comes from the authorized account, never from the request.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{
		db:          db,
		repomanager: m,
	}
}

func (s *TodoService) Create(ctx context.Context, ownerID int64, todo *models.Todo) (*models.Todo, error) {
	todo.OwnerID = ownerID

	repo := s.repomanager.Todos(s.db)
	created, err := repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}
	return created, nil
}

func (s *TodoService) List(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	items, err := repo.SelectByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}
	return items, nil
}

// Update applies a partial update as a transactional read-modify-write.
// A todo that does not exist or belongs to another owner reports
// common.ErrorNotFound from either step.
func (s *TodoService) Update(ctx context.Context, ownerID, id int64, upd models.TodoUpdate) (*models.Todo, error) {
	var updated *models.Todo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)

		todo, err := repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			todo.Title = *upd.Title
		}
		if upd.Description != nil {
			todo.Description = *upd.Description
		}
		if upd.DueDate != nil {
			todo.DueDate = *upd.DueDate
		}
		if upd.Completed != nil {
			todo.Completed = *upd.Completed
		}

		if err := repo.Update(ctx, todo); err != nil {
			return err
		}

		updated = todo
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating todo: %w", err)
	}

	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id int64) error {
	repo := s.repomanager.Todos(s.db)
	if err := repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting todo: %w", err)
	}
	return nil
}
