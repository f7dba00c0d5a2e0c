package todos

import (
	"context"

	"todoapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Todo, error)
	SelectByOwner(ctx context.Context, ownerID int64) ([]*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, ownerID, id int64) error
}
