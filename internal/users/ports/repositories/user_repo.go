package repositories

import (
	"context"

	"userboard/internal/users/domain/entities"
)

// UserRepository определяет интерфейс для операций сохранения данных пользователей.
type UserRepository interface {
	Create(ctx context.Context, name, email, password string) (*entities.User, error)

	List(ctx context.Context, limit, offset int) ([]*entities.User, int, error)

	GetByID(ctx context.Context, id int64) (*entities.User, error)

	Update(ctx context.Context, id int64, name, email *string) (*entities.User, error)

	Delete(ctx context.Context, id int64) error
}
