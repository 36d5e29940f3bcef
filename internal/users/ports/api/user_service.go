// Package api определяет интерфейсы пользовательских сценариев.
package api

import (
	"context"

	"userboard/internal/users/domain/entities"
	"userboard/internal/users/domain/validation"
)

// UserPage представляет одну страницу пользователей вместе с общим количеством записей.
type UserPage struct {
	Users []*entities.User
	Total int
}

// UserUseCase определяет операции управления пользователями.
type UserUseCase interface {
	CreateUser(ctx context.Context, payload validation.CreationPayload) (*entities.User, error)

	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)

	GetUser(ctx context.Context, id int64) (*entities.User, error)

	UpdateUser(ctx context.Context, id int64, name, email *string) (*entities.User, error)

	DeleteUser(ctx context.Context, id int64) error
}
