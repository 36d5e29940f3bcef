// Package entities содержит основные сущности домена пользователей.
package entities

import (
	"errors"
	"time"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrStoreUnavailable   = errors.New("user store is unavailable")
	ErrInvalidUserID      = errors.New("user ID must be a positive integer")
	ErrEmptyUpdatePayload = errors.New("update payload must carry name or email")
)

// User представляет основную сущность домена пользователя.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}
