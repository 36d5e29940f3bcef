// Package dto содержит объекты передачи данных HTTP API пользователей.
package dto

import (
	"time"

	"userboard/internal/users/domain/entities"
	"userboard/internal/users/domain/validation"
)

// Статусы единого конверта ответа.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// CreateUserRequest содержит данные для создания пользователя.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest содержит частичное обновление пользователя.
// Отсутствующее поле не изменяется.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UserResponse содержит данные пользователя в ответах API.
// Пароль в ответы не сериализуется.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse преобразует доменную сущность в ответ API.
func NewUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses преобразует срез сущностей в ответы API.
func NewUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

// SuccessEnvelope - конверт успешного ответа.
type SuccessEnvelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ListEnvelope - конверт ответа со страницей пользователей.
type ListEnvelope struct {
	Status string         `json:"status"`
	Total  int            `json:"total"`
	Data   []UserResponse `json:"data"`
}

// FailEnvelope - конверт ответа о нарушениях валидации или конфликте.
type FailEnvelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Errors  []validation.Violation `json:"errors,omitempty"`
}

// ErrorEnvelope - конверт ответа о внутренней ошибке.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
