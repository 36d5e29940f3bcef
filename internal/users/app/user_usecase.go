// Package app содержит пользовательские сценарии сервиса.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"userboard/internal/users/domain/entities"
	"userboard/internal/users/domain/validation"
	"userboard/internal/users/ports/api"
	"userboard/internal/users/ports/repositories"
	"userboard/pkg/logger"
)

const (
	methodCreateUser = "CreateUser"
	methodListUsers  = "ListUsers"
	methodGetUser    = "GetUser"
	methodUpdateUser = "UpdateUser"
	methodDeleteUser = "DeleteUser"

	msgCreatingUser        = "creating user"
	msgPayloadRejected     = "creation payload rejected by validation"
	msgUserCreated         = "user created successfully"
	msgListingUsers        = "listing users"
	msgUsersListed         = "users page retrieved"
	msgRequestingUser      = "requesting user"
	msgUserRetrieved       = "user retrieved"
	msgUpdatingUser        = "updating user"
	msgUserUpdated         = "user updated successfully"
	msgDeletingUser        = "deleting user"
	msgUserDeleted         = "user deletion completed"
	msgInvalidUserID       = "invalid user ID provided"
	msgEmptyUpdateProvided = "update payload carries no fields"

	msgErrCreateUser = "failed to create user"
	msgErrListUsers  = "failed to list users"
	msgErrFindUser   = "failed to find user by ID"
	msgErrUpdateUser = "failed to update user"
	msgErrDeleteUser = "failed to delete user"

	errCtxValidatingPayload = "validating creation payload"
	errCtxValidatingUserID  = "validating user ID"
	errCtxValidatingUpdate  = "validating update payload"
	errCtxCreatingUser      = "creating user"
	errCtxListingUsers      = "listing users"
	errCtxFetchingUser      = "fetching user"
	errCtxUpdatingUser      = "updating user"
	errCtxDeletingUser      = "deleting user"
)

// UserUseCaseImpl реализует интерфейс api.UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
}

// NewUserUseCase создает новый экземпляр сервиса управления пользователями.
func NewUserUseCase(userRepo repositories.UserRepository) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo: userRepo,
	}
}

// CreateUser проверяет payload и создает пользователя. При нарушениях
// валидации хранилище не затрагивается.
func (u *UserUseCaseImpl) CreateUser(ctx context.Context, payload validation.CreationPayload) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateUser), zap.String("email", payload.Email))
	log.Debug(ctx, msgCreatingUser)

	if verr := validation.ValidateCreation(payload); verr != nil {
		log.Debug(ctx, msgPayloadRejected, zap.Int("violations", len(verr.Violations)))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPayload, verr)
	}

	created, err := u.userRepo.Create(ctx, payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserCreated, zap.Int64("userID", created.ID))
	return created, nil
}

// ListUsers возвращает страницу пользователей и общее число записей.
// Номер страницы вне диапазона дает пустую страницу, а не ошибку.
func (u *UserUseCaseImpl) ListUsers(ctx context.Context, page, limit int) (*api.UserPage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListUsers), zap.Int("page", page), zap.Int("limit", limit))
	log.Debug(ctx, msgListingUsers)

	offset := (page - 1) * limit

	users, total, err := u.userRepo.List(ctx, limit, offset)
	if err != nil {
		log.Error(ctx, msgErrListUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	log.Info(ctx, msgUsersListed, zap.Int("count", len(users)), zap.Int("total", total))
	return &api.UserPage{Users: users, Total: total}, nil
}

// GetUser получает пользователя по ID.
func (u *UserUseCaseImpl) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUser), zap.Int64("userID", id))
	log.Debug(ctx, msgRequestingUser)

	if id <= 0 {
		log.Debug(ctx, msgInvalidUserID)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUserID, entities.ErrInvalidUserID)
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		log.Error(ctx, msgErrFindUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingUser, err)
	}

	log.Debug(ctx, msgUserRetrieved)
	return user, nil
}

// UpdateUser применяет частичное обновление name/email.
func (u *UserUseCaseImpl) UpdateUser(ctx context.Context, id int64, name, email *string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.Int64("userID", id))
	log.Debug(ctx, msgUpdatingUser)

	if id <= 0 {
		log.Debug(ctx, msgInvalidUserID)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUserID, entities.ErrInvalidUserID)
	}
	if name == nil && email == nil {
		log.Debug(ctx, msgEmptyUpdateProvided)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUpdate, entities.ErrEmptyUpdatePayload)
	}

	updated, err := u.userRepo.Update(ctx, id, name, email)
	if err != nil {
		log.Error(ctx, msgErrUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

// DeleteUser удаляет пользователя по ID. Операция идемпотентна.
func (u *UserUseCaseImpl) DeleteUser(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.Int64("userID", id))
	log.Debug(ctx, msgDeletingUser)

	if err := u.userRepo.Delete(ctx, id); err != nil {
		log.Error(ctx, msgErrDeleteUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}
