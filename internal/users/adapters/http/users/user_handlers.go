// Package users содержит HTTP обработчики для работы с пользователями.
package users

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userboard/internal/users/app/dto"
	"userboard/internal/users/domain/entities"
	"userboard/internal/users/domain/validation"
	"userboard/internal/users/ports/api"
	"userboard/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreateUser = "users handler: create user"
	LogHandlerListUsers  = "users handler: list users"
	LogHandlerGetUser    = "users handler: get user"
	LogHandlerUpdateUser = "users handler: update user"
	LogHandlerDeleteUser = "users handler: delete user"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Сообщения, возвращаемые клиенту.
const (
	MsgValidationFailed    = "Validation failed"
	MsgEmailExists         = "Email already exists"
	MsgUserNotFound        = "User not found"
	MsgInternalServerError = "Internal server error"
	MsgInvalidUserID       = "User ID must be a positive integer"
	MsgInvalidPageParams   = "Pagination parameters must be positive integers"
	MsgEmptyUpdatePayload  = "At least one of name or email must be provided"
	MsgUserDeleted         = "User deleted"
)

// Параметры запроса страницы и их значения по умолчанию.
const (
	QueryParamPage  = "_page"
	QueryParamLimit = "_limit"
	DefaultPage     = "1"
	DefaultLimit    = "10"

	// HeaderTotalCount - заголовок с общим числом записей для клиентской пагинации.
	HeaderTotalCount = "X-Total-Count"
)

// Handler содержит HTTP обработчики операций с пользователями.
type Handler struct {
	userService api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(userService api.UserUseCase) *Handler {
	return &Handler{
		userService: userService,
	}
}

// sendFail отправляет fail-конверт с указанным статусом.
func sendFail(ctx fiber.Ctx, statusCode int, message string, violations []validation.Violation) error {
	if err := ctx.Status(statusCode).JSON(dto.FailEnvelope{
		Status:  dto.StatusFail,
		Message: message,
		Errors:  violations,
	}); err != nil {
		return fmt.Errorf("error sending fail response: %w", err)
	}
	return nil
}

// sendError отправляет error-конверт без внутренних деталей ошибки.
func sendError(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(dto.ErrorEnvelope{
		Status:  dto.StatusError,
		Message: message,
	}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}

// sendDomainError переводит ошибку доменного слоя в HTTP ответ согласно
// таксономии: нарушения валидации и конфликт email возвращаются клиенту
// подробно, остальное скрывается за общим сообщением.
func sendDomainError(ctx fiber.Ctx, err error) error {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return sendFail(ctx, http.StatusBadRequest, MsgValidationFailed, verr.Violations)
	case errors.Is(err, entities.ErrEmailTaken):
		return sendFail(ctx, http.StatusConflict, MsgEmailExists, nil)
	case errors.Is(err, entities.ErrUserNotFound):
		return sendFail(ctx, http.StatusNotFound, MsgUserNotFound, nil)
	case errors.Is(err, entities.ErrInvalidUserID):
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidUserID, nil)
	case errors.Is(err, entities.ErrEmptyUpdatePayload):
		return sendFail(ctx, http.StatusBadRequest, MsgEmptyUpdatePayload, nil)
	default:
		return sendError(ctx, http.StatusInternalServerError, MsgInternalServerError)
	}
}

// parseUserID извлекает ID пользователя из параметров пути.
func parseUserID(ctx fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing user id: %w", err)
	}
	return id, nil
}

// CreateUser обрабатывает запрос на создание пользователя.
func (h *Handler) CreateUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreateUser)

	var req dto.CreateUserRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendFail(ctx, http.StatusBadRequest, ErrorInvalidRequest, nil)
	}

	created, err := h.userService.CreateUser(requestCtx, validation.CreationPayload{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendDomainError(ctx, err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.SuccessEnvelope{
		Status: dto.StatusSuccess,
		Data:   dto.NewUserResponse(created),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// ListUsers обрабатывает запрос страницы пользователей.
// Общее число записей возвращается в заголовке X-Total-Count и в конверте.
func (h *Handler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListUsers)

	pageStr := ctx.Query(QueryParamPage, DefaultPage)
	limitStr := ctx.Query(QueryParamLimit, DefaultLimit)

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidPageParams, nil)
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidPageParams, nil)
	}

	userPage, err := h.userService.ListUsers(requestCtx, page, limit)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendDomainError(ctx, err)
	}

	ctx.Set(HeaderTotalCount, strconv.Itoa(userPage.Total))
	if err := ctx.Status(http.StatusOK).JSON(dto.ListEnvelope{
		Status: dto.StatusSuccess,
		Total:  userPage.Total,
		Data:   dto.NewUserResponses(userPage.Users),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// GetUser обрабатывает запрос одного пользователя по ID.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetUser)

	id, err := parseUserID(ctx)
	if err != nil {
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidUserID, nil)
	}

	user, err := h.userService.GetUser(requestCtx, id)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendDomainError(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.SuccessEnvelope{
		Status: dto.StatusSuccess,
		Data:   dto.NewUserResponse(user),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// UpdateUser обрабатывает частичное обновление имени и email пользователя.
func (h *Handler) UpdateUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateUser)

	id, err := parseUserID(ctx)
	if err != nil {
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidUserID, nil)
	}

	var req dto.UpdateUserRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendFail(ctx, http.StatusBadRequest, ErrorInvalidRequest, nil)
	}

	updated, err := h.userService.UpdateUser(requestCtx, id, req.Name, req.Email)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendDomainError(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.SuccessEnvelope{
		Status: dto.StatusSuccess,
		Data:   dto.NewUserResponse(updated),
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// DeleteUser обрабатывает удаление пользователя. Ответ успешен и для
// несуществующего ID согласно идемпотентному контракту хранилища.
func (h *Handler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteUser)

	id, err := parseUserID(ctx)
	if err != nil {
		return sendFail(ctx, http.StatusBadRequest, MsgInvalidUserID, nil)
	}

	if err := h.userService.DeleteUser(requestCtx, id); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendDomainError(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.SuccessEnvelope{
		Status: dto.StatusSuccess,
		Data:   MsgUserDeleted,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
