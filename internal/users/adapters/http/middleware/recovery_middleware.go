package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userboard/internal/users/app/dto"
	"userboard/pkg/logger"
)

// Сообщения логгера восстановления после паники.
const (
	LogServerPanic        = "server panic"
	LogPanicResponseError = "failed to send error response after panic"
	MsgInternalError      = "Internal server error"
)

// NewRecoveryMiddleware создает промежуточное ПО, перехватывающее панику
// обработчика и возвращающее клиенту error-конверт вместо обрыва соединения.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()

		defer func() {
			if r := recover(); r != nil {
				log := logger.Log(requestCtx)
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				if err := ctx.Status(fiber.StatusInternalServerError).JSON(dto.ErrorEnvelope{
					Status:  dto.StatusError,
					Message: MsgInternalError,
				}); err != nil {
					log.Error(requestCtx, LogPanicResponseError, zap.Error(err))
				}
			}
		}()

		return ctx.Next()
	}
}
