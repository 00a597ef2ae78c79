package serverutils

import (
	"time"

	"smart-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewRequestLogger writes one access log line per request.
func NewRequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		// Resolve errors here so the logged status matches what the client gets.
		if err := ctx.Next(); err != nil {
			if handlerErr := ctx.App().ErrorHandler(ctx, err); handlerErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := ctx.Response().StatusCode()

		details := map[string]interface{}{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ctx.IP(),
		}
		if userId, ok := ctx.Locals(LocalUserId).(string); ok {
			details["user_id"] = userId
		}
		if requestId, ok := ctx.Locals("requestid").(string); ok {
			details["request_id"] = requestId
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("HTTP", "Request failed", details)
		case status >= fiber.StatusBadRequest:
			log.Warn("HTTP", "Request rejected", details)
		default:
			log.Info("HTTP", "Request handled", details)
		}

		return nil
	}
}
