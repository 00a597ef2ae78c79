package serverutils

import (
	"smart-notes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ErrorBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// UserIdFromLocals reads the id stored by the JWT middleware.
func UserIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals(LocalUserId).(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	return userId, nil
}

// TokenFromLocals returns the raw bearer token of the current request.
func TokenFromLocals(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(LocalToken).(string)
	return token
}
