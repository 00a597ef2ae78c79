package serverutils

import (
	"strings"

	"smart-notes-be/internal/pkg/jwtauth"
	"smart-notes-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserId = "user_id"
	LocalToken  = "token"
)

// NewJwtMiddleware rejects requests without a valid, unrevoked Bearer token.
// On success the user id (string) and the raw token are stored in Locals.
func NewJwtMiddleware(jwt *jwtauth.Manager, revocations contract.TokenRevocationRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return unauthorized(ctx, "Missing token")
		}
		tokenStr := strings.TrimSpace(authHeader[7:])
		if tokenStr == "" {
			return unauthorized(ctx, "Missing token")
		}

		claims, err := jwt.Parse(tokenStr)
		if err != nil {
			return unauthorized(ctx, "Invalid token")
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(ctx.UserContext(), jwtauth.Fingerprint(tokenStr))
			if err != nil {
				return err
			}
			if revoked {
				return unauthorized(ctx, "Token has been revoked")
			}
		}

		ctx.Locals(LocalUserId, claims.UserId.String())
		ctx.Locals(LocalToken, tokenStr)
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}
