package middleware

import (
	"strconv"
	"strings"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const principalKey = "principal"

// RequireAuth verifies the bearer token and stores the authenticated
// principal on the request. Claims: sub carries the account id, role the
// account role.
func RequireAuth(secret string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c)
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("invalid bearer token", zap.Error(err))
			return unauthorized(c)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c)
		}

		subject, err := claims.GetSubject()
		if err != nil {
			return unauthorized(c)
		}

		accountID, err := strconv.ParseInt(subject, 10, 64)
		if err != nil {
			return unauthorized(c)
		}

		role, _ := claims["role"].(string)
		principal := auth.Principal{AccountID: accountID, Role: model.Role(role)}
		if !principal.Role.Valid() {
			return unauthorized(c)
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated caller set by RequireAuth.
func Principal(c *fiber.Ctx) auth.Principal {
	principal, _ := c.Locals(principalKey).(auth.Principal)
	return principal
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(constants.GetHTTPStatus(constants.ErrCodeUnauthorized)).JSON(fiber.Map{
		"code":    constants.ErrCodeUnauthorized,
		"message": constants.GetErrorMessage(constants.ErrCodeUnauthorized),
	})
}
