package middleware

import (
	"strings"

	"courier-backend/constants"
	"courier-backend/services/token"
	"courier-backend/types"

	"github.com/gofiber/fiber/v2"
)

// Protected requires a valid session token without any role constraint.
func Protected() fiber.Handler {
	return requireRoles(constants.RoleAny)
}

// RequireRoles requires a valid session token whose role is in the given
// set.
func RequireRoles(roles ...string) fiber.Handler {
	return requireRoles(roles...)
}

// GetUserID returns the authenticated account id stored by the middleware.
func GetUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}

// GetUserRole returns the authenticated account role stored by the
// middleware.
func GetUserRole(c *fiber.Ctx) (string, bool) {
	role, ok := c.Locals("role").(string)
	return role, ok
}

func requireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
					Message: "Invalid authorization header format",
				})
			}
			tokenString = tokenParts[1]
		} else {
			// Cookie fallback for browser clients
			tokenString = c.Cookies("access")
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
					Message: "Authorization token missing",
				})
			}
		}

		claims, err := token.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Message: "Invalid or expired token",
			})
		}

		if !roleAllowed(claims.Role, roles) {
			return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
				Message: deniedMessage(roles),
			})
		}

		c.Locals("userID", claims.ID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

func roleAllowed(role string, required []string) bool {
	for _, r := range required {
		if r == constants.RoleAny || r == role {
			return true
		}
	}
	return false
}

// deniedMessage names the roles a route accepts, e.g. "Access denied. Agent
// or Admin only."
func deniedMessage(roles []string) string {
	titled := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		titled = append(titled, strings.ToUpper(r[:1])+r[1:])
	}
	return "Access denied. " + strings.Join(titled, " or ") + " only."
}
