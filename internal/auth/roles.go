package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/file-management/pkg/util/errorutil"
)

// RequireRole ensures the caller's token carries one of the allowed roles.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, role := range allowed {
			if principal.Identity.HasClaim(ClaimRole, role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// RequireAPIAccess is the policy guarding the file API.
func RequireAPIAccess() fiber.Handler {
	return RequireRole(RoleAPIAccess)
}
