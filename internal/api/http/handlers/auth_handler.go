package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/file-management/internal/api/dto"
	"github.com/spec-kit/file-management/internal/service"
	apperrors "github.com/spec-kit/file-management/pkg/util/errorutil"
)

// AuthHandler exchanges credentials for access tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login. The body is the bare token response,
// not wrapped in a data envelope, so existing clients can read auth_token
// directly.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.UserName, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		ID:        result.UserID,
		AuthToken: result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
	})
}
