package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/file-management/internal/api/dto"
	"github.com/spec-kit/file-management/internal/auth"
	"github.com/spec-kit/file-management/internal/domain"
	"github.com/spec-kit/file-management/internal/service"
	apperrors "github.com/spec-kit/file-management/pkg/util/errorutil"
)

// FilesHandler manages the caller's file metadata.
type FilesHandler struct {
	service *service.FileService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(fileService *service.FileService) *FilesHandler {
	return &FilesHandler{service: fileService}
}

// ListFiles GET /api/files.
func (h *FilesHandler) ListFiles(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	files, err := h.service.List(c.UserContext(), ownerID)
	if err != nil {
		return err
	}
	items := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		items = append(items, fileResponse(&files[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateFile POST /api/files.
func (h *FilesHandler) CreateFile(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.CreateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	file, err := h.service.Create(c.UserContext(), ownerID, service.CreateFileInput{
		Name:        req.Name,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fileResponse(file)})
}

// GetFile GET /api/files/:id.
func (h *FilesHandler) GetFile(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	file, err := h.service.Get(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fileResponse(file)})
}

// DeleteFile DELETE /api/files/:id.
func (h *FilesHandler) DeleteFile(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// callerID returns the identity-store id of the authenticated caller.
func callerID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.UserID() == "" {
		return "", apperrors.NewUnauthorized("user required")
	}
	return principal.UserID(), nil
}

func fileResponse(file *domain.File) dto.FileResponse {
	return dto.FileResponse{
		ID:          file.ID,
		Name:        file.Name,
		ContentType: file.ContentType,
		SizeBytes:   file.SizeBytes,
		CreatedAt:   file.CreatedAt,
	}
}
