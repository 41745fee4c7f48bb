package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/file-management/internal/domain"
	"github.com/spec-kit/file-management/internal/repository"
	apperrors "github.com/spec-kit/file-management/pkg/util/errorutil"
)

const defaultContentType = "application/octet-stream"

// FileService manages file metadata owned by authenticated users.
type FileService struct {
	files repository.FileRepository
}

// NewFileService builds the service.
func NewFileService(files repository.FileRepository) *FileService {
	return &FileService{files: files}
}

// CreateFileInput carries new file metadata.
type CreateFileInput struct {
	Name        string
	ContentType string
	SizeBytes   int64
}

// Create stores metadata for a new file.
func (s *FileService) Create(ctx context.Context, ownerID string, in CreateFileInput) (*domain.File, error) {
	name := strings.TrimSpace(in.Name)
	details := map[string]any{}
	if name == "" {
		details["name"] = "name is required"
	}
	if in.SizeBytes < 0 {
		details["sizeBytes"] = "size must not be negative"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid file", details)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	file := &domain.File{
		OwnerID:     ownerID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   in.SizeBytes,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// List returns the caller's files.
func (s *FileService) List(ctx context.Context, ownerID string) ([]domain.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []domain.File{}
	}
	return files, nil
}

// Get returns one of the caller's files.
func (s *FileService) Get(ctx context.Context, ownerID, id string) (*domain.File, error) {
	if !validFileID(id) {
		return nil, fileNotFound(id)
	}
	file, err := s.files.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	return file, nil
}

// Delete removes one of the caller's files.
func (s *FileService) Delete(ctx context.Context, ownerID, id string) error {
	if !validFileID(id) {
		return fileNotFound(id)
	}
	return mapNotFound(s.files.Delete(ctx, ownerID, id), id)
}

// validFileID reports whether id can name a stored file. Ids are UUIDs, so
// anything else cannot match a row.
func validFileID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func fileNotFound(id string) error {
	return apperrors.NewNotFound("file", map[string]any{"id": id})
}

func mapNotFound(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fileNotFound(id)
	}
	return err
}
