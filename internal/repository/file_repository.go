package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/file-management/internal/domain"
)

// FileRepository persists file metadata.
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.File, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository constructs repository.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.File) error {
	const query = `
        INSERT INTO files (owner_id, name, content_type, size_bytes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		file.OwnerID,
		file.Name,
		file.ContentType,
		file.SizeBytes,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.File, error) {
	const query = `
        SELECT id, owner_id, name, content_type, size_bytes, created_at
        FROM files WHERE owner_id=$1 AND id=$2`
	var file domain.File
	if err := r.pool.QueryRow(ctx, query, ownerID, id).Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.ContentType,
		&file.SizeBytes,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error) {
	const query = `
        SELECT id, owner_id, name, content_type, size_bytes, created_at
        FROM files WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.File
	for rows.Next() {
		var file domain.File
		if err := rows.Scan(
			&file.ID,
			&file.OwnerID,
			&file.Name,
			&file.ContentType,
			&file.SizeBytes,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}

func (r *fileRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM files WHERE owner_id=$1 AND id=$2`, ownerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
