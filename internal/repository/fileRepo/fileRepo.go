package fileRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
	"filesharing-service/pkg/database/postgres"
)

type FileRepository struct {
	db postgres.PgxPool
}

func New(db postgres.PgxPool) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) CreateFile(ctx context.Context, file *fileInfo.File) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO files (id, owner_id, storage_key, file_size, file_type, original_name, is_public, access_code, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		file.ID, file.OwnerID, file.StorageKey, file.Size, file.ContentType,
		file.OriginalName, file.IsPublic, file.AccessCode, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetFileByID(ctx context.Context, fileID uuid.UUID) (*fileInfo.File, error) {
	var file fileInfo.File
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, storage_key, file_size, file_type, original_name, is_public, access_code, created_at
		 FROM files WHERE id = $1`, fileID).
		Scan(&file.ID, &file.OwnerID, &file.StorageKey, &file.Size, &file.ContentType,
			&file.OriginalName, &file.IsPublic, &file.AccessCode, &file.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListFilesByOwner(ctx context.Context, ownerID uint32) ([]*fileInfo.File, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, storage_key, file_size, file_type, original_name, is_public, access_code, created_at
		 FROM files WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*fileInfo.File
	for rows.Next() {
		var file fileInfo.File
		if err := rows.Scan(&file.ID, &file.OwnerID, &file.StorageKey, &file.Size, &file.ContentType,
			&file.OriginalName, &file.IsPublic, &file.AccessCode, &file.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

func (r *FileRepository) SetPublic(ctx context.Context, fileID uuid.UUID, isPublic bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE files SET is_public = $1 WHERE id = $2`, isPublic, fileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteFile removes the metadata row. This is the operation of record for
// deletion: shares and stars are cleaned up by the service before this call,
// and the blob removal is best-effort.
func (r *FileRepository) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *FileRepository) FileExists(ctx context.Context, fileID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM files WHERE id = $1)`, fileID).Scan(&exists)
	return exists, err
}
