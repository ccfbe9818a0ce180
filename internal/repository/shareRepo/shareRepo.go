package shareRepo

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

type ShareRepository struct {
	db postgres.PgxPool
}

func New(db postgres.PgxPool) *ShareRepository {
	return &ShareRepository{db: db}
}

const shareColumns = `id, file_id, owner_id, shared_with_email, shared_with_id, can_edit, shared_date, expire_date, access_link, is_active`

// CreateShare inserts an active share. The partial unique index on
// (file_id, shared_with_email) WHERE is_active makes concurrent duplicates
// lose with ErrAlreadyShared instead of racing a check-then-insert.
func (r *ShareRepository) CreateShare(ctx context.Context, share *fileInfo.FileShare) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO file_shares (`+shareColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		share.ID, share.FileID, share.OwnerID, share.SharedWithEmail, share.SharedWithID,
		share.CanEdit, share.SharedAt, share.ExpiresAt, share.AccessLink, share.IsActive)
	if postgres.IsUniqueViolation(err) {
		return errs.ErrAlreadyShared
	}
	if err != nil {
		return fmt.Errorf("insert share: %w", err)
	}
	return nil
}

// Deactivate flips the active share for (fileID, email) to inactive.
// Returns false when no active share matched.
func (r *ShareRepository) Deactivate(ctx context.Context, fileID uuid.UUID, email string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE file_shares SET is_active = FALSE
		 WHERE file_id = $1 AND shared_with_email = $2 AND is_active`,
		fileID, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ShareRepository) DeactivateAllForFile(ctx context.Context, fileID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE file_shares SET is_active = FALSE WHERE file_id = $1 AND is_active`, fileID)
	return err
}

func (r *ShareRepository) DeactivateAllForOwner(ctx context.Context, ownerID uint32) error {
	_, err := r.db.Exec(ctx,
		`UPDATE file_shares SET is_active = FALSE WHERE owner_id = $1 AND is_active`, ownerID)
	return err
}

func (r *ShareRepository) ExistsActive(ctx context.Context, fileID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM file_shares WHERE file_id = $1 AND shared_with_email = $2 AND is_active)`,
		fileID, email).Scan(&exists)
	return exists, err
}

func (r *ShareRepository) GetActive(ctx context.Context, fileID uuid.UUID, email string) (*fileInfo.FileShare, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+shareColumns+` FROM file_shares
		 WHERE file_id = $1 AND shared_with_email = $2 AND is_active`,
		fileID, email)
	share, err := scanShare(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return share, err
}

func (r *ShareRepository) ListActiveForRecipient(ctx context.Context, email string) ([]*fileInfo.FileShare, error) {
	return r.listActive(ctx,
		`SELECT `+shareColumns+` FROM file_shares WHERE shared_with_email = $1 AND is_active`, email)
}

func (r *ShareRepository) ListActiveForOwner(ctx context.Context, ownerID uint32) ([]*fileInfo.FileShare, error) {
	return r.listActive(ctx,
		`SELECT `+shareColumns+` FROM file_shares WHERE owner_id = $1 AND is_active`, ownerID)
}

func (r *ShareRepository) ListActiveForFile(ctx context.Context, fileID uuid.UUID) ([]*fileInfo.FileShare, error) {
	return r.listActive(ctx,
		`SELECT `+shareColumns+` FROM file_shares WHERE file_id = $1 AND is_active`, fileID)
}

func (r *ShareRepository) listActive(ctx context.Context, query string, arg any) ([]*fileInfo.FileShare, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*fileInfo.FileShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func scanShare(row pgx.Row) (*fileInfo.FileShare, error) {
	var s fileInfo.FileShare
	err := row.Scan(&s.ID, &s.FileID, &s.OwnerID, &s.SharedWithEmail, &s.SharedWithID,
		&s.CanEdit, &s.SharedAt, &s.ExpiresAt, &s.AccessLink, &s.IsActive)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
