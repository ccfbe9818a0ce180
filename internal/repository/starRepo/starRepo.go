package starRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filesharing-service/pkg/database/postgres"
)

type StarRepository struct {
	db postgres.PgxPool
}

func New(db postgres.PgxPool) *StarRepository {
	return &StarRepository{db: db}
}

// Star inserts the (user, file) marker. Returns false when the pair already
// exists; the unique constraint decides the winner under concurrency.
func (r *StarRepository) Star(ctx context.Context, userID uint32, fileID uuid.UUID) (bool, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO starred_files (user_id, file_id, starred_date) VALUES ($1, $2, $3)`,
		userID, fileID, time.Now())
	if postgres.IsUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert star: %w", err)
	}
	return true, nil
}

// Unstar deletes the marker. Returns false when the file was not starred.
func (r *StarRepository) Unstar(ctx context.Context, userID uint32, fileID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM starred_files WHERE user_id = $1 AND file_id = $2`, userID, fileID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *StarRepository) IsStarred(ctx context.Context, userID uint32, fileID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM starred_files WHERE user_id = $1 AND file_id = $2)`,
		userID, fileID).Scan(&exists)
	return exists, err
}

// ListStarredIDs returns the set of file ids starred by the user.
func (r *StarRepository) ListStarredIDs(ctx context.Context, userID uint32) (map[uuid.UUID]struct{}, error) {
	rows, err := r.db.Query(ctx,
		`SELECT file_id FROM starred_files WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *StarRepository) DeleteAllForFile(ctx context.Context, fileID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM starred_files WHERE file_id = $1`, fileID)
	return err
}
