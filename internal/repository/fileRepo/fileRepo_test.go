package fileRepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *FileRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mock, New(mock)
}

var fileCols = []string{"id", "owner_id", "storage_key", "file_size", "file_type", "original_name", "is_public", "access_code", "created_at"}

func TestCreateFile(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	file := &fileInfo.File{
		ID:           uuid.New(),
		OwnerID:      7,
		StorageKey:   "7/abc",
		Size:         1024,
		ContentType:  "text/plain",
		OriginalName: "notes.txt",
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec(`INSERT INTO files`).
		WithArgs(file.ID, file.OwnerID, file.StorageKey, file.Size, file.ContentType,
			file.OriginalName, file.IsPublic, file.AccessCode, file.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.CreateFile(context.Background(), file))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFileByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	fileID := uuid.New()
	mock.ExpectQuery(`SELECT id, owner_id, storage_key`).
		WithArgs(fileID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetFileByID(context.Background(), fileID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFileByID_OK(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	fileID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT id, owner_id, storage_key`).
		WithArgs(fileID).
		WillReturnRows(pgxmock.NewRows(fileCols).
			AddRow(fileID, uint32(7), "7/abc", int64(1024), "text/plain", "notes.txt", false, "", now))

	file, err := repo.GetFileByID(context.Background(), fileID)
	require.NoError(t, err)
	require.Equal(t, fileID, file.ID)
	require.Equal(t, uint32(7), file.OwnerID)
	require.Equal(t, "notes.txt", file.OriginalName)
	require.False(t, file.IsPublic)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilesByOwner(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM files WHERE owner_id = \$1`).
		WithArgs(uint32(7)).
		WillReturnRows(pgxmock.NewRows(fileCols).
			AddRow(uuid.New(), uint32(7), "7/a", int64(1), "a/b", "a", false, "", now).
			AddRow(uuid.New(), uint32(7), "7/b", int64(2), "a/b", "b", true, "", now))

	files, err := repo.ListFilesByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteFile_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	fileID := uuid.New()
	mock.ExpectExec(`DELETE FROM files WHERE id = \$1`).
		WithArgs(fileID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteFile(context.Background(), fileID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPublic(t *testing.T) {
	mock, repo := newMock(t)
	defer mock.Close()

	fileID := uuid.New()
	mock.ExpectExec(`UPDATE files SET is_public = \$1 WHERE id = \$2`).
		WithArgs(true, fileID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetPublic(context.Background(), fileID, true))
	require.NoError(t, mock.ExpectationsWereMet())
}
