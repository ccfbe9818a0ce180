// Package fileService implements the sharing and access-control engine:
// file lifecycle, share grants, stars, access checks and the user-facing
// aggregate views. All identity comes in as an already-authenticated user id;
// there is no fallback identity anywhere in this package.
package fileService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
	"filesharing-service/internal/notifier"
	"filesharing-service/internal/repository/fileRepo"
	"filesharing-service/internal/repository/shareRepo"
	"filesharing-service/internal/repository/starRepo"
	"filesharing-service/internal/repository/userRepo"
)

// BlobStore is the byte storage collaborator, implemented by
// MinIO.MinIOClient. The engine only ever touches opaque storage keys.
type BlobStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
}

type FileService struct {
	fileRepo  *fileRepo.FileRepository
	shareRepo *shareRepo.ShareRepository
	starRepo  *starRepo.StarRepository
	userRepo  *userRepo.UserRepo
	blobs     BlobStore
	notifier  notifier.Notifier
	logger    *zap.Logger
}

func New(
	fileRepo *fileRepo.FileRepository,
	shareRepo *shareRepo.ShareRepository,
	starRepo *starRepo.StarRepository,
	userRepo *userRepo.UserRepo,
	blobs BlobStore,
	notifier notifier.Notifier,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		shareRepo: shareRepo,
		starRepo:  starRepo,
		userRepo:  userRepo,
		blobs:     blobs,
		notifier:  notifier,
		logger:    logger,
	}
}

// UploadFile stores the blob first and the metadata row second. A metadata
// failure deletes the just-written blob so no orphan bytes remain; a blob
// failure aborts with no metadata row at all.
func (s *FileService) UploadFile(ctx context.Context, ownerID uint32, name, contentType string, data io.Reader, size int64) (*fileInfo.File, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: missing owner", errs.ErrUnauthorized)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty file name", errs.ErrInvalidInput)
	}

	fileID := uuid.New()
	storageKey := fmt.Sprintf("%d/%s", ownerID, fileID)
	if err := s.blobs.UploadFile(ctx, storageKey, data, size, contentType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	file := &fileInfo.File{
		ID:           fileID,
		OwnerID:      ownerID,
		StorageKey:   storageKey,
		Size:         size,
		ContentType:  contentType,
		OriginalName: name,
		IsPublic:     false,
		CreatedAt:    time.Now(),
	}
	if err := s.fileRepo.CreateFile(ctx, file); err != nil {
		_ = s.blobs.DeleteFile(ctx, storageKey)
		return nil, fmt.Errorf("create file entry: %w", err)
	}
	return file, nil
}

func (s *FileService) GetFile(ctx context.Context, fileID uuid.UUID) (*fileInfo.File, error) {
	return s.fileRepo.GetFileByID(ctx, fileID)
}

func (s *FileService) ListFilesByOwner(ctx context.Context, ownerID uint32) ([]*fileInfo.File, error) {
	return s.fileRepo.ListFilesByOwner(ctx, ownerID)
}

// EmailForUser resolves the caller's email, the key shares are addressed by.
// Unresolvable identity is an error, not a placeholder.
func (s *FileService) EmailForUser(ctx context.Context, userID uint32) (string, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// DownloadFile opens the blob for any principal CanAccess admits.
func (s *FileService) DownloadFile(ctx context.Context, fileID uuid.UUID, userID uint32) (io.ReadCloser, *fileInfo.File, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	ok, err := s.canAccessFile(ctx, file, userID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errs.ErrForbidden
	}
	reader, err := s.blobs.DownloadFile(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download blob: %w", err)
	}
	return reader, file, nil
}

// DeleteFile removes a file and everything hanging off it. Ordering matters:
// shares are deactivated and stars removed first, then the blob (best
// effort), and the metadata row goes last as the operation of record. If the
// row delete fails the file still exists; leftover inactive shares or
// missing stars are harmless.
func (s *FileService) DeleteFile(ctx context.Context, fileID uuid.UUID, requesterID uint32) error {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != requesterID {
		return fmt.Errorf("%w: only owner can delete file", errs.ErrForbidden)
	}

	if err := s.shareRepo.DeactivateAllForFile(ctx, fileID); err != nil {
		return fmt.Errorf("deactivate shares: %w", err)
	}
	if err := s.starRepo.DeleteAllForFile(ctx, fileID); err != nil {
		return fmt.Errorf("delete stars: %w", err)
	}
	if err := s.blobs.DeleteFile(ctx, file.StorageKey); err != nil {
		s.logger.Warn("failed to delete blob, leaving orphan",
			zap.String("storage_key", file.StorageKey), zap.Error(err))
	}
	if err := s.fileRepo.DeleteFile(ctx, fileID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return nil
}

// SetFilePublic flips the visibility flag. Owner only.
func (s *FileService) SetFilePublic(ctx context.Context, fileID uuid.UUID, requesterID uint32, isPublic bool) error {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OwnerID != requesterID {
		return fmt.Errorf("%w: only owner can change visibility", errs.ErrForbidden)
	}
	return s.fileRepo.SetPublic(ctx, fileID, isPublic)
}
