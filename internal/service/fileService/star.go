package fileService

import (
	"context"

	"github.com/google/uuid"

	"filesharing-service/internal/errs"
)

// StarFile marks the file as starred for the user. Returns false when it was
// already starred. The file must exist; stars on foreign files are allowed
// (shared files can be starred too).
func (s *FileService) StarFile(ctx context.Context, fileID uuid.UUID, userID uint32) (bool, error) {
	exists, err := s.fileRepo.FileExists(ctx, fileID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, errs.ErrNotFound
	}
	return s.starRepo.Star(ctx, userID, fileID)
}

// UnstarFile removes the marker. Returns false when the file was not starred.
func (s *FileService) UnstarFile(ctx context.Context, fileID uuid.UUID, userID uint32) (bool, error) {
	return s.starRepo.Unstar(ctx, userID, fileID)
}

func (s *FileService) IsStarred(ctx context.Context, fileID uuid.UUID, userID uint32) (bool, error) {
	return s.starRepo.IsStarred(ctx, userID, fileID)
}
