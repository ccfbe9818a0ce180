package fileService

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
)

// CanAccess reports whether the user may read the file: owner, public file,
// or an active share addressed to the user's email. A user whose identity
// cannot be resolved gets no access rather than a default identity.
//
// Share expiry dates and file access codes are stored but deliberately not
// consulted here; enforcing either would be an added predicate in this file.
func (s *FileService) CanAccess(ctx context.Context, fileID uuid.UUID, userID uint32) (bool, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return false, err
	}
	return s.canAccessFile(ctx, file, userID)
}

func (s *FileService) canAccessFile(ctx context.Context, file *fileInfo.File, userID uint32) (bool, error) {
	if file.OwnerID == userID {
		return true, nil
	}
	if file.IsPublic {
		return true, nil
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve principal: %w", err)
	}
	return s.shareRepo.ExistsActive(ctx, file.ID, u.Email)
}

// CanEdit reports whether the user may modify the file: owner, or an active
// share with edit permission. Public visibility grants read only.
func (s *FileService) CanEdit(ctx context.Context, fileID uuid.UUID, userID uint32) (bool, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return false, err
	}
	if file.OwnerID == userID {
		return true, nil
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve principal: %w", err)
	}

	share, err := s.shareRepo.GetActive(ctx, file.ID, u.Email)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return share.CanEdit, nil
}
