package fileService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
)

// fallback display name used in the share notification when the owner's
// account cannot be resolved.
const defaultOwnerName = "File Sharing User"

// ShareFile creates an active share of fileID with recipientEmail. Only the
// file's owner may share; ownership is re-read from the files table rather
// than trusted from the caller. The recipient does not need an account: the
// email is the share key and the user id is attached only when it resolves.
func (s *FileService) ShareFile(ctx context.Context, fileID uuid.UUID, requesterID uint32, recipientEmail string, canEdit bool) (*fileInfo.FileShare, error) {
	if recipientEmail == "" {
		return nil, fmt.Errorf("%w: recipient email is required", errs.ErrInvalidInput)
	}

	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: only owner can share file", errs.ErrForbidden)
	}

	share := &fileInfo.FileShare{
		ID:              uuid.New(),
		FileID:          fileID,
		OwnerID:         file.OwnerID,
		SharedWithEmail: recipientEmail,
		CanEdit:         canEdit,
		SharedAt:        time.Now(),
		AccessLink:      "/shared/access/" + uuid.NewString(),
		IsActive:        true,
	}

	if recipient, err := s.userRepo.GetByEmail(ctx, recipientEmail); err == nil {
		id := recipient.ID
		share.SharedWithID = &id
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	if err := s.shareRepo.CreateShare(ctx, share); err != nil {
		return nil, err
	}

	ownerName := defaultOwnerName
	if owner, err := s.userRepo.GetByID(ctx, file.OwnerID); err == nil {
		ownerName = owner.FullName
	}
	s.notifier.NotifyShared(recipientEmail, ownerName, file.OriginalName)

	s.logger.Info("file shared",
		zap.String("file_id", fileID.String()),
		zap.Uint32("owner_id", file.OwnerID),
		zap.Bool("can_edit", canEdit))
	return share, nil
}

// UnshareFile revokes the active share for (fileID, recipientEmail). The
// share row is kept inactive for history. Returns false when nothing was
// active, so a repeated call reports true then false.
func (s *FileService) UnshareFile(ctx context.Context, fileID uuid.UUID, requesterID uint32, recipientEmail string) (bool, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return false, err
	}
	if file.OwnerID != requesterID {
		return false, fmt.Errorf("%w: only owner can manage sharing", errs.ErrForbidden)
	}
	return s.shareRepo.Deactivate(ctx, fileID, recipientEmail)
}

// ListSharesForFile returns the active shares of one file, owner only.
func (s *FileService) ListSharesForFile(ctx context.Context, fileID uuid.UUID, requesterID uint32) ([]*fileInfo.FileShare, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: only owner can list shares", errs.ErrForbidden)
	}
	return s.shareRepo.ListActiveForFile(ctx, fileID)
}

// RevokeAllSharesByOwner bulk-deactivates every active share the user owns.
// Used when an account is removed.
func (s *FileService) RevokeAllSharesByOwner(ctx context.Context, ownerID uint32) error {
	return s.shareRepo.DeactivateAllForOwner(ctx, ownerID)
}
