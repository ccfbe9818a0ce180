package fileService

import (
	"context"
	"errors"
	"time"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/fileInfo"
	"filesharing-service/internal/model/user"
)

// OwnedFile is a user's own file annotated with its star flag.
type OwnedFile struct {
	fileInfo.File
	IsStarred bool `json:"is_starred"`
}

// FileDetails is a file annotated with its owner's display info. The owner
// lookup is display-only and tolerates a deleted account.
type FileDetails struct {
	fileInfo.File
	OwnerName   string `json:"owner_name"`
	OwnerEmail  string `json:"owner_email"`
	OwnerAvatar string `json:"owner_avatar"`
}

// SharedWithMeEntry is a file someone shared with the caller.
type SharedWithMeEntry struct {
	FileDetails
	SharedAt time.Time `json:"shared_date"`
	CanEdit  bool      `json:"can_edit"`
}

// SharedByMeEntry is one active share the caller handed out, with recipient
// display info when the recipient has an account.
type SharedByMeEntry struct {
	fileInfo.File
	SharedWithEmail string    `json:"shared_with_email"`
	SharedAt        time.Time `json:"shared_date"`
	CanEdit         bool      `json:"can_edit"`
	RecipientName   string    `json:"recipient_name,omitempty"`
	RecipientAvatar string    `json:"recipient_avatar,omitempty"`
}

// OwnedWithStarStatus lists the user's files, each flagged with whether the
// user starred it.
func (s *FileService) OwnedWithStarStatus(ctx context.Context, userID uint32) ([]OwnedFile, error) {
	files, err := s.fileRepo.ListFilesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	starred, err := s.starRepo.ListStarredIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]OwnedFile, 0, len(files))
	for _, f := range files {
		_, isStarred := starred[f.ID]
		out = append(out, OwnedFile{File: *f, IsStarred: isStarred})
	}
	return out, nil
}

// StarredDetailed resolves the user's starred ids to full file records with
// owner display info. Stars pointing at deleted files are skipped.
func (s *FileService) StarredDetailed(ctx context.Context, userID uint32) ([]FileDetails, error) {
	starred, err := s.starRepo.ListStarredIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]FileDetails, 0, len(starred))
	for id := range starred {
		file, err := s.fileRepo.GetFileByID(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		owner := s.ownerDisplay(ctx, file.OwnerID)
		out = append(out, FileDetails{
			File:        *file,
			OwnerName:   owner.Name,
			OwnerEmail:  owner.Email,
			OwnerAvatar: owner.AvatarURL,
		})
	}
	return out, nil
}

// SharedWithMe lists the active shares addressed to email, joined to their
// files. Shares whose file has since been deleted are silently skipped.
func (s *FileService) SharedWithMe(ctx context.Context, email string) ([]SharedWithMeEntry, error) {
	shares, err := s.shareRepo.ListActiveForRecipient(ctx, email)
	if err != nil {
		return nil, err
	}

	out := make([]SharedWithMeEntry, 0, len(shares))
	for _, share := range shares {
		file, err := s.fileRepo.GetFileByID(ctx, share.FileID)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		owner := s.ownerDisplay(ctx, share.OwnerID)
		out = append(out, SharedWithMeEntry{
			FileDetails: FileDetails{
				File:        *file,
				OwnerName:   owner.Name,
				OwnerEmail:  owner.Email,
				OwnerAvatar: owner.AvatarURL,
			},
			SharedAt: share.SharedAt,
			CanEdit:  share.CanEdit,
		})
	}
	return out, nil
}

// SharedByMe lists the caller's active outgoing shares joined to their
// files, annotating recipients that have an account.
func (s *FileService) SharedByMe(ctx context.Context, userID uint32) ([]SharedByMeEntry, error) {
	shares, err := s.shareRepo.ListActiveForOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]SharedByMeEntry, 0, len(shares))
	for _, share := range shares {
		file, err := s.fileRepo.GetFileByID(ctx, share.FileID)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entry := SharedByMeEntry{
			File:            *file,
			SharedWithEmail: share.SharedWithEmail,
			SharedAt:        share.SharedAt,
			CanEdit:         share.CanEdit,
		}
		if share.SharedWithID != nil {
			if recipient, err := s.userRepo.GetByID(ctx, *share.SharedWithID); err == nil {
				entry.RecipientName = recipient.FullName
				entry.RecipientAvatar = recipient.AvatarURL
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// ownerDisplay looks up display info for a file owner, falling back to
// placeholders when the account is gone.
func (s *FileService) ownerDisplay(ctx context.Context, ownerID uint32) user.DisplayInfo {
	u, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return user.DisplayInfo{Name: "Unknown User"}
	}
	return user.DisplayInfo{Name: u.FullName, Email: u.Email, AvatarURL: u.AvatarURL}
}
