package fileInfo

import (
	"time"

	"github.com/google/uuid"
)

// File is the metadata record for an uploaded file. The bytes themselves
// live in object storage under StorageKey.
type File struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uint32    `json:"owner_id"`
	StorageKey   string    `json:"-"`
	Size         int64     `json:"file_size"`
	ContentType  string    `json:"file_type"`
	OriginalName string    `json:"original_name"`
	IsPublic     bool      `json:"is_public"`
	AccessCode   string    `json:"access_code,omitempty"`
	CreatedAt    time.Time `json:"upload_date"`
}

// FileShare links a file to a recipient email. Shares are never hard-deleted:
// revoking sets IsActive to false and the row stays for history.
type FileShare struct {
	ID              uuid.UUID  `json:"id"`
	FileID          uuid.UUID  `json:"file_id"`
	OwnerID         uint32     `json:"owner_id"`
	SharedWithEmail string     `json:"shared_with_email"`
	SharedWithID    *uint32    `json:"shared_with_id,omitempty"`
	CanEdit         bool       `json:"can_edit"`
	SharedAt        time.Time  `json:"shared_date"`
	ExpiresAt       *time.Time `json:"expire_date,omitempty"`
	AccessLink      string     `json:"access_link,omitempty"`
	IsActive        bool       `json:"is_active"`
}

// StarredFile marks a file as starred by a user. Unstarring deletes the row.
type StarredFile struct {
	ID        uint64    `json:"id"`
	UserID    uint32    `json:"user_id"`
	FileID    uuid.UUID `json:"file_id"`
	StarredAt time.Time `json:"starred_date"`
}
