// Package errs contains sentinel errors shared across layers so handlers
// can map failures to stable status codes with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested file, share or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is not the owner of the file.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyShared indicates an active share already exists for the
	// (file, recipient email) pair.
	ErrAlreadyShared = errors.New("file already shared with this email")

	// ErrInvalidInput indicates malformed or missing request data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")
)
