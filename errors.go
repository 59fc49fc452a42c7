package bitarchive

import (
	"errors"

	"github.com/rachit9876/bitArchive/internal/remote"
)

// Validation errors. Raised before any network call is made.
var (
	ErrUnsupportedType = errors.New("bitarchive: unsupported file type")
	ErrTooLarge        = errors.New("bitarchive: file exceeds size limit")
)

// ErrNoConfig is returned when no configuration has been saved yet.
var ErrNoConfig = errors.New("bitarchive: no configuration found")

// Remote error kinds, re-exported from internal/remote so callers can use
// errors.Is without importing an internal package.
//
// ErrConflict is the expected duplicate-content signal and is resolved
// inside the upload orchestrator; it only escapes when resolution itself
// fails. ErrRateLimited is surfaced without automatic retry.
var (
	ErrConflict    = remote.ErrConflict
	ErrRateLimited = remote.ErrRateLimited
	ErrNotFound    = remote.ErrNotFound
	ErrAuth        = remote.ErrAuth
)
