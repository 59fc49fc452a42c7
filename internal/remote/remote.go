// Package remote implements the GitHub contents-API blob client.
//
// The repository's contents endpoint is treated as a flat key-value blob
// store under a fixed directory prefix. Writes never supply a version
// token, so the API's refusal to update an existing path (422) is the
// structural signal that the blob already exists.
package remote

import "errors"

// ContentDir is the repository directory all blobs live under.
const ContentDir = "public"

// Error kinds the client maps remote failures onto. Callers branch with
// errors.Is; message text is never inspected.
var (
	ErrConflict    = errors.New("remote: blob already exists")
	ErrRateLimited = errors.New("remote: rate limit reached")
	ErrNotFound    = errors.New("remote: not found")
	ErrAuth        = errors.New("remote: authentication failed")
)

// Config carries the repository coordinates and credentials for one
// client. Values are explicit; the package reads no ambient state.
type Config struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
}

// Entry is one listed blob: its name, payload size and remote version
// token.
type Entry struct {
	Name    string
	Size    int64
	Version string
}

// Blob is a downloaded payload with its version token.
type Blob struct {
	Data    []byte
	Version string
	Size    int64
}
