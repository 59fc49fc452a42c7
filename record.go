package bitarchive

import (
	"context"
	"fmt"
	"strings"

	"github.com/rachit9876/bitArchive/internal/remote"
)

// ImageRecord describes one stored image. Records are immutable: updates
// replace the whole value, never mutate a field in place. LocalPath is
// owned by the cache store and only ever replaced wholesale.
type ImageRecord struct {
	Name        string `json:"name"`
	ContentHash string `json:"contentHash"`
	Extension   string `json:"extension"`
	Size        int64  `json:"size"`
	RemoteRef   string `json:"remoteRef,omitempty"` // remote version token; empty when only known locally
	LocalPath   string `json:"localPath,omitempty"`
	URL         string `json:"url,omitempty"` // public raw-content URL
}

// Payload is raw image bytes plus the extension they should be stored
// under. Extension may be any supported synonym; it is normalized during
// validation.
type Payload struct {
	Data      []byte
	Extension string
}

// UploadResult is the outcome of a single upload. Existed reports that the
// remote already held this content and the record was resolved from the
// existing blob.
type UploadResult struct {
	Record  ImageRecord
	Existed bool
}

// BatchError ties a per-item failure to its position in the input batch.
type BatchError struct {
	Index int
	Err   error
}

func (e BatchError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e BatchError) Unwrap() error { return e.Err }

// BatchResult aggregates a batch upload. Uploaded counts every item that
// resolved to a record, Existed the subset that deduplicated against
// remote content. Failures are isolated per item and never abort siblings.
type BatchResult struct {
	Records  []ImageRecord
	Uploaded int
	Existed  int
	Errors   []BatchError
}

// BlobClient is the remote store surface the archive depends on. The
// production implementation is internal/remote.Client; tests substitute
// fakes via WithClient.
type BlobClient interface {
	// Put writes a new blob and returns its version token. It fails with
	// remote.ErrConflict when the path already exists.
	Put(ctx context.Context, name string, data []byte, message string) (string, error)
	// Get downloads a blob's bytes along with its version token and size.
	Get(ctx context.Context, name string) (remote.Blob, error)
	// Stat fetches blob metadata without the payload.
	Stat(ctx context.Context, name string) (remote.Entry, error)
	// Delete removes a blob; the current version token is required.
	Delete(ctx context.Context, name, version, message string) error
	// List returns the content directory entries in remote order.
	List(ctx context.Context) ([]remote.Entry, error)
}

func (a *Archive) record(name, version string, size int64) ImageRecord {
	ext := ExtensionFromName(name)
	return ImageRecord{
		Name:        name,
		ContentHash: strings.TrimSuffix(name, "."+ext),
		Extension:   ext,
		Size:        size,
		RemoteRef:   version,
		URL:         a.cfg.RawBaseURL() + name,
	}
}
