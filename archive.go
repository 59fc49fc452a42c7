package bitarchive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rachit9876/bitArchive/internal/cache"
	"github.com/rachit9876/bitArchive/internal/compression"
	"github.com/rachit9876/bitArchive/internal/remote"
)

// Archive is the entry point the presentation layer talks to. All network
// and cache plumbing is hidden behind RefreshImages, UploadPayloads,
// DeleteImage and EnsureLocalPath.
type Archive struct {
	cfg         Config
	client      BlobClient
	cache       *cache.Store
	codec       *compression.Codec
	log         zerolog.Logger
	concurrency int
	indexPath   string

	flight singleflight.Group

	mu      sync.Mutex
	records []ImageRecord
	gen     uint64 // bumped per mutation; guards Sync against clearing an unflushed change
	dirty   atomic.Bool
}

// Open validates the configuration, prepares the cache directory and
// loads the persisted record index when one exists.
func Open(cfg Config, opts ...OpenOption) (*Archive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	store, err := cache.New(filepath.Join(options.CacheDir, "images"))
	if err != nil {
		return nil, err
	}

	codec, err := compression.NewCodec()
	if err != nil {
		return nil, fmt.Errorf("create index codec: %w", err)
	}

	client := options.Client
	if client == nil {
		rcfg, err := cfg.remoteConfig()
		if err != nil {
			return nil, err
		}
		client = remote.New(rcfg)
	}

	a := &Archive{
		cfg:         cfg,
		client:      client,
		cache:       store,
		codec:       codec,
		log:         options.Logger,
		concurrency: options.Concurrency,
		indexPath:   indexPath(options.CacheDir, cfg),
	}

	if err := a.loadIndex(); err != nil && !os.IsNotExist(err) {
		a.log.Warn().Err(err).Msg("discarding unreadable index snapshot")
	}

	return a, nil
}

// Records returns a copy of the current index in listing order.
func (a *Archive) Records() []ImageRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ImageRecord, len(a.records))
	copy(out, a.records)
	return out
}

// EnsureLocalPath returns a local file path for a record, downloading
// into the cache on a miss. The cache key includes the record's version
// token, so a record refreshed after a remote change misses the stale
// entry and re-downloads.
func (a *Archive) EnsureLocalPath(ctx context.Context, rec ImageRecord) (string, error) {
	path, _, err := a.ensureLocal(ctx, rec.Name, rec.RemoteRef)
	return path, err
}

// ensureLocal is the cache-aware fetch: resolve first, download on a
// miss. When called without a version hint it adopts the token the
// download reports, so the entry lands under its proper versioned path.
func (a *Archive) ensureLocal(ctx context.Context, name, version string) (string, string, error) {
	if path, ok := a.cache.Resolve(name, version); ok {
		return path, version, nil
	}
	blob, err := a.client.Get(ctx, name)
	if err != nil {
		return "", "", err
	}
	if version == "" {
		version = blob.Version
	}
	path, err := a.cache.Put(blob.Data, name, version)
	if err != nil {
		return "", "", err
	}
	return path, version, nil
}

// DeleteImage removes an image from the remote store, the local cache and
// the index. When the record carries no version token (an "already
// existed" resolution that never saw a listing) the token is recovered
// with a metadata fetch first.
func (a *Archive) DeleteImage(ctx context.Context, rec ImageRecord) error {
	version := rec.RemoteRef
	if version == "" {
		entry, err := a.client.Stat(ctx, rec.Name)
		if err != nil {
			return fmt.Errorf("resolve version for %s: %w", rec.Name, err)
		}
		version = entry.Version
	}

	if err := a.client.Delete(ctx, rec.Name, version, "Delete "+rec.Name); err != nil {
		return err
	}

	if err := a.cache.Evict(rec.Name, version); err != nil {
		a.log.Warn().Err(err).Str("name", rec.Name).Msg("failed to evict cache entry")
	}

	a.mu.Lock()
	for i, r := range a.records {
		if r.Name == rec.Name {
			a.records = append(a.records[:i], a.records[i+1:]...)
			break
		}
	}
	a.markDirty()
	a.mu.Unlock()

	a.log.Info().Str("name", rec.Name).Msg("deleted image")
	return a.Sync()
}

// ClearCache deletes cached image files and returns how many were
// removed. Remote blobs are untouched. Deletions are best-effort.
func (a *Archive) ClearCache() (int, error) {
	return a.cache.EvictAll(SupportedExtensions)
}

// Usage reports local cache consumption for the storage accounting
// surface.
func (a *Archive) Usage() (bytes int64, files int, err error) {
	return a.cache.Usage()
}

// Sync persists the record index when it has changed since the last
// write.
func (a *Archive) Sync() error {
	if !a.dirty.Load() {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(a.indexPath), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	a.mu.Lock()
	gen := a.gen
	data, err := json.Marshal(a.records)
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	if err := os.WriteFile(a.indexPath, a.codec.Encode(data), 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	// A mutation may have landed while the snapshot was being written; the
	// dirty flag only clears when the written generation is still current.
	a.mu.Lock()
	if a.gen == gen {
		a.dirty.Store(false)
	}
	a.mu.Unlock()
	return nil
}

// Close flushes the index and releases the codec.
func (a *Archive) Close() error {
	err := a.Sync()
	if cerr := a.codec.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *Archive) loadIndex() error {
	data, err := os.ReadFile(a.indexPath)
	if err != nil {
		return err
	}
	var records []ImageRecord
	if err := json.Unmarshal(a.codec.Decode(data), &records); err != nil {
		return fmt.Errorf("parse index: %w", err)
	}
	a.mu.Lock()
	a.records = records
	a.mu.Unlock()
	return nil
}

// setRecords replaces the index with a copy of records, so slices handed
// to callers never share a backing array with the index that later
// mutations compact.
func (a *Archive) setRecords(records []ImageRecord) {
	a.mu.Lock()
	a.records = append([]ImageRecord(nil), records...)
	a.markDirty()
	a.mu.Unlock()
}

// upsert replaces the record with the same name or appends a new one.
// Records are replaced wholesale, never partially mutated.
func (a *Archive) upsert(rec ImageRecord) {
	a.mu.Lock()
	replaced := false
	for i, r := range a.records {
		if r.Name == rec.Name {
			a.records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		a.records = append(a.records, rec)
	}
	a.markDirty()
	a.mu.Unlock()
}

// markDirty records a mutation. Callers must hold mu.
func (a *Archive) markDirty() {
	a.gen++
	a.dirty.Store(true)
}

// indexPath derives the snapshot file for one repo/branch pair so
// switching repositories never reads another archive's index.
func indexPath(cacheDir string, cfg Config) string {
	name := cfg.Repo + "_" + cfg.branch()
	name = strings.ReplaceAll(name, "/", "_")
	return filepath.Join(cacheDir, "index", name+".json.zst")
}

// errorMessage folds an error chain into the short human-readable form
// surfaced to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type."
	case errors.Is(err, ErrTooLarge):
		return "File exceeds 24MB limit."
	case errors.Is(err, ErrRateLimited):
		return "GitHub rate limit reached. Try again later."
	case errors.Is(err, ErrAuth):
		return "Authentication failed. Check your token."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	default:
		return err.Error()
	}
}

// ErrorMessage is the user-facing rendering of any error returned by this
// package.
func ErrorMessage(err error) string { return errorMessage(err) }
