// Package cache implements the local disk store for downloaded and
// uploaded image blobs.
//
// Entries are keyed by blob name and remote version token: when a version
// token is known the on-disk filename is derived from it, so a changed
// remote blob naturally misses the stale cache entry. Writes are
// idempotent by path; duplicate writes of identical content are skipped,
// which is what makes concurrent materialization safe without locking.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// noMediaMarker excludes the cache directory from platform media indexes.
// Written once on store creation; harmless elsewhere.
const noMediaMarker = ".nomedia"

// Store is a disk-backed blob cache rooted at one directory.
type Store struct {
	dir string
}

// New creates the cache directory if needed and marks it as excluded from
// media scanning. Safe to call repeatedly.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	marker := filepath.Join(dir, noMediaMarker)
	if _, err := os.Stat(marker); os.IsNotExist(err) {
		if err := os.WriteFile(marker, nil, 0644); err != nil {
			return nil, fmt.Errorf("write %s marker: %w", noMediaMarker, err)
		}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache root.
func (s *Store) Dir() string { return s.dir }

// Resolve returns the cached path for (name, version) if one exists. It
// never fetches; a miss is (_, false), not an error.
func (s *Store) Resolve(name, version string) (string, bool) {
	path := s.entryPath(name, version)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Put writes a blob under its derived path. If the path already exists the
// write is skipped: names are content-derived and versioned paths are
// immutable, so an existing file already holds these bytes.
func (s *Store) Put(data []byte, name, version string) (string, error) {
	path := s.entryPath(name, version)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write cache entry %s: %w", name, err)
	}
	return path, nil
}

// Evict removes the cache entries for a blob, both the version-keyed path
// and the name-keyed fallback path. Missing files are not errors.
func (s *Store) Evict(name, version string) error {
	paths := []string{s.entryPath(name, "")}
	if version != "" {
		paths = append(paths, s.entryPath(name, version))
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("evict %s: %w", name, err)
		}
	}
	return nil
}

// EvictAll deletes every cached file whose extension is in exts and
// returns how many were removed. Deletions are best-effort: one failure
// does not abort the sweep.
func (s *Store) EvictAll(exts []string) (int, error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	cleared := 0
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(item.Name()), "."))
		if _, ok := allowed[ext]; !ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, item.Name())); err == nil {
			cleared++
		}
	}
	return cleared, nil
}

// Usage reports the total size and count of cached blobs, excluding the
// media marker.
func (s *Store) Usage() (bytes int64, files int, err error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read cache dir: %w", err)
	}
	for _, item := range items {
		if item.IsDir() || item.Name() == noMediaMarker {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		bytes += info.Size()
		files++
	}
	return bytes, files, nil
}

// entryPath derives the on-disk path for a blob. The version token keys
// the file when known; otherwise the name does. The name's extension is
// kept so files stay openable by image viewers.
func (s *Store) entryPath(name, version string) string {
	base := name
	if version != "" {
		base = version
	}
	base = sanitize(base)
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" && !strings.HasSuffix(base, "."+strings.ToLower(ext)) {
		base += "." + strings.ToLower(ext)
	}
	return filepath.Join(s.dir, base)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
