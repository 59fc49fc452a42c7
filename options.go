package bitarchive

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DefaultConcurrency is the bounded worker count used when materializing
// listings into the local cache.
const DefaultConcurrency = 4

// OpenOptions configures an Archive.
type OpenOptions struct {
	CacheDir    string
	Concurrency int
	Logger      zerolog.Logger
	Client      BlobClient
}

// OpenOption is a functional option for configuring Open.
type OpenOption func(*OpenOptions)

func defaultOptions() *OpenOptions {
	return &OpenOptions{
		CacheDir:    DefaultCacheDir(),
		Concurrency: DefaultConcurrency,
		Logger:      zerolog.Nop(),
	}
}

// WithCacheDir sets the local cache directory.
func WithCacheDir(dir string) OpenOption {
	return func(o *OpenOptions) { o.CacheDir = dir }
}

// WithConcurrency sets the worker count for listing materialization.
func WithConcurrency(n int) OpenOption {
	return func(o *OpenOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) OpenOption {
	return func(o *OpenOptions) { o.Logger = log }
}

// WithClient substitutes the remote blob client. Intended for tests.
func WithClient(c BlobClient) OpenOption {
	return func(o *OpenOptions) { o.Client = c }
}

// DefaultCacheDir returns the XDG data directory for the archive cache.
func DefaultCacheDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "bitarchive")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "bitarchive")
	}
	return ".bitarchive"
}
