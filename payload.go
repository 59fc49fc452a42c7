package bitarchive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// PayloadFromFile reads a local file into an upload payload, inferring
// the extension from the filename. Size and type are validated later by
// the orchestrator; this only rejects files it cannot read or name.
func PayloadFromFile(path string) (Payload, error) {
	ext := ExtensionFromName(filepath.Base(path))
	if ext == "" {
		return Payload{}, fmt.Errorf("%w: no extension on %q", ErrUnsupportedType, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Payload{Data: data, Extension: ext}, nil
}

// PayloadFromURL fetches a remote image into an upload payload. The
// extension comes from the URL when it has one, else from the response
// content type. Reads are capped just past the size ceiling so an
// oversized body fails fast instead of buffering fully.
func PayloadFromURL(ctx context.Context, rawURL string) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return Payload{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if int64(len(data)) > MaxBytes {
		return Payload{}, fmt.Errorf("%w: %s", ErrTooLarge, rawURL)
	}

	ext := ExtensionFromName(rawURL)
	if ext == "" {
		ext = ExtensionFromMime(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		return Payload{}, fmt.Errorf("%w: cannot infer extension for %q", ErrUnsupportedType, rawURL)
	}
	return Payload{Data: data, Extension: ext}, nil
}
