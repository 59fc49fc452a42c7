package bitarchive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MaxBytes is the upload size ceiling. Payloads above it are rejected
// before any network call.
const MaxBytes = 24 << 20

// fingerprintLen is the number of hex characters of the SHA-256 digest
// kept in a blob name. 48 bits keeps collision probability negligible for
// galleries of tens of thousands of images.
const fingerprintLen = 12

// SupportedExtensions is the fixed set of accepted image types. "jpeg"
// folds to "jpg" before membership is checked.
var SupportedExtensions = []string{"jpg", "png", "gif", "webp"}

// Fingerprint derives the canonical blob name for a payload: a hex prefix
// of the SHA-256 of the raw bytes plus the normalized extension. It is
// deterministic, so identical bytes always map to the same name.
func Fingerprint(data []byte, extension string) (string, error) {
	ext := NormalizeExtension(extension)
	if !IsSupportedExtension(ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, extension)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:fingerprintLen] + "." + ext, nil
}

// NormalizeExtension lowercases an extension, strips a leading dot and
// folds the jpeg synonym. Returns "" for empty input.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// IsSupportedExtension reports whether a normalized extension is in the
// supported set.
func IsSupportedExtension(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtensionFromName extracts the normalized extension from a filename or
// URL, or "" if it has none.
func ExtensionFromName(name string) string {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return NormalizeExtension(name[i+1:])
}

// ExtensionFromMime maps an image MIME type like "image/png" to a
// supported normalized extension, or "" for anything else.
func ExtensionFromMime(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	sub, ok := strings.CutPrefix(mimeType, "image/")
	if !ok {
		return ""
	}
	ext := NormalizeExtension(sub)
	if !IsSupportedExtension(ext) {
		return ""
	}
	return ext
}

// MimeFromExtension maps a normalized extension back to its MIME type.
func MimeFromExtension(ext string) string {
	switch ext {
	case "":
		return "image/*"
	case "jpg":
		return "image/jpeg"
	default:
		return "image/" + ext
	}
}
