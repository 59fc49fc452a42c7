package bitarchive

import (
	"context"
	"errors"
	"fmt"
)

// UploadPayloads uploads a batch of payloads sequentially. Sequential
// processing bounds outstanding mutating requests against the remote to
// one, which keeps rate-limit behavior predictable; item i+1 does not
// start until item i resolves. Per-item failures are collected in the
// result and never abort siblings.
func (a *Archive) UploadPayloads(ctx context.Context, payloads []Payload) (BatchResult, error) {
	var result BatchResult
	for i, p := range payloads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		res, err := a.uploadOne(ctx, p)
		if err != nil {
			a.log.Warn().Err(err).Int("item", i).Msg("upload failed")
			result.Errors = append(result.Errors, BatchError{Index: i, Err: err})
			continue
		}
		result.Records = append(result.Records, res.Record)
		result.Uploaded++
		if res.Existed {
			result.Existed++
		}
	}
	if result.Uploaded > 0 {
		if err := a.Sync(); err != nil {
			a.log.Warn().Err(err).Msg("failed to persist index after upload")
		}
	}
	return result, nil
}

// uploadOne runs the upload state machine for one payload:
// validate, fingerprint, attempt the remote write, then either persist
// the accepted blob locally or resolve the conflict against the existing
// remote copy.
func (a *Archive) uploadOne(ctx context.Context, p Payload) (UploadResult, error) {
	ext := NormalizeExtension(p.Extension)
	if !IsSupportedExtension(ext) {
		return UploadResult{}, fmt.Errorf("%w: %q", ErrUnsupportedType, p.Extension)
	}
	if int64(len(p.Data)) > MaxBytes {
		return UploadResult{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(p.Data))
	}

	name, err := Fingerprint(p.Data, ext)
	if err != nil {
		return UploadResult{}, err
	}

	version, err := a.client.Put(ctx, name, p.Data, "Add "+name)
	if err == nil {
		rec := a.record(name, version, int64(len(p.Data)))
		if path, cerr := a.cache.Put(p.Data, name, version); cerr != nil {
			// A local cache fault does not undo the accepted upload; the
			// record stays fetchable directly from the remote.
			a.log.Warn().Err(cerr).Str("name", name).Msg("failed to cache uploaded image")
		} else {
			rec.LocalPath = path
		}
		a.upsert(rec)
		a.log.Info().Str("name", name).Msg("uploaded image")
		return UploadResult{Record: rec, Existed: false}, nil
	}

	if errors.Is(err, ErrConflict) {
		// Expected for duplicate content: the remote already holds a blob
		// at this content-derived name.
		rec, rerr := a.resolveExisting(ctx, name, int64(len(p.Data)))
		if rerr != nil {
			return UploadResult{}, fmt.Errorf("resolve existing %s: %w", name, rerr)
		}
		a.upsert(rec)
		a.log.Info().Str("name", name).Msg("content already uploaded, resolved from remote")
		return UploadResult{Record: rec, Existed: true}, nil
	}

	return UploadResult{}, err
}

// resolveExisting materializes a local copy of a blob whose upload
// conflicted. First the cache-aware fetch runs without a version hint; if
// that fails, an explicit metadata check recovers the version token and
// the fetch is retried with it.
func (a *Archive) resolveExisting(ctx context.Context, name string, size int64) (ImageRecord, error) {
	if path, version, err := a.ensureLocal(ctx, name, ""); err == nil {
		rec := a.record(name, version, size)
		rec.LocalPath = path
		return rec, nil
	}

	entry, err := a.client.Stat(ctx, name)
	if err != nil {
		return ImageRecord{}, err
	}
	path, _, err := a.ensureLocal(ctx, name, entry.Version)
	if err != nil {
		return ImageRecord{}, err
	}
	rec := a.record(name, entry.Version, entry.Size)
	rec.LocalPath = path
	return rec, nil
}
