package bitarchive

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc/pool"
)

// RefreshImages fetches the remote listing and materializes every
// supported image into the local cache, returning display-ready records
// in the listing's original order. Concurrent calls are coalesced: a
// refresh invoked while one is in flight joins it and receives the same
// result.
func (a *Archive) RefreshImages(ctx context.Context) ([]ImageRecord, error) {
	v, err, _ := a.flight.Do("refresh", func() (any, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]ImageRecord), nil
}

func (a *Archive) refresh(ctx context.Context) ([]ImageRecord, error) {
	entries, err := a.client.List(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Directory absent: an empty archive, not a failure.
			a.setRecords(nil)
			return nil, a.Sync()
		}
		return nil, err
	}

	type candidate struct {
		name    string
		size    int64
		version string
	}
	var candidates []candidate
	for _, e := range entries {
		if IsSupportedExtension(ExtensionFromName(e.Name)) {
			candidates = append(candidates, candidate{name: e.Name, size: e.Size, version: e.Version})
		}
	}

	// Materialize under a bounded pool; results slot into their listing
	// position so worker completion order never reorders the gallery.
	results := make([]*ImageRecord, len(candidates))
	p := pool.New().WithMaxGoroutines(a.concurrency).WithContext(ctx)
	for i, c := range candidates {
		p.Go(func(ctx context.Context) error {
			path, _, err := a.ensureLocal(ctx, c.name, c.version)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Isolated per-item failure: the rest of the listing
				// still materializes.
				a.log.Warn().Err(err).Str("name", c.name).Msg("failed to materialize image")
				return nil
			}
			rec := a.record(c.name, c.version, c.size)
			rec.LocalPath = path
			results[i] = &rec
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	records := make([]ImageRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	a.log.Info().
		Int("listed", len(candidates)).
		Int("materialized", len(records)).
		Msg("refreshed image index")

	a.setRecords(records)
	return records, a.Sync()
}
