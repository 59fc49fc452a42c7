package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
)

// contentsAPILimit is the hard cap the contents API places on directory
// listings. A listing that comes back exactly this long is assumed
// truncated and re-read through the git tree API.
const contentsAPILimit = 1000

// Client issues authenticated blob operations against one repository
// branch.
type Client struct {
	cfg Config
	gh  *github.Client
}

// New creates a client with a token-authenticated GitHub transport.
func New(cfg Config) *Client {
	return NewWithGitHub(cfg, github.NewClient(nil).WithAuthToken(cfg.Token))
}

// NewWithGitHub creates a client over an existing go-github client. Used
// by tests to point at an httptest server.
func NewWithGitHub(cfg Config, gh *github.Client) *Client {
	return &Client{cfg: cfg, gh: gh}
}

func (c *Client) path(name string) string { return ContentDir + "/" + name }

// Put writes a new blob and returns its version token. No version token
// is sent with the request, so an existing path fails with ErrConflict
// instead of being overwritten.
func (c *Client) Put(ctx context.Context, name string, data []byte, message string) (string, error) {
	res, _, err := c.gh.Repositories.CreateFile(ctx, c.cfg.Owner, c.cfg.Repo, c.path(name), &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: data,
		Branch:  github.Ptr(c.cfg.Branch),
	})
	if err != nil {
		if isCreateConflict(err) {
			return "", fmt.Errorf("put %s: %w", name, ErrConflict)
		}
		return "", fmt.Errorf("put %s: %w", name, mapError(err))
	}
	if res == nil || res.Content == nil {
		return "", fmt.Errorf("put %s: response missing content metadata", name)
	}
	return res.Content.GetSHA(), nil
}

// Get downloads a blob. Payloads over the contents API's inline limit are
// fetched through the blobs endpoint using the version token from the
// metadata response.
func (c *Client) Get(ctx context.Context, name string) (Blob, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, c.path(name), c.getOpts())
	if err != nil {
		return Blob{}, fmt.Errorf("get %s: %w", name, mapError(err))
	}
	if file == nil {
		return Blob{}, fmt.Errorf("get %s: path is a directory", name)
	}
	blob := Blob{Version: file.GetSHA(), Size: int64(file.GetSize())}

	content, err := file.GetContent()
	if err == nil && content != "" {
		blob.Data = []byte(content)
		return blob, nil
	}
	// Inline content absent (file over 1 MiB); read the underlying git blob.
	raw, _, err := c.gh.Git.GetBlobRaw(ctx, c.cfg.Owner, c.cfg.Repo, file.GetSHA())
	if err != nil {
		return Blob{}, fmt.Errorf("get %s: %w", name, mapError(err))
	}
	blob.Data = raw
	return blob, nil
}

// Stat fetches a blob's metadata without downloading the payload.
func (c *Client) Stat(ctx context.Context, name string) (Entry, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, c.path(name), c.getOpts())
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", name, mapError(err))
	}
	if file == nil {
		return Entry{}, fmt.Errorf("stat %s: path is a directory", name)
	}
	return Entry{Name: file.GetName(), Size: int64(file.GetSize()), Version: file.GetSHA()}, nil
}

// Delete removes a blob. The current version token guards against the
// remote having changed since it was read.
func (c *Client) Delete(ctx context.Context, name, version, message string) error {
	_, _, err := c.gh.Repositories.DeleteFile(ctx, c.cfg.Owner, c.cfg.Repo, c.path(name), &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		SHA:     github.Ptr(version),
		Branch:  github.Ptr(c.cfg.Branch),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, mapError(err))
	}
	return nil
}

// List returns the content directory's file entries in remote order. An
// absent directory maps to ErrNotFound. Listings at the contents API's
// truncation threshold are re-read through the recursive git tree, which
// has no such cap.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	_, dir, _, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, ContentDir, c.getOpts())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ContentDir, mapError(err))
	}
	if len(dir) >= contentsAPILimit {
		return c.listViaTree(ctx)
	}
	entries := make([]Entry, 0, len(dir))
	for _, item := range dir {
		if item.GetType() != "file" {
			continue
		}
		entries = append(entries, Entry{
			Name:    item.GetName(),
			Size:    int64(item.GetSize()),
			Version: item.GetSHA(),
		})
	}
	return entries, nil
}

func (c *Client) listViaTree(ctx context.Context) ([]Entry, error) {
	tree, _, err := c.gh.Git.GetTree(ctx, c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, true)
	if err != nil {
		return nil, fmt.Errorf("list tree: %w", mapError(err))
	}
	prefix := ContentDir + "/"
	var entries []Entry
	for _, e := range tree.Entries {
		if e.GetType() != "blob" || !strings.HasPrefix(e.GetPath(), prefix) {
			continue
		}
		name := strings.TrimPrefix(e.GetPath(), prefix)
		if strings.Contains(name, "/") {
			continue // nested directories are not part of the flat store
		}
		entries = append(entries, Entry{Name: name, Size: int64(e.GetSize()), Version: e.GetSHA()})
	}
	return entries, nil
}

func (c *Client) getOpts() *github.RepositoryContentGetOptions {
	return &github.RepositoryContentGetOptions{Ref: c.cfg.Branch}
}

// isCreateConflict reports whether a create failed because the path
// already holds a blob. Creates never carry a version token, so a 422 here
// structurally means "exists"; no message text is consulted. A 409 is not
// a duplicate: on this endpoint it signals an empty repository or a ref
// race, neither of which has an existing blob to resolve against.
func isCreateConflict(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	return errResp.Response.StatusCode == http.StatusUnprocessableEntity
}

// mapError folds go-github failures onto the package error kinds.
func mapError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w (resets %s)", ErrRateLimited, rateErr.Rate.Reset.Format("15:04:05"))
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return ErrRateLimited
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuth, errResp.Message)
		case http.StatusNotFound:
			return ErrNotFound
		}
	}
	return err
}
