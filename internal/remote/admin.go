package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v75/github"
)

// Repository lifecycle operations backing the setup and teardown flows.
// These sit next to the blob operations because they share the client,
// its auth and its error mapping, but the archive itself never calls
// them.

// VerifyToken checks the token by fetching the authenticated user and
// returns the login name.
func (c *Client) VerifyToken(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("verify token: %w", mapError(err))
	}
	return user.GetLogin(), nil
}

// RepoInfo returns the repository's default branch, or ErrNotFound when
// the repository does not exist.
func (c *Client) RepoInfo(ctx context.Context) (defaultBranch string, err error) {
	repo, _, err := c.gh.Repositories.Get(ctx, c.cfg.Owner, c.cfg.Repo)
	if err != nil {
		return "", fmt.Errorf("repo info: %w", mapError(err))
	}
	return repo.GetDefaultBranch(), nil
}

// CreateRepo creates the configured repository as a private, auto-
// initialized archive and seeds the content directory. Returns the new
// repository's default branch.
func (c *Client) CreateRepo(ctx context.Context, description string) (string, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.Ptr(c.cfg.Repo),
		Description: github.Ptr(description),
		Private:     github.Ptr(true),
		AutoInit:    github.Ptr(true),
	})
	if err != nil {
		return "", fmt.Errorf("create repo: %w", mapError(err))
	}
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	// The initial commit lands asynchronously after auto-init; give it a
	// moment before writing into the new tree.
	select {
	case <-ctx.Done():
		return branch, ctx.Err()
	case <-time.After(1500 * time.Millisecond):
	}

	seeded := *c
	seeded.cfg.Branch = branch
	if err := seeded.seedContentDir(ctx); err != nil && !errors.Is(err, ErrConflict) {
		// Non-critical: the directory appears with the first upload anyway.
		return branch, nil
	}
	return branch, nil
}

func (c *Client) seedContentDir(ctx context.Context) error {
	_, _, err := c.gh.Repositories.CreateFile(ctx, c.cfg.Owner, c.cfg.Repo, ContentDir+"/.gitkeep", &github.RepositoryContentFileOptions{
		Message: github.Ptr("Initialize " + ContentDir + " folder"),
		Content: []byte{},
		Branch:  github.Ptr(c.cfg.Branch),
	})
	if err != nil {
		if isCreateConflict(err) {
			return ErrConflict
		}
		return mapError(err)
	}
	return nil
}

// DeleteRepo permanently deletes the configured repository and everything
// in it. The token needs the delete_repo scope; without it the API
// answers 403, surfaced as ErrAuth.
func (c *Client) DeleteRepo(ctx context.Context) error {
	if _, err := c.gh.Repositories.Delete(ctx, c.cfg.Owner, c.cfg.Repo); err != nil {
		return fmt.Errorf("delete repo: %w", mapError(err))
	}
	return nil
}
