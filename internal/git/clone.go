package git

import (
	"context"
	"errors"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	apperrors "vendorpull/pkg/errors"
)

// CloneOptions describes a shallow checkout of an upstream repository.
type CloneOptions struct {
	// URL is the remote repository URL (or a local path in tests).
	URL string
	// Ref is the tag or branch to pin; empty means the default branch tip.
	Ref string
	// Dest is the directory the clone is created in.
	Dest string
	// Overwrite removes a pre-existing destination before cloning. When
	// false an existing destination is reused as-is, without verifying it
	// matches the requested ref (fast mode; a stale clone is possible and
	// accepted).
	Overwrite bool
	// Token authenticates HTTPS clones of private repositories.
	Token string
}

// Clone produces a depth-1, single-branch checkout of the repository at
// the requested tag or branch. go-git checks out without running LFS
// smudge filters and without the detached-HEAD advisory, so large binary
// payloads stay as pointers and output stays quiet.
func Clone(ctx context.Context, opts CloneOptions) error {
	if !opts.Overwrite {
		if _, err := os.Stat(opts.Dest); err == nil {
			return nil
		}
	}

	if err := os.RemoveAll(opts.Dest); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to remove existing clone destination").
			WithContext("dest", opts.Dest)
	}

	base := git.CloneOptions{
		URL:          opts.URL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if opts.Token != "" {
		base.Auth = &http.BasicAuth{
			Username: "token",
			Password: opts.Token,
		}
	}

	if opts.Ref == "" {
		cloneOpts := base
		_, err := git.PlainCloneContext(ctx, opts.Dest, false, &cloneOpts)
		if err == nil {
			return nil
		}
		if rmErr := os.RemoveAll(opts.Dest); rmErr != nil && !os.IsNotExist(rmErr) {
			return apperrors.Wrap(rmErr, apperrors.ErrCodeFileOperation,
				"Failed to clean up after failed clone").
				WithContext("dest", opts.Dest)
		}
		return apperrors.CloneError("Failed to clone repository", opts.URL, err)
	}

	// The resolver hands us tag names, but callers may pin a branch; try
	// the tag reference first and fall back to a branch reference, the
	// same way `git clone --branch` accepts either.
	refNames := []plumbing.ReferenceName{
		plumbing.NewTagReferenceName(opts.Ref),
		plumbing.NewBranchReferenceName(opts.Ref),
	}

	var lastErr error
	for _, refName := range refNames {
		cloneOpts := base
		cloneOpts.ReferenceName = refName

		_, err := git.PlainCloneContext(ctx, opts.Dest, false, &cloneOpts)
		if err == nil {
			return nil
		}
		lastErr = err

		if err := os.RemoveAll(opts.Dest); err != nil && !os.IsNotExist(err) {
			return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
				"Failed to clean up after failed clone").
				WithContext("dest", opts.Dest)
		}

		if !isMissingRef(lastErr) {
			break
		}
	}

	return apperrors.CloneError("Failed to clone repository", opts.URL, lastErr).
		WithContext("ref", opts.Ref)
}

func isMissingRef(err error) bool {
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	var noMatch git.NoMatchingRefSpecError
	return errors.As(err, &noMatch)
}
