package git

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"vendorpull/internal/common"
	apperrors "vendorpull/pkg/errors"
	"vendorpull/pkg/models"
)

// CommitOptions describes the vendoring commit recorded in the consumer
// repository.
type CommitOptions struct {
	// Dir is a directory inside the consumer repository.
	Dir string
	// Files are the destination paths written by the copier, relative to
	// the repository root. Staging happens at top-level granularity.
	Files []string
	// Label is the version tag embedded in the commit message; empty
	// means "latest".
	Label string
	// Author is the commit identity. When unset the repository's own
	// configuration is used, and a missing identity makes the commit fail
	// softly.
	Author models.GitIdentity
}

// CommitMessage formats the commit message for a vendored update. Labels
// that start with a digit get a "v" prefix to read as conventional
// version tags.
func CommitMessage(label string) string {
	if label == "" {
		label = "latest"
	}
	if label[0] >= '0' && label[0] <= '9' {
		label = "v" + label
	}
	return fmt.Sprintf("Update to %s", label)
}

// CommitVendored stages the distinct top-level path components covering
// the written files and commits them if the staged tree differs from
// HEAD. Staging failures are fatal; a failure of the commit itself is
// reported as a warning and swallowed, so a half-configured git identity
// never aborts the pipeline. Returns true when a commit was created.
func CommitVendored(opts CommitOptions) (bool, error) {
	repo, err := git.PlainOpenWithOptions(opts.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeStageFailed,
			"Failed to open consumer repository").
			WithContext("dir", opts.Dir)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeStageFailed, "Failed to get worktree")
	}

	tops := common.TopLevels(opts.Files)
	for _, top := range tops {
		if _, err := worktree.Add(top); err != nil {
			return false, apperrors.Wrap(err, apperrors.ErrCodeStageFailed,
				fmt.Sprintf("Failed to stage %s", top)).
				WithContext("path", top)
		}
	}

	changed, err := hasStagedChanges(worktree)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeStageFailed, "Failed to read worktree status")
	}
	if !changed {
		return false, nil
	}

	commitOpts := &git.CommitOptions{}
	if opts.Author.Name != "" || opts.Author.Email != "" {
		commitOpts.Author = &object.Signature{
			Name:  opts.Author.Name,
			Email: opts.Author.Email,
			When:  time.Now(),
		}
	}

	if _, err := worktree.Commit(CommitMessage(opts.Label), commitOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: commit failed: %v\n", err)
		return false, nil
	}

	return true, nil
}

// hasStagedChanges reports whether the index differs from HEAD, the
// equivalent of a non-quiet `git diff-index HEAD`.
func hasStagedChanges(worktree *git.Worktree) (bool, error) {
	status, err := worktree.Status()
	if err != nil {
		return false, err
	}

	for _, fileStatus := range status {
		switch fileStatus.Staging {
		case git.Unmodified, git.Untracked:
			continue
		default:
			return true, nil
		}
	}
	return false, nil
}
