package vendoring

import (
	"context"
	"fmt"

	"vendorpull/internal/gh"
	"vendorpull/internal/git"
	"vendorpull/internal/ui"
	"vendorpull/pkg/models"
)

// Pipeline runs the five vendoring stages in order: resolve, clone,
// copy, patch, commit.
type Pipeline struct {
	GH    *gh.Client
	UI    *ui.UI
	Token string
}

// RunOptions describes one vendoring run.
type RunOptions struct {
	Repo     models.RepoRef
	Patterns []string
	// Dest overrides the destination root; empty copies files to their
	// clone-relative paths under the current directory.
	Dest string
	// Patch is an optional diff applied after copying.
	Patch string
	// Fast reuses an existing clone directory without re-cloning. The
	// reused clone is not validated against the resolved tag, so it can
	// be stale.
	Fast bool
	// Head vendors the default branch tip instead of the latest release.
	Head bool
	// Binary disables text normalization.
	Binary bool
	// Transform is applied to each copied line in text mode.
	Transform Transform
	// Author is the identity recorded on the vendoring commit.
	Author models.GitIdentity
	// CloneURL overrides the HTTPS URL derived from Repo, e.g. a mirror
	// or a local path.
	CloneURL string
}

// Run executes the pipeline. Resolution, clone, copy, and patch failures
// abort; a failure of the commit itself does not.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	label := ""
	if !opts.Head {
		p.UI.StartProgress(fmt.Sprintf("Resolving latest release of %s", opts.Repo))
		tag, err := p.GH.LatestReleaseTag(ctx, opts.Repo)
		p.UI.StopProgress()
		if err != nil {
			return err
		}
		label = tag
		p.UI.VerbosePrintf("Resolved %s to %s\n", opts.Repo, label)
	}

	cloneURL := opts.CloneURL
	if cloneURL == "" {
		cloneURL = opts.Repo.CloneURL()
	}
	cloneDir := opts.Repo.DefaultCloneDir()

	if label == "" {
		p.UI.Info(fmt.Sprintf("Cloning %s...", opts.Repo))
	} else {
		p.UI.Info(fmt.Sprintf("Cloning %s at '%s'...", opts.Repo, label))
	}
	if err := git.Clone(ctx, git.CloneOptions{
		URL:       cloneURL,
		Ref:       label,
		Dest:      cloneDir,
		Overwrite: !opts.Fast,
		Token:     p.Token,
	}); err != nil {
		return err
	}

	p.UI.Info("Copying files...")
	files, err := CopyFiles(CopyOptions{
		SrcRoot:   cloneDir,
		Patterns:  opts.Patterns,
		DestRoot:  opts.Dest,
		Delete:    true,
		Transform: opts.Transform,
		Binary:    opts.Binary,
	})
	if err != nil {
		return err
	}
	p.UI.VerbosePrintf("Copied %d files\n", len(files))

	if opts.Patch != "" {
		p.UI.Info(fmt.Sprintf("Applying patch '%s'...", opts.Patch))
		if err := git.ApplyPatch(ctx, ".", opts.Patch); err != nil {
			return err
		}
	}

	committed, err := git.CommitVendored(git.CommitOptions{
		Dir:    ".",
		Files:  files,
		Label:  label,
		Author: opts.Author,
	})
	if err != nil {
		return err
	}
	if committed {
		p.UI.Success(fmt.Sprintf("Committed \"%s\"", git.CommitMessage(label)))
	} else {
		p.UI.Info("Nothing to commit; working tree matches HEAD")
	}
	return nil
}
