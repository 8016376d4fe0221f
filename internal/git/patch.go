package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	apperrors "vendorpull/pkg/errors"
)

// gitResult carries the structured outcome of a git CLI invocation.
type gitResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// runGit invokes the git binary in dir and captures its output. go-git
// covers every repository operation this tool needs except applying
// patches, which has no in-process equivalent.
func runGit(ctx context.Context, dir string, args ...string) (gitResult, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := gitResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result, err
}

// ApplyPatch applies a diff file to the working tree in dir with
// whitespace-tolerant, verbose semantics. A patch that does not apply
// cleanly is fatal; the copied-but-unpatched files are left in place.
func ApplyPatch(ctx context.Context, dir, patchFile string) error {
	result, err := runGit(ctx, dir, "apply", "-v", "--ignore-whitespace", patchFile)
	if err != nil {
		return apperrors.PatchError("Failed to apply patch", patchFile, err).
			WithContext("exit_code", result.ExitCode).
			WithContext("stderr", strings.TrimSpace(result.Stderr))
	}
	return nil
}
