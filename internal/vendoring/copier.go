package vendoring

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"vendorpull/internal/common"
	apperrors "vendorpull/pkg/errors"
)

// Transform rewrites a single line of a text file before it is written.
type Transform func(string) string

// CopyOptions describes one file-selection run against a clone.
type CopyOptions struct {
	// SrcRoot is the clone directory patterns are evaluated against.
	SrcRoot string
	// Patterns are glob patterns relative to SrcRoot; `**` crosses
	// directory boundaries.
	Patterns []string
	// DestRoot prefixes every destination path. Empty means files land at
	// their clone-relative paths under the current directory.
	DestRoot string
	// Delete pre-cleans the destination before copying. With a DestRoot
	// the whole subtree is removed; without one, only the top-level
	// components the patterns match in the current directory are removed,
	// leaving unrelated neighbors alone.
	Delete bool
	// Transform is applied to each line of text files; nil copies lines
	// unchanged.
	Transform Transform
	// Binary copies raw bytes and preserves file metadata instead of
	// normalizing text.
	Binary bool
}

// CopyFiles copies every regular file matching the patterns from SrcRoot
// into the destination, creating parent directories as needed, and
// returns the destination paths written. Text files are normalized: any
// line-ending convention becomes a single trailing newline and trailing
// whitespace is stripped from every line. Zero matches across all
// patterns is fatal.
func CopyFiles(opts CopyOptions) ([]string, error) {
	if opts.Delete {
		if err := preClean(opts); err != nil {
			return nil, err
		}
	}

	srcFS := os.DirFS(opts.SrcRoot)

	var files []string
	seen := make(map[string]bool)
	for _, pattern := range opts.Patterns {
		matches, err := doublestar.Glob(srcFS, pattern)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput,
				"Invalid glob pattern").
				WithContext("pattern", pattern)
		}

		for _, match := range matches {
			srcPath := filepath.Join(opts.SrcRoot, filepath.FromSlash(match))
			info, err := os.Stat(srcPath)
			if err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
					"Failed to stat matched file").
					WithContext("path", srcPath)
			}
			if !info.Mode().IsRegular() {
				continue
			}

			destPath := filepath.FromSlash(match)
			if opts.DestRoot != "" {
				destPath = filepath.Join(opts.DestRoot, destPath)
			}
			if seen[destPath] {
				continue
			}
			seen[destPath] = true

			if dir := filepath.Dir(destPath); dir != "." {
				if err := os.MkdirAll(dir, common.DirPermissionNormal); err != nil {
					return nil, apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
						"Failed to create destination directory").
						WithContext("dir", dir)
				}
			}

			if opts.Binary {
				err = copyBinary(srcPath, destPath, info)
			} else {
				err = copyText(srcPath, destPath, opts.Transform)
			}
			if err != nil {
				return nil, err
			}

			files = append(files, destPath)
		}
	}

	if len(files) == 0 {
		return nil, apperrors.SelectionEmptyError(opts.Patterns)
	}
	return files, nil
}

// preClean removes stale destination state before a copy. Without an
// explicit destination root, deletion granularity is the top-level path
// component: only components the patterns currently match are removed.
func preClean(opts CopyOptions) error {
	if opts.DestRoot != "" {
		if err := os.RemoveAll(opts.DestRoot); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
				"Failed to remove destination").
				WithContext("dest", opts.DestRoot)
		}
		return nil
	}

	var existing []string
	for _, pattern := range opts.Patterns {
		matches, err := doublestar.Glob(os.DirFS("."), pattern)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput,
				"Invalid glob pattern").
				WithContext("pattern", pattern)
		}
		existing = append(existing, matches...)
	}

	for _, top := range common.TopLevels(existing) {
		if err := os.RemoveAll(top); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
				"Failed to remove stale destination path").
				WithContext("path", top)
		}
	}
	return nil
}

func copyBinary(srcPath, destPath string, info fs.FileInfo) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to read source file").
			WithContext("path", srcPath)
	}
	if err := os.WriteFile(destPath, data, info.Mode().Perm()); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to write destination file").
			WithContext("path", destPath)
	}
	// WriteFile only applies the mode on creation.
	if err := os.Chmod(destPath, info.Mode().Perm()); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFilePermission,
			"Failed to set file mode").
			WithContext("path", destPath)
	}
	if err := os.Chtimes(destPath, info.ModTime(), info.ModTime()); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to set file times").
			WithContext("path", destPath)
	}
	return nil
}

func copyText(srcPath, destPath string, transform Transform) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to read source file").
			WithContext("path", srcPath)
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, line := range splitLines(string(data)) {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if transform != nil {
			line = transform(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(destPath, []byte(b.String()), common.FilePermissionNormal); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeFileOperation,
			"Failed to write destination file").
			WithContext("path", destPath)
	}
	return nil
}

// splitLines splits text content into lines regardless of the line-ending
// convention (LF, CRLF, or bare CR). Undecodable bytes are replaced with
// the Unicode replacement character and a leading BOM is dropped. A file
// without a trailing newline still yields its final line.
func splitLines(text string) []string {
	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
