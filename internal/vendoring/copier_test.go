package vendoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "vendorpull/pkg/errors"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, data, 0644))
	}
}

func TestCopyFilesNormalizesText(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"src/mixed.h": []byte("unix line   \r\nwindows line\t\rold mac line\nno trailing newline"),
	})

	dest := t.TempDir()
	files, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/*.h"},
		DestRoot: dest,
	})
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(dest, "src", "mixed.h"))
	require.NoError(t, err)
	assert.Equal(t, "unix line\nwindows line\nold mac line\nno trailing newline\n", string(data))
}

func TestCopyFilesStripsUnicodeTrailingWhitespace(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"a.txt": []byte("nbsp trail\u00a0\u00a0\nideographic trail\u3000\nkeep \u00a0 inner\n"),
	})

	dest := t.TempDir()
	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"*.txt"},
		DestRoot: dest,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nbsp trail\nideographic trail\nkeep \u00a0 inner\n", string(data))
}

func TestCopyFilesStripsBOMAndReplacesInvalidUTF8(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"a.txt": append([]byte{0xEF, 0xBB, 0xBF}, []byte("bom line\nbad \xff byte\n")...),
	})

	dest := t.TempDir()
	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"*.txt"},
		DestRoot: dest,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bom line\nbad � byte\n", string(data))
}

func TestCopyFilesAppliesTransform(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"config.h": []byte("#define NAME upstream\n#define SIZE 4\n"),
	})

	dest := t.TempDir()
	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"*.h"},
		DestRoot: dest,
		Transform: func(line string) string {
			return strings.ReplaceAll(line, "upstream", "local")
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "config.h"))
	require.NoError(t, err)
	assert.Equal(t, "#define NAME local\n#define SIZE 4\n", string(data))
}

func TestCopyFilesBinaryPreservesBytesAndMetadata(t *testing.T) {
	src := t.TempDir()
	payload := []byte{0x00, 0xFF, 0x7F, 0x0D, 0x0A, 0x80}
	writeTree(t, src, map[string][]byte{"blob.bin": payload})

	srcPath := filepath.Join(src, "blob.bin")
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chmod(srcPath, 0755))
	require.NoError(t, os.Chtimes(srcPath, mtime, mtime))

	dest := t.TempDir()
	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"*.bin"},
		DestRoot: dest,
		Binary:   true,
	})
	require.NoError(t, err)

	destPath := filepath.Join(dest, "blob.bin")
	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	info, err := os.Stat(destPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, mtime.Unix(), info.ModTime().Unix())
}

func TestCopyFilesDoublestarCrossesDirectories(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"src/api.h":             []byte("// api\n"),
		"src/nested/deep/imp.h": []byte("// imp\n"),
		"src/readme.md":         []byte("skip\n"),
	})

	dest := t.TempDir()
	files, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/**/*.h"},
		DestRoot: dest,
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = os.Stat(filepath.Join(dest, "src", "api.h"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "src", "nested", "deep", "imp.h"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "src", "readme.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestCopyFilesSkipsDirectories(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{
		"src/sub/file.h": []byte("// file\n"),
	})

	dest := t.TempDir()
	// "src/*" matches the sub directory itself; only regular files copy.
	files, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/*", "src/sub/*.h"},
		DestRoot: dest,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "src", "sub", "file.h")}, files)
}

func TestCopyFilesEmptySelection(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{"a.txt": []byte("a\n")})

	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/**/*.h"},
		DestRoot: t.TempDir(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNoFilesMatched, apperrors.GetErrorCode(err))
}

func TestCopyFilesDeleteRemovesExplicitDest(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{"a.h": []byte("// a\n")})

	dest := t.TempDir()
	writeTree(t, dest, map[string][]byte{"stale.h": []byte("// stale\n")})

	_, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"*.h"},
		DestRoot: dest,
		Delete:   true,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dest, "stale.h"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dest, "a.h"))
	assert.NoError(t, err)
}

func TestCopyFilesDeleteRemovesOnlyMatchedTopLevels(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{"src/api.h": []byte("// api\n")})

	work := t.TempDir()
	writeTree(t, work, map[string][]byte{
		"src/stale.h":   []byte("// stale\n"),
		"unrelated.txt": []byte("keep\n"),
	})
	t.Chdir(work)

	files, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/**/*.h"},
		Delete:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("src", "api.h")}, files)

	_, err = os.Stat(filepath.Join(work, "src", "stale.h"))
	assert.True(t, os.IsNotExist(err), "matched top level must be pre-cleaned")
	_, err = os.Stat(filepath.Join(work, "unrelated.txt"))
	assert.NoError(t, err, "unmatched neighbors must survive the pre-clean")
}

func TestCopyFilesOverlappingPatternsCopyOnce(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string][]byte{"src/api.h": []byte("// api\n")})

	dest := t.TempDir()
	files, err := CopyFiles(CopyOptions{
		SrcRoot:  src,
		Patterns: []string{"src/*.h", "src/**/*.h"},
		DestRoot: dest,
	})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank line kept", "a\n\n", []string{"a", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.input))
		})
	}
}
