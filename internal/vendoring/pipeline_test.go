package vendoring

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vendorpull/internal/gh"
	"vendorpull/internal/ui"
	"vendorpull/pkg/models"
)

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// newUpstream builds a repository holding the given files, tagged with
// each of the given tags.
func newUpstream(t *testing.T, files map[string][]byte, tags ...string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	writeTree(t, dir, files)
	for name := range files {
		_, err = worktree.Add(filepath.FromSlash(name))
		require.NoError(t, err)
	}

	hash, err := worktree.Commit("Import", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Upstream", Email: "upstream@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err = repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

// newConsumer initializes a repository with one commit and makes it the
// working directory for the rest of the test.
func newConsumer(t *testing.T) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("consumer\n"), 0644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)
	_, err = worktree.Commit("Initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Consumer", Email: "consumer@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	t.Chdir(dir)
	return dir, repo
}

func newAPIClient(t *testing.T, handler http.Handler) *gh.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := gh.NewClient(context.Background(), "")
	require.NoError(t, client.SetBaseURL(server.URL))
	return client
}

func headCommitMessage(t *testing.T, repo *gogit.Repository) string {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	return commit.Message
}

func TestPipelineVendorsRelease(t *testing.T) {
	requireGitBinary(t)

	upstream := newUpstream(t, map[string][]byte{
		"src/api.h":        []byte("// api\n"),
		"src/nested/imp.h": []byte("// imp\n"),
		"docs/manual.md":   []byte("skip\n"),
	}, "2.3.1")

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "2.3.1"}`)
	})
	client := newAPIClient(t, mux)

	dir, repo := newConsumer(t)

	pipeline := &Pipeline{GH: client, UI: ui.NewUI(false, true)}
	err := pipeline.Run(context.Background(), RunOptions{
		Repo:     models.RepoRef{Owner: "acme", Name: "widgets"},
		Patterns: []string{"src/**/*.h"},
		CloneURL: upstream,
		Author:   models.GitIdentity{Name: "Consumer", Email: "consumer@example.com"},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "src", "api.h"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "src", "nested", "imp.h"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "docs"))
	assert.True(t, os.IsNotExist(err), "unmatched files must not be vendored")

	assert.Equal(t, "Update to v2.3.1", headCommitMessage(t, repo))
}

func TestPipelineFallsBackToTags(t *testing.T) {
	requireGitBinary(t)

	upstream := newUpstream(t, map[string][]byte{
		"src/api.h": []byte("// api\n"),
	}, "1.0", "1.2", "1.1")

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/repos/acme/widgets/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name": "1.0"}, {"name": "1.2"}, {"name": "1.1"}]`)
	})
	client := newAPIClient(t, mux)

	_, repo := newConsumer(t)

	pipeline := &Pipeline{GH: client, UI: ui.NewUI(false, true)}
	err := pipeline.Run(context.Background(), RunOptions{
		Repo:     models.RepoRef{Owner: "acme", Name: "widgets"},
		Patterns: []string{"src/**/*.h"},
		CloneURL: upstream,
		Author:   models.GitIdentity{Name: "Consumer", Email: "consumer@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Update to v1.2", headCommitMessage(t, repo))
}

func TestPipelineHeadModeSkipsResolution(t *testing.T) {
	requireGitBinary(t)

	upstream := newUpstream(t, map[string][]byte{
		"src/api.h": []byte("// api\n"),
	})

	// No API handlers at all: head mode must never touch the network.
	client := newAPIClient(t, http.NewServeMux())

	_, repo := newConsumer(t)

	pipeline := &Pipeline{GH: client, UI: ui.NewUI(false, true)}
	err := pipeline.Run(context.Background(), RunOptions{
		Repo:     models.RepoRef{Owner: "acme", Name: "widgets"},
		Patterns: []string{"src/**/*.h"},
		Head:     true,
		CloneURL: upstream,
		Author:   models.GitIdentity{Name: "Consumer", Email: "consumer@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Update to latest", headCommitMessage(t, repo))
}

func TestPipelineAppliesPatch(t *testing.T) {
	requireGitBinary(t)

	upstream := newUpstream(t, map[string][]byte{
		"src/api.h": []byte("// api\n"),
	}, "2.3.1")

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "2.3.1"}`)
	})
	client := newAPIClient(t, mux)

	dir, _ := newConsumer(t)

	patch := filepath.Join(t.TempDir(), "local.patch")
	require.NoError(t, os.WriteFile(patch, []byte(`diff --git a/src/api.h b/src/api.h
--- a/src/api.h
+++ b/src/api.h
@@ -1 +1 @@
-// api
+// api, patched locally
`), 0644))

	pipeline := &Pipeline{GH: client, UI: ui.NewUI(false, true)}
	err := pipeline.Run(context.Background(), RunOptions{
		Repo:     models.RepoRef{Owner: "acme", Name: "widgets"},
		Patterns: []string{"src/**/*.h"},
		Patch:    patch,
		CloneURL: upstream,
		Author:   models.GitIdentity{Name: "Consumer", Email: "consumer@example.com"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "src", "api.h"))
	require.NoError(t, err)
	assert.Equal(t, "// api, patched locally\n", string(data))
}

func TestPipelineNoMatchesAborts(t *testing.T) {
	requireGitBinary(t)

	upstream := newUpstream(t, map[string][]byte{
		"src/api.h": []byte("// api\n"),
	}, "2.3.1")

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "2.3.1"}`)
	})
	client := newAPIClient(t, mux)

	_, repo := newConsumer(t)
	before := headCommitMessage(t, repo)

	pipeline := &Pipeline{GH: client, UI: ui.NewUI(false, true)}
	err := pipeline.Run(context.Background(), RunOptions{
		Repo:     models.RepoRef{Owner: "acme", Name: "widgets"},
		Patterns: []string{"lib/**/*.c"},
		CloneURL: upstream,
		Author:   models.GitIdentity{Name: "Consumer", Email: "consumer@example.com"},
	})
	require.Error(t, err)
	assert.Equal(t, before, headCommitMessage(t, repo), "no commit on empty selection")
}
