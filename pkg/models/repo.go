package models

import (
	"fmt"
	"strings"
)

// RepoRef identifies a hosted repository by its owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses an "owner/name" reference.
func ParseRepoRef(s string) (RepoRef, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository reference %q: expected owner/name", s)
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// CloneURL returns the HTTPS clone URL for the repository.
func (r RepoRef) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
}

// DefaultCloneDir is the local directory a repository is cloned into when
// the caller does not specify one.
func (r RepoRef) DefaultCloneDir() string {
	return r.Name + "_src"
}
