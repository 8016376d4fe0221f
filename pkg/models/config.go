package models

type Config struct {
	Git       GitIdentity `yaml:"git"`
	Keepalive Keepalive   `yaml:"keepalive"`
	Targets   []Target    `yaml:"targets"`
}

// GitIdentity is the author recorded on vendoring commits.
type GitIdentity struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Keepalive configures the workflow keepalive step. It runs whenever a
// token is available unless explicitly disabled.
type Keepalive struct {
	Disabled   bool     `yaml:"disabled,omitempty"`
	Repository string   `yaml:"repository"` // owner/name; defaults to $GITHUB_REPOSITORY
	Workflows  []string `yaml:"workflows"`  // defaults to .github/workflows/*.y*ml
}

// Target is a named vendoring configuration that can be run with
// `vendorpull sync <name>`.
type Target struct {
	Name     string   `yaml:"name"`
	Repo     string   `yaml:"repo"` // owner/name on GitHub
	Patterns []string `yaml:"patterns"`
	Dest     string   `yaml:"dest,omitempty"`
	Patch    string   `yaml:"patch,omitempty"`
	Binary   bool     `yaml:"binary,omitempty"`
	Head     bool     `yaml:"head,omitempty"` // track the default branch tip instead of releases
}
