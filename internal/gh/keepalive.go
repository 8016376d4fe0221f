package gh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"vendorpull/pkg/models"
)

// DefaultWorkflowDir is where GitHub Actions workflow definitions live.
const DefaultWorkflowDir = ".github/workflows"

// DefaultWorkflows enumerates the YAML workflow files in the standard
// workflow directory of the current repository.
func DefaultWorkflows() []string {
	var workflows []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(DefaultWorkflowDir, pattern))
		if err != nil {
			continue
		}
		workflows = append(workflows, matches...)
	}
	sort.Strings(workflows)
	return workflows
}

// Keepalive re-enables each workflow so scheduled runs are not disabled
// after a period of repository inactivity. Failures are reported per
// workflow and never abort: this step is strictly fire-and-forget.
// It returns the number of workflows successfully enabled.
func (c *Client) Keepalive(ctx context.Context, repo models.RepoRef, workflows []string) int {
	if len(workflows) == 0 {
		workflows = DefaultWorkflows()
	}

	enabled := 0
	for _, workflow := range workflows {
		name := filepath.Base(workflow)
		if _, err := c.gh.Actions.EnableWorkflowByFileName(ctx, repo.Owner, repo.Name, name); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to enable workflow %s: %v\n", name, err)
			continue
		}
		enabled++
	}
	return enabled
}
