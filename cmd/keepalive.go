package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vendorpull/internal/config"
	"vendorpull/internal/gh"
	apperrors "vendorpull/pkg/errors"
	"vendorpull/pkg/models"
)

var keepaliveRepo string

var keepaliveCmd = &cobra.Command{
	Use:   "keepalive [workflow]...",
	Short: "Re-enable scheduled GitHub Actions workflows",
	Long: "Keepalive re-enables workflows so GitHub does not disable their " +
		"schedules after a period of repository inactivity. Without arguments " +
		"every YAML file in .github/workflows is enabled. Requires a GitHub " +
		"token; the repository defaults to $GITHUB_REPOSITORY.",
	RunE: runKeepaliveCmd,
}

func init() {
	keepaliveCmd.Flags().StringVar(&keepaliveRepo, "repo", "", "repository to keep alive (owner/name)")
	rootCmd.AddCommand(keepaliveCmd)
}

func runKeepaliveCmd(cmd *cobra.Command, args []string) error {
	token := config.ResolveToken()
	if token == "" {
		return apperrors.New(apperrors.ErrCodeConfigNotFound,
			"No GitHub token available").
			WithSuggestions(
				"Set the GITHUB_TOKEN environment variable",
				"Or run 'vendorpull setup' to store a token",
			)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repoName := keepaliveRepo
	if repoName == "" {
		repoName = cfg.Keepalive.Repository
	}
	if repoName == "" {
		repoName = os.Getenv("GITHUB_REPOSITORY")
	}
	if repoName == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"No repository to keep alive").
			WithSuggestions(
				"Pass --repo owner/name",
				"Or set $GITHUB_REPOSITORY (set automatically in Actions runs)",
			)
	}
	repo, err := models.ParseRepoRef(repoName)
	if err != nil {
		return err
	}

	workflows := args
	if len(workflows) == 0 {
		workflows = cfg.Keepalive.Workflows
	}

	ctx := cmd.Context()
	client := gh.NewClient(ctx, token)
	enabled := client.Keepalive(ctx, repo, workflows)
	fmt.Printf("Enabled %d workflows in %s\n", enabled, repo)
	return nil
}
