package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"vendorpull/internal/config"
	"vendorpull/internal/gh"
	"vendorpull/internal/vendoring"
	apperrors "vendorpull/pkg/errors"
	"vendorpull/pkg/models"
)

var (
	syncHead bool
	syncFast bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [target]...",
	Short: "Run configured vendor targets",
	Long: "Sync runs the named targets from the configuration file, or every " +
		"configured target when none are named. Each target is a saved pull: " +
		"repository, patterns, destination, patch, and mode.",
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncHead, "head", false, "use the default branch tip for every target")
	syncCmd.Flags().BoolVar(&syncFast, "fast", false, "reuse existing clones instead of re-cloning")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	targets := cfg.Targets
	if len(args) > 0 {
		targets = make([]models.Target, 0, len(args))
		for _, name := range args {
			target, ok := config.FindTarget(cfg, name)
			if !ok {
				return apperrors.New(apperrors.ErrCodeTargetUnknown,
					fmt.Sprintf("Unknown target '%s'", name)).
					WithSuggestions("Run 'vendorpull targets list' to see configured targets")
			}
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		return apperrors.New(apperrors.ErrCodeConfigNotFound,
			"No targets configured").
			WithSuggestions("Run 'vendorpull targets add' to add one")
	}

	ctx := cmd.Context()
	term := newUI()
	token := config.ResolveToken()
	client := gh.NewClient(ctx, token)

	runKeepalive(ctx, client, cfg, term)

	pipeline := &vendoring.Pipeline{GH: client, UI: term, Token: token}
	for _, target := range targets {
		repo, err := models.ParseRepoRef(target.Repo)
		if err != nil {
			return err
		}

		term.Printf("==> %s (%s)\n", target.Name, target.Repo)
		err = pipeline.Run(ctx, vendoring.RunOptions{
			Repo:     repo,
			Patterns: target.Patterns,
			Dest:     target.Dest,
			Patch:    target.Patch,
			Fast:     syncFast,
			Head:     syncHead || target.Head,
			Binary:   target.Binary,
			Author:   cfg.Git,
		})
		if err != nil {
			return apperrors.Wrap(err, apperrors.GetErrorCode(err),
				fmt.Sprintf("Target '%s' failed", target.Name))
		}
	}
	return nil
}
