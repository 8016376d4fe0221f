package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"vendorpull/internal/config"
	"vendorpull/pkg/models"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage configured vendor targets",
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured targets",
	RunE:  runTargetsList,
}

var targetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new target",
	RunE:  runTargetsAdd,
}

var targetsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a target",
	Args:  cobra.ExactArgs(1),
	RunE:  runTargetsRemove,
}

func init() {
	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsAddCmd)
	targetsCmd.AddCommand(targetsRemoveCmd)
	rootCmd.AddCommand(targetsCmd)
}

func runTargetsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(cfg.Targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No targets configured.")
		fmt.Fprintln(cmd.OutOrStdout(), "Use 'vendorpull targets add' to add one")
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Name", "Repository", "Patterns", "Dest", "Mode"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, target := range cfg.Targets {
		mode := "text"
		if target.Binary {
			mode = "binary"
		}
		if target.Head {
			mode += ", head"
		}
		dest := target.Dest
		if dest == "" {
			dest = "."
		}
		table.Append([]string{
			target.Name,
			target.Repo,
			strings.Join(target.Patterns, " "),
			dest,
			mode,
		})
	}
	table.Render()
	return nil
}

func runTargetsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var answers struct {
		Name     string
		Repo     string
		Patterns string
		Dest     string
		Patch    string
		Binary   bool
		Head     bool
	}

	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Target name:"},
			Validate: survey.Required,
		},
		{
			Name:     "repo",
			Prompt:   &survey.Input{Message: "Repository (owner/name):"},
			Validate: survey.Required,
		},
		{
			Name:     "patterns",
			Prompt:   &survey.Input{Message: "Glob patterns (space separated):"},
			Validate: survey.Required,
		},
		{
			Name:   "dest",
			Prompt: &survey.Input{Message: "Destination directory (empty for clone-relative paths):"},
		},
		{
			Name:   "patch",
			Prompt: &survey.Input{Message: "Patch file (optional):"},
		},
		{
			Name:   "binary",
			Prompt: &survey.Confirm{Message: "Copy in binary mode?", Default: false},
		},
		{
			Name:   "head",
			Prompt: &survey.Confirm{Message: "Track the default branch tip instead of releases?", Default: false},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	if _, err := models.ParseRepoRef(answers.Repo); err != nil {
		return err
	}
	if _, exists := config.FindTarget(cfg, answers.Name); exists {
		return fmt.Errorf("target '%s' already exists", answers.Name)
	}

	cfg.Targets = append(cfg.Targets, models.Target{
		Name:     answers.Name,
		Repo:     answers.Repo,
		Patterns: strings.Fields(answers.Patterns),
		Dest:     answers.Dest,
		Patch:    answers.Patch,
		Binary:   answers.Binary,
		Head:     answers.Head,
	})

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Target '%s' added.\n", answers.Name)
	return nil
}

func runTargetsRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, exists := config.FindTarget(cfg, name); !exists {
		return fmt.Errorf("target '%s' not found", name)
	}

	var confirm bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Remove target '%s'?", name),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprintln(os.Stdout, "Cancelled.")
		return nil
	}

	kept := cfg.Targets[:0]
	for _, target := range cfg.Targets {
		if target.Name != name {
			kept = append(kept, target)
		}
	}
	cfg.Targets = kept

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Target '%s' removed.\n", name)
	return nil
}
