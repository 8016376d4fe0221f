package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"vendorpull/internal/config"
	"vendorpull/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	fmt.Println("Setting up VendorPull...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := &models.Config{}

	fmt.Println("Commit identity")
	fmt.Println("---------------")

	gitQs := []*survey.Question{
		{
			Name:   "name",
			Prompt: &survey.Input{Message: "Author name (empty to use the repository's git config):"},
		},
		{
			Name:   "email",
			Prompt: &survey.Input{Message: "Author email:"},
		},
	}
	if err := survey.Ask(gitQs, &cfg.Git); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("GitHub token")
	fmt.Println("------------")
	fmt.Println("A token raises API rate limits, allows private repositories,")
	fmt.Println("and is required for the workflow keepalive step.")

	var token string
	tokenPrompt := &survey.Password{Message: "GitHub token (empty to skip):"}
	survey.AskOne(tokenPrompt, &token)
	if token != "" {
		if err := config.StoreToken(token); err != nil {
			fmt.Printf("Warning: could not store token in the system keyring: %v\n", err)
			fmt.Println("Set the GITHUB_TOKEN environment variable instead.")
		} else {
			fmt.Println("Token stored in the system keyring.")
		}
	}

	fmt.Println()
	fmt.Println("Workflow keepalive")
	fmt.Println("------------------")

	var enableKeepalive bool
	survey.AskOne(&survey.Confirm{
		Message: "Enable the workflow keepalive step?",
		Default: true,
	}, &enableKeepalive)
	cfg.Keepalive.Disabled = !enableKeepalive

	if enableKeepalive {
		survey.AskOne(&survey.Input{
			Message: "Repository to keep alive (owner/name, empty to use $GITHUB_REPOSITORY):",
		}, &cfg.Keepalive.Repository)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", config.GetConfigFile())
	fmt.Println("Add vendor targets with 'vendorpull targets add'.")
}
