package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"vendorpull/internal/ui"
)

var (
	verbose bool
	quiet   bool

	rootCmd = &cobra.Command{
		Use:   "vendorpull",
		Short: "Vendor files from GitHub repositories",
		Long: "VendorPull copies a subset of files from an upstream GitHub repository " +
			"into the current repository: it resolves the latest release tag, makes a " +
			"shallow clone, copies matching files with text normalization, optionally " +
			"applies a patch, and commits the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.vendorpull")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay for now
	}
}

func newUI() *ui.UI {
	return ui.NewUI(verbose, quiet)
}
