package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags.
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "hookmirror",
	Short: "Keep local mirrors of repositories in sync via webhooks",
	Long: `hookmirror receives webhook notifications announcing that a remote
repository changed and keeps a local mirror of that repository in sync,
cloning it the first time and fetching on every notification after that.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
