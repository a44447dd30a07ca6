package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync FULL_NAME REMOTE_URL",
	Short: "Synchronize one mirror and exit",
	Long: `Runs a single sync for a repository exactly as a webhook would and
exits non-zero unless it succeeded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appLogger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStorage(appLogger, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		rep, err := newReporter(appLogger, store)
		if err != nil {
			return err
		}

		eng, err := newEngine(appLogger, cfg, rep)
		if err != nil {
			return err
		}

		o := eng.Handle(cmd.Context(), args[0], args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", o.Repo, o.Result, o.Operation, o.Revision)
		if !o.OK() {
			return fmt.Errorf("sync of %s failed: %s: %s", o.Repo, o.Result, o.Detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
