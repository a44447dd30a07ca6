package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/the-maldridge/hookmirror/pkg/credentials"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage tokens in the OS credential store",
}

var credentialsStoreCmd = &cobra.Command{
	Use:   "store HOST",
	Short: "Store a token for HOST, read from stdin",
	Long: `Reads a token from the first line of stdin and stores it in the OS
credential store, where the keyring credential provider will find it for
every remote on HOST.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading token: %w", err)
		}

		k := credentials.Keyring{Service: cfg.Credentials.KeyringService, Username: cfg.Credentials.Username}
		if err := k.Store(args[0], strings.TrimSpace(line)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored token for %s\n", args[0])
		return nil
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsStoreCmd)
	rootCmd.AddCommand(credentialsCmd)
}
