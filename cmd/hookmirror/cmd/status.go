package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

var statusServer string

var statusCmd = &cobra.Command{
	Use:   "status [full-name]",
	Short: "Show the latest sync outcome of each mirror",
	Long: `Prints the latest outcome per repository.  Outcomes are read from the
configured storage, or from a running server when --server is given, which
is required while the server holds the storage open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			outcomes []types.SyncOutcome
			err      error
		)
		if statusServer != "" {
			outcomes, err = remoteOutcomes(statusServer)
		} else {
			outcomes, err = storedOutcomes(cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}

		if len(args) == 1 {
			outcomes = filterOutcomes(outcomes, args[0])
			if len(outcomes) == 0 {
				return fmt.Errorf("no outcome recorded for %s", args[0])
			}
		}
		printOutcomes(cmd.OutOrStdout(), outcomes)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusServer, "server", "", "base URL of a running hookmirror, e.g. http://localhost:8080")
	rootCmd.AddCommand(statusCmd)
}

// storedOutcomes reads the configured store.  The memory store never
// outlives the process that wrote it, so reading it is pointless and
// the user is told where to look instead.
func storedOutcomes(w io.Writer) ([]types.SyncOutcome, error) {
	appLogger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Storage == "memory" {
		fmt.Fprintln(w, "Storage is \"memory\", outcomes are only kept by a running server.")
		fmt.Fprintln(w, "Use --server to ask it, or set \"storage: bitcask\" to persist them.")
	}
	store, err := openStorage(appLogger, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rep, err := newReporter(appLogger, store)
	if err != nil {
		return nil, err
	}
	return rep.All(), nil
}

func remoteOutcomes(base string) ([]types.SyncOutcome, error) {
	c := http.Client{Timeout: 10 * time.Second}
	resp, err := c.Get(strings.TrimSuffix(base, "/") + "/api/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}
	var out []types.SyncOutcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding status: %w", err)
	}
	return out, nil
}

func filterOutcomes(all []types.SyncOutcome, fullName string) []types.SyncOutcome {
	var out []types.SyncOutcome
	for _, o := range all {
		if o.Repo == fullName {
			out = append(out, o)
		}
	}
	return out
}

func printOutcomes(w io.Writer, outcomes []types.SyncOutcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No outcomes recorded.")
		return
	}
	fmt.Fprintf(w, "%-30s %-20s %-8s %-12s %-25s %s\n", "REPOSITORY", "RESULT", "OP", "REVISION", "FINISHED", "DETAIL")
	for _, o := range outcomes {
		rev := o.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		fmt.Fprintf(w, "%-30s %-20s %-8s %-12s %-25s %s\n",
			o.Repo, o.Result, o.Operation, rev, o.FinishedAt.Format(time.RFC3339), o.Detail)
	}
}
