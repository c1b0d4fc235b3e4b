package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/buildinfo"
)

// rootOptions are the persistent flags every subcommand sees.
type rootOptions struct {
	projectDir string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "statements",
		Short:   "Financial statements from double-entry books",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.projectDir, "project", "C", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newInitCommand(),
		newReportCommand(opts),
		newLedgerCommand(opts),
		newVoucherCommand(opts),
		newCheckCommand(opts),
	)

	return rootCmd
}
