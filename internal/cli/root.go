// Package cli implements the readycheck command line interface: a one-shot
// verification run by default, plus serve and version subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/readycheck/internal/report"
)

// Execute runs the CLI and returns the process exit code:
// 0 ready, 1 not ready under the active policy, 2 configuration or
// invocation error.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return report.ExitUsage
	}
	return report.ExitReady
}

// NewRootCmd wires the cobra command tree. The root command itself runs a
// verification, so the common invocation stays short:
//
//	readycheck --config readycheck.yaml --format json
func NewRootCmd() *cobra.Command {
	opts := newCheckOptions()

	root := &cobra.Command{
		Use:   "readycheck",
		Short: "Verify service readiness and dependency health",
		Long: "readycheck probes the services a deployment depends on (HTTP endpoints,\n" +
			"TCP ports, commands, log files), retries per the configured policy, and\n" +
			"reports an aggregate readiness verdict via exit code and report.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root.Flags())

	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())
	return root
}
