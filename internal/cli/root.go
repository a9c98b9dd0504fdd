package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pl247/aimon/internal/config"
	"github.com/pl247/aimon/internal/errors"
)

// Exit codes
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 2
)

// NewRootCmd builds the aimon command tree. The root command runs the dashboard.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "aimon",
		Short: "Terminal dashboard for AI node CPU, GPU, network and LLM throughput",
		Long: `aimon shows a live, fixed-layout view of this machine: CPU and memory use,
per-GPU utilization and memory, per-NIC transmit/receive rates, and optionally
the token throughput of a vLLM server scraped from its Prometheus endpoint.

Press q or Ctrl+C to exit.

Examples:
  aimon
  aimon --api-url http://localhost:8000/metrics
  aimon --interval 2s --exclude lo,docker0,ib*
  aimon snapshot --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return dashboardCommand(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./aimon.yaml, then ~/.config/aimon/config.yaml)")
	AddDashboardFlags(root.PersistentFlags())

	root.AddCommand(newSnapshotCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command with a context cancelled by SIGINT or SIGTERM
// and exits with the matching status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes cmd with args and reports any error on stderr.
func run(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprint(stderr, formatError(err))
	return exitCode(err)
}

// formatError renders structured errors in their multi-line form and
// anything else (cobra usage errors) on one line.
func formatError(err error) string {
	var aimErr *errors.Error
	if stderrors.As(err, &aimErr) {
		return aimErr.Error()
	}
	return "✗ " + err.Error() + "\n  Run 'aimon --help' for usage.\n"
}

func exitCode(err error) int {
	if errors.IsCode(err, errors.ErrConfig) {
		return ExitConfig
	}
	return ExitError
}
