// Package cli implements the allot command line.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/allotment/internal/config"
	"github.com/katalvlaran/allotment/internal/logging"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

type app struct {
	configPath string
	logLevel   string
	logJSON    bool
	quiet      bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}
	root := &cobra.Command{
		Use:   "allot",
		Short: "Assign participants to capacity-limited options by preference",
		Long: `allot places every participant into exactly one option per category,
respecting option capacities and minimizing the total rank cost.

When a category cannot be satisfied no result is written; allot reports how
many extra seats on which option would make it feasible.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = logging.New(logging.Config{
				Level:  a.logLevel,
				JSON:   a.logJSON,
				Quiet:  a.quiet,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "setup.toml", "setup file")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&a.logJSON, "log-json", false, "log JSON lines instead of text")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(newRunCmd(a), newAdviseCmd(a), newDimacsCmd(a), newVersionCmd())

	return root
}

func (a *app) setup() (*config.Setup, error) {
	s, err := config.ParseFile(a.configPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("setup loaded", "path", a.configPath, "categories", len(s.Categories))

	return s, nil
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	return execute(context.Background(), os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}

	return 0
}
