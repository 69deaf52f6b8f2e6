// Package cmd implements the zschema command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/twoojoo/zschema/config"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitRejected = 1
	ExitError    = 2
)

// ErrRejected is returned when at least one document failed validation.
var ErrRejected = errors.New("validation failed")

type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
	environ func() []string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "zschema",
		Short: "Validate documents against the application's entity schemas",
		Long: `zschema validates JSON and YAML documents against the User, Todo,
Product, Auth and common query schemas and prints either the normalized
document or the list of failures.

Exit status is 0 when every document is valid, 1 when at least one was
rejected and 2 on any other error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(a.logLevel())
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (TOML or YAML) read by the env command")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newListCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
		newEnvCmd(a),
		newVersionCmd(),
	)
	return root
}

// logLevel picks the logger level: --verbose forces debug, otherwise LOG_LEVEL
// from the environment or config file. An unusable LOG_LEVEL falls back to
// info so that the env command can still report it.
func (a *app) logLevel() zapcore.Level {
	if a.verbose {
		return zapcore.DebugLevel
	}
	name, err := config.LogLevel(a.cfgFile, a.environ())
	if err != nil {
		return zapcore.InfoLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Execute runs the command line with the process arguments and returns the
// exit status.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, &app{environ: os.Environ})
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, a *app) int {
	if a.environ == nil {
		a.environ = os.Environ
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrRejected):
		return ExitRejected
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}
