package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"typmark/config"
	"typmark/misc"
	"typmark/state"
)

// initializeAppContext prepares application context before command execution
// but after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()
	return nil
}

// Ignore urfave/cli default error handling - cli.Exit() looks non-transparent
// and unnecessary. Subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "codec between rich-text editing trees and inline document markup",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose console logging to help troubleshooting"},
		},
		Commands: []*cli.Command{
			{
				Name:         "decode",
				Usage:        "Decodes inline markup into renderable segments (JSON)",
				OnUsageError: usageErrorHandler,
				Action:       runDecode,
				ArgsUsage:    "SOURCE",
			},
			{
				Name:         "encode",
				Usage:        "Encodes a rich-text tree snapshot (XML) into inline markup",
				OnUsageError: usageErrorHandler,
				Action:       runEncode,
				ArgsUsage:    "SOURCE",
			},
			{
				Name:            "table",
				Usage:           "Operations over stored table records",
				HideHelpCommand: true,
				Commands: []*cli.Command{
					{
						Name:         "normalize",
						Usage:        "Resizes the grid and repairs span metadata",
						OnUsageError: usageErrorHandler,
						Action:       runTableNormalize,
						ArgsUsage:    "SOURCE",
					},
					{
						Name:         "flatten",
						Usage:        "Removes all merges, keeping cell contents in place",
						OnUsageError: usageErrorHandler,
						Action:       runTableFlatten,
						ArgsUsage:    "SOURCE",
					},
					{
						Name:         "merge",
						Usage:        "Merges the rectangle between two corner cells",
						OnUsageError: usageErrorHandler,
						Action:       runTableMerge,
						ArgsUsage:    "ROW1 COL1 ROW2 COL2 SOURCE",
					},
					{
						Name:         "unmerge",
						Usage:        "Dissolves the merge owned by a cell",
						OnUsageError: usageErrorHandler,
						Action:       runTableUnmerge,
						ArgsUsage:    "ROW COL SOURCE",
					},
				},
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument
			// parsing) or already closed, report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)
	data, err := config.Dump(env.Cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
