package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ptx/commands"
	"ptx/config"
	"ptx/misc"
	"ptx/render"
	"ptx/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
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
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
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

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	corpusFlag := &cli.StringFlag{Name: "corpus", Usage: "use named `CORPUS` from configuration instead of the default one"}

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "extraction and typesetting engine for Perseus TEI Greek texts",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "extract",
				Usage:        "Extracts text of a single work, optionally limited to a Stephanus range",
				OnUsageError: usageErrorHandler,
				Action:       commands.Extract,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "range", Aliases: []string{"r"},
						Usage: "Stephanus `RANGE` to extract (e.g. 327a, 327, 327b-328a, 380-383)"},
					&cli.StringFlag{Name: "style", Aliases: []string{"s"},
						Usage: "output `STYLE` (supported styles: " + strings.Join(render.StyleNames(), ", ") + ")"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"},
						Usage: "output `FORMAT` (text, json, jsonl)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"},
						Usage: "write result to a file under `DIRECTORY` instead of STDOUT"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					corpusFlag,
				},
				ArgsUsage: "WORK",
				CustomHelpTemplate: fmt.Sprintf(`%s
WORK:
    the text to extract, following forms are supported:
        work title or alias: "republic" (resolved through the catalog, case-insensitive)
        TLG identifier: "tlg0059.tlg001"
        path to a TEI file: "[path_to_file]file.xml"
        path inside a corpus archive: "[path_to_archive]corpus.zip[path_in_archive]/file.xml"
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "anthology",
				Usage:        "Extracts excerpts from multiple works into one document of headed blocks",
				OnUsageError: usageErrorHandler,
				Action:       commands.Anthology,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "style", Aliases: []string{"s"},
						Usage: "output `STYLE`, paragraph styles only (A-D)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write result to `FILE` instead of STDOUT"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					corpusFlag,
				},
				ArgsUsage: "WORK:RANGES [WORK:RANGES...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
WORK:RANGES:
    work name, alias or TLG identifier, a colon, and comma-separated Stephanus ranges:
        "republic:327a-328c"
        "tlg0059.tlg004:43a,44c-45b symposium:5a,7b-c"
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "list-authors",
				Usage:        "Lists all authors available in the corpus",
				OnUsageError: usageErrorHandler,
				Action:       commands.ListAuthors,
				Flags:        []cli.Flag{corpusFlag},
			},
			{
				Name:         "list-works",
				Usage:        "Lists all works of one author",
				OnUsageError: usageErrorHandler,
				Action:       commands.ListWorks,
				Flags:        []cli.Flag{corpusFlag},
				ArgsUsage:    "AUTHOR",
			},
			{
				Name:         "search",
				Usage:        "Searches authors and work titles",
				OnUsageError: usageErrorHandler,
				Action:       commands.Search,
				Flags:        []cli.Flag{corpusFlag},
				ArgsUsage:    "QUERY",
			},
			{
				Name:         "resolve",
				Usage:        "Resolves a work name or alias to its TLG identifier and edition file",
				OnUsageError: usageErrorHandler,
				Action:       commands.Resolve,
				Flags:        []cli.Flag{corpusFlag},
				ArgsUsage:    "NAME",
			},
			{
				Name:         "health",
				Usage:        "Checks corpus structure and parseability of edition files",
				OnUsageError: usageErrorHandler,
				Action:       commands.Health,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "full", Usage: "parse every edition file instead of a sample"},
					&cli.Float64Flag{Name: "sample-percent", Usage: "sample `PERCENT` of edition files in quick mode"},
					&cli.Int64Flag{Name: "seed", Usage: "random `SEED` for reproducible sampling"},
					corpusFlag,
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
