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

	"chapterdoc/common"
	"chapterdoc/config"
	"chapterdoc/editor"
	"chapterdoc/misc"
	"chapterdoc/state"
	"chapterdoc/studio"
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

	// secrets for object storage and database usually come from environment
	if err = config.LoadEnvironment(cmd.StringSlice("env")...); err != nil {
		return ctx, err
	}

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

	// record stores and buckets opened by subcommands
	if er := env.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to release resources: %w", er))
		if env.Log != nil {
			env.Log.Error("Unable to release resources", zap.Error(er))
		}
	}

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

// Subcommands return regular errors, cli.Exit() is not used.
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

	// allow graceful shutdown on interrupt, pending section flushes see
	// cancelled context
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "authoring engine for sectioned chapter documents",
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
			&cli.StringSliceFlag{Name: "env", Usage: "load environment variables from `FILE` before configuration is read (default: .env)"},
		},
		Commands: []*cli.Command{
			{
				Name:         "seed",
				Usage:        "Creates chapter (or uses existing one) and makes sure it has a section to type into",
				OnUsageError: usageErrorHandler,
				Action:       studio.Seed,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "`TITLE` of the new chapter"},
					&cli.StringFlag{Name: "grouping", Aliases: []string{"g"}, Usage: "`ID` of grouping new chapter belongs to"},
					&cli.StringFlag{Name: "subgrouping", Aliases: []string{"sg"}, Usage: "`ID` of subgrouping new chapter belongs to"},
				},
				ArgsUsage: "[CHAPTER]",
				CustomHelpTemplate: fmt.Sprintf(`%s
CHAPTER:
    identifier of existing chapter, if absent new chapter is created using --title

Identifier of the chapter is printed to STDOUT.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "show",
				Usage:        "Outputs editable HTML document of the chapter",
				OnUsageError: usageErrorHandler,
				Action:       studio.Show,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "CHAPTER [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write document to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "render",
				Usage:        "Renders chapter for reading",
				OnUsageError: usageErrorHandler,
				Action:       studio.Render,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Value: common.RenderTargetWeb.String(),
						Usage: "render `TARGET` (supported targets: " + strings.Join(common.RenderTargetNames(), ", ") + ")"},
					&cli.FloatFlag{Name: "base", Usage: "base font `SIZE` in points, overrides configuration"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "CHAPTER [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write rendered chapter to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "edit",
				Usage:        "Applies editing session to the chapter and saves changed sections",
				OnUsageError: usageErrorHandler,
				Action:       studio.Edit,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "select", Aliases: []string{"s"}, Usage: "select first occurrence of `TEXT` before running commands"},
					&cli.StringFlag{Name: "paste", Usage: "paste HTML from `FILE` at the selection"},
					&cli.StringSliceFlag{Name: "command", Aliases: []string{"x"},
						Usage: "toolbar `COMMAND` to run on selection, NAME or NAME=ARG (supported: " + strings.Join(editor.CommandNames(), ", ") + ")"},
					&cli.IntFlag{Name: "font-size", Usage: "change font size of the selection by `STEPS`"},
				},
				ArgsUsage: "CHAPTER [SNAPSHOT]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SNAPSHOT:
    file with edited HTML document (as produced by "show"), its blocks are
    matched to sections by data-section-id attribute

Changes are applied in order: snapshot, selection, paste, commands, font size.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "paste-image",
				Usage:        "Uploads image and inserts it into the chapter",
				OnUsageError: usageErrorHandler,
				Action:       studio.PasteImage,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Usage: "place cursor after first occurrence of `TEXT`"},
					&cli.BoolFlag{Name: "block", Usage: "insert image as separate section instead of inline"},
				},
				ArgsUsage: "CHAPTER IMAGE",
			},
			{
				Name:         "import",
				Usage:        "Creates chapters from markdown or HTML files",
				OnUsageError: usageErrorHandler,
				Action:       studio.Import,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "grouping", Aliases: []string{"g"}, Usage: "`ID` of grouping imported chapters belong to"},
					&cli.StringFlag{Name: "subgrouping", Aliases: []string{"sg"}, Usage: "`ID` of subgrouping imported chapters belong to"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to chapter file(s) to import (.md, .markdown, .html, .htm):
        path to a file: "[path_to_file]file.md"
        path to a directory: "[path_to_directory]directory" - recursively process all files under directory
        path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]"
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "export",
				Usage:        "Writes chapters as preview bundles (zip)",
				OnUsageError: usageErrorHandler,
				Action:       studio.Export,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "chapter", Usage: "export only chapter with `ID`, may be repeated"},
					&cli.FloatFlag{Name: "base", Usage: "base font `SIZE` in points, overrides configuration"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
				},
				ArgsUsage: "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    always a path, bundle names are derived from configuration template
    if absent - current working directory
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "list",
				Usage:        "Lists chapters",
				OnUsageError: usageErrorHandler,
				Action:       studio.List,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "grouping", Aliases: []string{"g"}, Usage: "list only chapters of grouping `ID`"},
				},
			},
			{
				Name:         "repay",
				Usage:        "Applies payment to loan schedule",
				OnUsageError: usageErrorHandler,
				Action:       studio.Repay,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "update schedule file with paid amounts"},
				},
				ArgsUsage: "SCHEDULE AMOUNT",
				CustomHelpTemplate: fmt.Sprintf(`%s
SCHEDULE:
    YAML file with currency and installments (id, sequence, due, amount, paid)

Payment goes to installments oldest first, each is paid off completely before
the next one gets anything.
`, cli.CommandHelpTemplate),
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

Produces file with actual "active" configuration values which is composition of
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
	env.Log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
