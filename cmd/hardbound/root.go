package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vmunix/hardbound/internal/config"
	"github.com/vmunix/hardbound/internal/display"
	"github.com/vmunix/hardbound/internal/history"
	"github.com/vmunix/hardbound/internal/linker"
	"github.com/vmunix/hardbound/pkg/red"
)

// errFailures is returned when a run finished but counted errors.
var errFailures = errors.New("completed with errors")

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	noColor    bool
	verbose    bool
	jsonOutput bool

	cfg   *config.Config
	log   *slog.Logger
	runID string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hardbound",
		Short: "Hardlink audiobooks into library and RED torrent layouts",
		Long: `hardbound - audiobook hardlinker

Links the files of an audiobook folder under canonical names, either into
a library folder or into a RED-compliant torrent folder whose
folder/file path stays within the 180 character cap.

Every linking command is a dry run unless --commit is given.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: discovered)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output as JSON where supported")

	root.Version = version
	root.SetVersionTemplate("hardbound {{.Version}}\n")

	root.AddCommand(
		newLinkCmd(a),
		newBatchCmd(a),
		newParseCmd(a),
		newPathsCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger. A missing config
// file falls back to the built-in defaults.
func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		found, err := config.Discover()
		switch {
		case errors.Is(err, config.ErrNotFound):
		case err != nil:
			return err
		default:
			path = found
		}
	}

	if path == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.runID = uuid.NewString()
	a.log = newLogger(cmd.ErrOrStderr(), a.cfg.Log.Level, a.verbose).With("run_id", a.runID)
	a.log.Debug("config.loaded", "path", path)
	return nil
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := parseLogLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printer renders to the command's stdout, colored only on a terminal.
func (a *app) printer(cmd *cobra.Command) *display.Printer {
	out := cmd.OutOrStdout()
	color, width := false, 0
	if f, ok := out.(*os.File); ok {
		color = display.ColorEnabled(f, a.noColor)
		width = display.Width(f)
	}
	return display.New(out, color, width)
}

// linker builds a Linker from the exclusion and ownership settings.
func (a *app) linker(obs linker.Observer) (*linker.Linker, error) {
	l := linker.New(a.log, obs, linker.NewPolicy(a.cfg.Link.ExcludeNames, a.cfg.Link.ExcludeExts))

	own := a.cfg.Ownership
	if !own.SetPermissions {
		return l, nil
	}
	fileMode, dirMode, err := own.Modes()
	if err != nil {
		return nil, fmt.Errorf("ownership: %w", err)
	}
	o, err := linker.NewOwnership(fileMode, dirMode, own.User, own.Group)
	if err != nil {
		return nil, fmt.Errorf("ownership: %w", err)
	}
	l.SetOwnership(o)
	return l, nil
}

func (a *app) resolver() *red.Resolver {
	return red.NewResolver(a.log, a.cfg.Link.PathCap)
}

// options merges config defaults with explicitly set flags.
func (a *app) options(cmd *cobra.Command, commit bool) linker.Options {
	opts := linker.Options{
		AlsoCover: a.cfg.Link.AlsoCover,
		ZeroPad:   a.cfg.Link.ZeroPad,
		Force:     a.cfg.Link.Force,
		DryRun:    !commit,
	}
	flags := cmd.Flags()
	if flags.Changed("also-cover") {
		opts.AlsoCover, _ = flags.GetBool("also-cover")
	}
	if flags.Changed("zero-pad-vol") {
		opts.ZeroPad, _ = flags.GetBool("zero-pad-vol")
	}
	if flags.Changed("force") {
		opts.Force, _ = flags.GetBool("force")
	}
	return opts
}

func addLinkFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("zero-pad-vol", false, "Rewrite vol_N as vol_NN (default from config)")
	cmd.Flags().Bool("also-cover", false, "Also link a plain cover.jpg (default from config)")
	cmd.Flags().Bool("force", false, "Replace existing destination files (default from config)")
	cmd.Flags().Bool("commit", false, "Perform changes (default is a dry run)")
}

// history opens the run journal. Failures are logged and yield nil.
func (a *app) history() *history.Store {
	if a.cfg.Paths.HistoryDB == "" {
		return nil
	}
	store, err := history.Open(a.cfg.Paths.HistoryDB)
	if err != nil {
		a.log.Warn("history.open_failed", "path", a.cfg.Paths.HistoryDB, "error", err)
		return nil
	}
	return store
}

// record journals a run. Journal errors never fail the command.
func (a *app) record(run *history.Run, sources ...string) {
	store := a.history()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	run.RunID = a.runID
	if err := store.Record(run); err != nil {
		a.log.Warn("history.record_failed", "error", err)
	}
	for _, src := range sources {
		if err := store.TouchSource(src); err != nil {
			a.log.Warn("history.touch_failed", "src", src, "error", err)
		}
	}
}
