package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fern-cli/internal/config"
	"fern-cli/internal/filetree"
	"fern-cli/internal/format"
	"fern-cli/internal/fsops"
	"fern-cli/internal/logging"
	"fern-cli/internal/marks"
	"fern-cli/internal/metrics"
	"fern-cli/internal/tui"
)

type App struct {
	ConfigPath  string
	Cwd         string
	LogLevel    string
	MetricsAddr string
	PrettyJSON  bool
	Format      string
	ShowHidden  bool
	DirsFirst   bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "fern [dir]",
		Short:        "Keyboard-driven terminal file explorer",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Explore the current directory
  fern

  # Explore a project with a file preselected
  fern ~/src/project --cwd ~/src/project/cmd/main.go

  # Print the tree or search it from scripts
  fern tree . --format edn --pretty
  fern find "main go"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, args)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.Log.Level = app.LogLevel
		}
		if flags.Changed("metrics-addr") {
			cfg.Metrics.Addr = app.MetricsAddr
		}
		if flags.Changed("show-hidden") {
			cfg.UI.ShowHidden = app.ShowHidden
		}
		if flags.Changed("dirs-first") {
			cfg.UI.DirsFirst = app.DirsFirst
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("FERN_CONFIG", ""), "Path to config.toml (default: $XDG_CONFIG_HOME/fern/config.toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FERN_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().BoolVar(&app.ShowHidden, "show-hidden", false, "Include dot-files")
	cmd.PersistentFlags().BoolVar(&app.DirsFirst, "dirs-first", false, "List directories before files")
	cmd.Flags().StringVar(&app.Cwd, "cwd", "", "Path to select at start")

	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newMarksCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App, args []string) error {
	ring := logging.NewRing(500)
	log, closeLog, err := logging.New(logging.Options{
		Level: app.cfg.Log.Level,
		File:  app.cfg.Log.File,
		Ring:  ring,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if addr := strings.TrimSpace(app.cfg.Metrics.Addr); addr != "" {
		metrics.Serve(ctx, addr, log)
	}

	ft, err := openTree(app, rootArg(args), filetree.WithRebuildHook(metrics.ObserveRebuild))
	if err != nil {
		return err
	}
	if app.Cwd != "" {
		start, err := filepath.Abs(app.Cwd)
		if err != nil {
			return err
		}
		if err := ft.OpenPath(start); err != nil {
			return fmt.Errorf("--cwd: %w", err)
		}
	}

	opts := tui.Options{Logger: log, LogRing: ring, Config: app.cfg}
	execOpts := []fsops.Option{fsops.WithLogger(log)}
	if store, err := marks.Open(ctx, app.cfg.Marks.Path); err != nil {
		log.Warn("marks unavailable", zap.String("path", app.cfg.Marks.Path), zap.Error(err))
	} else {
		defer store.Close()
		opts.Marks = store
		execOpts = append(execOpts, fsops.WithMarks(store))
	}
	opts.Executor = fsops.New(ft, execOpts...)

	log.Info("opened", zap.String("root", ft.RootPath()), zap.Int("entries", ft.Tree().Count()))
	return tui.Run(opts)
}

func rootArg(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return "."
}

func openTree(app *App, root string, opts ...filetree.Option) (*filetree.Filetree, error) {
	b := filetree.NewBuilder(root).
		ShowHidden(app.cfg.UI.ShowHidden).
		DirsFirst(app.cfg.UI.DirsFirst)
	return filetree.Open(b, opts...)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
