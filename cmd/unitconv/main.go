package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/unitconv/config"
	"github.com/sambeau/unitconv/pkg/repl"
	"github.com/sambeau/unitconv/pkg/units"
	"github.com/sambeau/unitconv/pkg/units/catalog"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
	"github.com/sambeau/unitconv/server"
	"github.com/sambeau/unitconv/store"
)

// Version information, set at build time via -ldflags
var (
	Version = "dev"     // -X main.Version=$(git describe --tags --always)
	Commit  = "unknown" // -X main.Commit=$(git rev-parse --short HEAD)
)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	stdout, stderr io.Writer
	getenv         func(string) string

	configPath string
	logLevel   string

	cfg     *config.Config
	cfgFile string
	logger  *zap.Logger
	level   zap.AtomicLevel
	closeFn func() error
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "unitconv",
		Short:         "Convert values between the units of a fixed registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default: auto-detect)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(a.convertCmd())
	root.AddCommand(a.categoriesCmd())
	root.AddCommand(a.optionsCmd())
	root.AddCommand(a.findCmd())
	root.AddCommand(a.catalogCmd())
	root.AddCommand(a.replCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.prefsCmd())
	root.AddCommand(a.versionCmd())
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	cfg, cfgFile, err := config.LoadWithPath(a.configPath, a.getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, level, closeFn, err := newLogger(cfg.Logging, a.stdout, a.stderr)
	if err != nil {
		return err
	}
	a.cfg, a.cfgFile = cfg, cfgFile
	a.logger, a.level, a.closeFn = logger, level, closeFn

	logger.Debug("configuration loaded", zap.String("path", cfgFile))
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeFn != nil {
		_ = a.closeFn()
	}
}

// engine builds an engine from the loaded configuration.
func (a *app) engine(legacy bool) *units.Engine {
	opts := []units.EngineOption{units.WithLogger(a.logger.Named("engine"))}
	if legacy {
		opts = append(opts, units.WithLegacyTargetFallback())
	}
	return units.NewEngine(nil, opts...)
}

func (a *app) convertCmd() *cobra.Command {
	var strict, legacy bool

	cmd := &cobra.Command{
		Use:   "convert VALUE FROM [TO]",
		Short: "Convert a value from one unit to another",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return uerrors.New("UNIT-0005", map[string]any{"Value": args[0]})
			}
			req := units.Request{Value: value, Source: args[1]}
			if len(args) == 3 {
				req.Target = args[2]
			}

			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Engine.Strict
			}
			if !cmd.Flags().Changed("legacy") {
				legacy = a.cfg.Engine.LegacyTargetFallback
			}
			engine := a.engine(legacy)

			var result float64
			if strict {
				result, err = engine.ConvertStrict(req)
				if err != nil {
					return err
				}
			} else {
				result = engine.Convert(req)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'g', -1, 64))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject conversions across categories or dimensions")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "resolve throughput targets from the source unit")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List unit categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range units.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d units\n", c.Name, len(c.Units))
			}
			return nil
		},
	}
}

func (a *app) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options CATEGORY",
		Short: "List the units of a category as value/label pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !units.IsCategoryName(args[0]) {
				return uerrors.NewUnknownCategory(args[0], categoryNames())
			}
			for _, o := range units.Options(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", o.Value, o.Label)
			}
			return nil
		},
	}
}

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find UNIT",
		Short: "Show the category that owns a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := units.FindCategory(args[0])
			if !ok {
				return uerrors.NewUnknownUnit(args[0], units.Default().IDs())
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			return nil
		},
	}
}

func (a *app) catalogCmd() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the unit catalog as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if html {
				return catalog.HTML(cmd.OutOrStdout(), units.Default())
			}
			return catalog.Markdown(cmd.OutOrStdout(), units.Default())
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of Markdown")
	return cmd
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive conversion session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := repl.New(a.engine(a.cfg.Engine.LegacyTargetFallback), a.cfg.Engine.Strict)
			repl.Start(cmd.OutOrStdout(), Version, session)
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if dev {
				cfg.Server.Dev = true
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			// Full validation after CLI overrides applied
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			for _, warning := range config.Warnings(cfg) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}

			// Set up signal handling for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			opts := []server.Option{server.WithLevel(a.level), server.WithLevelOverride(a.logLevel)}
			if cfg.Store.DSN != "" {
				st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, store.WithLogger(a.logger.Named("store")))
				if err != nil {
					return fmt.Errorf("opening store: %w", err)
				}
				defer st.Close()
				opts = append(opts, server.WithStore(st))
			}

			srv, err := server.New(cfg, a.cfgFile, a.logger, opts...)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override listen port")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode (localhost, config watching)")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unitconv version %s (%s)\n", Version, Commit)
		},
	}
}

func categoryNames() []string {
	names := units.Default().Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
