package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gnana997/uicatalog/pkg/util"
)

// Version information set at build time.
var (
	version = "0.1.0-dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	catalogPath string
	configPath  string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "uicatalog",
		Short: "Component group catalog for UI code generation",
		Long: `uicatalog answers "which components make up this widget?" for a design system.

It loads a catalog of component groups, validates it, and serves it to coding
agents over MCP so generated pages use complete, correctly imported widgets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.catalogPath, "catalog", "", "catalog file (JSON or YAML); defaults to the bundled FluentUI catalog")
	pf.StringVar(&opts.configPath, "config", defaultConfigPath, "project config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: json or text")

	root.AddCommand(
		serveCmd(opts),
		validateCmd(opts),
		listCmd(opts),
		showCmd(opts),
		componentsCmd(opts),
		resolveCmd(opts),
		analyzeCmd(opts),
		setupCmd(opts),
		versionCmd(),
	)
	return root
}

// session is what most commands need: the merged config and a logger.
type session struct {
	config *ProjectConfig
	logger *slog.Logger
}

func (o *globalOptions) open() (*session, error) {
	cfg, err := loadProjectConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg.applyFlags(o)

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LogLevel(cfg.LogLevel),
		Format: util.LogFormat(cfg.LogFormat),
	})
	return &session{config: cfg, logger: logger}, nil
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "uicatalog %s (commit %s, %s, %s/%s)\n",
				version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return cmd
}
