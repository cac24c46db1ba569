package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/uicatalog/pkg/mcp"
	"github.com/gnana997/uicatalog/pkg/mcplog"
	"github.com/gnana997/uicatalog/pkg/usage"
	"github.com/gnana997/uicatalog/pkg/watch"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		watchFlag bool
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog to coding agents over MCP (stdio)",
		Long: `Start an MCP server on stdin/stdout.

With --watch the catalog file is reloaded when it changes on disk. A reload
that fails keeps the previous catalog in service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			cfg := s.config
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watchFlag
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}

			store, err := openStore(cfg, s.logger)
			if err != nil {
				return err
			}
			if report := store.Current().Validate(); len(report.Findings) > 0 {
				s.logger.Warn("catalog has validation findings",
					"errors", len(report.Errors()),
					"warnings", len(report.Warnings()))
			}

			if cfg.Watch {
				if store.Path() == "" {
					s.logger.Warn("watch ignored: the bundled catalog has no file to watch")
				} else {
					w, err := watch.New(store.Path(), store, watch.Options{}, s.logger)
					if err != nil {
						return err
					}
					if err := w.Start(); err != nil {
						return err
					}
					defer w.Close()
				}
			}

			callLog, err := mcplog.NewLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer callLog.Close()

			analyzer := usage.NewAnalyzer(s.logger)
			defer analyzer.Close()

			s.logger.Info("serving catalog over stdio",
				"groups", store.Current().Len(),
				"revision", store.Current().Revision(),
				"path", store.Path(),
				"watch", cfg.Watch)

			mcpserver.Version = version
			srv := mcpserver.NewServer(store, analyzer, callLog)
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watchFlag, "watch", false, "reload the catalog file when it changes")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append one JSON line per tool call to this file")
	return cmd
}
