package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gnana997/uicatalog/catalogs"
	"github.com/gnana997/uicatalog/pkg/catalog"
	"github.com/gnana997/uicatalog/pkg/discovery"
	"github.com/gnana997/uicatalog/pkg/util"
)

// fileResult is the outcome of validating one catalog source.
type fileResult struct {
	Path    string          `json:"path"`
	LoadErr string          `json:"load_error,omitempty"`
	Report  *catalog.Report `json:"report,omitempty"`
}

func (r fileResult) failed(strict bool) bool {
	if r.LoadErr != "" || r.Report.HasErrors() {
		return true
	}
	return strict && len(r.Report.Warnings()) > 0
}

var errValidationFailed = errors.New("validation failed")

func validateCmd(opts *globalOptions) *cobra.Command {
	var (
		strict   bool
		jsonOut  bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Check catalog files for structural and consistency problems",
		Long: `Validate one or more catalog sources.

Each path may be a file or a directory; directories are searched using the
include/exclude globs from the project config. With no paths the configured
catalog is checked. Warnings fail the run only with --strict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}

			var results []fileResult
			if len(args) == 0 {
				results = []fileResult{validateConfigured(s.config)}
			} else {
				var files []string
				for _, arg := range args {
					found, err := discovery.Find(arg, s.config.discovery())
					if err != nil {
						return err
					}
					files = append(files, found...)
				}
				if len(files) == 0 {
					return fmt.Errorf("no catalog files found under %v", args)
				}
				results, err = validateFiles(cmd, files, parallel)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				printResults(out, results)
			}

			for _, r := range results {
				if r.failed(strict) {
					return errValidationFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 0, "files validated concurrently (0 = based on CPU count)")
	return cmd
}

func validateConfigured(cfg *ProjectConfig) fileResult {
	if cfg.CatalogPath == "" {
		return validateSource(catalogs.DefaultPath, func() (*catalog.Catalog, error) {
			return catalog.LoadFromBytes(catalogs.FluentUIJSON, catalog.FormatJSON)
		})
	}
	return validateSource(cfg.CatalogPath, func() (*catalog.Catalog, error) {
		return catalog.LoadFromFile(cfg.CatalogPath)
	})
}

// validateFiles checks files concurrently. Results keep the order of files.
func validateFiles(cmd *cobra.Command, files []string, parallel int) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(util.GetOptimalPoolSizeWithOverride(parallel))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validateSource(path, func() (*catalog.Catalog, error) {
				return catalog.LoadFromFile(path)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateSource(path string, load func() (*catalog.Catalog, error)) fileResult {
	c, err := load()
	if err != nil {
		return fileResult{Path: path, LoadErr: err.Error()}
	}
	return fileResult{Path: path, Report: c.Validate()}
}

func printResults(w io.Writer, results []fileResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.LoadErr != "" {
			fmt.Fprintf(w, "%s %s\n", failMark, headingStyle.Render(r.Path))
			fmt.Fprintf(w, "  %s\n", r.LoadErr)
			continue
		}

		mark := okMark
		switch {
		case r.Report.HasErrors():
			mark = failMark
		case len(r.Report.Warnings()) > 0:
			mark = warnMark
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, headingStyle.Render(r.Path),
			mutedStyle.Render(fmt.Sprintf("%d groups, %d errors, %d warnings",
				r.Report.Groups, len(r.Report.Errors()), len(r.Report.Warnings()))))

		for _, e := range r.Report.Entries() {
			fmt.Fprintf(w, "  %-7s %-20s %s\n", e.Severity, e.Kind, e.Message)
		}
	}
}
