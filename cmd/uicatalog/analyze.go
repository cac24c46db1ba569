package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uicatalog/pkg/usage"
	"github.com/gnana997/uicatalog/pkg/util"
)

func analyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOut bool
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Report which catalog groups a page uses",
		Long: `Parse TSX/JSX pages and map their components onto catalog groups.

Use "-" to read a TSX page from stdin. With --check the command fails when
any page has findings (components used without an import, or imported from
a package that does not provide them).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			store, err := openStore(s.config, s.logger)
			if err != nil {
				return err
			}
			c := store.Current()

			analyzer := usage.NewAnalyzer(s.logger)
			defer analyzer.Close()

			out := cmd.OutOrStdout()
			results := make(map[string]*usage.Analysis, len(args))
			findings := 0
			for i, path := range args {
				code, name, err := readPage(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				analysis, err := analyzer.Analyze(c, code, name)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[path] = analysis
				findings += len(analysis.Findings)

				if !jsonOut {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printAnalysis(out, path, analysis)
				}
			}

			if jsonOut {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			}
			if check && findings > 0 {
				return fmt.Errorf("%d finding(s)", findings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print analyses as JSON keyed by path")
	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero when any page has findings")
	return cmd
}

// readPage returns the source and the name used to pick a grammar.
func readPage(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "", nil
	}
	data, err := util.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

func printAnalysis(w io.Writer, path string, a *usage.Analysis) {
	fmt.Fprintf(w, "%s  %s\n", headingStyle.Render(path),
		mutedStyle.Render(fmt.Sprintf("%d lines, %d component uses", a.LineCount, len(a.Usages))))

	if len(a.Groups) == 0 {
		fmt.Fprintln(w, "  no catalog groups used")
	}
	for _, g := range a.Groups {
		fmt.Fprintf(w, "  %s  %s\n", accentStyle.Render(g.Group), strings.Join(g.Components, ", "))
	}
	if len(a.Unknown) > 0 {
		fmt.Fprintf(w, "  %s not in catalog: %s\n", warnMark, strings.Join(a.Unknown, ", "))
	}
	for _, f := range a.Findings {
		fmt.Fprintf(w, "  %s line %d: %s\n", failMark, f.Line, f.Message)
	}
}
