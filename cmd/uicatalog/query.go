package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uicatalog/pkg/catalog"
)

// loadCatalog opens the configured catalog for a one-shot command.
func (o *globalOptions) loadCatalog() (*catalog.Catalog, error) {
	s, err := o.open()
	if err != nil {
		return nil, err
	}
	store, err := openStore(s.config, s.logger)
	if err != nil {
		return nil, err
	}
	return store.Current(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func listCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOut    bool
		search     string
		containing string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List component groups in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			var groups []catalog.ComponentGroup
			switch {
			case search != "":
				for _, r := range c.Search(search) {
					groups = append(groups, r.Group)
				}
			case containing != "":
				groups = c.GroupsContaining(containing)
			default:
				for g := range c.ListGroups() {
					groups = append(groups, g)
				}
			}
			if groups == nil {
				groups = []catalog.ComponentGroup{}
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching groups.")
				return nil
			}
			printGroupTable(cmd.OutOrStdout(), groups)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print groups as JSON")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive keyword filter")
	cmd.Flags().StringVar(&containing, "containing", "", "only groups listing this component")
	cmd.MarkFlagsMutuallyExclusive("search", "containing")
	return cmd
}

func showCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <group>",
		Short: "Show one group: description, components and packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			g, err := c.FindGroup(args[0])
			if err != nil {
				return suggest(c, err, args[0])
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), g)
			}
			printGroupCard(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the group as JSON")
	return cmd
}

func componentsCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "components <group>",
		Short: "Print the components of a group, one per line",
		Long:  "Print the components of a group, one per line. An unknown group prints nothing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			comps := c.ComponentsOf(args[0])
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), comps)
			}
			for _, comp := range comps {
				fmt.Fprintln(cmd.OutOrStdout(), comp)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print components as a JSON array")
	return cmd
}

func resolveCmd(opts *globalOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <group>...",
		Short: "Merge groups into one de-duplicated component and package set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			r, err := c.Resolve(args...)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			printResolution(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the resolution as JSON")
	return cmd
}

// suggest adds near matches to a not-found error.
func suggest(c *catalog.Catalog, err error, name string) error {
	results := c.Search(name)
	if len(results) == 0 {
		return err
	}
	names := make([]string, 0, 3)
	for _, r := range results {
		if len(names) == cap(names) {
			break
		}
		names = append(names, r.Group.Name)
	}
	return fmt.Errorf("%w (did you mean %v?)", err, names)
}
