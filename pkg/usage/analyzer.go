// Package usage maps the JSX in a page source onto catalog groups.
package usage

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gnana997/uicatalog/pkg/catalog"
	"github.com/gnana997/uicatalog/pkg/parser"
)

// Finding kinds reported by Analyze.
const (
	KindNotImported     = "not_imported"
	KindPackageMismatch = "package_mismatch"
)

// Analysis is a compact summary of how a page uses the catalog.
type Analysis struct {
	Imports  []Import   `json:"imports"`
	Usages   []Usage    `json:"usages"`
	Groups   []GroupUse `json:"groups"`
	Unknown  []string   `json:"unknown"`
	Findings []Finding  `json:"findings"`
	// Revision is the catalog revision the page was checked against.
	Revision  string `json:"revision"`
	LineCount int    `json:"line_count"`
}

// GroupUse lists the components of one group that the page renders.
type GroupUse struct {
	Group      string   `json:"group"`
	Components []string `json:"components"`
}

// Finding is a single problem with the page.
type Finding struct {
	Kind      string `json:"kind"`
	Component string `json:"component"`
	Line      int    `json:"line"`
	Message   string `json:"message"`
}

// Analyzer parses page sources and checks them against a catalog.
// It is safe for concurrent use.
type Analyzer struct {
	parser *parser.Manager
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer with its own parser pools.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		parser: parser.NewManager(logger),
		logger: logger,
	}
}

// Close frees the parsers.
func (a *Analyzer) Close() error {
	return a.parser.Close()
}

// Analyze parses code and reports which catalog groups it uses. filename only
// selects the grammar; an empty name means TSX.
func (a *Analyzer) Analyze(c *catalog.Catalog, code []byte, filename string) (*Analysis, error) {
	dialect := parser.DetectDialect(filename)
	if dialect == parser.DialectUnknown {
		return nil, fmt.Errorf("usage: unsupported file type %q", filename)
	}

	tree, err := a.parser.Parse(code, dialect)
	if err != nil {
		return nil, fmt.Errorf("usage: %w", err)
	}
	defer tree.Close()

	ex := extract(tree, code)
	analysis := &Analysis{
		Imports:   ex.imports,
		Usages:    ex.usages,
		Groups:    []GroupUse{},
		Unknown:   []string{},
		Findings:  []Finding{},
		Revision:  c.Revision(),
		LineCount: bytes.Count(code, []byte("\n")) + 1,
	}
	if analysis.Imports == nil {
		analysis.Imports = []Import{}
	}
	if analysis.Usages == nil {
		analysis.Usages = []Usage{}
	}

	packages := make(map[string]bool)
	for _, p := range c.Packages() {
		packages[p] = true
	}

	// local binding -> (exported name, source)
	type binding struct {
		name   string
		source string
	}
	bound := make(map[string]binding)
	unknown := make(map[string]bool)
	for _, imp := range ex.imports {
		if imp.Default != "" {
			bound[imp.Default] = binding{name: imp.Default, source: imp.Source}
		}
		for local, exported := range imp.Names {
			bound[local] = binding{name: exported, source: imp.Source}
			if packages[imp.Source] && isComponentName(exported) && len(c.GroupsContaining(exported)) == 0 {
				unknown[exported] = true
			}
		}
	}
	for name := range unknown {
		analysis.Unknown = append(analysis.Unknown, name)
	}
	slices.Sort(analysis.Unknown)

	groupIndex := make(map[string]int)
	reported := make(map[string]bool)
	for _, u := range ex.usages {
		name := u.Component
		b, imported := bound[name]
		if imported {
			name = b.name
		}

		groups := c.GroupsContaining(name)
		if len(groups) == 0 {
			continue
		}

		switch {
		case !imported:
			if !reported[KindNotImported+name] {
				reported[KindNotImported+name] = true
				analysis.Findings = append(analysis.Findings, Finding{
					Kind:      KindNotImported,
					Component: name,
					Line:      u.Line,
					Message:   fmt.Sprintf("%s is used but never imported", name),
				})
			}
		case packages[b.source] && !providedBy(groups, b.source):
			if !reported[KindPackageMismatch+name] {
				reported[KindPackageMismatch+name] = true
				analysis.Findings = append(analysis.Findings, Finding{
					Kind:      KindPackageMismatch,
					Component: name,
					Line:      u.Line,
					Message:   fmt.Sprintf("%s is imported from %s, expected one of %v", name, b.source, groups[0].RelevantFiles),
				})
			}
		}

		for _, g := range attribute(name, groups) {
			i, ok := groupIndex[g]
			if !ok {
				i = len(analysis.Groups)
				groupIndex[g] = i
				analysis.Groups = append(analysis.Groups, GroupUse{Group: g, Components: []string{}})
			}
			if !slices.Contains(analysis.Groups[i].Components, name) {
				analysis.Groups[i].Components = append(analysis.Groups[i].Components, name)
			}
		}
	}

	a.logger.Debug("analyzed page",
		"file", filename,
		"usages", len(analysis.Usages),
		"groups", len(analysis.Groups),
		"findings", len(analysis.Findings))
	return analysis, nil
}

// attribute picks the groups a component use counts towards. A group named
// after the component wins; otherwise every containing group gets it.
func attribute(component string, groups []catalog.ComponentGroup) []string {
	for _, g := range groups {
		if g.Name == component {
			return []string{g.Name}
		}
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func providedBy(groups []catalog.ComponentGroup, source string) bool {
	for _, g := range groups {
		if slices.Contains(g.RelevantFiles, source) {
			return true
		}
	}
	return false
}
