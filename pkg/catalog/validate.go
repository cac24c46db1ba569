package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
)

// Severity grades a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one advisory validation result. Every finding is also an error
// so callers can use errors.As on an individual entry.
type Finding interface {
	error
	Kind() string
	Severity() Severity
	Group() string
}

// DuplicateGroupError reports a group name declared more than once.
// Lookups resolve to FirstIndex.
type DuplicateGroupError struct {
	Name           string
	FirstIndex     int
	DuplicateIndex int
}

func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("group %q: declared at groups[%d] and again at groups[%d]", e.Name, e.FirstIndex, e.DuplicateIndex)
}
func (e *DuplicateGroupError) Kind() string       { return "duplicate_group" }
func (e *DuplicateGroupError) Severity() Severity { return SeverityError }
func (e *DuplicateGroupError) Group() string      { return e.Name }

// EmptyGroupError reports a group with no components.
type EmptyGroupError struct {
	Name  string
	Index int
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %q (groups[%d]): components must not be empty", e.Name, e.Index)
}
func (e *EmptyGroupError) Kind() string       { return "empty_group" }
func (e *EmptyGroupError) Severity() Severity { return SeverityError }
func (e *EmptyGroupError) Group() string      { return e.Name }

// OrphanGroupError reports a group with no implementing package.
type OrphanGroupError struct {
	Name  string
	Index int
}

func (e *OrphanGroupError) Error() string {
	return fmt.Sprintf("group %q (groups[%d]): relevantFiles is empty", e.Name, e.Index)
}
func (e *OrphanGroupError) Kind() string       { return "orphan_group" }
func (e *OrphanGroupError) Severity() Severity { return SeverityError }
func (e *OrphanGroupError) Group() string      { return e.Name }

// PossibleAliasError reports a component identifier spelled with different
// casing in two groups. Heuristic only.
type PossibleAliasError struct {
	Component  string
	GroupName  string
	Alias      string
	AliasGroup string
}

func (e *PossibleAliasError) Error() string {
	return fmt.Sprintf("group %q: component %q may be an alias of %q in group %q", e.GroupName, e.Component, e.Alias, e.AliasGroup)
}
func (e *PossibleAliasError) Kind() string       { return "possible_alias" }
func (e *PossibleAliasError) Severity() Severity { return SeverityWarning }
func (e *PossibleAliasError) Group() string      { return e.GroupName }

// DuplicateComponentError reports a component listed twice in one group.
type DuplicateComponentError struct {
	GroupName string
	Index     int
	Component string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("group %q (groups[%d]): component %q listed more than once", e.GroupName, e.Index, e.Component)
}
func (e *DuplicateComponentError) Kind() string       { return "duplicate_component" }
func (e *DuplicateComponentError) Severity() Severity { return SeverityError }
func (e *DuplicateComponentError) Group() string      { return e.GroupName }

// IncompleteHierarchyError reports a group described as hierarchical or
// context-sharing that lists fewer than two components.
type IncompleteHierarchyError struct {
	GroupName  string
	Index      int
	Components int
}

func (e *IncompleteHierarchyError) Error() string {
	return fmt.Sprintf("group %q (groups[%d]): described as hierarchical but lists %d component(s)", e.GroupName, e.Index, e.Components)
}
func (e *IncompleteHierarchyError) Kind() string       { return "incomplete_hierarchy" }
func (e *IncompleteHierarchyError) Severity() Severity { return SeverityWarning }
func (e *IncompleteHierarchyError) Group() string      { return e.GroupName }

// Report is the outcome of a validation pass.
type Report struct {
	Groups   int
	Findings []Finding
}

// Errors returns the error-severity findings.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Err joins the error-severity findings, or returns nil when there are none.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, f := range errs {
		joined[i] = f
	}
	return fmt.Errorf("catalog validation failed: %w", errors.Join(joined...))
}

// ReportEntry is the flattened, serializable form of a Finding.
type ReportEntry struct {
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Group    string   `json:"group"`
	Message  string   `json:"message"`
}

// Entries flattens the findings in report order.
func (r *Report) Entries() []ReportEntry {
	out := make([]ReportEntry, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = ReportEntry{Kind: f.Kind(), Severity: f.Severity(), Group: f.Group(), Message: f.Error()}
	}
	return out
}

// MarshalJSON encodes the report with counts and flattened findings.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Groups   int           `json:"groups"`
		Errors   int           `json:"errors"`
		Warnings int           `json:"warnings"`
		Findings []ReportEntry `json:"findings"`
	}{r.Groups, len(r.Errors()), len(r.Warnings()), r.Entries()})
}

func (r *Report) filter(sev Severity) []Finding {
	out := make([]Finding, 0)
	for _, f := range r.Findings {
		if f.Severity() == sev {
			out = append(out, f)
		}
	}
	return out
}

// hierarchicalHint matches descriptions that call for a parent/child or
// provider structure.
var hierarchicalHint = regexp.MustCompile(`(?i)hierarch|shared[\s-]+context|context[\s-]+provider`)

// Validate checks the loaded catalog. Findings are advisory; the catalog is
// usable regardless.
func (c *Catalog) Validate() *Report {
	return ValidateGroups(c.groups)
}

// ValidateGroups checks a list of groups, typically before publishing them.
func ValidateGroups(groups []ComponentGroup) *Report {
	r := &Report{Groups: len(groups), Findings: make([]Finding, 0)}

	type occurrence struct {
		spelling string
		group    int
	}
	firstByName := make(map[string]int, len(groups))
	byFolded := make(map[string][]occurrence)
	fold := cases.Fold()

	for i, g := range groups {
		if first, exists := firstByName[g.Name]; exists {
			r.Findings = append(r.Findings, &DuplicateGroupError{Name: g.Name, FirstIndex: first, DuplicateIndex: i})
		} else {
			firstByName[g.Name] = i
		}

		if len(g.Components) == 0 {
			r.Findings = append(r.Findings, &EmptyGroupError{Name: g.Name, Index: i})
		}
		if len(g.RelevantFiles) == 0 {
			r.Findings = append(r.Findings, &OrphanGroupError{Name: g.Name, Index: i})
		}
		if len(g.Components) < 2 && hierarchicalHint.MatchString(g.Description) {
			r.Findings = append(r.Findings, &IncompleteHierarchyError{GroupName: g.Name, Index: i, Components: len(g.Components)})
		}

		seen := make(map[string]bool, len(g.Components))
		for _, comp := range g.Components {
			if seen[comp] {
				r.Findings = append(r.Findings, &DuplicateComponentError{GroupName: g.Name, Index: i, Component: comp})
				continue
			}
			seen[comp] = true

			key := fold.String(comp)
			for _, prev := range byFolded[key] {
				if prev.group != i && prev.spelling != comp {
					r.Findings = append(r.Findings, &PossibleAliasError{
						Component:  comp,
						GroupName:  g.Name,
						Alias:      prev.spelling,
						AliasGroup: groups[prev.group].Name,
					})
					break
				}
			}
			byFolded[key] = append(byFolded[key], occurrence{spelling: comp, group: i})
		}
	}

	return r
}
