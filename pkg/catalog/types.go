package catalog

import "slices"

// ComponentGroup is one named UI capability exposed by the design system:
// the components that are used together to form a widget, and the packages
// that implement them.
type ComponentGroup struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Components    []string `json:"components" yaml:"components"`
	RelevantFiles []string `json:"relevantFiles" yaml:"relevantFiles"`
}

// clone returns a deep copy so callers can never reach the catalog's backing arrays.
func (g ComponentGroup) clone() ComponentGroup {
	g.Components = slices.Clone(g.Components)
	g.RelevantFiles = slices.Clone(g.RelevantFiles)
	return g
}

// HasComponent reports whether id is listed in the group (exact match).
func (g ComponentGroup) HasComponent(id string) bool {
	return slices.Contains(g.Components, id)
}

// rawGroup mirrors ComponentGroup but keeps nil-vs-empty distinguishable
// so the loader can tell a missing field from an empty one.
type rawGroup struct {
	Name          *string   `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Components    *[]string `json:"components" yaml:"components"`
	RelevantFiles []string  `json:"relevantFiles" yaml:"relevantFiles"`
}
