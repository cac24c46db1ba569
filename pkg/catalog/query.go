package catalog

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// GroupSearchResult holds a group match with the reason it matched.
type GroupSearchResult struct {
	Group       ComponentGroup
	MatchReason string
}

// Resolution is the scaffold set for one or more groups: every component and
// package they need, de-duplicated, in first-seen order.
type Resolution struct {
	Groups        []string `json:"groups"`
	Components    []string `json:"components"`
	RelevantFiles []string `json:"relevantFiles"`
}

// FindGroup returns the group whose name equals name exactly.
// The lookup is case-sensitive; a miss returns *NotFoundError.
func (c *Catalog) FindGroup(name string) (ComponentGroup, error) {
	i, ok := c.byName[name]
	if !ok {
		return ComponentGroup{}, &NotFoundError{Name: name}
	}
	return c.groups[i].clone(), nil
}

// ListGroups yields every declared group in source order.
// The sequence can be ranged over any number of times.
func (c *Catalog) ListGroups() iter.Seq[ComponentGroup] {
	return func(yield func(ComponentGroup) bool) {
		for i := range c.groups {
			if !yield(c.groups[i].clone()) {
				return
			}
		}
	}
}

// Names returns group names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.groups))
	for i := range c.groups {
		names[i] = c.groups[i].Name
	}
	return names
}

// ComponentsOf returns the components of the named group, or an empty slice
// if no such group exists.
func (c *Catalog) ComponentsOf(name string) []string {
	i, ok := c.byName[name]
	if !ok {
		return []string{}
	}
	return slices.Clone(c.groups[i].Components)
}

// GroupsContaining returns every group listing the component identifier, in
// declaration order. Matching is exact.
func (c *Catalog) GroupsContaining(component string) []ComponentGroup {
	idx := c.byComponent[component]
	result := make([]ComponentGroup, 0, len(idx))
	for _, i := range idx {
		result = append(result, c.groups[i].clone())
	}
	return result
}

// Packages returns every distinct relevant file across the catalog, in
// first-seen order.
func (c *Catalog) Packages() []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for i := range c.groups {
		for _, f := range c.groups[i].RelevantFiles {
			if !seen[f] {
				seen[f] = true
				result = append(result, f)
			}
		}
	}
	return result
}

// Search performs a case-insensitive substring search across group names,
// descriptions and component identifiers. Each group appears at most once,
// with the first reason that matched.
func (c *Catalog) Search(query string) []GroupSearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	seen := make(map[string]bool)
	var results []GroupSearchResult

	for i := range c.groups {
		g := &c.groups[i]
		if seen[g.Name] {
			continue
		}

		reason := ""
		switch {
		case strings.Contains(strings.ToLower(g.Name), query):
			reason = "name"
		case strings.Contains(strings.ToLower(g.Description), query):
			reason = "description"
		default:
			for _, comp := range g.Components {
				if strings.Contains(strings.ToLower(comp), query) {
					reason = "component:" + comp
					break
				}
			}
		}

		if reason != "" {
			seen[g.Name] = true
			results = append(results, GroupSearchResult{Group: g.clone(), MatchReason: reason})
		}
	}

	return results
}

// Resolve merges the named groups into a single scaffold set. Requesting the
// same group twice is harmless. Any unknown name fails the whole call with
// *NotFoundError. Results are memoized per catalog.
func (c *Catalog) Resolve(names ...string) (*Resolution, error) {
	key := resolveKey(names)
	if r, ok := c.resolved.Get(key); ok {
		return r.clone(), nil
	}

	r := &Resolution{
		Groups:        []string{},
		Components:    []string{},
		RelevantFiles: []string{},
	}
	seenGroup := make(map[string]bool, len(names))
	seenComp := make(map[string]bool)
	seenFile := make(map[string]bool)

	for _, name := range names {
		if seenGroup[name] {
			continue
		}
		i, ok := c.byName[name]
		if !ok {
			return nil, &NotFoundError{Name: name}
		}
		seenGroup[name] = true
		r.Groups = append(r.Groups, name)

		g := &c.groups[i]
		for _, comp := range g.Components {
			if !seenComp[comp] {
				seenComp[comp] = true
				r.Components = append(r.Components, comp)
			}
		}
		for _, f := range g.RelevantFiles {
			if !seenFile[f] {
				seenFile[f] = true
				r.RelevantFiles = append(r.RelevantFiles, f)
			}
		}
	}

	c.resolved.Add(key, r)
	return r.clone(), nil
}

// resolveKey length-prefixes each name so that no two name lists share a key.
func resolveKey(names []string) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(strconv.Itoa(len(n)))
		b.WriteByte(':')
		b.WriteString(n)
	}
	return b.String()
}

func (r *Resolution) clone() *Resolution {
	return &Resolution{
		Groups:        slices.Clone(r.Groups),
		Components:    slices.Clone(r.Components),
		RelevantFiles: slices.Clone(r.RelevantFiles),
	}
}
