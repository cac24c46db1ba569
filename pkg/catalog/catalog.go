package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uicatalog/pkg/util"
)

// resolveCacheSize bounds the number of memoized Resolve results per catalog.
const resolveCacheSize = 128

// Format identifies the encoding of a catalog source.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the source format from a file extension.
// Anything that is not .yaml/.yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Catalog is the immutable, indexed set of component groups.
// All methods are safe for concurrent use.
type Catalog struct {
	groups []ComponentGroup

	// byName maps a group name to the index of its first declaration.
	byName map[string]int

	// byComponent maps a component identifier to the indices of every group
	// listing it, in declaration order.
	byComponent map[string][]int

	resolved *lru.Cache[string, *Resolution]
	revision string
}

// New builds a catalog from groups already in memory. The same structural
// rules as the loaders apply: every group needs a name and at least one
// component. The slice is copied.
func New(groups []ComponentGroup) (*Catalog, error) {
	var problems []RecordProblem
	for i, g := range groups {
		problems = append(problems, checkRecord(i, &g.Name, &g.Components)...)
	}
	if len(problems) > 0 {
		return nil, &MalformedCatalogError{Problems: problems}
	}

	h := sha256.New()
	owned := make([]ComponentGroup, len(groups))
	for i, g := range groups {
		owned[i] = g.clone()
		fmt.Fprintf(h, "%s\x00%s\x00%v\x00%v\n", g.Name, g.Description, g.Components, g.RelevantFiles)
	}
	return build(owned, hex.EncodeToString(h.Sum(nil))[:12]), nil
}

// LoadFromFile reads and parses a catalog file. The format is chosen by extension.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := util.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data, FormatForPath(path))
}

// LoadFromReader parses a catalog from r.
func LoadFromReader(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return LoadFromBytes(data, format)
}

// LoadFromBytes parses a catalog source. The source is either an array of
// group records or an object whose only key is a "groups" array. Any record missing its
// name or components, or with empty components, fails the whole load with a
// *MalformedCatalogError; no partial catalog is ever returned.
func LoadFromBytes(data []byte, format Format) (*Catalog, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, &MalformedCatalogError{Cause: err}
	}

	var problems []RecordProblem
	groups := make([]ComponentGroup, 0, len(raw))
	for i, r := range raw {
		if p := checkRecord(i, r.Name, r.Components); len(p) > 0 {
			problems = append(problems, p...)
			continue
		}
		groups = append(groups, ComponentGroup{
			Name:          *r.Name,
			Description:   r.Description,
			Components:    *r.Components,
			RelevantFiles: r.RelevantFiles,
		})
	}
	if len(problems) > 0 {
		return nil, &MalformedCatalogError{Problems: problems}
	}

	sum := sha256.Sum256(data)
	return build(groups, hex.EncodeToString(sum[:])[:12]), nil
}

// Revision is a short content hash of the source the catalog was built from.
func (c *Catalog) Revision() string {
	return c.revision
}

// Len returns the number of declared groups, duplicates included.
func (c *Catalog) Len() int {
	return len(c.groups)
}

func decode(data []byte, format Format) ([]rawGroup, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty source")
	}
	if format == FormatYAML {
		return decodeYAML(trimmed)
	}

	switch trimmed[0] {
	case '[':
		var list []rawGroup
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
		return list, nil
	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		if err := checkDocumentKeys(keys); err != nil {
			return nil, err
		}
		raw := doc[groupsKey]
		if string(raw) == "null" {
			return nil, fmt.Errorf("%q must be an array", groupsKey)
		}
		var list []rawGroup
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("failed to parse catalog JSON: expected array or object, got %q", trimmed[0])
	}
}

// decodeYAML picks the shape from the root node so a field error inside a
// list is reported as such.
func decodeYAML(data []byte) ([]rawGroup, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("empty source")
	}

	root := doc.Content[0]
	var list []rawGroup
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var groups *yaml.Node
		keys := make([]string, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			keys = append(keys, root.Content[i].Value)
			if root.Content[i].Value == groupsKey {
				groups = root.Content[i+1]
			}
		}
		if err := checkDocumentKeys(keys); err != nil {
			return nil, err
		}
		if groups.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%q must be an array", groupsKey)
		}
		if err := groups.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
		return list, nil
	default:
		return nil, errors.New("failed to parse catalog YAML: expected sequence or mapping")
	}
}

// groupsKey is the only key allowed in the object form of a source.
const groupsKey = "groups"

func checkDocumentKeys(keys []string) error {
	found := false
	for _, k := range keys {
		if k != groupsKey {
			return fmt.Errorf("unknown top-level key %q, expected only %q", k, groupsKey)
		}
		found = true
	}
	if !found {
		return fmt.Errorf("missing %q array", groupsKey)
	}
	return nil
}

// checkRecord returns the fatal problems of one record.
func checkRecord(i int, name *string, components *[]string) []RecordProblem {
	var problems []RecordProblem
	n := ""
	if name != nil {
		n = *name
	}
	if n == "" {
		problems = append(problems, RecordProblem{Index: i, Field: "name", Reason: "is required"})
	}
	switch {
	case components == nil:
		problems = append(problems, RecordProblem{Index: i, Name: n, Field: "components", Reason: "is required"})
	case len(*components) == 0:
		problems = append(problems, RecordProblem{Index: i, Name: n, Field: "components", Reason: "must not be empty"})
	}
	return problems
}

// build indexes groups. Later duplicates of a name stay in the list but are
// not reachable by name.
func build(groups []ComponentGroup, revision string) *Catalog {
	c := &Catalog{
		groups:      groups,
		byName:      make(map[string]int, len(groups)),
		byComponent: make(map[string][]int),
		revision:    revision,
	}

	for i := range groups {
		g := &groups[i]
		if _, exists := c.byName[g.Name]; !exists {
			c.byName[g.Name] = i
		}
		for _, comp := range g.Components {
			idx := c.byComponent[comp]
			if len(idx) > 0 && idx[len(idx)-1] == i {
				continue
			}
			c.byComponent[comp] = append(idx, i)
		}
	}

	// Only fails for a non-positive size.
	c.resolved, _ = lru.New[string, *Resolution](resolveCacheSize)
	return c
}
