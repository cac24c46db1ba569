package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicatalog/catalogs"
)

// --- Helpers ---

func fixtureGroups() []ComponentGroup {
	return []ComponentGroup{
		{
			Name:          "Accordion",
			Description:   "Expandable sections sharing state through a context hierarchy",
			Components:    []string{"Accordion", "AccordionItem", "AccordionHeader", "AccordionPanel"},
			RelevantFiles: []string{"@fluentui/react-accordion"},
		},
		{
			Name:          "Avatar",
			Description:   "A person or entity",
			Components:    []string{"Avatar"},
			RelevantFiles: []string{"@fluentui/react-avatar"},
		},
		{
			Name:          "AvatarGroup",
			Description:   "Stacked avatars",
			Components:    []string{"AvatarGroup", "AvatarGroupItem", "Avatar"},
			RelevantFiles: []string{"@fluentui/react-avatar"},
		},
		{
			Name:          "Badge",
			Description:   "Status indicators",
			Components:    []string{"Badge", "CounterBadge"},
			RelevantFiles: []string{"@fluentui/react-badge"},
		},
	}
}

func fixtureJSON(t *testing.T, groups []ComponentGroup) []byte {
	t.Helper()
	data, err := json.MarshalIndent(groups, "", "  ")
	require.NoError(t, err)
	return data
}

func writeTempCatalog(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func groupNames(c *Catalog) []string {
	var names []string
	for g := range c.ListGroups() {
		names = append(names, g.Name)
	}
	return names
}

func bundledCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFromBytes(catalogs.FluentUIJSON, FormatJSON)
	require.NoError(t, err, "bundled catalog should load without errors")
	return c
}

// --- LoadFromBytes() tests ---

func TestLoadFromBytes_Array(t *testing.T) {
	c, err := LoadFromBytes(fixtureJSON(t, fixtureGroups()), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
	assert.NotEmpty(t, c.Revision())
}

func TestLoadFromBytes_ObjectForm(t *testing.T) {
	src := `{"groups": [{"name": "Switch", "description": "toggle", "components": ["Switch"], "relevantFiles": ["@fluentui/react-switch"]}]}`
	c, err := LoadFromBytes([]byte(src), FormatJSON)
	require.NoError(t, err)
	g, err := c.FindGroup("Switch")
	require.NoError(t, err)
	assert.Equal(t, "toggle", g.Description)
	assert.Equal(t, []string{"@fluentui/react-switch"}, g.RelevantFiles)
}

func TestLoadFromBytes_FieldOrderIrrelevant(t *testing.T) {
	src := `[{"relevantFiles": ["pkg"], "components": ["B", "A"], "description": "d", "name": "G"}]`
	c, err := LoadFromBytes([]byte(src), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, c.ComponentsOf("G"))
}

func TestLoadFromBytes_YAML(t *testing.T) {
	src := `
- name: Popover
  description: floating content
  components: [Popover, PopoverTrigger, PopoverSurface]
  relevantFiles: ["@fluentui/react-popover"]
- name: Tooltip
  components: [Tooltip]
  relevantFiles: ["@fluentui/react-tooltip"]
`
	c, err := LoadFromBytes([]byte(src), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"Popover", "Tooltip"}, groupNames(c))
	assert.Equal(t, []string{"Popover", "PopoverTrigger", "PopoverSurface"}, c.ComponentsOf("Popover"))
}

func TestLoadFromBytes_YAMLObjectForm(t *testing.T) {
	src := `
groups:
  - name: Tooltip
    components: [Tooltip]
    relevantFiles: ["@fluentui/react-tooltip"]
`
	c, err := LoadFromBytes([]byte(src), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tooltip"}, groupNames(c))
}

func TestLoadFromBytes_EmptyComponentsIsAtomic(t *testing.T) {
	groups := fixtureGroups()
	groups[2].Components = []string{}

	c, err := LoadFromBytes(fixtureJSON(t, groups), FormatJSON)
	require.Error(t, err)
	assert.Nil(t, c, "no partial catalog on failure")

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	require.Len(t, malformed.Problems, 1)
	assert.Equal(t, 2, malformed.Problems[0].Index)
	assert.Equal(t, "AvatarGroup", malformed.Problems[0].Name)
	assert.Equal(t, "components", malformed.Problems[0].Field)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestLoadFromBytes_MissingComponents(t *testing.T) {
	src := `[{"name": "Ghost", "relevantFiles": ["pkg"]}]`
	_, err := LoadFromBytes([]byte(src), FormatJSON)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	require.Len(t, malformed.Problems, 1)
	assert.Equal(t, "components", malformed.Problems[0].Field)
	assert.Equal(t, "is required", malformed.Problems[0].Reason)
}

func TestLoadFromBytes_MissingName(t *testing.T) {
	src := `[{"components": ["A"]}, {"name": "", "components": ["B"]}]`
	_, err := LoadFromBytes([]byte(src), FormatJSON)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	require.Len(t, malformed.Problems, 2)
	for _, p := range malformed.Problems {
		assert.Equal(t, "name", p.Field)
	}
	assert.Contains(t, err.Error(), "groups[0]: name is required")
}

func TestLoadFromBytes_ReportsEveryBadRecord(t *testing.T) {
	src := `[{"name": "A", "components": []}, {"name": "B", "components": ["B"]}, null]`
	_, err := LoadFromBytes([]byte(src), FormatJSON)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	// A: empty components. null: missing name and components.
	assert.Len(t, malformed.Problems, 3)
}

func TestLoadFromBytes_InvalidJSON(t *testing.T) {
	_, err := LoadFromBytes([]byte("[{invalid json}"), FormatJSON)
	require.Error(t, err)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	require.NotNil(t, malformed.Cause)
	assert.Contains(t, err.Error(), "failed to parse catalog JSON")
}

func TestLoadFromBytes_EmptySource(t *testing.T) {
	_, err := LoadFromBytes([]byte("  \n"), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty source")
}

func TestLoadFromBytes_ScalarSource(t *testing.T) {
	_, err := LoadFromBytes([]byte(`"Table"`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected array or object")
}

func TestLoadFromBytes_EmptyArray(t *testing.T) {
	c, err := LoadFromBytes([]byte(`[]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, groupNames(c))
}

func TestLoadFromBytes_ObjectWithoutGroups(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
		want   string
	}{
		{"json empty object", `{}`, FormatJSON, `missing "groups" array`},
		{"json null groups", `{"groups": null}`, FormatJSON, `"groups" must be an array`},
		{"json misspelled key", `{"grups": [{"name": "A", "components": ["A"]}]}`, FormatJSON, `unknown top-level key "grups"`},
		{"json extra key", `{"groups": [], "version": 2}`, FormatJSON, `unknown top-level key "version"`},
		{"yaml empty mapping", `{}`, FormatYAML, `missing "groups" array`},
		{"yaml null groups", "groups:\n", FormatYAML, `"groups" must be an array`},
		{"yaml misspelled key", "grups:\n  - name: A\n    components: [A]\n", FormatYAML, `unknown top-level key "grups"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadFromBytes([]byte(tt.src), tt.format)
			require.Error(t, err)
			assert.Nil(t, c)

			var malformed *MalformedCatalogError
			require.True(t, errors.As(err, &malformed))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromBytes_YAMLObjectEmptyGroups(t *testing.T) {
	c, err := LoadFromBytes([]byte("groups: []\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadFromBytes_YAMLFieldTypeError(t *testing.T) {
	src := `
- name: Table
  components: Table
`
	_, err := LoadFromBytes([]byte(src), FormatYAML)
	require.Error(t, err)

	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, err.Error(), "failed to parse catalog YAML")
	assert.Contains(t, err.Error(), "!!str")
	assert.NotContains(t, err.Error(), "mapping")
}

func TestLoadFromBytes_YAMLScalarSource(t *testing.T) {
	_, err := LoadFromBytes([]byte("Table\n"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected sequence or mapping")
}

func TestLoadFromBytes_RevisionTracksContent(t *testing.T) {
	a, err := LoadFromBytes(fixtureJSON(t, fixtureGroups()), FormatJSON)
	require.NoError(t, err)
	b, err := LoadFromBytes(fixtureJSON(t, fixtureGroups()), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, a.Revision(), b.Revision())

	changed := fixtureGroups()
	changed[0].Description = "changed"
	c, err := LoadFromBytes(fixtureJSON(t, changed), FormatJSON)
	require.NoError(t, err)
	assert.NotEqual(t, a.Revision(), c.Revision())
}

// --- LoadFromFile() / LoadFromReader() tests ---

func TestLoadFromFile_JSON(t *testing.T) {
	path := writeTempCatalog(t, "catalog.json", fixtureJSON(t, fixtureGroups()))
	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accordion", "Avatar", "AvatarGroup", "Badge"}, groupNames(c))
}

func TestLoadFromFile_YAMLByExtension(t *testing.T) {
	path := writeTempCatalog(t, "catalog.yml", []byte("- name: Spinner\n  components: [Spinner]\n  relevantFiles: [x]\n"))
	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spinner"}, c.ComponentsOf("Spinner"))
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/catalog.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}

func TestLoadFromReader(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(string(fixtureJSON(t, fixtureGroups()))), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a/catalog.YAML"))
	assert.Equal(t, FormatYAML, FormatForPath("catalog.yml"))
	assert.Equal(t, FormatJSON, FormatForPath("catalog.json"))
	assert.Equal(t, FormatJSON, FormatForPath("catalog"))
}

// --- New() tests ---

func TestNew_CopiesInput(t *testing.T) {
	groups := fixtureGroups()
	c, err := New(groups)
	require.NoError(t, err)

	groups[1].Components[0] = "Mutated"
	assert.Equal(t, []string{"Avatar"}, c.ComponentsOf("Avatar"))
}

func TestNew_RejectsEmptyComponents(t *testing.T) {
	_, err := New([]ComponentGroup{{Name: "Empty"}})
	var malformed *MalformedCatalogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "Empty", malformed.Problems[0].Name)
}

// --- Bundled catalog ---

func TestBundledCatalog_EveryGroupHasComponents(t *testing.T) {
	c := bundledCatalog(t)
	require.Greater(t, c.Len(), 40)
	for g := range c.ListGroups() {
		assert.NotEmpty(t, g.Components, "%s should list components", g.Name)
		assert.NotEmpty(t, g.RelevantFiles, "%s should list packages", g.Name)
	}
}

func TestBundledCatalog_FindGroupRoundTrip(t *testing.T) {
	c := bundledCatalog(t)
	for _, name := range c.Names() {
		g, err := c.FindGroup(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.Name)
	}
}

func TestBundledCatalog_DeclarationOrder(t *testing.T) {
	c := bundledCatalog(t)

	var source []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(catalogs.FluentUIJSON, &source))

	names := groupNames(c)
	require.Len(t, names, len(source))
	for i := range source {
		assert.Equal(t, source[i].Name, names[i])
	}
	assert.Equal(t, []string{"Accordion", "Avatar", "AvatarGroup", "Badge"}, names[:4])
}

func TestBundledCatalog_TableScaffold(t *testing.T) {
	c := bundledCatalog(t)
	comps := c.ComponentsOf("Table")
	require.Len(t, comps, 21)
	assert.Equal(t, []string{"Table", "TableHeader", "TableBody", "TableRow", "TableCell"}, comps[:5])
}

func TestBundledCatalog_ValidatesClean(t *testing.T) {
	c := bundledCatalog(t)
	report := c.Validate()
	assert.Empty(t, report.Findings)
	assert.NoError(t, report.Err())
}

func TestBundledCatalog_MatchesFileOnDisk(t *testing.T) {
	path := filepath.Join("..", "..", catalogs.DefaultPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("bundled catalog not found at", path)
	}
	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, bundledCatalog(t).Revision(), c.Revision())
}
