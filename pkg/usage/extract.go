package usage

import (
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Import is one import statement.
type Import struct {
	Source string `json:"source"`
	// Names maps each local binding to the exported name it refers to.
	// They differ only for aliased imports ({ Button as Btn }).
	Names   map[string]string `json:"names"`
	Default string            `json:"default,omitempty"`
	Line    int               `json:"line"`
}

// Usage is one JSX element whose tag looks like a component.
type Usage struct {
	Component string `json:"component"`
	Parent    string `json:"parent,omitempty"` // nearest enclosing component, "" at top level
	Line      int    `json:"line"`             // 1-based
	Column    int    `json:"column"`           // 1-based
}

type extraction struct {
	imports []Import
	usages  []Usage
}

func extract(tree *ts.Tree, source []byte) *extraction {
	result := &extraction{}
	root := tree.RootNode()
	extractImports(root, source, result)

	var stack []string
	walkJSX(root, source, &stack, result)
	return result
}

// extractImports reads top-level import_statement nodes.
func extractImports(node *ts.Node, source []byte, result *extraction) {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() != "import_statement" {
			continue
		}

		imp := Import{
			Names: make(map[string]string),
			Line:  int(child.StartPosition().Row) + 1,
		}
		for j := uint(0); j < uint(child.ChildCount()); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "string":
				imp.Source = stringContent(part, source)
			case "import_clause":
				importClause(part, source, &imp)
			}
		}
		if imp.Source != "" {
			result.imports = append(result.imports, imp)
		}
	}
}

func importClause(node *ts.Node, source []byte, imp *Import) {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier":
			imp.Default = child.Utf8Text(source)
		case "named_imports":
			namedImports(child, source, imp)
		}
	}
}

// namedImports handles { A, B as C }. The first identifier of a specifier is
// the exported name; a second one is the local alias.
func namedImports(node *ts.Node, source []byte, imp *Import) {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		spec := node.Child(i)
		if spec.Kind() != "import_specifier" {
			continue
		}
		var idents []string
		for j := uint(0); j < uint(spec.ChildCount()); j++ {
			if id := spec.Child(j); id.Kind() == "identifier" {
				idents = append(idents, id.Utf8Text(source))
			}
		}
		switch len(idents) {
		case 0:
		case 1:
			imp.Names[idents[0]] = idents[0]
		default:
			imp.Names[idents[1]] = idents[0]
		}
	}
}

func stringContent(node *ts.Node, source []byte) string {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == "string_fragment" {
			return child.Utf8Text(source)
		}
	}
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func walkJSX(node *ts.Node, source []byte, stack *[]string, result *extraction) {
	switch node.Kind() {
	case "jsx_element":
		var tag string
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			if child := node.Child(i); child.Kind() == "jsx_opening_element" {
				tag = tagName(child, source)
				break
			}
		}

		pushed := record(node, tag, stack, result)
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			child := node.Child(i)
			if k := child.Kind(); k != "jsx_opening_element" && k != "jsx_closing_element" {
				walkJSX(child, source, stack, result)
			}
		}
		if pushed {
			*stack = (*stack)[:len(*stack)-1]
		}
		return

	case "jsx_self_closing_element":
		if record(node, tagName(node, source), stack, result) {
			*stack = (*stack)[:len(*stack)-1]
		}
		return
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		walkJSX(node.Child(i), source, stack, result)
	}
}

// record appends a usage for component tags and pushes the tag as the new
// parent. It reports whether a push happened.
func record(node *ts.Node, tag string, stack *[]string, result *extraction) bool {
	if !isComponentName(tag) {
		return false
	}
	parent := ""
	if n := len(*stack); n > 0 {
		parent = (*stack)[n-1]
	}
	pos := node.StartPosition()
	result.usages = append(result.usages, Usage{
		Component: tag,
		Parent:    parent,
		Line:      int(pos.Row) + 1,
		Column:    int(pos.Column) + 1,
	})
	*stack = append(*stack, tag)
	return true
}

func tagName(node *ts.Node, source []byte) string {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier":
			return child.Utf8Text(source)
		}
	}
	return ""
}

// isComponentName follows the React convention: components start uppercase.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
