package parser

import (
	"path/filepath"
	"strings"
)

// Dialect is a grammar variant that page sources can be written in.
type Dialect int

const (
	// DialectTSX is TypeScript with JSX (.tsx). It is also the default for
	// snippets that arrive without a file name.
	DialectTSX Dialect = iota
	// DialectTypeScript is plain TypeScript (.ts, .mts, .cts).
	DialectTypeScript
	// DialectJavaScript covers .js and .jsx; the JavaScript grammar parses JSX natively.
	DialectJavaScript
	// DialectUnknown is returned for unsupported extensions.
	DialectUnknown
)

func (d Dialect) String() string {
	switch d {
	case DialectTSX:
		return "tsx"
	case DialectTypeScript:
		return "typescript"
	case DialectJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectDialect picks the grammar from a file extension. An empty path
// yields DialectTSX.
func DetectDialect(filePath string) Dialect {
	if filePath == "" {
		return DialectTSX
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return DialectTSX
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript
	default:
		return DialectUnknown
	}
}

// ParseDialect converts a dialect name to a Dialect.
func ParseDialect(name string) Dialect {
	switch strings.ToLower(name) {
	case "", "tsx":
		return DialectTSX
	case "typescript", "ts":
		return DialectTypeScript
	case "javascript", "js", "jsx":
		return DialectJavaScript
	default:
		return DialectUnknown
	}
}
