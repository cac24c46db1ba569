// Package catalogs provides embedded pre-built catalog data for supported UI libraries.
package catalogs

import _ "embed"

// DefaultPath is the on-disk location of the bundled catalog, relative to the repository root.
const DefaultPath = "catalogs/fluentui/catalog.json"

// FluentUIJSON is the bundled FluentUI React component-group catalog, embedded at build time.
//
//go:embed fluentui/catalog.json
var FluentUIJSON []byte
