package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listGroupsTool() mcp.Tool {
	return mcp.NewTool("list_groups",
		mcp.WithDescription("List every component group in catalog order with its description and component count. Start here to see what the design system offers."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func findGroupTool() mcp.Tool {
	return mcp.NewTool("find_group",
		mcp.WithDescription("Get one component group by exact, case-sensitive name: its description, components and the packages to import from."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Group name, e.g. \"Table\"")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func componentsOfTool() mcp.Tool {
	return mcp.NewTool("components_of",
		mcp.WithDescription("List the component identifiers of a group. Returns an empty list for unknown groups."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Group name")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func resolveGroupsTool() mcp.Tool {
	return mcp.NewTool("resolve_groups",
		mcp.WithDescription("Merge several groups into one de-duplicated set of components and packages. Use this before scaffolding a page that combines widgets."),
		mcp.WithArray("names", mcp.Required(), mcp.WithStringItems(), mcp.Description("Group names to merge")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func searchGroupsTool() mcp.Tool {
	return mcp.NewTool("search_groups",
		mcp.WithDescription("Case-insensitive keyword search over group names, descriptions and component identifiers."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Keyword, e.g. \"date\" or \"menu\"")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func groupsContainingTool() mcp.Tool {
	return mcp.NewTool("groups_containing",
		mcp.WithDescription("Find which groups list a component identifier. Useful when a component appears in more than one widget."),
		mcp.WithString("component", mcp.Required(), mcp.Description("Exact component identifier, e.g. \"Avatar\"")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func validateCatalogTool() mcp.Tool {
	return mcp.NewTool("validate_catalog",
		mcp.WithDescription("Run consistency checks on the loaded catalog: duplicate groups, empty or orphan groups and likely casing aliases."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func analyzePageTool() mcp.Tool {
	return mcp.NewTool("analyze_page",
		mcp.WithDescription("Parse a TSX/JSX page and report which catalog groups it uses, components imported from catalog packages that do not exist, and components used without an import."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Page source")),
		mcp.WithString("filename", mcp.Description("File name used to pick the grammar; defaults to TSX")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
