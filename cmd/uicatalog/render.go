package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gnana997/uicatalog/pkg/catalog"
)

const maxWidth = 80

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0F6CBD", Dark: "#479EF5"})
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}).
			Padding(0, 1)

	okMark   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}).Render("ok")
	warnMark = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}).Render("warn")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}).Render("FAIL")
)

// printGroupTable prints one line per group with aligned columns.
func printGroupTable(w io.Writer, groups []catalog.ComponentGroup) {
	nameW := len("GROUP")
	for _, g := range groups {
		nameW = max(nameW, len(g.Name))
	}

	fmt.Fprintf(w, "%-*s  %5s  %s\n", nameW, "GROUP", "COMPS", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("─", min(maxWidth, nameW+9+len("DESCRIPTION"))))

	descW := maxWidth - nameW - 9
	for _, g := range groups {
		name := accentStyle.Render(fmt.Sprintf("%-*s", nameW, g.Name))
		fmt.Fprintf(w, "%s  %5d  %s\n", name, len(g.Components), truncate(g.Description, descW))
	}
}

// printGroupCard prints a full group inside a bordered card.
func printGroupCard(w io.Writer, g catalog.ComponentGroup) {
	var b strings.Builder
	b.WriteString(headingStyle.Render(g.Name))
	b.WriteString("\n")
	if g.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrap(g.Description, 0, maxWidth-4))
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Components (%d)", len(g.Components))))
	for _, c := range g.Components {
		b.WriteString("\n  " + c)
	}

	b.WriteString("\n\n")
	if len(g.RelevantFiles) == 0 {
		b.WriteString(headingStyle.Render("Import from") + mutedStyle.Render("  (none)"))
	} else {
		b.WriteString(headingStyle.Render("Import from"))
		for _, f := range g.RelevantFiles {
			b.WriteString("\n  " + accentStyle.Render(f))
		}
	}

	fmt.Fprintln(w, cardStyle.Render(b.String()))
}

// printResolution prints a merged scaffold set with a ready-to-paste import.
func printResolution(w io.Writer, r *catalog.Resolution) {
	fmt.Fprintf(w, "%s %s\n\n", headingStyle.Render("Groups:"), strings.Join(r.Groups, ", "))

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Components (%d)", len(r.Components))))
	fmt.Fprint(w, wrap(strings.Join(r.Components, ", "), 2, maxWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Packages"))
	for _, f := range r.RelevantFiles {
		fmt.Fprintf(w, "  %s\n", f)
	}

	if len(r.RelevantFiles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("Import"))
		fmt.Fprintf(w, "  import { %s } from %q\n", strings.Join(r.Components, ", "), r.RelevantFiles[0])
	}
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// wrap word-wraps text at width with the given left indent. The result ends
// with a newline unless text is empty.
func wrap(text string, indent, width int) string {
	var b strings.Builder
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case line == prefix:
			line += word
		case len(line)+len(word)+1 > width:
			b.WriteString(line + "\n")
			line = prefix + word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		b.WriteString(line + "\n")
	}
	return b.String()
}
