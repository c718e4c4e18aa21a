package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/workflow"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Underline(true)
)

func renderCanvasSummary(path string, items []canvas.ComponentInstance) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Canvas") + " " + mutedStyle.Render(path) + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-20s %-14s %8s", "#", "ID", "TYPE", "HEIGHT")) + "\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%-4d %s %-14s %8.0f\n", i, idStyle.Render(fmt.Sprintf("%-20s", item.ID)), item.Type, item.Size.Height)
		for _, key := range sortedKeys(item.Props) {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("       %s = %s", key, compactJSON(item.Props[key]))) + "\n")
		}
		for _, evt := range sortedKeys(item.Events) {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("       on %s (%d chars)", evt, len(item.Events[evt]))) + "\n")
		}
	}
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("no components") + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderWorkflowSummary(path string, g workflow.Graph) string {
	titles := make(map[string]string, len(g.Nodes))
	var b strings.Builder
	b.WriteString(titleStyle.Render("Workflow") + " " + mutedStyle.Render(path) + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %-10s %-20s %s", "NODE", "TYPE", "TITLE", "POSITION")) + "\n")
	for _, n := range g.Nodes {
		titles[n.ID] = n.Title
		fmt.Fprintf(&b, "%s %-10s %-20s (%.0f, %.0f)\n", idStyle.Render(fmt.Sprintf("%-20s", n.ID)), n.Type, n.Title, n.Position.X, n.Position.Y)
	}
	if len(g.Edges) > 0 {
		b.WriteString(headerStyle.Render("EDGES") + "\n")
	}
	for _, e := range g.Edges {
		line := fmt.Sprintf("%s -> %s", nodeLabel(e.Source, titles), nodeLabel(e.Target, titles))
		if e.Label != "" {
			line += " [" + e.Label + "]"
		}
		if e.Condition != "" {
			line += mutedStyle.Render(" when " + e.Condition)
		}
		b.WriteString(line + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func nodeLabel(id string, titles map[string]string) string {
	if title := titles[id]; title != "" {
		return title
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
