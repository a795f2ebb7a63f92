// Package render projects parsed node sequences as HTML markup or as trees
// of caller-supplied components.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/starford/raido/internal/parser"
)

// Markup renders a node sequence as an HTML fragment, one tag per line.
// Text content is escaped; heading levels translate directly into tag
// levels, without clamping.
func Markup(nodes []parser.Node) string {
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type {
		case parser.NodeHeading:
			lines = append(lines, fmt.Sprintf("<h%d>%s</h%d>", n.Level, html.EscapeString(n.Text), n.Level))
		case parser.NodeListOpen:
			lines = append(lines, "<"+listTag(n.List)+">")
		case parser.NodeListItem:
			lines = append(lines, "<li>"+html.EscapeString(n.Text)+"</li>")
		case parser.NodeListClose:
			lines = append(lines, "</"+listTag(n.List)+">")
		case parser.NodeParagraph:
			lines = append(lines, "<p>"+html.EscapeString(n.Text)+"</p>")
		}
	}
	return strings.Join(lines, "\n")
}

func listTag(k parser.ListKind) string {
	if k == parser.ListOrdered {
		return "ol"
	}
	return "ul"
}
