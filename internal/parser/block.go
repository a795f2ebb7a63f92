// Package parser splits delimited documents and turns body text into an
// ordered sequence of block nodes.
package parser

import (
	"regexp"
	"strings"
)

// NodeType discriminates the block node variants.
type NodeType string

const (
	NodeHeading   NodeType = "heading"
	NodeListOpen  NodeType = "list_open"
	NodeListItem  NodeType = "list_item"
	NodeListClose NodeType = "list_close"
	NodeParagraph NodeType = "paragraph"
	// NodeBlank exists so consumers can switch exhaustively over line
	// classes; the parser treats blank lines as separators and never
	// emits it.
	NodeBlank NodeType = "blank"
)

// ListKind distinguishes the two list container types.
type ListKind string

const (
	ListUnordered ListKind = "unordered"
	ListOrdered   ListKind = "ordered"
)

// Node is one block of parsed body text. Level is set for headings, List for
// list containers, Text for everything that carries content.
type Node struct {
	Type  NodeType `json:"type"`
	Level int      `json:"level,omitempty"`
	Text  string   `json:"text,omitempty"`
	List  ListKind `json:"list,omitempty"`
}

var orderedRe = regexp.MustCompile(`^(\d+)\. (.*)$`)

// Parse consumes body text line by line and emits an ordered node sequence.
// It never fails: unrecognized lines degrade to paragraphs.
//
// The list model is intentionally flat. Switching marker type closes the
// open list and opens a new one instead of nesting, and any non-item line
// (heading, paragraph, blank) closes whatever list is open.
func Parse(body string) []Node {
	var (
		nodes []Node
		stack []ListKind
	)

	closeLists := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			nodes = append(nodes, Node{Type: NodeListClose, List: stack[i]})
		}
		stack = stack[:0]
	}

	openList := func(kind ListKind) {
		if len(stack) > 0 && stack[len(stack)-1] == kind {
			return
		}
		closeLists()
		nodes = append(nodes, Node{Type: NodeListOpen, List: kind})
		stack = append(stack, kind)
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#"):
			closeLists()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' {
				level++
			}
			// Heading text is everything past the marker run and one
			// separator character. Levels are not clamped: a run of
			// seven markers is a level-7 heading.
			text := ""
			if level < len(trimmed) {
				text = trimmed[level+1:]
			}
			nodes = append(nodes, Node{Type: NodeHeading, Level: level, Text: text})

		case strings.HasPrefix(trimmed, "- "):
			openList(ListUnordered)
			nodes = append(nodes, Node{Type: NodeListItem, Text: trimmed[2:]})

		case orderedRe.MatchString(trimmed):
			openList(ListOrdered)
			// The numeric prefix is presentational and discarded.
			m := orderedRe.FindStringSubmatch(trimmed)
			nodes = append(nodes, Node{Type: NodeListItem, Text: m[2]})

		case trimmed == "":
			// Separator: closes any open list, emits nothing.
			closeLists()

		default:
			closeLists()
			// Paragraph lines are emitted verbatim, untrimmed.
			nodes = append(nodes, Node{Type: NodeParagraph, Text: line})
		}
	}

	closeLists()
	return nodes
}
