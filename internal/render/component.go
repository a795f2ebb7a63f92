package render

import (
	"fmt"

	"github.com/starford/raido/internal/parser"
)

// ComponentSet supplies one factory per node capability. There is no default
// set baked in; callers inject their own.
type ComponentSet[T any] struct {
	Heading   func(key string, level int, text string) T
	ListOpen  func(key string, kind parser.ListKind) T
	ListItem  func(key string, text string) T
	ListClose func(key string, kind parser.ListKind) T
	Paragraph func(key string, text string) T
}

// Components maps each node to an instance built by the matching factory,
// assigning every instance a stable identity key. List items draw keys from
// their own monotonic counter, so reordering among items does not perturb
// the keys of sibling non-list content.
func Components[T any](nodes []parser.Node, set ComponentSet[T]) []T {
	out := make([]T, 0, len(nodes))
	nodeSeq, itemSeq := 0, 0

	nodeKey := func() string {
		k := fmt.Sprintf("node-%d", nodeSeq)
		nodeSeq++
		return k
	}
	itemKey := func() string {
		k := fmt.Sprintf("item-%d", itemSeq)
		itemSeq++
		return k
	}

	for _, n := range nodes {
		switch n.Type {
		case parser.NodeHeading:
			out = append(out, set.Heading(nodeKey(), n.Level, n.Text))
		case parser.NodeListOpen:
			out = append(out, set.ListOpen(nodeKey(), n.List))
		case parser.NodeListItem:
			out = append(out, set.ListItem(itemKey(), n.Text))
		case parser.NodeListClose:
			out = append(out, set.ListClose(nodeKey(), n.List))
		case parser.NodeParagraph:
			out = append(out, set.Paragraph(nodeKey(), n.Text))
		}
	}
	return out
}
