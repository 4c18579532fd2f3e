// Package render formats a License Tree for display.
//
// [Text] draws the tree with lipgloss/tree, one branch per license bucket.
// [JSON] emits the ordered {"value", "children"} form produced by
// [licenses.Node.MarshalJSON], indented for humans.
//
// [licenses.Node.MarshalJSON]: github.com/matzehuels/licensetower/pkg/licenses.Node.MarshalJSON
package render

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/licensetower/pkg/licenses"
)

// TextOption configures [Text].
type TextOption func(*textRenderer)

type textRenderer struct {
	title  string
	styled bool
}

// WithTitle sets a root label printed above the license buckets.
func WithTitle(title string) TextOption { return func(r *textRenderer) { r.title = title } }

// WithStyles colors bucket names, package lines and enumerators.
func WithStyles() TextOption { return func(r *textRenderer) { r.styled = true } }

var (
	styleEnumerator = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)
	styleRoot       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleItem       = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

// Text renders root as an indented tree. Children appear in insertion order.
func Text(root *licenses.Node, opts ...TextOption) string {
	r := &textRenderer{}
	for _, opt := range opts {
		opt(r)
	}

	t := tree.Root(r.title)
	for _, child := range root.Children {
		t.Child(r.branch(child))
	}
	if r.styled {
		t.Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(styleEnumerator).
			RootStyle(styleRoot).
			ItemStyle(styleItem)
	}
	return t.String()
}

func (r *textRenderer) branch(n *licenses.Node) any {
	text := label(n)
	if len(n.Children) == 0 {
		return text
	}
	t := tree.Root(text)
	for _, child := range n.Children {
		t.Child(r.branch(child))
	}
	if r.styled {
		t.Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(styleEnumerator).
			RootStyle(styleRoot).
			ItemStyle(styleItem)
	}
	return t
}

func label(n *licenses.Node) string {
	if n.Value == nil {
		return n.Key
	}
	return fmt.Sprint(n.Value)
}

// JSON renders root as indented JSON followed by a newline.
func JSON(root *licenses.Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
