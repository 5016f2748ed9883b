package ast

import (
	"fmt"
	"strings"
)

// Walk visits node and then its operands depth first, stopping at the first error
func Walk(node Node, visitor func(Node) error) error {
	if node == nil {
		return nil
	}

	if err := visitor(node); err != nil {
		return err
	}

	for _, child := range node.Children() {
		if err := Walk(child, visitor); err != nil {
			return err
		}
	}

	return nil
}

// Print renders the tree with one node per line, indented by depth
func Print(node Node) string {
	var sb strings.Builder
	printHelper(node, 0, &sb)
	return sb.String()
}

func printHelper(node Node, depth int, sb *strings.Builder) {
	if node == nil {
		return
	}

	fmt.Fprintf(sb, "%s%s", strings.Repeat("  ", depth), node.NodeType())
	switch n := node.(type) {
	case *ColumnReference, *Literal[int64], *Literal[float64]:
		fmt.Fprintf(sb, " %s", n)
	}
	sb.WriteString("\n")

	for _, child := range node.Children() {
		printHelper(child, depth+1, sb)
	}
}

// Count counts the total number of nodes in the tree
func Count(node Node) int {
	if node == nil {
		return 0
	}

	count := 1
	for _, child := range node.Children() {
		count += Count(child)
	}

	return count
}

// ColumnReferences returns the distinct reference ids in the tree in first-seen order
func ColumnReferences(node Node) []int {
	var ids []int
	seen := make(map[int]bool)
	_ = Walk(node, func(n Node) error {
		if ref, ok := n.(*ColumnReference); ok && !seen[ref.ID] {
			seen[ref.ID] = true
			ids = append(ids, ref.ID)
		}
		return nil
	})
	return ids
}
