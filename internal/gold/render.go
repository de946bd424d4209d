package gold

import (
	"fmt"
	"strings"
)

// ContextText renders a graph in the fixed line format consumed verbatim
// downstream: one "Table <name>: ..." line per node, then a
// "Relationships:" block when edges exist. Output is byte-stable for a
// given graph.
func ContextText(g *Graph) string {
	var b strings.Builder
	for i, n := range g.Nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Table ")
		b.WriteString(n.TableName)
		b.WriteString(": ")
		for j, c := range n.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			if c.Description != "" {
				b.WriteString(": ")
				b.WriteString(c.Description)
			}
		}
	}
	if len(g.Edges) > 0 {
		if len(g.Nodes) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Relationships:")
		for _, e := range g.Edges {
			fmt.Fprintf(&b, "\n%s.%s -> %s.%s", e.ChildTable, e.ChildColumn, e.ParentTable, e.ParentColumn)
			if e.Description != "" {
				fmt.Fprintf(&b, " (%s)", e.Description)
			}
		}
	}
	return b.String()
}
