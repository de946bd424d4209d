// Package gold builds the gold schema subgraph for a SQL statement: the
// tables the query actually touches and the join relationships between them,
// fused from parsed join structure and the schema's declared foreign keys.
package gold

import "github.com/birdql/goldgraph/internal/schema"

// Node is one table in a gold graph, carrying the table's full schema
// column list, not just the columns the query references.
type Node struct {
	TableName string              `json:"table_name"`
	Columns   []schema.ColumnDesc `json:"columns"`
}

// Edge is one join relationship. Direction is positional: the left-hand
// side of the originating predicate is recorded as the child, which does
// not always match true foreign-key direction. The direction-agnostic
// description lookup compensates for that.
type Edge struct {
	ChildTable   string `json:"child_table"`
	ChildColumn  string `json:"child_column"`
	ParentTable  string `json:"parent_table"`
	ParentColumn string `json:"parent_column"`
	Description  string `json:"description"`
}

// Graph is the schema subgraph one query references. Nodes are sorted by
// table name; edges keep first-seen order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
