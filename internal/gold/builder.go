package gold

import (
	"regexp"
	"sort"

	"github.com/birdql/goldgraph/internal/schema"
	"github.com/birdql/goldgraph/internal/sqlparse"
)

// Build extracts the gold graph for one SQL statement against an indexed
// schema. It never fails: a statement no dialect can parse degrades to a
// whole-word scan of the raw text for known table names and an edge-free
// graph, and every partially resolvable reference contributes what it can.
func Build(sqlText string, ix *schema.Index) *Graph {
	an, err := sqlparse.Analyze(sqlText)
	if err != nil {
		an = &sqlparse.Analysis{Aliases: map[string]string{}}
	}

	// resolve maps an alias-or-table token to a canonical schema table,
	// falling back to the raw token when it is not a known alias.
	resolve := func(token string) (string, bool) {
		if real, ok := an.Aliases[token]; ok {
			token = real
		}
		return ix.CanonicalTable(token)
	}

	tables := make(map[string]bool)
	edges := []Edge{}
	seen := make(map[schema.FKKey]bool)

	addEdge := func(childTable, childColumn, parentTable, parentColumn string) {
		key := schema.FKKey{
			ChildTable:   childTable,
			ChildColumn:  childColumn,
			ParentTable:  parentTable,
			ParentColumn: parentColumn,
		}
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, Edge{
			ChildTable:   childTable,
			ChildColumn:  childColumn,
			ParentTable:  parentTable,
			ParentColumn: parentColumn,
			Description:  ix.FKDescription(childTable, childColumn, parentTable, parentColumn),
		})
	}

	// 1. Tables named literally in FROM/JOIN clauses.
	for _, t := range an.Tables {
		if name, ok := ix.CanonicalTable(t); ok {
			tables[name] = true
		}
	}

	// 2. Both sides of every equality join predicate. A side whose
	// qualifier cannot be resolved to a known table still lets the other
	// side in, but emits no edge.
	for _, jp := range an.Joins {
		left, lok := resolve(jp.LeftTable)
		right, rok := resolve(jp.RightTable)
		if lok {
			tables[left] = true
		}
		if rok {
			tables[right] = true
		}
		if lok && rok {
			addEdge(left, jp.LeftColumn, right, jp.RightColumn)
		}
	}

	// 3. Both sides of every USING/NATURAL join; an empty column list is a
	// NATURAL join resolved by shared-name intersection.
	for _, uj := range an.Using {
		left, lok := resolve(uj.LeftTable)
		right, rok := resolve(uj.RightTable)
		if lok {
			tables[left] = true
		}
		if rok {
			tables[right] = true
		}
		if !lok || !rok {
			continue
		}
		cols := uj.Columns
		if len(cols) == 0 {
			cols = ix.SharedColumns(left, right)
		}
		for _, c := range cols {
			addEdge(left, c, right, c)
		}
	}

	// 4. Column references: qualified ones name their table; unqualified
	// ones count only when exactly one schema table owns the column.
	for _, cu := range an.Columns {
		if cu.Table != "" {
			if name, ok := resolve(cu.Table); ok {
				tables[name] = true
			}
			continue
		}
		owners := ix.ColumnOwners(cu.Column)
		if len(owners) == 1 {
			tables[owners[0]] = true
		}
	}

	// 5. Last resort, only when nothing structural matched: scan the raw
	// SQL for schema table names as whole words.
	if len(tables) == 0 {
		for _, t := range ix.TableNames() {
			if wordPattern(t).MatchString(sqlText) {
				tables[t] = true
			}
		}
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]Node, 0, len(names))
	for _, name := range names {
		cols := ix.TableColumns(name)
		if cols == nil {
			cols = []schema.ColumnDesc{}
		}
		nodes = append(nodes, Node{TableName: name, Columns: cols})
	}

	return &Graph{Nodes: nodes, Edges: edges}
}

func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}
