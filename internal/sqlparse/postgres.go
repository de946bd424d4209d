package sqlparse

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// postgresDialect analyzes SQL with the real PostgreSQL parser. It runs
// second: the benchmark's backtick quoting is rejected here, but statements
// using Postgres casts or double-quoted identifiers land in this dialect.
type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Analyze(sql string) (*Analysis, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("postgres dialect: %w", err)
	}
	a := newAnalysis()
	for _, raw := range result.Stmts {
		pgWalk(a, raw.Stmt)
	}
	return a, nil
}

// pgWalk traverses the statement tree, visiting the node kinds that carry
// table references, column references, equality predicates, and joins.
func pgWalk(a *Analysis, node *pg_query.Node) {
	if node == nil {
		return
	}
	switch n := node.Node.(type) {
	case *pg_query.Node_SelectStmt:
		pgWalkSelect(a, n.SelectStmt)

	case *pg_query.Node_RangeVar:
		rv := n.RangeVar
		if rv.Relname != "" {
			a.Tables = append(a.Tables, rv.Relname)
			a.Aliases[rv.Relname] = rv.Relname
		}
		if rv.Alias != nil && rv.Alias.Aliasname != "" {
			a.Aliases[rv.Alias.Aliasname] = rv.Relname
		}

	case *pg_query.Node_JoinExpr:
		j := n.JoinExpr
		pgWalk(a, j.Larg)
		pgWalk(a, j.Rarg)
		if j.IsNatural || len(j.UsingClause) > 0 {
			left := pgJoinTarget(j.Larg)
			right := pgJoinTarget(j.Rarg)
			if left != "" && right != "" {
				var cols []string
				for _, u := range j.UsingClause {
					if s := u.GetString_(); s != nil && s.Sval != "" {
						cols = append(cols, s.Sval)
					}
				}
				a.Using = append(a.Using, UsingJoin{
					LeftTable:  left,
					RightTable: right,
					RightAlias: right,
					Columns:    cols,
				})
			}
		}
		pgWalk(a, j.Quals)

	case *pg_query.Node_RangeSubselect:
		pgWalk(a, n.RangeSubselect.Subquery)

	case *pg_query.Node_AExpr:
		e := n.AExpr
		if e.Kind == pg_query.A_Expr_Kind_AEXPR_OP && pgOpName(e.Name) == "=" {
			if left, lok := pgColumn(e.Lexpr); lok {
				if right, rok := pgColumn(e.Rexpr); rok {
					a.Joins = append(a.Joins, JoinPredicate{
						LeftTable:   left.Table,
						LeftColumn:  left.Column,
						RightTable:  right.Table,
						RightColumn: right.Column,
					})
				}
			}
		}
		pgWalk(a, e.Lexpr)
		pgWalk(a, e.Rexpr)

	case *pg_query.Node_ColumnRef:
		if use, ok := pgColumnUse(n.ColumnRef); ok {
			a.Columns = append(a.Columns, use)
		}

	case *pg_query.Node_BoolExpr:
		for _, arg := range n.BoolExpr.Args {
			pgWalk(a, arg)
		}

	case *pg_query.Node_ResTarget:
		pgWalk(a, n.ResTarget.Val)

	case *pg_query.Node_SortBy:
		pgWalk(a, n.SortBy.Node)

	case *pg_query.Node_TypeCast:
		pgWalk(a, n.TypeCast.Arg)

	case *pg_query.Node_FuncCall:
		for _, arg := range n.FuncCall.Args {
			pgWalk(a, arg)
		}

	case *pg_query.Node_SubLink:
		pgWalk(a, n.SubLink.Testexpr)
		pgWalk(a, n.SubLink.Subselect)

	case *pg_query.Node_NullTest:
		pgWalk(a, n.NullTest.Arg)

	case *pg_query.Node_CaseExpr:
		pgWalk(a, n.CaseExpr.Arg)
		for _, w := range n.CaseExpr.Args {
			pgWalk(a, w)
		}
		pgWalk(a, n.CaseExpr.Defresult)

	case *pg_query.Node_CaseWhen:
		pgWalk(a, n.CaseWhen.Expr)
		pgWalk(a, n.CaseWhen.Result)

	case *pg_query.Node_List:
		for _, item := range n.List.Items {
			pgWalk(a, item)
		}
	}
}

func pgWalkSelect(a *Analysis, sel *pg_query.SelectStmt) {
	if sel == nil {
		return
	}
	// Set operations carry their arms in Larg/Rarg.
	pgWalkSelect(a, sel.Larg)
	pgWalkSelect(a, sel.Rarg)
	if sel.WithClause != nil {
		for _, cte := range sel.WithClause.Ctes {
			if c := cte.GetCommonTableExpr(); c != nil {
				pgWalk(a, c.Ctequery)
			}
		}
	}
	for _, f := range sel.FromClause {
		pgWalk(a, f)
	}
	pgWalk(a, sel.WhereClause)
	for _, t := range sel.TargetList {
		pgWalk(a, t)
	}
	for _, g := range sel.GroupClause {
		pgWalk(a, g)
	}
	pgWalk(a, sel.HavingClause)
	for _, s := range sel.SortClause {
		pgWalk(a, s)
	}
	pgWalk(a, sel.LimitCount)
	pgWalk(a, sel.LimitOffset)
}

// pgJoinTarget returns the alias-or-name of the rightmost table in a join
// arm, mirroring the running left-cursor rule for chained joins.
func pgJoinTarget(node *pg_query.Node) string {
	if node == nil {
		return ""
	}
	switch n := node.Node.(type) {
	case *pg_query.Node_RangeVar:
		if n.RangeVar.Alias != nil && n.RangeVar.Alias.Aliasname != "" {
			return n.RangeVar.Alias.Aliasname
		}
		return n.RangeVar.Relname
	case *pg_query.Node_JoinExpr:
		return pgJoinTarget(n.JoinExpr.Rarg)
	case *pg_query.Node_RangeSubselect:
		if n.RangeSubselect.Alias != nil {
			return n.RangeSubselect.Alias.Aliasname
		}
	}
	return ""
}

func pgOpName(name []*pg_query.Node) string {
	if len(name) == 0 {
		return ""
	}
	if s := name[len(name)-1].GetString_(); s != nil {
		return s.Sval
	}
	return ""
}

// pgColumn extracts a (table, column) pair from a node if it is a plain
// column reference. Star fields disqualify the node.
func pgColumn(node *pg_query.Node) (ColumnUse, bool) {
	if node == nil {
		return ColumnUse{}, false
	}
	ref := node.GetColumnRef()
	if ref == nil {
		return ColumnUse{}, false
	}
	return pgColumnUse(ref)
}

func pgColumnUse(ref *pg_query.ColumnRef) (ColumnUse, bool) {
	var fields []string
	for _, f := range ref.Fields {
		s := f.GetString_()
		if s == nil {
			return ColumnUse{}, false // A_Star or indirection
		}
		fields = append(fields, s.Sval)
	}
	switch len(fields) {
	case 1:
		return ColumnUse{Column: fields[0]}, true
	case 2:
		return ColumnUse{Table: fields[0], Column: fields[1]}, true
	case 3:
		// schema-qualified; keep the table and column parts
		return ColumnUse{Table: fields[1], Column: fields[2]}, true
	}
	return ColumnUse{}, false
}
