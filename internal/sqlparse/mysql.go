package sqlparse

import (
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// mysqlDialect analyzes SQL under the vitess MySQL grammar, which also
// covers most SQLite-flavored benchmark statements.
type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) Analyze(sql string) (*Analysis, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("mysql dialect: %w", err)
	}

	a := newAnalysis()
	err = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.Select:
			for _, te := range n.From {
				collectUsingJoins(a, te)
			}
		case *sqlparser.AliasedTableExpr:
			tn, ok := n.Expr.(sqlparser.TableName)
			if !ok {
				return true, nil // derived table; its inner select is walked anyway
			}
			name := tn.Name.String()
			if name != "" {
				a.Tables = append(a.Tables, name)
				a.Aliases[name] = name
			}
			if !n.As.IsEmpty() {
				a.Aliases[n.As.String()] = name
			}
		case *sqlparser.ComparisonExpr:
			if n.Operator != sqlparser.EqualStr {
				return true, nil
			}
			left, lok := n.Left.(*sqlparser.ColName)
			right, rok := n.Right.(*sqlparser.ColName)
			if lok && rok {
				a.Joins = append(a.Joins, JoinPredicate{
					LeftTable:   left.Qualifier.Name.String(),
					LeftColumn:  left.Name.String(),
					RightTable:  right.Qualifier.Name.String(),
					RightColumn: right.Name.String(),
				})
			}
		case *sqlparser.ColName:
			a.Columns = append(a.Columns, ColumnUse{
				Table:  n.Qualifier.Name.String(),
				Column: n.Name.String(),
			})
		}
		return true, nil
	}, stmt)
	if err != nil {
		return nil, fmt.Errorf("mysql dialect: %w", err)
	}
	return a, nil
}

// collectUsingJoins records USING/NATURAL joins from one FROM entry,
// descending through parenthesized groups. Join trees are left-deep, so the
// left side a join clause pairs with is the most recently joined table of
// its left subtree, not the base FROM table.
func collectUsingJoins(a *Analysis, te sqlparser.TableExpr) {
	if paren, ok := te.(*sqlparser.ParenTableExpr); ok {
		for _, e := range paren.Exprs {
			collectUsingJoins(a, e)
		}
		return
	}
	join, ok := te.(*sqlparser.JoinTableExpr)
	if !ok {
		return
	}
	collectUsingJoins(a, join.LeftExpr)
	collectUsingJoins(a, join.RightExpr)

	natural := strings.Contains(join.Join, "natural")
	if len(join.Condition.Using) == 0 && !natural {
		return
	}
	left := joinTarget(join.LeftExpr)
	right := joinTarget(join.RightExpr)
	if left == "" || right == "" {
		return
	}
	var cols []string
	for _, c := range join.Condition.Using {
		if c.String() != "" {
			cols = append(cols, c.String())
		}
	}
	a.Using = append(a.Using, UsingJoin{
		LeftTable:  left,
		RightTable: right,
		RightAlias: right,
		Columns:    cols,
	})
}

// joinTarget returns the alias-or-name token a subsequent join would see as
// its left neighbor: the rightmost table of the expression.
func joinTarget(te sqlparser.TableExpr) string {
	switch n := te.(type) {
	case *sqlparser.AliasedTableExpr:
		if !n.As.IsEmpty() {
			return n.As.String()
		}
		if tn, ok := n.Expr.(sqlparser.TableName); ok {
			return tn.Name.String()
		}
	case *sqlparser.JoinTableExpr:
		return joinTarget(n.RightExpr)
	case *sqlparser.ParenTableExpr:
		if len(n.Exprs) > 0 {
			return joinTarget(n.Exprs[len(n.Exprs)-1])
		}
	}
	return ""
}
