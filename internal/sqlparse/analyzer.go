// Package sqlparse extracts join structure from SQL text. Each supported
// dialect wraps a real SQL parser; statements are tried against the dialects
// in a fixed preference order and the first successful parse wins. The
// benchmark mixes SQL written for different engines, so a single grammar is
// not enough.
package sqlparse

import "fmt"

// JoinPredicate is an equality comparison between two column references.
// Either table qualifier may be empty when the column is written
// unqualified; resolution of those is left to the caller.
type JoinPredicate struct {
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
}

// UsingJoin records a USING or NATURAL join. LeftTable and RightTable hold
// the alias-or-name tokens as written. An empty Columns list marks a NATURAL
// join whose shared columns must be resolved against the schema.
type UsingJoin struct {
	LeftTable  string
	RightTable string
	RightAlias string
	Columns    []string
}

// ColumnUse is one column reference as written, with optional qualifier.
type ColumnUse struct {
	Table  string
	Column string
}

// Analysis is everything the graph builder needs from one statement.
type Analysis struct {
	// Aliases maps each alias or table token to the referenced table name.
	// A table referenced without an alias maps to itself.
	Aliases map[string]string
	// Joins lists every equality comparison between two column references,
	// from ON and WHERE clauses alike.
	Joins []JoinPredicate
	// Using lists USING and NATURAL join clauses.
	Using []UsingJoin
	// Tables lists every table token appearing in FROM/JOIN clauses.
	Tables []string
	// Columns lists every column reference in the statement.
	Columns []ColumnUse
}

func newAnalysis() *Analysis {
	return &Analysis{Aliases: make(map[string]string)}
}

// Dialect parses SQL under one grammar and extracts its analysis.
type Dialect interface {
	Name() string
	Analyze(sql string) (*Analysis, error)
}

// DefaultDialects returns the fixed preference order: the MySQL-flavored
// grammar first (it accepts the backtick quoting most benchmark SQL uses),
// then PostgreSQL.
func DefaultDialects() []Dialect {
	return []Dialect{mysqlDialect{}, postgresDialect{}}
}

// Analyze tries each default dialect in order and returns the first
// successful analysis. It fails only when every dialect rejects the
// statement; callers are expected to degrade, not abort.
func Analyze(sql string) (*Analysis, error) {
	var lastErr error
	for _, d := range DefaultDialects() {
		a, err := d.Analyze(sql)
		if err == nil {
			return a, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no dialect accepted statement: %w", lastErr)
}
