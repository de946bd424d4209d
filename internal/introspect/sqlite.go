// Package introspect builds benchmark-format schema records from live
// databases, so fresh databases can enter the pipeline without hand-written
// tables files.
package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/birdql/goldgraph/internal/schema"
)

// SQLite introspects a SQLite database file into a schema record:
// table_names in name order, positional column_names led by the wildcard
// entry, and foreign_keys as column-index pairs.
func SQLite(ctx context.Context, path, dbID string) (*schema.Schema, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	tables, err := sqliteTableNames(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	s := &schema.Schema{
		DBID:        dbID,
		TableNames:  tables,
		ColumnNames: []schema.ColumnName{{TableIndex: -1, Name: "*"}},
		ForeignKeys: [][]int{},
	}

	// colIndex maps (table index, normalized column) to the shared column
	// index space, for FK pair resolution.
	colIndex := make(map[int]map[string]int, len(tables))

	for ti, table := range tables {
		names, err := sqliteColumns(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		colIndex[ti] = make(map[string]int, len(names))
		for _, name := range names {
			colIndex[ti][schema.Norm(name)] = len(s.ColumnNames)
			s.ColumnNames = append(s.ColumnNames, schema.ColumnName{TableIndex: ti, Name: name})
		}
	}

	tableIdx := make(map[string]int, len(tables))
	for i, t := range tables {
		tableIdx[schema.Norm(t)] = i
	}

	for ti, table := range tables {
		fks, err := sqliteForeignKeys(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("table %s foreign keys: %w", table, err)
		}
		for _, fk := range fks {
			parentTi, ok := tableIdx[schema.Norm(fk.parentTable)]
			if !ok {
				continue // references a table outside the schema
			}
			childIdx, ok := colIndex[ti][schema.Norm(fk.childColumn)]
			if !ok {
				continue
			}
			parentIdx, ok := colIndex[parentTi][schema.Norm(fk.parentColumn)]
			if !ok {
				continue
			}
			s.ForeignKeys = append(s.ForeignKeys, []int{childIdx, parentIdx})
		}
	}

	return s, nil
}

func sqliteTableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type sqliteFK struct {
	parentTable  string
	childColumn  string
	parentColumn string
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, table string) ([]sqliteFK, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []sqliteFK
	for rows.Next() {
		var id, seq int
		var parentTable, from string
		var to sql.NullString // NULL when the FK targets the parent's PK implicitly
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &parentTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		if !to.Valid || to.String == "" {
			continue
		}
		fks = append(fks, sqliteFK{parentTable: parentTable, childColumn: from, parentColumn: to.String})
	}
	return fks, rows.Err()
}
