package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birdql/goldgraph/internal/schema"
)

// Postgres introspects a PostgreSQL database into a schema record, reading
// the given namespaces (defaults to public).
func Postgres(ctx context.Context, dsn, dbID string, schemas []string) (*schema.Schema, error) {
	if len(schemas) == 0 {
		schemas = []string{"public"}
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &schema.Schema{
		DBID:        dbID,
		ColumnNames: []schema.ColumnName{{TableIndex: -1, Name: "*"}},
		ForeignKeys: [][]int{},
	}

	tableIdx := make(map[string]int)         // table name -> index in TableNames
	colIdx := make(map[int]map[string]int, 8) // table index -> column name -> shared index

	if err := pgTablesAndColumns(ctx, pool, schemas, s, tableIdx, colIdx); err != nil {
		return nil, fmt.Errorf("querying tables and columns: %w", err)
	}
	if err := pgForeignKeys(ctx, pool, schemas, s, tableIdx, colIdx); err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	return s, nil
}

func pgTablesAndColumns(ctx context.Context, pool *pgxpool.Pool, schemas []string,
	s *schema.Schema, tableIdx map[string]int, colIdx map[int]map[string]int) error {

	query := `
		SELECT
			c.relname AS table_name,
			a.attname AS column_name
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_attribute a ON a.attrelid = c.oid
		WHERE c.relkind = 'r'
			AND a.attnum > 0
			AND NOT a.attisdropped
			AND n.nspname = ANY($1)
		ORDER BY n.nspname, c.relname, a.attnum
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, colName string
		if err := rows.Scan(&tableName, &colName); err != nil {
			return err
		}
		ti, ok := tableIdx[tableName]
		if !ok {
			ti = len(s.TableNames)
			tableIdx[tableName] = ti
			s.TableNames = append(s.TableNames, tableName)
			colIdx[ti] = make(map[string]int)
		}
		colIdx[ti][colName] = len(s.ColumnNames)
		s.ColumnNames = append(s.ColumnNames, schema.ColumnName{TableIndex: ti, Name: colName})
	}
	return rows.Err()
}

func pgForeignKeys(ctx context.Context, pool *pgxpool.Pool, schemas []string,
	s *schema.Schema, tableIdx map[string]int, colIdx map[int]map[string]int) error {

	query := `
		SELECT
			cc.relname AS child_table,
			ca.attname AS child_column,
			pc.relname AS parent_table,
			pa.attname AS parent_column
		FROM pg_constraint con
		JOIN pg_class cc ON cc.oid = con.conrelid
		JOIN pg_namespace cn ON cn.oid = cc.relnamespace
		JOIN pg_class pc ON pc.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS u(child_attnum, parent_attnum, ord)
		JOIN pg_attribute ca ON ca.attrelid = cc.oid AND ca.attnum = u.child_attnum
		JOIN pg_attribute pa ON pa.attrelid = pc.oid AND pa.attnum = u.parent_attnum
		WHERE con.contype = 'f'
			AND cn.nspname = ANY($1)
		ORDER BY con.conname, u.ord
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var childTable, childCol, parentTable, parentCol string
		if err := rows.Scan(&childTable, &childCol, &parentTable, &parentCol); err != nil {
			return err
		}
		childTi, ok := tableIdx[childTable]
		if !ok {
			continue
		}
		parentTi, ok := tableIdx[parentTable]
		if !ok {
			continue // parent outside the requested namespaces
		}
		childIdx, ok := colIdx[childTi][childCol]
		if !ok {
			continue
		}
		parentIdx, ok := colIdx[parentTi][parentCol]
		if !ok {
			continue
		}
		s.ForeignKeys = append(s.ForeignKeys, []int{childIdx, parentIdx})
	}
	return rows.Err()
}
