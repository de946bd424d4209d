package schema

import "fmt"

// Sentinel values for the wildcard column (table index -1).
const (
	NoTable  = "no table"
	NoColumn = "no column"
)

// ColumnRef is a resolved (table, column) pair for one column index.
type ColumnRef struct {
	Table  string
	Column string
}

// ColumnDesc is a column name with its human-readable description.
type ColumnDesc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FKKey identifies a join relationship by its four endpoints. Keys in the
// description maps hold normalized components so SQL spellings and schema
// spellings compare equal.
type FKKey struct {
	ChildTable   string
	ChildColumn  string
	ParentTable  string
	ParentColumn string
}

func normKey(childTable, childColumn, parentTable, parentColumn string) FKKey {
	return FKKey{
		ChildTable:   Norm(childTable),
		ChildColumn:  Norm(childColumn),
		ParentTable:  Norm(parentTable),
		ParentColumn: Norm(parentColumn),
	}
}

// Index holds the per-schema lookup structures. Built once per schema and
// read-only afterwards.
type Index struct {
	// Refs maps every column index to its (table, column) pair; the
	// wildcard column maps to the NoTable/NoColumn sentinel.
	Refs []ColumnRef

	tables       []string                // canonical names, schema order
	tableByNorm  map[string]string       // normalized name -> canonical name
	tableColumns map[string][]ColumnDesc // normalized table name -> ordered columns
	columnOwners map[string][]string     // normalized column name -> canonical owner tables
	fkDesc       map[FKKey]string
	fkDescRev    map[FKKey]string
}

// BuildIndex builds the lookup structures for one schema. A column whose
// table index is neither -1 nor a valid table index is a contract violation
// by the input producer and fails hard.
func BuildIndex(s *Schema) (*Index, error) {
	tables := s.Tables()
	cols := s.Columns()

	ix := &Index{
		Refs:         make([]ColumnRef, len(cols)),
		tables:       tables,
		tableByNorm:  make(map[string]string, len(tables)),
		tableColumns: make(map[string][]ColumnDesc, len(tables)),
		columnOwners: make(map[string][]string),
		fkDesc:       make(map[FKKey]string, len(s.FKDescriptions)),
		fkDescRev:    make(map[FKKey]string, len(s.FKDescriptions)),
	}

	for _, t := range tables {
		key := Norm(t)
		if _, dup := ix.tableByNorm[key]; !dup {
			ix.tableByNorm[key] = t
		}
		ix.tableColumns[key] = []ColumnDesc{}
	}

	for i, c := range cols {
		if c.TableIndex == -1 {
			ix.Refs[i] = ColumnRef{Table: NoTable, Column: NoColumn}
			continue
		}
		if c.TableIndex < 0 || c.TableIndex >= len(tables) {
			return nil, fmt.Errorf("schema %s: column %d (%s) references table index %d, have %d tables",
				s.DBID, i, c.Name, c.TableIndex, len(tables))
		}
		table := tables[c.TableIndex]
		ix.Refs[i] = ColumnRef{Table: table, Column: c.Name}

		desc := ""
		if i < len(s.ColumnDescriptions) {
			desc = s.ColumnDescriptions[i]
		}
		tblKey := Norm(table)
		ix.tableColumns[tblKey] = append(ix.tableColumns[tblKey], ColumnDesc{Name: c.Name, Description: desc})

		colKey := Norm(c.Name)
		if !containsString(ix.columnOwners[colKey], table) {
			ix.columnOwners[colKey] = append(ix.columnOwners[colKey], table)
		}
	}

	// Both directions are indexed: SQL join predicates do not encode which
	// side is semantically the child.
	for i := range s.FKDescriptions {
		d := &s.FKDescriptions[i]
		fwd := normKey(d.ChildTable, d.ChildColumn, d.ParentTable, d.ParentColumn)
		rev := normKey(d.ParentTable, d.ParentColumn, d.ChildTable, d.ChildColumn)
		if _, ok := ix.fkDesc[fwd]; !ok {
			ix.fkDesc[fwd] = d.Text()
		}
		if _, ok := ix.fkDescRev[rev]; !ok {
			ix.fkDescRev[rev] = d.Text()
		}
	}

	return ix, nil
}

// TableNames returns the canonical table names in schema order.
func (ix *Index) TableNames() []string {
	return ix.tables
}

// CanonicalTable resolves a table token as written in SQL to the schema's
// canonical table name, matching case- and separator-insensitively.
func (ix *Index) CanonicalTable(token string) (string, bool) {
	name, ok := ix.tableByNorm[Norm(token)]
	return name, ok
}

// TableColumns returns the full ordered column list for a table (any
// spelling). Unknown tables yield an empty list.
func (ix *Index) TableColumns(table string) []ColumnDesc {
	return ix.tableColumns[Norm(table)]
}

// ColumnOwners returns the canonical tables owning a column with the given
// normalized name, in schema order.
func (ix *Index) ColumnOwners(column string) []string {
	return ix.columnOwners[Norm(column)]
}

// SharedColumns returns the columns of left whose normalized names also
// appear in right, in left's schema column order. This resolves NATURAL
// joins deterministically.
func (ix *Index) SharedColumns(left, right string) []string {
	rightSet := make(map[string]bool)
	for _, c := range ix.TableColumns(right) {
		rightSet[Norm(c.Name)] = true
	}
	var shared []string
	for _, c := range ix.TableColumns(left) {
		if rightSet[Norm(c.Name)] {
			shared = append(shared, c.Name)
		}
	}
	return shared
}

// FKDescription looks up the description for a join relationship,
// forward direction first, then reversed. Returns "" when neither side
// of any recorded FK matches.
func (ix *Index) FKDescription(childTable, childColumn, parentTable, parentColumn string) string {
	key := normKey(childTable, childColumn, parentTable, parentColumn)
	if desc, ok := ix.fkDesc[key]; ok {
		return desc
	}
	return ix.fkDescRev[key]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
