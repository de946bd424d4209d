package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schema is one database's structural description in the benchmark
// tables-file format. The column index space is shared across the whole
// schema: ColumnNames[i] pairs a table index (or -1 for the wildcard
// column) with a column name, and ColumnDescriptions[i], when present,
// describes the same column.
type Schema struct {
	DBID               string          `json:"db_id"`
	TableNames         []string        `json:"table_names,omitempty"`
	TableNamesOriginal []string        `json:"table_names_original,omitempty"`
	ColumnNames        []ColumnName    `json:"column_names,omitempty"`
	ColumnNamesOrig    []ColumnName    `json:"column_names_original,omitempty"`
	ColumnDescriptions []string        `json:"column_descriptions,omitempty"`
	ForeignKeys        [][]int         `json:"foreign_keys,omitempty"`
	FKDescriptions     []FKDescription `json:"foreign_key_descriptions,omitempty"`
}

// Tables returns the table name list, preferring the cleaned names.
func (s *Schema) Tables() []string {
	if len(s.TableNames) > 0 {
		return s.TableNames
	}
	return s.TableNamesOriginal
}

// Columns returns the positional column list, preferring the cleaned names.
func (s *Schema) Columns() []ColumnName {
	if len(s.ColumnNames) > 0 {
		return s.ColumnNames
	}
	return s.ColumnNamesOrig
}

// OriginalTables returns the table names as they exist in the database,
// falling back to the cleaned names when the original list is absent.
func (s *Schema) OriginalTables() []string {
	if len(s.TableNamesOriginal) > 0 {
		return s.TableNamesOriginal
	}
	return s.TableNames
}

// OriginalColumns returns the positional column list with database-native
// spellings, falling back to the cleaned list.
func (s *Schema) OriginalColumns() []ColumnName {
	if len(s.ColumnNamesOrig) > 0 {
		return s.ColumnNamesOrig
	}
	return s.ColumnNames
}

// ColumnName is one (table index, column name) entry. A table index of -1
// marks the wildcard column that belongs to no table.
type ColumnName struct {
	TableIndex int
	Name       string
}

// UnmarshalJSON decodes the benchmark's [table_index, "name"] pair form.
func (c *ColumnName) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("column name entry: %w", err)
	}
	if err := json.Unmarshal(raw[0], &c.TableIndex); err != nil {
		return fmt.Errorf("column table index: %w", err)
	}
	if err := json.Unmarshal(raw[1], &c.Name); err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	return nil
}

// MarshalJSON encodes back to the [table_index, "name"] pair form.
func (c ColumnName) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.TableIndex, c.Name})
}

// FKDescription is a human-authored description of one declared foreign key.
type FKDescription struct {
	ChildTable        string `json:"child_table"`
	ChildColumn       string `json:"child_column"`
	ParentTable       string `json:"parent_table"`
	ParentColumn      string `json:"parent_column"`
	ChildDescription  string `json:"child_description,omitempty"`
	ParentDescription string `json:"parent_description,omitempty"`
	Summary           string `json:"summary,omitempty"`
	Usage             string `json:"usage,omitempty"`
}

// Text returns the preferred description text (summary over usage).
func (d *FKDescription) Text() string {
	if d.Summary != "" {
		return d.Summary
	}
	return d.Usage
}

// Norm normalizes a name for cross-format matching: surrounding whitespace
// stripped, lowercased, and every character that is not an ASCII letter or
// digit removed. "Student_ID" and "studentid" normalize identically.
func Norm(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
