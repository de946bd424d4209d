// Package augment enriches schema records with human-readable column and
// foreign-key descriptions sourced from the per-database description CSVs
// that ship alongside the benchmark databases.
package augment

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/birdql/goldgraph/internal/jsonio"
	"github.com/birdql/goldgraph/internal/schema"
)

// DescriptionMap maps normalized table name to normalized column name to
// description text.
type DescriptionMap map[string]map[string]string

// Lookup returns the description for a (table, column) pair in any spelling.
func (m DescriptionMap) Lookup(table, column string) string {
	cols, ok := m[schema.Norm(table)]
	if !ok {
		return ""
	}
	return cols[schema.Norm(column)]
}

// FindDBDir locates a database directory under the given roots, first by
// exact name, then by normalized-name match against the root's entries.
func FindDBDir(roots []string, dbID string) string {
	target := schema.Norm(dbID)
	for _, root := range roots {
		direct := filepath.Join(root, dbID)
		if info, err := os.Stat(direct); err == nil && info.IsDir() {
			return direct
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() && schema.Norm(e.Name()) == target {
				return filepath.Join(root, e.Name())
			}
		}
	}
	return ""
}

// LoadDescriptions builds the description map from a database directory's
// database_description/*.csv files. Files are read in sorted order; a file
// that cannot be read or parsed is logged and skipped, never fatal. A
// missing description directory yields an empty map.
func LoadDescriptions(dbDir string) DescriptionMap {
	m := make(DescriptionMap)
	descDir := filepath.Join(dbDir, "database_description")
	entries, err := os.ReadDir(descDir)
	if err != nil {
		return m
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".csv" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(descDir, name)
		rows, err := readCSV(path)
		if err != nil {
			log.Printf("WARN: failed reading %s: %v", path, err)
			continue
		}
		tableKey := schema.Norm(name[:len(name)-len(".csv")])
		colMap := make(map[string]string)
		for _, row := range rows {
			orig := row["original_column_name"]
			if orig == "" {
				orig = row["original"]
			}
			desc := row["column_description"]
			if desc == "" {
				desc = row["description"]
			}
			// Prefer original_column_name for matching; never overwrite a
			// non-empty description with an empty one.
			for _, cand := range []string{orig, row["column_name"]} {
				key := schema.Norm(cand)
				if key == "" {
					continue
				}
				if cur, ok := colMap[key]; !ok || (desc != "" && cur == "") {
					colMap[key] = desc
				}
			}
		}
		if len(colMap) > 0 {
			m[tableKey] = colMap
		}
	}
	return m
}

// readCSV reads a description CSV into header-keyed rows. Files come in a
// mix of encodings; jsonio's fallback decoding normalizes them to UTF-8.
func readCSV(path string) ([]map[string]string, error) {
	data, err := jsonio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, field := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
