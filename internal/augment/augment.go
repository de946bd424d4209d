package augment

import (
	"fmt"
	"strings"

	"github.com/birdql/goldgraph/internal/schema"
)

// Stats summarizes one augmentation run.
type Stats struct {
	UpdatedDBs         int
	MissingFKDescs     int
	MissingColumnDescs int
}

// Run fills in foreign_key_descriptions and column_descriptions for every
// schema record in place, using description CSVs found under the database
// roots. Databases without a locatable directory still get entries, just
// with empty description text.
func Run(schemas []*schema.Schema, dbRoots []string) (Stats, error) {
	var stats Stats
	for _, s := range schemas {
		if s.DBID == "" {
			continue
		}
		descs := DescriptionMap{}
		if dir := FindDBDir(dbRoots, s.DBID); dir != "" {
			descs = LoadDescriptions(dir)
		}
		if err := augmentOne(s, descs, &stats); err != nil {
			return stats, fmt.Errorf("db %s: %w", s.DBID, err)
		}
		stats.UpdatedDBs++
	}
	return stats, nil
}

func augmentOne(s *schema.Schema, descs DescriptionMap, stats *Stats) error {
	tables := s.OriginalTables()
	cols := s.OriginalColumns()

	ref := func(idx int) (schema.ColumnName, error) {
		if idx < 0 || idx >= len(cols) {
			return schema.ColumnName{}, fmt.Errorf("foreign key references column index %d, have %d columns", idx, len(cols))
		}
		c := cols[idx]
		if c.TableIndex < 0 || c.TableIndex >= len(tables) {
			return schema.ColumnName{}, fmt.Errorf("column %d references table index %d, have %d tables", idx, c.TableIndex, len(tables))
		}
		return c, nil
	}

	fkDescs := []schema.FKDescription{}
	for _, pair := range s.ForeignKeys {
		if len(pair) != 2 {
			continue // malformed entry
		}
		child, err := ref(pair[0])
		if err != nil {
			return err
		}
		parent, err := ref(pair[1])
		if err != nil {
			return err
		}
		childTable := tables[child.TableIndex]
		parentTable := tables[parent.TableIndex]

		childDesc := descs.Lookup(childTable, child.Name)
		parentDesc := descs.Lookup(parentTable, parent.Name)
		if childDesc == "" && parentDesc == "" {
			stats.MissingFKDescs++
		}

		fkDescs = append(fkDescs, schema.FKDescription{
			ChildTable:        childTable,
			ChildColumn:       child.Name,
			ParentTable:       parentTable,
			ParentColumn:      parent.Name,
			ChildDescription:  childDesc,
			ParentDescription: parentDesc,
			Summary:           composeSummary(childTable, child.Name, parentTable, parent.Name, childDesc, parentDesc),
			Usage:             fmt.Sprintf("Foreign key linking %s.%s to %s.%s", childTable, child.Name, parentTable, parent.Name),
		})
	}
	s.FKDescriptions = fkDescs

	colDescs := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.TableIndex == -1 {
			colDescs = append(colDescs, "")
			continue
		}
		if c.TableIndex < 0 || c.TableIndex >= len(tables) {
			return fmt.Errorf("column %q references table index %d, have %d tables", c.Name, c.TableIndex, len(tables))
		}
		desc := descs.Lookup(tables[c.TableIndex], c.Name)
		if desc == "" {
			stats.MissingColumnDescs++
		}
		colDescs = append(colDescs, desc)
	}
	s.ColumnDescriptions = colDescs

	return nil
}

// composeSummary builds the one-sentence FK summary, appending whichever
// column description adds information. The child description is used unless
// it merely restates the parent's; an informative parent description is the
// fallback.
func composeSummary(childTable, childCol, parentTable, parentCol, childDesc, parentDesc string) string {
	first := fmt.Sprintf("%s.%s references %s.%s.", childTable, childCol, parentTable, parentCol)
	c := strings.TrimSpace(childDesc)
	p := strings.TrimSpace(parentDesc)
	cNorm := schema.Norm(c)
	pNorm := schema.Norm(p)

	parts := []string{first}
	if c != "" && (pNorm == "" || cNorm != pNorm) && !strings.Contains(cNorm, pNorm) {
		parts = append(parts, c)
	} else if p != "" {
		parts = append(parts, p)
	}
	return tidyText(strings.Join(parts, " "))
}

// tidyText collapses whitespace and normalizes the trailing period.
func tidyText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".")
	if s == "" {
		return ""
	}
	return s + "."
}
