package schema

import (
	"fmt"

	"github.com/birdql/goldgraph/internal/jsonio"
)

// Load reads a tables file (a JSON array of schema records).
func Load(path string) ([]*Schema, error) {
	var schemas []*Schema
	if err := jsonio.Load(path, &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

// Map keys schemas by db_id. Duplicate ids keep the first record.
func Map(schemas []*Schema) map[string]*Schema {
	m := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		if _, ok := m[s.DBID]; !ok {
			m[s.DBID] = s
		}
	}
	return m
}

// Save writes schema records back to a tables file.
func Save(path string, schemas []*Schema) error {
	if err := jsonio.Save(path, schemas); err != nil {
		return fmt.Errorf("saving tables file: %w", err)
	}
	return nil
}
