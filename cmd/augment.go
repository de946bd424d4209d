package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/augment"
	"github.com/birdql/goldgraph/internal/schema"
)

var (
	augmentTables  string
	augmentDBRoots []string
	augmentOut     string
	augmentInPlace bool
)

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Add FK and column descriptions to a tables file",
	Long: `Reads a tables file and the per-database description CSVs found under
the database roots, then writes the same schema records with
foreign_key_descriptions and column_descriptions filled in. Databases
without description CSVs still get entries with empty text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := augmentDBRoots
		if len(roots) == 0 && cfg != nil {
			roots = cfg.DatabaseRoots
		}
		var existing []string
		for _, r := range roots {
			if _, err := os.Stat(r); err == nil {
				existing = append(existing, r)
			}
		}
		if len(existing) == 0 {
			fmt.Fprintln(os.Stderr, "WARN: no existing database roots found; descriptions will be empty")
		}

		schemas, err := schema.Load(augmentTables)
		if err != nil {
			return err
		}

		stats, err := augment.Run(schemas, existing)
		if err != nil {
			return err
		}

		out := augmentOut
		if augmentInPlace {
			out = augmentTables
		}
		if out == "" {
			ext := filepath.Ext(augmentTables)
			out = strings.TrimSuffix(augmentTables, ext) + "_with_fk_desc" + ext
		}
		if err := schema.Save(out, schemas); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Augmented %d DBs. Missing FK descriptions: %d. Missing column descriptions: %d.\n",
			stats.UpdatedDBs, stats.MissingFKDescs, stats.MissingColumnDescs)
		fmt.Fprintf(os.Stderr, "Wrote: %s\n", out)
		return nil
	},
}

func init() {
	augmentCmd.Flags().StringVar(&augmentTables, "tables", "", "path to the tables JSON file (required)")
	augmentCmd.Flags().StringArrayVar(&augmentDBRoots, "db-root", nil, "database root(s) containing <db_id>/database_description")
	augmentCmd.Flags().StringVar(&augmentOut, "out", "", "output path (default: <tables>_with_fk_desc.json)")
	augmentCmd.Flags().BoolVar(&augmentInPlace, "in-place", false, "overwrite the input file")
	_ = augmentCmd.MarkFlagRequired("tables")
	rootCmd.AddCommand(augmentCmd)
}
