package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/introspect"
	"github.com/birdql/goldgraph/internal/jsonio"
	"github.com/birdql/goldgraph/internal/schema"
)

var (
	introspectSQLite  string
	introspectDSN     string
	introspectSchemas []string
	introspectDBID    string
	introspectOut     string
)

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Build a schema record from a live database",
	Long: `Introspects a SQLite file or a PostgreSQL database and emits a
benchmark-format schema record (table_names, positional column_names,
foreign_keys), ready for the augment and build steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (introspectSQLite == "") == (introspectDSN == "") {
			return fmt.Errorf("exactly one of --sqlite or --dsn is required")
		}
		if introspectDBID == "" {
			return fmt.Errorf("--db-id is required")
		}

		ctx := context.Background()
		var (
			s   *schema.Schema
			err error
		)
		if introspectSQLite != "" {
			s, err = introspect.SQLite(ctx, introspectSQLite, introspectDBID)
		} else {
			s, err = introspect.Postgres(ctx, introspectDSN, introspectDBID, introspectSchemas)
		}
		if err != nil {
			return err
		}

		if introspectOut == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "    ")
			return enc.Encode([]*schema.Schema{s})
		}
		if err := jsonio.Save(introspectOut, []*schema.Schema{s}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote: %s\n", introspectOut)
		return nil
	},
}

func init() {
	introspectCmd.Flags().StringVar(&introspectSQLite, "sqlite", "", "path to a SQLite database file")
	introspectCmd.Flags().StringVar(&introspectDSN, "dsn", "", "PostgreSQL connection string")
	introspectCmd.Flags().StringSliceVar(&introspectSchemas, "schema", nil, "PostgreSQL namespaces to read (default: public)")
	introspectCmd.Flags().StringVar(&introspectDBID, "db-id", "", "db_id for the emitted record (required)")
	introspectCmd.Flags().StringVar(&introspectOut, "out", "", "output path (default: stdout)")
	rootCmd.AddCommand(introspectCmd)
}
