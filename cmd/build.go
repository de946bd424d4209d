package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/batch"
	"github.com/birdql/goldgraph/internal/schema"
)

var buildCmd = &cobra.Command{
	Use:   "build [split...]",
	Short: "Build gold graphs for configured question splits",
	Long: `Reads each split's schema and question files, builds one gold graph per
question whose db_id has a schema, and writes the output record file.
Questions with an unknown db_id are skipped; SQL that no dialect can parse
degrades to a best-effort graph instead of failing the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		ctx := context.Background()

		splits := args
		if len(splits) == 0 {
			splits = cfg.SplitNames()
		}

		for _, name := range splits {
			split, err := cfg.Split(name)
			if err != nil {
				return err
			}

			schemas, err := schema.Load(split.Tables)
			if err != nil {
				return fmt.Errorf("loading schemas for %s: %w", name, err)
			}
			driver, err := batch.NewDriver(schemas, cfg.Workers)
			if err != nil {
				return fmt.Errorf("split %s: %w", name, err)
			}

			questions, err := batch.LoadQuestions(split.Questions...)
			if err != nil {
				return fmt.Errorf("loading questions for %s: %w", name, err)
			}

			results, err := driver.Run(ctx, questions)
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}
			if err := batch.SaveResults(split.Output, results); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote: %s (%d records)\n", split.Output, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
