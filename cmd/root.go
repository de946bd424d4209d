package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goldgraph",
	Short: "Build gold schema graphs for text-to-SQL question sets",
	Long: `goldgraph extracts, for each question in a text-to-SQL benchmark, the
schema subgraph its SQL actually touches: the referenced tables and the join
relationships between them, enriched with foreign-key descriptions. The
resulting graphs and their textual renderings feed downstream retrieval and
question-answering models.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
}

// requireConfig guards commands that cannot run without a config file.
func requireConfig() error {
	if cfg == nil {
		return fmt.Errorf("--config is required")
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
