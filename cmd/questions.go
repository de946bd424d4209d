package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/questions"
)

var addlangKey string

var addlangCmd = &cobra.Command{
	Use:   "addlang <file...>",
	Short: "Ensure question records carry the bilingual text field",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		anyChanged := false
		for _, path := range args {
			changed, err := questions.EnsureField(path, addlangKey)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			state := "no change"
			if changed {
				state = "updated"
				anyChanged = true
			}
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, state)
		}
		if !anyChanged {
			fmt.Fprintln(os.Stderr, "No files changed (field already present everywhere)")
		}
		return nil
	},
}

var splitParts int

var splitCmd = &cobra.Command{
	Use:   "split <file...>",
	Short: "Split question files into chunks for translation hand-off",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			written, err := questions.SplitFile(path, splitParts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, out := range written {
				fmt.Fprintf(os.Stderr, "Wrote: %s\n", out)
			}
		}
		return nil
	},
}

func init() {
	addlangCmd.Flags().StringVar(&addlangKey, "key", "question_ar", "field to ensure on every record")
	splitCmd.Flags().IntVar(&splitParts, "parts", 4, "number of chunks")
	rootCmd.AddCommand(addlangCmd)
	rootCmd.AddCommand(splitCmd)
}
