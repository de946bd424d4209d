package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdql/goldgraph/internal/viewer"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve built gold graphs over a JSON API",
	Long: `Loads each configured split's output record file and serves
/api/meta (per-split db_id listing) and /api/graph?split=&idx= (one full
record) for the external graph renderer. Missing output files are served
as empty splits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}

		paths := make(map[string]string)
		for _, name := range cfg.SplitNames() {
			split, err := cfg.Split(name)
			if err != nil {
				return err
			}
			paths[name] = split.Output
		}

		data, err := viewer.Load(paths)
		if err != nil {
			return err
		}
		srv := viewer.New(data)

		listen := serveListen
		if listen == "" {
			listen = cfg.Listen
		}
		fmt.Fprintf(os.Stderr, "Listening on %s\n", listen)
		return http.ListenAndServe(listen, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
