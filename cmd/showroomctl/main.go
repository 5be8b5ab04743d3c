// Command showroomctl browses, compares and prices the showroom catalog from
// the terminal.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/WessleyAI/showroom/engine/dataset"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. The dataset is loaded lazily so
// commands that do not read the catalog never parse it.
type app struct {
	datasetPath string
	natsURL     string
	verbose     bool
	data        *dataset.Dataset
}

func (a *app) dataset() (*dataset.Dataset, error) {
	if a.data != nil {
		return a.data, nil
	}
	d, err := dataset.Load(a.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.data = d
	return d, nil
}

func (a *app) logger(w io.Writer) *slog.Logger {
	lvl := slog.LevelWarn
	if a.verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "showroomctl",
		Short: "Browse, compare and price the showroom catalog",
		Long: `showroomctl runs the catalog filter, sort, comparison and pricing
engines against the bundled dataset or a YAML file given with --dataset.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.datasetPath, "dataset", os.Getenv("DATASET_PATH"), "catalog YAML file (default: bundled catalog)")
	root.PersistentFlags().StringVar(&a.natsURL, "nats", os.Getenv("NATS_URL"), "NATS URL for live activity")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newCompareCmd(a),
		newQuoteCmd(a),
		newShipCmd(a),
		newActivityCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
