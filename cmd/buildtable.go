package cmd

import (
	"math/rand"

	"github.com/fsossai/embeddings/sim/dataset"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	buildTableCardinalitiesPath string
	buildTableOutputPath        string
	buildTableProcessors        int
	buildTableSeed              int64
)

// buildTableCmd precompiles a random (table, key) -> processor lookup table
// into a single file, one line per table, for use with
// "cluster --sharding-name=table". Grounded on
// original_source/simulations/cached/sharding.hpp's
// create_lookup_table<Sharding::Random>, which assigns every distinct key of
// a table to a uniformly random processor once and persists the assignment
// so later runs reuse the same mapping instead of re-deriving it per query.
var buildTableCmd = &cobra.Command{
	Use:   "build-table",
	Short: "Precompile a random per-table key-to-processor lookup table",
	Run: func(cmd *cobra.Command, args []string) {
		cardinalities, err := dataset.ReadCardinalities(buildTableCardinalitiesPath)
		if err != nil {
			logrus.Fatalf("reading cardinalities: %v", err)
		}

		rnd := rand.New(rand.NewSource(buildTableSeed))
		tables := make([][]dataset.LookupEntry, len(cardinalities))
		for table, cardinality := range cardinalities {
			entries := make([]dataset.LookupEntry, cardinality)
			for key := uint32(0); key < cardinality; key++ {
				entries[key] = dataset.LookupEntry{Key: key, Proc: rnd.Intn(buildTableProcessors)}
			}
			tables[table] = entries
			logrus.Infof("built lookup table for table %d (%d keys)", table, cardinality)
		}

		if err := dataset.WriteLookupTable(buildTableOutputPath, tables); err != nil {
			logrus.Fatalf("writing lookup table: %v", err)
		}
		logrus.Infof("wrote lookup table for %d tables to %s", len(tables), buildTableOutputPath)
	},
}

func init() {
	buildTableCmd.Flags().StringVar(&buildTableCardinalitiesPath, "cardinalities", "", "Path to a cardinalities CSV file, one column per table (required)")
	buildTableCmd.Flags().StringVar(&buildTableOutputPath, "output", "tables.txt", "Output lookup table file, one line per table")
	buildTableCmd.Flags().IntVar(&buildTableProcessors, "processors", 1, "Number of processors to assign keys across")
	buildTableCmd.Flags().Int64Var(&buildTableSeed, "seed", 1, "RNG seed for the random key-to-processor assignment")
	_ = buildTableCmd.MarkFlagRequired("cardinalities")
}
