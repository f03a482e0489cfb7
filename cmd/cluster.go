package cmd

import (
	"github.com/fsossai/embeddings/sim/clustercache"
	"github.com/fsossai/embeddings/sim/config"
	"github.com/fsossai/embeddings/sim/dataset"
	"github.com/fsossai/embeddings/sim/resultio"
	"github.com/fsossai/embeddings/sim/sharding"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fsossai/embeddings/sim/cluster"
)

var (
	clusterInputPath       string
	clusterOutputPath      string
	clusterProcessors      int
	clusterShardingName    string
	clusterLookupTableFile string
	clusterPresetsPath     string
	clusterPresetName      string
	clusterCountsPath      string
	clusterMinSize         int
	clusterRelSize         float64
	clusterSeed            int64
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Simulate distributed embedding-table lookup traffic across a processor cluster",
	Run: func(cmd *cobra.Command, args []string) {
		runConfig := config.ClusterRunConfig{
			Processors:      clusterProcessors,
			ShardingName:    clusterShardingName,
			LookupTableFile: clusterLookupTableFile,
			MinSize:         clusterMinSize,
			RelSize:         clusterRelSize,
			Seed:            clusterSeed,
		}

		if clusterPresetsPath != "" && clusterPresetName != "" {
			presets, err := config.LoadCachePresets(clusterPresetsPath)
			if err != nil {
				logrus.Fatalf("loading cache presets: %v", err)
			}
			preset, err := presets.Lookup(clusterPresetName)
			if err != nil {
				logrus.Fatalf("resolving cache preset %q: %v", clusterPresetName, err)
			}
			runConfig.Cache = &preset
		}
		if clusterCountsPath != "" {
			cardinalities, err := dataset.ReadCardinalities(clusterCountsPath)
			if err != nil {
				logrus.Fatalf("reading cardinalities: %v", err)
			}
			runConfig.Cardinalities = cardinalities
		}

		if err := runConfig.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		_, queries, err := dataset.ReadClusterTrace(clusterInputPath)
		if err != nil {
			logrus.Fatalf("reading cluster trace: %v", err)
		}
		logrus.Infof("loaded %d queries from %s", len(queries), clusterInputPath)

		protocol, err := buildProtocol(runConfig)
		if err != nil {
			logrus.Fatalf("building sharding protocol: %v", err)
		}

		meta := cluster.Metadata{
			ShardingMode: runConfig.ShardingName,
			ShardingFile: runConfig.LookupTableFile,
		}

		var cache *clustercache.Cache
		switch {
		case runConfig.Cache != nil:
			meta.Shared = runConfig.Cache.Shared
			meta.CacheSizes = runConfig.Cache.Sizes
			if runConfig.Cache.Shared {
				cache = clustercache.NewShared(runConfig.Processors, runConfig.Cache.Sizes)
			} else {
				cache = clustercache.NewPrivate(runConfig.Processors, runConfig.Cache.Sizes)
			}
		case runConfig.Cardinalities != nil:
			sizes := config.CacheSizesFromCardinalities(runConfig.Cardinalities, runConfig.MinSize, runConfig.RelSize)
			meta.CacheMinSize = runConfig.MinSize
			meta.CacheSizeRel = runConfig.RelSize
			meta.CacheSizes = sizes
			cache = clustercache.NewPrivate(runConfig.Processors, sizes)
		}

		sim := cluster.New(runConfig.Processors, protocol, cache, meta, runConfig.Seed)
		res := sim.Run(queries)

		if err := resultio.WriteClusterJSON(clusterOutputPath, res); err != nil {
			logrus.Fatalf("writing cluster result: %v", err)
		}
		logrus.Infof("wrote cluster traffic result to %s", clusterOutputPath)
	},
}

func buildProtocol(cfg config.ClusterRunConfig) (sharding.Protocol, error) {
	switch cfg.ShardingName {
	case "modulo":
		return sharding.NewByModulo(cfg.Processors), nil
	case "table":
		tables, err := dataset.ReadLookupTable(cfg.LookupTableFile)
		if err != nil {
			return nil, err
		}
		return sharding.NewTable("Custom", tables), nil
	default:
		panic("cmd: buildProtocol called with an unvalidated config")
	}
}

func init() {
	clusterCmd.Flags().StringVar(&clusterInputPath, "input", "", "Path to a cluster trace CSV file (required)")
	clusterCmd.Flags().StringVar(&clusterOutputPath, "output", "cluster.json", "Output JSON path")
	clusterCmd.Flags().IntVar(&clusterProcessors, "n-processors", 1, "Number of processors in the cluster")
	clusterCmd.Flags().StringVar(&clusterShardingName, "sharding-name", "modulo", "Sharding protocol: modulo or table")
	clusterCmd.Flags().StringVar(&clusterLookupTableFile, "lookup-table", "", "Precompiled lookup table file, one line per table (required when --sharding-name=table)")
	clusterCmd.Flags().StringVar(&clusterPresetsPath, "cache-presets", "", "Path to a cache presets YAML file")
	clusterCmd.Flags().StringVar(&clusterPresetName, "cache-preset", "", "Name of the cache preset to use")
	clusterCmd.Flags().StringVar(&clusterCountsPath, "counts", "", "Per-table cardinalities file, used to size a private cache as clamp(min-size, floor(cardinality*rel-size), cardinality) when no cache preset is given")
	clusterCmd.Flags().IntVar(&clusterMinSize, "min-size", 100, "Minimum per-table cache size when sizing from --counts")
	clusterCmd.Flags().Float64Var(&clusterRelSize, "rel-size", 0.01, "Per-table cache size as a fraction of cardinality when sizing from --counts")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 1, "RNG seed for coordinator selection")
	_ = clusterCmd.MarkFlagRequired("input")
}
