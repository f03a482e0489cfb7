package cmd

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/fsossai/embeddings/sim/dataset"
	"github.com/fsossai/embeddings/sim/hrc"
	"github.com/fsossai/embeddings/sim/resultio"
	"github.com/fsossai/embeddings/sim/stackdist"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	hrcInputPath      string
	hrcOutputPath     string
	hrcSizesRaw       string
	hrcPolicies       []string
	hrcPercentagesRaw string
	hrcFullCurve      bool
	hrcSeed           int64
)

var hrcCmd = &cobra.Command{
	Use:   "hrc",
	Short: "Compute hit-rate curves (LRU, LFU, OPT) for one or more reference streams",
	Run: func(cmd *cobra.Command, args []string) {
		names, streams, err := dataset.ReadFeatureStreams(hrcInputPath)
		if err != nil {
			logrus.Fatalf("reading feature streams: %v", err)
		}
		logrus.Infof("loaded %d table streams from %s", len(names), hrcInputPath)

		switch {
		case hrcPercentagesRaw != "":
			runHitratesRelative(names, streams)
		case hrcFullCurve:
			runFullCurve(names, streams)
		default:
			runHitratesAbsolute(names, streams)
		}
	},
}

// runFullCurve writes the exact LRU hit-rate curve at every distinct cache
// size the trace's stack-distance distribution takes (spec.md §4.3's
// HitRates, as opposed to the fixed-size samples --sizes evaluates).
func runFullCurve(names []string, streams [][]uint32) {
	for i, name := range names {
		curve := stackdist.HitRates(streams[i], rand.New(rand.NewSource(hrcSeed)))

		outPath := strings.TrimSuffix(hrcOutputPath, ".csv") + "_" + name + "_lru.csv"
		if err := resultio.WriteHRCCurveCsv(outPath, curve); err != nil {
			logrus.Fatalf("writing full LRU hit-rate curve for table %q: %v", name, err)
		}
		logrus.Infof("wrote full LRU hit-rate curve for table %q to %s", name, outPath)
	}
}

// runHitratesAbsolute writes one size,hitrate CSV per (table, policy),
// evaluated at the fixed sizes in --sizes (spec.md §4.4-§4.6, §6).
func runHitratesAbsolute(names []string, streams [][]uint32) {
	sizes, err := parseSizes(hrcSizesRaw)
	if err != nil {
		logrus.Fatalf("parsing --sizes: %v", err)
	}

	for i, name := range names {
		stream := streams[i]
		for _, policy := range hrcPolicies {
			curve := make(map[uint64]float64, len(sizes))
			for _, size := range sizes {
				curve[uint64(size)] = hitRateAt(policy, stream, size)
			}

			outPath := strings.TrimSuffix(hrcOutputPath, ".csv") + "_" + name + "_" + policy + ".csv"
			if err := resultio.WriteHRCCurveCsv(outPath, curve); err != nil {
				logrus.Fatalf("writing HRC output for table %q policy %q: %v", name, policy, err)
			}
			logrus.Infof("wrote %s hit-rate curve for table %q to %s", policy, name, outPath)
		}
	}
}

// runHitratesRelative wires spec.md §4.3's hitrates_relative operation into
// the CLI: the exact LRU curve's step boundaries at the requested
// percentages, alongside LFU and OPT evaluated at the same absolute sizes,
// as the three-policy comparison spec.md §6 names.
func runHitratesRelative(names []string, streams [][]uint32) {
	percentages, err := parsePercentages(hrcPercentagesRaw)
	if err != nil {
		logrus.Fatalf("parsing --percentages: %v", err)
	}

	for i, name := range names {
		stream := streams[i]
		relative := stackdist.RelativeHitRates(stream, percentages, rand.New(rand.NewSource(hrcSeed)))

		rows := make([]resultio.RelativeHRCRow, 0, len(percentages))
		sortedPercentages := append([]float64(nil), percentages...)
		sort.Float64s(sortedPercentages)
		for _, p := range sortedPercentages {
			entry := relative[p]
			size := int(entry.AbsoluteSize)
			rows = append(rows, resultio.RelativeHRCRow{
				CacheSize:         entry.AbsoluteSize,
				CacheSizeRelative: entry.Relative,
				HitRateLRU:        entry.HitRate,
				HitRateLFU:        hrc.LFU(stream, size),
				HitRateOPT:        hrc.OPT(stream, size),
			})
		}

		outPath := strings.TrimSuffix(hrcOutputPath, ".csv") + "_" + name + "_relative.csv"
		if err := resultio.WriteHRCRelativeCsv(outPath, rows); err != nil {
			logrus.Fatalf("writing relative HRC output for table %q: %v", name, err)
		}
		logrus.Infof("wrote relative hit-rate comparison for table %q to %s", name, outPath)
	}
}

func hitRateAt(policy string, stream []uint32, size int) float64 {
	switch policy {
	case "lru":
		return stackdist.HitRateAt(stream, size, rand.New(rand.NewSource(hrcSeed)))
	case "lfu":
		return hrc.LFU(stream, size)
	case "opt":
		return hrc.OPT(stream, size)
	default:
		logrus.Fatalf("unknown policy %q (expected lru, lfu, or opt)", policy)
		return 0
	}
}

func parseSizes(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

func parsePercentages(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	percentages := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		percentages = append(percentages, v)
	}
	return percentages, nil
}

func init() {
	hrcCmd.Flags().StringVar(&hrcInputPath, "input", "", "Path to a feature-stream CSV file (required)")
	hrcCmd.Flags().StringVar(&hrcOutputPath, "output", "hrc.csv", "Output CSV path prefix, one file written per table (and per policy, in absolute-size mode)")
	hrcCmd.Flags().StringVar(&hrcSizesRaw, "sizes", "1,10,100", "Comma-separated list of cache sizes to evaluate in absolute-size mode")
	hrcCmd.Flags().StringSliceVar(&hrcPolicies, "policies", []string{"lru", "lfu", "opt"}, "Replacement policies to evaluate in absolute-size mode")
	hrcCmd.Flags().StringVar(&hrcPercentagesRaw, "percentages", "", "Comma-separated list of cache sizes as fractions of distinct keys; when set, runs the three-policy hitrates_relative comparison instead of absolute-size mode")
	hrcCmd.Flags().BoolVar(&hrcFullCurve, "full-curve", false, "Write the exact LRU hit-rate curve at every distinct cache size instead of sampling --sizes (ignored when --percentages is set)")
	hrcCmd.Flags().Int64Var(&hrcSeed, "seed", 1, "RNG seed for the LRU stack-distance engine's treap priorities")
	_ = hrcCmd.MarkFlagRequired("input")
}
