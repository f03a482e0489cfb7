// Package resultio writes simulator outputs to disk: HRC curves as CSV, in
// either the single-policy size,hitrate shape or the three-policy
// cache_size,cache_size_relative,hitrate_LRU,hitrate_LFU,hitrate_OPT shape
// (spec.md §6), and cluster traffic results as JSON (spec.md §4.10, §6).
//
// Grounded on original_source/cache/stack_simulator/simulator.hpp's
// export_csv and the teacher project's cmd/observe.go Export path, which
// both write a simulation's accumulated results as a single pass over an
// already-open file handle.
package resultio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/fsossai/embeddings/sim/cluster"
)

// hrcPrecision is the fixed floating-point precision spec.md §6 requires
// for HRC CSV output.
const hrcPrecision = 5

func formatHRC(v float64) string {
	return strconv.FormatFloat(v, 'f', hrcPrecision, 64)
}

// WriteHRCCurveCsv writes a single-policy hit-rate curve to path, one row
// per cache size, with the fixed header spec.md §6 names for the LRU-only
// case: size,hitrate.
func WriteHRCCurveCsv(path string, curve map[uint64]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: creating HRC output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"size", "hitrate"}); err != nil {
		return fmt.Errorf("resultio: writing HRC header: %w", err)
	}

	sizes := make([]uint64, 0, len(curve))
	for size := range curve {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	for _, size := range sizes {
		row := []string{strconv.FormatUint(size, 10), formatHRC(curve[size])}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("resultio: writing HRC row for size %d: %w", size, err)
		}
	}
	return nil
}

// RelativeHRCRow is one row of the three-policy relative-size comparison
// spec.md §6 requires: a cache size, its expression as a fraction of the
// stream's distinct-key count, and the LRU/LFU/OPT hit rates at that size
// (spec.md §4.3's hitrates_relative operation).
type RelativeHRCRow struct {
	CacheSize         uint64
	CacheSizeRelative float64
	HitRateLRU        float64
	HitRateLFU        float64
	HitRateOPT        float64
}

// WriteHRCRelativeCsv writes the three-policy relative-size comparison to
// path, with the fixed header spec.md §6 names: cache_size,
// cache_size_relative,hitrate_LRU,hitrate_LFU,hitrate_OPT.
func WriteHRCRelativeCsv(path string, rows []RelativeHRCRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: creating HRC output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"cache_size", "cache_size_relative", "hitrate_LRU", "hitrate_LFU", "hitrate_OPT"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("resultio: writing HRC header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			strconv.FormatUint(row.CacheSize, 10),
			formatHRC(row.CacheSizeRelative),
			formatHRC(row.HitRateLRU),
			formatHRC(row.HitRateLFU),
			formatHRC(row.HitRateOPT),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("resultio: writing HRC row %d: %w", i, err)
		}
	}
	return nil
}

// clusterResultJSON is the on-disk shape of a cluster.Result (spec.md §3,
// §4.10): matrices flattened to row-major 2D arrays for portability.
type clusterResultJSON struct {
	Processors int `json:"processors"`
	Tables     int `json:"tables"`
	Queries    int `json:"queries"`

	CachePolicy  string `json:"cache_policy"`
	CacheMode    string `json:"cache_mode"`
	ShardingMode string `json:"sharding_mode"`
	ShardingFile string `json:"sharding_file"`
	ShardingName string `json:"sharding_name"`

	Packets [][]int64 `json:"packets"`
	Lookups [][]int64 `json:"lookups"`

	Fanout          []int64 `json:"fanout"`
	OutgoingPackets []int64 `json:"outgoing_packets"`
	OutgoingLookups []int64 `json:"outgoing_lookups"`

	PacketSize     [][]int64 `json:"packet_size"`
	OutgoingTables [][]int64 `json:"outgoing_tables"`

	CacheMinSize  int     `json:"cache_min_size,omitempty"`
	CacheSizeRel  float64 `json:"cache_size_rel,omitempty"`
	AggregateSize int     `json:"aggregate_size,omitempty"`
	CacheSizes    []int   `json:"cache_sizes,omitempty"`

	CacheHits      [][]int64 `json:"cache_hits,omitempty"`
	CacheRefs      [][]int64 `json:"cache_refs,omitempty"`
	CacheFootprint [][]int64 `json:"cache_footprint,omitempty"`
}

// WriteClusterJSON writes a cluster.Result to path as indented JSON.
func WriteClusterJSON(path string, res cluster.Result) error {
	out := clusterResultJSON{
		Processors:      res.Processors,
		Tables:          res.Tables,
		Queries:         res.Queries,
		CachePolicy:     res.CachePolicy,
		CacheMode:       res.CacheMode,
		ShardingMode:    res.ShardingMode,
		ShardingFile:    res.ShardingFile,
		ShardingName:    res.ShardingName,
		Packets:         res.Packets.Rows2D(),
		Lookups:         res.Lookups.Rows2D(),
		Fanout:          res.Fanout,
		OutgoingPackets: res.OutgoingPackets,
		OutgoingLookups: res.OutgoingLookups,
		PacketSize:      res.PacketSize.Rows2D(),
		OutgoingTables:  res.OutgoingTables.Rows2D(),
	}
	if res.CacheHits != nil {
		out.CacheHits = res.CacheHits.Rows2D()
		out.CacheRefs = res.CacheRefs.Rows2D()
		out.CacheMinSize = res.CacheMinSize
		out.CacheSizeRel = res.CacheSizeRel
		out.AggregateSize = res.AggregateSize
		out.CacheSizes = res.CacheSizes
	}
	if res.CacheFootprint != nil {
		out.CacheFootprint = res.CacheFootprint.Rows2D()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("resultio: marshaling cluster result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("resultio: writing cluster result file: %w", err)
	}
	return nil
}
