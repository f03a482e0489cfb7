// Package config loads YAML-defined run configuration for the cluster
// simulator: named cache presets (so a benchmark suite can refer to "small"
// or "large" caches by name) and the run-level parameters the CLI
// subcommands assemble into a cluster.Simulator (spec.md §4.11).
//
// Grounded on the teacher project's cmd/workload_config.go, which loads a
// named-preset YAML file the same way: unmarshal once, look the name up in
// a map, and let a missing key mean "no such preset".
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// CachePreset describes one named cache configuration: per-table capacities
// and whether the cache is Shared across tables or Private per table
// (spec.md §4.7).
type CachePreset struct {
	Shared bool  `yaml:"shared"`
	Sizes  []int `yaml:"sizes"`
}

// CachePresets is a named collection of CachePreset, as loaded from a
// presets YAML file.
type CachePresets struct {
	Presets map[string]CachePreset `yaml:"presets"`
}

// LoadCachePresets reads and parses a cache presets YAML file.
func LoadCachePresets(path string) (*CachePresets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading cache presets file: %w", err)
	}
	var presets CachePresets
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("config: parsing cache presets file: %w", err)
	}
	return &presets, nil
}

// Lookup returns the named preset, or an error if it does not exist.
func (p *CachePresets) Lookup(name string) (CachePreset, error) {
	preset, ok := p.Presets[name]
	if !ok {
		return CachePreset{}, fmt.Errorf("config: no cache preset named %q", name)
	}
	return preset, nil
}

// ClusterRunConfig holds the fully-resolved parameters for one cluster
// simulator run, assembled by the cmd/cluster CLI subcommand from flags and
// an optional cache preset (spec.md §4.8, §6).
type ClusterRunConfig struct {
	Processors      int
	ShardingName    string // "modulo" or "table"
	LookupTableFile string // required when ShardingName == "table" (spec.md §6: single file)
	Cache           *CachePreset

	// Cardinality-based cache sizing (spec.md §6, §4.11): an alternative to
	// Cache for runs that size caches from a measured per-table
	// cardinality rather than a named preset.
	Cardinalities []uint32
	MinSize       int
	RelSize       float64

	Seed int64
}

// Validate checks that the configuration is internally consistent before a
// Simulator is built from it.
func (c ClusterRunConfig) Validate() error {
	if c.Processors <= 0 {
		return fmt.Errorf("config: processors must be > 0, got %d", c.Processors)
	}
	switch c.ShardingName {
	case "modulo":
	case "table":
		if c.LookupTableFile == "" {
			return fmt.Errorf("config: sharding %q requires a lookup table file", c.ShardingName)
		}
	default:
		return fmt.Errorf("config: unknown sharding protocol %q", c.ShardingName)
	}
	if c.Cache != nil && len(c.Cache.Sizes) == 0 {
		return fmt.Errorf("config: cache preset has no table sizes")
	}
	if c.Cache != nil && c.Cardinalities != nil {
		return fmt.Errorf("config: cache preset and cardinality-based sizing are mutually exclusive")
	}
	if c.Cardinalities != nil && c.RelSize <= 0 {
		return fmt.Errorf("config: rel-size must be > 0 when sizing caches from cardinalities")
	}
	return nil
}

// CacheSizesFromCardinalities sizes each table's cache as
// clamp(minSize, floor(cardinality * relSize), cardinality) (spec.md §6,
// SPEC_FULL.md §4.11): floor(cardinality * relSize) is first capped at the
// table's cardinality and then raised to minSize, so minSize wins when it
// exceeds the cardinality (a table of 50 keys with minSize 100 gets 100).
func CacheSizesFromCardinalities(cardinalities []uint32, minSize int, relSize float64) []int {
	sizes := make([]int, len(cardinalities))
	for i, card := range cardinalities {
		size := int(math.Floor(float64(card) * relSize))
		if size > int(card) {
			size = int(card)
		}
		if size < minSize {
			size = minSize
		}
		sizes[i] = size
	}
	return sizes
}
