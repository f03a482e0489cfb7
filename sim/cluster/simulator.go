// Package cluster implements the distributed-lookup simulator: it streams
// queries (one D-tuple of embedding-table keys each), assigns each a
// uniformly random coordinator processor, resolves per-table ownership via
// a sharding.Protocol, optionally short-circuits remote lookups through a
// clustercache.Cache, and accumulates the traffic matrices and histograms
// spec.md §3/§4.8 describe.
//
// Grounded on original_source/simulations/cached/cached_sim.hpp's
// cached_simulation (coordinator selection + fanout accounting), extended
// per spec.md §4.8 to cover cache-aware remote-lookup rewriting and the
// full traffic/histogram accounting the original's earlier variant lacked.
package cluster

import (
	"github.com/fsossai/embeddings/sim/clustercache"
	"github.com/fsossai/embeddings/sim/matrix"
	"github.com/fsossai/embeddings/sim/rng"
	"github.com/fsossai/embeddings/sim/sharding"
	"github.com/sirupsen/logrus"
)

// Result accumulates cluster traffic statistics over a run (spec.md §3,
// §6).
type Result struct {
	Processors int
	Tables     int
	Queries    int

	// Run metadata, always populated regardless of whether a cache is
	// attached (spec.md §6 cluster output's unconditional field group).
	CachePolicy  string // "" when no cache is attached
	CacheMode    string // "private", "shared", or "" when no cache is attached
	ShardingMode string // "modulo" or "table", the CLI-level protocol selector
	ShardingFile string // lookup-table file path, empty for modulo sharding
	ShardingName string // protocol.Name(), e.g. "Random" or a custom table name

	Packets *matrix.Matrix // P x P: packets[p][i] coordinator->target count
	Lookups *matrix.Matrix // P x P: lookups[p][i] aggregated remote lookup count

	Fanout          []int64 // size P+1: histogram of distinct target processors per query
	OutgoingPackets []int64 // size P+1: histogram of remote-target count per query
	OutgoingLookups []int64 // size D+1: histogram of remote-lookup count per query

	PacketSize     *matrix.Matrix // P x (D+1): histogram of packet sizes per coordinator
	OutgoingTables *matrix.Matrix // P x D: per-table remote-lookup count per coordinator

	// Present only when a cache is attached.
	CacheMinSize  int     // clamp floor passed to the sizing formula, 0 if sizes came from a preset
	CacheSizeRel  float64 // clamp relative fraction, 0 if sizes came from a preset
	AggregateSize int     // sum of per-table cache sizes
	CacheSizes    []int   // per-table cache sizes, in table order

	CacheHits      *matrix.Matrix // P x D
	CacheRefs      *matrix.Matrix // P x D
	CacheFootprint *matrix.Matrix // P x D, Shared mode only
}

// Metadata carries the run-level facts a Simulator cannot derive on its
// own (how sizing and sharding were configured) so Run can report them in
// Result without cmd/cluster reaching back into the simulator's internals
// after the fact (spec.md §6).
type Metadata struct {
	ShardingMode string // "modulo" or "table"
	ShardingFile string // lookup-table file path, empty for modulo sharding

	Shared       bool // cache mode, ignored when Cache is nil
	CacheMinSize int  // clamp floor, 0 if CacheSizes came from a preset
	CacheSizeRel float64
	CacheSizes   []int // per-table cache sizes actually used to build the Cache
}

// Simulator runs the cluster traffic accounting described in spec.md §4.8.
type Simulator struct {
	p           int
	protocol    sharding.Protocol
	cache       *clustercache.Cache
	sharedCache bool
	meta        Metadata
	coord       *rng.Partitioned
}

// New creates a Simulator over p processors using protocol for sharding and
// an optional cache (nil disables cache-aware remote-lookup rewriting).
// meta records how sharding and cache sizing were configured, for Result's
// report fields. seed fixes the coordinator RNG for reproducibility
// (spec.md §9: never derived from wall clock). Panics if p <= 0.
func New(p int, protocol sharding.Protocol, cache *clustercache.Cache, meta Metadata, seed int64) *Simulator {
	if p <= 0 {
		panic("cluster: Simulator requires at least one processor")
	}
	return &Simulator{
		p:           p,
		protocol:    protocol,
		cache:       cache,
		sharedCache: meta.Shared,
		meta:        meta,
		coord:       rng.New(rng.NewSimulationKey(seed)),
	}
}

// Run streams queries (each of width D) through the simulator and returns
// the accumulated Result. All rows must share the same width; callers
// (sim/dataset.ReadClusterTrace) are responsible for enforcing that before
// calling Run.
func (s *Simulator) Run(queries [][]uint32) Result {
	if len(queries) == 0 {
		logrus.Warn("cluster: empty trace, nothing to simulate")
		res := Result{Processors: s.p}
		s.populateMetadata(&res)
		return res
	}
	d := len(queries[0])

	res := Result{
		Processors:      s.p,
		Tables:          d,
		Queries:         len(queries),
		Packets:         matrix.New(s.p, s.p),
		Lookups:         matrix.New(s.p, s.p),
		Fanout:          make([]int64, s.p+1),
		OutgoingPackets: make([]int64, s.p+1),
		OutgoingLookups: make([]int64, d+1),
		PacketSize:      matrix.New(s.p, d+1),
		OutgoingTables:  matrix.New(s.p, d),
	}
	s.populateMetadata(&res)
	if s.cache != nil {
		res.CacheHits = matrix.New(s.p, d)
		res.CacheRefs = matrix.New(s.p, d)
		if s.sharedCache {
			res.CacheFootprint = matrix.New(s.p, d)
		}
	}

	coordRNG := s.coord.ForSubsystem(rng.SubsystemCoordinator)
	lookups := make([]int, d)

	for _, query := range queries {
		if len(query) != d {
			panic("cluster: query width mismatch within a single run")
		}
		p := coordRNG.Intn(s.p)

		for i, key := range query {
			lookups[i] = s.protocol.Lookup(i, key)
		}

		if s.cache != nil {
			for i, key := range query {
				if lookups[i] != p {
					if s.cache.Reference(p, i, key) {
						lookups[i] = p
					}
				}
			}
		}

		counts := make(map[int]int, d)
		for _, target := range lookups {
			counts[target]++
		}

		_, pLocal := counts[p]
		res.Fanout[len(counts)]++
		remoteTargets := len(counts)
		if pLocal {
			remoteTargets--
		}
		res.OutgoingPackets[remoteTargets]++
		res.OutgoingLookups[d-counts[p]]++

		for target, count := range counts {
			if target == p {
				continue
			}
			res.Packets.Inc(p, target)
			res.Lookups.Add(p, target, int64(count))
			res.PacketSize.Inc(p, count)
		}
		for i, target := range lookups {
			if target != p {
				res.OutgoingTables.Inc(p, i)
			}
		}
	}

	if s.cache != nil {
		for pp := 0; pp < s.p; pp++ {
			for t := 0; t < d; t++ {
				res.CacheHits.Set(pp, t, s.cache.Hits(pp, t))
				res.CacheRefs.Set(pp, t, s.cache.Refs(pp, t))
			}
			if s.sharedCache {
				footprint := s.cache.Footprint(pp)
				for t, count := range footprint {
					res.CacheFootprint.Set(pp, t, int64(count))
				}
			}
		}
	}

	return res
}

// populateMetadata fills in the report fields Result carries regardless of
// how far Run got (spec.md §6's unconditional and cache-conditional field
// groups).
func (s *Simulator) populateMetadata(res *Result) {
	res.ShardingMode = s.meta.ShardingMode
	res.ShardingFile = s.meta.ShardingFile
	res.ShardingName = s.protocol.Name()

	if s.cache == nil {
		return
	}
	res.CachePolicy = clustercache.PolicyName
	if s.sharedCache {
		res.CacheMode = "shared"
	} else {
		res.CacheMode = "private"
	}
	res.CacheMinSize = s.meta.CacheMinSize
	res.CacheSizeRel = s.meta.CacheSizeRel
	res.CacheSizes = s.meta.CacheSizes
	for _, sz := range s.meta.CacheSizes {
		res.AggregateSize += sz
	}
}
