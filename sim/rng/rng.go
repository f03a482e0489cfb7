// Package rng provides deterministic, subsystem-partitioned random number
// generation for the cluster simulator's coordinator selection: the same
// seed must always reproduce the same sequence of coordinator choices, so
// that running a trace twice with the same seed yields identical
// statistics (spec.md §4.8, §9).
//
// Adapted from the teacher project's sim/rng.go PartitionedRNG, which
// isolates subsystems by XOR-ing the master seed with an FNV-1a hash of
// the subsystem name so that unrelated subsystems (here: just the
// coordinator selector, but the structure leaves room to add more without
// perturbing existing streams) don't share a draw sequence.
package rng

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two
// simulations with the same SimulationKey and identical configuration must
// produce bit-for-bit identical results (spec.md §9).
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemCoordinator is the RNG subsystem used for per-query coordinator
// selection in the cluster simulator (spec.md §4.8 step 1).
const SubsystemCoordinator = "coordinator"

// Partitioned provides deterministic, isolated RNG instances per
// subsystem name. Not safe for concurrent use (the cluster simulator
// processes queries sequentially, per spec.md §5).
type Partitioned struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// New creates a Partitioned RNG source from a SimulationKey.
func New(key SimulationKey) *Partitioned {
	return &Partitioned{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded *rand.Rand for the named
// subsystem. The same name always returns the same cached instance.
func (p *Partitioned) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	r := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = r
	return r
}

// Key returns the SimulationKey this source was created from.
func (p *Partitioned) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
