// Package sharding implements the (table, key) → processor mapping the
// cluster simulator consults to resolve embedding lookups: either a
// uniform modulo rule, or a precompiled per-table lookup table loaded from
// disk.
//
// Grounded on original_source/simulations/cached/sharding.hpp's
// LookupProtocol<Sharding::Random|Custom, uint32_t>.
package sharding

import "fmt"

// Protocol maps (table, key) to the processor that owns that row.
type Protocol interface {
	// Lookup returns the processor index in [0, P) that owns key within
	// table.
	Lookup(table int, key uint32) int
	// Name identifies the protocol for reporting (spec.md §6 cluster
	// output's sharding_name field).
	Name() string
}

// ByModulo is the Random sharding variant: lookup(table, key) = key mod P,
// ignoring table.
type ByModulo struct {
	P int
}

// NewByModulo creates a ByModulo protocol over P processors. Panics if
// P <= 0.
func NewByModulo(p int) *ByModulo {
	if p <= 0 {
		panic("sharding: NewByModulo requires P > 0")
	}
	return &ByModulo{P: p}
}

func (b *ByModulo) Lookup(_ int, key uint32) int {
	return int(key) % b.P
}

func (b *ByModulo) Name() string { return "Random" }

// Table is the Custom sharding variant: a precompiled per-table key→
// processor mapping, one map per embedding table (spec.md §6).
type Table struct {
	name   string
	tables []map[uint32]int
}

// NewTable wraps a set of per-table lookup maps (tables[i] for table i)
// under the given name.
func NewTable(name string, tables []map[uint32]int) *Table {
	return &Table{name: name, tables: tables}
}

// Lookup returns the processor for (table, key). It is a contract
// violation to look up a table index out of range, or a key absent from
// that table's map — both indicate a malformed lookup-table file or a
// trace referencing keys the table was never built from (spec.md §6,
// §7 kind 4: programmer/configuration error, not a recoverable miss).
func (t *Table) Lookup(table int, key uint32) int {
	if table < 0 || table >= len(t.tables) {
		panic(fmt.Sprintf("sharding: table index %d out of range [0,%d)", table, len(t.tables)))
	}
	p, ok := t.tables[table][key]
	if !ok {
		panic(fmt.Sprintf("sharding: key %d absent from lookup table for table %d", key, table))
	}
	return p
}

func (t *Table) Name() string { return t.name }
