// Package dataset reads the trace and configuration inputs the simulators
// consume: per-table reference streams for the HRC family, multi-table
// query traces for the cluster family, precompiled sharding lookup tables,
// and table cardinality files.
//
// Grounded on original_source/cache/stack_simulator/dataset.hpp (the CSV
// reference-stream and cardinalities readers) and the teacher project's
// sim/workload/tracev2.go, whose encoding/csv-based row parsing this
// package follows column-by-column rather than scanning strings by hand.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFeatureStreams reads a CSV file of per-table reference streams for
// the HRC simulators (spec.md §4.9). Each column is one table's stream of
// keys, read top to bottom; a header row of table names is required.
//
// Ragged columns are allowed: a table's stream simply ends at the last row
// containing a value in its column. Empty cells are skipped, and the
// column's stream continues with the next non-empty cell.
func ReadFeatureStreams(path string) (tableNames []string, streams [][]uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: opening feature stream file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: reading feature stream header: %w", err)
	}
	tableNames = header
	streams = make([][]uint32, len(header))

	lineNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: reading feature stream row %d: %w", lineNo, err)
		}
		lineNo++
		for col, cell := range row {
			if col >= len(streams) || cell == "" {
				continue
			}
			key, err := strconv.ParseUint(cell, 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("dataset: parsing key %q at row %d col %d: %w", cell, lineNo, col, err)
			}
			streams[col] = append(streams[col], uint32(key))
		}
	}
	return tableNames, streams, nil
}

// ReadClusterTrace reads a CSV file of multi-table cluster queries (spec.md
// §4.9): one row per query, one column per embedding table, all rows
// required to share the same width. A header row of table names is
// required.
func ReadClusterTrace(path string) (tableNames []string, queries [][]uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: opening cluster trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: reading cluster trace header: %w", err)
	}
	tableNames = header
	width := len(header)

	lineNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: reading cluster trace row %d: %w", lineNo, err)
		}
		lineNo++
		if len(row) != width {
			return nil, nil, fmt.Errorf("dataset: cluster trace row %d has %d columns, expected %d", lineNo, len(row), width)
		}
		query := make([]uint32, width)
		for col, cell := range row {
			key, err := strconv.ParseUint(cell, 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("dataset: parsing key %q at row %d col %d: %w", cell, lineNo, col, err)
			}
			query[col] = uint32(key)
		}
		queries = append(queries, query)
	}
	return tableNames, queries, nil
}

// LookupEntry is one (key, processor) assignment within a table's lookup
// file line.
type LookupEntry struct {
	Key  uint32
	Proc int
}

// ReadLookupTable reads a precompiled (table, key) -> processor mapping
// produced by the build-table CLI subcommand: one line per table, each line
// holding comma-separated key:proc entries (spec.md §6). Lines are assigned
// to tables 0, 1, ... D-1 in order.
func ReadLookupTable(path string) ([]map[uint32]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening lookup table file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var tables []map[uint32]int
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		table := make(map[uint32]int)
		if line != "" {
			for _, entry := range strings.Split(line, ",") {
				parts := strings.SplitN(entry, ":", 2)
				if len(parts) != 2 {
					return nil, fmt.Errorf("dataset: lookup table line %d has malformed entry %q, expected key:proc", lineNo, entry)
				}
				key, err := strconv.ParseUint(parts[0], 10, 32)
				if err != nil {
					return nil, fmt.Errorf("dataset: parsing lookup key %q at line %d: %w", parts[0], lineNo, err)
				}
				proc, err := strconv.Atoi(parts[1])
				if err != nil {
					return nil, fmt.Errorf("dataset: parsing lookup processor %q at line %d: %w", parts[1], lineNo, err)
				}
				table[uint32(key)] = proc
			}
		}
		tables = append(tables, table)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: reading lookup table file: %w", err)
	}
	return tables, nil
}

// WriteLookupTable writes a precompiled lookup table in the same format
// ReadLookupTable expects: one line per table, comma-separated key:proc
// entries, in the order given.
func WriteLookupTable(path string, tables [][]LookupEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: creating lookup table file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, table := range tables {
		entries := make([]string, len(table))
		for i, e := range table {
			entries[i] = strconv.FormatUint(uint64(e.Key), 10) + ":" + strconv.Itoa(e.Proc)
		}
		if _, err := w.WriteString(strings.Join(entries, ",") + "\n"); err != nil {
			return fmt.Errorf("dataset: writing lookup table line: %w", err)
		}
	}
	return w.Flush()
}

// ReadCardinalities reads a single-row CSV of per-table cardinalities (one
// column per table),
// used by the build-table subcommand to size a random lookup table without
// scanning an entire trace first (spec.md §4.9, original_source's
// dataset.hpp read_cardinalities).
func ReadCardinalities(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening cardinalities file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading cardinalities row: %w", err)
	}

	out := make([]uint32, len(row))
	for i, cell := range row {
		v, err := strconv.ParseUint(cell, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("dataset: parsing cardinality %q at col %d: %w", cell, i, err)
		}
		out[i] = uint32(v)
	}
	return out, nil
}
