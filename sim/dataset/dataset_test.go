package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFeatureStreams_RaggedColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "streams.csv", "t0,t1\n1,10\n2,\n3,30\n")

	names, streams, err := ReadFeatureStreams(path)
	require.NoError(t, err)
	require.Equal(t, []string{"t0", "t1"}, names)
	require.Equal(t, []uint32{1, 2, 3}, streams[0])
	require.Equal(t, []uint32{10, 30}, streams[1])
}

func TestReadFeatureStreams_InvalidKey_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bad.csv", "t0\nabc\n")

	_, _, err := ReadFeatureStreams(path)
	require.Error(t, err)
}

func TestReadClusterTrace_FixedWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "trace.csv", "t0,t1,t2\n0,1,2\n3,4,5\n")

	names, queries, err := ReadClusterTrace(path)
	require.NoError(t, err)
	require.Equal(t, []string{"t0", "t1", "t2"}, names)
	require.Equal(t, [][]uint32{{0, 1, 2}, {3, 4, 5}}, queries)
}

func TestReadClusterTrace_RaggedRow_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "ragged.csv", "t0,t1\n0,1\n2\n")

	_, _, err := ReadClusterTrace(path)
	require.Error(t, err)
}

func TestReadLookupTable_OneLinePerTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "tables.txt", "0:0,1:1,2:0\n5:1\n")

	tables, err := ReadLookupTable(path)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Equal(t, 0, tables[0][0])
	require.Equal(t, 1, tables[0][1])
	require.Equal(t, 1, tables[1][5])
}

func TestReadLookupTable_MalformedEntry_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "bad.txt", "0-0,1:1\n")

	_, err := ReadLookupTable(path)
	require.Error(t, err)
}

func TestWriteLookupTable_RoundTripsThroughReadLookupTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.txt")

	tables := [][]LookupEntry{
		{{Key: 0, Proc: 0}, {Key: 1, Proc: 1}, {Key: 2, Proc: 0}},
		{{Key: 5, Proc: 1}},
	}
	require.NoError(t, WriteLookupTable(path, tables))

	read, err := ReadLookupTable(path)
	require.NoError(t, err)
	require.Len(t, read, 2)
	require.Equal(t, 0, read[0][0])
	require.Equal(t, 1, read[0][1])
	require.Equal(t, 0, read[0][2])
	require.Equal(t, 1, read[1][5])
}

func TestReadCardinalities_SingleRow(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "card.csv", "100,200,300\n")

	card, err := ReadCardinalities(path)
	require.NoError(t, err)
	require.Equal(t, []uint32{100, 200, 300}, card)
}

func TestReadFeatureStreams_MissingFile_ReturnsError(t *testing.T) {
	_, _, err := ReadFeatureStreams(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
