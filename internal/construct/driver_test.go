package construct

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/devancy/adsidx/internal/invindex"
	"github.com/devancy/adsidx/internal/layout"
	"github.com/devancy/adsidx/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readIndexEntries(t *testing.T, path string) map[string]invindex.Entry {
	t.Helper()
	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()

	var n uint32
	require.NoError(t, binary.Read(r, binary.LittleEndian, &n))
	out := make(map[string]invindex.Entry, n)
	for i := uint32(0); i < n; i++ {
		term, e, ok, err := invindex.ReadEntry(r)
		require.NoError(t, err)
		require.True(t, ok)
		out[term] = e
	}
	return out
}

// TestGenIndexLargeMatchesS3Corpus is spec scenario S3: five files,
// gen_index_large's merge tree collapsing 0-0..4-4 up to 0-4, leaving
// only index.dat and list.txt behind.
func TestGenIndexLargeMatchesS3Corpus(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeDoc(t, dir, string(rune('a'+i))+".html", "alpha beta gamma")
	}

	require.NoError(t, GenIndexLarge(dir, nil, nil))

	base := filepath.Join(dir, layout.BaseDir)
	entries, err := os.ReadDir(base)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{layout.IndexFileName, layout.ListFileName}, names)

	got := readIndexEntries(t, filepath.Join(base, layout.IndexFileName))
	require.Contains(t, got, "alpha")
	assert.Equal(t, uint32(5), got["alpha"].Freq)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, got["alpha"].Docs)
}

func TestGenIndexAndGenIndexLargeAgree(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.html", "<b>Hello</b> world hello")
	writeDoc(t, dir, "b.html", "World of HELLO")
	writeDoc(t, dir, "c.html", "a brand new sentence about nothing")

	dirA := t.TempDir()
	dirB := t.TempDir()
	for _, d := range []string{dirA, dirB} {
		writeDoc(t, d, "a.html", "<b>Hello</b> world hello")
		writeDoc(t, d, "b.html", "World of HELLO")
		writeDoc(t, d, "c.html", "a brand new sentence about nothing")
	}

	require.NoError(t, GenIndex(dirA, nil, nil))
	require.NoError(t, GenIndexLarge(dirB, nil, nil))

	simple, err := os.ReadFile(filepath.Join(dirA, layout.BaseDir, layout.IndexFileName))
	require.NoError(t, err)
	large, err := os.ReadFile(filepath.Join(dirB, layout.BaseDir, layout.IndexFileName))
	require.NoError(t, err)
	assert.Equal(t, simple, large, "gen_index and gen_index_large must produce byte-identical index.dat")
}

func TestGenIndexWritesStopWordSnapshotWheneverFilterSupplied(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.html", "the cat sat")

	filter := textproc.NewStopFilter("the")
	require.NoError(t, GenIndex(dir, filter, nil))

	_, err := os.Stat(filepath.Join(dir, layout.BaseDir, layout.StopFileName))
	assert.NoError(t, err, "a snapshot must be written in the simple construction path too")
}

func TestGenIndexMissingDir(t *testing.T) {
	err := GenIndex(filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.Error(t, err)
}

func TestGenIndexLargeEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, GenIndexLarge(dir, nil, nil))

	entries := readIndexEntries(t, filepath.Join(dir, layout.BaseDir, layout.IndexFileName))
	assert.Empty(t, entries)
}
