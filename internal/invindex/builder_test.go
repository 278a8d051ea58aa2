package invindex

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/devancy/adsidx/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestBuilderS1Corpus is spec scenario S1: two files, no stop filter.
func TestBuilderS1Corpus(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.html", "<b>Hello</b> world hello")
	b := writeFixture(t, dir, "b.html", "World of HELLO")

	builder := NewBuilder()
	require.NoError(t, builder.AddFile(a, 0, nil))
	require.NoError(t, builder.AddFile(b, 1, nil))

	hello := builder.entries["hello"]
	require.NotNil(t, hello)
	assert.Equal(t, uint32(3), hello.Freq)
	assert.Equal(t, []uint32{0, 1}, hello.Docs)

	world := builder.entries["world"]
	require.NotNil(t, world)
	assert.Equal(t, uint32(2), world.Freq)
	assert.Equal(t, []uint32{0, 1}, world.Docs)
}

func TestBuilderDedupesRepeatedDocIDWithinFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.html", "donut donut donut")

	builder := NewBuilder()
	require.NoError(t, builder.AddFile(path, 7, nil))

	entry := builder.entries["donut"]
	require.NotNil(t, entry)
	assert.Equal(t, []uint32{7}, entry.Docs, "a repeated DocId must not be appended twice")
	assert.Equal(t, uint32(3), entry.Freq, "freq counts every occurrence unconditionally")
}

func TestBuilderStopFilterDropsTerms(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.html", "the cat sat on the mat")

	filter := textproc.NewStopFilter("the")
	builder := NewBuilder()
	require.NoError(t, builder.AddFile(path, 0, filter))

	assert.Nil(t, builder.entries["the"])
	assert.Nil(t, builder.entries["on"], "two-letter token rejected by the length rule")
	assert.NotNil(t, builder.entries["cat"])
	assert.NotNil(t, builder.entries["sat"])
	assert.NotNil(t, builder.entries["mat"])
}

func TestBuilderSerializeIsTermSorted(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.html", "zebra apple mango apple zebra")

	builder := NewBuilder()
	require.NoError(t, builder.AddFile(path, 0, nil))

	var buf bytes.Buffer
	require.NoError(t, builder.Serialize(&buf))

	var n uint32
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &n))
	assert.Equal(t, uint32(3), n)

	term1, _, ok, err := ReadEntry(&buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "appl", term1) // snowball stems "apple" -> "appl"

	term2, _, ok, err := ReadEntry(&buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "mango", term2)

	term3, _, ok, err := ReadEntry(&buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "zebra", term3)
}

func TestBuilderClearResetsState(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.html", "donut")

	builder := NewBuilder()
	require.NoError(t, builder.AddFile(path, 0, nil))
	require.NotEmpty(t, builder.entries)

	builder.Clear()
	assert.Empty(t, builder.entries)
}

func TestBuilderAddDirAssignsConsecutiveDocIDs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.html", "alpha")
	writeFixture(t, dir, "b.html", "beta")

	builder := NewBuilder()
	next, files, err := builder.AddDir(dir, 10, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, uint32(12), next)
}

func TestBuilderAddDirSkipsUnreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permission bits")
	}

	dir := t.TempDir()
	good := writeFixture(t, dir, "a.html", "alpha")
	bad := filepath.Join(dir, "b.html")
	require.NoError(t, os.WriteFile(bad, []byte("beta"), 0o644))
	require.NoError(t, os.Chmod(bad, 0o000))
	defer os.Chmod(bad, 0o644)

	var skipped []string
	builder := NewBuilder()
	_, files, err := builder.AddDir(dir, 0, nil, func(path string, err error) {
		skipped = append(skipped, path)
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Len(t, skipped, 1)
	assert.NotNil(t, builder.entries["alpha"])
	_ = good
}
