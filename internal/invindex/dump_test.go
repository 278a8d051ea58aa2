package invindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpListsTermsAndDocs(t *testing.T) {
	builder := NewBuilder()
	builder.entries["apple"] = &Entry{Freq: 3, Docs: []uint32{0, 2}}
	builder.entries["zebra"] = &Entry{Freq: 1, Docs: []uint32{1}}

	var index bytes.Buffer
	require.NoError(t, builder.Serialize(&index))

	var out bytes.Buffer
	require.NoError(t, Dump(&out, &index))

	assert.Equal(t, "apple: 0 2\nzebra: 1\n", out.String())
}

func TestDumpEmptyIndex(t *testing.T) {
	var index bytes.Buffer
	require.NoError(t, NewBuilder().Serialize(&index))

	var out bytes.Buffer
	require.NoError(t, Dump(&out, &index))
	assert.Empty(t, out.String())
}

func TestDumpTruncatedIndexErrors(t *testing.T) {
	builder := NewBuilder()
	builder.entries["apple"] = &Entry{Freq: 1, Docs: []uint32{0}}

	var index bytes.Buffer
	require.NoError(t, builder.Serialize(&index))

	truncated := bytes.NewReader(index.Bytes()[:index.Len()-2])
	var out bytes.Buffer
	assert.Error(t, Dump(&out, truncated))
}
