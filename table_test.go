package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, rules ...Rule) *MergeTable {
	t.Helper()
	table, err := newMergeTable(rules, baseVocab+len(rules))
	require.NoError(t, err)
	return table
}

func TestNewMergeTableValidation(t *testing.T) {
	_, err := newMergeTable([]Rule{{Pair: Pair{97, 98}, ID: 300}}, 300)
	assert.Error(t, err, "output id must equal 256+rank")

	_, err = newMergeTable([]Rule{{Pair: Pair{97, 300}, ID: 256}}, 300)
	assert.Error(t, err, "operand must precede output")

	_, err = newMergeTable([]Rule{
		{Pair: Pair{97, 98}, ID: 256},
		{Pair: Pair{97, 98}, ID: 257},
	}, 300)
	assert.Error(t, err, "duplicate pair")

	table, err := newMergeTable([]Rule{
		{Pair: Pair{97, 98}, ID: 256},
		{Pair: Pair{256, 99}, ID: 257},
	}, 300)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumMerges())
	assert.Equal(t, 258, table.VocabSize())
	assert.Equal(t, 300, table.TargetVocabSize())
}

func TestTokenBytes(t *testing.T) {
	table := mustTable(t,
		Rule{Pair: Pair{97, 98}, ID: 256},
		Rule{Pair: Pair{256, 256}, ID: 257},
		Rule{Pair: Pair{257, 99}, ID: 258},
	)

	for id, want := range map[int]string{
		97:  "a",
		256: "ab",
		257: "abab",
		258: "ababc",
	} {
		got, err := table.TokenBytes(id)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), "token %d", id)
	}

	_, err := table.TokenBytes(259)
	assert.ErrorIs(t, err, ErrUnknownToken)
	_, err = table.TokenBytes(-1)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestVocab(t *testing.T) {
	table := mustTable(t,
		Rule{Pair: Pair{104, 105}, ID: 256},
		Rule{Pair: Pair{256, 33}, ID: 257},
	)
	vocab := table.Vocab()
	require.Len(t, vocab, 258)
	assert.Equal(t, []byte{0}, vocab[0])
	assert.Equal(t, "hi", string(vocab[256]))
	assert.Equal(t, "hi!", string(vocab[257]))
}
