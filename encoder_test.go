package tokenizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEmpty(t *testing.T) {
	enc := NewEncoder(mustTable(t, Rule{Pair: Pair{97, 98}, ID: 256}))
	assert.Empty(t, enc.Encode(""))
}

func TestEncodeSingleByteNoMerges(t *testing.T) {
	enc := NewEncoder(mustTable(t))
	assert.Equal(t, []int{97}, enc.Encode("a"))
}

func TestEncodeNoApplicableMerges(t *testing.T) {
	enc := NewEncoder(mustTable(t, Rule{Pair: Pair{120, 121}, ID: 256}))
	assert.Equal(t, []int{104, 101, 108, 108, 111}, enc.Encode("hello"))
}

func TestEncodeAppliesRulesInRankOrder(t *testing.T) {
	// rank 1 only fires after rank 0 has produced its operand
	enc := NewEncoder(mustTable(t,
		Rule{Pair: Pair{98, 99}, ID: 256},
		Rule{Pair: Pair{97, 256}, ID: 257},
	))
	assert.Equal(t, []int{257}, enc.Encode("abc"))
}

func TestEncodeLowerRankWins(t *testing.T) {
	// both (a,b) and (b,c) match "abc"; the earlier-learned rule must win
	enc := NewEncoder(mustTable(t,
		Rule{Pair: Pair{97, 98}, ID: 256},
		Rule{Pair: Pair{98, 99}, ID: 257},
	))
	assert.Equal(t, []int{256, 99}, enc.Encode("abc"))
}

func TestEncodeEqualRankLeftToRight(t *testing.T) {
	enc := NewEncoder(mustTable(t, Rule{Pair: Pair{97, 98}, ID: 256}))
	assert.Equal(t, []int{256, 256}, enc.Encode("abab"))

	// in "aaa" with rule (a,a), the left occurrence consumes the middle token
	enc = NewEncoder(mustTable(t, Rule{Pair: Pair{97, 97}, ID: 256}))
	assert.Equal(t, []int{256, 97}, enc.Encode("aaa"))
}

func TestEncodeChainedMerges(t *testing.T) {
	enc := NewEncoder(mustTable(t,
		Rule{Pair: Pair{97, 98}, ID: 256},
		Rule{Pair: Pair{256, 256}, ID: 257},
	))
	assert.Equal(t, []int{257, 257}, enc.Encode("abababab"))
}

func TestEncodeMatchesTrainerOrder(t *testing.T) {
	// encoding the training corpus itself must reproduce the trainer's final
	// working sequences
	docs := DocumentsFromStrings([]string{"banana bandana", "banana"})
	table, _, err := NewTrainer().Train(context.Background(), docs, 270)
	require.NoError(t, err)

	tok := New(table)
	for _, text := range []string{"banana bandana", "banana", "ban", "a"} {
		ids := tok.Encode(text)
		got, err := tok.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}
