package tokenizer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainTestTokenizer(t *testing.T, texts []string, vocab int) *Tokenizer {
	t.Helper()
	table, _, err := NewTrainer().Train(context.Background(), DocumentsFromStrings(texts), vocab)
	require.NoError(t, err)
	return New(table)
}

func TestRoundTrip(t *testing.T) {
	tok := trainTestTokenizer(t, []string{
		"हम होंगे कामयाब हम होंगे कामयाब एक दिन",
		"मन में है विश्वास पूरा है विश्वास",
		"the quick brown fox jumps over the lazy dog",
	}, 400)

	texts := []string{
		"",
		"a",
		"हम होंगे कामयाब",
		"विश्वास",
		"the quick brown fox",
		"bytes never seen in training: ~!@#$%^&*()",
		"mixed हम and english with a 😀",
	}
	for _, text := range texts {
		ids := tok.Encode(text)
		got, err := tok.Decode(ids)
		require.NoError(t, err, "text %q", text)
		assert.Equal(t, text, got, "text %q", text)
	}
}

func TestRoundTripAllBytes(t *testing.T) {
	tok := trainTestTokenizer(t, []string{"abab"}, 257)
	dec := NewDecoder(tok.Table())
	for b := 0; b < 256; b++ {
		ids := tok.enc.encodeBytes([]byte{byte(b)})
		require.Len(t, ids, 1, "byte 0x%02x", b)
		data, err := dec.DecodeBytes(ids)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(b)}, data, "byte 0x%02x", b)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	tok := trainTestTokenizer(t, []string{"hello hello hello"}, 280)
	ok, err := tok.VerifyRoundTrip("hello world")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEncodeStats(t *testing.T) {
	tok := New(mustTable(t,
		Rule{Pair: Pair{97, 98}, ID: 256},
		Rule{Pair: Pair{256, 256}, ID: 257},
	))

	res := tok.EncodeStats("abababab")
	assert.Equal(t, []int{257, 257}, res.Tokens)
	assert.Equal(t, 2, res.TokenCount)
	assert.Equal(t, 8, res.OriginalBytes)
	assert.InDelta(t, 4.0, res.CompressionRatio, 1e-9)

	res = tok.EncodeStats("")
	assert.Equal(t, 0, res.TokenCount)
	assert.Equal(t, 0, res.OriginalBytes)
	assert.Zero(t, res.CompressionRatio)
}

func TestLoadModelHandle(t *testing.T) {
	tok := trainTestTokenizer(t, []string{"sing a song of sixpence"}, 280)
	path := filepath.Join(t.TempDir(), "merges.json")
	require.NoError(t, tok.Table().Save(path, "nursery rhymes"))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, tok.Encode("sixpence"), loaded.Encode("sixpence"))
	assert.Equal(t, "nursery rhymes", loaded.Table().Description())

	_, err = LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestDecodeTokenListHandle(t *testing.T) {
	tok := New(mustTable(t, Rule{Pair: Pair{104, 105}, ID: 256}))

	text, err := tok.DecodeTokenList("256")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	_, err = tok.DecodeTokenList("one, two")
	assert.ErrorIs(t, err, ErrMalformedTokenList)
}
