package tokenizer

// Tokenizer bundles a MergeTable with its encoder and decoder. The table is
// injected at construction and never mutated afterwards, so a single
// Tokenizer may be shared across goroutines without locking.
type Tokenizer struct {
	table *MergeTable
	enc   *Encoder
	dec   *Decoder
}

// New wraps a trained or loaded table.
func New(table *MergeTable) *Tokenizer {
	return &Tokenizer{
		table: table,
		enc:   NewEncoder(table),
		dec:   NewDecoder(table),
	}
}

// LoadModel builds a Tokenizer from a persisted model file.
func LoadModel(path string) (*Tokenizer, error) {
	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(table), nil
}

// Table returns the underlying merge table.
func (t *Tokenizer) Table() *MergeTable {
	return t.table
}

// Encode maps text to token IDs.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text)
}

// Decode maps token IDs back to text.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	return t.dec.Decode(ids)
}

// DecodeTokenList decodes a user-supplied comma separated token-ID string.
func (t *Tokenizer) DecodeTokenList(s string) (string, error) {
	return t.dec.DecodeTokenList(s)
}

// EncodeResult is the encode report consumed by presentation layers.
type EncodeResult struct {
	Tokens           []int
	TokenCount       int
	OriginalBytes    int
	CompressionRatio float64
}

// EncodeStats encodes text and reports token count, original byte count and
// the bytes-per-token compression ratio.
func (t *Tokenizer) EncodeStats(text string) EncodeResult {
	tokens := t.enc.Encode(text)
	res := EncodeResult{
		Tokens:        tokens,
		TokenCount:    len(tokens),
		OriginalBytes: len(text),
	}
	if res.TokenCount > 0 {
		res.CompressionRatio = float64(res.OriginalBytes) / float64(res.TokenCount)
	}
	return res
}

// VerifyRoundTrip encodes then decodes text and reports whether the result
// matches the input exactly.
func (t *Tokenizer) VerifyRoundTrip(text string) (bool, error) {
	decoded, err := t.Decode(t.Encode(text))
	if err != nil {
		return false, err
	}
	return decoded == text, nil
}
