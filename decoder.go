package tokenizer

import (
	"fmt"
	"strconv"
	"strings"
)

// Decoder inverts token-ID sequences back to text via the table's rule
// expansions. Like Encoder it is stateless and safe for concurrent use.
type Decoder struct {
	table *MergeTable
}

// NewDecoder returns a decoder over the given table.
func NewDecoder(table *MergeTable) *Decoder {
	return &Decoder{table: table}
}

// Decode expands token IDs to bytes and converts them back to text.
// It fails with ErrUnknownToken for IDs outside the table and with
// ErrInvalidEncoding when the reconstructed bytes are not valid UTF-8,
// which adversarial token sequences can legally produce.
func (d *Decoder) Decode(ids []int) (string, error) {
	data, err := d.DecodeBytes(ids)
	if err != nil {
		return "", err
	}
	return bytesToText(data)
}

// DecodeBytes expands token IDs to the raw byte sequence they represent,
// without requiring the result to be valid text.
func (d *Decoder) DecodeBytes(ids []int) ([]byte, error) {
	out := make([]byte, 0, len(ids))
	for i, id := range ids {
		seq, err := d.table.TokenBytes(id)
		if err != nil {
			return nil, fmt.Errorf("token %d of %d: %w", i, len(ids), err)
		}
		out = append(out, seq...)
	}
	return out, nil
}

// ParseTokenList parses a user-supplied comma separated token-ID list, e.g.
// "256, 257, 300". Empty entries are skipped; anything non-integer fails with
// ErrMalformedTokenList naming the offending entry.
func ParseTokenList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformedTokenList, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DecodeTokenList decodes a comma separated token-ID string, the form the
// demo surface hands through from user input.
func (d *Decoder) DecodeTokenList(s string) (string, error) {
	ids, err := ParseTokenList(s)
	if err != nil {
		return "", err
	}
	return d.Decode(ids)
}
