package tokenizer

import (
	"fmt"
	"unicode/utf8"
)

// textToBytes converts text to its UTF-8 byte representation. Go strings are
// byte strings already, so this is total and never fails.
func textToBytes(text string) []byte {
	return []byte(text)
}

// bytesToText converts a byte sequence back to text. Token sequences picked by
// an adversarial caller can expand to bytes that split a codepoint, so the
// result is validated rather than trusted.
func bytesToText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %d bytes do not decode to text", ErrInvalidEncoding, len(data))
	}
	return string(data), nil
}
