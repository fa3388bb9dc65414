package tokenizer

import "errors"

var (
	// ErrEmptyCorpus is returned by training when no document contains any bytes.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrVocabularyUnreachable is returned when the target vocabulary size does
	// not leave room for at least one merge beyond the 256 base byte tokens.
	ErrVocabularyUnreachable = errors.New("vocabulary size unreachable")
	// ErrModelNotFound is returned by Load when the model file does not exist.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelCorrupt is returned by Load when the model file fails structural
	// validation.
	ErrModelCorrupt = errors.New("model corrupt")
	// ErrUnknownToken is returned by decoding when a token ID is neither a base
	// byte nor the output of any merge rule in the table.
	ErrUnknownToken = errors.New("unknown token id")
	// ErrInvalidEncoding is returned when decoded bytes do not form valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid utf-8 sequence")
	// ErrMalformedTokenList is returned when a user-supplied token list cannot
	// be parsed as comma separated integers.
	ErrMalformedTokenList = errors.New("malformed token list")
)
