package tokenizer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/lwch/logging"
)

// ReadCorpusFiles reads each file as one training document. Documents are the
// unit of isolation during training: merges never span file boundaries.
func ReadCorpusFiles(files []string) ([][]byte, error) {
	docs := make([][]byte, 0, len(files))
	var total int
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", file, err)
		}
		docs = append(docs, data)
		total += len(data)
	}
	logging.Info("%d documents read, %s", len(docs), humanize.Bytes(uint64(total)))
	return docs, nil
}

// ReadDocuments drains each reader into its own document, in parallel.
func ReadDocuments(readers []io.Reader) ([][]byte, error) {
	docs := make([][]byte, len(readers))
	errs := make([]error, len(readers))
	var wg sync.WaitGroup
	wg.Add(len(readers))
	for i, r := range readers {
		go func(i int, r io.Reader) {
			defer wg.Done()
			data, err := io.ReadAll(r)
			if err != nil {
				logging.Error("read document %d: %v", i, err)
				errs[i] = fmt.Errorf("read document %d: %w", i, err)
				return
			}
			docs[i] = data
		}(i, r)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// DocumentsFromStrings converts in-memory texts to training documents.
func DocumentsFromStrings(texts []string) [][]byte {
	docs := make([][]byte, len(texts))
	for i, text := range texts {
		docs[i] = textToBytes(text)
	}
	return docs
}
