package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lwch/logging"
)

// modelFile is the persisted MergeTable format. Keys of Merges are
// "<left>,<right>" and values the resulting token ID. Rank is recovered from
// the output ID (rank = id - 256), never from map order, so serialization
// tools that reorder entries cannot corrupt the model.
type modelFile struct {
	Merges      map[string]int `json:"merges"`
	VocabSize   int            `json:"vocab_size"`
	NumMerges   int            `json:"num_merges"`
	Description string         `json:"description"`
}

// Save writes the table to path in the JSON model format. The file is staged
// next to the target and renamed into place, so a failed save never clobbers
// an existing model.
func (t *MergeTable) Save(path, description string) error {
	merges := make(map[string]int, len(t.rules))
	for _, r := range t.rules {
		merges[fmt.Sprintf("%d,%d", r.Left, r.Right)] = r.ID
	}
	data, err := json.MarshalIndent(modelFile{
		Merges:      merges,
		VocabSize:   t.targetVocab,
		NumMerges:   len(t.rules),
		Description: description,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*")
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save model: %w", err)
	}
	logging.Info("saved %d merges to %s", len(t.rules), path)
	return nil
}

// Load reads a persisted MergeTable. It fails with ErrModelNotFound if the
// file is missing and ErrModelCorrupt if the contents fail structural
// validation: unparseable keys, out-of-range operands, or output IDs that are
// not exactly the dense range 256..255+num_merges.
func Load(path string) (*MergeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, path, err)
	}
	if mf.NumMerges != len(mf.Merges) {
		return nil, fmt.Errorf("%w: %s: num_merges is %d but %d merges present",
			ErrModelCorrupt, path, mf.NumMerges, len(mf.Merges))
	}

	rules := make([]Rule, len(mf.Merges))
	seen := make([]bool, len(mf.Merges))
	for key, id := range mf.Merges {
		leftStr, rightStr, ok := strings.Cut(key, ",")
		if !ok {
			return nil, fmt.Errorf("%w: %s: merge key %q is not \"left,right\"", ErrModelCorrupt, path, key)
		}
		left, err := strconv.Atoi(leftStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: merge key %q: %v", ErrModelCorrupt, path, key, err)
		}
		right, err := strconv.Atoi(rightStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: merge key %q: %v", ErrModelCorrupt, path, key, err)
		}
		rank := id - baseVocab
		if rank < 0 || rank >= len(rules) {
			return nil, fmt.Errorf("%w: %s: merge %q: output id %d outside 256..%d",
				ErrModelCorrupt, path, key, id, baseVocab+len(rules)-1)
		}
		if seen[rank] {
			return nil, fmt.Errorf("%w: %s: duplicate output id %d", ErrModelCorrupt, path, id)
		}
		seen[rank] = true
		rules[rank] = Rule{Pair: Pair{Left: left, Right: right}, ID: id}
	}

	target := mf.VocabSize
	if target < baseVocab+len(rules) {
		target = baseVocab + len(rules)
	}
	table, err := newMergeTable(rules, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelCorrupt, path, err)
	}
	table.description = mf.Description
	logging.Info("loaded %d merges from %s", len(rules), path)
	return table, nil
}
