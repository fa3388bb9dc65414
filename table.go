package tokenizer

import "fmt"

// baseVocab is the number of reserved token IDs, one per raw byte value.
const baseVocab = 256

// Pair is two adjacent token IDs considered for merging.
type Pair struct {
	Left  int
	Right int
}

// Rule is one learned merge: Left followed by Right collapses into ID.
// The rank of a rule is implied by its ID: rank = ID - 256.
type Rule struct {
	Pair
	ID int
}

// MergeTable is the trained model: merge rules ordered by rank, plus lookup
// indexes for encoding and decoding. A table is immutable once built and safe
// to share across any number of concurrent encoders and decoders.
type MergeTable struct {
	rules       []Rule
	ranks       map[Pair]int
	targetVocab int
	description string
}

// newMergeTable validates the rule list and builds the lookup indexes.
// Rules must arrive in rank order with IDs exactly 256, 257, ... and with
// both operands referring to the base alphabet or an earlier rule.
func newMergeTable(rules []Rule, targetVocab int) (*MergeTable, error) {
	ranks := make(map[Pair]int, len(rules))
	for rank, r := range rules {
		if want := baseVocab + rank; r.ID != want {
			return nil, fmt.Errorf("rule %d: output id %d, want %d", rank, r.ID, want)
		}
		if r.Left < 0 || r.Left >= r.ID || r.Right < 0 || r.Right >= r.ID {
			return nil, fmt.Errorf("rule %d: pair (%d,%d) out of range for output %d", rank, r.Left, r.Right, r.ID)
		}
		if prev, ok := ranks[r.Pair]; ok {
			return nil, fmt.Errorf("rule %d: pair (%d,%d) already merged at rank %d", rank, r.Left, r.Right, prev)
		}
		ranks[r.Pair] = rank
	}
	return &MergeTable{
		rules:       rules,
		ranks:       ranks,
		targetVocab: targetVocab,
	}, nil
}

// NumMerges returns the number of learned rules.
func (t *MergeTable) NumMerges() int {
	return len(t.rules)
}

// VocabSize returns the achieved vocabulary size: 256 base bytes plus one
// token per rule.
func (t *MergeTable) VocabSize() int {
	return baseVocab + len(t.rules)
}

// TargetVocabSize returns the vocabulary size requested at training time,
// which may exceed VocabSize if the corpus ran out of repeatable pairs.
func (t *MergeTable) TargetVocabSize() int {
	return t.targetVocab
}

// Description returns the provenance note stored with a loaded model.
func (t *MergeTable) Description() string {
	return t.description
}

// Rules returns the merge rules in rank order. The returned slice is shared;
// callers must not modify it.
func (t *MergeTable) Rules() []Rule {
	return t.rules
}

func (t *MergeTable) rank(p Pair) (int, bool) {
	r, ok := t.ranks[p]
	return r, ok
}

func (t *MergeTable) rule(id int) (Rule, bool) {
	if id < baseVocab || id >= baseVocab+len(t.rules) {
		return Rule{}, false
	}
	return t.rules[id-baseVocab], true
}

// TokenBytes expands a single token ID to the byte sequence it represents.
// Expansion walks the rule tree with an explicit stack so adversarial
// high-rank IDs cannot exhaust goroutine stack space.
func (t *MergeTable) TokenBytes(id int) ([]byte, error) {
	if id < 0 || id >= t.VocabSize() {
		return nil, fmt.Errorf("%w: %d (vocabulary size %d)", ErrUnknownToken, id, t.VocabSize())
	}
	if id < baseVocab {
		return []byte{byte(id)}, nil
	}
	out := make([]byte, 0, 8)
	stack := []int{id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < baseVocab {
			out = append(out, byte(id))
			continue
		}
		r := t.rules[id-baseVocab]
		// right first so the left operand expands first
		stack = append(stack, r.Right, r.Left)
	}
	return out, nil
}

// Vocab returns the byte sequence for every token ID, indexed by ID.
// Each entry is built from the expansion of its rule's operands, which is
// well defined because operands always precede their output.
func (t *MergeTable) Vocab() [][]byte {
	vocab := make([][]byte, t.VocabSize())
	for i := 0; i < baseVocab; i++ {
		vocab[i] = []byte{byte(i)}
	}
	for _, r := range t.rules {
		seq := make([]byte, 0, len(vocab[r.Left])+len(vocab[r.Right]))
		seq = append(seq, vocab[r.Left]...)
		seq = append(seq, vocab[r.Right]...)
		vocab[r.ID] = seq
	}
	return vocab
}
