package tokenizer

import "container/heap"

// Encoder applies a MergeTable's rules, in rank order, to text. It holds no
// mutable state, so one Encoder serves any number of concurrent calls.
type Encoder struct {
	table *MergeTable
}

// NewEncoder returns an encoder over the given table.
func NewEncoder(table *MergeTable) *Encoder {
	return &Encoder{table: table}
}

// Encode maps text to token IDs. It is total over valid text: bytes covered
// by no rule stay as their base-alphabet IDs, and empty text yields an empty
// sequence.
func (e *Encoder) Encode(text string) []int {
	return e.encodeBytes(textToBytes(text))
}

// mergeCand is a candidate merge at a position in the working sequence.
// Version counters detect candidates invalidated by earlier merges.
type mergeCand struct {
	rank  int
	pos   int
	left  int
	right int
	verL  int
	verR  int
}

type candHeap []mergeCand

func (h candHeap) Len() int { return len(h) }

func (h candHeap) Less(i, j int) bool {
	// lowest rank first; equal ranks resolve left to right
	return h[i].rank < h[j].rank || (h[i].rank == h[j].rank && h[i].pos < h[j].pos)
}

func (h candHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candHeap) Push(x any) {
	*h = append(*h, x.(mergeCand))
}

func (h *candHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// encodeBytes runs the merge loop over a doubly linked list of token slots,
// driven by a heap of candidate pairs keyed by rule rank. Each merge only
// re-examines the two pairs adjacent to the merged slot, so the whole encode
// is near O(n log n) instead of a quadratic rescan.
func (e *Encoder) encodeBytes(input []byte) []int {
	n := len(input)
	if n == 0 {
		return nil
	}

	tokens := make([]int, n)
	for i, b := range input {
		tokens[i] = int(b)
	}

	prev := make([]int, n)
	next := make([]int, n)
	for i := 0; i < n; i++ {
		prev[i] = i - 1
		next[i] = i + 1
	}
	next[n-1] = -1

	live := make([]int, n)

	h := &candHeap{}
	pushIfMergeable := func(i int) {
		if i == -1 {
			return
		}
		j := next[i]
		if j == -1 {
			return
		}
		if rank, ok := e.table.rank(Pair{tokens[i], tokens[j]}); ok {
			heap.Push(h, mergeCand{
				rank:  rank,
				pos:   i,
				left:  tokens[i],
				right: tokens[j],
				verL:  live[i],
				verR:  live[j],
			})
		}
	}
	for i := 0; i != -1; i = next[i] {
		pushIfMergeable(i)
	}

	for h.Len() > 0 {
		c := heap.Pop(h).(mergeCand)
		i := c.pos
		j := next[i]
		if j == -1 {
			continue
		}
		// stale candidate: one of its slots was merged since the push
		if live[i] != c.verL || live[j] != c.verR {
			continue
		}
		if tokens[i] != c.left || tokens[j] != c.right {
			continue
		}

		rule, ok := e.table.rule(baseVocab + c.rank)
		if !ok {
			continue
		}
		tokens[i] = rule.ID

		nj := next[j]
		next[i] = nj
		if nj != -1 {
			prev[nj] = i
		}
		prev[j], next[j] = -1, -1

		live[i]++
		live[j]++

		pushIfMergeable(prev[i])
		pushIfMergeable(i)
	}

	out := make([]int, 0, n)
	for i := 0; i != -1; i = next[i] {
		out = append(out, tokens[i])
	}
	return out
}
