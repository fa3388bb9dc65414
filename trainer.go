package tokenizer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/lwch/logging"
	"golang.org/x/sync/errgroup"
)

// TrainProgress describes one completed training round.
type TrainProgress struct {
	Round     int  // 0-based, equals the rank of the rule just learned
	Rule      Rule // the rule learned this round
	Frequency int  // occurrences of the merged pair across the corpus
	Tokens    int  // tokens remaining across all documents after the merge
}

// TrainStats summarizes a finished training run.
type TrainStats struct {
	Rounds    int
	Bytes     int  // corpus size in bytes
	Tokens    int  // tokens remaining after the final round
	Exhausted bool // stopped early: no adjacent pair occurred at least twice
}

// ProgressFunc observes training rounds. It is called from the training
// goroutine after each learned rule.
type ProgressFunc func(TrainProgress)

// Trainer learns a MergeTable from a corpus by iterative frequency-based pair
// merging. Merges never span document boundaries.
type Trainer struct {
	// Progress, if set, is invoked once per learned rule.
	Progress ProgressFunc
}

// NewTrainer returns a trainer with no progress hook.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// Train learns merge rules from docs until the vocabulary reaches targetVocab
// or no adjacent pair occurs at least twice. Early termination is reported via
// TrainStats.Exhausted, not as an error. The context is checked between rounds
// and inside the sharded pair count, so a caller may abandon a long run.
func (tr *Trainer) Train(ctx context.Context, docs [][]byte, targetVocab int) (*MergeTable, TrainStats, error) {
	var stats TrainStats
	if targetVocab <= baseVocab {
		return nil, stats, fmt.Errorf("%w: target %d must exceed the %d base byte tokens", ErrVocabularyUnreachable, targetVocab, baseVocab)
	}

	var seqs [][]int
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		seq := make([]int, len(doc))
		for i, b := range doc {
			seq[i] = int(b)
		}
		seqs = append(seqs, seq)
		stats.Bytes += len(doc)
	}
	if len(seqs) == 0 {
		return nil, stats, fmt.Errorf("%w: %d documents, none with content", ErrEmptyCorpus, len(docs))
	}
	stats.Tokens = stats.Bytes
	logging.Info("training on %d documents, %s", len(seqs), humanize.Bytes(uint64(stats.Bytes)))

	numMerges := targetVocab - baseVocab
	rules := make([]Rule, 0, numMerges)
	for len(rules) < numMerges {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		counts, err := countPairs(ctx, seqs)
		if err != nil {
			return nil, stats, err
		}
		best, freq := bestPair(counts)
		if freq < 2 {
			stats.Exhausted = true
			logging.Info("round %d: no pair left with frequency >= 2, stopping at %d merges",
				len(rules), len(rules))
			break
		}

		rule := Rule{Pair: best, ID: baseVocab + len(rules)}
		rules = append(rules, rule)
		parallelEach(seqs, func(i int) {
			seqs[i] = mergePair(seqs[i], best, rule.ID)
		})

		stats.Tokens = 0
		for _, seq := range seqs {
			stats.Tokens += len(seq)
		}
		logging.Info("round %d: merge (%d,%d) -> %d, frequency %s, %s tokens left",
			rule.ID-baseVocab, best.Left, best.Right, rule.ID,
			humanize.Comma(int64(freq)), humanize.Comma(int64(stats.Tokens)))

		if tr.Progress != nil {
			tr.Progress(TrainProgress{
				Round:     rule.ID - baseVocab,
				Rule:      rule,
				Frequency: freq,
				Tokens:    stats.Tokens,
			})
		}
	}
	stats.Rounds = len(rules)

	table, err := newMergeTable(rules, targetVocab)
	if err != nil {
		return nil, stats, err
	}
	return table, stats, nil
}

// countPairs counts adjacent pair frequencies over all working sequences.
// Counting is sharded per document and reduced with a commutative sum, so the
// result is independent of shard completion order.
func countPairs(ctx context.Context, seqs [][]int) (map[Pair]int, error) {
	shards := make([]map[Pair]int, len(seqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, seq := range seqs {
		i, seq := i, seq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mp := make(map[Pair]int)
			countAdjacent(mp, seq)
			shards[i] = mp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := make(map[Pair]int)
	for _, mp := range shards {
		for p, n := range mp {
			total[p] += n
		}
	}
	return total, nil
}

// countAdjacent counts the pair occurrences a single merge pass could actually
// replace. In a run of the same token, only every other position can merge
// (each replacement consumes both operands), so the overlapping occurrence is
// skipped rather than counted.
func countAdjacent(counts map[Pair]int, ids []int) {
	for i := 0; i+1 < len(ids); i++ {
		counts[Pair{ids[i], ids[i+1]}]++
		if ids[i] == ids[i+1] && i+2 < len(ids) && ids[i+2] == ids[i] {
			i++
		}
	}
}

// bestPair picks the most frequent pair. Ties break toward the numerically
// smallest (Left, Right) so training is reproducible regardless of map
// iteration order.
func bestPair(counts map[Pair]int) (Pair, int) {
	var best Pair
	bestFreq := 0
	for p, n := range counts {
		switch {
		case n > bestFreq:
			best, bestFreq = p, n
		case n == bestFreq:
			if p.Left < best.Left || (p.Left == best.Left && p.Right < best.Right) {
				best = p
			}
		}
	}
	return best, bestFreq
}

// mergePair rewrites ids, replacing every non-overlapping left-to-right
// occurrence of p with id. The rewrite reuses the input's backing array.
func mergePair(ids []int, p Pair, id int) []int {
	out := ids[:0]
	for i := 0; i < len(ids); {
		if i+1 < len(ids) && ids[i] == p.Left && ids[i+1] == p.Right {
			out = append(out, id)
			i += 2
		} else {
			out = append(out, ids[i])
			i++
		}
	}
	return out
}
