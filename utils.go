package tokenizer

import "sync"

// parallelEach runs fn once per sequence index across goroutines and waits
// for all of them.
func parallelEach(seqs [][]int, fn func(int)) {
	var wg sync.WaitGroup
	wg.Add(len(seqs))
	for i := range seqs {
		go func(i int) {
			defer wg.Done()
			fn(i)
		}(i)
	}
	wg.Wait()
}
