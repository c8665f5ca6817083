package internal

import (
	"iter"
)

// Chain2 yields every pair of each sequence in turn. Later sequences may
// repeat keys of earlier ones; collecting into a map keeps the last.
func Chain2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}
