package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxHeats bounds the store. Once full, the oldest heat is evicted on
// each insert. Zero or less keeps every heat.
func WithMaxHeats(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxHeats = n
		}
	}
}
