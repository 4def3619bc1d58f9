package repository

import "time"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithIDGenerator overrides how new player and match IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *InMemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the time source, so tests can pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
