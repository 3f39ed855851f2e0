package store

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
)

var (
	// ErrSeedNotProvisioned is returned by Get before the first successful Set.
	ErrSeedNotProvisioned = errors.New("seed not provisioned")
	// ErrInvalidSecretLength is returned when a seed does not have the configured size.
	ErrInvalidSecretLength = errors.New("invalid secret length")
)

type persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, seed []byte) error
}

// Store holds the current seed for the life of the process.
//
// mu guards seed and is only held for the in-memory read or swap. wmu
// serializes writers across the persist step, which may do I/O.
type Store struct {
	mu   sync.RWMutex
	wmu  sync.Mutex
	seed []byte

	size    int
	persist persister
}

// New creates an empty Store accepting seeds of exactly size bytes. A nil
// persister keeps the seed in memory only.
func New(size int, p persister) *Store {
	return &Store{size: size, persist: p}
}

// Size is the required seed length in bytes.
func (s *Store) Size() int {
	return s.size
}

// Set replaces the current seed. The seed is persisted first; readers keep
// seeing the previous value until the swap.
func (s *Store) Set(ctx context.Context, seed []byte) error {
	if len(seed) != s.size {
		return ErrInvalidSecretLength
	}

	cp := bytes.Clone(seed)

	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(ctx, cp); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.seed = cp
	s.mu.Unlock()

	return nil
}

// Get returns a copy of the current seed.
func (s *Store) Get() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.seed == nil {
		return nil, ErrSeedNotProvisioned
	}

	return bytes.Clone(s.seed), nil
}

// Provisioned reports whether a seed is held.
func (s *Store) Provisioned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seed != nil
}

// Restore loads a previously persisted seed. It returns
// ErrSeedNotProvisioned when nothing was persisted and
// ErrInvalidSecretLength when the stored value has the wrong size.
func (s *Store) Restore(ctx context.Context) error {
	if s.persist == nil {
		return ErrSeedNotProvisioned
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	seed, err := s.persist.Load(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return ErrSeedNotProvisioned
	}
	if err != nil {
		return err
	}

	if len(seed) != s.size {
		return ErrInvalidSecretLength
	}

	s.mu.Lock()
	s.seed = seed
	s.mu.Unlock()

	return nil
}
