package usecase

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform floats in [0, 1). Live vendor performance
// figures are drawn from it, so tests can pin them with a seed.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultRandomSource draws from the process-wide generator
func DefaultRandomSource() RandomSource {
	return globalSource{}
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededRandomSource returns a deterministic source. It is safe for
// concurrent use.
func NewSeededRandomSource(seed uint64) RandomSource {
	return &seededSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
