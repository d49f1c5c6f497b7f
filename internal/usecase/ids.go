package usecase

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// IDGenerator hands out lexically sortable ULIDs. It is safe for
// concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator backed by crypto/rand
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns a fresh ULID string
func (g *IDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}
