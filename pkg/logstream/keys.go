package logstream

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record keys are ULIDs minted at the record's timestamp: lexicographically
// sortable by arrival time, with monotonic entropy breaking ties between
// records that share a millisecond.

var (
	keyOnce sync.Once
	keyGen  *keyGenerator
)

type keyGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *keyGenerator) at(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.UTC()), g.entropy).String()
}

// newRecordKey returns a unique key for a record observed at time t.
func newRecordKey(t time.Time) string {
	keyOnce.Do(func() {
		keyGen = &keyGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
	})
	return keyGen.at(t)
}
