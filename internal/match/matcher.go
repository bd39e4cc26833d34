package match

import (
	"context"
	"log"
	"sync"

	"github.com/epc-match/internal/epc"
)

// Strategy is one execution path for a match query. Both implementations
// share accept/reject semantics; the matcher picks whichever the storage
// engine supports.
type Strategy interface {
	Find(ctx context.Context, q Query) ([]Result, error)
}

// Matcher selects a strategy per process and runs queries through it. It is
// stateless apart from the memoized capability probe, so a single instance
// serves concurrent callers.
type Matcher struct {
	scalar  Strategy
	trigram Strategy

	probe     func(ctx context.Context) error
	probeOnce sync.Once
	trigramOK bool
}

// NewMatcher wires both strategies over the certificate store. The pg_trgm
// probe runs lazily on first Find and its verdict is cached for the life of
// the process.
func NewMatcher(store *epc.Store) *Matcher {
	db := store.DB()
	return &Matcher{
		scalar:  NewScalarStrategy(store),
		trigram: NewTrigramStrategy(db),
		probe: func(ctx context.Context) error {
			var sim float64
			return db.QueryRowContext(ctx, `SELECT similarity('probe', 'probe')`).Scan(&sim)
		},
	}
}

// NewMatcherWithStrategies builds a matcher from explicit parts, used by
// tests to pin the strategy choice.
func NewMatcherWithStrategies(scalar, trigram Strategy, probe func(ctx context.Context) error) *Matcher {
	return &Matcher{scalar: scalar, trigram: trigram, probe: probe}
}

// Find returns ranked matches for the query. Empty results are a valid
// outcome, not an error.
func (m *Matcher) Find(ctx context.Context, q Query) ([]Result, error) {
	if m.trigramAvailable() {
		return m.trigram.Find(ctx, q)
	}
	return m.scalar.Find(ctx, q)
}

// trigramAvailable probes for pg_trgm at most once. A probe failure of any
// kind means "capability absent" and is never surfaced to the caller. The
// probe runs under its own context: the verdict outlives any one request, so
// a cancelled or short-deadline first caller must not decide it.
func (m *Matcher) trigramAvailable() bool {
	m.probeOnce.Do(func() {
		if err := m.probe(context.Background()); err != nil {
			log.Printf("pg_trgm unavailable, using scalar matching: %v", err)
			m.trigramOK = false
			return
		}
		m.trigramOK = true
	})
	return m.trigramOK
}
