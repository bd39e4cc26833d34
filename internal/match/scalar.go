package match

import (
	"context"
	"sort"

	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/normalize"
)

// scalarBatchSize caps how many candidates the scalar path pulls into the
// process. Postcodes rarely carry more than a few hundred certificates, so
// this is a safety ceiling rather than pagination.
const scalarBatchSize = 500

// ScalarStrategy scores candidates in-process. It is the universal fallback
// and the reference implementation of the formula.
type ScalarStrategy struct {
	store *epc.Store
}

// NewScalarStrategy creates the in-process strategy.
func NewScalarStrategy(store *epc.Store) *ScalarStrategy {
	return &ScalarStrategy{store: store}
}

// Find fetches the postcode's newest candidates, scores each one, and
// returns those at or above the threshold, best first.
func (s *ScalarStrategy) Find(ctx context.Context, q Query) ([]Result, error) {
	certs, err := s.store.CertificatesByPostcode(ctx, q.Postcode, scalarBatchSize)
	if err != nil {
		return nil, err
	}

	t := newTarget(q)

	var results []Result
	for _, cert := range certs {
		candNorm := normalize.Address(cert.Address)
		candStreet := normalize.Street(cert.Address)

		score := scoreCandidate(t, candNorm, candStreet)
		if score >= MatchThreshold {
			results = append(results, Result{Certificate: cert, Score: score})
		}
	}

	sortResults(results)

	if limit := q.ResultLimit(); len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// sortResults orders by score descending, most recent lodgement breaking
// ties. Lodgement dates are ISO strings so byte order is date order.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Certificate.LodgementDate > results[j].Certificate.LodgementDate
	})
}
