// Package match finds the energy certificates most likely to describe a
// target property. Candidates are fetched by exact postcode and ranked by a
// weighted multi-signal score over their free-text address lines. Two
// strategies implement identical scoring semantics: an in-process scalar
// path and a pg_trgm set-based path.
package match

import (
	"strings"

	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/normalize"
)

// DefaultLimit caps returned matches when the caller does not say otherwise.
const DefaultLimit = 5

// Query describes the target property. HouseIdentifier is the PAON (house
// number or name); SubUnit the optional SAON (flat/unit). Empty optional
// fields mean "no signal for this dimension", never an error.
type Query struct {
	Postcode        string `json:"postcode"`
	HouseIdentifier string `json:"house_identifier"`
	SubUnit         string `json:"sub_unit,omitempty"`
	Street          string `json:"street"`
	Locality        string `json:"locality,omitempty"`
	Limit           int    `json:"limit"`
}

// ResultLimit returns the effective result cap.
func (q Query) ResultLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Result pairs a surviving candidate with its score in [0, 100].
type Result struct {
	Certificate epc.Certificate `json:"certificate"`
	Score       float64         `json:"score"`
}

// target holds the query's pre-normalized comparison strings, computed once
// per Find call and shared across candidates.
type target struct {
	paon     string
	subUnit  string
	unitID   string
	street   string
	locality string
	full     string
}

func newTarget(q Query) target {
	t := target{
		paon:     normalize.Address(q.HouseIdentifier),
		subUnit:  normalize.Address(q.SubUnit),
		street:   normalize.Street(q.Street),
		locality: normalize.Address(q.Locality),
	}
	t.unitID = normalize.UnitID(t.subUnit)

	// The whole-address form keeps the street's first-level normalization so
	// house numbers inside the street field survive the comparison.
	var parts []string
	for _, p := range []string{t.paon, t.subUnit, normalize.Address(q.Street), t.locality} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	t.full = strings.Join(parts, " ")

	return t
}
