package match

import (
	"strings"

	"github.com/epc-match/internal/normalize"
	"github.com/epc-match/internal/similarity"
)

// Signal weights. These were tuned empirically against live EPC register
// data; both strategies must reproduce them exactly.
const (
	scoreHouseExact = 50
	scoreHouseNear  = 30

	scoreUnitMatch    = 20
	scoreUnitConflict = -25
	scoreUnitLiteral  = 20

	scoreLocalityExact = 18
	scoreLocalityNear  = 12
	scoreLocalityWeak  = 6

	scoreStreetExact = 25
	scoreStreetNear  = 20
	scoreStreetGood  = 15
	scoreStreetWeak  = 8

	comboHouseStreet   = 10
	comboHouseLocality = 8

	scoreFullAddress = 15

	houseNearThreshold    = 0.85
	localityNearThreshold = 0.85
	localityWeakThreshold = 0.75
	streetNearThreshold   = 0.90
	streetGoodThreshold   = 0.80
	streetWeakThreshold   = 0.70

	// MatchThreshold is the minimum score for a candidate to be returned.
	MatchThreshold = 50

	maxScore = 100
)

// scoreCandidate applies the weighted formula to one candidate. candNorm is
// the candidate's canonical address, candStreet its street-only form. Clamp
// to [0, 100] happens after summing, so the sub-unit penalty can cancel
// other signals but never drive the total negative.
func scoreCandidate(t target, candNorm, candStreet string) float64 {
	var score float64
	var houseHit, unitHit, streetHit, localityHit bool

	// House identifier (PAON)
	if t.paon != "" {
		if normalize.ContainsToken(candNorm, t.paon) {
			score += scoreHouseExact
			houseHit = true
		} else if windowMax(similarity.LevenshteinRatio, t.paon, candNorm) >= houseNearThreshold {
			score += scoreHouseNear
			houseHit = true
		}
	}

	// Sub-unit (SAON)
	candUnit := normalize.UnitID(candNorm)
	switch {
	case t.unitID != "" && candUnit != "":
		if t.unitID == candUnit {
			score += scoreUnitMatch
			unitHit = true
		} else {
			score += scoreUnitConflict
		}
	case t.subUnit != "" && normalize.ContainsToken(candNorm, t.subUnit):
		score += scoreUnitLiteral
		unitHit = true
	}

	// Locality
	if t.locality != "" {
		if normalize.ContainsToken(candNorm, t.locality) {
			score += scoreLocalityExact
			localityHit = true
		} else {
			switch sim := windowMax(similarity.Text, t.locality, candNorm); {
			case sim >= localityNearThreshold:
				score += scoreLocalityNear
				localityHit = true
			case sim >= localityWeakThreshold:
				score += scoreLocalityWeak
				localityHit = true
			}
		}
	}

	// Street, compared against the street-only candidate form
	if t.street != "" {
		if normalize.ContainsToken(candStreet, t.street) {
			score += scoreStreetExact
			streetHit = true
		} else {
			switch sim := similarity.Text(t.street, candStreet); {
			case sim >= streetNearThreshold:
				score += scoreStreetNear
				streetHit = true
			case sim >= streetGoodThreshold:
				score += scoreStreetGood
				streetHit = true
			case sim >= streetWeakThreshold:
				score += scoreStreetWeak
				streetHit = true
			}
		}
	}

	// Combination bonuses
	if houseHit && (unitHit || streetHit) {
		score += comboHouseStreet
	}
	if houseHit && localityHit && !streetHit {
		score += comboHouseLocality
	}

	// Whole-address equivalence: identical, or one a prefix of the other at
	// a space boundary
	if t.full != "" {
		if candNorm == t.full ||
			strings.HasPrefix(candNorm, t.full+" ") ||
			strings.HasPrefix(t.full, candNorm+" ") {
			score += scoreFullAddress
		}
	}

	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// windowMax slides a window of len(words(needle)) tokens across haystack and
// returns the best similarity between needle and any window. This keeps the
// metric meaningful when the needle is one or two tokens inside a much
// longer address line.
func windowMax(sim func(a, b string) float64, needle, haystack string) float64 {
	tokens := strings.Fields(haystack)
	width := len(strings.Fields(needle))
	if width == 0 || len(tokens) < width {
		return 0
	}

	best := 0.0
	for i := 0; i+width <= len(tokens); i++ {
		window := strings.Join(tokens[i:i+width], " ")
		if s := sim(needle, window); s > best {
			best = s
		}
	}
	return best
}
