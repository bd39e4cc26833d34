package match

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/normalize"
)

// TrigramStrategy pushes the scoring formula into Postgres as a single
// set-based query, using pg_trgm similarity() for the near-match tiers. It
// exists purely for throughput on dense postcodes; weights and thresholds
// are the same constants the scalar path uses.
type TrigramStrategy struct {
	db *sql.DB
}

// NewTrigramStrategy creates the set-based strategy over a pg_trgm-enabled
// database handle.
func NewTrigramStrategy(db *sql.DB) *TrigramStrategy {
	return &TrigramStrategy{db: db}
}

// trigramQuery mirrors the scalar pipeline: candidate fetch by compact
// postcode (newest 500), SQL-side normalization, signal flags, weighted sum
// clamped to [0,100], threshold filter, order, limit.
//
// Params: $1 compact postcode, $2 PAON, $3 sub-unit, $4 target unit id,
// $5 street, $6 locality, $7 whole-address form, $8 result limit.
const trigramQuery = `
WITH candidate AS (
	SELECT lmk_key, address, postcode, lodgement_date::text AS lodgement_date,
	       COALESCE(current_energy_rating, '') AS current_energy_rating,
	       COALESCE(property_type, '') AS property_type,
	       COALESCE(total_floor_area, 0) AS total_floor_area,
	       COALESCE(local_authority_label, '') AS local_authority_label
	FROM epc_certificate
	WHERE replace(upper(postcode), ' ', '') = $1
	ORDER BY lodgement_date DESC
	LIMIT 500
),
parsed AS (
	SELECT c.*,
	       trim(regexp_replace(regexp_replace(
	           regexp_replace(regexp_replace(regexp_replace(regexp_replace(
	           regexp_replace(regexp_replace(regexp_replace(regexp_replace(
	           regexp_replace(upper(c.address),
	               '\mROAD\M', 'RD', 'g'), '\mSTREET\M', 'ST', 'g'),
	               '\mAVENUE\M', 'AVE', 'g'), '\mLANE\M', 'LN', 'g'),
	               '\mDRIVE\M', 'DR', 'g'), '\mCOURT\M', 'CT', 'g'),
	               '\mPLACE\M', 'PL', 'g'), '\mSQUARE\M', 'SQ', 'g'),
	               '\mCRESCENT\M', 'CRES', 'g'),
	           '[^A-Z0-9 ]', ' ', 'g'), ' +', ' ', 'g')) AS norm_addr
	FROM candidate c
),
shaped AS (
	SELECT p.*,
	       trim(regexp_replace(regexp_replace(regexp_replace(p.norm_addr,
	           '\m(FLAT|APARTMENT|APT|UNIT|STUDIO|ROOM|MAISONETTE)\M', ' ', 'g'),
	           '\m[0-9]+[A-Z]?\M', ' ', 'g'), ' +', ' ', 'g')) AS norm_street,
	       COALESCE(
	           substring(p.norm_addr from '\m(?:FLAT|APARTMENT|APT|UNIT|STUDIO|ROOM|MAISONETTE) ([0-9A-Z]+)'),
	           substring(p.norm_addr from '\m([0-9]+[A-Z]?)\M'),
	           '') AS cand_unit
	FROM parsed p
),
feature AS (
	SELECT s.*,
	       ($2 <> '' AND s.norm_addr ~ ('\m' || $2 || '\M'))                        AS house_exact,
	       ($2 <> '' AND similarity($2, s.norm_addr) >= 0.85)                       AS house_near,
	       ($4 <> '' AND s.cand_unit <> '')                                         AS unit_cmp,
	       ($4 <> '' AND s.cand_unit = $4)                                          AS unit_match,
	       ($3 <> '' AND s.norm_addr ~ ('\m' || $3 || '\M'))                        AS unit_literal,
	       ($5 <> '' AND s.norm_street ~ ('\m' || $5 || '\M'))                      AS street_exact,
	       CASE WHEN $5 <> '' THEN similarity($5, s.norm_street) ELSE 0 END         AS street_sim,
	       ($6 <> '' AND s.norm_addr ~ ('\m' || $6 || '\M'))                        AS loc_exact,
	       CASE WHEN $6 <> '' THEN similarity($6, s.norm_addr) ELSE 0 END           AS loc_sim,
	       ($7 <> '' AND (s.norm_addr = $7
	                      OR s.norm_addr LIKE $7 || ' %'
	                      OR $7 LIKE s.norm_addr || ' %'))                          AS full_equiv
	FROM shaped s
),
scored AS (
	SELECT f.*,
	       LEAST(100, GREATEST(0,
	           CASE WHEN f.house_exact THEN 50
	                WHEN f.house_near THEN 30 ELSE 0 END
	         + CASE WHEN f.unit_cmp THEN
	                    CASE WHEN f.unit_match THEN 20 ELSE -25 END
	                WHEN f.unit_literal THEN 20 ELSE 0 END
	         + CASE WHEN f.loc_exact THEN 18
	                WHEN f.loc_sim >= 0.85 THEN 12
	                WHEN f.loc_sim >= 0.75 THEN 6 ELSE 0 END
	         + CASE WHEN f.street_exact THEN 25
	                WHEN f.street_sim >= 0.90 THEN 20
	                WHEN f.street_sim >= 0.80 THEN 15
	                WHEN f.street_sim >= 0.70 THEN 8 ELSE 0 END
	         + CASE WHEN (f.house_exact OR f.house_near)
	                 AND (f.unit_match OR (NOT f.unit_cmp AND f.unit_literal)
	                      OR f.street_exact OR f.street_sim >= 0.70)
	                THEN 10 ELSE 0 END
	         + CASE WHEN (f.house_exact OR f.house_near)
	                 AND (f.loc_exact OR f.loc_sim >= 0.75)
	                 AND NOT (f.street_exact OR f.street_sim >= 0.70)
	                THEN 8 ELSE 0 END
	         + CASE WHEN f.full_equiv THEN 15 ELSE 0 END
	       ))::float AS score
	FROM feature f
)
SELECT lmk_key, address, postcode, lodgement_date,
       current_energy_rating, property_type, total_floor_area,
       local_authority_label, score
FROM scored
WHERE score >= 50
ORDER BY score DESC, lodgement_date DESC
LIMIT $8
`

// Find executes the set-based query and scans ranked results.
func (s *TrigramStrategy) Find(ctx context.Context, q Query) ([]Result, error) {
	t := newTarget(q)

	rows, err := s.db.QueryContext(ctx, trigramQuery,
		normalize.Postcode(q.Postcode),
		t.paon, t.subUnit, t.unitID, t.street, t.locality, t.full,
		q.ResultLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: trigram query: %v", epc.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		err := rows.Scan(
			&r.Certificate.ID, &r.Certificate.Address, &r.Certificate.Postcode,
			&r.Certificate.LodgementDate, &r.Certificate.Rating,
			&r.Certificate.PropertyType, &r.Certificate.FloorArea,
			&r.Certificate.Authority, &r.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan match: %v", epc.ErrStorageUnavailable, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate matches: %v", epc.ErrStorageUnavailable, err)
	}

	return results, nil
}
