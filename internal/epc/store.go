package epc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/epc-match/internal/normalize"
)

// ErrStorageUnavailable wraps any certificate store read failure. Callers
// decide retry policy; the store never retries internally.
var ErrStorageUnavailable = errors.New("certificate store unavailable")

// Store provides read-only access to the certificate table.
type Store struct {
	db *sql.DB
}

// NewStore creates a certificate store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for strategies that push work into SQL.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CertificatesByPostcode returns up to limit certificates for a postcode,
// newest lodgement first. The postcode is compared on its compact
// uppercase form so caller formatting does not matter.
func (s *Store) CertificatesByPostcode(ctx context.Context, postcode string, limit int) ([]Certificate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lmk_key, address, postcode, lodgement_date::text,
		       COALESCE(current_energy_rating, ''), COALESCE(property_type, ''),
		       COALESCE(total_floor_area, 0), COALESCE(local_authority_label, '')
		FROM epc_certificate
		WHERE replace(upper(postcode), ' ', '') = $1
		ORDER BY lodgement_date DESC
		LIMIT $2
	`, normalize.Postcode(postcode), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query by postcode: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var certs []Certificate
	for rows.Next() {
		var c Certificate
		err := rows.Scan(
			&c.ID, &c.Address, &c.Postcode, &c.LodgementDate,
			&c.Rating, &c.PropertyType, &c.FloorArea, &c.Authority,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan certificate: %v", ErrStorageUnavailable, err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate certificates: %v", ErrStorageUnavailable, err)
	}

	return certs, nil
}
