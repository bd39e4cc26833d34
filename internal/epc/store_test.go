package epc

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certColumns = []string{
	"lmk_key", "address", "postcode", "lodgement_date",
	"current_energy_rating", "property_type", "total_floor_area",
	"local_authority_label",
}

func TestCertificatesByPostcode(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(certColumns).
		AddRow("cert-1", "10 TEST STREET", "SW1A 2AA", "2024-06-01", "C", "Flat", 55.0, "Westminster").
		AddRow("cert-2", "12 TEST STREET", "SW1A 2AA", "2023-01-09", "E", "House", 88.5, "Westminster")

	// Caller formatting of the postcode must not leak into the query.
	mock.ExpectQuery(`FROM epc_certificate`).
		WithArgs("SW1A2AA", 500).
		WillReturnRows(rows)

	store := NewStore(db)
	certs, err := store.CertificatesByPostcode(context.Background(), " sw1a 2aa ", 500)

	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "cert-1", certs[0].ID)
	assert.Equal(t, "2024-06-01", certs[0].LodgementDate)
	assert.Equal(t, 88.5, certs[1].FloorArea)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificatesByPostcodeUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM epc_certificate`).
		WillReturnError(errors.New("dial tcp: connection refused"))

	store := NewStore(db)
	_, err = store.CertificatesByPostcode(context.Background(), "SW1A 2AA", 500)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}
