package match

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epc-match/internal/epc"
)

var certColumns = []string{
	"lmk_key", "address", "postcode", "lodgement_date",
	"current_energy_rating", "property_type", "total_floor_area",
	"local_authority_label",
}

func certRow(rows *sqlmock.Rows, id, address, date string) *sqlmock.Rows {
	return rows.AddRow(id, address, "SW1A 2AA", date, "C", "Flat", 55.0, "Westminster")
}

func newMockStore(t *testing.T) (*epc.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return epc.NewStore(db), mock
}

func TestScalarFindRanksAndFilters(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(certColumns)
	certRow(rows, "cert-weak", "FLAT 3, 10 TEST STREET", "2023-03-01")
	certRow(rows, "cert-best", "10 TEST STREET, LONDON", "2022-01-15")
	certRow(rows, "cert-none", "99 ELSEWHERE GARDENS", "2024-05-05")

	mock.ExpectQuery(`FROM epc_certificate`).
		WithArgs("SW1A2AA", scalarBatchSize).
		WillReturnRows(rows)

	strategy := NewScalarStrategy(store)
	results, err := strategy.Find(context.Background(), Query{
		Postcode:        "sw1a 2aa",
		HouseIdentifier: "10",
		Street:          "Test Street",
	})

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "cert-best", results[0].Certificate.ID)
	assert.Equal(t, 100.0, results[0].Score)
	assert.Equal(t, "cert-weak", results[1].Certificate.ID)
	assert.Equal(t, 85.0, results[1].Score)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, float64(MatchThreshold))
		assert.LessOrEqual(t, r.Score, 100.0)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScalarFindTieBreakOnLodgementDate(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(certColumns)
	certRow(rows, "cert-june", "10 TEST STREET, LONDON", "2024-06-01")
	certRow(rows, "cert-january", "10 TEST STREET, LONDON", "2024-01-01")

	mock.ExpectQuery(`FROM epc_certificate`).
		WillReturnRows(rows)

	strategy := NewScalarStrategy(store)
	results, err := strategy.Find(context.Background(), Query{
		Postcode:        "SW1A 2AA",
		HouseIdentifier: "10",
		Street:          "Test Street",
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "cert-june", results[0].Certificate.ID)
	assert.Equal(t, "cert-january", results[1].Certificate.ID)
}

func TestScalarFindRespectsLimit(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(certColumns)
	certRow(rows, "cert-1", "10 TEST STREET", "2024-06-01")
	certRow(rows, "cert-2", "10 TEST STREET", "2024-05-01")
	certRow(rows, "cert-3", "10 TEST STREET", "2024-04-01")

	mock.ExpectQuery(`FROM epc_certificate`).
		WillReturnRows(rows)

	strategy := NewScalarStrategy(store)
	results, err := strategy.Find(context.Background(), Query{
		Postcode:        "SW1A 2AA",
		HouseIdentifier: "10",
		Street:          "Test Street",
		Limit:           1,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cert-1", results[0].Certificate.ID)
}

func TestScalarFindEmptyPostcodeSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM epc_certificate`).
		WillReturnRows(sqlmock.NewRows(certColumns))

	strategy := NewScalarStrategy(store)
	results, err := strategy.Find(context.Background(), Query{
		Postcode:        "ZZ1 1ZZ",
		HouseIdentifier: "10",
		Street:          "Test Street",
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScalarFindStorageFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM epc_certificate`).
		WillReturnError(errors.New("connection refused"))

	strategy := NewScalarStrategy(store)
	_, err := strategy.Find(context.Background(), Query{
		Postcode:        "SW1A 2AA",
		HouseIdentifier: "10",
		Street:          "Test Street",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, epc.ErrStorageUnavailable))
}
