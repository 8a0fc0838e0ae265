package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdash/internal/model"
)

func testFingerprint() Fingerprint {
	return Fingerprint{Path: "/data/listings.csv", Size: 128, ModTime: time.Unix(1700000000, 42)}
}

func sampleListings() []model.Listing {
	return []model.Listing{
		{
			Row:                0,
			ID:                 "1001",
			Name:               "Cozy Loft",
			HostName:           "Ana",
			NeighbourhoodGroup: "Brooklyn",
			Neighbourhood:      "Williamsburg",
			RoomType:           "Entire home/apt",
			Price:              model.Float(1200),
			CancellationPolicy: "strict",
			Latitude:           model.Float(40.71),
			Longitude:          model.Float(-73.95),
			NumberOfReviews:    model.Int(12),
			ReviewRate:         model.Float(4),
			Availability365:    model.Int(200),
			NoSmoking:          model.Bool(true),
			NoParty:            model.Bool(false),
			NoPet:              model.Bool(false),
			HouseRules:         "No shoes inside",
		},
		{
			Row:                1,
			Name:               "Shared Space",
			HostName:           "Cy",
			NeighbourhoodGroup: "Brooklyn",
			Neighbourhood:      "Bushwick",
			RoomType:           "Shared room",
		},
	}
}

func TestStoreAndLoadListings(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer database.Close()

	fp := testFingerprint()

	_, found, err := LoadListings(database, fp)
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleListings()
	require.NoError(t, StoreListings(database, fp, want))

	got, found, err := LoadListings(database, fp)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestStoreListingsReplacesStaleEntries(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer database.Close()

	old := testFingerprint()
	require.NoError(t, StoreListings(database, old, sampleListings()))

	fresh := old
	fresh.Size = 256
	require.NoError(t, StoreListings(database, fresh, sampleListings()[:1]))

	_, found, err := LoadListings(database, old)
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := LoadListings(database, fresh)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, got, 1)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestStoreEmptyDataset(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer database.Close()

	fp := testFingerprint()
	require.NoError(t, StoreListings(database, fp, nil))

	got, found, err := LoadListings(database, fp)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)
}

func TestFingerprintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))

	fp, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fp.Size)
	assert.True(t, filepath.IsAbs(fp.Path))

	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))
	changed, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, fp.Key(), changed.Key())

	_, err = FingerprintFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
