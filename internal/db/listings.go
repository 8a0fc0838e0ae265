package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"airdash/internal/model"
)

// cacheVersion is bumped whenever parsing rules change so older entries miss.
const cacheVersion = 1

// Fingerprint identifies one version of a data file on disk.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Key returns the cache key for the fingerprint.
func (f Fingerprint) Key() string {
	return f.Path + "|" + strconv.FormatInt(f.Size, 10) + "|" + strconv.FormatInt(f.ModTime.UnixNano(), 10)
}

// FingerprintFile stats path and returns its fingerprint.
func FingerprintFile(path string) (Fingerprint, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat data file: %w", err)
	}
	return Fingerprint{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// LoadListings returns the cached listings for fp in row order.
// found is false on a cache miss.
func LoadListings(db *sql.DB, fp Fingerprint) ([]model.Listing, bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT row_count FROM sources WHERE fingerprint = ? AND version = ?`,
		fp.Key(), cacheVersion,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up cached source: %w", err)
	}

	query := `
		SELECT
			row_index,
			COALESCE(listing_id, ''),
			name,
			host_name,
			neighbourhood_group,
			neighbourhood,
			room_type,
			price,
			cancellation_policy,
			latitude,
			longitude,
			number_of_reviews,
			review_rate,
			availability_365,
			no_smoking,
			no_party,
			no_pet,
			COALESCE(house_rules, '')
		FROM listings
		WHERE fingerprint = ?
		ORDER BY row_index
	`

	rows, err := db.Query(query, fp.Key())
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cached listings: %w", err)
	}
	defer rows.Close()

	results := make([]model.Listing, 0, count)
	for rows.Next() {
		var l model.Listing
		var price, lat, long, rate sql.NullFloat64
		var reviews, availability, noSmoking, noParty, noPet sql.NullInt64
		if err := rows.Scan(
			&l.Row, &l.ID, &l.Name, &l.HostName, &l.NeighbourhoodGroup, &l.Neighbourhood, &l.RoomType,
			&price, &l.CancellationPolicy, &lat, &long, &reviews, &rate, &availability,
			&noSmoking, &noParty, &noPet, &l.HouseRules,
		); err != nil {
			return nil, false, fmt.Errorf("failed to scan cached listing: %w", err)
		}
		l.Price = nullFloat(price)
		l.Latitude = nullFloat(lat)
		l.Longitude = nullFloat(long)
		l.ReviewRate = nullFloat(rate)
		l.NumberOfReviews = nullInt(reviews)
		l.Availability365 = nullInt(availability)
		l.NoSmoking = nullBool(noSmoking)
		l.NoParty = nullBool(noParty)
		l.NoPet = nullBool(noPet)
		results = append(results, l)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating cached listings: %w", err)
	}

	if len(results) != count {
		// partially written entry; treat as a miss
		return nil, false, nil
	}
	return results, true, nil
}

// StoreListings replaces every cached entry for fp.Path with listings.
func StoreListings(db *sql.DB, fp Fingerprint, listings []model.Listing) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM listings WHERE fingerprint IN (SELECT fingerprint FROM sources WHERE path = ?)`, fp.Path); err != nil {
		return fmt.Errorf("failed to clear cached listings: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sources WHERE path = ?`, fp.Path); err != nil {
		return fmt.Errorf("failed to clear cached source: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO sources (fingerprint, path, size, mod_time, version, row_count) VALUES (?, ?, ?, ?, ?, ?)`,
		fp.Key(), fp.Path, fp.Size, fp.ModTime.UTC().Format(time.RFC3339Nano), cacheVersion, len(listings),
	); err != nil {
		return fmt.Errorf("failed to insert cached source: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO listings (
			fingerprint, row_index, listing_id, name, host_name, neighbourhood_group, neighbourhood, room_type,
			price, cancellation_policy, latitude, longitude, number_of_reviews, review_rate, availability_365,
			no_smoking, no_party, no_pet, house_rules
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare listing insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var id, rules interface{}
		if l.ID != "" {
			id = l.ID
		}
		if l.HouseRules != "" {
			rules = l.HouseRules
		}
		if _, err := stmt.Exec(
			fp.Key(), l.Row, id, l.Name, l.HostName, l.NeighbourhoodGroup, l.Neighbourhood, l.RoomType,
			floatArg(l.Price), l.CancellationPolicy, floatArg(l.Latitude), floatArg(l.Longitude),
			intArg(l.NumberOfReviews), floatArg(l.ReviewRate), intArg(l.Availability365),
			boolArg(l.NoSmoking), boolArg(l.NoParty), boolArg(l.NoPet), rules,
		); err != nil {
			return fmt.Errorf("failed to insert cached listing %d: %w", l.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache: %w", err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullBool(v sql.NullInt64) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Int64 == 1
	return &b
}

func floatArg(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intArg(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolArg(p *bool) interface{} {
	if p == nil {
		return nil
	}
	if *p {
		return 1
	}
	return 0
}
