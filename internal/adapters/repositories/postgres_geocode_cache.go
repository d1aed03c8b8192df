package repositories

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/stations"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultGeocodeMaxAge is how long a stored coordinate is trusted.
const DefaultGeocodeMaxAge = 30 * 24 * time.Hour

// PostgresGeocodeCache persists routing-service geocodes keyed by
// stations.AddressKey, so spelling variants of one address share a row.
// Rows older than maxAge read as misses and are refreshed on the next write.
type PostgresGeocodeCache struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewPostgresGeocodeCache returns a cache over the geocode_cache table.
// A non-positive maxAge uses DefaultGeocodeMaxAge.
func NewPostgresGeocodeCache(db *sql.DB, maxAge time.Duration) *PostgresGeocodeCache {
	if maxAge <= 0 {
		maxAge = DefaultGeocodeMaxAge
	}
	return &PostgresGeocodeCache{db: db, maxAge: maxAge}
}

// GetMany returns coordinates for every address with a fresh row, keyed by
// the address text the caller passed in.
func (c *PostgresGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if c.db == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	byKey := groupByAddressKey(addresses)
	out := make(map[string]domain.Coordinates, len(addresses))
	if len(byKey) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}

	rows, err := c.db.QueryContext(ctx, `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[])
	AND updated_at > now() - make_interval(secs => $2::float8);
	`, keys, c.maxAge.Seconds())
	if err != nil {
		return nil, fmt.Errorf("geocode cache: get: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var p domain.Coordinates
		if err := rows.Scan(&key, &p.Lon, &p.Lat); err != nil {
			return nil, fmt.Errorf("geocode cache: get: scan: %w", err)
		}
		for _, addr := range byKey[key] {
			out[addr] = p
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: get: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts coordinates in one statement. Addresses sharing a key
// collapse to a single row; blank addresses are skipped.
func (c *PostgresGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if c.db == nil {
		return errors.New("geocode cache: db is nil")
	}

	merged := make(map[string]domain.Coordinates, len(results))
	for addr, p := range results {
		if k := stations.AddressKey(addr); k != "" {
			merged[k] = p
		}
	}
	if len(merged) == 0 {
		return nil
	}

	keys := make([]string, 0, len(merged))
	lons := make([]float64, 0, len(merged))
	lats := make([]float64, 0, len(merged))
	for k, p := range merged {
		keys = append(keys, k)
		lons = append(lons, p.Lon)
		lats = append(lats, p.Lat)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lon, lat)
	SELECT * FROM unnest($1::text[], $2::float8[], $3::float8[])
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		updated_at = now();
	`, keys, lons, lats)
	if err != nil {
		return fmt.Errorf("geocode cache: put %d rows: %w", len(keys), err)
	}
	return nil
}

func groupByAddressKey(addresses []string) map[string][]string {
	out := make(map[string][]string, len(addresses))
	for _, addr := range addresses {
		k := stations.AddressKey(addr)
		if k == "" {
			continue
		}
		out[k] = append(out[k], addr)
	}
	return out
}
