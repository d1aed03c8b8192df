package repositories

import (
	"context"
	"courier-slot-service/internal/domain"
	"testing"
	"time"
)

func TestGroupByAddressKey(t *testing.T) {
	got := groupByAddressKey([]string{"Zócalo, CDMX", "zocalo,  cdmx", "Zócalo, Puebla", "  "})

	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %v", got)
	}
	if n := len(got["zocalo, cdmx"]); n != 2 {
		t.Fatalf("expected both CDMX spellings under one key, got %v", got)
	}
}

func TestPostgresGeocodeCacheRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	gc := NewPostgresGeocodeCache(conn, time.Hour)
	ctx := context.Background()

	zocalo := domain.Coordinates{Lon: -99.1332, Lat: 19.4326}
	if err := gc.PutMany(ctx, map[string]domain.Coordinates{"Zócalo, CDMX": zocalo, " ": {}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var rows int
	if err := conn.QueryRowContext(ctx, `SELECT count(*) FROM geocode_cache`).Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one stored row, got %d", rows)
	}

	got, err := gc.GetMany(ctx, []string{"zocalo, cdmx", "Zócalo, CDMX", "Zócalo, Puebla"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 || got["zocalo, cdmx"] != zocalo || got["Zócalo, CDMX"] != zocalo {
		t.Fatalf("expected both spellings to hit, got %v", got)
	}

	moved := domain.Coordinates{Lon: -99.1333, Lat: 19.4327}
	if err := gc.PutMany(ctx, map[string]domain.Coordinates{"ZÓCALO, cdmx": moved}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = gc.GetMany(ctx, []string{"Zócalo, CDMX"})
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got["Zócalo, CDMX"] != moved {
		t.Fatalf("expected overwritten coordinates, got %v", got)
	}
}

func TestPostgresGeocodeCacheAgesOut(t *testing.T) {
	conn := openTestDB(t)
	gc := NewPostgresGeocodeCache(conn, time.Hour)
	ctx := context.Background()

	if err := gc.PutMany(ctx, map[string]domain.Coordinates{"Balderas, CDMX": {Lon: -99.149, Lat: 19.427}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `UPDATE geocode_cache SET updated_at = now() - interval '2 hours'`); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	got, err := gc.GetMany(ctx, []string{"Balderas, CDMX"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected stale row to miss, got %v", got)
	}

	if err := gc.PutMany(ctx, map[string]domain.Coordinates{"balderas, cdmx": {Lon: -99.149, Lat: 19.427}}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err = gc.GetMany(ctx, []string{"Balderas, CDMX"})
	if err != nil || len(got) != 1 {
		t.Fatalf("expected refreshed row to hit, got %v (err %v)", got, err)
	}
}
