package repositories

import (
	"context"
	"courier-slot-service/internal/domain"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Initialize the postgres schema. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBookingsQuery := `
	CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		booking_date DATE NOT NULL,
		time_of_day INTEGER NOT NULL
			CHECK (time_of_day >= 0 AND time_of_day < 1440 AND time_of_day % 15 = 0),
		station TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_contact TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
			CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	// One courier: at most one active booking per (date, time).
	createActiveSlotIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_slot
	ON bookings (booking_date, time_of_day)
	WHERE status IN ('pending', 'confirmed');
	`

	createDateIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_bookings_date
	ON bookings (booking_date, time_of_day);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	statements := []string{
		createBookingsQuery,
		createActiveSlotIndexQuery,
		createDateIndexQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type BookingSeed struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Station         string `json:"station"`
	CustomerName    string `json:"customer_name"`
	CustomerContact string `json:"customer_contact"`
	Status          string `json:"status"`
}

// Populate the database with bookings from a JSON file. Seeds bypass the
// feasibility rules; rows that collide with an active booking are skipped.
// Returns the number of rows inserted.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string, loc *time.Location) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed bookings: read %q: %w", jsonPath, err)
	}

	var data []BookingSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed bookings: parse json: %w", err)
	}

	rows := make([]domain.BookingSlot, 0, len(data))
	for i, item := range data {
		d, err := domain.ParseDate(item.Date, loc)
		if err != nil {
			return 0, fmt.Errorf("seed bookings: item %d: %w", i+1, err)
		}

		t, err := domain.ParseTimeOfDay(item.Time)
		if err != nil {
			return 0, fmt.Errorf("seed bookings: item %d: %w", i+1, err)
		}
		if !t.OnGrid() {
			return 0, fmt.Errorf("seed bookings: item %d: time %s is off the %d-minute grid", i+1, t, domain.SlotStepMinutes)
		}

		station := strings.TrimSpace(item.Station)
		if station == "" {
			return 0, fmt.Errorf("seed bookings: item %d: station cannot be empty", i+1)
		}

		status := domain.StatusPending
		if item.Status != "" {
			if status, err = domain.ParseBookingStatus(item.Status); err != nil {
				return 0, fmt.Errorf("seed bookings: item %d: %w", i+1, err)
			}
		}

		rows = append(rows, domain.BookingSlot{
			ID:              uuid.New(),
			Date:            d,
			TimeOfDay:       t,
			Station:         station,
			CustomerName:    strings.TrimSpace(item.CustomerName),
			CustomerContact: strings.TrimSpace(item.CustomerContact),
			Status:          status,
		})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed bookings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO bookings (
		id,
		booking_date,
		time_of_day,
		station,
		customer_name,
		customer_contact,
		status
	)
	VALUES ($1::uuid, $2::date, $3, $4, $5, $6, $7)
	ON CONFLICT DO NOTHING;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed bookings: prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, b := range rows {
		res, err := stmt.ExecContext(ctx,
			b.ID.String(), domain.FormatDate(b.Date), int(b.TimeOfDay),
			b.Station, b.CustomerName, b.CustomerContact, string(b.Status),
		)
		if err != nil {
			return 0, fmt.Errorf("seed bookings: insert %s %s: %w", domain.FormatDate(b.Date), b.TimeOfDay, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed bookings: commit tx: %w", err)
	}

	return inserted, nil
}
