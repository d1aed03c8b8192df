package repositories

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/db"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// openTestDB connects to TEST_DATABASE_URL and resets the schema. Tests are
// skipped when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.ExecContext(ctx, `DROP TABLE IF EXISTS bookings, geocode_cache;`); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	if err := InitSchema(ctx, conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func mexicoCity(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestPostgresBookingLifecycle(t *testing.T) {
	conn := openTestDB(t)
	loc := mexicoCity(t)
	repo := NewPostgresBookingRepository(conn, loc)
	ctx := context.Background()

	date, _ := domain.ParseDate("2026-03-03", loc)
	nb := domain.NewBooking{Date: date, TimeOfDay: domain.NewTimeOfDay(12, 0), Station: "Balderas", CustomerName: "Ana"}

	b, err := repo.CreateBooking(ctx, nb, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != domain.StatusPending || domain.FormatDate(b.Date) != "2026-03-03" {
		t.Fatalf("unexpected booking: %+v", b)
	}

	if _, err := repo.CreateBooking(ctx, nb, nil); !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}

	if _, err := repo.UpdateStatus(ctx, b.ID, domain.StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, b.ID, domain.StatusPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, b.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	active, err := repo.ListActiveBookings(ctx, date)
	if err != nil || len(active) != 0 {
		t.Fatalf("expected no active bookings, got %v %v", active, err)
	}

	// A cancelled booking frees the slot.
	if _, err := repo.CreateBooking(ctx, nb, nil); err != nil {
		t.Fatalf("rebook: %v", err)
	}

	all, err := repo.ListBookings(ctx, date)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 bookings, got %d %v", len(all), err)
	}

	if err := repo.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetBooking(ctx, b.ID); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresCreateBookingSerializesPerDate(t *testing.T) {
	conn := openTestDB(t)
	loc := mexicoCity(t)
	repo := NewPostgresBookingRepository(conn, loc)
	date, _ := domain.ParseDate("2026-03-04", loc)

	errBusy := errors.New("neighbor too close")
	guard := func(_ context.Context, active []domain.BookingSlot) error {
		if len(active) > 0 {
			return errBusy
		}
		return nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateBooking(context.Background(), domain.NewBooking{
				Date:         date,
				TimeOfDay:    domain.NewTimeOfDay(10, 0) + domain.TimeOfDay(15*i),
				Station:      "Hidalgo",
				CustomerName: "Luis",
			}, guard)
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			if !errors.Is(err, errBusy) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("guard saw a stale snapshot: %d bookings created", created)
	}
}

func TestSeedFromJSON(t *testing.T) {
	conn := openTestDB(t)
	loc := mexicoCity(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "bookings.json")
	seed := `[
		{"date": "2026-03-05", "time": "11:00", "station": "Hidalgo", "customer_name": "Ana", "status": "confirmed"},
		{"date": "2026-03-05", "time": "11:00", "station": "Balderas", "customer_name": "Luis"},
		{"date": "2026-03-05", "time": "13:00", "station": "Tacubaya", "customer_name": "Eva"}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := SeedFromJSON(ctx, conn, path, loc)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected colliding row to be skipped, inserted %d", n)
	}
}

func TestSeedFromJSONRejectsInvalidRows(t *testing.T) {
	loc := mexicoCity(t)

	tests := map[string]string{
		"off grid":      `[{"date": "2026-03-05", "time": "11:05", "station": "Hidalgo"}]`,
		"bad date":      `[{"date": "05/03/2026", "time": "11:00", "station": "Hidalgo"}]`,
		"empty station": `[{"date": "2026-03-05", "time": "11:00", "station": " "}]`,
		"bad status":    `[{"date": "2026-03-05", "time": "11:00", "station": "Hidalgo", "status": "done"}]`,
	}

	for name, seed := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bookings.json")
			if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
				t.Fatalf("write seed: %v", err)
			}
			if _, err := SeedFromJSON(context.Background(), nil, path, loc); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
