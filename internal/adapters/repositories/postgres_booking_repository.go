package repositories

import (
	"context"
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/platform/obs"
	"courier-slot-service/internal/ports"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const bookingColumns = `
	id::text,
	booking_date::text,
	time_of_day,
	station,
	customer_name,
	customer_contact,
	status,
	created_at,
	updated_at
`

// Postgres-backed implementation of the BookingStore port.
//
// Creation is serialized per date with a transaction-scoped advisory lock,
// and the partial unique index on active (date, time) pairs backs it up.
type PostgresBookingRepository struct {
	DB       *sql.DB
	Location *time.Location
}

func NewPostgresBookingRepository(db *sql.DB, loc *time.Location) *PostgresBookingRepository {
	return &PostgresBookingRepository{DB: db, Location: loc}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresBookingRepository) ListActiveBookings(ctx context.Context, date time.Time) (_ []domain.BookingSlot, err error) {
	defer obs.Time(ctx, "bookings.ListActiveBookings")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres booking repository: DB is nil")
	}
	return r.listActive(ctx, r.DB, date)
}

func (r *PostgresBookingRepository) listActive(ctx context.Context, q queryer, date time.Time) ([]domain.BookingSlot, error) {
	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE booking_date = $1::date AND status IN ('pending', 'confirmed')
	ORDER BY time_of_day;
	`
	return r.query(ctx, q, "list active bookings", query, domain.FormatDate(date))
}

// Return every booking on date, cancelled ones included.
func (r *PostgresBookingRepository) ListBookings(ctx context.Context, date time.Time) ([]domain.BookingSlot, error) {
	if r.DB == nil {
		return nil, errors.New("postgres booking repository: DB is nil")
	}

	query := `SELECT` + bookingColumns + `
	FROM bookings
	WHERE booking_date = $1::date
	ORDER BY time_of_day, created_at;
	`
	return r.query(ctx, r.DB, "list bookings", query, domain.FormatDate(date))
}

func (r *PostgresBookingRepository) query(
	ctx context.Context,
	q queryer,
	op string,
	query string,
	args ...any,
) ([]domain.BookingSlot, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query bookings table: %w", op, err)
	}
	defer rows.Close()

	out := make([]domain.BookingSlot, 0, 16)
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return out, nil
}

func (r *PostgresBookingRepository) scan(row rowScanner) (domain.BookingSlot, error) {
	var (
		id, date, status string
		tod              int
		b                domain.BookingSlot
	)

	err := row.Scan(&id, &date, &tod, &b.Station, &b.CustomerName, &b.CustomerContact, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.BookingSlot{}, err
	}

	if b.ID, err = uuid.Parse(id); err != nil {
		return domain.BookingSlot{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	if b.Date, err = domain.ParseDate(date, r.Location); err != nil {
		return domain.BookingSlot{}, err
	}
	b.TimeOfDay = domain.TimeOfDay(tod)
	b.Status = domain.BookingStatus(status)

	return b, nil
}

func (r *PostgresBookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (domain.BookingSlot, error) {
	query := `SELECT` + bookingColumns + `FROM bookings WHERE id = $1::uuid;`

	b, err := r.scan(r.DB.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BookingSlot{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

// CreateBooking inserts a pending booking. Within one transaction it takes
// the date's advisory lock, reads the date's active bookings, lets guard
// veto the insert, then inserts.
func (r *PostgresBookingRepository) CreateBooking(
	ctx context.Context,
	nb domain.NewBooking,
	guard ports.BookingGuard,
) (_ domain.BookingSlot, err error) {
	defer obs.Time(ctx, "bookings.CreateBooking")(&err)

	if r.DB == nil {
		return domain.BookingSlot{}, errors.New("postgres booking repository: DB is nil")
	}

	date := domain.FormatDate(nb.Date)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("create booking: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, "bookings:"+date); err != nil {
		return domain.BookingSlot{}, fmt.Errorf("create booking: lock date %s: %w", date, err)
	}

	if guard != nil {
		active, err := r.listActive(ctx, tx, nb.Date)
		if err != nil {
			return domain.BookingSlot{}, fmt.Errorf("create booking: %w", err)
		}
		if err := guard(ctx, active); err != nil {
			return domain.BookingSlot{}, err
		}
	}

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
	RETURNING` + bookingColumns + `;`

	b, err := r.scan(tx.QueryRowContext(ctx, query,
		uuid.NewString(), date, int(nb.TimeOfDay),
		nb.Station, nb.CustomerName, nb.CustomerContact, string(domain.StatusPending),
	))
	if isUniqueViolation(err) {
		return domain.BookingSlot{}, domain.ErrSlotConflict
	}
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("create booking: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.BookingSlot{}, fmt.Errorf("create booking: commit tx: %w", err)
	}

	return b, nil
}

// UpdateStatus moves a booking along its lifecycle.
func (r *PostgresBookingRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.BookingStatus,
) (_ domain.BookingSlot, err error) {
	defer obs.Time(ctx, "bookings.UpdateStatus")(&err)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("update status: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1::uuid FOR UPDATE;`, id.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BookingSlot{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("update status: read %s: %w", id, err)
	}

	if !domain.BookingStatus(current).CanTransition(status) {
		return domain.BookingSlot{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, status)
	}

	query := `
	UPDATE bookings
	SET status = $2, updated_at = now()
	WHERE id = $1::uuid
	RETURNING` + bookingColumns + `;`

	b, err := r.scan(tx.QueryRowContext(ctx, query, id.String(), string(status)))
	if err != nil {
		return domain.BookingSlot{}, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.BookingSlot{}, fmt.Errorf("update status: commit tx: %w", err)
	}

	return b, nil
}

func (r *PostgresBookingRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1::uuid;`, id.String())
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
