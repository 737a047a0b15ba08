package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `booking_id, user_id, travel_option_id, seats, total_price_cents, status, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO bookings (booking_id, user_id, travel_option_id, seats, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.TravelOptionID, b.Seats, b.TotalPrice.Cents(), b.Status).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("create booking %s: %w", b.ID, ErrDuplicateKey)
	case isForeignKeyViolation(err):
		return domain.NotFound("user", fmt.Sprint(b.UserID))
	default:
		return fmt.Errorf("create booking %s: %w", b.ID, err)
	}
}

func (r *PGBookingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id=$1`
	if _, inTx := txFromContext(ctx); inTx {
		query += ` FOR UPDATE`
	}
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE booking_id=$2 RETURNING `+bookingColumns, status, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC, seq DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b     domain.Booking
		total int64
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.TravelOptionID, &b.Seats, &total, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.TotalPrice = domain.Money(total)
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
