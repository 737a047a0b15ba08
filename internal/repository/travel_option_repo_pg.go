package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const travelOptionColumns = `travel_id, travel_type, source, destination, departure_time, price_cents, total_seats, available_seats, created_at, updated_at`

type PGTravelOptionRepository struct {
	db *pgxpool.Pool
}

func NewTravelOptionRepository(db *pgxpool.Pool) TravelOptionRepository {
	return &PGTravelOptionRepository{db: db}
}

func (r *PGTravelOptionRepository) List(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, error) {
	var (
		where []string
		args  []any
	)
	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		where = append(where, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	addFilter("travel_type", filter.Type)
	addFilter("source", filter.Source)
	addFilter("destination", filter.Destination)

	query := `SELECT ` + travelOptionColumns + ` FROM travel_options`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY departure_time, travel_id`

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list travel options: %w", err)
	}
	defer rows.Close()

	options := make([]domain.TravelOption, 0)
	for rows.Next() {
		o, err := scanTravelOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, *o)
	}
	return options, rows.Err()
}

func (r *PGTravelOptionRepository) GetByID(ctx context.Context, id string) (*domain.TravelOption, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+travelOptionColumns+` FROM travel_options WHERE travel_id=$1`, id)
	o, err := scanTravelOption(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("travel option", id)
	}
	return o, err
}

// Upsert inserts the option or, when it already exists, refreshes its
// descriptive fields. Seat counts of an existing option are left alone so
// re-seeding never clobbers live inventory.
func (r *PGTravelOptionRepository) Upsert(ctx context.Context, o *domain.TravelOption) error {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO travel_options (travel_id, travel_type, source, destination, departure_time, price_cents, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (travel_id) DO UPDATE
		SET travel_type = EXCLUDED.travel_type,
		    source = EXCLUDED.source,
		    destination = EXCLUDED.destination,
		    departure_time = EXCLUDED.departure_time,
		    price_cents = EXCLUDED.price_cents,
		    updated_at = now()
		RETURNING total_seats, available_seats, created_at, updated_at`,
		o.ID, o.Type, o.Source, o.Destination, o.DepartureTime, o.Price.Cents(), o.TotalSeats, o.AvailableSeats)
	if err := row.Scan(&o.TotalSeats, &o.AvailableSeats, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("upsert travel option %s: %w", o.ID, err)
	}
	return nil
}

func (r *PGTravelOptionRepository) ReserveSeats(ctx context.Context, id string, count int) (domain.Money, error) {
	q := conn(ctx, r.db)

	var price int64
	err := q.QueryRow(ctx, `
		UPDATE travel_options
		SET available_seats = available_seats - $2, updated_at = now()
		WHERE travel_id = $1 AND available_seats >= $2
		RETURNING price_cents`, id, count).Scan(&price)
	if err == nil {
		return domain.Money(price), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("reserve seats on %s: %w", id, err)
	}

	// Nothing matched: either the option is missing or it is short of seats.
	var available int
	err = q.QueryRow(ctx, `SELECT available_seats FROM travel_options WHERE travel_id=$1`, id).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NotFound("travel option", id)
	}
	if err != nil {
		return 0, fmt.Errorf("reserve seats on %s: %w", id, err)
	}
	return 0, domain.InsufficientInventory(id, count, available)
}

func (r *PGTravelOptionRepository) ReleaseSeats(ctx context.Context, id string, count int) error {
	q := conn(ctx, r.db)

	cmd, err := q.Exec(ctx, `
		UPDATE travel_options
		SET available_seats = available_seats + $2, updated_at = now()
		WHERE travel_id = $1 AND available_seats + $2 <= total_seats`, id, count)
	if err != nil {
		return fmt.Errorf("release seats on %s: %w", id, err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	var total int
	err = q.QueryRow(ctx, `SELECT total_seats FROM travel_options WHERE travel_id=$1`, id).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound("travel option", id)
	}
	if err != nil {
		return fmt.Errorf("release seats on %s: %w", id, err)
	}
	return domain.CapacityExceeded(id, count, total)
}

func (r *PGTravelOptionRepository) Audit(ctx context.Context) ([]domain.InventoryDrift, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT t.travel_id, t.total_seats, t.available_seats,
		       COALESCE(SUM(b.seats) FILTER (WHERE b.status = 'Confirmed'), 0) AS confirmed
		FROM travel_options t
		LEFT JOIN bookings b ON b.travel_option_id = t.travel_id
		GROUP BY t.travel_id, t.total_seats, t.available_seats
		HAVING t.available_seats + COALESCE(SUM(b.seats) FILTER (WHERE b.status = 'Confirmed'), 0) <> t.total_seats
		ORDER BY t.travel_id`)
	if err != nil {
		return nil, fmt.Errorf("audit inventory: %w", err)
	}
	defer rows.Close()

	var drifts []domain.InventoryDrift
	for rows.Next() {
		var d domain.InventoryDrift
		if err := rows.Scan(&d.TravelOptionID, &d.TotalSeats, &d.AvailableSeats, &d.ConfirmedSeats); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}

func scanTravelOption(row pgx.Row) (*domain.TravelOption, error) {
	var (
		o     domain.TravelOption
		price int64
	)
	if err := row.Scan(&o.ID, &o.Type, &o.Source, &o.Destination, &o.DepartureTime, &price, &o.TotalSeats, &o.AvailableSeats, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Price = domain.Money(price)
	return &o, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ TravelOptionRepository = (*PGTravelOptionRepository)(nil)
