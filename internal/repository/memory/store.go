// Package memory is an in-process store with the same contract as the
// Postgres repositories. A single mutex serializes every write, and
// transactions restore a snapshot when fn fails.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type bookingRecord struct {
	booking domain.Booking
	seq     int64
}

type Store struct {
	mu       sync.Mutex
	options  map[string]domain.TravelOption
	bookings map[string]bookingRecord
	seq      int64
	now      func() time.Time
}

func New() *Store {
	return &Store{
		options:  make(map[string]domain.TravelOption),
		bookings: make(map[string]bookingRecord),
		now:      time.Now,
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*Store)
	return ok
}

// lock takes the store mutex unless ctx already runs inside WithinTx, which
// holds it for the whole transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	options := maps.Clone(s.options)
	bookings := maps.Clone(s.bookings)
	seq := s.seq
	defer func() {
		if p := recover(); p != nil {
			s.options, s.bookings, s.seq = options, bookings, seq
			panic(p)
		}
		if err != nil {
			s.options, s.bookings, s.seq = options, bookings, seq
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) TravelOptions() repository.TravelOptionRepository {
	return &travelOptions{s}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookings{s}
}

type travelOptions struct{ s *Store }

func (r *travelOptions) List(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, error) {
	defer r.s.lock(ctx)()

	result := make([]domain.TravelOption, 0)
	for _, o := range r.s.options {
		if containsFold(string(o.Type), filter.Type) &&
			containsFold(o.Source, filter.Source) &&
			containsFold(o.Destination, filter.Destination) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DepartureTime.Equal(result[j].DepartureTime) {
			return result[i].DepartureTime.Before(result[j].DepartureTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *travelOptions) GetByID(ctx context.Context, id string) (*domain.TravelOption, error) {
	defer r.s.lock(ctx)()

	o, ok := r.s.options[id]
	if !ok {
		return nil, domain.NotFound("travel option", id)
	}
	return &o, nil
}

func (r *travelOptions) Upsert(ctx context.Context, o *domain.TravelOption) error {
	defer r.s.lock(ctx)()

	now := r.s.now()
	if existing, ok := r.s.options[o.ID]; ok {
		o.TotalSeats = existing.TotalSeats
		o.AvailableSeats = existing.AvailableSeats
		o.CreatedAt = existing.CreatedAt
	} else {
		if o.AvailableSeats < 0 || o.AvailableSeats > o.TotalSeats {
			return fmt.Errorf("upsert travel option %s: available seats %d outside [0, %d]", o.ID, o.AvailableSeats, o.TotalSeats)
		}
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	r.s.options[o.ID] = *o
	return nil
}

func (r *travelOptions) ReserveSeats(ctx context.Context, id string, count int) (domain.Money, error) {
	defer r.s.lock(ctx)()

	o, ok := r.s.options[id]
	if !ok {
		return 0, domain.NotFound("travel option", id)
	}
	if count > o.AvailableSeats {
		return 0, domain.InsufficientInventory(id, count, o.AvailableSeats)
	}
	o.AvailableSeats -= count
	o.UpdatedAt = r.s.now()
	r.s.options[id] = o
	return o.Price, nil
}

func (r *travelOptions) ReleaseSeats(ctx context.Context, id string, count int) error {
	defer r.s.lock(ctx)()

	o, ok := r.s.options[id]
	if !ok {
		return domain.NotFound("travel option", id)
	}
	if o.AvailableSeats+count > o.TotalSeats {
		return domain.CapacityExceeded(id, count, o.TotalSeats)
	}
	o.AvailableSeats += count
	o.UpdatedAt = r.s.now()
	r.s.options[id] = o
	return nil
}

func (r *travelOptions) Audit(ctx context.Context) ([]domain.InventoryDrift, error) {
	defer r.s.lock(ctx)()

	confirmed := make(map[string]int)
	for _, rec := range r.s.bookings {
		if rec.booking.Status == domain.BookingStatusConfirmed {
			confirmed[rec.booking.TravelOptionID] += rec.booking.Seats
		}
	}

	var drifts []domain.InventoryDrift
	for id, o := range r.s.options {
		d := domain.InventoryDrift{
			TravelOptionID: id,
			TotalSeats:     o.TotalSeats,
			AvailableSeats: o.AvailableSeats,
			ConfirmedSeats: confirmed[id],
		}
		if d.Delta() != 0 {
			drifts = append(drifts, d)
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].TravelOptionID < drifts[j].TravelOptionID })
	return drifts, nil
}

type bookings struct{ s *Store }

func (r *bookings) Create(ctx context.Context, b *domain.Booking) error {
	defer r.s.lock(ctx)()

	if _, exists := r.s.bookings[b.ID]; exists {
		return fmt.Errorf("create booking %s: %w", b.ID, repository.ErrDuplicateKey)
	}
	if _, ok := r.s.options[b.TravelOptionID]; !ok {
		return domain.NotFound("travel option", b.TravelOptionID)
	}

	now := r.s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.seq++
	r.s.bookings[b.ID] = bookingRecord{booking: *b, seq: r.s.seq}
	return nil
}

func (r *bookings) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	defer r.s.lock(ctx)()

	rec, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking", id)
	}
	b := rec.booking
	return &b, nil
}

func (r *bookings) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	defer r.s.lock(ctx)()

	rec, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking", id)
	}
	rec.booking.Status = status
	rec.booking.UpdatedAt = r.s.now()
	r.s.bookings[id] = rec
	b := rec.booking
	return &b, nil
}

func (r *bookings) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Booking, error) {
	defer r.s.lock(ctx)()

	var records []bookingRecord
	for _, rec := range r.s.bookings {
		if rec.booking.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		bi, bj := records[i].booking, records[j].booking
		if !bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.CreatedAt.After(bj.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]domain.Booking, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.booking)
	}
	return result, nil
}

func containsFold(value, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

var (
	_ repository.Transactor             = (*Store)(nil)
	_ repository.TravelOptionRepository = (*travelOptions)(nil)
	_ repository.BookingRepository      = (*bookings)(nil)
)
