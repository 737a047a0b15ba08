package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
)

const (
	opCreate = "create"
	opCancel = "cancel"

	defaultIDAttempts = 3
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, userID int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID int64, limit int) ([]domain.Booking, error)
}

// Ledger is the part of the inventory ledger the coordinator drives.
type Ledger interface {
	Reserve(ctx context.Context, travelOptionID string, count int) (domain.Money, error)
	Release(ctx context.Context, travelOptionID string, count int) error
}

type Cache interface {
	InvalidateOptions(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	tx         repository.Transactor
	ledger     Ledger
	bookings   repository.BookingRepository
	cache      Cache
	producer   Producer
	topic      string
	idAttempts int
	newID      func() string
	now        func() time.Time
	log        *logger.Logger
	metrics    *metrics.Collector
}

type CreateBookingInput struct {
	UserID         int64  `json:"user_id"`
	TravelOptionID string `json:"travel_option_id"`
	Seats          int    `json:"seats"`
}

func (in CreateBookingInput) Validate() error {
	if in.Seats <= 0 {
		return domain.InvalidQuantity(in.Seats)
	}
	if in.UserID <= 0 {
		return domain.InvalidInput("user id is required")
	}
	if strings.TrimSpace(in.TravelOptionID) == "" {
		return domain.InvalidInput("travel option id is required")
	}
	return nil
}

type BookingServiceOption func(*BookingService)

// WithCache invalidates the travel option listings after every committed
// booking or cancellation.
func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithMetrics(m *metrics.Collector) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func WithIDAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

func WithIDGenerator(fn func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newID = fn
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	tx repository.Transactor,
	ledger Ledger,
	bookings repository.BookingRepository,
	log *logger.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:         tx,
		ledger:     ledger,
		bookings:   bookings,
		idAttempts: defaultIDAttempts,
		newID:      NewBookingID,
		now:        time.Now,
		log:        log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// NewBookingID returns "BK-" followed by eight upper-case hex characters.
func NewBookingID() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateBooking reserves the seats and records a Confirmed booking in one
// transaction. The total price is frozen at the unit price seen by Reserve.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := input.Validate(); err != nil {
		s.failed(opCreate, err)
		return nil, err
	}

	started := time.Now()
	var (
		booking *domain.Booking
		err     error
	)
	for attempt := 1; ; attempt++ {
		booking, err = s.createOnce(ctx, input)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			break
		}
		if attempt >= s.idAttempts {
			err = fmt.Errorf("generate unique booking id after %d attempts: %w", attempt, err)
			break
		}
		s.log.Warn("Booking id collision, retrying with a new id", "attempt", attempt)
	}
	s.metrics.ObserveTx(opCreate, started)

	if err != nil {
		s.failed(opCreate, err)
		s.log.Warn("Booking failed",
			"user_id", input.UserID,
			"travel_option_id", input.TravelOptionID,
			"seats", input.Seats,
			"error", err,
		)
		return nil, err
	}

	s.metrics.BookingCreated(booking.Seats)
	s.log.Info("Booking confirmed",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"travel_option_id", booking.TravelOptionID,
		"seats", booking.Seats,
		"total_price", booking.TotalPrice.String(),
	)
	s.afterCommit(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) createOnce(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:             s.newID(),
		UserID:         input.UserID,
		TravelOptionID: input.TravelOptionID,
		Seats:          input.Seats,
		Status:         domain.BookingStatusConfirmed,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		price, err := s.ledger.Reserve(ctx, input.TravelOptionID, input.Seats)
		if err != nil {
			return err
		}
		booking.TotalPrice = price.Mul(input.Seats)
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking moves a Confirmed booking owned by userID to Cancelled and
// returns its seats to inventory. Bookings owned by someone else are
// reported as not found.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string, userID int64) (*domain.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		err := domain.InvalidInput("booking id is required")
		s.failed(opCancel, err)
		return nil, err
	}
	if userID <= 0 {
		err := domain.InvalidInput("user id is required")
		s.failed(opCancel, err)
		return nil, err
	}

	started := time.Now()
	var updated *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return domain.NotFound("booking", bookingID)
		}
		if !current.Cancellable() {
			return domain.InvalidState(bookingID, current.Status)
		}
		if err := s.ledger.Release(ctx, current.TravelOptionID, current.Seats); err != nil {
			return err
		}
		updated, err = s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled)
		return err
	})
	s.metrics.ObserveTx(opCancel, started)

	if err != nil {
		s.failed(opCancel, err)
		s.log.Warn("Cancellation failed", "booking_id", bookingID, "user_id", userID, "error", err)
		return nil, err
	}

	s.metrics.BookingCancelled(updated.Seats)
	s.log.Info("Booking cancelled",
		"booking_id", updated.ID,
		"user_id", updated.UserID,
		"travel_option_id", updated.TravelOptionID,
		"seats", updated.Seats,
	)
	s.afterCommit(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

// ListBookings returns the user's bookings newest first. A limit of zero or
// less returns all of them.
func (s *BookingService) ListBookings(ctx context.Context, userID int64, limit int) ([]domain.Booking, error) {
	if userID <= 0 {
		return nil, domain.InvalidInput("user id is required")
	}
	if limit < 0 {
		limit = 0
	}
	return s.bookings.ListByUser(ctx, userID, limit)
}

// afterCommit runs side effects that must not undo a committed booking.
// Failures are logged and swallowed.
func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateOptions(ctx); err != nil {
			s.log.Warn("Failed to invalidate travel option cache", "booking_id", booking.ID, "error", err)
		}
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		s.log.Warn("Failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.topic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	return s.producer.Publish(ctx, s.topic, booking.ID, event)
}

func (s *BookingService) failed(operation string, err error) {
	s.metrics.BookingFailed(operation, string(domain.CodeOf(err)))
}

var _ BookingUseCase = (*BookingService)(nil)
