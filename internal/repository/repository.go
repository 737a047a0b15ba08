package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

// ErrDuplicateKey is returned when an insert hits a uniqueness constraint.
// Callers that generate identifiers retry with a fresh one.
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn as one atomic unit. Repository calls made with the ctx
// passed to fn join the transaction. A nested WithinTx joins the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TravelOptionRepository interface {
	List(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, error)
	GetByID(ctx context.Context, id string) (*domain.TravelOption, error)
	Upsert(ctx context.Context, option *domain.TravelOption) error
	// ReserveSeats decrements the seat count and returns the unit price seen
	// at that moment. It fails with domain.ErrNotFound or
	// domain.ErrInsufficientInventory and leaves the row untouched.
	ReserveSeats(ctx context.Context, id string, count int) (domain.Money, error)
	// ReleaseSeats increments the seat count, never past TotalSeats.
	ReleaseSeats(ctx context.Context, id string, count int) error
	Audit(ctx context.Context) ([]domain.InventoryDrift, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	// GetForUpdate loads a booking and, inside a transaction, locks it until
	// commit so status transitions cannot interleave.
	GetForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Booking, error)
}
