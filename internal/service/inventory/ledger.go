package inventory

import (
	"context"
	"fmt"
	"math"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type LedgerUseCase interface {
	Reserve(ctx context.Context, travelOptionID string, count int) (domain.Money, error)
	Release(ctx context.Context, travelOptionID string, count int) error
	Audit(ctx context.Context) ([]domain.InventoryDrift, error)
}

// Ledger is the only writer of TravelOption.AvailableSeats. Reserve and
// Release join the caller's transaction when ctx carries one.
type Ledger struct {
	options repository.TravelOptionRepository
	log     *logger.Logger
	metrics *metrics.Collector
}

func NewLedger(options repository.TravelOptionRepository, log *logger.Logger, m *metrics.Collector) *Ledger {
	return &Ledger{options: options, log: log, metrics: m}
}

// Reserve takes count seats and returns the unit price at that instant.
func (l *Ledger) Reserve(ctx context.Context, travelOptionID string, count int) (domain.Money, error) {
	if err := validate(travelOptionID, count); err != nil {
		return 0, err
	}
	price, err := l.options.ReserveSeats(ctx, travelOptionID, count)
	if err != nil {
		return 0, err
	}
	l.log.Debug("Seats reserved", "travel_option_id", travelOptionID, "count", count, "unit_price", price.String())
	return price, nil
}

func (l *Ledger) Release(ctx context.Context, travelOptionID string, count int) error {
	if err := validate(travelOptionID, count); err != nil {
		return err
	}
	if err := l.options.ReleaseSeats(ctx, travelOptionID, count); err != nil {
		return err
	}
	l.log.Debug("Seats released", "travel_option_id", travelOptionID, "count", count)
	return nil
}

// Audit reports options where available plus confirmed seats differs from
// capacity. A drift means seats were lost or double-released.
func (l *Ledger) Audit(ctx context.Context) ([]domain.InventoryDrift, error) {
	drifts, err := l.options.Audit(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drifts {
		l.log.Warn("Inventory drift detected",
			"travel_option_id", d.TravelOptionID,
			"total_seats", d.TotalSeats,
			"available_seats", d.AvailableSeats,
			"confirmed_seats", d.ConfirmedSeats,
			"delta", d.Delta(),
		)
	}
	l.metrics.SetInventoryDrift(len(drifts))
	return drifts, nil
}

func validate(travelOptionID string, count int) error {
	if count <= 0 {
		return domain.InvalidQuantity(count)
	}
	// Seat columns are 32-bit in every store.
	if count > math.MaxInt32 {
		return &domain.Error{Code: domain.CodeInvalidQuantity, Message: fmt.Sprintf("seat count must be at most %d, got %d", math.MaxInt32, count)}
	}
	if travelOptionID == "" {
		return domain.InvalidInput("travel option id is required")
	}
	return nil
}

var _ LedgerUseCase = (*Ledger)(nil)
