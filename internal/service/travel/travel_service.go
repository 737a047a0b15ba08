package travel

import (
	"context"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

type TravelUseCase interface {
	List(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, error)
	GetByID(ctx context.Context, id string) (*domain.TravelOption, error)
}

// OptionCache is a read-through cache for listings. A nil slice from
// GetOptions is a miss; the returned version is handed back to SetOptions.
type OptionCache interface {
	GetOptions(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, int64, error)
	SetOptions(ctx context.Context, version int64, filter domain.TravelOptionFilter, options []domain.TravelOption) error
}

type TravelService struct {
	repo  repository.TravelOptionRepository
	cache OptionCache
	log   *logger.Logger
}

// NewTravelService accepts a nil cache.
func NewTravelService(repo repository.TravelOptionRepository, cache OptionCache, log *logger.Logger) *TravelService {
	return &TravelService{repo: repo, cache: cache, log: log}
}

func (s *TravelService) List(ctx context.Context, filter domain.TravelOptionFilter) ([]domain.TravelOption, error) {
	filter = normalize(filter)

	var (
		version int64
		fill    bool
	)
	if s.cache != nil {
		cached, v, err := s.cache.GetOptions(ctx, filter)
		switch {
		case err != nil:
			s.log.Warn("Travel option cache read failed", "error", err)
		case cached != nil:
			return cached, nil
		default:
			version, fill = v, true
		}
	}

	options, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []domain.TravelOption{}
	}
	if fill {
		if err := s.cache.SetOptions(ctx, version, filter, options); err != nil {
			s.log.Warn("Travel option cache write failed", "error", err)
		}
	}
	return options, nil
}

func (s *TravelService) GetByID(ctx context.Context, id string) (*domain.TravelOption, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.InvalidInput("travel option id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func normalize(f domain.TravelOptionFilter) domain.TravelOptionFilter {
	return domain.TravelOptionFilter{
		Type:        strings.TrimSpace(f.Type),
		Source:      strings.TrimSpace(f.Source),
		Destination: strings.TrimSpace(f.Destination),
	}
}

var _ TravelUseCase = (*TravelService)(nil)
