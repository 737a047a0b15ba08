package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type seedOption struct {
	id          string
	kind        domain.TravelType
	source      string
	destination string
	departure   time.Time
	price       string
	seats       int
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

var seedOptions = []seedOption{
	{"F101", domain.TravelTypeFlight, "New York", "London", at(2025, 10, 20, 9, 30), "850.00", 150},
	{"F102", domain.TravelTypeFlight, "London", "Paris", at(2025, 10, 21, 14, 0), "120.00", 80},
	{"F103", domain.TravelTypeFlight, "Tokyo", "New York", at(2025, 10, 22, 18, 45), "1200.00", 200},
	{"T201", domain.TravelTypeTrain, "Paris", "Berlin", at(2025, 10, 25, 7, 15), "95.50", 100},
	{"T202", domain.TravelTypeTrain, "Berlin", "Rome", at(2025, 10, 26, 11, 20), "150.00", 75},
	{"T203", domain.TravelTypeTrain, "Rome", "Madrid", at(2025, 10, 27, 20, 0), "110.00", 60},
	{"B301", domain.TravelTypeBus, "London", "Manchester", at(2025, 10, 28, 10, 0), "30.00", 50},
	{"B302", domain.TravelTypeBus, "Manchester", "Edinburgh", at(2025, 10, 29, 12, 30), "45.00", 40},
	{"F-DEL-BOM", domain.TravelTypeFlight, "Delhi", "Maharashtra", at(2025, 11, 15, 10, 0), "5500.00", 180},
	{"F-MAA-BLR", domain.TravelTypeFlight, "Tamil Nadu", "Karnataka", at(2025, 11, 16, 15, 30), "3200.00", 120},
	{"F-KOL-HYD", domain.TravelTypeFlight, "West Bengal", "Telangana", at(2025, 11, 17, 18, 0), "4800.00", 150},
	{"F-JAI-CCU", domain.TravelTypeFlight, "Rajasthan", "West Bengal", at(2025, 11, 18, 12, 45), "6100.00", 165},
	{"T-NDLS-LKO", domain.TravelTypeTrain, "Delhi", "Uttar Pradesh", at(2025, 11, 20, 7, 0), "850.00", 300},
	{"T-PAT-RNC", domain.TravelTypeTrain, "Bihar", "Jharkhand", at(2025, 11, 21, 9, 30), "650.00", 250},
	{"T-BBS-PUN", domain.TravelTypeTrain, "Odisha", "Punjab", at(2025, 11, 22, 14, 10), "1500.00", 200},
	{"T-GHY-AGL", domain.TravelTypeTrain, "Assam", "Tripura", at(2025, 11, 23, 19, 20), "780.00", 180},
	{"B-CHD-KAS", domain.TravelTypeBus, "Chandigarh", "Himachal Pradesh", at(2025, 11, 25, 6, 0), "450.00", 45},
	{"B-GOA-PUNE", domain.TravelTypeBus, "Goa", "Maharashtra", at(2025, 11, 26, 8, 30), "650.00", 55},
	{"B-TVM-MDU", domain.TravelTypeBus, "Kerala", "Tamil Nadu", at(2025, 11, 27, 22, 0), "580.00", 50},
	{"B-DEL-JNK", domain.TravelTypeBus, "Delhi", "Jammu and Kashmir", at(2025, 11, 28, 11, 0), "1800.00", 40},
}

// SeedCatalogue returns the starter catalogue with every seat available.
func SeedCatalogue() []domain.TravelOption {
	options := make([]domain.TravelOption, 0, len(seedOptions))
	for _, s := range seedOptions {
		options = append(options, domain.TravelOption{
			ID:             s.id,
			Type:           s.kind,
			Source:         s.source,
			Destination:    s.destination,
			DepartureTime:  s.departure,
			Price:          domain.MustParseMoney(s.price),
			TotalSeats:     s.seats,
			AvailableSeats: s.seats,
		})
	}
	return options
}

// Seed upserts the starter catalogue.
func Seed(ctx context.Context, repo TravelOptionRepository) (int, error) {
	catalogue := SeedCatalogue()
	for i := range catalogue {
		if err := repo.Upsert(ctx, &catalogue[i]); err != nil {
			return i, err
		}
	}
	return len(catalogue), nil
}
