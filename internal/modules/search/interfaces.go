package search

import (
	"context"

	"taxibooking/internal/domain"
)

type RouteFinder interface {
	SearchActive(ctx context.Context, source, destination string, exact bool) ([]domain.Route, error)
	ListActiveByTaxi(ctx context.Context, taxiID int64) ([]domain.Route, error)
}

type TaxiFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Taxi, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Taxi, error)
	Featured(ctx context.Context, limit int) ([]domain.Taxi, error)
}

type AvailabilityChecker interface {
	BookedRouteIDs(ctx context.Context, routeIDs []int64, window domain.DayWindow) (map[int64]bool, error)
}

// Version identifies the generation of a day's cached results. Results are
// stored under the version read before they were computed.
type Version struct {
	Catalog int64
	Day     int64
}

// Cache stores serialized search results per ride day. Entries of a day are
// dropped together when that day's availability changes, and all entries
// when the catalog changes.
type Cache interface {
	Get(ctx context.Context, day, query string) ([]byte, Version, bool, error)
	Set(ctx context.Context, day, query string, v Version, payload []byte) error
	Invalidate(ctx context.Context, day string) error
	InvalidateAll(ctx context.Context) error
}
