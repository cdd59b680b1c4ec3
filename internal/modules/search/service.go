package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taxibooking/internal/domain"
	"taxibooking/internal/repository"
)

const (
	defaultFeaturedLimit = 6
	maxFeaturedLimit     = 50
)

type Config struct {
	Location *time.Location
	// ExactMatch compares source and destination whole instead of as substrings.
	ExactMatch bool
}

type Service struct {
	routes   RouteFinder
	taxis    TaxiFinder
	bookings AvailabilityChecker
	cache    Cache

	loc     *time.Location
	exact   bool
	loggerf func(format string, args ...interface{})
}

// NewService builds the search service. cache may be nil.
func NewService(routes RouteFinder, taxis TaxiFinder, bookings AvailabilityChecker, cache Cache, cfg Config, loggerf func(format string, args ...interface{})) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		routes:   routes,
		taxis:    taxis,
		bookings: bookings,
		cache:    cache,
		loc:      cfg.Location,
		exact:    cfg.ExactMatch,
		loggerf:  loggerf,
	}
}

// SearchAvailability lists active routes between source and destination that
// have no confirmed booking on date. Booked routes are left out entirely.
func (s *Service) SearchAvailability(ctx context.Context, source, destination, date string) ([]domain.RouteAvailability, error) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	if source == "" || destination == "" || strings.TrimSpace(date) == "" {
		return nil, &domain.ValidationError{Msg: "Please provide source, destination, and date"}
	}

	window, err := domain.ParseDay(strings.TrimSpace(date), s.loc)
	if err != nil {
		return nil, err
	}

	query := s.cacheQuery(source, destination)
	cached, version, ok := s.fromCache(ctx, window.Key(), query)
	if ok {
		return cached, nil
	}

	routes, err := s.routes.SearchActive(ctx, source, destination, s.exact)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RouteAvailability, 0, len(routes))
	if len(routes) > 0 {
		routeIDs := make([]int64, 0, len(routes))
		taxiIDs := make([]int64, 0, len(routes))
		for _, r := range routes {
			routeIDs = append(routeIDs, r.ID)
			taxiIDs = append(taxiIDs, r.TaxiID)
		}

		booked, err := s.bookings.BookedRouteIDs(ctx, routeIDs, window)
		if err != nil {
			return nil, err
		}
		taxis, err := s.taxis.GetByIDs(ctx, taxiIDs)
		if err != nil {
			return nil, err
		}

		for _, r := range routes {
			if booked[r.ID] {
				continue
			}
			taxi, ok := taxis[r.TaxiID]
			if !ok || !taxi.Bookable() {
				continue
			}
			out = append(out, domain.RouteAvailability{
				RouteID:        r.ID,
				Taxi:           taxi,
				Source:         r.Source,
				Destination:    r.Destination,
				DepartureTime:  r.DepartureTime,
				ArrivalTime:    r.ArrivalTime,
				Duration:       r.Duration,
				DistanceKm:     r.DistanceKm,
				Price:          r.Price,
				IsAvailable:    true,
				AvailableSeats: taxi.Capacity,
				Offers:         r.Offers,
				Discount:       r.Discount,
			})
		}
	}

	s.toCache(ctx, window.Key(), query, version, out)
	return out, nil
}

func (s *Service) cacheQuery(source, destination string) string {
	mode := "substring"
	if s.exact {
		mode = "exact"
	}
	return mode + "|" + strings.ToLower(source) + "|" + strings.ToLower(destination)
}

// fromCache returns the cached result on a hit. On a miss it returns the
// version to store the fresh result under, or nil when the cache is unusable.
func (s *Service) fromCache(ctx context.Context, day, query string) ([]domain.RouteAvailability, *Version, bool) {
	if s.cache == nil {
		return nil, nil, false
	}
	bs, v, ok, err := s.cache.Get(ctx, day, query)
	if err != nil {
		s.loggerf("level=warn msg=search cache read failed day=%s err=%v", day, err)
		return nil, nil, false
	}
	if !ok {
		return nil, &v, false
	}
	var out []domain.RouteAvailability
	if err := json.Unmarshal(bs, &out); err != nil {
		s.loggerf("level=warn msg=search cache entry unreadable day=%s err=%v", day, err)
		return nil, &v, false
	}
	return out, &v, true
}

func (s *Service) toCache(ctx context.Context, day, query string, v *Version, out []domain.RouteAvailability) {
	if v == nil {
		return
	}
	bs, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, day, query, *v, bs); err != nil {
		s.loggerf("level=warn msg=search cache write failed day=%s err=%v", day, err)
	}
}

// FeaturedTaxis returns the best rated bookable taxis. limit <= 0 means the default of 6.
func (s *Service) FeaturedTaxis(ctx context.Context, limit int) ([]domain.Taxi, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}
	return s.taxis.Featured(ctx, limit)
}

type TaxiDetails struct {
	Taxi   *domain.Taxi   `json:"taxi"`
	Routes []domain.Route `json:"routes"`
}

func (s *Service) TaxiDetails(ctx context.Context, taxiID int64) (*TaxiDetails, error) {
	taxi, err := s.taxis.GetByID(ctx, taxiID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "taxi", Err: err}
		}
		return nil, err
	}
	routes, err := s.routes.ListActiveByTaxi(ctx, taxiID)
	if err != nil {
		return nil, err
	}
	return &TaxiDetails{Taxi: taxi, Routes: routes}, nil
}
