package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
	"taxibooking/internal/repository"
)

// Service backs the admin fleet and user management endpoints.
type Service struct {
	taxis    TaxiRepository
	routes   RouteRepository
	bookings BookingRepository
	users    UserRepository
	events   Publisher
	loc      *time.Location
	loggerf  func(format string, args ...interface{})
}

func NewService(
	taxis TaxiRepository,
	routes RouteRepository,
	bookings BookingRepository,
	users UserRepository,
	publisher Publisher,
	loc *time.Location,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loc == nil {
		loc = time.Local
	}
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		taxis:    taxis,
		routes:   routes,
		bookings: bookings,
		users:    users,
		events:   publisher,
		loc:      loc,
		loggerf:  loggerf,
	}
}

func (s *Service) AddTaxi(ctx context.Context, adminID int64, req CreateTaxiRequest) (*domain.Taxi, error) {
	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}
	t := &domain.Taxi{
		Name:          strings.TrimSpace(req.Name),
		Model:         strings.TrimSpace(req.Model),
		VehicleNumber: strings.ToUpper(strings.TrimSpace(req.VehicleNumber)),
		Type:          domain.TaxiType(req.TaxiType),
		Capacity:      req.Capacity,
		PricePerKm:    req.PricePerKm,
		DriverName:    strings.TrimSpace(req.DriverName),
		DriverPhone:   strings.TrimSpace(req.DriverPhone),
		Operator:      strings.TrimSpace(req.Operator),
		IsActive:      true,
		IsApproved:    approved,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.taxis.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &domain.ConflictError{Msg: "a taxi with this vehicle number already exists", Err: err}
		}
		return nil, err
	}
	s.loggerf("level=info msg=taxi added taxi_id=%d vehicle=%s by=%d", t.ID, t.VehicleNumber, adminID)
	return t, nil
}

func (s *Service) ListTaxis(ctx context.Context) ([]domain.Taxi, error) {
	return s.taxis.List(ctx)
}

// SetTaxiApproval controls whether a taxi appears in search and featured lists.
func (s *Service) SetTaxiApproval(ctx context.Context, taxiID, adminID int64, approved bool) (*domain.Taxi, error) {
	t, err := s.taxis.SetApproval(ctx, taxiID, approved)
	if err != nil {
		return nil, notFoundAs("taxi", err)
	}
	s.loggerf("level=info msg=taxi approval changed taxi_id=%d approved=%t by=%d", taxiID, approved, adminID)
	s.catalogChanged(ctx, taxiID, 0)
	return t, nil
}

func (s *Service) AddRoute(ctx context.Context, adminID int64, req CreateRouteRequest) (*domain.Route, error) {
	if _, err := s.taxis.GetByID(ctx, req.TaxiID); err != nil {
		return nil, notFoundAs("taxi", err)
	}
	r := &domain.Route{
		TaxiID:        req.TaxiID,
		Source:        strings.TrimSpace(req.Source),
		Destination:   strings.TrimSpace(req.Destination),
		DepartureTime: strings.TrimSpace(req.DepartureTime),
		ArrivalTime:   strings.TrimSpace(req.ArrivalTime),
		Duration:      strings.TrimSpace(req.Duration),
		DistanceKm:    req.DistanceKm,
		Price:         req.Price,
		Offers:        strings.TrimSpace(req.Offers),
		Discount:      req.Discount,
		IsActive:      true,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.routes.Create(ctx, r); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=route added route_id=%d taxi_id=%d by=%d", r.ID, r.TaxiID, adminID)
	s.catalogChanged(ctx, r.TaxiID, r.ID)
	return r, nil
}

// catalogChanged tells search that cached results may list the wrong routes.
func (s *Service) catalogChanged(ctx context.Context, taxiID, routeID int64) {
	if s.events == nil {
		return
	}
	e := events.New(events.CatalogChanged)
	e.TaxiID = taxiID
	e.RouteID = routeID
	s.events.Publish(ctx, e)
}

func (s *Service) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.routes.List(ctx)
}

// ListBookings filters by status, ride date ("YYYY-MM-DD") and taxi. Empty
// arguments are ignored.
func (s *Service) ListBookings(ctx context.Context, status, date string, taxiID int64) ([]domain.Booking, error) {
	f := repository.BookingFilter{Status: domain.BookingStatus(strings.ToLower(strings.TrimSpace(status))), TaxiID: taxiID}
	if f.Status != "" && !f.Status.Valid() {
		return nil, &domain.ValidationError{Field: "status", Msg: "must be one of confirmed, cancelled, completed"}
	}
	if date = strings.TrimSpace(date); date != "" {
		w, err := domain.ParseDay(date, s.loc)
		if err != nil {
			return nil, err
		}
		f.Day = w.Key()
	}
	return s.bookings.List(ctx, f)
}

func (s *Service) GetStatistics(ctx context.Context) (*domain.PlatformStats, error) {
	return s.bookings.Stats(ctx)
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleUser)
}

func (s *Service) SetUserActive(ctx context.Context, userID, adminID int64, active bool) (*domain.User, error) {
	if userID == adminID && !active {
		return nil, &domain.ValidationError{Msg: "admins cannot deactivate themselves"}
	}
	u, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return nil, notFoundAs("user", err)
	}
	s.loggerf("level=info msg=user status changed user_id=%d active=%t by=%d", userID, active, adminID)
	return u, nil
}

func notFoundAs(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}
