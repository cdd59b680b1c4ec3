package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
	"taxibooking/internal/repository"
)

const (
	defaultCodeAttempts     = 3
	defaultCancelReason     = "User cancelled"
	transactionIDPrefix     = "TXN"
	msgAlreadyBooked        = "This taxi is already booked for the selected date and route"
	msgCodeCollision        = "could not allocate a unique booking id, please retry"
	msgConcurrentlyModified = "booking was modified by another request, please retry"
)

type Config struct {
	// Location is the timezone that defines a ride's calendar day.
	Location *time.Location
	// CodeAttempts bounds booking code regeneration on collision.
	CodeAttempts int
}

type Service struct {
	bookings BookingStore
	taxis    TaxiReader
	routes   RouteReader
	users    UserReader
	events   Publisher
	codes    *CodeGenerator

	loc          *time.Location
	codeAttempts int
	now          func() time.Time
	loggerf      func(format string, args ...interface{})
}

func NewService(
	bookings BookingStore,
	taxis TaxiReader,
	routes RouteReader,
	users UserReader,
	publisher Publisher,
	cfg Config,
	loggerf func(format string, args ...interface{}),
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = defaultCodeAttempts
	}
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:     bookings,
		taxis:        taxis,
		routes:       routes,
		users:        users,
		events:       publisher,
		codes:        NewCodeGenerator(),
		loc:          cfg.Location,
		codeAttempts: cfg.CodeAttempts,
		now:          time.Now,
		loggerf:      loggerf,
	}
}

// Location is the timezone ride days are computed in.
func (s *Service) Location() *time.Location { return s.loc }

type CreateBookingInput struct {
	UserID         int64
	TaxiID         int64
	RouteID        int64
	RideDate       time.Time
	PassengerCount int
	Passenger      domain.PassengerContact
	Pickup         domain.Stop
	Drop           domain.Stop
}

func (in CreateBookingInput) validate() error {
	switch {
	case in.TaxiID <= 0:
		return &domain.ValidationError{Field: "taxiId", Msg: "is required"}
	case in.RouteID <= 0:
		return &domain.ValidationError{Field: "routeId", Msg: "is required"}
	case in.RideDate.IsZero():
		return &domain.ValidationError{Field: "rideDate", Msg: "is required"}
	case in.PassengerCount == 0:
		return &domain.ValidationError{Field: "passengerCount", Msg: "is required"}
	case in.PassengerCount < domain.MinPassengers || in.PassengerCount > domain.MaxPassengers:
		return &domain.ValidationError{Field: "passengerCount", Msg: fmt.Sprintf("must be between %d and %d", domain.MinPassengers, domain.MaxPassengers)}
	case strings.TrimSpace(in.Passenger.Name) == "":
		return &domain.ValidationError{Field: "passengerName", Msg: "is required"}
	case strings.TrimSpace(in.Passenger.Phone) == "":
		return &domain.ValidationError{Field: "passengerPhone", Msg: "is required"}
	}
	return nil
}

func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, lookupErr("user", err)
	}
	taxi, err := s.taxis.GetByID(ctx, in.TaxiID)
	if err != nil {
		return nil, lookupErr("taxi", err)
	}
	if !taxi.Bookable() {
		return nil, &domain.NotFoundError{Resource: "taxi"}
	}
	route, err := s.routes.GetByID(ctx, in.RouteID)
	if err != nil {
		return nil, lookupErr("route", err)
	}
	if !route.IsActive {
		return nil, &domain.NotFoundError{Resource: "route"}
	}

	window := domain.DayWindowFor(in.RideDate, s.loc)

	// Scoped to taxi+route: one taxi may still serve two different routes on
	// the same day.
	existing, err := s.bookings.FindConflicting(ctx, taxi.ID, route.ID, window, domain.BookingConfirmed)
	switch {
	case err == nil && existing != nil:
		return nil, &domain.ConflictError{Msg: msgAlreadyBooked}
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if in.PassengerCount > taxi.Capacity {
		return nil, &domain.CapacityError{Capacity: taxi.Capacity, Requested: in.PassengerCount}
	}

	// Flat fare per route; pricePerKm and passenger count do not scale it.
	b, err := domain.NewBooking(domain.NewBookingParams{
		UserID:         in.UserID,
		TaxiID:         taxi.ID,
		RouteID:        route.ID,
		RideDate:       in.RideDate,
		Window:         window,
		PassengerCount: in.PassengerCount,
		Passenger:      in.Passenger,
		Pickup:         in.Pickup,
		Drop:           in.Drop,
		TotalAmount:    route.Price,
	})
	if err != nil {
		return nil, err
	}

	if err := s.insertWithFreshCode(ctx, b); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking created booking_id=%d code=%s user_id=%d taxi_id=%d route_id=%d ride_day=%s amount=%d",
		b.ID, b.Code, b.UserID, b.TaxiID, b.RouteID, b.RideDay, b.TotalAmount)
	s.publish(ctx, events.BookingCreated, b)
	return b, nil
}

func (s *Service) insertWithFreshCode(ctx context.Context, b *domain.Booking) error {
	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.codes.Next()
		if err != nil {
			return err
		}
		b.Code = code

		err = s.bookings.Insert(ctx, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrDuplicateCode):
			s.loggerf("level=warn msg=booking code collision code=%s attempt=%d", code, attempt)
			continue
		case errors.Is(err, repository.ErrDoubleBooking):
			return &domain.ConflictError{Msg: msgAlreadyBooked, Err: err}
		default:
			return err
		}
	}
	return &domain.ConflictError{Msg: msgCodeCollision, Retryable: true, Err: repository.ErrDuplicateCode}
}

type CancelResult struct {
	Booking          *domain.Booking `json:"booking"`
	RefundAmount     int64           `json:"refundAmount"`
	RefundPercentage int             `json:"refundPercentage"`
}

func (s *Service) CancelBooking(ctx context.Context, bookingID int64, requester domain.Requester, reason string) (*CancelResult, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, lookupErr("booking", err)
	}
	if !b.OwnedBy(requester.UserID) && !requester.IsAdmin() {
		return nil, &domain.AuthorizationError{Action: "cancel this booking"}
	}
	if b.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}
	if b.Status == domain.BookingCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	now := s.now()
	if b.RideDate.Before(now) {
		return nil, domain.ErrPastBooking
	}

	pct := RefundPercentage(b.RideDate.Sub(now))
	refund := roundHalfUp(RefundAmount(b.TotalAmount, pct))

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	cancelledAt := now.UTC()

	b.Status = domain.BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &cancelledAt
	b.RefundAmount = refund
	if refund > 0 {
		b.PaymentStatus = domain.PaymentRefunded
	}

	if err := s.update(ctx, b); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking cancelled booking_id=%d by=%d refund_pct=%d refund=%d", b.ID, requester.UserID, pct, refund)
	s.publish(ctx, events.BookingCancelled, b)
	return &CancelResult{Booking: b, RefundAmount: refund, RefundPercentage: pct}, nil
}

// ProcessPayment marks a booking paid. No gateway is involved; the caller's
// method and transaction id are trusted as given.
func (s *Service) ProcessPayment(ctx context.Context, bookingID int64, requester domain.Requester, method, transactionID string) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, lookupErr("booking", err)
	}
	if !b.OwnedBy(requester.UserID) {
		return nil, &domain.AuthorizationError{Action: "pay for this booking"}
	}
	pm, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == domain.PaymentCompleted {
		return nil, domain.ErrAlreadyPaid
	}
	if b.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}

	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		transactionID = fmt.Sprintf("%s%d", transactionIDPrefix, s.now().UnixMilli())
	}

	b.PaymentStatus = domain.PaymentCompleted
	b.PaymentMethod = pm
	b.TransactionID = transactionID

	if err := s.update(ctx, b); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=booking paid booking_id=%d method=%s txn=%s", b.ID, pm, transactionID)
	s.publish(ctx, events.BookingPaid, b)
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID int64, requester domain.Requester) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, lookupErr("booking", err)
	}
	if !b.OwnedBy(requester.UserID) && !requester.IsAdmin() {
		return nil, &domain.AuthorizationError{Action: "view this booking"}
	}
	return b, nil
}

func (s *Service) ListUserBookings(ctx context.Context, userID int64, requester domain.Requester) ([]domain.Booking, error) {
	if userID != requester.UserID && !requester.IsAdmin() {
		return nil, &domain.AuthorizationError{Action: "view these bookings"}
	}
	return s.bookings.ListByUser(ctx, userID)
}

// CompleteBooking closes out a ride that took place.
func (s *Service) CompleteBooking(ctx context.Context, bookingID int64, requester domain.Requester) (*domain.Booking, error) {
	if requester.Role != domain.RoleAdmin && requester.Role != domain.RoleDriver {
		return nil, &domain.AuthorizationError{Action: "complete bookings"}
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, lookupErr("booking", err)
	}
	if b.Status != domain.BookingConfirmed {
		return nil, domain.ErrNotConfirmed
	}

	b.Status = domain.BookingCompleted
	if err := s.update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCompleted, b)
	return b, nil
}

func (s *Service) update(ctx context.Context, b *domain.Booking) error {
	err := s.bookings.Update(ctx, b)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStale):
		return &domain.ConflictError{Msg: msgConcurrentlyModified, Retryable: true, Err: err}
	case errors.Is(err, repository.ErrNotFound):
		return &domain.NotFoundError{Resource: "booking", Err: err}
	}
	return err
}

func (s *Service) publish(ctx context.Context, t events.Type, b *domain.Booking) {
	if s.events == nil {
		return
	}
	e := events.New(t)
	e.BookingID = b.ID
	e.BookingCode = b.Code
	e.UserID = b.UserID
	e.TaxiID = b.TaxiID
	e.RouteID = b.RouteID
	e.RideDay = b.RideDay
	e.Amount = b.TotalAmount
	e.RefundAmount = b.RefundAmount
	s.events.Publish(ctx, e)
}

func lookupErr(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}
