package review

import (
	"context"
	"errors"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
	"taxibooking/internal/repository"
)

type BookingGate interface {
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *domain.Review) error
	ListByTaxi(ctx context.Context, taxiID int64) ([]domain.Review, error)
}

type Publisher interface {
	Publish(ctx context.Context, e events.Event)
}

type Service struct {
	reviews  ReviewStore
	bookings BookingGate
	events   Publisher
	loggerf  func(format string, args ...interface{})
}

func NewService(reviews ReviewStore, bookings BookingGate, publisher Publisher, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{reviews: reviews, bookings: bookings, events: publisher, loggerf: loggerf}
}

// Submit records the passenger's rating of the taxi that served bookingID.
// Taxi aggregates are updated by the rating subscriber after commit.
func (s *Service) Submit(ctx context.Context, userID, bookingID int64, rating int, comment string) (*domain.Review, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, err
	}
	if !b.OwnedBy(userID) {
		return nil, &domain.AuthorizationError{Action: "review this booking"}
	}
	if b.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}

	rv, err := domain.NewReview(userID, b.TaxiID, b.ID, rating, comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &domain.ConflictError{Msg: "You have already reviewed this booking", Err: err}
		}
		return nil, err
	}

	s.loggerf("level=info msg=review submitted review_id=%d booking_id=%d taxi_id=%d rating=%d", rv.ID, b.ID, b.TaxiID, rv.Rating)
	if s.events != nil {
		e := events.New(events.ReviewSubmitted)
		e.BookingID = b.ID
		e.BookingCode = b.Code
		e.UserID = userID
		e.TaxiID = b.TaxiID
		e.RouteID = b.RouteID
		e.Rating = rv.Rating
		s.events.Publish(ctx, e)
	}
	return rv, nil
}

func (s *Service) ListByTaxi(ctx context.Context, taxiID int64) ([]domain.Review, error) {
	if taxiID <= 0 {
		return nil, &domain.ValidationError{Field: "taxiId", Msg: "is required"}
	}
	return s.reviews.ListByTaxi(ctx, taxiID)
}
