package booking

import (
	"context"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
)

// BookingStore persists bookings. Insert reports repository.ErrDoubleBooking
// and repository.ErrDuplicateCode; Update reports repository.ErrStale.
type BookingStore interface {
	Insert(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindConflicting(ctx context.Context, taxiID, routeID int64, window domain.DayWindow, status domain.BookingStatus) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type TaxiReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Taxi, error)
}

type RouteReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, e events.Event)
}
