package admin

import (
	"context"

	"taxibooking/internal/domain"
	"taxibooking/internal/events"
	"taxibooking/internal/repository"
)

type TaxiRepository interface {
	Create(ctx context.Context, t *domain.Taxi) error
	GetByID(ctx context.Context, id int64) (*domain.Taxi, error)
	List(ctx context.Context) ([]domain.Taxi, error)
	SetApproval(ctx context.Context, id int64, approved bool) (*domain.Taxi, error)
}

type RouteRepository interface {
	Create(ctx context.Context, r *domain.Route) error
	List(ctx context.Context) ([]domain.Route, error)
}

type BookingRepository interface {
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	Stats(ctx context.Context) (*domain.PlatformStats, error)
}

type UserRepository interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, e events.Event)
}
