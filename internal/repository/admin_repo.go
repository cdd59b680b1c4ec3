package repository

import (
	"context"
	"time"

	"taxibooking/internal/domain"
)

// BookingFilter narrows the admin booking list. Zero values are ignored.
type BookingFilter struct {
	Status domain.BookingStatus
	Day    string
	TaxiID int64
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if f.Status != "" {
		q = q.Where("booking_status = ?", string(f.Status))
	}
	if f.Day != "" {
		q = q.Where("ride_day = ?", f.Day)
	}
	if f.TaxiID > 0 {
		q = q.Where("taxi_id = ?", f.TaxiID)
	}

	var rows []bookingModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// Stats aggregates the admin dashboard counters.
func (r *BookingRepository) Stats(ctx context.Context) (*domain.PlatformStats, error) {
	db := r.db.WithContext(ctx)
	var s domain.PlatformStats

	var byStatus []struct {
		Status string `gorm:"column:booking_status"`
		N      int64  `gorm:"column:n"`
	}
	if err := db.Model(&bookingModel{}).
		Select("booking_status, COUNT(*) AS n").
		Group("booking_status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		s.Bookings.Total += row.N
		switch domain.BookingStatus(row.Status) {
		case domain.BookingConfirmed:
			s.Bookings.Confirmed = row.N
		case domain.BookingCancelled:
			s.Bookings.Cancelled = row.N
		case domain.BookingCompleted:
			s.Bookings.Completed = row.N
		}
	}

	if err := db.Model(&bookingModel{}).
		Where("payment_status = ?", string(domain.PaymentCompleted)).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&s.Revenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&taxiModel{}).Count(&s.Taxis).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&routeModel{}).Count(&s.Routes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&userModel{}).Where("role = ?", string(domain.RoleUser)).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TaxiRepository) List(ctx context.Context) ([]domain.Taxi, error) {
	var rows []taxiModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Taxi, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTaxi(m))
	}
	return out, nil
}

// SetApproval flips is_approved and returns the updated taxi.
func (r *TaxiRepository) SetApproval(ctx context.Context, id int64, approved bool) (*domain.Taxi, error) {
	tx := r.db.WithContext(ctx).
		Model(&taxiModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_approved": approved, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *RouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	var rows []routeModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Route, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoute(m))
	}
	return out, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		u := toDomainUser(m)
		u.PasswordHash = ""
		out = append(out, *u)
	}
	return out, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("is_active", active)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}
