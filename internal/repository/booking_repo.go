package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Insert stores a new booking. Unique violations come back as ErrDoubleBooking
// or ErrDuplicateCode so the caller can tell a lost race from a code collision.
func (r *BookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.Version = 1

	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return classifyBookingInsert(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) FindByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

// FindConflicting returns a booking in the given status for the same taxi and
// route on the window's day, or ErrNotFound.
func (r *BookingRepository) FindConflicting(ctx context.Context, taxiID, routeID int64, window domain.DayWindow, status domain.BookingStatus) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Where("taxi_id = ? AND route_id = ?", taxiID, routeID).
		Where("ride_day = ?", window.Key()).
		Where("booking_status = ?", string(status)).
		Take(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

// Update writes the mutable fields of b if nobody else changed the row since it
// was read. On success b.Version is bumped.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]any{
			"payment_status":      string(b.PaymentStatus),
			"payment_method":      strPtr(string(b.PaymentMethod)),
			"transaction_id":      strPtr(b.TransactionID),
			"booking_status":      string(b.Status),
			"cancellation_reason": strPtr(b.CancellationReason),
			"cancelled_at":        b.CancelledAt,
			"refund_amount":       b.RefundAmount,
			"version":             b.Version + 1,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", b.ID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrNotFound
		}
		return ErrStale
	}
	b.Version++
	b.UpdatedAt = now
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// BookedRouteIDs returns which of routeIDs already have a confirmed booking on
// the window's day.
func (r *BookingRepository) BookedRouteIDs(ctx context.Context, routeIDs []int64, window domain.DayWindow) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(routeIDs) == 0 {
		return out, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Distinct("route_id").
		Where("route_id IN ?", routeIDs).
		Where("ride_day = ?", window.Key()).
		Where("booking_status = ?", string(domain.BookingConfirmed)).
		Pluck("route_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
