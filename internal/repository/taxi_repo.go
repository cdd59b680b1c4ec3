package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type TaxiRepository struct {
	db *gorm.DB
}

func NewTaxiRepository(db *gorm.DB) *TaxiRepository {
	return &TaxiRepository{db: db}
}

func (r *TaxiRepository) Create(ctx context.Context, t *domain.Taxi) error {
	t.VehicleNumber = strings.ToUpper(strings.TrimSpace(t.VehicleNumber))
	m := toTaxiModel(t)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return ErrDuplicate
		}
		return err
	}
	*t = *toDomainTaxi(m)
	return nil
}

func (r *TaxiRepository) GetByID(ctx context.Context, id int64) (*domain.Taxi, error) {
	var m taxiModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainTaxi(m), nil
}

func (r *TaxiRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Taxi, error) {
	out := make(map[int64]*domain.Taxi, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []taxiModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainTaxi(m)
	}
	return out, nil
}

// Featured returns active, approved taxis, best rated and newest first.
func (r *TaxiRepository) Featured(ctx context.Context, limit int) ([]domain.Taxi, error) {
	var rows []taxiModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_approved = ?", true, true).
		Order("rating DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Taxi, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTaxi(m))
	}
	return out, nil
}

func (r *TaxiRepository) UpdateRating(ctx context.Context, s domain.RatingSummary) error {
	tx := r.db.WithContext(ctx).
		Model(&taxiModel{}).
		Where("id = ?", s.TaxiID).
		Updates(map[string]any{
			"rating":       s.Average,
			"review_count": s.Count,
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
