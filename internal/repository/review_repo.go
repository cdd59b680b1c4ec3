package repository

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		UserID:    rv.UserID,
		TaxiID:    rv.TaxiID,
		BookingID: rv.BookingID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return ErrDuplicate
		}
		return err
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ListByTaxi(ctx context.Context, taxiID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("taxi_id = ?", taxiID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

// Summarize averages a taxi's ratings, rounded to one decimal.
func (r *ReviewRepository) Summarize(ctx context.Context, taxiID int64) (domain.RatingSummary, error) {
	var row struct {
		Avg   *float64 `gorm:"column:avg"`
		Count int      `gorm:"column:cnt"`
	}
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Select("AVG(rating) AS avg, COUNT(*) AS cnt").
		Where("taxi_id = ?", taxiID).
		Scan(&row).Error
	if err != nil {
		return domain.RatingSummary{}, err
	}

	s := domain.RatingSummary{TaxiID: taxiID, Count: row.Count}
	if row.Avg != nil && row.Count > 0 {
		s.Average = math.Round(*row.Avg*10) / 10
	}
	return s, nil
}
