package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func (r *RouteRepository) Create(ctx context.Context, rt *domain.Route) error {
	m := toRouteModel(rt)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rt = *toDomainRoute(m)
	return nil
}

func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	var m routeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainRoute(m), nil
}

// SearchActive matches source and destination case-insensitively, either as
// substrings or exactly.
func (r *RouteRepository) SearchActive(ctx context.Context, source, destination string, exact bool) ([]domain.Route, error) {
	q := r.db.WithContext(ctx).
		Model(&routeModel{}).
		Where("is_active = ?", true)

	src := strings.ToLower(strings.TrimSpace(source))
	dst := strings.ToLower(strings.TrimSpace(destination))
	if exact {
		q = q.Where("LOWER(source) = ? AND LOWER(destination) = ?", src, dst)
	} else {
		q = q.Where("LOWER(source) LIKE ? ESCAPE '\\'", containsPattern(src)).
			Where("LOWER(destination) LIKE ? ESCAPE '\\'", containsPattern(dst))
	}

	var rows []routeModel
	if err := q.Order("departure_time").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Route, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoute(m))
	}
	return out, nil
}

func (r *RouteRepository) ListActiveByTaxi(ctx context.Context, taxiID int64) ([]domain.Route, error) {
	var rows []routeModel
	err := r.db.WithContext(ctx).
		Where("taxi_id = ? AND is_active = ?", taxiID, true).
		Order("departure_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Route, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoute(m))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
