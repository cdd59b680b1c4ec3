package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"taxibooking/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userModel{
		Name:         strings.TrimSpace(u.Name),
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Phone:        strPtr(u.Phone),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     true,
	}
	if m.Role == "" {
		m.Role = string(domain.RoleUser)
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return ErrDuplicate
		}
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, notFound(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainUser(m), nil
}
