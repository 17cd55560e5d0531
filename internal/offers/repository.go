package offers

import (
	"context"
	"errors"

	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Offer, error)
	ListActive(ctx context.Context) ([]Offer, error)
	Create(ctx context.Context, offer *Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementUsage(ctx context.Context, code string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Offer, error) {
	var offer Offer
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("offer", code)
		}
		return nil, err
	}
	return &offer, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Offer, error) {
	var offers []Offer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *repository) Create(ctx context.Context, offer *Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Offer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("offer", id.String())
	}
	return nil
}

// IncrementUsage bumps used_count atomically in the database
func (r *repository) IncrementUsage(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&Offer{}).
		Where("code = ?", code).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
