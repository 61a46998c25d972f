package repository

import (
	"context"
	"errors"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type AccessoryRepository struct {
	db *gorm.DB
}

func NewAccessoryRepository(db *gorm.DB) *AccessoryRepository {
	return &AccessoryRepository{db: db}
}

func (r *AccessoryRepository) All(ctx context.Context) ([]entity.AccessoryItem, error) {
	var out []entity.AccessoryItem
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *AccessoryRepository) BySKU(ctx context.Context, sku string) (*entity.AccessoryItem, error) {
	var item entity.AccessoryItem
	err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *AccessoryRepository) Create(ctx context.Context, item *entity.AccessoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *AccessoryRepository) Update(ctx context.Context, item *entity.AccessoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
