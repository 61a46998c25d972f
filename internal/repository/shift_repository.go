package repository

import (
	"context"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) All(ctx context.Context) ([]entity.Shift, error) {
	var out []entity.Shift
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&out).Error
	return out, err
}

func (r *ShiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

// IDs для выдачи следующего номера смены.
func (r *ShiftRepository) IDs(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&entity.Shift{}).Pluck("id", &out).Error
	return out, err
}
