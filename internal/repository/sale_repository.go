package repository

import (
	"context"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// All журнал продаж в порядке записи.
func (r *SaleRepository) All(ctx context.Context) ([]entity.Sale, error) {
	var out []entity.Sale
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&out).Error
	return out, err
}

func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}
