package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) DB() *gorm.DB {
	return r.db
}

// All склад в текущем порядке позиций.
func (r *StockRepository) All(ctx context.Context) ([]entity.StockItem, error) {
	var out []entity.StockItem
	err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *StockRepository) ByID(ctx context.Context, id string) (*entity.StockItem, error) {
	var item entity.StockItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ByIMEI ищет позицию по IMEI, пробелы внутри значения игнорируются.
func (r *StockRepository) ByIMEI(ctx context.Context, imei string) (*entity.StockItem, error) {
	needle := strings.Join(strings.Fields(imei), "")
	if needle == "" {
		return nil, ErrNotFound
	}
	items, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if strings.Join(strings.Fields(items[i].IMEI), "") == needle {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *StockRepository) ExistsIMEI(ctx context.Context, imei string) (bool, error) {
	_, err := r.ByIMEI(ctx, imei)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *StockRepository) Create(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *StockRepository) Update(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Patch частичное обновление позиции.
func (r *StockRepository) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&entity.StockItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IDs все идентификаторы склада, для выдачи следующего номера.
func (r *StockRepository) IDs(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&entity.StockItem{}).Pluck("id", &out).Error
	return out, err
}

// MaxPosition текущая верхняя позиция.
func (r *StockRepository) MaxPosition(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&entity.StockItem{}).Select("MAX(position)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

// UpdatePositions переписывает позиции одним батчем в транзакции.
func (r *StockRepository) UpdatePositions(ctx context.Context, positions map[string]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			if err := tx.Model(&entity.StockItem{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
