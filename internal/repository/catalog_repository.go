package repository

import (
	"context"
	"strings"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// All каталог в порядке ведения; порядок задает сортировку склада.
func (r *CatalogRepository) All(ctx context.Context) ([]entity.CatalogEntry, error) {
	var out []entity.CatalogEntry
	err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&out).Error
	return out, err
}

// PriceFor цена связки из каталога: продажная, иначе предзаказная.
// Сравнение без учета регистра и пробелов по краям.
func (r *CatalogRepository) PriceFor(ctx context.Context, model, memory, color string) (float64, bool, error) {
	entries, err := r.All(ctx)
	if err != nil {
		return 0, false, err
	}
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	for _, e := range entries {
		if norm(e.ModelName) == norm(model) && norm(e.Memory) == norm(memory) && norm(e.Color) == norm(color) {
			if e.SalePrice > 0 {
				return e.SalePrice, true, nil
			}
			if e.PrePrice > 0 {
				return e.PrePrice, true, nil
			}
			return 0, false, nil
		}
	}
	return 0, false, nil
}
