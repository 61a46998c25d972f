package repository

import (
	"context"
	"errors"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type DictionaryRepository struct {
	db *gorm.DB
}

func NewDictionaryRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

// Values значения словаря в порядке ведения.
func (r *DictionaryRepository) Values(ctx context.Context, category string) ([]entity.DictValue, error) {
	var out []entity.DictValue
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("position ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ValueStrings только строки значений словаря.
func (r *DictionaryRepository) ValueStrings(ctx context.Context, category string) ([]string, error) {
	vals, err := r.Values(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.Value)
	}
	return out, nil
}

func (r *DictionaryRepository) Staff(ctx context.Context) ([]entity.Staff, error) {
	var out []entity.Staff
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// StaffByName профиль сотрудника по имени; nil без ошибки, если не найден.
func (r *DictionaryRepository) StaffByName(ctx context.Context, name string) (*entity.Staff, error) {
	var out entity.Staff
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// StaffColorMap имя сотрудника -> цвет для интерфейса.
func (r *DictionaryRepository) StaffColorMap(ctx context.Context) (map[string]string, error) {
	staff, err := r.Staff(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(staff))
	for _, s := range staff {
		if s.Color != "" {
			out[s.Name] = s.Color
		}
	}
	return out, nil
}

func (r *DictionaryRepository) Stores(ctx context.Context) ([]entity.Store, error) {
	var out []entity.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// StorePreDayMap магазин -> ставка за выход.
func (r *DictionaryRepository) StorePreDayMap(ctx context.Context) (map[string]float64, error) {
	stores, err := r.Stores(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(stores))
	for _, s := range stores {
		if s.PreDay != 0 {
			out[s.Name] = s.PreDay
		}
	}
	return out, nil
}
