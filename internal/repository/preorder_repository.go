package repository

import (
	"context"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type PreorderRepository struct {
	db *gorm.DB
}

func NewPreorderRepository(db *gorm.DB) *PreorderRepository {
	return &PreorderRepository{db: db}
}

// All все строки журнала в порядке записи.
func (r *PreorderRepository) All(ctx context.Context) ([]entity.PreorderEvent, error) {
	var out []entity.PreorderEvent
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&out).Error
	return out, err
}

// ByID строки одного предзаказа в порядке записи.
func (r *PreorderRepository) ByID(ctx context.Context, id string) ([]entity.PreorderEvent, error) {
	var out []entity.PreorderEvent
	err := r.db.WithContext(ctx).Where("id = ?", id).Order("seq ASC").Find(&out).Error
	return out, err
}

// Append дописывает строку истории; существующие строки не меняются.
func (r *PreorderRepository) Append(ctx context.Context, ev *entity.PreorderEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

// SetIMEIFirstRow пишет IMEI в первую строку предзаказа.
func (r *PreorderRepository) SetIMEIFirstRow(ctx context.Context, id, imei string) error {
	rows, err := r.ByID(ctx, id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Model(&entity.PreorderEvent{}).
		Where("seq = ?", rows[0].Seq).
		Update("pre_imei", imei).Error
}

// IDs для выдачи следующего номера предзаказа.
func (r *PreorderRepository) IDs(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&entity.PreorderEvent{}).Distinct("id").Pluck("id", &out).Error
	return out, err
}
