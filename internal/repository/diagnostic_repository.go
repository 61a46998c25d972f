package repository

import (
	"context"

	"github.com/mobigrad/teleshop/internal/entity"
	"gorm.io/gorm"
)

type DiagnosticRepository struct {
	db *gorm.DB
}

func NewDiagnosticRepository(db *gorm.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

func (r *DiagnosticRepository) All(ctx context.Context) ([]entity.DiagnosticRow, error) {
	var out []entity.DiagnosticRow
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&out).Error
	return out, err
}

func (r *DiagnosticRepository) ByID(ctx context.Context, id string) ([]entity.DiagnosticRow, error) {
	var out []entity.DiagnosticRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Order("seq ASC").Find(&out).Error
	return out, err
}

func (r *DiagnosticRepository) Append(ctx context.Context, row *entity.DiagnosticRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// PatchFirst правит первую строку заявки на месте.
func (r *DiagnosticRepository) PatchFirst(ctx context.Context, id string, patch entity.DiagnosticPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	rows, err := r.ByID(ctx, id)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Model(&entity.DiagnosticRow{}).
		Where("seq = ?", rows[0].Seq).
		Updates(fields).Error
}

// IDs для выдачи следующего номера заявки.
func (r *DiagnosticRepository) IDs(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&entity.DiagnosticRow{}).Distinct("id").Pluck("id", &out).Error
	return out, err
}
