package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("запись не найдена")

// Repositories набор репозиториев.
type Repositories struct {
	Dictionary *DictionaryRepository
	Catalog    *CatalogRepository
	Stock      *StockRepository
	Accessory  *AccessoryRepository
	Sale       *SaleRepository
	Shift      *ShiftRepository
	Preorder   *PreorderRepository
	Diagnostic *DiagnosticRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Dictionary: NewDictionaryRepository(db),
		Catalog:    NewCatalogRepository(db),
		Stock:      NewStockRepository(db),
		Accessory:  NewAccessoryRepository(db),
		Sale:       NewSaleRepository(db),
		Shift:      NewShiftRepository(db),
		Preorder:   NewPreorderRepository(db),
		Diagnostic: NewDiagnosticRepository(db),
	}
}
