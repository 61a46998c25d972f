package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/ident"
	"github.com/mobigrad/teleshop/internal/money"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/repository"
)

// SaleService журнал продаж. Продажа телефона помечает позицию склада
// проданной, продажа аксессуара списывает остаток.
type SaleService struct {
	repos *repository.Repositories
	stock *StockService
	lock  *oplock.Lock
	cache *cache.Cache
	loc   *time.Location
}

func NewSaleService(repos *repository.Repositories, stock *StockService, lock *oplock.Lock, c *cache.Cache, loc *time.Location) *SaleService {
	return &SaleService{repos: repos, stock: stock, lock: lock, cache: c, loc: loc}
}

// SaleInput новая продажа.
type SaleInput struct {
	Date      string          `json:"date"`
	Store     string          `json:"store"`
	Staff     string          `json:"staff"`
	ItemType  string          `json:"item_type"`
	Condition string          `json:"condition"`
	ModelName string          `json:"model_name"`
	Memory    string          `json:"memory"`
	Color     string          `json:"color"`
	IMEIOrSKU string          `json:"imei_or_sku"`
	Total     float64         `json:"total"`
	Payments  []money.Payment `json:"payments"`
	Sdacha    string          `json:"sdacha"`
	Customer  string          `json:"customer"`
	Phone     string          `json:"phone"`
	Zarplata  float64         `json:"zarplata"`
	Note      string          `json:"note"`
}

func (in *SaleInput) validate() error {
	if strings.TrimSpace(in.Store) == "" || strings.TrimSpace(in.Staff) == "" {
		return fmt.Errorf("%w: магазин и сотрудник обязательны", ErrValidation)
	}
	switch in.ItemType {
	case entity.ItemPhone:
		if strings.TrimSpace(in.IMEIOrSKU) == "" {
			return fmt.Errorf("%w: для продажи телефона нужен IMEI", ErrValidation)
		}
		if strings.TrimSpace(in.Condition) == "" {
			return fmt.Errorf("%w: не указано состояние", ErrValidation)
		}
	case entity.ItemAccessory:
		if strings.TrimSpace(in.IMEIOrSKU) == "" {
			return fmt.Errorf("%w: для продажи аксессуара нужен артикул", ErrValidation)
		}
	case entity.ItemService:
	default:
		return fmt.Errorf("%w: неизвестный тип товара %q", ErrValidation, in.ItemType)
	}
	if in.Total < 0 {
		return fmt.Errorf("%w: сумма не может быть отрицательной", ErrValidation)
	}
	return nil
}

// Create проводит продажу и ее складские эффекты под общим замком.
func (s *SaleService) Create(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	total := money.Round2(in.Total)
	switch in.ItemType {
	case entity.ItemPhone:
		item, err := s.stock.MarkSold(ctx, in.IMEIOrSKU, in.Condition)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.ModelName) == "" {
			in.ModelName, in.Memory, in.Color = item.ModelName, item.Memory, item.Color
		}
	case entity.ItemAccessory:
		acc, err := s.repos.Accessory.BySKU(ctx, strings.TrimSpace(in.IMEIOrSKU))
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if acc.Qty <= 0 {
			return nil, ErrNoStock
		}
		acc.Qty--
		if err := s.repos.Accessory.Update(ctx, acc); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.ModelName) == "" {
			in.ModelName = acc.ModelName
		}
	case entity.ItemService:
		// услуга не имеет склада; сумма равна внесенным платежам
		total = money.Round2(money.Sum(in.Payments))
	}

	sale := &entity.Sale{
		ID:        ident.SaleID(nowFunc().In(s.loc)),
		Date:      dateutil.NormalizeOrToday(in.Date, s.loc),
		Store:     strings.TrimSpace(in.Store),
		Staff:     strings.TrimSpace(in.Staff),
		ItemType:  in.ItemType,
		Condition: strings.TrimSpace(in.Condition),
		ModelName: strings.TrimSpace(in.ModelName),
		Memory:    strings.TrimSpace(in.Memory),
		Color:     strings.TrimSpace(in.Color),
		IMEIOrSKU: strings.TrimSpace(in.IMEIOrSKU),
		Total:     total,
		Payments:  money.Serialize(in.Payments),
		Sdacha:    in.Sdacha,
		Customer:  strings.TrimSpace(in.Customer),
		Phone:     strings.TrimSpace(in.Phone),
		Zarplata:  money.Round2(in.Zarplata),
		Note:      in.Note,
	}
	if err := s.repos.Sale.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.cache.Del(ctx, cache.KeyAvailability, cache.KeyDaily)
	s.cache.PutJSON(ctx, cache.KeyShiftsBump, nowFunc().UnixNano(), 24*time.Hour)
	if in.ItemType == entity.ItemPhone {
		s.stock.SortAsync()
	}
	return sale, nil
}

// List журнал в порядке записи.
func (s *SaleService) List(ctx context.Context) ([]entity.Sale, error) {
	return s.repos.Sale.All(ctx)
}
