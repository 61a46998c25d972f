package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/ident"
	"github.com/mobigrad/teleshop/internal/money"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/repository"
	"github.com/mobigrad/teleshop/internal/stocksort"
)

// StockService склад телефонов: приемка, поиск, правки и сортировка.
type StockService struct {
	repos  *repository.Repositories
	lock   *oplock.Lock
	cache  *cache.Cache
	loc    *time.Location
	logger *zap.Logger
}

func NewStockService(repos *repository.Repositories, lock *oplock.Lock, c *cache.Cache, loc *time.Location, logger *zap.Logger) *StockService {
	return &StockService{repos: repos, lock: lock, cache: c, loc: loc, logger: logger}
}

// StockAddInput позиция на приемку.
type StockAddInput struct {
	City      string  `json:"city"`
	Condition string  `json:"condition"`
	ModelName string  `json:"model_name"`
	Memory    string  `json:"memory"`
	Color     string  `json:"color"`
	IMEI      string  `json:"imei"`
	SalePrice float64 `json:"sale_price"`
	Note      string  `json:"note"`
}

func (in *StockAddInput) validate() error {
	if strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Condition) == "" ||
		strings.TrimSpace(in.ModelName) == "" || strings.TrimSpace(in.Memory) == "" ||
		strings.TrimSpace(in.Color) == "" {
		return fmt.Errorf("%w: город, состояние, модель, память и цвет обязательны", ErrValidation)
	}
	if stripSpaces(in.IMEI) == "" {
		return fmt.Errorf("%w: IMEI обязателен", ErrValidation)
	}
	return nil
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Add принимает одну позицию. Цена при нулевом значении берется из каталога.
func (s *StockService) Add(ctx context.Context, in StockAddInput) (*entity.StockItem, error) {
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	item, err := s.add(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.SortAsync()
	return item, nil
}

func (s *StockService) add(ctx context.Context, in StockAddInput) (*entity.StockItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	exists, err := s.repos.Stock.ExistsIMEI(ctx, stripSpaces(in.IMEI))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateIMEI
	}

	price := money.Round2(in.SalePrice)
	if price <= 0 {
		if p, ok, err := s.repos.Catalog.PriceFor(ctx, in.ModelName, in.Memory, in.Color); err != nil {
			return nil, err
		} else if ok {
			price = p
		}
	}

	existing, err := s.repos.Stock.IDs(ctx)
	if err != nil {
		return nil, err
	}
	maxPos, err := s.repos.Stock.MaxPosition(ctx)
	if err != nil {
		return nil, err
	}

	item := &entity.StockItem{
		ID:        ident.NextMonthly(ident.PrefixStock, nowFunc().In(s.loc), existing),
		City:      strings.TrimSpace(in.City),
		Condition: strings.TrimSpace(in.Condition),
		ModelName: strings.TrimSpace(in.ModelName),
		Memory:    strings.TrimSpace(in.Memory),
		Color:     strings.TrimSpace(in.Color),
		IMEI:      stripSpaces(in.IMEI),
		SalePrice: price,
		Status:    entity.StockInStock,
		Note:      in.Note,
		Position:  maxPos + 1,
	}
	if err := s.repos.Stock.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// BatchResult итог приемки одной позиции из пакета.
type BatchResult struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status"` // added | skipped_duplicate | invalid
	Reason string `json:"reason,omitempty"`
}

// AddMany пакетная приемка. Ошибка одной позиции не прерывает остальные;
// дубликаты ловятся и внутри пакета.
func (s *StockService) AddMany(ctx context.Context, items []StockAddInput) ([]BatchResult, error) {
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	results := make([]BatchResult, 0, len(items))
	seen := map[string]struct{}{}
	added := 0
	for i, in := range items {
		res := BatchResult{Index: i}
		imei := stripSpaces(in.IMEI)
		if imei != "" {
			if _, dup := seen[imei]; dup {
				res.Status = "skipped_duplicate"
				results = append(results, res)
				continue
			}
		}
		item, err := s.add(ctx, in)
		switch {
		case err == nil:
			res.Status = "added"
			res.ID = item.ID
			added++
			if imei != "" {
				seen[imei] = struct{}{}
			}
		case err == ErrDuplicateIMEI:
			res.Status = "skipped_duplicate"
		default:
			res.Status = "invalid"
			res.Reason = err.Error()
		}
		results = append(results, res)
	}
	if added > 0 {
		s.invalidate(ctx)
		s.SortAsync()
	}
	return results, nil
}

// колонки CSV-файла приемки, в порядке выгрузки из учетной таблицы
var csvColumns = []string{"city", "condition", "model_name", "memory", "color", "imei", "sale_price", "note"}

// ImportCSV принимает файл выгрузки в Windows-1251 с разделителем ";".
// Первая строка — заголовок, он пропускается.
func (s *StockService) ImportCSV(ctx context.Context, r io.Reader) ([]BatchResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	var src io.Reader = bytes.NewReader(raw)
	// выгрузки старой кассы идут в Windows-1251, новые в UTF-8
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1251.NewDecoder())
	}
	reader := csv.NewReader(src)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	var items []StockAddInput
	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: не удалось разобрать файл: %v", ErrValidation, err)
		}
		if first {
			first = false
			continue
		}
		get := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		items = append(items, StockAddInput{
			City:      get(0),
			Condition: get(1),
			ModelName: get(2),
			Memory:    get(3),
			Color:     get(4),
			IMEI:      get(5),
			SalePrice: money.ToNumber(get(6)),
			Note:      get(7),
		})
	}
	return s.AddMany(ctx, items)
}

// searchLimit максимум строк в выдаче поиска.
const searchLimit = 50

// Search подстрочный поиск без учета регистра по модели, IMEI, городу и заметке.
func (s *StockService) Search(ctx context.Context, query string) ([]entity.StockItem, error) {
	items, err := s.repos.Stock.All(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		if len(items) > searchLimit {
			items = items[:searchLimit]
		}
		return items, nil
	}
	out := make([]entity.StockItem, 0, searchLimit)
	for _, it := range items {
		hay := strings.ToLower(strings.Join([]string{
			it.ID, it.ModelName, it.Memory, it.Color, it.IMEI, it.City, it.Condition, it.Status, it.Note,
		}, " "))
		if strings.Contains(hay, q) {
			out = append(out, it)
			if len(out) == searchLimit {
				break
			}
		}
	}
	return out, nil
}

// Update правит позицию точечно.
func (s *StockService) Update(ctx context.Context, id string, patch entity.StockPatch) error {
	if !s.lock.Acquire(oplock.OpWait) {
		return ErrBusy
	}
	defer s.lock.Release()

	if patch.IMEI != nil {
		if imei := stripSpaces(*patch.IMEI); imei != "" {
			existing, err := s.repos.Stock.ByIMEI(ctx, imei)
			if err == nil && existing.ID != id {
				return ErrDuplicateIMEI
			}
			if err != nil && err != repository.ErrNotFound {
				return err
			}
		}
	}
	err := s.repos.Stock.Patch(ctx, id, patch.Fields())
	if err == repository.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	s.SortAsync()
	return nil
}

// MarkSold помечает телефон проданным при продаже.
func (s *StockService) MarkSold(ctx context.Context, imei, condition string) (*entity.StockItem, error) {
	item, err := s.repos.Stock.ByIMEI(ctx, imei)
	if err == repository.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if item.Status == entity.StockSold {
		return nil, ErrAlreadySold
	}
	item.Status = entity.StockSold
	if strings.TrimSpace(condition) != "" {
		item.Condition = strings.TrimSpace(condition)
	}
	if err := s.repos.Stock.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Sort пересчитывает позиции склада под замком.
func (s *StockService) Sort(ctx context.Context) error {
	if !s.lock.Acquire(oplock.SortWait) {
		return ErrBusy
	}
	defer s.lock.Release()
	return s.sortLocked(ctx)
}

// SortAsync фоновый прогон сортировки; пропускается, если замок занят.
func (s *StockService) SortAsync() {
	go func() {
		// вызвавшая операция еще держит замок, ждем ее освобождения
		if !s.lock.Acquire(oplock.SortWait) {
			s.logger.Warn("авто-сортировка склада пропущена: склад занят")
			return
		}
		defer s.lock.Release()
		ctx, cancel := context.WithTimeout(context.Background(), oplock.SortWait)
		defer cancel()
		if err := s.sortLocked(ctx); err != nil {
			s.logger.Warn("авто-сортировка склада не выполнена", zap.Error(err))
		}
	}()
}

func (s *StockService) sortLocked(ctx context.Context) error {
	statuses, err := s.repos.Dictionary.Values(ctx, entity.DictStockStatus)
	if err != nil {
		return err
	}
	cities, err := s.repos.Dictionary.Values(ctx, entity.DictCity)
	if err != nil {
		return err
	}
	conditions, err := s.repos.Dictionary.Values(ctx, entity.DictCondition)
	if err != nil {
		return err
	}
	catalog, err := s.repos.Catalog.All(ctx)
	if err != nil {
		return err
	}
	items, err := s.repos.Stock.All(ctx)
	if err != nil {
		return err
	}

	orders := stocksort.NewOrders(statuses, cities, conditions, catalog)
	positions := orders.Positions(items)
	if err := s.repos.Stock.UpdatePositions(ctx, positions); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *StockService) invalidate(ctx context.Context) {
	s.cache.Del(ctx, cache.KeyAvailability, cache.KeyDaily)
}
