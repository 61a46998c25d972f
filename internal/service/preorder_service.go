package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/ident"
	"github.com/mobigrad/teleshop/internal/ledger"
	"github.com/mobigrad/teleshop/internal/money"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/repository"
)

// допуски сходимости сумм по предзаказу
const (
	balanceEps = 0.009
	paymentEps = 0.01
)

// PreorderService журнал предзаказов. История пишется только дописыванием,
// исключение — IMEI, он правится в первой строке.
type PreorderService struct {
	repos *repository.Repositories
	lock  *oplock.Lock
	cache *cache.Cache
	loc   *time.Location
}

func NewPreorderService(repos *repository.Repositories, lock *oplock.Lock, c *cache.Cache, loc *time.Location) *PreorderService {
	return &PreorderService{repos: repos, lock: lock, cache: c, loc: loc}
}

// PreorderInput новый предзаказ.
type PreorderInput struct {
	Date      string          `json:"date"`
	Store     string          `json:"store"`
	Staff     string          `json:"staff"`
	ModelName string          `json:"model_name"`
	Memory    string          `json:"memory"`
	Color     string          `json:"color"`
	PrePrice  string          `json:"pre_price"`
	Payments  []money.Payment `json:"payments"`
	Customer  string          `json:"customer"`
	Phone     string          `json:"phone"`
	Zarplata  float64         `json:"zarplata"`
	Note      string          `json:"note"`
	PreIMEI   string          `json:"pre_imei"`
}

// Create заводит предзаказ; предоплата равна внесенным платежам.
func (s *PreorderService) Create(ctx context.Context, in PreorderInput) (*ledger.Preorder, error) {
	if strings.TrimSpace(in.Store) == "" || strings.TrimSpace(in.Staff) == "" {
		return nil, fmt.Errorf("%w: магазин и сотрудник обязательны", ErrValidation)
	}
	if strings.TrimSpace(in.ModelName) == "" {
		return nil, fmt.Errorf("%w: не указана модель", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	existing, err := s.repos.Preorder.IDs(ctx)
	if err != nil {
		return nil, err
	}
	ev := &entity.PreorderEvent{
		ID:        ident.NextMonthly(ident.PrefixPreorder, nowFunc().In(s.loc), existing),
		Date:      dateutil.NormalizeOrToday(in.Date, s.loc),
		Store:     strings.TrimSpace(in.Store),
		Staff:     strings.TrimSpace(in.Staff),
		Status:    entity.PreorderWaiting,
		ModelName: strings.TrimSpace(in.ModelName),
		Memory:    strings.TrimSpace(in.Memory),
		Color:     strings.TrimSpace(in.Color),
		PrePrice:  strings.TrimSpace(in.PrePrice),
		Prepay:    money.Round2(money.Sum(in.Payments)),
		Payments:  money.Serialize(in.Payments),
		Customer:  strings.TrimSpace(in.Customer),
		Phone:     strings.TrimSpace(in.Phone),
		Zarplata:  money.Round2(in.Zarplata),
		Note:      in.Note,
		PreIMEI:   strings.TrimSpace(in.PreIMEI),
	}
	if err := s.repos.Preorder.Append(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, ev.ID)
}

// PaymentInput довнесение по предзаказу.
type PaymentInput struct {
	Date     string          `json:"date"`
	Staff    string          `json:"staff"`
	Payments []money.Payment `json:"payments"`
	Zarplata float64         `json:"zarplata"`
	Note     string          `json:"note"`
}

// AddPayment дописывает строку с платежами.
func (s *PreorderService) AddPayment(ctx context.Context, id string, in PaymentInput) (*ledger.Preorder, error) {
	if len(in.Payments) == 0 {
		return nil, fmt.Errorf("%w: не указаны платежи", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	rows, err := s.rows(ctx, id)
	if err != nil {
		return nil, err
	}
	cur := ledger.AggregatePreorder(rows, s.loc)
	if isDone(cur.Status) {
		return nil, ErrPreorderDone
	}
	ev := &entity.PreorderEvent{
		ID:       id,
		Date:     dateutil.NormalizeOrToday(in.Date, s.loc),
		Staff:    strings.TrimSpace(in.Staff),
		Payments: money.Serialize(in.Payments),
		Zarplata: money.Round2(in.Zarplata),
		Note:     in.Note,
	}
	if err := s.repos.Preorder.Append(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// StatusInput смена статуса предзаказа.
type StatusInput struct {
	Status string `json:"status"`
	Staff  string `json:"staff"`
	IMEI   string `json:"imei"`
	Note   string `json:"note"`
}

func isDone(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == "завершен" || s == "завершён"
}

// UpdateStatus дописывает строку со статусом. Завершение допускается только
// при погашенном остатке; при долге используется Finalize.
func (s *PreorderService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*ledger.Preorder, error) {
	if strings.TrimSpace(in.Status) == "" {
		return nil, fmt.Errorf("%w: не указан статус", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	rows, err := s.rows(ctx, id)
	if err != nil {
		return nil, err
	}
	cur := ledger.AggregatePreorder(rows, s.loc)
	if isDone(in.Status) {
		if cur.Balance > balanceEps {
			return nil, ErrBalanceDue
		}
		imei := strings.TrimSpace(in.IMEI)
		if cur.PreIMEI == "" && imei == "" {
			return nil, ErrIMEIRequired
		}
		if imei != "" {
			if err := s.repos.Preorder.SetIMEIFirstRow(ctx, id, imei); err != nil {
				return nil, err
			}
		}
	}
	ev := &entity.PreorderEvent{
		ID:     id,
		Date:   dateutil.NormalizeOrToday("", s.loc),
		Staff:  strings.TrimSpace(in.Staff),
		Status: strings.TrimSpace(in.Status),
		Note:   in.Note,
	}
	if err := s.repos.Preorder.Append(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// FinalizeInput выкуп предзаказа. Магазин и сотрудник пишутся в
// завершающую строку, по ним выкуп попадает в дневной и сменный отчеты.
type FinalizeInput struct {
	Date     string          `json:"date"`
	Store    string          `json:"store"`
	Staff    string          `json:"staff"`
	IMEI     string          `json:"imei"`
	Payments []money.Payment `json:"payments"`
	Zarplata float64         `json:"zarplata"`
	Note     string          `json:"note"`
}

// Finalize закрывает предзаказ одной строкой: добирает остаток и ставит
// статус завершения. Сумма платежей обязана сойтись с остатком.
func (s *PreorderService) Finalize(ctx context.Context, id string, in FinalizeInput) (*ledger.Preorder, error) {
	if strings.TrimSpace(in.Store) == "" || strings.TrimSpace(in.Staff) == "" {
		return nil, fmt.Errorf("%w: магазин и сотрудник обязательны", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	rows, err := s.rows(ctx, id)
	if err != nil {
		return nil, err
	}
	cur := ledger.AggregatePreorder(rows, s.loc)
	if isDone(cur.Status) || cur.CompletedAt != "" {
		return nil, ErrPreorderDone
	}
	if cur.PrePrice <= 0 {
		return nil, fmt.Errorf("%w: у предзаказа не задана цена", ErrValidation)
	}
	imei := strings.TrimSpace(in.IMEI)
	if cur.PreIMEI == "" && imei == "" {
		return nil, ErrIMEIRequired
	}

	need := cur.Balance
	paySum := money.Round2(money.Sum(in.Payments))
	if need > 0 {
		if math.Abs(paySum-need) > paymentEps {
			return nil, fmt.Errorf("%w: остаток %.2f, внесено %.2f", ErrPaymentMismatch, need, paySum)
		}
	} else if paySum != 0 {
		return nil, fmt.Errorf("%w: остатка нет, платежи не требуются", ErrPaymentMismatch)
	}

	if imei != "" {
		if err := s.repos.Preorder.SetIMEIFirstRow(ctx, id, imei); err != nil {
			return nil, err
		}
	}
	ev := &entity.PreorderEvent{
		ID:       id,
		Date:     dateutil.NormalizeOrToday(in.Date, s.loc),
		Store:    strings.TrimSpace(in.Store),
		Staff:    strings.TrimSpace(in.Staff),
		Status:   entity.PreorderCompleted,
		Zarplata: money.Round2(in.Zarplata),
		Note:     in.Note,
	}
	if need > 0 {
		ev.Prepay = paySum
		ev.Payments = money.Serialize(in.Payments)
	}
	if err := s.repos.Preorder.Append(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// UpsertIMEI пишет IMEI в первую строку предзаказа.
func (s *PreorderService) UpsertIMEI(ctx context.Context, id, imei string) (*ledger.Preorder, error) {
	if strings.TrimSpace(imei) == "" {
		return nil, fmt.Errorf("%w: не указан IMEI", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	if err := s.repos.Preorder.SetIMEIFirstRow(ctx, id, strings.TrimSpace(imei)); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// Get текущее состояние предзаказа.
func (s *PreorderService) Get(ctx context.Context, id string) (*ledger.Preorder, error) {
	return s.aggregate(ctx, id)
}

// List все предзаказы, свернутые по id, в порядке первого появления.
// PreorderFilter фильтры списка предзаказов. Дата в формате YYYY-MM-DD,
// клиент и телефон ищутся по подстроке, остальное строгим сравнением.
type PreorderFilter struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Store    string `form:"store"`
	Staff    string `form:"staff"`
	Status   string `form:"status"`
	Model    string `form:"model_name"`
	Memory   string `form:"memory"`
	Color    string `form:"color"`
	Customer string `form:"customer"`
	Phone    string `form:"phone"`
}

// PreorderListResult строки после фильтрации плюс итоги по ним.
type PreorderListResult struct {
	Rows   []ledger.Preorder `json:"rows"`
	Totals struct {
		Count    int     `json:"count"`
		Prepay   float64 `json:"prepay"`
		Zarplata float64 `json:"zarplata"`
	} `json:"totals"`
}

func (s *PreorderService) List(ctx context.Context, f PreorderFilter) (*PreorderListResult, error) {
	list, err := s.folded(ctx)
	if err != nil {
		return nil, err
	}

	fromKey := dateutil.Unix(dateutil.Normalize(f.DateFrom, s.loc))
	toKey := dateutil.Unix(dateutil.Normalize(f.DateTo, s.loc))
	custQ := strings.ToLower(strings.TrimSpace(f.Customer))
	phoneQ := strings.ToLower(strings.TrimSpace(f.Phone))

	res := &PreorderListResult{Rows: []ledger.Preorder{}}
	for _, it := range list {
		key := dateutil.Unix(it.Date)
		if fromKey != 0 && key != 0 && key < fromKey {
			continue
		}
		if toKey != 0 && key != 0 && key > toKey {
			continue
		}
		if f.Store != "" && it.Store != f.Store {
			continue
		}
		if f.Staff != "" && it.Staff != f.Staff {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.Model != "" && it.ModelName != f.Model {
			continue
		}
		if f.Memory != "" && it.Memory != f.Memory {
			continue
		}
		if f.Color != "" && it.Color != f.Color {
			continue
		}
		if custQ != "" && !strings.Contains(strings.ToLower(it.Customer), custQ) {
			continue
		}
		if phoneQ != "" && !strings.Contains(strings.ToLower(it.Phone), phoneQ) {
			continue
		}
		res.Rows = append(res.Rows, it)
	}

	sort.SliceStable(res.Rows, func(i, j int) bool {
		return dateutil.Unix(res.Rows[i].Date) > dateutil.Unix(res.Rows[j].Date)
	})

	res.Totals.Count = len(res.Rows)
	var prepay, zarplata float64
	for _, it := range res.Rows {
		prepay += it.Prepay
		zarplata += it.Zarplata
	}
	res.Totals.Prepay = money.Round2(prepay)
	res.Totals.Zarplata = money.Round2(zarplata)
	return res, nil
}

// folded возвращает свернутые проекции всех предзаказов в порядке первого
// появления id; результат кешируется целиком, фильтры применяются поверх.
func (s *PreorderService) folded(ctx context.Context) ([]ledger.Preorder, error) {
	var cached []ledger.Preorder
	if s.cache.GetJSON(ctx, cache.KeyPreorders, &cached) {
		return cached, nil
	}
	all, err := s.repos.Preorder.All(ctx)
	if err != nil {
		return nil, err
	}
	byID := map[string][]entity.PreorderEvent{}
	var order []string
	for _, ev := range all {
		if _, ok := byID[ev.ID]; !ok {
			order = append(order, ev.ID)
		}
		byID[ev.ID] = append(byID[ev.ID], ev)
	}
	out := make([]ledger.Preorder, 0, len(order))
	for _, id := range order {
		out = append(out, ledger.AggregatePreorder(byID[id], s.loc))
	}
	s.cache.PutJSON(ctx, cache.KeyPreorders, out, cache.AggregateTTL)
	return out, nil
}

func (s *PreorderService) rows(ctx context.Context, id string) ([]entity.PreorderEvent, error) {
	rows, err := s.repos.Preorder.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

func (s *PreorderService) aggregate(ctx context.Context, id string) (*ledger.Preorder, error) {
	rows, err := s.rows(ctx, id)
	if err != nil {
		return nil, err
	}
	p := ledger.AggregatePreorder(rows, s.loc)
	return &p, nil
}

func (s *PreorderService) invalidate(ctx context.Context) {
	s.cache.Del(ctx, cache.KeyPreorders, cache.KeyDaily)
	s.cache.PutJSON(ctx, cache.KeyShiftsBump, nowFunc().UnixNano(), 24*time.Hour)
}
