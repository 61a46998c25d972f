package service

import (
	"context"
	"fmt"
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

// DiagnosticService журнал приемки на диагностику.
type DiagnosticService struct {
	repos *repository.Repositories
	lock  *oplock.Lock
	cache *cache.Cache
	loc   *time.Location
}

func NewDiagnosticService(repos *repository.Repositories, lock *oplock.Lock, c *cache.Cache, loc *time.Location) *DiagnosticService {
	return &DiagnosticService{repos: repos, lock: lock, cache: c, loc: loc}
}

// DiagnosticInput новая заявка. Комплектация может прийти списком.
type DiagnosticInput struct {
	IntakeDate   string   `json:"intake_date"`
	PurchaseDate string   `json:"purchase_date"`
	Store        string   `json:"store"`
	Staff        string   `json:"staff"`
	ModelName    string   `json:"model_name"`
	Memory       string   `json:"memory"`
	Color        string   `json:"color"`
	IMEI         string   `json:"imei"`
	Complect     []string `json:"complect"`
	Neispravnost string   `json:"neispravnost"`
	Appearance   string   `json:"appearance"`
	Customer     string   `json:"customer"`
	PhoneKlienta string   `json:"phone_klienta"`
	Note         string   `json:"note"`
}

// Create заводит заявку со статусом приемки.
func (s *DiagnosticService) Create(ctx context.Context, in DiagnosticInput) (*ledger.Diagnostic, error) {
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

	existing, err := s.repos.Diagnostic.IDs(ctx)
	if err != nil {
		return nil, err
	}
	row := &entity.DiagnosticRow{
		ID:           ident.NextMonthly(ident.PrefixDiagnostic, nowFunc().In(s.loc), existing),
		IntakeDate:   dateutil.NormalizeOrToday(in.IntakeDate, s.loc),
		PurchaseDate: dateutil.Normalize(in.PurchaseDate, s.loc),
		Store:        strings.TrimSpace(in.Store),
		Staff:        strings.TrimSpace(in.Staff),
		ModelName:    strings.TrimSpace(in.ModelName),
		Memory:       strings.TrimSpace(in.Memory),
		Color:        strings.TrimSpace(in.Color),
		IMEI:         strings.TrimSpace(in.IMEI),
		Complect:     strings.Join(in.Complect, ", "),
		Neispravnost: strings.TrimSpace(in.Neispravnost),
		Appearance:   strings.TrimSpace(in.Appearance),
		Customer:     strings.TrimSpace(in.Customer),
		PhoneKlienta: strings.TrimSpace(in.PhoneKlienta),
		Status:       entity.DiagnosticAccepted,
		Note:         in.Note,
	}
	if err := s.repos.Diagnostic.Append(ctx, row); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, row.ID)
}

// DiagnosticStatusInput смена статуса заявки.
type DiagnosticStatusInput struct {
	Status      string `json:"status"`
	IssuedDate  string `json:"issued_date"`
	IssuedStaff string `json:"issued_staff"`
	Note        string `json:"note"`
}

func isIssued(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), entity.DiagnosticIssued)
}

// UpdateStatus правит статус в живой строке заявки. Выданную заявку менять
// нельзя, выдача требует даты и сотрудника выдачи.
func (s *DiagnosticService) UpdateStatus(ctx context.Context, id string, in DiagnosticStatusInput) (*ledger.Diagnostic, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, fmt.Errorf("%w: не указан статус", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	cur, err := s.aggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if isIssued(cur.Status) && !isIssued(status) {
		return nil, ErrIssuedImmutable
	}

	patch := entity.DiagnosticPatch{Status: &status}
	if isIssued(status) {
		issuedDate := dateutil.Normalize(in.IssuedDate, s.loc)
		issuedStaff := strings.TrimSpace(in.IssuedStaff)
		if issuedDate == "" || issuedStaff == "" {
			return nil, ErrIssueNeedsFields
		}
		patch.IssuedDate = &issuedDate
		patch.IssuedStaff = &issuedStaff
	}
	if in.Note != "" {
		note := in.Note
		patch.Note = &note
	}
	if err := s.repos.Diagnostic.PatchFirst(ctx, id, patch); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// UpdatePayment правит стоимость и платежи диагностики на месте.
func (s *DiagnosticService) UpdatePayment(ctx context.Context, id, diagPay, payments string) (*ledger.Diagnostic, error) {
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	patch := entity.DiagnosticPatch{DiagPay: &diagPay, Payments: &payments}
	if err := s.repos.Diagnostic.PatchFirst(ctx, id, patch); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.aggregate(ctx, id)
}

// Get текущее состояние заявки.
func (s *DiagnosticService) Get(ctx context.Context, id string) (*ledger.Diagnostic, error) {
	return s.aggregate(ctx, id)
}

// List все заявки, свернутые по id, в порядке первого появления.
// DiagnosticFilter фильтры списка заявок. IMEI, клиент и телефон ищутся по
// подстроке, остальное строгим сравнением.
type DiagnosticFilter struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Store    string `form:"store"`
	Staff    string `form:"staff"`
	Status   string `form:"status"`
	Model    string `form:"model_name"`
	Memory   string `form:"memory"`
	Color    string `form:"color"`
	IMEI     string `form:"imei"`
	Customer string `form:"customer"`
	Phone    string `form:"phone"`
}

// DiagnosticListResult строки после фильтрации плюс итоги по ним.
type DiagnosticListResult struct {
	Rows   []ledger.Diagnostic `json:"rows"`
	Totals struct {
		Count      int     `json:"count"`
		DiagPaySum float64 `json:"diag_pay_sum"`
	} `json:"totals"`
}

func (s *DiagnosticService) List(ctx context.Context, f DiagnosticFilter) (*DiagnosticListResult, error) {
	list, err := s.folded(ctx)
	if err != nil {
		return nil, err
	}

	fromKey := dateutil.Unix(dateutil.Normalize(f.DateFrom, s.loc))
	toKey := dateutil.Unix(dateutil.Normalize(f.DateTo, s.loc))
	imeiQ := strings.TrimSpace(f.IMEI)
	custQ := strings.ToLower(strings.TrimSpace(f.Customer))
	phoneQ := strings.ToLower(strings.TrimSpace(f.Phone))

	res := &DiagnosticListResult{Rows: []ledger.Diagnostic{}}
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
		if imeiQ != "" && !strings.Contains(it.IMEI, imeiQ) {
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
	var paySum float64
	for _, it := range res.Rows {
		paySum += it.DiagPay
	}
	res.Totals.DiagPaySum = money.Round2(paySum)
	return res, nil
}

// folded возвращает свернутые проекции всех заявок в порядке первого
// появления id; результат кешируется целиком, фильтры применяются поверх.
func (s *DiagnosticService) folded(ctx context.Context) ([]ledger.Diagnostic, error) {
	var cached []ledger.Diagnostic
	if s.cache.GetJSON(ctx, cache.KeyDiagnostics, &cached) {
		return cached, nil
	}
	all, err := s.repos.Diagnostic.All(ctx)
	if err != nil {
		return nil, err
	}
	byID := map[string][]entity.DiagnosticRow{}
	var order []string
	for _, row := range all {
		if _, ok := byID[row.ID]; !ok {
			order = append(order, row.ID)
		}
		byID[row.ID] = append(byID[row.ID], row)
	}
	out := make([]ledger.Diagnostic, 0, len(order))
	for _, id := range order {
		out = append(out, ledger.AggregateDiagnostic(byID[id], s.loc))
	}
	s.cache.PutJSON(ctx, cache.KeyDiagnostics, out, cache.AggregateTTL)
	return out, nil
}

func (s *DiagnosticService) aggregate(ctx context.Context, id string) (*ledger.Diagnostic, error) {
	rows, err := s.repos.Diagnostic.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	d := ledger.AggregateDiagnostic(rows, s.loc)
	return &d, nil
}

func (s *DiagnosticService) invalidate(ctx context.Context) {
	s.cache.Del(ctx, cache.KeyDiagnostics)
}
