package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/ident"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/report"
	"github.com/mobigrad/teleshop/internal/repository"
)

// ShiftService отметки выхода и отчет учета смен.
type ShiftService struct {
	repos *repository.Repositories
	lock  *oplock.Lock
	cache *cache.Cache
	loc   *time.Location
}

func NewShiftService(repos *repository.Repositories, lock *oplock.Lock, c *cache.Cache, loc *time.Location) *ShiftService {
	return &ShiftService{repos: repos, lock: lock, cache: c, loc: loc}
}

// CheckInInput отметка выхода на смену. Код сотрудника и ставка за выход
// подтягиваются из справочников, клиент их не задает.
type CheckInInput struct {
	Store      string `json:"store"`
	Staff      string `json:"staff"`
	DeviceType string `json:"device_type"`
}

// CheckIn пишет отметку с текущими датой и временем бизнес-таймзоны.
func (s *ShiftService) CheckIn(ctx context.Context, in CheckInInput) (*entity.Shift, error) {
	if strings.TrimSpace(in.Store) == "" || strings.TrimSpace(in.Staff) == "" {
		return nil, fmt.Errorf("%w: магазин и сотрудник обязательны", ErrValidation)
	}
	if !s.lock.Acquire(oplock.OpWait) {
		return nil, ErrBusy
	}
	defer s.lock.Release()

	store := strings.TrimSpace(in.Store)
	staff := strings.TrimSpace(in.Staff)

	profile, err := s.repos.Dictionary.StaffByName(ctx, staff)
	if err != nil {
		return nil, err
	}
	staffID := ""
	if profile != nil {
		staffID = profile.StaffID
	}
	// ставка за выход только по магазину, профиль сотрудника ее не задает
	preDayMap, err := s.repos.Dictionary.StorePreDayMap(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.repos.Shift.IDs(ctx)
	if err != nil {
		return nil, err
	}
	now := nowFunc().In(s.loc)
	shift := &entity.Shift{
		ID:           ident.NextMonthly(ident.PrefixShift, now, existing),
		DateVyhoda:   now.Format("02.01.2006"),
		VremyaVyhoda: now.Format("15:04"),
		Store:        store,
		StaffID:      staffID,
		Staff:        staff,
		PreDay:       preDayMap[store],
		DeviceType:   strings.TrimSpace(in.DeviceType),
	}
	if err := s.repos.Shift.Create(ctx, shift); err != nil {
		return nil, err
	}
	s.cache.Del(ctx, cache.KeyDaily)
	s.cache.PutJSON(ctx, cache.KeyShiftsBump, now.UnixNano(), 24*time.Hour)
	return shift, nil
}

// Ledger строит отчет учета смен; результат кэшируется по параметрам
// до ближайшей мутации журналов.
func (s *ShiftService) Ledger(ctx context.Context, f report.Filter) (*report.Ledger, error) {
	var bump int64
	s.cache.GetJSON(ctx, cache.KeyShiftsBump, &bump)
	key := s.ledgerKey(bump, f)

	var cached report.Ledger
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	shifts, err := s.repos.Shift.All(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.repos.Sale.All(ctx)
	if err != nil {
		return nil, err
	}
	pre, err := s.repos.Preorder.All(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := s.repos.Dictionary.StaffColorMap(ctx)
	if err != nil {
		return nil, err
	}
	preDay, err := s.repos.Dictionary.StorePreDayMap(ctx)
	if err != nil {
		return nil, err
	}

	out := report.BuildShiftLedger(shifts, sales, pre, colors, preDay, f, s.loc)
	s.cache.PutJSON(ctx, key, out, cache.AggregateTTL)
	return &out, nil
}

func (s *ShiftService) ledgerKey(bump int64, f report.Filter) string {
	raw, _ := json.Marshal(f)
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%s%d:%s", cache.KeyShiftsPrefix, bump, hex.EncodeToString(sum[:]))
}
