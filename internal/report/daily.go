// Package report строит ежедневный отчет и учет смен по журналам.
package report

import (
	"sort"
	"time"

	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/money"
)

// Totals итоги дня либо всего периода.
type Totals struct {
	SalesTotal       float64            `json:"sales_total"`
	PreordersPaid    float64            `json:"preorders_paid"`
	PaymentsByMethod map[string]float64 `json:"payments_by_method"`
	SalaryByStore    map[string]float64 `json:"salary_by_store"`
	SalaryByStaff    map[string]float64 `json:"salary_by_staff"`
}

func newTotals() Totals {
	return Totals{
		PaymentsByMethod: map[string]float64{},
		SalaryByStore:    map[string]float64{},
		SalaryByStaff:    map[string]float64{},
	}
}

func (t Totals) rounded() Totals {
	return Totals{
		SalesTotal:       money.Round2(t.SalesTotal),
		PreordersPaid:    money.Round2(t.PreordersPaid),
		PaymentsByMethod: money.RoundMap(t.PaymentsByMethod),
		SalaryByStore:    money.RoundMap(t.SalaryByStore),
		SalaryByStaff:    money.RoundMap(t.SalaryByStaff),
	}
}

func addSalary(m map[string]float64, key string, n float64) {
	if key == "" {
		return
	}
	m[key] += n
}

// SaleRow строка продаж с разобранными платежами.
type SaleRow struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Store       string             `json:"store"`
	Staff       string             `json:"staff"`
	ItemType    string             `json:"item_type"`
	Condition   string             `json:"condition"`
	ModelName   string             `json:"model_name"`
	Memory      string             `json:"memory"`
	Color       string             `json:"color"`
	IMEIOrSKU   string             `json:"imei_or_sku"`
	Total       float64            `json:"total"`
	Payments    string             `json:"payments"`
	PaymentsMap map[string]float64 `json:"payments_map"`
	Sdacha      string             `json:"sdacha"`
	Customer    string             `json:"customer"`
	Phone       string             `json:"phone"`
	Zarplata    float64            `json:"zarplata"`
	Note        string             `json:"note"`
}

// PreorderRow строка журнала предзаказов с вычисленным paid_row:
// что реально внесено именно этой строкой в ее дату.
type PreorderRow struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Store       string             `json:"store"`
	Staff       string             `json:"staff"`
	Status      string             `json:"status"`
	ModelName   string             `json:"model_name"`
	Memory      string             `json:"memory"`
	Color       string             `json:"color"`
	PreIMEI     string             `json:"pre_imei"`
	PrePrice    float64            `json:"pre_price"`
	Prepay      float64            `json:"prepay"`
	Payments    string             `json:"payments"`
	PaymentsMap map[string]float64 `json:"payments_map"`
	Customer    string             `json:"customer"`
	Phone       string             `json:"phone"`
	Zarplata    float64            `json:"zarplata"`
	Note        string             `json:"note"`
	PaidRow     float64            `json:"paid_row"`
}

// StaffChip кто отметился на смену в этот день.
type StaffChip struct {
	Store      string `json:"store"`
	Staff      string `json:"staff"`
	StaffColor string `json:"staff_color"`
}

// Day один день отчета.
type Day struct {
	Date        string        `json:"date"`
	StaffStores []StaffChip   `json:"staffStores"`
	Sales       []SaleRow     `json:"sales"`
	Preorders   []PreorderRow `json:"preorders"`
	Totals      Totals        `json:"totals"`
}

// Daily свод по всем дням, дни по убыванию даты.
type Daily struct {
	Days      []Day  `json:"days"`
	Totals    Totals `json:"totals"`
	UpdatedAt string `json:"updatedAt"`
}

type dayAcc struct {
	day   Day
	chips map[string]struct{}
}

// BuildDaily раскладывает журналы по дням. Округление применяется только
// к итогам на выходе, накопление идет без округления.
func BuildDaily(sales []entity.Sale, pre []entity.PreorderEvent, shifts []entity.Shift,
	staffColors map[string]string, loc *time.Location, now time.Time) Daily {

	days := map[string]*dayAcc{}
	ensure := func(dateKey string) *dayAcc {
		if dateKey == "" {
			return nil
		}
		d, ok := days[dateKey]
		if !ok {
			d = &dayAcc{
				day: Day{
					Date:        dateKey,
					StaffStores: []StaffChip{},
					Sales:       []SaleRow{},
					Preorders:   []PreorderRow{},
					Totals:      newTotals(),
				},
				chips: map[string]struct{}{},
			}
			days[dateKey] = d
		}
		return d
	}

	for _, sh := range shifts {
		d := ensure(dateutil.Normalize(sh.DateVyhoda, loc))
		if d == nil || sh.Store == "" || sh.Staff == "" {
			continue
		}
		key := sh.Store + "||" + sh.Staff
		if _, seen := d.chips[key]; seen {
			continue
		}
		d.chips[key] = struct{}{}
		d.day.StaffStores = append(d.day.StaffStores, StaffChip{
			Store:      sh.Store,
			Staff:      sh.Staff,
			StaffColor: staffColors[sh.Staff],
		})
	}

	for _, s := range sales {
		dateKey := dateutil.Normalize(s.Date, loc)
		d := ensure(dateKey)
		if d == nil {
			continue
		}
		row := SaleRow{
			ID: s.ID, Date: dateKey, Store: s.Store, Staff: s.Staff,
			ItemType: s.ItemType, Condition: s.Condition,
			ModelName: s.ModelName, Memory: s.Memory, Color: s.Color,
			IMEIOrSKU: s.IMEIOrSKU, Total: s.Total,
			Payments: s.Payments, PaymentsMap: money.ParseMap(s.Payments),
			Sdacha: s.Sdacha, Customer: s.Customer, Phone: s.Phone,
			Zarplata: s.Zarplata, Note: s.Note,
		}
		d.day.Sales = append(d.day.Sales, row)
		d.day.Totals.SalesTotal += row.Total
		money.MergeInto(d.day.Totals.PaymentsByMethod, row.PaymentsMap)
		addSalary(d.day.Totals.SalaryByStore, row.Store, row.Zarplata)
		addSalary(d.day.Totals.SalaryByStaff, row.Staff, row.Zarplata)
	}

	for _, p := range pre {
		dateKey := dateutil.Normalize(p.Date, loc)
		d := ensure(dateKey)
		if d == nil {
			continue
		}
		paidRow := p.Prepay
		if paidRow <= 0 {
			paidRow = money.SumString(p.Payments)
		}
		row := PreorderRow{
			ID: p.ID, Date: dateKey, Store: p.Store, Staff: p.Staff,
			Status: p.Status, ModelName: p.ModelName, Memory: p.Memory,
			Color: p.Color, PreIMEI: p.PreIMEI,
			PrePrice: money.ToNumber(p.PrePrice), Prepay: p.Prepay,
			Payments: p.Payments, PaymentsMap: money.ParseMap(p.Payments),
			Customer: p.Customer, Phone: p.Phone,
			Zarplata: p.Zarplata, Note: p.Note, PaidRow: paidRow,
		}
		d.day.Preorders = append(d.day.Preorders, row)
		d.day.Totals.PreordersPaid += paidRow
		money.MergeInto(d.day.Totals.PaymentsByMethod, row.PaymentsMap)
		addSalary(d.day.Totals.SalaryByStore, row.Store, row.Zarplata)
		addSalary(d.day.Totals.SalaryByStaff, row.Staff, row.Zarplata)
	}

	list := make([]*dayAcc, 0, len(days))
	for _, d := range days {
		list = append(list, d)
	}
	sort.SliceStable(list, func(a, b int) bool {
		return dateutil.Unix(list[a].day.Date) > dateutil.Unix(list[b].day.Date)
	})

	all := newTotals()
	out := Daily{Days: make([]Day, 0, len(list))}
	for _, d := range list {
		all.SalesTotal += d.day.Totals.SalesTotal
		all.PreordersPaid += d.day.Totals.PreordersPaid
		money.MergeInto(all.PaymentsByMethod, d.day.Totals.PaymentsByMethod)
		money.MergeInto(all.SalaryByStore, d.day.Totals.SalaryByStore)
		money.MergeInto(all.SalaryByStaff, d.day.Totals.SalaryByStaff)

		day := d.day
		day.Totals = day.Totals.rounded()
		out.Days = append(out.Days, day)
	}
	out.Totals = all.rounded()
	out.UpdatedAt = now.In(loc).Format("02.01.2006 15:04")
	return out
}
