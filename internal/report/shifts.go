package report

import (
	"sort"
	"time"

	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/money"
)

// Filter параметры выборки учета смен. Даты в ISO (YYYY-MM-DD),
// магазин и сотрудник сравниваются строго.
type Filter struct {
	DateFrom string `json:"dateFrom" form:"dateFrom"`
	DateTo   string `json:"dateTo" form:"dateTo"`
	Store    string `json:"store" form:"store"`
	Staff    string `json:"staff" form:"staff"`
}

// PositionCounts количество позиций по типам.
type PositionCounts struct {
	Phones      int `json:"phones"`
	Accessories int `json:"accessories"`
	Services    int `json:"services"`
	Preorders   int `json:"preorders"`
}

// ShiftSales суммы продаж смены по типам товара.
type ShiftSales struct {
	Phones      float64 `json:"phones"`
	Accessories float64 `json:"accessories"`
	Services    float64 `json:"services"`
	Total       float64 `json:"total"`
	Avg         float64 `json:"avg"`
	Checks      int     `json:"checks"`
}

// ShiftSalary зарплата смены.
type ShiftSalary struct {
	FromSales     float64 `json:"from_sales"`
	FromPreorders float64 `json:"from_preorders"`
	Total         float64 `json:"total"`
}

// ShiftRow одна смена в отчете.
type ShiftRow struct {
	ShiftID    string         `json:"shift_id"`
	Date       string         `json:"date"`
	Store      string         `json:"store"`
	Staff      string         `json:"staff"`
	PreDay     float64        `json:"pre_day"`
	StartTime  string         `json:"startTime"`
	StaffColor string         `json:"staff_color"`
	DeviceType string         `json:"device_type"`
	Positions  PositionCounts `json:"positions"`
	Sales      ShiftSales     `json:"sales"`
	Preorders  struct {
		Total float64 `json:"total"`
	} `json:"preorders"`
	Salary ShiftSalary `json:"salary"`
}

// LedgerTotals итоги по всем сменам выборки.
type LedgerTotals struct {
	SalesTotal       float64        `json:"sales_total"`
	SalesPhones      float64        `json:"sales_phones"`
	SalesAccessories float64        `json:"sales_accessories"`
	SalesServices    float64        `json:"sales_services"`
	ChecksTotal      int            `json:"checks_total"`
	PreordersSum     float64        `json:"preorders_sum"`
	SalaryTotal      float64        `json:"salary_total"`
	Positions        PositionCounts `json:"positions"`
}

// Ledger отчет учета смен.
type Ledger struct {
	Rows   []ShiftRow   `json:"rows"`
	Totals LedgerTotals `json:"totals"`
}

func key3(date, store, staff string) string {
	return date + "||" + store + "||" + staff
}

func isoBound(iso, suffix string) (int64, bool) {
	if iso == "" {
		return 0, false
	}
	t, err := time.Parse("2006-01-02 15:04:05", iso+" "+suffix)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

// BuildShiftLedger сводит смены с продажами и предзаказами по тройке
// (дата, магазин, сотрудник). Чеком считается продажа с суммой больше нуля.
func BuildShiftLedger(shifts []entity.Shift, sales []entity.Sale, pre []entity.PreorderEvent,
	staffColors map[string]string, storePreDay map[string]float64,
	f Filter, loc *time.Location) Ledger {

	fromTs, hasFrom := isoBound(f.DateFrom, "00:00:00")
	toTs, hasTo := isoBound(f.DateTo, "23:59:59")

	salesByKey := map[string][]entity.Sale{}
	for _, s := range sales {
		k := key3(dateutil.Normalize(s.Date, loc), s.Store, s.Staff)
		salesByKey[k] = append(salesByKey[k], s)
	}
	preByKey := map[string][]entity.PreorderEvent{}
	for _, p := range pre {
		k := key3(dateutil.Normalize(p.Date, loc), p.Store, p.Staff)
		preByKey[k] = append(preByKey[k], p)
	}

	out := Ledger{Rows: []ShiftRow{}}
	for _, sh := range shifts {
		dateKey := dateutil.Normalize(sh.DateVyhoda, loc)
		if dateKey == "" {
			continue
		}
		ts := dateutil.Unix(dateKey)
		if hasFrom && ts < fromTs {
			continue
		}
		if hasTo && ts > toTs {
			continue
		}
		if f.Store != "" && sh.Store != f.Store {
			continue
		}
		if f.Staff != "" && sh.Staff != f.Staff {
			continue
		}

		k := key3(dateKey, sh.Store, sh.Staff)

		var sumPhones, sumAcc, sumSvc, salaryFromSales float64
		var checks int
		var pos PositionCounts
		for _, s := range salesByKey[k] {
			switch s.ItemType {
			case entity.ItemPhone:
				sumPhones += s.Total
				pos.Phones++
			case entity.ItemAccessory:
				sumAcc += s.Total
				pos.Accessories++
			case entity.ItemService:
				sumSvc += s.Total
				pos.Services++
			default:
				continue
			}
			if s.Total > 0 {
				checks++
			}
			salaryFromSales += s.Zarplata
		}
		salesTotal := sumPhones + sumAcc + sumSvc
		var avg float64
		if checks > 0 {
			avg = salesTotal / float64(checks)
		}

		// предзаказы: только внесенное в этот день у этой пары
		var preorderSum, salaryFromPreorders float64
		for _, p := range preByKey[k] {
			if p.Prepay > 0 {
				preorderSum += p.Prepay
			} else {
				preorderSum += money.SumString(p.Payments)
			}
			salaryFromPreorders += p.Zarplata
			pos.Preorders++
		}

		preDay := sh.PreDay
		if preDay == 0 {
			preDay = storePreDay[sh.Store]
		}
		salaryTotal := money.Round2(salaryFromSales + salaryFromPreorders + preDay)

		row := ShiftRow{
			ShiftID:    sh.ID,
			Date:       dateKey,
			Store:      sh.Store,
			Staff:      sh.Staff,
			PreDay:     preDay,
			StartTime:  sh.VremyaVyhoda,
			StaffColor: staffColors[sh.Staff],
			DeviceType: sh.DeviceType,
			Positions:  pos,
			Sales: ShiftSales{
				Phones:      money.Round2(sumPhones),
				Accessories: money.Round2(sumAcc),
				Services:    money.Round2(sumSvc),
				Total:       money.Round2(salesTotal),
				Avg:         money.Round2(avg),
				Checks:      checks,
			},
			Salary: ShiftSalary{
				FromSales:     money.Round2(salaryFromSales),
				FromPreorders: money.Round2(salaryFromPreorders),
				Total:         salaryTotal,
			},
		}
		row.Preorders.Total = money.Round2(preorderSum)
		out.Rows = append(out.Rows, row)

		out.Totals.SalesTotal += salesTotal
		out.Totals.SalesPhones += sumPhones
		out.Totals.SalesAccessories += sumAcc
		out.Totals.SalesServices += sumSvc
		out.Totals.ChecksTotal += checks
		out.Totals.PreordersSum += preorderSum
		out.Totals.SalaryTotal += salaryTotal
		out.Totals.Positions.Phones += pos.Phones
		out.Totals.Positions.Accessories += pos.Accessories
		out.Totals.Positions.Services += pos.Services
		out.Totals.Positions.Preorders += pos.Preorders
	}

	out.Totals.SalesTotal = money.Round2(out.Totals.SalesTotal)
	out.Totals.SalesPhones = money.Round2(out.Totals.SalesPhones)
	out.Totals.SalesAccessories = money.Round2(out.Totals.SalesAccessories)
	out.Totals.SalesServices = money.Round2(out.Totals.SalesServices)
	out.Totals.PreordersSum = money.Round2(out.Totals.PreordersSum)
	out.Totals.SalaryTotal = money.Round2(out.Totals.SalaryTotal)

	sort.SliceStable(out.Rows, func(a, b int) bool {
		da, db := dateutil.Unix(out.Rows[a].Date), dateutil.Unix(out.Rows[b].Date)
		if da != db {
			return da > db
		}
		return dateutil.TimeMinutes(out.Rows[a].StartTime) > dateutil.TimeMinutes(out.Rows[b].StartTime)
	})
	return out
}
