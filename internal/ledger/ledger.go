// Package ledger сворачивает журнальные строки предзаказов и диагностики
// в текущее состояние записи.
package ledger

import (
	"strings"
	"time"

	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/money"
)

// Preorder текущее состояние предзаказа после свертки его строк.
type Preorder struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Store       string  `json:"store"`
	Staff       string  `json:"staff"`
	Status      string  `json:"status"`
	ModelName   string  `json:"model_name"`
	Memory      string  `json:"memory"`
	Color       string  `json:"color"`
	PrePrice    float64 `json:"pre_price"`
	Prepay      float64 `json:"prepay"`
	Balance     float64 `json:"balance"`
	Payments    string  `json:"payments"`
	Customer    string  `json:"customer"`
	Phone       string  `json:"phone"`
	Zarplata    float64 `json:"zarplata"`
	Note        string  `json:"note"`
	PreIMEI     string  `json:"pre_imei"`
	CompletedAt string  `json:"completed_at"`
	CompletedBy string  `json:"completed_by"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// isCompleted распознает статус завершения без учета регистра и е/ё.
func isCompleted(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == "завершен" || s == "завершён"
}

// AggregatePreorder сворачивает строки одного предзаказа в порядке записи.
// Правила выбора полей привязаны к первой либо последней строке и у разных
// полей различаются намеренно; менять их согласованно нельзя.
func AggregatePreorder(rows []entity.PreorderEvent, loc *time.Location) Preorder {
	if len(rows) == 0 {
		return Preorder{}
	}
	first := rows[0]
	last := rows[len(rows)-1]

	p := Preorder{
		ID:        first.ID,
		Date:      dateutil.Normalize(first.Date, loc),
		Store:     firstNonEmpty(last.Store, first.Store),
		Staff:     first.Staff,
		Status:    firstNonEmpty(last.Status, entity.PreorderWaiting),
		ModelName: firstNonEmpty(first.ModelName, last.ModelName),
		Memory:    firstNonEmpty(first.Memory, last.Memory),
		Color:     firstNonEmpty(first.Color, last.Color),
		PrePrice:  money.ToNumber(firstNonEmpty(first.PrePrice, last.PrePrice)),
		Payments:  last.Payments,
		Customer:  firstNonEmpty(last.Customer, first.Customer),
		Phone:     firstNonEmpty(last.Phone, first.Phone),
		Note:      last.Note,
	}

	var zarplata, prepay float64
	for _, r := range rows {
		zarplata += r.Zarplata
		// prepay суммируется всегда; строка платежей добирается только там,
		// где prepay не положителен (корректировки в минус сохраняются)
		prepay += r.Prepay
		if r.Prepay <= 0 {
			prepay += money.SumString(r.Payments)
		}
		if p.PreIMEI == "" && strings.TrimSpace(r.PreIMEI) != "" {
			p.PreIMEI = strings.TrimSpace(r.PreIMEI)
		}
		if isCompleted(r.Status) {
			p.CompletedAt = dateutil.Normalize(r.Date, loc)
			p.CompletedBy = r.Staff
		}
	}
	p.Zarplata = money.Round2(zarplata)
	p.Prepay = money.Round2(prepay)
	p.Balance = money.Round2(p.PrePrice - p.Prepay)
	return p
}

// Diagnostic текущее состояние заявки диагностики.
type Diagnostic struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	PurchaseDate string  `json:"purchase_date"`
	Store        string  `json:"store"`
	Staff        string  `json:"staff"`
	ModelName    string  `json:"model_name"`
	Memory       string  `json:"memory"`
	Color        string  `json:"color"`
	IMEI         string  `json:"imei"`
	Complect     string  `json:"complect"`
	Neispravnost string  `json:"neispravnost"`
	Appearance   string  `json:"appearance"`
	Customer     string  `json:"customer"`
	Phone        string  `json:"phone"`
	Status       string  `json:"status"`
	DiagPay      float64 `json:"diag_pay"`
	Payments     string  `json:"payments"`
	IssuedDate   string  `json:"issued_date"`
	IssuedStaff  string  `json:"issued_staff"`
	Note         string  `json:"note"`
	CompletedAt  string  `json:"completed_at"`
	CompletedBy  string  `json:"completed_by"`
}

// lastFilled значение поля из самой поздней строки, где оно заполнено.
func lastFilled(rows []entity.DiagnosticRow, get func(entity.DiagnosticRow) string) string {
	for i := len(rows) - 1; i >= 0; i-- {
		if v := strings.TrimSpace(get(rows[i])); v != "" {
			return v
		}
	}
	return ""
}

// AggregateDiagnostic сворачивает строки одной заявки: описательные поля
// из первой строки, рабочие поля по принципу "последнее заполненное".
func AggregateDiagnostic(rows []entity.DiagnosticRow, loc *time.Location) Diagnostic {
	if len(rows) == 0 {
		return Diagnostic{}
	}
	first := rows[0]

	d := Diagnostic{
		ID:           first.ID,
		Date:         dateutil.Normalize(first.IntakeDate, loc),
		PurchaseDate: first.PurchaseDate,
		Store:        first.Store,
		Staff:        first.Staff,
		ModelName:    first.ModelName,
		Memory:       first.Memory,
		Color:        first.Color,
		IMEI:         first.IMEI,
		Complect:     first.Complect,
		Neispravnost: first.Neispravnost,
		Appearance:   first.Appearance,
		Customer:     first.Customer,
		Phone:        first.PhoneKlienta,
		Note:         first.Note,
	}

	d.Status = lastFilled(rows, func(r entity.DiagnosticRow) string { return r.Status })
	if d.Status == "" {
		d.Status = entity.DiagnosticAccepted
	}
	if pay := lastFilled(rows, func(r entity.DiagnosticRow) string { return r.DiagPay }); pay != "" {
		d.DiagPay = money.Round2(money.ToNumber(strings.Join(strings.Fields(pay), "")))
	}
	d.Payments = lastFilled(rows, func(r entity.DiagnosticRow) string { return r.Payments })
	if v := lastFilled(rows, func(r entity.DiagnosticRow) string { return r.IssuedDate }); v != "" {
		d.IssuedDate = dateutil.Normalize(v, loc)
	}
	d.IssuedStaff = lastFilled(rows, func(r entity.DiagnosticRow) string { return r.IssuedStaff })

	for i := len(rows) - 1; i >= 0; i-- {
		if strings.EqualFold(strings.TrimSpace(rows[i].Status), entity.DiagnosticIssued) {
			d.CompletedAt = dateutil.Normalize(rows[i].IntakeDate, loc)
			d.CompletedBy = rows[i].Staff
			break
		}
	}
	if d.IssuedDate == "" {
		d.IssuedDate = d.CompletedAt
	} else if d.CompletedAt == "" {
		d.CompletedAt = d.IssuedDate
	}
	if d.IssuedStaff == "" {
		d.IssuedStaff = d.CompletedBy
	} else if d.CompletedBy == "" {
		d.CompletedBy = d.IssuedStaff
	}
	return d
}
