package ledger

import (
	"math"
	"testing"

	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
)

var loc = dateutil.Location("")

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestAggregatePreorderEmpty(t *testing.T) {
	p := AggregatePreorder(nil, loc)
	if p.ID != "" || p.Prepay != 0 || p.Status != "" {
		t.Fatalf("expected zero value, got %+v", p)
	}
}

func TestAggregatePreorderSingleRow(t *testing.T) {
	p := AggregatePreorder([]entity.PreorderEvent{{
		ID:        "PRE-202601-0001",
		Date:      "2026-01-15",
		Store:     "Центральный",
		Staff:     "Иванов",
		ModelName: "iPhone 15 Pro",
		Memory:    "256 ГБ",
		Color:     "Синий",
		PrePrice:  "85000",
		Payments:  "Наличные:10000",
		Zarplata:  500,
	}}, loc)
	if p.Date != "15.01.2026" {
		t.Errorf("date = %q", p.Date)
	}
	if p.Status != entity.PreorderWaiting {
		t.Errorf("status = %q", p.Status)
	}
	if !almostEqual(p.Prepay, 10000) {
		t.Errorf("prepay = %v", p.Prepay)
	}
	if !almostEqual(p.Balance, 75000) {
		t.Errorf("balance = %v", p.Balance)
	}
}

func TestAggregatePreorderMultiRow(t *testing.T) {
	rows := []entity.PreorderEvent{
		{
			ID: "PRE-202601-0002", Date: "10.01.2026", Store: "Центральный",
			Staff: "Иванов", ModelName: "iPhone 15", Memory: "128 ГБ",
			PrePrice: "70000", Prepay: 20000, Payments: "Наличные:20000",
			Zarplata: 300, Customer: "Петров",
		},
		{
			ID: "PRE-202601-0002", Date: "12.01.2026", Staff: "Сидоров",
			Payments: "Карта:25000", Zarplata: 200, PreIMEI: " 356001234567890 ",
		},
		{
			ID: "PRE-202601-0002", Date: "20.01.2026", Store: "Северный",
			Staff: "Сидоров", Status: "Завершён", Payments: "Карта:25000",
			Customer: "Петров П.П.", Note: "выдан с чехлом",
		},
	}
	p := AggregatePreorder(rows, loc)
	if p.Store != "Северный" {
		t.Errorf("store = %q, want last non-empty", p.Store)
	}
	if p.Staff != "Иванов" {
		t.Errorf("staff = %q, want creator", p.Staff)
	}
	// 20000 (prepay) + 25000 + 25000 (строки без prepay)
	if !almostEqual(p.Prepay, 70000) {
		t.Errorf("prepay = %v", p.Prepay)
	}
	if !almostEqual(p.Balance, 0) {
		t.Errorf("balance = %v", p.Balance)
	}
	if !almostEqual(p.Zarplata, 500) {
		t.Errorf("zarplata = %v", p.Zarplata)
	}
	if p.PreIMEI != "356001234567890" {
		t.Errorf("pre_imei = %q", p.PreIMEI)
	}
	if p.CompletedAt != "20.01.2026" || p.CompletedBy != "Сидоров" {
		t.Errorf("completed = %q / %q", p.CompletedAt, p.CompletedBy)
	}
	if p.Note != "выдан с чехлом" {
		t.Errorf("note = %q, want last row only", p.Note)
	}
	if p.Customer != "Петров П.П." {
		t.Errorf("customer = %q", p.Customer)
	}
}

func TestAggregatePreorderCompletedYoVariant(t *testing.T) {
	rows := []entity.PreorderEvent{
		{ID: "PRE-202601-0003", Date: "01.01.2026", Staff: "А"},
		{ID: "PRE-202601-0003", Date: "05.01.2026", Staff: "Б", Status: "завершен"},
		{ID: "PRE-202601-0003", Date: "06.01.2026", Staff: "В", Status: "ЗАВЕРШЁН"},
	}
	p := AggregatePreorder(rows, loc)
	if p.CompletedAt != "06.01.2026" || p.CompletedBy != "В" {
		t.Errorf("completed = %q / %q, want last completing row", p.CompletedAt, p.CompletedBy)
	}
}

func TestAggregateDiagnosticEmpty(t *testing.T) {
	d := AggregateDiagnostic(nil, loc)
	if d.ID != "" || d.Status != "" {
		t.Fatalf("expected zero value, got %+v", d)
	}
}

func TestAggregateDiagnosticDefaults(t *testing.T) {
	d := AggregateDiagnostic([]entity.DiagnosticRow{{
		ID:           "DIAG-202601-0001",
		IntakeDate:   "2026-01-10",
		Store:        "Центральный",
		Staff:        "Иванов",
		ModelName:    "iPhone 13",
		Neispravnost: "не заряжается",
	}}, loc)
	if d.Status != entity.DiagnosticAccepted {
		t.Errorf("status = %q", d.Status)
	}
	if d.Date != "10.01.2026" {
		t.Errorf("date = %q", d.Date)
	}
	if d.DiagPay != 0 {
		t.Errorf("diag_pay = %v", d.DiagPay)
	}
}

func TestAggregateDiagnosticLastFilledWins(t *testing.T) {
	rows := []entity.DiagnosticRow{
		{
			ID: "DIAG-202601-0002", IntakeDate: "10.01.2026", Store: "Центральный",
			Staff: "Иванов", ModelName: "Samsung S23", Customer: "Орлов",
			Status: "Принят",
		},
		{
			ID: "DIAG-202601-0002", IntakeDate: "14.01.2026", Staff: "Сидоров",
			Status: "выдан", DiagPay: "1 500,50", Payments: "Карта:1500.5",
			IssuedDate: "2026-01-14", IssuedStaff: "Сидоров",
			ModelName: "не то поле",
		},
	}
	d := AggregateDiagnostic(rows, loc)
	if d.ModelName != "Samsung S23" {
		t.Errorf("model = %q, want first row", d.ModelName)
	}
	if d.Status != "выдан" {
		t.Errorf("status = %q", d.Status)
	}
	if !almostEqual(d.DiagPay, 1500.5) {
		t.Errorf("diag_pay = %v", d.DiagPay)
	}
	if d.IssuedDate != "14.01.2026" {
		t.Errorf("issued_date = %q", d.IssuedDate)
	}
	if d.CompletedAt != "14.01.2026" || d.CompletedBy != "Сидоров" {
		t.Errorf("completed = %q / %q", d.CompletedAt, d.CompletedBy)
	}
}

func TestAggregateDiagnosticCompletedFallback(t *testing.T) {
	rows := []entity.DiagnosticRow{
		{ID: "DIAG-202601-0003", IntakeDate: "01.01.2026", Staff: "А"},
		{ID: "DIAG-202601-0003", IntakeDate: "03.01.2026", Staff: "Б", Status: "Выдан"},
	}
	d := AggregateDiagnostic(rows, loc)
	// issued_date не заполнен, берется из завершающей строки
	if d.IssuedDate != "03.01.2026" || d.IssuedStaff != "Б" {
		t.Errorf("issued = %q / %q", d.IssuedDate, d.IssuedStaff)
	}
	if d.CompletedAt != "03.01.2026" || d.CompletedBy != "Б" {
		t.Errorf("completed = %q / %q", d.CompletedAt, d.CompletedBy)
	}
}

func TestAggregatePreorderNegativePrepayCorrection(t *testing.T) {
	p := AggregatePreorder([]entity.PreorderEvent{
		{
			ID: "PRE-202601-0007", Date: "10.01.2026", Store: "Центральный",
			Staff: "Иванов", PrePrice: "50000", Prepay: 10000,
		},
		// корректировка в минус: prepay учитывается, строка платежей добирается
		{ID: "PRE-202601-0007", Prepay: -2000},
		{ID: "PRE-202601-0007", Payments: "Карта:5000"},
	}, loc)
	if !almostEqual(p.Prepay, 13000) {
		t.Errorf("prepay = %v, want 10000 - 2000 + 5000", p.Prepay)
	}
	if !almostEqual(p.Balance, 37000) {
		t.Errorf("balance = %v", p.Balance)
	}
}
