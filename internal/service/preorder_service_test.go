package service

import (
	"context"
	"testing"

	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/money"
)

func TestPreorderLifecycle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	p, err := svc.Preorder.Create(ctx, PreorderInput{
		Store: "Центральный", Staff: "Иванов",
		ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Синий",
		PrePrice: "85000",
		Payments: []money.Payment{{Method: "Наличные", Amount: 10000}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != entity.PreorderWaiting {
		t.Errorf("status = %q", p.Status)
	}
	if p.Prepay != 10000 || p.Balance != 75000 {
		t.Errorf("prepay/balance = %v/%v", p.Prepay, p.Balance)
	}

	// завершение при долге запрещено
	if _, err := svc.Preorder.UpdateStatus(ctx, p.ID, StatusInput{Status: "Завершен", IMEI: "555"}); err != ErrBalanceDue {
		t.Fatalf("UpdateStatus err = %v, want ErrBalanceDue", err)
	}

	// выкуп с неверной суммой
	if _, err := svc.Preorder.Finalize(ctx, p.ID, FinalizeInput{
		Store:    "Центральный",
		Staff:    "Сидоров",
		IMEI:     "555",
		Payments: []money.Payment{{Method: "Карта", Amount: 50000}},
	}); err == nil {
		t.Fatal("Finalize with wrong sum succeeded")
	}

	// довнесение
	p, err = svc.Preorder.AddPayment(ctx, p.ID, PaymentInput{
		Payments: []money.Payment{{Method: "Карта", Amount: 25000}},
	})
	if err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if p.Prepay != 35000 || p.Balance != 50000 {
		t.Errorf("after payment prepay/balance = %v/%v", p.Prepay, p.Balance)
	}

	// выкуп остатка
	p, err = svc.Preorder.Finalize(ctx, p.ID, FinalizeInput{
		Store:    "Северный",
		Staff:    "Сидоров",
		IMEI:     "555",
		Payments: []money.Payment{{Method: "Карта", Amount: 50000}},
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if p.Status != entity.PreorderCompleted {
		t.Errorf("status = %q", p.Status)
	}
	if p.Balance != 0 {
		t.Errorf("balance = %v", p.Balance)
	}
	if p.PreIMEI != "555" {
		t.Errorf("pre_imei = %q", p.PreIMEI)
	}
	if p.CompletedBy != "Сидоров" {
		t.Errorf("completed_by = %q", p.CompletedBy)
	}
	// завершающая строка несет магазин выкупа, он и попадает в отчеты
	if p.Store != "Северный" {
		t.Errorf("store = %q", p.Store)
	}

	// повторный выкуп запрещен
	if _, err := svc.Preorder.Finalize(ctx, p.ID, FinalizeInput{Store: "Северный", Staff: "Сидоров", IMEI: "555"}); err != ErrPreorderDone {
		t.Fatalf("second Finalize err = %v, want ErrPreorderDone", err)
	}
}

func TestPreorderCompleteWithoutIMEI(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	p, err := svc.Preorder.Create(ctx, PreorderInput{
		Store: "Центральный", Staff: "Иванов", ModelName: "iPhone 15",
		PrePrice: "1000",
		Payments: []money.Payment{{Method: "Наличные", Amount: 1000}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Preorder.UpdateStatus(ctx, p.ID, StatusInput{Status: "Завершен"}); err != ErrIMEIRequired {
		t.Fatalf("err = %v, want ErrIMEIRequired", err)
	}
	p, err = svc.Preorder.UpdateStatus(ctx, p.ID, StatusInput{Status: "Завершен", IMEI: "777"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if p.PreIMEI != "777" || p.CompletedAt == "" {
		t.Errorf("pre_imei = %q, completed_at = %q", p.PreIMEI, p.CompletedAt)
	}
}

func TestDiagnosticIssuedFlow(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	d, err := svc.Diagnostic.Create(ctx, DiagnosticInput{
		Store: "Центральный", Staff: "Иванов", ModelName: "Samsung S23",
		Complect:     []string{"коробка", "кабель"},
		Neispravnost: "не включается",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != entity.DiagnosticAccepted {
		t.Errorf("status = %q", d.Status)
	}
	if d.Complect != "коробка, кабель" {
		t.Errorf("complect = %q", d.Complect)
	}

	// выдача без даты и сотрудника запрещена
	if _, err := svc.Diagnostic.UpdateStatus(ctx, d.ID, DiagnosticStatusInput{Status: "Выдан"}); err != ErrIssueNeedsFields {
		t.Fatalf("err = %v, want ErrIssueNeedsFields", err)
	}

	d, err = svc.Diagnostic.UpdateStatus(ctx, d.ID, DiagnosticStatusInput{
		Status: "Выдан", IssuedDate: "2026-01-20", IssuedStaff: "Сидоров",
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if d.IssuedDate != "20.01.2026" || d.IssuedStaff != "Сидоров" {
		t.Errorf("issued = %q / %q", d.IssuedDate, d.IssuedStaff)
	}

	// выданную заявку в другой статус не перевести
	if _, err := svc.Diagnostic.UpdateStatus(ctx, d.ID, DiagnosticStatusInput{Status: "Принят"}); err != ErrIssuedImmutable {
		t.Fatalf("err = %v, want ErrIssuedImmutable", err)
	}
}

func TestShiftCheckInAssignsId(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	s1, err := svc.Shift.CheckIn(ctx, CheckInInput{Store: "Центральный", Staff: "Иванов"})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	s2, err := svc.Shift.CheckIn(ctx, CheckInInput{Store: "Северный", Staff: "Сидоров"})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if s1.ID == s2.ID {
		t.Errorf("ids not unique: %s", s1.ID)
	}
	if s1.DateVyhoda == "" || s1.VremyaVyhoda == "" {
		t.Errorf("date/time empty: %+v", s1)
	}
}

func TestPreorderListFiltersAndTotals(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	if _, err := svc.Preorder.Create(ctx, PreorderInput{
		Store: "Центральный", Staff: "Иванов", ModelName: "iPhone 15",
		Customer: "Петров Петр",
		Payments: []money.Payment{{Method: "Наличные", Amount: 5000}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Preorder.Create(ctx, PreorderInput{
		Store: "Северный", Staff: "Сидоров", ModelName: "iPhone 15 Pro",
		Payments: []money.Payment{{Method: "Карта", Amount: 7000}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := svc.Preorder.List(ctx, PreorderFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.Totals.Count != 2 || all.Totals.Prepay != 12000 {
		t.Errorf("totals = %+v", all.Totals)
	}

	byStore, err := svc.Preorder.List(ctx, PreorderFilter{Store: "Северный"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if byStore.Totals.Count != 1 || byStore.Rows[0].ModelName != "iPhone 15 Pro" {
		t.Errorf("store filter: %+v", byStore.Rows)
	}

	byCustomer, err := svc.Preorder.List(ctx, PreorderFilter{Customer: "петров"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if byCustomer.Totals.Count != 1 || byCustomer.Rows[0].Store != "Центральный" {
		t.Errorf("customer filter: %+v", byCustomer.Rows)
	}
}
