package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/money"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/repository"
	"github.com/mobigrad/teleshop/internal/testutil"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	loc := dateutil.Location("")
	lock := oplock.New()
	c := cache.New(nil)
	logger := zap.NewNop()

	stockSvc := NewStockService(repos, lock, c, loc, logger)
	return &Services{
		Stock:      stockSvc,
		Sale:       NewSaleService(repos, stockSvc, lock, c, loc),
		Shift:      NewShiftService(repos, lock, c, loc),
		Preorder:   NewPreorderService(repos, lock, c, loc),
		Diagnostic: NewDiagnosticService(repos, lock, c, loc),
		Report:     NewReportService(repos, c, loc, nil, "", logger),
	}, db
}

func TestPhoneSaleMarksStockSold(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	db.Create(&entity.StockItem{
		ID: "STK-202601-0001", City: "Москва", Condition: "Новый",
		ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный",
		IMEI: "111", SalePrice: 70000, Status: entity.StockInStock, Position: 1,
	})

	sale, err := svc.Sale.Create(ctx, SaleInput{
		Store: "Центральный", Staff: "Иванов",
		ItemType: entity.ItemPhone, Condition: "Новый", IMEIOrSKU: "111",
		Total: 70000, Payments: []money.Payment{{Method: "Карта", Amount: 70000}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.ModelName != "iPhone 15" {
		t.Errorf("model backfilled = %q", sale.ModelName)
	}

	var item entity.StockItem
	db.First(&item, "id = ?", "STK-202601-0001")
	if item.Status != entity.StockSold {
		t.Errorf("stock status = %q", item.Status)
	}

	_, err = svc.Sale.Create(ctx, SaleInput{
		Store: "Центральный", Staff: "Иванов",
		ItemType: entity.ItemPhone, Condition: "Новый", IMEIOrSKU: "111",
		Total: 70000,
	})
	if err != ErrAlreadySold {
		t.Fatalf("second sale err = %v, want ErrAlreadySold", err)
	}
}

func TestAccessorySaleDecrementsQty(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	db.Create(&entity.AccessoryItem{Store: "Центральный", ModelName: "Чехол", SKU: "CASE-1", SalePrice: 1500, Qty: 1})

	if _, err := svc.Sale.Create(ctx, SaleInput{
		Store: "Центральный", Staff: "Иванов",
		ItemType: entity.ItemAccessory, IMEIOrSKU: "CASE-1", Total: 1500,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var acc entity.AccessoryItem
	db.First(&acc, "sku = ?", "CASE-1")
	if acc.Qty != 0 {
		t.Errorf("qty = %d", acc.Qty)
	}

	_, err := svc.Sale.Create(ctx, SaleInput{
		Store: "Центральный", Staff: "Иванов",
		ItemType: entity.ItemAccessory, IMEIOrSKU: "CASE-1", Total: 1500,
	})
	if err != ErrNoStock {
		t.Fatalf("err = %v, want ErrNoStock", err)
	}
}

func TestServiceSaleTotalFromPayments(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	sale, err := svc.Sale.Create(ctx, SaleInput{
		Store: "Центральный", Staff: "Иванов",
		ItemType: entity.ItemService, Total: 999,
		Payments: []money.Payment{
			{Method: "Наличные", Amount: 500},
			{Method: "Карта", Amount: 300},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sale.Total != 800 {
		t.Errorf("total = %v, want payments sum", sale.Total)
	}
}

func TestStockAddRejectsDuplicateIMEI(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	in := StockAddInput{
		City: "Москва", Condition: "Новый", ModelName: "iPhone 15",
		Memory: "128 ГБ", Color: "Черный", IMEI: "222", SalePrice: 70000,
	}
	if _, err := svc.Stock.Add(ctx, in); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// пробелы в IMEI не спасают от дубликата
	in.IMEI = " 2 22 "
	if _, err := svc.Stock.Add(ctx, in); err != ErrDuplicateIMEI {
		t.Fatalf("err = %v, want ErrDuplicateIMEI", err)
	}
}

func TestStockAddManyReportsPerItem(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	results, err := svc.Stock.AddMany(ctx, []StockAddInput{
		{City: "Москва", Condition: "Новый", ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный", IMEI: "333"},
		{City: "Москва", Condition: "Новый", ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный", IMEI: "333"},
		{City: "", Condition: "", ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный"},
	})
	if err != nil {
		t.Fatalf("AddMany: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Status != "added" || results[1].Status != "skipped_duplicate" || results[2].Status != "invalid" {
		t.Errorf("statuses = %s, %s, %s", results[0].Status, results[1].Status, results[2].Status)
	}
	if results[2].Reason == "" {
		t.Errorf("invalid item has no reason")
	}
}

func TestStockAddRequiresIMEI(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	in := StockAddInput{
		City: "Москва", Condition: "Новый", ModelName: "iPhone 15",
		Memory: "128 ГБ", Color: "Черный", SalePrice: 70000,
	}
	if _, err := svc.Stock.Add(ctx, in); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	// пустой IMEI из одних пробелов тоже отклоняется до записи
	in.IMEI = "   "
	if _, err := svc.Stock.Add(ctx, in); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	var count int64
	db.Model(&entity.StockItem{}).Count(&count)
	if count != 0 {
		t.Errorf("stock rows = %d, want 0", count)
	}

	results, err := svc.Stock.AddMany(ctx, []StockAddInput{
		{City: "Москва", Condition: "Новый", ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный"},
	})
	if err != nil {
		t.Fatalf("AddMany: %v", err)
	}
	if results[0].Status != "invalid" || results[0].Reason == "" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestAutoSortReordersStockAfterAdd(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	db.Create(&entity.CatalogEntry{ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный", SalePrice: 70000, Position: 1})
	db.Create(&entity.CatalogEntry{ModelName: "iPhone 15 Pro", Memory: "128 ГБ", Color: "Черный", SalePrice: 100000, Position: 2})

	// приемка в порядке, обратном каталогу
	if _, err := svc.Stock.Add(ctx, StockAddInput{
		City: "Москва", Condition: "Новый", ModelName: "iPhone 15 Pro",
		Memory: "128 ГБ", Color: "Черный", IMEI: "901",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Stock.Add(ctx, StockAddInput{
		City: "Москва", Condition: "Новый", ModelName: "iPhone 15",
		Memory: "128 ГБ", Color: "Черный", IMEI: "902",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// авто-сортировка ждет освобождения замка операции и дописывает позиции
	deadline := time.Now().Add(3 * time.Second)
	for {
		var it entity.StockItem
		if err := db.Where("imei = ?", "902").First(&it).Error; err == nil && it.Position == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("auto-sort did not move the catalog-first model to position 1")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
