package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mobigrad/teleshop/internal/config"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/middleware"
	"github.com/mobigrad/teleshop/internal/repository"
	"github.com/mobigrad/teleshop/internal/service"
	"github.com/mobigrad/teleshop/internal/testutil"
)

func setupEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	svc := service.NewServices(repos, nil, cfg, zap.NewNop())
	h := NewHandlers(svc)

	r := testutil.SetupRouter()
	v1 := r.Group("/api/v1")
	v1.GET("/availability", h.Report.Availability)
	v1.POST("/sales", h.Sale.Create)
	v1.GET("/sales", h.Sale.List)
	admin := v1.Group("/admin", middleware.AdminAuth(svc.Auth.Validate))
	admin.POST("/stock", h.Stock.Add)
	return r, db
}

func TestCreateSaleEndpoint(t *testing.T) {
	r, db := setupEnv(t)

	db.Create(&entity.StockItem{
		ID: "STK-202601-0001", City: "Москва", Condition: "Новый",
		ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный",
		IMEI: "111", SalePrice: 70000, Status: entity.StockInStock, Position: 1,
	})

	body := map[string]interface{}{
		"store":       "Центральный",
		"staff":       "Иванов",
		"item_type":   "Телефон",
		"condition":   "Новый",
		"imei_or_sku": "111",
		"total":       70000,
		"payments":    []map[string]interface{}{{"method": "Карта", "amount": 70000}},
	}
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/sales", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("code = %v", resp["code"])
	}

	// повторная продажа того же IMEI
	w = testutil.DoRequest(r, http.MethodPost, "/api/v1/sales", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second sale status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	if resp["code"].(float64) != 10001 {
		t.Errorf("second sale code = %v", resp["code"])
	}
}

func TestSaleValidationEnvelope(t *testing.T) {
	r, _ := setupEnv(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"item_type": "Телефон",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10001 {
		t.Errorf("code = %v", resp["code"])
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r, _ := setupEnv(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/admin/stock", map[string]interface{}{
		"city": "Москва",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40100 {
		t.Errorf("code = %v", resp["code"])
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, db := setupEnv(t)

	db.Create(&entity.StockItem{
		ID: "STK-202601-0002", City: "Москва", Condition: "Новый",
		ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Черный",
		Status: entity.StockInStock, Position: 1,
	})

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/availability", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	stock := data["stock"].([]interface{})
	if len(stock) != 1 {
		t.Errorf("stock len = %d", len(stock))
	}
}
