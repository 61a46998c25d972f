package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

// Handlers набор обработчиков.
type Handlers struct {
	Auth       *AuthHandler
	Stock      *StockHandler
	Sale       *SaleHandler
	Shift      *ShiftHandler
	Preorder   *PreorderHandler
	Diagnostic *DiagnosticHandler
	Report     *ReportHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		Stock:      NewStockHandler(svc.Stock),
		Sale:       NewSaleHandler(svc.Sale),
		Shift:      NewShiftHandler(svc.Shift),
		Preorder:   NewPreorderHandler(svc.Preorder),
		Diagnostic: NewDiagnosticHandler(svc.Diagnostic),
		Report:     NewReportHandler(svc.Report),
	}
}

// Response общий конверт ответа.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Коды бизнес-ошибок.
const (
	codeBadRequest   = 10001
	codeNotFound     = 10002
	codeUnauthorized = 40100
	codeBusy         = 42900
	codeInternal     = 50001
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// FromError переводит бизнес-ошибку сервиса в конверт ответа.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBusy):
		Error(c, http.StatusTooManyRequests, codeBusy, err.Error())
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrAlreadySold),
		errors.Is(err, service.ErrNoStock),
		errors.Is(err, service.ErrDuplicateIMEI),
		errors.Is(err, service.ErrPreorderDone),
		errors.Is(err, service.ErrBalanceDue),
		errors.Is(err, service.ErrIMEIRequired),
		errors.Is(err, service.ErrPaymentMismatch),
		errors.Is(err, service.ErrIssuedImmutable),
		errors.Is(err, service.ErrIssueNeedsFields):
		Error(c, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		Error(c, http.StatusInternalServerError, codeInternal, "внутренняя ошибка")
	}
}
