package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/report"
	"github.com/mobigrad/teleshop/internal/repository"
)

// ReportService ежедневный отчет, витрина наличия и выгрузка в XLSX.
type ReportService struct {
	repos       *repository.Repositories
	cache       *cache.Cache
	loc         *time.Location
	minioClient *minio.Client
	bucket      string
	logger      *zap.Logger
}

func NewReportService(repos *repository.Repositories, c *cache.Cache, loc *time.Location,
	minioClient *minio.Client, bucket string, logger *zap.Logger) *ReportService {
	return &ReportService{repos: repos, cache: c, loc: loc, minioClient: minioClient, bucket: bucket, logger: logger}
}

// Dictionaries справочники для форм интерфейса.
type Dictionaries struct {
	Cities      []string          `json:"cities"`
	Conditions  []string          `json:"conditions"`
	Stores      []entity.Store    `json:"stores"`
	Staff       []entity.Staff    `json:"staff"`
	ItemTypes   []string          `json:"item_types"`
	Payments    []string          `json:"payments"`
	Complect    []string          `json:"complect"`
	Appearance  []string          `json:"appearance"`
	StaffColors map[string]string `json:"staffColors"`
}

// Availability витрина наличия: склад в отсортированном порядке,
// аксессуары, каталог и справочники одним ответом.
type Availability struct {
	Stock       []entity.StockItem     `json:"stock"`
	Accessories []entity.AccessoryItem `json:"accessories"`
	Catalog     []entity.CatalogEntry  `json:"catalog"`
	Dicts       Dictionaries           `json:"dicts"`
}

func (s *ReportService) dictionaries(ctx context.Context) (Dictionaries, error) {
	var d Dictionaries
	var err error
	if d.Cities, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictCity); err != nil {
		return d, err
	}
	if d.Conditions, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictCondition); err != nil {
		return d, err
	}
	if d.Stores, err = s.repos.Dictionary.Stores(ctx); err != nil {
		return d, err
	}
	if d.Staff, err = s.repos.Dictionary.Staff(ctx); err != nil {
		return d, err
	}
	if d.ItemTypes, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictItemType); err != nil {
		return d, err
	}
	if d.Payments, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictPayment); err != nil {
		return d, err
	}
	if d.Complect, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictComplect); err != nil {
		return d, err
	}
	if d.Appearance, err = s.repos.Dictionary.ValueStrings(ctx, entity.DictAppearance); err != nil {
		return d, err
	}
	if d.StaffColors, err = s.repos.Dictionary.StaffColorMap(ctx); err != nil {
		return d, err
	}
	return d, nil
}

// Availability собирает витрину наличия, кэш 10 минут.
func (s *ReportService) Availability(ctx context.Context) (*Availability, error) {
	var cached Availability
	if s.cache.GetJSON(ctx, cache.KeyAvailability, &cached) {
		return &cached, nil
	}
	out := &Availability{}
	var err error
	if out.Stock, err = s.repos.Stock.All(ctx); err != nil {
		return nil, err
	}
	if out.Accessories, err = s.repos.Accessory.All(ctx); err != nil {
		return nil, err
	}
	if out.Catalog, err = s.repos.Catalog.All(ctx); err != nil {
		return nil, err
	}
	if out.Dicts, err = s.dictionaries(ctx); err != nil {
		return nil, err
	}
	s.cache.PutJSON(ctx, cache.KeyAvailability, out, cache.AggregateTTL)
	return out, nil
}

// Daily строит ежедневный отчет, кэш 10 минут.
func (s *ReportService) Daily(ctx context.Context) (*report.Daily, error) {
	var cached report.Daily
	if s.cache.GetJSON(ctx, cache.KeyDaily, &cached) {
		return &cached, nil
	}
	sales, err := s.repos.Sale.All(ctx)
	if err != nil {
		return nil, err
	}
	pre, err := s.repos.Preorder.All(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := s.repos.Shift.All(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := s.repos.Dictionary.StaffColorMap(ctx)
	if err != nil {
		return nil, err
	}
	out := report.BuildDaily(sales, pre, shifts, colors, s.loc, nowFunc())
	s.cache.PutJSON(ctx, cache.KeyDaily, out, cache.AggregateTTL)
	return &out, nil
}

var dailySheetHeaders = []string{
	"Дата", "Магазин", "Сотрудник", "Тип", "Модель", "Память", "Цвет",
	"IMEI/Артикул", "Сумма", "Платежи", "Покупатель", "Телефон", "ЗП", "Заметка",
}

// ExportDailyXLSX выгружает отчет в книгу: лист на каждый день плюс свод.
func (s *ReportService) ExportDailyXLSX(ctx context.Context) (*excelize.File, string, error) {
	daily, err := s.Daily(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	summary := "Свод"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Дата")
	f.SetCellValue(summary, "B1", "Продажи")
	f.SetCellValue(summary, "C1", "Предзаказы внесено")
	f.SetCellStyle(summary, "A1", "C1", boldStyle)
	for i, day := range daily.Days {
		row := i + 2
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), day.Date)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), day.Totals.SalesTotal)
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), day.Totals.PreordersPaid)
	}
	totRow := len(daily.Days) + 2
	f.SetCellValue(summary, fmt.Sprintf("A%d", totRow), "Итого")
	f.SetCellValue(summary, fmt.Sprintf("B%d", totRow), daily.Totals.SalesTotal)
	f.SetCellValue(summary, fmt.Sprintf("C%d", totRow), daily.Totals.PreordersPaid)

	for _, day := range daily.Days {
		sheet := day.Date
		if _, err := f.NewSheet(sheet); err != nil {
			continue
		}
		for i, h := range dailySheetHeaders {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, col+"1", h)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(dailySheetHeaders))
		f.SetCellStyle(sheet, "A1", lastCol+"1", boldStyle)

		row := 2
		for _, sale := range day.Sales {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sale.Date)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sale.Store)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sale.Staff)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sale.ItemType)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sale.ModelName)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sale.Memory)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sale.Color)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sale.IMEIOrSKU)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), sale.Total)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), sale.Payments)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), sale.Customer)
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), sale.Phone)
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), sale.Zarplata)
			f.SetCellValue(sheet, fmt.Sprintf("N%d", row), sale.Note)
			row++
		}
		for _, p := range day.Preorders {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Date)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Store)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Staff)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Предзаказ")
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.ModelName)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.Memory)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.Color)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), p.PreIMEI)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), p.PaidRow)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), p.Payments)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), p.Customer)
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), p.Phone)
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), p.Zarplata)
			f.SetCellValue(sheet, fmt.Sprintf("N%d", row), p.Note)
			row++
		}
	}

	filename := fmt.Sprintf("daily-report-%s.xlsx", nowFunc().In(s.loc).Format("2006-01-02"))
	return f, filename, nil
}

// ArchiveDaily выгружает книгу отчета в объектное хранилище.
func (s *ReportService) ArchiveDaily(ctx context.Context) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("объектное хранилище не настроено")
	}
	f, filename, err := s.ExportDailyXLSX(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	objectName := fmt.Sprintf("reports/%s/%s", nowFunc().In(s.loc).Format("2006/01"), filename)
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	s.logger.Info("отчет выгружен в хранилище", zap.String("object", objectName))
	return objectName, nil
}
