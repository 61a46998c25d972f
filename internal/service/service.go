package service

import (
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mobigrad/teleshop/internal/cache"
	"github.com/mobigrad/teleshop/internal/config"
	"github.com/mobigrad/teleshop/internal/dateutil"
	"github.com/mobigrad/teleshop/internal/oplock"
	"github.com/mobigrad/teleshop/internal/repository"
)

// Services набор сервисов. Все мутации журналов проходят через общий
// oplock: одна бизнес-операция в каждый момент времени.
type Services struct {
	Auth       *AuthService
	Stock      *StockService
	Sale       *SaleService
	Shift      *ShiftService
	Preorder   *PreorderService
	Diagnostic *DiagnosticService
	Report     *ReportService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	loc := dateutil.Location(cfg.Business.Timezone)
	lock := oplock.New()
	c := cache.New(rdb)

	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio недоступен, выгрузка отчетов отключена", zap.Error(err))
			minioClient = nil
		}
	}

	stockSvc := NewStockService(repos, lock, c, loc, logger)
	return &Services{
		Auth:       NewAuthService(c, cfg),
		Stock:      stockSvc,
		Sale:       NewSaleService(repos, stockSvc, lock, c, loc),
		Shift:      NewShiftService(repos, lock, c, loc),
		Preorder:   NewPreorderService(repos, lock, c, loc),
		Diagnostic: NewDiagnosticService(repos, lock, c, loc),
		Report:     NewReportService(repos, c, loc, minioClient, cfg.MinIO.Bucket, logger),
	}
}

// nowFunc подменяется в тестах.
var nowFunc = time.Now
