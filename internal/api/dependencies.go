package api

import (
	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/db"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/metrics"
	"clubaereo/bitacora/internal/providers"
	"clubaereo/bitacora/internal/services"
)

type Repositories struct {
	Aircraft    *repositories.AircraftRepository
	Flight      *repositories.FlightRepository
	Component   *repositories.ComponentRepository
	Submission  *repositories.SubmissionRepository
	Transaction *repositories.TransactionRepository
	User        *repositories.UserRepository
	Stats       *repositories.FlightStatsRepository
}

type Services struct {
	Cache      common.CacheInterface
	RedisQueue *common.RedisQueueService
	OCR        providers.OCRProvider
	Ledger     *services.LedgerService
	Submission *services.SubmissionService
	Review     *services.ReviewService
	Overhaul   *services.OverhaulService
	Ratio      *services.RatioService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Aircraft:    repositories.NewAircraftRepository(db.PgDB),
		Flight:      repositories.NewFlightRepository(db.PgDB),
		Component:   repositories.NewComponentRepository(db.PgDB),
		Submission:  repositories.NewSubmissionRepository(db.PgDB),
		Transaction: repositories.NewTransactionRepository(db.PgDB),
		User:        repositories.NewUserRepository(db.PgDB),
		Stats:       repositories.NewFlightStatsRepository(db.DB),
	}

	cacheSvc := common.NewCacheService(60000, 600)
	redisQueue := common.NewRedisQueueService(common.NewRedisClient())
	ocrProvider := providers.NewHTTPOCRProvider()

	ledgerSvc := services.NewLedgerService(db.PgDB, cacheSvc)

	svcs := &Services{
		Cache:      cacheSvc,
		RedisQueue: redisQueue,
		OCR:        ocrProvider,
		Ledger:     ledgerSvc,
		Submission: services.NewSubmissionService(db.PgDB, repos.Submission, ocrProvider, ledgerSvc),
		Review:     services.NewReviewService(repos.Submission, ledgerSvc),
		Overhaul:   services.NewOverhaulService(db.PgDB, repos.Component, repos.Flight),
		Ratio:      services.NewRatioService(repos.Stats, cacheSvc),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
