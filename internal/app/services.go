package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
	"github.com/tdobson/snowy-sub000/internal/rowsource"
	"github.com/tdobson/snowy-sub000/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Project   services.ProjectService
	Reporting services.ReportingService
	Import    services.ImportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, rdb *redis.Client, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var locks *importer.LockManager
	if rdb != nil {
		locks = importer.NewLockManager(rdb, log, cfg.LockTTL)
	}
	engine := importer.NewEngine(db, log, locks, metrics)
	ledger := importer.NewLedger(db, log)
	orch := importer.NewOrchestrator(engine, ledger, log)

	var ingestor *rowsource.FolderIngestor
	if cfg.TrackerDir != "" {
		ingestor = rowsource.NewFolderIngestor(rowsource.FolderConfig{
			Dir:     cfg.TrackerDir,
			Budget:  cfg.SweepBudget,
			Workers: cfg.SweepWorkers,
		}, orch, ledger, locks, rdb, metrics, log)
	}

	return Services{
		Auth:      services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Project:   services.NewProjectService(db, log, reposet.Project, reposet.Plot),
		Reporting: services.NewReportingService(db, log, reposet.Elevation, reposet.Mcs),
		Import:    services.NewImportService(db, log, orch, ledger, ingestor, metrics),
	}
}
