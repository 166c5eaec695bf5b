package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/db"
	snowyhttp "github.com/tdobson/snowy-sub000/internal/http"
	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
}

func New() (*App, error) {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	rdb := newRedisClient(cfg, log)
	metrics := observability.NewMetrics()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, rdb, metrics)
	handlerset := wireHandlers(log, serviceset, reposet)
	authMW := wireMiddleware(log, serviceset)

	router := snowyhttp.NewRouter(snowyhttp.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		AuthHandler:      handlerset.Auth,
		AuthMiddleware:   authMW,
		UserHandler:      handlerset.User,
		ProjectHandler:   handlerset.Project,
		ReportingHandler: handlerset.Reporting,
		ImportHandler:    handlerset.Import,
		HealthHandler:    handlerset.Health,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Redis:    rdb,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
