package app

import (
	"github.com/tdobson/snowy-sub000/internal/http/handlers"
	"github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Project   *handlers.ProjectHandler
	Reporting *handlers.ReportingHandler
	Import    *handlers.ImportHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Auth:      handlers.NewAuthHandler(serviceset.Auth),
		User:      handlers.NewUserHandler(reposet.User),
		Project:   handlers.NewProjectHandler(serviceset.Project),
		Reporting: handlers.NewReportingHandler(serviceset.Reporting),
		Import:    handlers.NewImportHandler(serviceset.Import),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(log, serviceset.Auth)
}
