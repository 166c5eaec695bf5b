package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpH "github.com/tdobson/snowy-sub000/internal/http/handlers"
	httpMW "github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler      *httpH.UserHandler
	ProjectHandler   *httpH.ProjectHandler
	ReportingHandler *httpH.ReportingHandler
	ImportHandler    *httpH.ImportHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	if cfg.Metrics != nil && cfg.Log != nil {
		r.Use(httpMW.RequestMetrics(cfg.Metrics, cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Metrics.Handler())
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/reset-password", cfg.AuthHandler.ResetPassword)
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/users", cfg.UserHandler.ListUsers)
		}

		// Projects
		if cfg.ProjectHandler != nil {
			protected.POST("/projects", cfg.ProjectHandler.CreateProject)
			protected.GET("/projects", cfg.ProjectHandler.ListProjects)
			protected.GET("/projects/:id", cfg.ProjectHandler.GetProject)
			protected.PATCH("/projects/:id", cfg.ProjectHandler.UpdateProject)
			protected.DELETE("/projects/:id", cfg.ProjectHandler.DeleteProject)
			protected.GET("/projects/:id/plots", cfg.ProjectHandler.ListProjectPlots)
		}

		// Reporting
		if cfg.ReportingHandler != nil {
			protected.GET("/projects/:id/elevations", cfg.ReportingHandler.ListProjectElevations)
			protected.GET("/plots/:id/elevations", cfg.ReportingHandler.ListPlotElevations)
			protected.GET("/mcs/report", cfg.ReportingHandler.McsReport)
			protected.GET("/mcs/submissions", cfg.ReportingHandler.ListMcsSubmissions)
		}

		// Imports
		if cfg.ImportHandler != nil {
			protected.POST("/imports/plot", cfg.ImportHandler.ImportPlot)
			protected.POST("/imports/sweep", cfg.ImportHandler.SweepFolder)
			protected.GET("/imports", cfg.ImportHandler.ListRuns)
			protected.GET("/imports/:id", cfg.ImportHandler.GetRun)
		}
	}

	return r
}
