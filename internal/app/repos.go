package app

import (
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/repos"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	Project   repos.ProjectRepo
	Plot      repos.PlotRepo
	Elevation repos.ElevationRepo
	Mcs       repos.McsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		Project:   repos.NewProjectRepo(db, log),
		Plot:      repos.NewPlotRepo(db, log),
		Elevation: repos.NewElevationRepo(db, log),
		Mcs:       repos.NewMcsRepo(db, log),
	}
}
