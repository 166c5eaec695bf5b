package repos

import (
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/repos/elevation"
	"github.com/tdobson/snowy-sub000/internal/data/repos/mcs"
	"github.com/tdobson/snowy-sub000/internal/data/repos/project"
	"github.com/tdobson/snowy-sub000/internal/data/repos/user"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type ProjectRepo = project.ProjectRepo
type PlotRepo = project.PlotRepo

type ElevationRepo = elevation.ElevationRepo

type McsRepo = mcs.McsRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return project.NewProjectRepo(db, baseLog)
}
func NewPlotRepo(db *gorm.DB, baseLog *logger.Logger) PlotRepo {
	return project.NewPlotRepo(db, baseLog)
}

func NewElevationRepo(db *gorm.DB, baseLog *logger.Logger) ElevationRepo {
	return elevation.NewElevationRepo(db, baseLog)
}

func NewMcsRepo(db *gorm.DB, baseLog *logger.Logger) McsRepo { return mcs.NewMcsRepo(db, baseLog) }
