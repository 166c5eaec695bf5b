package db

import (
	types "github.com/tdobson/snowy-sub000/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Tenancy + provenance
		&types.Instance{},
		&types.ImportEvent{},
		&types.CustomField{},

		// Lookups
		&types.DnoDetail{},
		&types.Region{},
		&types.Status{},
		&types.Product{},

		// Parties
		&types.User{},
		&types.Team{},
		&types.Client{},

		// Geography
		&types.Address{},
		&types.Site{},

		// Project graph
		&types.Project{},
		&types.ProjectProcess{},
		&types.Plot{},
		&types.PlotSpec{},
		&types.PlotInstall{},
		&types.ElevationSpec{},
		&types.ElevationInstall{},

		// Scheduling + submissions
		&types.Job{},
		&types.Slot{},
		&types.FormSubmission{},
		&types.McsSubmission{},
	)
}
