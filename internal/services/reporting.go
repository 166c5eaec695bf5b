package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/repos"
	"github.com/tdobson/snowy-sub000/internal/data/repos/elevation"
	"github.com/tdobson/snowy-sub000/internal/data/repos/mcs"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// ReportingService is the read side: elevation and MCS views assembled
// from the imported graph.
type ReportingService interface {
	ElevationsByProject(ctx context.Context, instanceID, projectID uuid.UUID) ([]elevation.SpecRow, error)
	ElevationsByPlot(ctx context.Context, instanceID, plotID uuid.UUID) ([]*types.ElevationSpec, error)
	McsReport(ctx context.Context, instanceID uuid.UUID) ([]mcs.ReportRow, error)
	ListMcsSubmissions(ctx context.Context, instanceID uuid.UUID) ([]*types.McsSubmission, error)
}

type reportingService struct {
	db            *gorm.DB
	log           *logger.Logger
	elevationRepo repos.ElevationRepo
	mcsRepo       repos.McsRepo
}

func NewReportingService(db *gorm.DB, log *logger.Logger, elevationRepo repos.ElevationRepo, mcsRepo repos.McsRepo) ReportingService {
	serviceLog := log.With("service", "ReportingService")
	return &reportingService{db: db, log: serviceLog, elevationRepo: elevationRepo, mcsRepo: mcsRepo}
}

func (rs *reportingService) ElevationsByProject(ctx context.Context, instanceID, projectID uuid.UUID) ([]elevation.SpecRow, error) {
	return rs.elevationRepo.ListSpecByProject(ctx, nil, instanceID, projectID)
}

func (rs *reportingService) ElevationsByPlot(ctx context.Context, instanceID, plotID uuid.UUID) ([]*types.ElevationSpec, error) {
	return rs.elevationRepo.ListSpecByPlot(ctx, nil, instanceID, plotID)
}

func (rs *reportingService) McsReport(ctx context.Context, instanceID uuid.UUID) ([]mcs.ReportRow, error) {
	return rs.mcsRepo.Report(ctx, nil, instanceID)
}

func (rs *reportingService) ListMcsSubmissions(ctx context.Context, instanceID uuid.UUID) ([]*types.McsSubmission, error) {
	return rs.mcsRepo.List(ctx, nil, instanceID)
}
