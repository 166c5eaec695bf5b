package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/repos"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type ProjectService interface {
	CreateProject(ctx context.Context, instanceID uuid.UUID, project *types.Project) error
	GetProject(ctx context.Context, instanceID, projectID uuid.UUID) (*types.Project, error)
	ListProjects(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*types.Project, error)
	UpdateProject(ctx context.Context, instanceID, projectID uuid.UUID, updates map[string]any) (*types.Project, error)
	DeleteProject(ctx context.Context, instanceID, projectID uuid.UUID) error
	ListPlots(ctx context.Context, instanceID, projectID uuid.UUID) ([]*types.Plot, error)
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	plotRepo    repos.PlotRepo
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, plotRepo repos.PlotRepo) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{db: db, log: serviceLog, projectRepo: projectRepo, plotRepo: plotRepo}
}

func (ps *projectService) CreateProject(ctx context.Context, instanceID uuid.UUID, project *types.Project) error {
	if project.PvNumber == "" {
		return fmt.Errorf("%w: pv_number is required", pkgerrors.ErrInvalidArgument)
	}
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ps.projectRepo.GetByPvNumber(ctx, tx, instanceID, project.PvNumber)
		if err != nil && err != pkgerrors.ErrNotFound {
			return fmt.Errorf("failed to check existing project: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: pv_number already in use", pkgerrors.ErrInvalidArgument)
		}
		project.ProjectID = uuid.New()
		project.InstanceID = instanceID
		if _, cErr := ps.projectRepo.Create(ctx, tx, []*types.Project{project}); cErr != nil {
			return fmt.Errorf("failed to create project: %w", cErr)
		}
		return nil
	})
}

func (ps *projectService) GetProject(ctx context.Context, instanceID, projectID uuid.UUID) (*types.Project, error) {
	return ps.projectRepo.GetByID(ctx, nil, instanceID, projectID)
}

func (ps *projectService) ListProjects(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*types.Project, error) {
	return ps.projectRepo.List(ctx, nil, instanceID, limit, offset)
}

func (ps *projectService) UpdateProject(ctx context.Context, instanceID, projectID uuid.UUID, updates map[string]any) (*types.Project, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", pkgerrors.ErrInvalidArgument)
	}
	if err := ps.projectRepo.Update(ctx, nil, instanceID, projectID, updates); err != nil {
		return nil, err
	}
	return ps.projectRepo.GetByID(ctx, nil, instanceID, projectID)
}

func (ps *projectService) DeleteProject(ctx context.Context, instanceID, projectID uuid.UUID) error {
	return ps.projectRepo.Delete(ctx, nil, instanceID, projectID)
}

func (ps *projectService) ListPlots(ctx context.Context, instanceID, projectID uuid.UUID) ([]*types.Plot, error) {
	return ps.plotRepo.ListByProject(ctx, nil, instanceID, projectID)
}
