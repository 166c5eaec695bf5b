package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type PlotRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) (*types.Plot, error)
	ListByProject(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) ([]*types.Plot, error)
	ListBySite(ctx context.Context, tx *gorm.DB, instanceID, siteID uuid.UUID) ([]*types.Plot, error)
}

type plotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlotRepo(db *gorm.DB, baseLog *logger.Logger) PlotRepo {
	repoLog := baseLog.With("repo", "PlotRepo")
	return &plotRepo{db: db, log: repoLog}
}

func (pr *plotRepo) GetByID(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) (*types.Plot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Plot
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND plot_id = ?", instanceID, plotID).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *plotRepo) ListByProject(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) ([]*types.Plot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Plot
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND project_id = ?", instanceID, projectID).
		Order("plot_number ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *plotRepo) ListBySite(ctx context.Context, tx *gorm.DB, instanceID, siteID uuid.UUID) ([]*types.Plot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Plot
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND site_id = ?", instanceID, siteID).
		Order("plot_number ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
