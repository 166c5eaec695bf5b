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

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) (*types.Project, error)
	GetByPvNumber(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, pvNumber string) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, limit, offset int) ([]*types.Project, error)
	Update(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(projects) == 0 {
		return []*types.Project{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (pr *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Project
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND project_id = ?", instanceID, projectID).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *projectRepo) GetByPvNumber(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, pvNumber string) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Project
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND pv_number = ?", instanceID, pvNumber).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *projectRepo) List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, limit, offset int) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if limit <= 0 {
		limit = 100
	}
	var results []*types.Project
	err := transaction.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("pv_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *projectRepo) Update(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("instance_id = ? AND project_id = ?", instanceID, projectID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (pr *projectRepo) Delete(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Where("instance_id = ? AND project_id = ?", instanceID, projectID).
		Delete(&types.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
