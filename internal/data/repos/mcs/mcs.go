package mcs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// ReportRow joins an MCS submission back to the plot install it certifies.
type ReportRow struct {
	McsSubmissionID      uuid.UUID `json:"mcs_submission_id"`
	McsSubmitStatus      string    `json:"mcs_submit_status"`
	McsCertificateNumber string    `json:"mcs_certificate_number"`
	PlotInstallID        uuid.UUID `json:"plot_install_id"`
	PlotID               uuid.UUID `json:"plot_id"`
	PlotNumber           string    `json:"plot_number"`
	PvNumber             string    `json:"pv_number"`
}

type McsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *types.McsSubmission) error
	GetByID(ctx context.Context, tx *gorm.DB, instanceID, submissionID uuid.UUID) (*types.McsSubmission, error)
	List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.McsSubmission, error)
	Report(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]ReportRow, error)
}

type mcsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMcsRepo(db *gorm.DB, baseLog *logger.Logger) McsRepo {
	repoLog := baseLog.With("repo", "McsRepo")
	return &mcsRepo{db: db, log: repoLog}
}

func (mr *mcsRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.McsSubmission) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if submission.McsSubmissionID == uuid.Nil {
		submission.McsSubmissionID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(submission).Error
}

func (mr *mcsRepo) GetByID(ctx context.Context, tx *gorm.DB, instanceID, submissionID uuid.UUID) (*types.McsSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.McsSubmission
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND mcs_submission_id = ?", instanceID, submissionID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (mr *mcsRepo) List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.McsSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.McsSubmission
	err := transaction.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mcsRepo) Report(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]ReportRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var rows []ReportRow
	err := transaction.WithContext(ctx).
		Table("mcs_submission").
		Select(`mcs_submission.mcs_submission_id,
			mcs_submission.mcs_submit_status,
			mcs_submission.mcs_certificate_number,
			plot_install.plot_install_id,
			plots.plot_id,
			plots.plot_number,
			projects.pv_number`).
		Joins("JOIN plot_install ON plot_install.mcs_submission_id = mcs_submission.mcs_submission_id").
		Joins("JOIN plots ON plots.plot_id = plot_install.plot_id").
		Joins("LEFT JOIN projects ON projects.project_id = plots.project_id").
		Where("mcs_submission.instance_id = ?", instanceID).
		Order("plots.plot_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
