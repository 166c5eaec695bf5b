package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FormSubmission stores a raw commissioning/survey form payload before it
// is reconciled into the schema.
type FormSubmission struct {
	SubmissionID uuid.UUID      `gorm:"type:uuid;primaryKey;column:submission_id" json:"submission_id"`
	InstanceID   uuid.UUID      `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	PlotID       *uuid.UUID     `gorm:"type:uuid;column:plot_id" json:"plot_id"`
	JobID        *uuid.UUID     `gorm:"type:uuid;column:job_id" json:"job_id"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload"`
	SubmittedAt  time.Time      `gorm:"not null;column:submitted_at" json:"submitted_at"`
	ImportID     *uuid.UUID     `gorm:"type:uuid;column:import_id" json:"import_id"`
}

func (FormSubmission) TableName() string { return "form_submissions" }

// McsSubmission tracks a plot install's MCS certificate lifecycle.
type McsSubmission struct {
	McsSubmissionID      uuid.UUID  `gorm:"type:uuid;primaryKey;column:mcs_submission_id" json:"mcs_submission_id"`
	InstanceID           uuid.UUID  `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	McsSubmitStatus      string     `gorm:"column:mcs_submit_status" json:"mcs_submit_status"`
	McsCertificateNumber string     `gorm:"column:mcs_certificate_number" json:"mcs_certificate_number"`
	McsCertificateID     string     `gorm:"column:mcs_certificate_id" json:"mcs_certificate_id"`
	McsCertificateDate   *time.Time `gorm:"column:mcs_certificate_date" json:"mcs_certificate_date"`
	SubmissionCheckedBy  *uuid.UUID `gorm:"type:uuid;column:submission_checked_by" json:"submission_checked_by"`
	SubmittedBy          *uuid.UUID `gorm:"type:uuid;column:submitted_by" json:"submitted_by"`
	McsLoadedDate        *time.Time `gorm:"column:mcs_loaded_date" json:"mcs_loaded_date"`
	McsSubmittedDate     *time.Time `gorm:"column:mcs_submitted_date" json:"mcs_submitted_date"`
	ImportID             *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (McsSubmission) TableName() string { return "mcs_submission" }
