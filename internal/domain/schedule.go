package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job is one unit of dispatched work against a plot. Incoming-wins merge.
type Job struct {
	JobID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:job_id" json:"job_id"`
	InstanceID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_jobs_plot_type;column:instance_id" json:"instance_id"`
	PlotID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_jobs_plot_type;column:plot_id" json:"plot_id"`
	JobType      string     `gorm:"not null;uniqueIndex:ux_jobs_plot_type;column:job_type" json:"job_type"`
	ProjectID    *uuid.UUID `gorm:"type:uuid;column:project_id" json:"project_id"`
	UserID       *uuid.UUID `gorm:"type:uuid;column:user_id" json:"user_id"`
	SlotID       *uuid.UUID `gorm:"type:uuid;column:slot_id" json:"slot_id"`
	JobStatus    *uuid.UUID `gorm:"type:uuid;column:job_status" json:"job_status"`
	DispatchedAt *time.Time `gorm:"column:dispatched_at" json:"dispatched_at"`
	ReturnedAt   *time.Time `gorm:"column:returned_at" json:"returned_at"`
	DispatchID   string     `gorm:"column:dispatch_id" json:"dispatch_id"`
	SubmissionID *uuid.UUID `gorm:"type:uuid;column:submission_id" json:"submission_id"`
	ImportID     *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }

// Slot is a bookable install window. Incoming-wins merge.
type Slot struct {
	SlotID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:slot_id" json:"slot_id"`
	InstanceID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_slots_date_time;column:instance_id" json:"instance_id"`
	SlotDate   time.Time  `gorm:"not null;uniqueIndex:ux_slots_date_time;column:slot_date" json:"slot_date"`
	TimeSlot   string     `gorm:"not null;uniqueIndex:ux_slots_date_time;column:time_slot" json:"time_slot"`
	JobID      *uuid.UUID `gorm:"type:uuid;column:job_id" json:"job_id"`
	ImportID   *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Slot) TableName() string { return "slots" }
