package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project ties a client, site, DNO and region together under a PV number.
type Project struct {
	ProjectID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:project_id" json:"project_id"`
	InstanceID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_projects_pv_number;column:instance_id" json:"instance_id"`
	PvNumber         string     `gorm:"not null;uniqueIndex:ux_projects_pv_number;column:pv_number" json:"pv_number"`
	ProjectName      string     `gorm:"column:project_name" json:"project_name"`
	ClientID         *uuid.UUID `gorm:"type:uuid;column:client_id" json:"client_id"`
	DnoDetailsID     *uuid.UUID `gorm:"type:uuid;column:dno_details_id" json:"dno_details_id"`
	RegionID         *uuid.UUID `gorm:"type:uuid;column:region_id" json:"region_id"`
	SiteID           *uuid.UUID `gorm:"type:uuid;column:site_id" json:"site_id"`
	RefNumber        string     `gorm:"column:ref_number" json:"ref_number"`
	ProjectProcessID *uuid.UUID `gorm:"type:uuid;column:project_process_id" json:"project_process_id"`
	ImportID         *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Project) TableName() string { return "projects" }

// ProjectProcess tracks the approval/connection workflow state of a project.
type ProjectProcess struct {
	ProjectProcessID   uuid.UUID  `gorm:"type:uuid;primaryKey;column:project_process_id" json:"project_process_id"`
	InstanceID         uuid.UUID  `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	ApprovalStatus     string     `gorm:"column:approval_status" json:"approval_status"`
	DeadlineToConnect  *time.Time `gorm:"column:deadline_to_connect" json:"deadline_to_connect"`
	AuthLetterSent     bool       `gorm:"column:auth_letter_sent" json:"auth_letter_sent"`
	MpanRequestSent    bool       `gorm:"column:mpan_request_sent" json:"mpan_request_sent"`
	SchematicCreated   bool       `gorm:"column:schematic_created" json:"schematic_created"`
	ApplicationType    string     `gorm:"column:application_type" json:"application_type"`
	FormalDnoSubmitted bool       `gorm:"column:formal_dno_submitted" json:"formal_dno_submitted"`
	SubmissionDate     *time.Time `gorm:"column:submission_date" json:"submission_date"`
	DnoDueDate         *time.Time `gorm:"column:dno_due_date" json:"dno_due_date"`
	DnoStatus          string     `gorm:"column:dno_status" json:"dno_status"`
	ApprovedKwp        float64    `gorm:"column:approved_kwp" json:"approved_kwp"`
	DnoIcpRequired     bool       `gorm:"column:dno_icp_required" json:"dno_icp_required"`
	DnoIcpDate         *time.Time `gorm:"column:dno_icp_date" json:"dno_icp_date"`
	DnoIcpReference    string     `gorm:"column:dno_icp_reference" json:"dno_icp_reference"`
	ImportID           *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ProjectProcess) TableName() string { return "project_process" }

// Status is a shared state + group lookup, e.g. ("Specified", "Plot").
type Status struct {
	StatusID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:status_id" json:"status_id"`
	InstanceID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_status_state_group;column:instance_id" json:"instance_id"`
	StatusState       string     `gorm:"not null;uniqueIndex:ux_status_state_group;column:status_state" json:"status_state"`
	StatusGroup       string     `gorm:"not null;uniqueIndex:ux_status_state_group;column:status_group" json:"status_group"`
	StatusName        string     `gorm:"column:status_name" json:"status_name"`
	StatusCode        int        `gorm:"column:status_code" json:"status_code"`
	StatusDescription string     `gorm:"column:status_description" json:"status_description"`
	ImportID          *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Status) TableName() string { return "status" }
