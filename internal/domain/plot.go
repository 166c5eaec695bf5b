package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plot is one dwelling within a project. The import natural key is
// plot_id OR (plot_number AND tracker_ref); see the importer's plot
// resolver for the lookup semantics.
type Plot struct {
	PlotID                     uuid.UUID  `gorm:"type:uuid;primaryKey;column:plot_id" json:"plot_id"`
	InstanceID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_plots_number_tracker;column:instance_id" json:"instance_id"`
	ProjectID                  *uuid.UUID `gorm:"type:uuid;column:project_id" json:"project_id"`
	PlotNumber                 string     `gorm:"not null;uniqueIndex:ux_plots_number_tracker;column:plot_number" json:"plot_number"`
	TrackerRef                 string     `gorm:"uniqueIndex:ux_plots_number_tracker;column:tracker_ref" json:"tracker_ref"`
	PlotStatus                 *uuid.UUID `gorm:"type:uuid;column:plot_status" json:"plot_status"`
	SiteID                     *uuid.UUID `gorm:"type:uuid;column:site_id" json:"site_id"`
	Housetype                  string     `gorm:"column:housetype" json:"housetype"`
	G99                        bool       `gorm:"column:g99" json:"g99"`
	Mpan                       string     `gorm:"column:mpan" json:"mpan"`
	PlotAddressID              *uuid.UUID `gorm:"type:uuid;column:plot_address_id" json:"plot_address_id"`
	PlotApproved               bool       `gorm:"column:plot_approved" json:"plot_approved"`
	CommissioningFormSubmitted bool       `gorm:"column:commissioning_form_submitted" json:"commissioning_form_submitted"`
	LegacyPlotID               string     `gorm:"column:legacy_plot_id" json:"legacy_plot_id"`
	ImportID                   *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Plot) TableName() string { return "plots" }

// PlotSpec is the quoted/designed version of a plot's installation.
type PlotSpec struct {
	PlotSpecID            uuid.UUID  `gorm:"type:uuid;primaryKey;column:plot_spec_id" json:"plot_spec_id"`
	InstanceID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_plot_spec_plot;column:instance_id" json:"instance_id"`
	PlotID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_plot_spec_plot;column:plot_id" json:"plot_id"`
	DateSpecified         *time.Time `gorm:"column:date_specified" json:"date_specified"`
	SpecifiedBy           *uuid.UUID `gorm:"type:uuid;column:specified_by" json:"specified_by"`
	PlotSpecStatus        *uuid.UUID `gorm:"type:uuid;column:plot_spec_status" json:"plot_spec_status"`
	Phase                 string     `gorm:"column:phase" json:"phase"`
	P1                    float64    `gorm:"column:p1" json:"p1"`
	P2                    float64    `gorm:"column:p2" json:"p2"`
	P3                    float64    `gorm:"column:p3" json:"p3"`
	AnnualYield           float64    `gorm:"column:annual_yield" json:"annual_yield"`
	Kwp                   float64    `gorm:"column:kwp" json:"kwp"`
	KwpWithLimitation     float64    `gorm:"column:kwp_with_limitation" json:"kwp_with_limitation"`
	LimiterRequired       bool       `gorm:"column:limiter_required" json:"limiter_required"`
	LimiterValueIfNotZero float64    `gorm:"column:limiter_value_if_not_zero" json:"limiter_value_if_not_zero"`
	Labour                float64    `gorm:"column:labour" json:"labour"`
	Meter                 *uuid.UUID `gorm:"type:uuid;column:meter" json:"meter"`
	MeterCost             float64    `gorm:"column:meter_cost" json:"meter_cost"`
	Battery               *uuid.UUID `gorm:"type:uuid;column:battery" json:"battery"`
	BatteryCost           float64    `gorm:"column:battery_cost" json:"battery_cost"`
	OverallCost           float64    `gorm:"column:overall_cost" json:"overall_cost"`
	LandlordSupply        bool       `gorm:"column:landlord_supply" json:"landlord_supply"`
	ImportID              *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PlotSpec) TableName() string { return "plot_spec" }

// PlotInstall is the as-built version of a plot's installation,
// structurally parallel to PlotSpec.
type PlotInstall struct {
	PlotInstallID         uuid.UUID  `gorm:"type:uuid;primaryKey;column:plot_install_id" json:"plot_install_id"`
	InstanceID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_plot_install_plot;column:instance_id" json:"instance_id"`
	PlotID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_plot_install_plot;column:plot_id" json:"plot_id"`
	DateInstall           *time.Time `gorm:"column:date_install" json:"date_install"`
	DateChecked           *time.Time `gorm:"column:date_checked" json:"date_checked"`
	InstallBy             *uuid.UUID `gorm:"type:uuid;column:install_by" json:"install_by"`
	CheckedBy             *uuid.UUID `gorm:"type:uuid;column:checked_by" json:"checked_by"`
	PlotInstallStatus     *uuid.UUID `gorm:"type:uuid;column:plot_install_status" json:"plot_install_status"`
	Phase                 string     `gorm:"column:phase" json:"phase"`
	P1                    float64    `gorm:"column:p1" json:"p1"`
	P2                    float64    `gorm:"column:p2" json:"p2"`
	P3                    float64    `gorm:"column:p3" json:"p3"`
	AnnualYield           float64    `gorm:"column:annual_yield" json:"annual_yield"`
	Kwp                   float64    `gorm:"column:kwp" json:"kwp"`
	KwpWithLimitation     float64    `gorm:"column:kwp_with_limitation" json:"kwp_with_limitation"`
	LimiterRequired       bool       `gorm:"column:limiter_required" json:"limiter_required"`
	LimiterValueIfNotZero float64    `gorm:"column:limiter_value_if_not_zero" json:"limiter_value_if_not_zero"`
	Labour                float64    `gorm:"column:labour" json:"labour"`
	Meter                 *uuid.UUID `gorm:"type:uuid;column:meter" json:"meter"`
	MeterCost             float64    `gorm:"column:meter_cost" json:"meter_cost"`
	Battery               *uuid.UUID `gorm:"type:uuid;column:battery" json:"battery"`
	BatteryCost           float64    `gorm:"column:battery_cost" json:"battery_cost"`
	OverallCost           float64    `gorm:"column:overall_cost" json:"overall_cost"`
	McsSubmissionID       *uuid.UUID `gorm:"type:uuid;column:mcs_submission_id" json:"mcs_submission_id"`
	ImportID              *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PlotInstall) TableName() string { return "plot_install" }
