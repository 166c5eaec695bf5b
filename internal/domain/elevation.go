package domain

import (
	"time"

	"github.com/google/uuid"
)

// ElevationSpec is one specified roof facet of a plot. A plot may carry
// several elevations distinguished only by pitch/orientation/module count
// and the Elevation_No / variation-from-south custom fields, so there is no
// database-expressible natural key; the importer's elevation resolver owns
// existence checks.
type ElevationSpec struct {
	ElevationSpecID uuid.UUID  `gorm:"type:uuid;primaryKey;column:elevation_spec_id" json:"elevation_spec_id"`
	InstanceID      uuid.UUID  `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	PlotSpecID      *uuid.UUID `gorm:"type:uuid;column:plot_spec_id" json:"plot_spec_id"`
	PlotID          uuid.UUID  `gorm:"type:uuid;not null;index;column:plot_id" json:"plot_id"`
	TypeTestRef     string     `gorm:"column:type_test_ref" json:"type_test_ref"`
	Pitch           float64    `gorm:"column:pitch" json:"pitch"`
	Orientation     string     `gorm:"column:orientation" json:"orientation"`
	KkFigure        float64    `gorm:"column:kk_figure" json:"kk_figure"`
	Kwp             float64    `gorm:"column:kwp" json:"kwp"`
	Strings         int        `gorm:"column:strings" json:"strings"`
	ModuleQty       int        `gorm:"column:module_qty" json:"module_qty"`
	Inverter        *uuid.UUID `gorm:"type:uuid;column:inverter" json:"inverter"`
	InverterCost    float64    `gorm:"column:inverter_cost" json:"inverter_cost"`
	Panel           *uuid.UUID `gorm:"type:uuid;column:panel" json:"panel"`
	PanelCost       float64    `gorm:"column:panel_cost" json:"panel_cost"`
	PanelsTotalCost float64    `gorm:"column:panels_total_cost" json:"panels_total_cost"`
	RoofKit         *uuid.UUID `gorm:"type:uuid;column:roof_kit" json:"roof_kit"`
	RoofKitCost     float64    `gorm:"column:roof_kit_cost" json:"roof_kit_cost"`
	AnnualYield     float64    `gorm:"column:annual_yield" json:"annual_yield"`
	ImportID        *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ElevationSpec) TableName() string { return "elevations_spec" }

// ElevationInstall is the as-built counterpart of ElevationSpec.
type ElevationInstall struct {
	ElevationInstallID uuid.UUID  `gorm:"type:uuid;primaryKey;column:elevation_install_id" json:"elevation_install_id"`
	InstanceID         uuid.UUID  `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	PlotInstallID      *uuid.UUID `gorm:"type:uuid;column:plot_install_id" json:"plot_install_id"`
	PlotID             uuid.UUID  `gorm:"type:uuid;not null;index;column:plot_id" json:"plot_id"`
	TypeTestRef        string     `gorm:"column:type_test_ref" json:"type_test_ref"`
	Pitch              float64    `gorm:"column:pitch" json:"pitch"`
	Orientation        string     `gorm:"column:orientation" json:"orientation"`
	KkFigure           float64    `gorm:"column:kk_figure" json:"kk_figure"`
	Kwp                float64    `gorm:"column:kwp" json:"kwp"`
	Strings            int        `gorm:"column:strings" json:"strings"`
	ModuleQty          int        `gorm:"column:module_qty" json:"module_qty"`
	Inverter           *uuid.UUID `gorm:"type:uuid;column:inverter" json:"inverter"`
	InverterCost       float64    `gorm:"column:inverter_cost" json:"inverter_cost"`
	Panel              *uuid.UUID `gorm:"type:uuid;column:panel" json:"panel"`
	PanelCost          float64    `gorm:"column:panel_cost" json:"panel_cost"`
	PanelsTotalCost    float64    `gorm:"column:panels_total_cost" json:"panels_total_cost"`
	RoofKit            *uuid.UUID `gorm:"type:uuid;column:roof_kit" json:"roof_kit"`
	RoofKitCost        float64    `gorm:"column:roof_kit_cost" json:"roof_kit_cost"`
	AnnualYield        float64    `gorm:"column:annual_yield" json:"annual_yield"`
	ImportID           *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ElevationInstall) TableName() string { return "elevations_install" }
