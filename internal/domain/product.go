package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is an inverter/panel/roof-kit/meter/battery row shared by many
// plots, keyed by name within an instance. Blank-preserving merge on
// update.
type Product struct {
	ProductID    uuid.UUID  `gorm:"type:uuid;primaryKey;column:product_id" json:"product_id"`
	InstanceID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_products_name;column:instance_id" json:"instance_id"`
	ProductName  string     `gorm:"not null;uniqueIndex:ux_products_name;column:product_name" json:"product_name"`
	ProductType  string     `gorm:"column:product_type" json:"product_type"`
	Manufacturer string     `gorm:"column:manufacturer" json:"manufacturer"`
	ProductModel string     `gorm:"column:product_model" json:"product_model"`
	Kwp          float64    `gorm:"column:kwp" json:"kwp"`
	Voc          float64    `gorm:"column:voc" json:"voc"`
	Isc          float64    `gorm:"column:isc" json:"isc"`
	MaxCurrent   float64    `gorm:"column:max_current" json:"max_current"`
	Capacity     float64    `gorm:"column:capacity" json:"capacity"`
	NoPanels     int        `gorm:"column:no_panels" json:"no_panels"`
	Cost         float64    `gorm:"column:cost" json:"cost"`
	ImportID     *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Product type tags used by the import pipeline.
const (
	ProductTypeInverter = "Inverter"
	ProductTypePanel    = "Panel"
	ProductTypeRoofKit  = "Roof Kit"
	ProductTypeMeter    = "Meter"
	ProductTypeBattery  = "Battery"
)
