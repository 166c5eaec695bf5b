package domain

import (
	"time"

	"github.com/google/uuid"
)

// DnoDetail describes a distribution network operator, keyed by the MPAN
// prefix it administers. Updates use the blank-preserving merge policy.
type DnoDetail struct {
	DnoDetailsID uuid.UUID  `gorm:"type:uuid;primaryKey;column:dno_details_id" json:"dno_details_id"`
	InstanceID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_dno_details_mpan;column:instance_id" json:"instance_id"`
	MpanPrefix   string     `gorm:"not null;uniqueIndex:ux_dno_details_mpan;column:mpan_prefix" json:"mpan_prefix"`
	DnoName      string     `gorm:"column:dno_name" json:"dno_name"`
	Address      string     `gorm:"column:address" json:"address"`
	EmailAddress string     `gorm:"column:email_address" json:"email_address"`
	ContactNo    string     `gorm:"column:contact_no" json:"contact_no"`
	InternalTel  string     `gorm:"column:internal_tel" json:"internal_tel"`
	Type         string     `gorm:"column:type" json:"type"`
	ImportID     *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DnoDetail) TableName() string { return "dno_details" }

// Region is a pure-lookup table resolved by region number during imports.
type Region struct {
	RegionID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:region_id" json:"region_id"`
	InstanceID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_regions_number;column:instance_id" json:"instance_id"`
	RegionNumber int        `gorm:"not null;uniqueIndex:ux_regions_number;column:region_number" json:"region_number"`
	RegionName   string     `gorm:"column:region_name" json:"region_name"`
	ImportID     *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Region) TableName() string { return "regions" }
