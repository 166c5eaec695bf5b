package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address rows are shared by plots, sites and clients. The import natural
// key is (address_line_1, postcode).
type Address struct {
	AddressID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:address_id" json:"address_id"`
	InstanceID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_addresses_line_postcode;column:instance_id" json:"instance_id"`
	AddressLine1  string     `gorm:"not null;uniqueIndex:ux_addresses_line_postcode;column:address_line_1" json:"address_line_1"`
	AddressLine2  string     `gorm:"column:address_line_2" json:"address_line_2"`
	AddressLine3  string     `gorm:"column:address_line_3" json:"address_line_3"`
	AddressTown   string     `gorm:"column:address_town" json:"address_town"`
	AddressCounty string     `gorm:"column:address_county" json:"address_county"`
	Postcode      string     `gorm:"not null;uniqueIndex:ux_addresses_line_postcode;column:postcode" json:"postcode"`
	BuildBlockID  *uuid.UUID `gorm:"type:uuid;column:build_block_id" json:"build_block_id"`
	ImportID      *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Address) TableName() string { return "addresses" }

// Site is a development a project is built on, keyed by name.
type Site struct {
	SiteID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:site_id" json:"site_id"`
	InstanceID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_sites_name;column:instance_id" json:"instance_id"`
	SiteName      string     `gorm:"not null;uniqueIndex:ux_sites_name;column:site_name" json:"site_name"`
	SiteAddressID *uuid.UUID `gorm:"type:uuid;column:site_address_id" json:"site_address_id"`
	SiteManagerID *uuid.UUID `gorm:"type:uuid;column:site_manager_id" json:"site_manager_id"`
	SurveyorID    *uuid.UUID `gorm:"type:uuid;column:surveyor_id" json:"surveyor_id"`
	AgentID       *uuid.UUID `gorm:"type:uuid;column:agent_id" json:"agent_id"`
	MpanID        string     `gorm:"column:mpan_id" json:"mpan_id"`
	ImportID      *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Site) TableName() string { return "sites" }
