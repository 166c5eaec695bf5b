package domain

import (
	"time"

	"github.com/google/uuid"
)

// Instance is the tenant root. Every other table carries its id and all
// natural-key lookups are scoped to it.
type Instance struct {
	InstanceID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:instance_id" json:"instance_id"`
	InstanceNameKey     string     `gorm:"uniqueIndex;not null;column:instance_name_key" json:"instance_name_key"`
	InstanceName        string     `gorm:"column:instance_name" json:"instance_name"`
	InstanceDescription string     `gorm:"column:instance_description" json:"instance_description"`
	InstanceLogoKey     string     `gorm:"column:instance_logo_key" json:"instance_logo_key"`
	InstanceKeyContact  *uuid.UUID `gorm:"type:uuid;column:instance_key_contact" json:"instance_key_contact"`
	ImportID            *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Instance) TableName() string { return "instances" }
