package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportEvent is the provenance anchor for one import or modification run.
// Every row written by the import pipeline references the import_id of the
// run that last touched it. Rows are never deleted.
type ImportEvent struct {
	ImportID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:import_id" json:"import_id"`
	InstanceID      uuid.UUID  `gorm:"type:uuid;not null;index;column:instance_id" json:"instance_id"`
	ImportDate      time.Time  `gorm:"not null;column:import_date" json:"import_date"`
	ImportedBy      *uuid.UUID `gorm:"type:uuid;column:imported_by" json:"imported_by"`
	ModifiedDate    *time.Time `gorm:"column:modified_date" json:"modified_date"`
	ModifiedBy      *uuid.UUID `gorm:"type:uuid;column:modified_by" json:"modified_by"`
	ModificationRef string     `gorm:"column:modification_ref" json:"modification_ref"`
	ImportRef       string     `gorm:"index;column:import_ref" json:"import_ref"`
	ImportSource    string     `gorm:"column:import_source" json:"import_source"`
	ImportNotes     string     `gorm:"column:import_notes" json:"import_notes"`
}

func (ImportEvent) TableName() string { return "import_events" }

// CustomField attaches an arbitrary named value to any entity without a
// schema change. At most one row exists per
// (instance_id, entity_type, entity_id, field_name).
type CustomField struct {
	CustomFieldID    uuid.UUID  `gorm:"type:uuid;primaryKey;column:custom_field_id" json:"custom_field_id"`
	InstanceID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_custom_fields_key;column:instance_id" json:"instance_id"`
	EntityType       string     `gorm:"not null;uniqueIndex:ux_custom_fields_key;column:entity_type" json:"entity_type"`
	EntityID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_custom_fields_key;column:entity_id" json:"entity_id"`
	FieldName        string     `gorm:"not null;uniqueIndex:ux_custom_fields_key;column:field_name" json:"field_name"`
	FieldValue       string     `gorm:"column:field_value" json:"field_value"`
	FieldUIName      string     `gorm:"column:field_ui_name" json:"field_ui_name"`
	FieldDescription string     `gorm:"column:field_description" json:"field_description"`
	ImportID         *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CustomField) TableName() string { return "custom_fields" }
