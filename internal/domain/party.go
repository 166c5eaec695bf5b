package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is keyed by email within an instance. Import updates use the
// blank-preserving merge policy; the password column is only written by the
// auth service, never by the import pipeline.
type User struct {
	UserID      uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	InstanceID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_users_email;column:instance_id" json:"instance_id"`
	Email       string     `gorm:"not null;uniqueIndex:ux_users_email;column:email" json:"email"`
	Name        string     `gorm:"column:name" json:"name"`
	Phone       string     `gorm:"column:phone" json:"phone"`
	Password    string     `gorm:"column:password" json:"-"`
	TeamID      *uuid.UUID `gorm:"type:uuid;column:team_id" json:"team_id"`
	DispatchID  string     `gorm:"column:dispatch_id" json:"dispatch_id"`
	SnowyRole   string     `gorm:"column:snowy_role" json:"snowy_role"`
	CompanyRole string     `gorm:"column:company_role" json:"company_role"`
	Category    string     `gorm:"column:category" json:"category"`
	Employer    string     `gorm:"column:employer" json:"employer"`
	ImportID    *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Team groups installers. Blank-preserving merge on update.
type Team struct {
	TeamID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:team_id" json:"team_id"`
	InstanceID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_teams_name;column:instance_id" json:"instance_id"`
	TeamName        string     `gorm:"not null;uniqueIndex:ux_teams_name;column:team_name" json:"team_name"`
	TeamDescription string     `gorm:"column:team_description" json:"team_description"`
	ImportID        *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Team) TableName() string { return "teams" }

// Client is the customer a project is delivered for.
type Client struct {
	ClientID               uuid.UUID  `gorm:"type:uuid;primaryKey;column:client_id" json:"client_id"`
	InstanceID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_clients_name;column:instance_id" json:"instance_id"`
	ClientName             string     `gorm:"not null;uniqueIndex:ux_clients_name;column:client_name" json:"client_name"`
	ClientLegacyNumber     string     `gorm:"column:client_legacy_number" json:"client_legacy_number"`
	ClientAddressID        *uuid.UUID `gorm:"type:uuid;column:client_address_id" json:"client_address_id"`
	ClientPlotCardRequired string     `gorm:"column:client_plot_card_required" json:"client_plot_card_required"`
	ContactID              *uuid.UUID `gorm:"type:uuid;column:contact_id" json:"contact_id"`
	ImportID               *uuid.UUID `gorm:"type:uuid;column:import_id" json:"import_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Client) TableName() string { return "clients" }
