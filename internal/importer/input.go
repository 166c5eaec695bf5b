package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

// CustomFieldValue is one named attribute carried on an import object.
// UIName and Description are optional presentation metadata.
type CustomFieldValue struct {
	Value       string `json:"value"`
	UIName      string `json:"uiName,omitempty"`
	Description string `json:"description,omitempty"`
}

// CustomFieldBlock travels with any sub-object of a plot import and is
// written through the sidecar against that sub-object's resolved id.
type CustomFieldBlock struct {
	EntityType EntityKind                  `json:"entityType"`
	Fields     map[string]CustomFieldValue `json:"fields"`
}

// DnoImport upserts a DNO detail row keyed by MPAN prefix.
type DnoImport struct {
	MpanPrefix   string `json:"mpanPrefix"`
	DnoName      string `json:"dnoName,omitempty"`
	Address      string `json:"address,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	ContactNo    string `json:"contactNo,omitempty"`
	InternalTel  string `json:"internalTel,omitempty"`
	Type         string `json:"type,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// RegionImport is a pure lookup by region number.
type RegionImport struct {
	RegionNumber int `json:"regionNumber"`
}

// AddressImport upserts an address keyed by (line 1, postcode).
type AddressImport struct {
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	AddressLine3  string `json:"addressLine3,omitempty"`
	AddressTown   string `json:"addressTown,omitempty"`
	AddressCounty string `json:"addressCounty,omitempty"`
	Postcode      string `json:"postcode"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// UserImport upserts a user keyed by email.
type UserImport struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
	DispatchID  string `json:"dispatchId,omitempty"`
	SnowyRole   string `json:"snowyRole,omitempty"`
	CompanyRole string `json:"companyRole,omitempty"`
	Category    string `json:"category,omitempty"`
	Employer    string `json:"employer,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// TeamImport upserts a team keyed by name.
type TeamImport struct {
	TeamName        string `json:"teamName"`
	TeamDescription string `json:"teamDescription,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// StatusImport upserts a status keyed by (state, group).
type StatusImport struct {
	StatusState       string `json:"statusState"`
	StatusGroup       string `json:"statusGroup"`
	StatusName        string `json:"statusName,omitempty"`
	StatusCode        *int   `json:"statusCode,omitempty"`
	StatusDescription string `json:"statusDescription,omitempty"`
}

// SiteImport upserts a site keyed by name, with its address nested.
type SiteImport struct {
	SiteName string         `json:"siteName"`
	Address  *AddressImport `json:"address,omitempty"`
	Manager  *UserImport    `json:"manager,omitempty"`
	Surveyor *UserImport    `json:"surveyor,omitempty"`
	Agent    *UserImport    `json:"agent,omitempty"`
	MpanID   string         `json:"mpanId,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// ClientImport upserts a client keyed by name, with its own address and
// contact user nested.
type ClientImport struct {
	ClientName             string         `json:"clientName"`
	ClientLegacyNumber     string         `json:"clientLegacyNumber,omitempty"`
	ClientPlotCardRequired string         `json:"clientPlotCardRequired,omitempty"`
	Address                *AddressImport `json:"address,omitempty"`
	Contact                *UserImport    `json:"contact,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// ProjectProcessImport carries the workflow state written alongside a
// project.
type ProjectProcessImport struct {
	ProjectProcessID   *uuid.UUID `json:"projectProcessId,omitempty"`
	ApprovalStatus     string     `json:"approvalStatus,omitempty"`
	DeadlineToConnect  *time.Time `json:"deadlineToConnect,omitempty"`
	AuthLetterSent     *bool      `json:"authLetterSent,omitempty"`
	MpanRequestSent    *bool      `json:"mpanRequestSent,omitempty"`
	SchematicCreated   *bool      `json:"schematicCreated,omitempty"`
	ApplicationType    string     `json:"applicationType,omitempty"`
	FormalDnoSubmitted *bool      `json:"formalDnoSubmitted,omitempty"`
	SubmissionDate     *time.Time `json:"submissionDate,omitempty"`
	DnoDueDate         *time.Time `json:"dnoDueDate,omitempty"`
	DnoStatus          string     `json:"dnoStatus,omitempty"`
	ApprovedKwp        *float64   `json:"approvedKwp,omitempty"`
	DnoIcpRequired     *bool      `json:"dnoIcpRequired,omitempty"`
	DnoIcpDate         *time.Time `json:"dnoIcpDate,omitempty"`
	DnoIcpReference    string     `json:"dnoIcpReference,omitempty"`
}

// ProjectImport upserts a project keyed by PV number.
type ProjectImport struct {
	PvNumber    string                `json:"pvNumber"`
	ProjectName string                `json:"projectName,omitempty"`
	RefNumber   string                `json:"refNumber,omitempty"`
	Process     *ProjectProcessImport `json:"process,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// ProductImport upserts a product keyed by name.
type ProductImport struct {
	ProductName  string   `json:"productName"`
	ProductType  string   `json:"productType,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	ProductModel string   `json:"productModel,omitempty"`
	Kwp          *float64 `json:"kwp,omitempty"`
	Voc          *float64 `json:"voc,omitempty"`
	Isc          *float64 `json:"isc,omitempty"`
	MaxCurrent   *float64 `json:"maxCurrent,omitempty"`
	Capacity     *float64 `json:"capacity,omitempty"`
	NoPanels     *int     `json:"noPanels,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// ElevationImport is one roof facet within a plot spec or install. The
// three-tier elevation numbering (Elevation_No custom field, then the
// explicit elevationNumber field, then a computed ordinal) happens inside
// the importer.
type ElevationImport struct {
	TypeTestRef     string   `json:"typeTestRef,omitempty"`
	Pitch           *float64 `json:"pitch,omitempty"`
	Orientation     string   `json:"orientation,omitempty"`
	KkFigure        *float64 `json:"kkFigure,omitempty"`
	Kwp             *float64 `json:"kwp,omitempty"`
	Strings         *int     `json:"strings,omitempty"`
	ModuleQty       *int     `json:"moduleQty,omitempty"`
	ElevationNumber *int     `json:"elevationNumber,omitempty"`

	// VariationFromSouth is the facet's azimuth offset in degrees. With
	// ElevationNumber it tells apart facets identical in pitch,
	// orientation and module count.
	VariationFromSouth *int `json:"variationFromSouth,omitempty"`

	Inverter        *ProductImport `json:"inverter,omitempty"`
	InverterCost    *float64       `json:"inverterCost,omitempty"`
	Panel           *ProductImport `json:"panel,omitempty"`
	PanelCost       *float64       `json:"panelCost,omitempty"`
	PanelsTotalCost *float64       `json:"panelsTotalCost,omitempty"`
	RoofKit         *ProductImport `json:"roofKit,omitempty"`
	RoofKitCost     *float64       `json:"roofKitCost,omitempty"`
	AnnualYield     *float64       `json:"annualYield,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// PlotSpecImport is the specified version of a plot's installation.
type PlotSpecImport struct {
	DateSpecified         *time.Time     `json:"dateSpecified,omitempty"`
	SpecifiedBy           *UserImport    `json:"specifiedBy,omitempty"`
	Status                *StatusImport  `json:"status,omitempty"`
	Phase                 string         `json:"phase,omitempty"`
	P1                    *float64       `json:"p1,omitempty"`
	P2                    *float64       `json:"p2,omitempty"`
	P3                    *float64       `json:"p3,omitempty"`
	AnnualYield           *float64       `json:"annualYield,omitempty"`
	Kwp                   *float64       `json:"kwp,omitempty"`
	KwpWithLimitation     *float64       `json:"kwpWithLimitation,omitempty"`
	LimiterRequired       *bool          `json:"limiterRequired,omitempty"`
	LimiterValueIfNotZero *float64       `json:"limiterValueIfNotZero,omitempty"`
	Labour                *float64       `json:"labour,omitempty"`
	Meter                 *ProductImport `json:"meter,omitempty"`
	MeterCost             *float64       `json:"meterCost,omitempty"`
	Battery               *ProductImport `json:"battery,omitempty"`
	BatteryCost           *float64       `json:"batteryCost,omitempty"`
	OverallCost           *float64       `json:"overallCost,omitempty"`
	LandlordSupply        *bool          `json:"landlordSupply,omitempty"`

	Elevations   []ElevationImport `json:"elevations,omitempty"`
	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// PlotInstallImport is the as-built version of a plot's installation.
type PlotInstallImport struct {
	DateInstall           *time.Time     `json:"dateInstall,omitempty"`
	DateChecked           *time.Time     `json:"dateChecked,omitempty"`
	InstallBy             *UserImport    `json:"installBy,omitempty"`
	CheckedBy             *UserImport    `json:"checkedBy,omitempty"`
	Status                *StatusImport  `json:"status,omitempty"`
	Phase                 string         `json:"phase,omitempty"`
	P1                    *float64       `json:"p1,omitempty"`
	P2                    *float64       `json:"p2,omitempty"`
	P3                    *float64       `json:"p3,omitempty"`
	AnnualYield           *float64       `json:"annualYield,omitempty"`
	Kwp                   *float64       `json:"kwp,omitempty"`
	KwpWithLimitation     *float64       `json:"kwpWithLimitation,omitempty"`
	LimiterRequired       *bool          `json:"limiterRequired,omitempty"`
	LimiterValueIfNotZero *float64       `json:"limiterValueIfNotZero,omitempty"`
	Labour                *float64       `json:"labour,omitempty"`
	Meter                 *ProductImport `json:"meter,omitempty"`
	MeterCost             *float64       `json:"meterCost,omitempty"`
	Battery               *ProductImport `json:"battery,omitempty"`
	BatteryCost           *float64       `json:"batteryCost,omitempty"`
	OverallCost           *float64       `json:"overallCost,omitempty"`

	Elevations   []ElevationImport `json:"elevations,omitempty"`
	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// PlotImport is the denormalized import object for one plot, the unit the
// orchestrator consumes. Shape comes from the row source adapter; the
// orchestrator validates it before any write happens.
type PlotImport struct {
	PlotID     *uuid.UUID `json:"plotId,omitempty"`
	PlotNumber string     `json:"plotNumber"`
	TrackerRef string     `json:"trackerRef"`

	Housetype                  string `json:"housetype,omitempty"`
	Mpan                       string `json:"mpan,omitempty"`
	G99                        *bool  `json:"g99,omitempty"`
	PlotApproved               *bool  `json:"plotApproved,omitempty"`
	CommissioningFormSubmitted *bool  `json:"commissioningFormSubmitted,omitempty"`
	LegacyPlotID               string `json:"legacyPlotId,omitempty"`

	Address *AddressImport `json:"address,omitempty"`
	Status  *StatusImport  `json:"status,omitempty"`
	DNO     *DnoImport     `json:"dno,omitempty"`
	Region  *RegionImport  `json:"region,omitempty"`
	Site    *SiteImport    `json:"site,omitempty"`
	Client  *ClientImport  `json:"client,omitempty"`
	Project *ProjectImport `json:"project,omitempty"`

	PlotSpec    *PlotSpecImport    `json:"plotSpec,omitempty"`
	PlotInstall *PlotInstallImport `json:"plotInstall,omitempty"`

	CustomFields *CustomFieldBlock `json:"customFields,omitempty"`
}

// Validate rejects malformed import objects before the orchestrator writes
// anything. It checks shape, not business state: natural-key completeness
// of optional sub-objects is the upsert engine's concern.
func (p *PlotImport) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil plot import", pkgerrors.ErrInvalidArgument)
	}
	var problems []string
	if p.PlotID == nil && strings.TrimSpace(p.PlotNumber) == "" {
		problems = append(problems, "plotNumber or plotId is required")
	}
	if p.Project != nil && strings.TrimSpace(p.Project.PvNumber) == "" {
		problems = append(problems, "project.pvNumber is required when project is present")
	}
	if p.Site != nil && strings.TrimSpace(p.Site.SiteName) == "" {
		problems = append(problems, "site.siteName is required when site is present")
	}
	if p.Client != nil && strings.TrimSpace(p.Client.ClientName) == "" {
		problems = append(problems, "client.clientName is required when client is present")
	}
	if p.Status != nil && (strings.TrimSpace(p.Status.StatusState) == "" || strings.TrimSpace(p.Status.StatusGroup) == "") {
		problems = append(problems, "status requires both statusState and statusGroup")
	}
	if p.Address != nil && strings.TrimSpace(p.Address.AddressLine1) == "" && strings.TrimSpace(p.Address.Postcode) == "" {
		problems = append(problems, "address requires addressLine1 or postcode")
	}
	for _, block := range p.customFieldBlocks() {
		if block == nil {
			continue
		}
		if !KnownKind(block.EntityType) {
			problems = append(problems, fmt.Sprintf("unknown custom field entity type %q", block.EntityType))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidArgument, strings.Join(problems, "; "))
	}
	return nil
}

func (p *PlotImport) customFieldBlocks() []*CustomFieldBlock {
	blocks := []*CustomFieldBlock{p.CustomFields}
	if p.DNO != nil {
		blocks = append(blocks, p.DNO.CustomFields)
	}
	if p.Address != nil {
		blocks = append(blocks, p.Address.CustomFields)
	}
	if p.Site != nil {
		blocks = append(blocks, p.Site.CustomFields)
	}
	if p.Client != nil {
		blocks = append(blocks, p.Client.CustomFields)
	}
	if p.Project != nil {
		blocks = append(blocks, p.Project.CustomFields)
	}
	if p.PlotSpec != nil {
		blocks = append(blocks, p.PlotSpec.CustomFields)
		for i := range p.PlotSpec.Elevations {
			blocks = append(blocks, p.PlotSpec.Elevations[i].CustomFields)
		}
	}
	if p.PlotInstall != nil {
		blocks = append(blocks, p.PlotInstall.CustomFields)
		for i := range p.PlotInstall.Elevations {
			blocks = append(blocks, p.PlotInstall.Elevations[i].CustomFields)
		}
	}
	return blocks
}
