package elevation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// SpecRow is one row of the read-only elevation reporting view: a
// specified facet joined to its plot and resolved product names.
type SpecRow struct {
	ElevationSpecID uuid.UUID `json:"elevation_spec_id"`
	PlotID          uuid.UUID `json:"plot_id"`
	PlotNumber      string    `json:"plot_number"`
	PvNumber        string    `json:"pv_number"`
	Pitch           float64   `json:"pitch"`
	Orientation     string    `json:"orientation"`
	ModuleQty       int       `json:"module_qty"`
	Kwp             float64   `json:"kwp"`
	InverterName    string    `json:"inverter_name"`
	PanelName       string    `json:"panel_name"`
}

type ElevationRepo interface {
	ListSpecByProject(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) ([]SpecRow, error)
	ListSpecByPlot(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) ([]*types.ElevationSpec, error)
	ListInstallByPlot(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) ([]*types.ElevationInstall, error)
}

type elevationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElevationRepo(db *gorm.DB, baseLog *logger.Logger) ElevationRepo {
	repoLog := baseLog.With("repo", "ElevationRepo")
	return &elevationRepo{db: db, log: repoLog}
}

func (er *elevationRepo) ListSpecByProject(ctx context.Context, tx *gorm.DB, instanceID, projectID uuid.UUID) ([]SpecRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var rows []SpecRow
	err := transaction.WithContext(ctx).
		Table("elevations_spec").
		Select(`elevations_spec.elevation_spec_id,
			elevations_spec.plot_id,
			plots.plot_number,
			projects.pv_number,
			elevations_spec.pitch,
			elevations_spec.orientation,
			elevations_spec.module_qty,
			elevations_spec.kwp,
			inverter.product_name AS inverter_name,
			panel.product_name AS panel_name`).
		Joins("JOIN plots ON plots.plot_id = elevations_spec.plot_id").
		Joins("JOIN projects ON projects.project_id = plots.project_id").
		Joins("LEFT JOIN products AS inverter ON inverter.product_id = elevations_spec.inverter").
		Joins("LEFT JOIN products AS panel ON panel.product_id = elevations_spec.panel").
		Where("elevations_spec.instance_id = ? AND projects.project_id = ?", instanceID, projectID).
		Order("plots.plot_number ASC, elevations_spec.elevation_spec_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *elevationRepo) ListSpecByPlot(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) ([]*types.ElevationSpec, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.ElevationSpec
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND plot_id = ?", instanceID, plotID).
		Order("elevation_spec_id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (er *elevationRepo) ListInstallByPlot(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID) ([]*types.ElevationInstall, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.ElevationInstall
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND plot_id = ?", instanceID, plotID).
		Order("elevation_install_id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
