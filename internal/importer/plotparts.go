package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

// ImportPlotSpec upserts the specified (designed) version of a plot's
// installation, materializing its nested user, status and product rows
// first, then its elevations.
func (e *Engine) ImportPlotSpec(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID, in *PlotSpecImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	specifiedBy := e.optionalUser(ctx, tx, instanceID, in.SpecifiedBy, importID)
	statusID, err := e.optionalStatus(ctx, tx, instanceID, in.Status, importID)
	if err != nil {
		return uuid.Nil, err
	}
	meterID, err := e.optionalProduct(ctx, tx, instanceID, in.Meter, importID)
	if err != nil {
		return uuid.Nil, err
	}
	batteryID, err := e.optionalProduct(ctx, tx, instanceID, in.Battery, importID)
	if err != nil {
		return uuid.Nil, err
	}

	key := map[string]any{"plot_id": plotID}
	payload := map[string]any{
		"date_specified":   in.DateSpecified,
		"phase":            in.Phase,
		"plot_spec_status": statusID,
	}
	if specifiedBy != nil {
		payload["specified_by"] = specifiedBy
	}
	if meterID != nil {
		payload["meter"] = meterID
	}
	if batteryID != nil {
		payload["battery"] = batteryID
	}
	addNumeric(payload, "p1", in.P1)
	addNumeric(payload, "p2", in.P2)
	addNumeric(payload, "p3", in.P3)
	addNumeric(payload, "annual_yield", in.AnnualYield)
	addNumeric(payload, "kwp", in.Kwp)
	addNumeric(payload, "kwp_with_limitation", in.KwpWithLimitation)
	addNumeric(payload, "limiter_value_if_not_zero", in.LimiterValueIfNotZero)
	addNumeric(payload, "labour", in.Labour)
	addNumeric(payload, "meter_cost", in.MeterCost)
	addNumeric(payload, "battery_cost", in.BatteryCost)
	addNumeric(payload, "overall_cost", in.OverallCost)
	if in.LimiterRequired != nil {
		payload["limiter_required"] = in.LimiterRequired
	}
	if in.LandlordSupply != nil {
		payload["landlord_supply"] = in.LandlordSupply
	}

	id, err := e.Upsert(ctx, tx, plotSpecSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}

	for i := range in.Elevations {
		if _, eerr := e.ImportElevationSpec(ctx, tx, instanceID, plotID, &id, &in.Elevations[i], importID); eerr != nil {
			return id, eerr
		}
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportPlotInstall upserts the as-built version of a plot's installation.
//
// The status, meter and battery references are passed into the update even
// when the input omits them, so an omitted sub-object nulls the column.
// That mirrors the tracker's historical behavior; we surface it as a
// warning instead of letting it pass unnoticed.
func (e *Engine) ImportPlotInstall(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID, in *PlotInstallImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	installBy := e.optionalUser(ctx, tx, instanceID, in.InstallBy, importID)
	checkedBy := e.optionalUser(ctx, tx, instanceID, in.CheckedBy, importID)
	statusID, err := e.optionalStatus(ctx, tx, instanceID, in.Status, importID)
	if err != nil {
		return uuid.Nil, err
	}
	meterID, err := e.optionalProduct(ctx, tx, instanceID, in.Meter, importID)
	if err != nil {
		return uuid.Nil, err
	}
	batteryID, err := e.optionalProduct(ctx, tx, instanceID, in.Battery, importID)
	if err != nil {
		return uuid.Nil, err
	}
	for col, id := range map[string]*uuid.UUID{
		"plot_install_status": statusID,
		"meter":               meterID,
		"battery":             batteryID,
	} {
		if id == nil {
			e.log.Warn("plot install reference absent from input, column will be nulled",
				"plot_id", plotID, "column", col, "import_id", importID)
		}
	}

	key := map[string]any{"plot_id": plotID}
	payload := map[string]any{
		"date_install":        in.DateInstall,
		"date_checked":        in.DateChecked,
		"phase":               in.Phase,
		"plot_install_status": statusID,
		"meter":               meterID,
		"battery":             batteryID,
	}
	if installBy != nil {
		payload["install_by"] = installBy
	}
	if checkedBy != nil {
		payload["checked_by"] = checkedBy
	}
	addNumeric(payload, "p1", in.P1)
	addNumeric(payload, "p2", in.P2)
	addNumeric(payload, "p3", in.P3)
	addNumeric(payload, "annual_yield", in.AnnualYield)
	addNumeric(payload, "kwp", in.Kwp)
	addNumeric(payload, "kwp_with_limitation", in.KwpWithLimitation)
	addNumeric(payload, "limiter_value_if_not_zero", in.LimiterValueIfNotZero)
	addNumeric(payload, "labour", in.Labour)
	addNumeric(payload, "meter_cost", in.MeterCost)
	addNumeric(payload, "battery_cost", in.BatteryCost)
	addNumeric(payload, "overall_cost", in.OverallCost)
	if in.LimiterRequired != nil {
		payload["limiter_required"] = in.LimiterRequired
	}

	id, err := e.Upsert(ctx, tx, plotInstallSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}

	for i := range in.Elevations {
		if _, eerr := e.ImportElevationInstall(ctx, tx, instanceID, plotID, &id, &in.Elevations[i], importID); eerr != nil {
			return id, eerr
		}
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// optionalUser upserts a nested user input if present. A missing natural
// key is a warning, not a failure: the reference is simply left unset.
func (e *Engine) optionalUser(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *UserImport, importID uuid.UUID) *uuid.UUID {
	if in == nil {
		return nil
	}
	id, err := e.ImportUser(ctx, tx, instanceID, in, importID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			e.log.Warn("skipping user reference with no email", "import_id", importID)
			return nil
		}
		e.log.Warn("user reference upsert failed", "error", err, "import_id", importID)
		return nil
	}
	return &id
}

func (e *Engine) optionalStatus(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *StatusImport, importID uuid.UUID) (*uuid.UUID, error) {
	if in == nil {
		return nil, nil
	}
	id, err := e.ImportStatus(ctx, tx, instanceID, in, importID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			e.log.Warn("skipping status reference with no state/group", "import_id", importID)
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (e *Engine) optionalProduct(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *ProductImport, importID uuid.UUID) (*uuid.UUID, error) {
	if in == nil {
		return nil, nil
	}
	id, err := e.ImportProduct(ctx, tx, instanceID, in, importID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			e.log.Warn("skipping product reference with no name", "import_id", importID)
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// addNumeric includes a numeric column only when the input carried it.
// Zero is a value; absence is absence.
func addNumeric[T int | float64](payload map[string]any, col string, v *T) {
	if v != nil {
		payload[col] = *v
	}
}
