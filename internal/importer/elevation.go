package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElevationNoField is the custom-field name carrying an elevation's
// display number. Historical tracker sheets wrote it explicitly; when
// absent the importer derives it. VarFromSouthField carries the facet's
// azimuth offset; together the two fields distinguish facets that agree
// on every stored column.
const (
	ElevationNoField  = "Elevation_No"
	VarFromSouthField = "Var_From_South"
)

// elevationTarget abstracts over the spec and install elevation tables,
// which are structurally parallel.
type elevationTarget struct {
	kind         EntityKind
	table        string
	idColumn     string
	parentColumn string
}

var (
	elevationSpecTarget = elevationTarget{
		kind: KindElevationSpec, table: "elevations_spec",
		idColumn: "elevation_spec_id", parentColumn: "plot_spec_id",
	}
	elevationInstallTarget = elevationTarget{
		kind: KindElevationInstall, table: "elevations_install",
		idColumn: "elevation_install_id", parentColumn: "plot_install_id",
	}
)

// ImportElevationSpec upserts one specified roof facet of a plot.
func (e *Engine) ImportElevationSpec(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID, parentID *uuid.UUID, in *ElevationImport, importID uuid.UUID) (uuid.UUID, error) {
	return e.importElevation(ctx, tx, elevationSpecTarget, instanceID, plotID, parentID, in, importID)
}

// ImportElevationInstall upserts one as-built roof facet of a plot.
func (e *Engine) ImportElevationInstall(ctx context.Context, tx *gorm.DB, instanceID, plotID uuid.UUID, parentID *uuid.UUID, in *ElevationImport, importID uuid.UUID) (uuid.UUID, error) {
	return e.importElevation(ctx, tx, elevationInstallTarget, instanceID, plotID, parentID, in, importID)
}

// importElevation is the shared spec/install path. Elevations carry no
// database-expressible natural key: a plot may have several facets told
// apart only by pitch, orientation, module count and the Elevation_No and
// Var_From_South custom fields, so existence classification happens here,
// after the elevation number has been determined.
func (e *Engine) importElevation(ctx context.Context, tx *gorm.DB, target elevationTarget, instanceID, plotID uuid.UUID, parentID *uuid.UUID, in *ElevationImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}

	inverterID, err := e.optionalProduct(ctx, tx, instanceID, in.Inverter, importID)
	if err != nil {
		return uuid.Nil, err
	}
	panelID, err := e.optionalProduct(ctx, tx, instanceID, in.Panel, importID)
	if err != nil {
		return uuid.Nil, err
	}
	roofKitID, err := e.optionalProduct(ctx, tx, instanceID, in.RoofKit, importID)
	if err != nil {
		return uuid.Nil, err
	}

	release, err := e.locks.Acquire(ctx, lockName(target.table, instanceID, "plot_id="+plotID.String()))
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	varSouth := elevationVariation(in)
	number := e.elevationNumber(ctx, tx, target, instanceID, plotID, in, varSouth)

	id, found, err := e.resolveElevation(ctx, tx, target, instanceID, plotID, in, number, varSouth)
	if err != nil {
		return uuid.Nil, err
	}

	payload := map[string]any{
		"type_test_ref": in.TypeTestRef,
		"orientation":   in.Orientation,
	}
	addNumeric(payload, "pitch", in.Pitch)
	addNumeric(payload, "kk_figure", in.KkFigure)
	addNumeric(payload, "kwp", in.Kwp)
	addNumeric(payload, "strings", in.Strings)
	addNumeric(payload, "module_qty", in.ModuleQty)
	addNumeric(payload, "inverter_cost", in.InverterCost)
	addNumeric(payload, "panel_cost", in.PanelCost)
	addNumeric(payload, "panels_total_cost", in.PanelsTotalCost)
	addNumeric(payload, "roof_kit_cost", in.RoofKitCost)
	addNumeric(payload, "annual_yield", in.AnnualYield)
	if inverterID != nil {
		payload["inverter"] = inverterID
	}
	if panelID != nil {
		payload["panel"] = panelID
	}
	if roofKitID != nil {
		payload["roof_kit"] = roofKitID
	}
	if parentID != nil {
		payload[target.parentColumn] = parentID
	}

	session := e.session(tx).WithContext(ctx)
	if found {
		updates := make(map[string]any, len(payload)+1)
		for col, val := range payload {
			if val == nil || isNilPointer(val) {
				continue
			}
			updates[col] = deref(val)
		}
		updates["import_id"] = importID
		err := session.Table(target.table).
			Where("instance_id = ? AND "+target.idColumn+" = ?", instanceID, id).
			Updates(updates).Error
		if err != nil {
			e.metrics.IncUpsert(string(target.kind), "error")
			return uuid.Nil, fmt.Errorf("update %s %s: %w", target.table, id, err)
		}
		e.metrics.IncUpsert(string(target.kind), "update")
	} else {
		id = uuid.New()
		row := map[string]any{
			target.idColumn: id,
			"instance_id":   instanceID,
			"plot_id":       plotID,
			"import_id":     importID,
		}
		for col, val := range payload {
			if val == nil || isNilPointer(val) {
				continue
			}
			row[col] = deref(val)
		}
		if err := session.Table(target.table).Create(&row).Error; err != nil {
			e.metrics.IncUpsert(string(target.kind), "error")
			return uuid.Nil, fmt.Errorf("insert %s: %w", target.table, err)
		}
		e.metrics.IncUpsert(string(target.kind), "insert")
	}

	if number != "" {
		ferr := e.upsertCustomField(ctx, tx, instanceID, target.kind, id, ElevationNoField,
			CustomFieldValue{Value: number, UIName: "Elevation No"}, importID)
		if ferr != nil {
			e.log.Warn("elevation number custom field write failed", "error", ferr, target.idColumn, id)
		}
	}
	if varSouth != "" {
		ferr := e.upsertCustomField(ctx, tx, instanceID, target.kind, id, VarFromSouthField,
			CustomFieldValue{Value: varSouth, UIName: "Var From South"}, importID)
		if ferr != nil {
			e.log.Warn("elevation variation custom field write failed", "error", ferr, target.idColumn, id)
		}
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// elevationNumber determines the display number for an incoming elevation
// through a three-tier fallback: an explicit Elevation_No custom field on
// the input is used verbatim; failing that the explicit elevationNumber
// field; failing both, a derived computation that reuses the stored
// Elevation_No of a matching existing facet, or assigns the 1-based
// ordinal among the plot's elevations ordered by import date then
// elevation id. Every tier failing leaves the number unset, which is not
// fatal.
func (e *Engine) elevationNumber(ctx context.Context, tx *gorm.DB, target elevationTarget, instanceID, plotID uuid.UUID, in *ElevationImport, varSouth string) string {
	if in.CustomFields != nil {
		if v, ok := in.CustomFields.Fields[ElevationNoField]; ok && strings.TrimSpace(v.Value) != "" {
			return strings.TrimSpace(v.Value)
		}
	}
	if in.ElevationNumber != nil {
		return strconv.Itoa(*in.ElevationNumber)
	}

	candidates, err := e.matchingElevationIDs(ctx, tx, target, instanceID, plotID, in)
	if err != nil {
		e.log.Warn("elevation candidate query failed, leaving number unset",
			"error", err, "table", target.table, "plot_id", plotID)
		return ""
	}
	for _, id := range candidates {
		agrees, ferr := e.elevationFieldAgrees(ctx, tx, target, instanceID, id, VarFromSouthField, varSouth)
		if ferr != nil {
			e.log.Warn("elevation variation read failed, leaving number unset",
				"error", ferr, target.idColumn, id)
			return ""
		}
		if !agrees {
			continue
		}
		stored, ok, ferr := e.CustomFieldValueFor(ctx, tx, instanceID, target.kind, id, ElevationNoField)
		if ferr != nil {
			e.log.Warn("elevation number read failed, leaving number unset",
				"error", ferr, target.idColumn, id)
			return ""
		}
		if ok && strings.TrimSpace(stored) != "" {
			return strings.TrimSpace(stored)
		}
	}

	var ids []uuid.UUID
	err = e.session(tx).WithContext(ctx).Table(target.table).
		Joins("LEFT JOIN import_events ON import_events.import_id = "+target.table+".import_id").
		Where(target.table+".instance_id = ? AND "+target.table+".plot_id = ?", instanceID, plotID).
		Order("import_events.import_date ASC, "+target.table+"."+target.idColumn+" ASC").
		Pluck(target.table+"."+target.idColumn, &ids).Error
	if err != nil {
		e.log.Warn("elevation ordinal query failed, leaving number unset",
			"error", err, "table", target.table, "plot_id", plotID)
		return ""
	}
	return strconv.Itoa(len(ids) + 1)
}

// matchingElevationIDs returns the plot's stored elevations matching the
// incoming facet on pitch, orientation and module count, oldest id first.
func (e *Engine) matchingElevationIDs(ctx context.Context, tx *gorm.DB, target elevationTarget, instanceID, plotID uuid.UUID, in *ElevationImport) ([]uuid.UUID, error) {
	q := e.session(tx).WithContext(ctx).Table(target.table).
		Where("instance_id = ? AND plot_id = ?", instanceID, plotID).
		Where("orientation = ?", in.Orientation)
	if in.Pitch != nil {
		q = q.Where("pitch = ?", *in.Pitch)
	}
	if in.ModuleQty != nil {
		q = q.Where("module_qty = ?", *in.ModuleQty)
	}
	var ids []uuid.UUID
	if err := q.Order(target.idColumn+" ASC").Pluck(target.idColumn, &ids).Error; err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target.table, err)
	}
	return ids, nil
}

// resolveElevation classifies an incoming elevation as existing or new.
// Candidates are the plot's stored elevations matching on pitch,
// orientation and module count; the stored Elevation_No and Var_From_South
// custom fields must then agree with the known incoming values, so two
// facets that differ only in their number or azimuth offset never collapse
// into one row.
func (e *Engine) resolveElevation(ctx context.Context, tx *gorm.DB, target elevationTarget, instanceID, plotID uuid.UUID, in *ElevationImport, number, varSouth string) (uuid.UUID, bool, error) {
	ids, err := e.matchingElevationIDs(ctx, tx, target, instanceID, plotID, in)
	if err != nil {
		return uuid.Nil, false, err
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	if number == "" && varSouth == "" {
		return ids[0], true, nil
	}
	for _, id := range ids {
		numberAgrees, err := e.elevationFieldAgrees(ctx, tx, target, instanceID, id, ElevationNoField, number)
		if err != nil {
			return uuid.Nil, false, err
		}
		if !numberAgrees {
			continue
		}
		varAgrees, err := e.elevationFieldAgrees(ctx, tx, target, instanceID, id, VarFromSouthField, varSouth)
		if err != nil {
			return uuid.Nil, false, err
		}
		if varAgrees {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// elevationFieldAgrees reports whether a stored elevation's custom field is
// compatible with an incoming value: a blank incoming value matches
// anything, and a candidate without the field stored yet matches too.
func (e *Engine) elevationFieldAgrees(ctx context.Context, tx *gorm.DB, target elevationTarget, instanceID, id uuid.UUID, field, value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	stored, ok, err := e.CustomFieldValueFor(ctx, tx, instanceID, target.kind, id, field)
	if err != nil {
		return false, err
	}
	return !ok || strings.TrimSpace(stored) == value, nil
}

// elevationVariation reads the incoming variation-from-south value: the
// Var_From_South custom field verbatim when present, else the typed
// variationFromSouth field.
func elevationVariation(in *ElevationImport) string {
	if in.CustomFields != nil {
		if v, ok := in.CustomFields.Fields[VarFromSouthField]; ok && strings.TrimSpace(v.Value) != "" {
			return strings.TrimSpace(v.Value)
		}
	}
	if in.VariationFromSouth != nil {
		return strconv.Itoa(*in.VariationFromSouth)
	}
	return ""
}
