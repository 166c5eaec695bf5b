package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

// Entity schemas: one EntitySchema per entity type the pipeline writes.
// These carry each type's natural key and merge policy; anything with a
// lookup the generic resolver cannot express supplies its own ResolveFunc.
var (
	dnoSchema = EntitySchema{
		Kind: KindDnoDetail, Table: "dno_details", IDColumn: "dno_details_id",
		Merge: MergePreserveBlank, KeyColumns: []string{"mpan_prefix"},
	}
	productSchema = EntitySchema{
		Kind: KindProduct, Table: "products", IDColumn: "product_id",
		Merge: MergePreserveBlank, KeyColumns: []string{"product_name"},
	}
	teamSchema = EntitySchema{
		Kind: KindTeam, Table: "teams", IDColumn: "team_id",
		Merge: MergePreserveBlank, KeyColumns: []string{"team_name"},
	}
	userSchema = EntitySchema{
		Kind: KindUser, Table: "users", IDColumn: "user_id",
		Merge: MergePreserveBlank, KeyColumns: []string{"email"},
	}
	statusSchema = EntitySchema{
		Kind: KindStatus, Table: "status", IDColumn: "status_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"status_state", "status_group"},
	}
	addressSchema = EntitySchema{
		Kind: KindAddress, Table: "addresses", IDColumn: "address_id",
		Merge: MergeIncomingWins, Resolve: resolveAddress,
	}
	clientSchema = EntitySchema{
		Kind: KindClient, Table: "clients", IDColumn: "client_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"client_name"},
	}
	siteSchema = EntitySchema{
		Kind: KindSite, Table: "sites", IDColumn: "site_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"site_name"},
	}
	projectSchema = EntitySchema{
		Kind: KindProject, Table: "projects", IDColumn: "project_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"pv_number"},
	}
	jobSchema = EntitySchema{
		Kind: KindJob, Table: "jobs", IDColumn: "job_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"plot_id", "job_type"},
	}
	slotSchema = EntitySchema{
		Kind: KindSlot, Table: "slots", IDColumn: "slot_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"slot_date", "time_slot"},
	}
	plotSchema = EntitySchema{
		Kind: KindPlot, Table: "plots", IDColumn: "plot_id",
		Merge: MergeIncomingWins, Resolve: resolvePlot,
	}
	plotSpecSchema = EntitySchema{
		Kind: KindPlotSpec, Table: "plot_spec", IDColumn: "plot_spec_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"plot_id"},
	}
	plotInstallSchema = EntitySchema{
		Kind: KindPlotInstall, Table: "plot_install", IDColumn: "plot_install_id",
		Merge: MergeIncomingWins, KeyColumns: []string{"plot_id"},
	}
)

// resolvePlot reproduces the tracker's historical matching semantics:
// plot_id = ? OR (plot_number = ? AND tracker_ref = ?). The OR across the
// compound condition is deliberate and preserved as-is.
func resolvePlot(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, key map[string]any) (uuid.UUID, bool, error) {
	plotID, _ := key["plot_id"].(uuid.UUID)
	plotNumber, _ := key["plot_number"].(string)
	trackerRef, _ := key["tracker_ref"].(string)
	if plotID == uuid.Nil && strings.TrimSpace(plotNumber) == "" {
		return uuid.Nil, false, fmt.Errorf("%w: plots.plot_number", pkgerrors.ErrMissingNaturalKey)
	}

	var ids []uuid.UUID
	err := tx.WithContext(ctx).Table("plots").
		Where("instance_id = ?", instanceID).
		Where("plot_id = ? OR (plot_number = ? AND tracker_ref = ?)", plotID, plotNumber, trackerRef).
		Limit(1).
		Pluck("plot_id", &ids).Error
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve plots: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

// resolveAddress matches on the (address_line_1, postcode) pair. Either
// component alone is an acceptable natural key; only an address blank in
// both is unkeyed.
func resolveAddress(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, key map[string]any) (uuid.UUID, bool, error) {
	line1, _ := key["address_line_1"].(string)
	postcode, _ := key["postcode"].(string)
	if strings.TrimSpace(line1) == "" && strings.TrimSpace(postcode) == "" {
		return uuid.Nil, false, fmt.Errorf("%w: addresses.address_line_1/postcode", pkgerrors.ErrMissingNaturalKey)
	}

	var ids []uuid.UUID
	err := tx.WithContext(ctx).Table("addresses").
		Where("instance_id = ? AND address_line_1 = ? AND postcode = ?", instanceID, line1, postcode).
		Limit(1).
		Pluck("address_id", &ids).Error
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve addresses: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

// ImportDnoDetail upserts a DNO row keyed by MPAN prefix (blank-preserving
// merge, per the tracker's DNO sheet behavior).
func (e *Engine) ImportDnoDetail(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *DnoImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{"mpan_prefix": strings.TrimSpace(in.MpanPrefix)}
	payload := map[string]any{
		"dno_name":      in.DnoName,
		"address":       in.Address,
		"email_address": in.EmailAddress,
		"contact_no":    in.ContactNo,
		"internal_tel":  in.InternalTel,
		"type":          in.Type,
	}
	id, err := e.Upsert(ctx, tx, dnoSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportProduct upserts a product keyed by name. The same product row is
// shared by every plot that references it.
func (e *Engine) ImportProduct(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *ProductImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{"product_name": strings.TrimSpace(in.ProductName)}
	payload := map[string]any{
		"product_type":  in.ProductType,
		"manufacturer":  in.Manufacturer,
		"product_model": in.ProductModel,
		"kwp":           in.Kwp,
		"voc":           in.Voc,
		"isc":           in.Isc,
		"max_current":   in.MaxCurrent,
		"capacity":      in.Capacity,
		"no_panels":     in.NoPanels,
		"cost":          in.Cost,
	}
	id, err := e.Upsert(ctx, tx, productSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportTeam upserts a team keyed by name.
func (e *Engine) ImportTeam(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *TeamImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{"team_name": strings.TrimSpace(in.TeamName)}
	payload := map[string]any{"team_description": in.TeamDescription}
	id, err := e.Upsert(ctx, tx, teamSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportUser upserts a user keyed by email, upserting any named team first
// so the user row can reference it. The password column is never written
// here.
func (e *Engine) ImportUser(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *UserImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	var teamID *uuid.UUID
	if strings.TrimSpace(in.TeamName) != "" {
		id, err := e.ImportTeam(ctx, tx, instanceID, &TeamImport{TeamName: in.TeamName}, importID)
		if err != nil && !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			teamID = &id
		}
	}
	key := map[string]any{"email": strings.ToLower(strings.TrimSpace(in.Email))}
	payload := map[string]any{
		"name":         in.Name,
		"phone":        in.Phone,
		"team_id":      teamID,
		"dispatch_id":  in.DispatchID,
		"snowy_role":   in.SnowyRole,
		"company_role": in.CompanyRole,
		"category":     in.Category,
		"employer":     in.Employer,
	}
	id, err := e.Upsert(ctx, tx, userSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportStatus upserts a status keyed by (state, group).
func (e *Engine) ImportStatus(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *StatusImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{
		"status_state": strings.TrimSpace(in.StatusState),
		"status_group": strings.TrimSpace(in.StatusGroup),
	}
	payload := map[string]any{
		"status_name":        in.StatusName,
		"status_description": in.StatusDescription,
	}
	if in.StatusCode != nil {
		payload["status_code"] = *in.StatusCode
	}
	return e.Upsert(ctx, tx, statusSchema, instanceID, key, payload, importID)
}

// LookupRegion resolves a region id from its number. Pure lookup: regions
// are seeded per tenant, never created by imports.
func (e *Engine) LookupRegion(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *RegionImport) (uuid.UUID, bool, error) {
	if in == nil {
		return uuid.Nil, false, nil
	}
	var ids []uuid.UUID
	err := e.session(tx).WithContext(ctx).Table("regions").
		Where("instance_id = ? AND region_number = ?", instanceID, in.RegionNumber).
		Limit(1).
		Pluck("region_id", &ids).Error
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve regions: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

// ImportAddress upserts an address keyed by (line 1, postcode).
func (e *Engine) ImportAddress(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *AddressImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{
		"address_line_1": strings.TrimSpace(in.AddressLine1),
		"postcode":       strings.ToUpper(strings.TrimSpace(in.Postcode)),
	}
	payload := map[string]any{
		"address_line_2": in.AddressLine2,
		"address_line_3": in.AddressLine3,
		"address_town":   in.AddressTown,
		"address_county": in.AddressCounty,
	}
	id, err := e.Upsert(ctx, tx, addressSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportClient upserts a client keyed by name, materializing its nested
// address and contact user first.
func (e *Engine) ImportClient(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *ClientImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	var addressID, contactID *uuid.UUID
	if in.Address != nil {
		id, err := e.ImportAddress(ctx, tx, instanceID, in.Address, importID)
		if err != nil && !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			addressID = &id
		}
	}
	if in.Contact != nil {
		id, err := e.ImportUser(ctx, tx, instanceID, in.Contact, importID)
		if err != nil && !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			contactID = &id
		}
	}
	key := map[string]any{"client_name": strings.TrimSpace(in.ClientName)}
	payload := map[string]any{
		"client_legacy_number":      in.ClientLegacyNumber,
		"client_plot_card_required": in.ClientPlotCardRequired,
		"client_address_id":         addressID,
		"contact_id":                contactID,
	}
	id, err := e.Upsert(ctx, tx, clientSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportSite upserts a site keyed by name, with nested address and
// manager/surveyor/agent users.
func (e *Engine) ImportSite(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *SiteImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	var addressID, managerID, surveyorID, agentID *uuid.UUID
	if in.Address != nil {
		id, err := e.ImportAddress(ctx, tx, instanceID, in.Address, importID)
		if err != nil && !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			addressID = &id
		}
	}
	for _, u := range []struct {
		in  *UserImport
		out **uuid.UUID
	}{{in.Manager, &managerID}, {in.Surveyor, &surveyorID}, {in.Agent, &agentID}} {
		if u.in == nil {
			continue
		}
		id, err := e.ImportUser(ctx, tx, instanceID, u.in, importID)
		if err != nil && !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			*u.out = &id
		}
	}
	key := map[string]any{"site_name": strings.TrimSpace(in.SiteName)}
	payload := map[string]any{
		"site_address_id": addressID,
		"site_manager_id": managerID,
		"surveyor_id":     surveyorID,
		"agent_id":        agentID,
		"mpan_id":         in.MpanID,
	}
	id, err := e.Upsert(ctx, tx, siteSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportProjectProcess writes the workflow-state row carried alongside a
// project. There is no natural key: an explicit id updates that row,
// otherwise a fresh row is inserted.
func (e *Engine) ImportProjectProcess(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *ProjectProcessImport, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	payload := map[string]any{
		"approval_status":      in.ApprovalStatus,
		"deadline_to_connect":  in.DeadlineToConnect,
		"auth_letter_sent":     in.AuthLetterSent,
		"mpan_request_sent":    in.MpanRequestSent,
		"schematic_created":    in.SchematicCreated,
		"application_type":     in.ApplicationType,
		"formal_dno_submitted": in.FormalDnoSubmitted,
		"submission_date":      in.SubmissionDate,
		"dno_due_date":         in.DnoDueDate,
		"dno_status":           in.DnoStatus,
		"approved_kwp":         in.ApprovedKwp,
		"dno_icp_required":     in.DnoIcpRequired,
		"dno_icp_date":         in.DnoIcpDate,
		"dno_icp_reference":    in.DnoIcpReference,
	}
	session := e.session(tx).WithContext(ctx)
	if in.ProjectProcessID != nil && *in.ProjectProcessID != uuid.Nil {
		updates := make(map[string]any, len(payload)+1)
		for col, val := range payload {
			if val == nil || isNilPointer(val) {
				continue
			}
			updates[col] = deref(val)
		}
		updates["import_id"] = importID
		err := session.Table("project_process").
			Where("instance_id = ? AND project_process_id = ?", instanceID, *in.ProjectProcessID).
			Updates(updates).Error
		if err != nil {
			return uuid.Nil, fmt.Errorf("update project_process: %w", err)
		}
		e.metrics.IncUpsert(string(KindProjectProcess), "update")
		return *in.ProjectProcessID, nil
	}
	id := uuid.New()
	row := map[string]any{"project_process_id": id, "instance_id": instanceID, "import_id": importID}
	for col, val := range payload {
		if val == nil || isNilPointer(val) {
			continue
		}
		row[col] = deref(val)
	}
	if err := session.Table("project_process").Create(&row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("insert project_process: %w", err)
	}
	e.metrics.IncUpsert(string(KindProjectProcess), "insert")
	return id, nil
}

// ProjectRefs carries the ids a project row references, resolved by the
// orchestrator's earlier steps.
type ProjectRefs struct {
	ClientID         *uuid.UUID
	DnoDetailsID     *uuid.UUID
	RegionID         *uuid.UUID
	SiteID           *uuid.UUID
	ProjectProcessID *uuid.UUID
}

// ImportProject upserts a project keyed by PV number, stamping in every
// reference resolved upstream.
func (e *Engine) ImportProject(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *ProjectImport, refs ProjectRefs, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	key := map[string]any{"pv_number": strings.TrimSpace(in.PvNumber)}
	payload := map[string]any{
		"project_name":       in.ProjectName,
		"ref_number":         in.RefNumber,
		"client_id":          refs.ClientID,
		"dno_details_id":     refs.DnoDetailsID,
		"region_id":          refs.RegionID,
		"site_id":            refs.SiteID,
		"project_process_id": refs.ProjectProcessID,
	}
	id, err := e.Upsert(ctx, tx, projectSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// PlotRefs carries the ids a plot row references.
type PlotRefs struct {
	ProjectID     *uuid.UUID
	SiteID        *uuid.UUID
	PlotAddressID *uuid.UUID
	PlotStatusID  *uuid.UUID
}

// ImportPlotRow upserts the plot row itself using the historical
// plot_id-OR-(number,tracker) match.
func (e *Engine) ImportPlotRow(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *PlotImport, refs PlotRefs, importID uuid.UUID) (uuid.UUID, error) {
	if in == nil {
		return uuid.Nil, nil
	}
	var explicitID uuid.UUID
	if in.PlotID != nil {
		explicitID = *in.PlotID
	}
	key := map[string]any{
		"plot_id":     explicitID,
		"plot_number": strings.TrimSpace(in.PlotNumber),
		"tracker_ref": strings.TrimSpace(in.TrackerRef),
	}
	payload := map[string]any{
		"project_id":      refs.ProjectID,
		"site_id":         refs.SiteID,
		"plot_address_id": refs.PlotAddressID,
		"plot_status":     refs.PlotStatusID,
		"housetype":       in.Housetype,
		"mpan":            in.Mpan,
		"legacy_plot_id":  in.LegacyPlotID,
	}
	if in.G99 != nil {
		payload["g99"] = *in.G99
	}
	if in.PlotApproved != nil {
		payload["plot_approved"] = *in.PlotApproved
	}
	if in.CommissioningFormSubmitted != nil {
		payload["commissioning_form_submitted"] = *in.CommissioningFormSubmitted
	}
	// On an explicit plot_id match the incoming number and tracker may
	// differ from the stored ones. They are written back when supplied so
	// a renumbered plot converges, but a blank never clears them.
	if n, _ := key["plot_number"].(string); n != "" {
		payload["plot_number"] = n
	}
	if tr, _ := key["tracker_ref"].(string); tr != "" {
		payload["tracker_ref"] = tr
	}
	// plot_id is both the primary key and part of the match condition;
	// the insert path must not write the zero uuid from the key map.
	id, err := e.Upsert(ctx, tx, plotSchema, instanceID, key, payload, importID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := e.UpsertCustomFields(ctx, tx, instanceID, in.CustomFields, id, importID); err != nil {
		return id, err
	}
	return id, nil
}

// ImportJob upserts a dispatched job keyed by (plot, job type).
func (e *Engine) ImportJob(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, plotID uuid.UUID, jobType string, payload map[string]any, importID uuid.UUID) (uuid.UUID, error) {
	key := map[string]any{"plot_id": plotID, "job_type": strings.TrimSpace(jobType)}
	return e.Upsert(ctx, tx, jobSchema, instanceID, key, payload, importID)
}

// ImportSlot upserts a bookable install window keyed by (date, time slot).
func (e *Engine) ImportSlot(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, key map[string]any, payload map[string]any, importID uuid.UUID) (uuid.UUID, error) {
	return e.Upsert(ctx, tx, slotSchema, instanceID, key, payload, importID)
}

// ImportInstance upserts the tenant root itself, keyed by
// instance_name_key. Instances are the one table not scoped by
// instance_id, so this bypasses the generic engine's tenant scoping.
func (e *Engine) ImportInstance(ctx context.Context, tx *gorm.DB, nameKey, name, description, logoKey string, keyContact *uuid.UUID, importID uuid.UUID) (uuid.UUID, error) {
	nameKey = strings.TrimSpace(nameKey)
	if nameKey == "" {
		return uuid.Nil, fmt.Errorf("%w: instances.instance_name_key", pkgerrors.ErrMissingNaturalKey)
	}
	session := e.session(tx).WithContext(ctx)

	release, err := e.locks.Acquire(ctx, "instances/"+nameKey)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	var existing types.Instance
	err = session.Where("instance_name_key = ?", nameKey).Take(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{"import_id": importID}
		if strings.TrimSpace(name) != "" {
			updates["instance_name"] = name
		}
		if strings.TrimSpace(description) != "" {
			updates["instance_description"] = description
		}
		if strings.TrimSpace(logoKey) != "" {
			updates["instance_logo_key"] = logoKey
		}
		if keyContact != nil {
			updates["instance_key_contact"] = keyContact
		}
		uerr := session.Model(&types.Instance{}).
			Where("instance_id = ?", existing.InstanceID).
			Updates(updates).Error
		if uerr != nil {
			return uuid.Nil, fmt.Errorf("update instances: %w", uerr)
		}
		e.metrics.IncUpsert(string(KindInstance), "update")
		return existing.InstanceID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := &types.Instance{
			InstanceID:          uuid.New(),
			InstanceNameKey:     nameKey,
			InstanceName:        name,
			InstanceDescription: description,
			InstanceLogoKey:     logoKey,
			InstanceKeyContact:  keyContact,
			ImportID:            &importID,
		}
		if cerr := session.Create(row).Error; cerr != nil {
			return uuid.Nil, fmt.Errorf("insert instances: %w", cerr)
		}
		e.metrics.IncUpsert(string(KindInstance), "insert")
		return row.InstanceID, nil
	default:
		return uuid.Nil, fmt.Errorf("resolve instances: %w", err)
	}
}
