package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testutil.DB(t), testutil.Logger(t), nil, nil)
}

func TestUpsertIdempotence(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	in := &DnoImport{MpanPrefix: "20", DnoName: "Northern Powergrid", ContactNo: "0800 011 3332"}
	first, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID, in, run.ImportID)
	if err != nil {
		t.Fatalf("ImportDnoDetail (first): %v", err)
	}
	second, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID, in, run.ImportID)
	if err != nil {
		t.Fatalf("ImportDnoDetail (second): %v", err)
	}
	if first != second {
		t.Fatalf("expected same id on re-import, got %s then %s", first, second)
	}

	var count int64
	if err := tx.Model(&types.DnoDetail{}).Where("instance_id = ?", inst.InstanceID).Count(&count).Error; err != nil {
		t.Fatalf("count dno rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 dno row, got %d", count)
	}
}

func TestBlankPreservingMerge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	id, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID,
		&DnoImport{MpanPrefix: "20", DnoName: "Northern Powergrid"}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportDnoDetail: %v", err)
	}

	// A blank incoming name must not clear the stored one.
	if _, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID,
		&DnoImport{MpanPrefix: "20", DnoName: "", ContactNo: "0800"}, run.ImportID); err != nil {
		t.Fatalf("ImportDnoDetail (blank name): %v", err)
	}
	var row types.DnoDetail
	if err := tx.Where("dno_details_id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("read dno: %v", err)
	}
	if row.DnoName != "Northern Powergrid" {
		t.Fatalf("blank update clobbered dno_name: %q", row.DnoName)
	}
	if row.ContactNo != "0800" {
		t.Fatalf("non-blank update not applied: %q", row.ContactNo)
	}

	// A non-blank incoming name overwrites.
	if _, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID,
		&DnoImport{MpanPrefix: "20", DnoName: "NPG"}, run.ImportID); err != nil {
		t.Fatalf("ImportDnoDetail (overwrite): %v", err)
	}
	if err := tx.Where("dno_details_id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("read dno: %v", err)
	}
	if row.DnoName != "NPG" {
		t.Fatalf("non-blank update did not overwrite: %q", row.DnoName)
	}
}

func TestTenantIsolation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	upowa := testutil.SeedInstance(t, ctx, tx, "upowa")
	wainhomes := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	runA := testutil.SeedImportEvent(t, ctx, tx, upowa.InstanceID, "run-a")
	runB := testutil.SeedImportEvent(t, ctx, tx, wainhomes.InstanceID, "run-b")

	in := &DnoImport{MpanPrefix: "20", DnoName: "Shared prefix"}
	a, err := eng.ImportDnoDetail(ctx, tx, upowa.InstanceID, in, runA.ImportID)
	if err != nil {
		t.Fatalf("ImportDnoDetail (upowa): %v", err)
	}
	b, err := eng.ImportDnoDetail(ctx, tx, wainhomes.InstanceID, in, runB.ImportID)
	if err != nil {
		t.Fatalf("ImportDnoDetail (wainhomes): %v", err)
	}
	if a == b {
		t.Fatalf("tenants share a dno_details row: %s", a)
	}
}

func TestUpsertMissingNaturalKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	_, err := eng.ImportDnoDetail(ctx, tx, inst.InstanceID, &DnoImport{MpanPrefix: "   "}, run.ImportID)
	if !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
		t.Fatalf("expected ErrMissingNaturalKey, got %v", err)
	}

	var count int64
	if err := tx.Model(&types.DnoDetail{}).Where("instance_id = ?", inst.InstanceID).Count(&count).Error; err != nil {
		t.Fatalf("count dno rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("validation failure touched storage: %d rows", count)
	}
}

func TestIncomingWinsMerge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	id, err := eng.ImportStatus(ctx, tx, inst.InstanceID,
		&StatusImport{StatusState: "Specified", StatusGroup: "Plot", StatusName: "Specified"}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportStatus: %v", err)
	}
	if _, err := eng.ImportStatus(ctx, tx, inst.InstanceID,
		&StatusImport{StatusState: "Specified", StatusGroup: "Plot", StatusName: ""}, run.ImportID); err != nil {
		t.Fatalf("ImportStatus (blank name): %v", err)
	}

	var row types.Status
	if err := tx.Where("status_id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("read status: %v", err)
	}
	if row.StatusName != "" {
		t.Fatalf("incoming-wins merge kept stale value: %q", row.StatusName)
	}
	if row.ImportID == nil || *row.ImportID != run.ImportID {
		t.Fatalf("import_id not stamped: %v", row.ImportID)
	}
}

func TestAddressEitherKeyComponent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	// A postcode-only address passes row validation, so the engine must
	// accept the same key rather than skip the row.
	in := &PlotImport{
		PlotNumber: "1",
		Address:    &AddressImport{Postcode: "LS1 4AP"},
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	first, err := eng.ImportAddress(ctx, tx, inst.InstanceID, in.Address, run.ImportID)
	if err != nil {
		t.Fatalf("ImportAddress (postcode only): %v", err)
	}
	if first == uuid.Nil {
		t.Fatal("postcode-only address skipped")
	}
	second, err := eng.ImportAddress(ctx, tx, inst.InstanceID, in.Address, run.ImportID)
	if err != nil {
		t.Fatalf("ImportAddress (re-import): %v", err)
	}
	if second != first {
		t.Fatalf("expected same address id, got %s then %s", first, second)
	}

	// Line 1 alone is a key too; only an address blank in both is not.
	lineOnly, err := eng.ImportAddress(ctx, tx, inst.InstanceID,
		&AddressImport{AddressLine1: "12 Acacia Avenue"}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportAddress (line 1 only): %v", err)
	}
	if lineOnly == first {
		t.Fatalf("distinct addresses collapsed into %s", lineOnly)
	}
	if _, err := eng.ImportAddress(ctx, tx, inst.InstanceID, &AddressImport{}, run.ImportID); !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
		t.Fatalf("expected ErrMissingNaturalKey for blank address, got %v", err)
	}
}

func TestPlotResolveOrOfCompound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")

	first, err := eng.ImportPlotRow(ctx, tx, inst.InstanceID,
		&PlotImport{PlotNumber: "61", TrackerRef: ""}, PlotRefs{}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportPlotRow (first): %v", err)
	}

	// Match by (plot_number, tracker_ref).
	byNumber, err := eng.ImportPlotRow(ctx, tx, inst.InstanceID,
		&PlotImport{PlotNumber: "61", TrackerRef: ""}, PlotRefs{}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportPlotRow (by number): %v", err)
	}
	if byNumber != first {
		t.Fatalf("expected same plot id, got %s then %s", first, byNumber)
	}

	// Match by explicit plot_id even when the number differs.
	byID, err := eng.ImportPlotRow(ctx, tx, inst.InstanceID,
		&PlotImport{PlotID: &first, PlotNumber: "62", TrackerRef: "T"}, PlotRefs{}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportPlotRow (by id): %v", err)
	}
	if byID != first {
		t.Fatalf("plot_id match ignored: %s vs %s", byID, first)
	}

	// The renumber carried by the plot_id match is written back.
	var row types.Plot
	if err := tx.Where("plot_id = ?", first).Take(&row).Error; err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if row.PlotNumber != "62" || row.TrackerRef != "T" {
		t.Fatalf("renumber not applied: number=%q tracker=%q", row.PlotNumber, row.TrackerRef)
	}

	var count int64
	if err := tx.Model(&types.Plot{}).Where("instance_id = ?", inst.InstanceID).Count(&count).Error; err != nil {
		t.Fatalf("count plots: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 plot, got %d", count)
	}
}

func TestInstanceUpsertPreservesBlanks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	host := testutil.SeedInstance(t, ctx, tx, "host")
	run := testutil.SeedImportEvent(t, ctx, tx, host.InstanceID, "run-1")

	if _, err := eng.ImportInstance(ctx, tx, "  ", "Blank", "", "", nil, run.ImportID); !errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
		t.Fatalf("expected ErrMissingNaturalKey for blank name key, got %v", err)
	}

	id, err := eng.ImportInstance(ctx, tx, "wainhomes", "Wain Homes", "South-west developer", "logos/wainhomes.png", nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportInstance (insert): %v", err)
	}

	// A blank re-import keeps every stored value but restamps import_id.
	again, err := eng.ImportInstance(ctx, tx, "wainhomes", "", "", "", nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportInstance (blank update): %v", err)
	}
	if again != id {
		t.Fatalf("expected same instance id, got %s then %s", id, again)
	}
	var row types.Instance
	if err := tx.Where("instance_id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("read instance: %v", err)
	}
	if row.InstanceName != "Wain Homes" || row.InstanceDescription != "South-west developer" || row.InstanceLogoKey != "logos/wainhomes.png" {
		t.Fatalf("blank update clobbered stored values: %+v", row)
	}
	if row.ImportID == nil || *row.ImportID != run.ImportID {
		t.Fatalf("import_id not stamped: %v", row.ImportID)
	}

	// Non-blank incoming values and a key contact overwrite.
	contact := testutil.SeedUser(t, ctx, tx, host.InstanceID, "ops@wainhomes.example")
	if _, err := eng.ImportInstance(ctx, tx, "wainhomes", "Wain Homes Ltd", "", "", &contact.UserID, run.ImportID); err != nil {
		t.Fatalf("ImportInstance (overwrite): %v", err)
	}
	if err := tx.Where("instance_id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("read instance: %v", err)
	}
	if row.InstanceName != "Wain Homes Ltd" {
		t.Fatalf("non-blank name not applied: %q", row.InstanceName)
	}
	if row.InstanceKeyContact == nil || *row.InstanceKeyContact != contact.UserID {
		t.Fatalf("key contact not applied: %v", row.InstanceKeyContact)
	}
}

func TestJobUpsertCompositeKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	first, err := eng.ImportJob(ctx, tx, inst.InstanceID, plot.PlotID, "install",
		map[string]any{"dispatch_id": "D-100"}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportJob (first): %v", err)
	}
	second, err := eng.ImportJob(ctx, tx, inst.InstanceID, plot.PlotID, "install",
		map[string]any{"dispatch_id": "D-101"}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportJob (second): %v", err)
	}
	if second != first {
		t.Fatalf("same (plot, job type) produced two jobs: %s then %s", first, second)
	}
	var job types.Job
	if err := tx.Where("job_id = ?", first).Take(&job).Error; err != nil {
		t.Fatalf("read job: %v", err)
	}
	if job.DispatchID != "D-101" {
		t.Fatalf("incoming dispatch_id not applied: %q", job.DispatchID)
	}

	remedial, err := eng.ImportJob(ctx, tx, inst.InstanceID, plot.PlotID, "remedial", nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportJob (remedial): %v", err)
	}
	if remedial == first {
		t.Fatalf("distinct job types collapsed into one row: %s", remedial)
	}
}

func TestSlotUpsertCompositeKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	morning := map[string]any{"slot_date": day, "time_slot": "AM"}

	first, err := eng.ImportSlot(ctx, tx, inst.InstanceID, morning, nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportSlot (first): %v", err)
	}

	job, err := eng.ImportJob(ctx, tx, inst.InstanceID, plot.PlotID, "install", nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportJob: %v", err)
	}
	second, err := eng.ImportSlot(ctx, tx, inst.InstanceID, morning, map[string]any{"job_id": &job}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportSlot (second): %v", err)
	}
	if second != first {
		t.Fatalf("same (date, time slot) produced two slots: %s then %s", first, second)
	}
	var slot types.Slot
	if err := tx.Where("slot_id = ?", first).Take(&slot).Error; err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if slot.JobID == nil || *slot.JobID != job {
		t.Fatalf("job reference not applied: %v", slot.JobID)
	}

	afternoon, err := eng.ImportSlot(ctx, tx, inst.InstanceID,
		map[string]any{"slot_date": day, "time_slot": "PM"}, nil, run.ImportID)
	if err != nil {
		t.Fatalf("ImportSlot (PM): %v", err)
	}
	if afternoon == first {
		t.Fatalf("distinct time slots collapsed into one row: %s", afternoon)
	}
}
