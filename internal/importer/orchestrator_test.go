package importer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
)

func fullPlotImport() *PlotImport {
	return &PlotImport{
		PlotNumber: "61",
		TrackerRef: "",
		Housetype:  "Hambleton",
		Address: &AddressImport{
			AddressLine1: "61 Meadow Way",
			Postcode:     "EX1 1AA",
		},
		Status: &StatusImport{StatusState: "Specified", StatusGroup: "Plot"},
		DNO:    &DnoImport{MpanPrefix: "22", DnoName: "National Grid"},
		Region: &RegionImport{RegionNumber: 4},
		Site: &SiteImport{
			SiteName: "Meadow Park",
			Address:  &AddressImport{AddressLine1: "Meadow Park Site Office", Postcode: "EX1 1AB"},
		},
		Client: &ClientImport{
			ClientName: "Wainhomes Developments",
			Address:    &AddressImport{AddressLine1: "1 Builder Road", Postcode: "PL1 1AA"},
			Contact:    &UserImport{Email: "contact@wainhomes.example", Name: "Site Contact"},
		},
		Project: &ProjectImport{
			PvNumber: "PV1234",
			Process:  &ProjectProcessImport{ApprovalStatus: "Approved"},
		},
		PlotSpec: &PlotSpecImport{
			Status: &StatusImport{StatusState: "Specified", StatusGroup: "PlotSpec"},
			Kwp:    fptr(3.6),
			Elevations: []ElevationImport{{
				Orientation: "South",
				Pitch:       fptr(35),
				ModuleQty:   iptr(9),
				Inverter:    &ProductImport{ProductName: "Solis Mini", ProductType: types.ProductTypeInverter},
				Panel:       &ProductImport{ProductName: "JA Solar 400", ProductType: types.ProductTypePanel},
				RoofKit:     &ProductImport{ProductName: "GSE In-Roof", ProductType: types.ProductTypeRoofKit},
			}},
		},
	}
}

func TestImportPlotGraphCompleteness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	eng := NewEngine(db, log, nil, nil)
	orch := NewOrchestrator(eng, NewLedger(db, log), log)

	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	testutil.SeedRegion(t, ctx, tx, inst.InstanceID, 4, "South West")

	res, err := orch.ImportPlot(ctx, tx, inst.InstanceID, fullPlotImport(), ImportOptions{
		Ref:    "tracker-2024-06",
		Source: "tracker",
	})
	if err != nil {
		t.Fatalf("ImportPlot: %v", err)
	}

	if res.ImportID == uuid.Nil {
		t.Fatalf("no import run opened")
	}
	if res.DnoDetailsID == nil || res.RegionID == nil || res.SiteID == nil ||
		res.ClientID == nil || res.ProjectProcessID == nil || res.ProjectID == nil ||
		res.PlotAddressID == nil || res.PlotStatusID == nil || res.PlotSpecID == nil {
		t.Fatalf("incomplete result graph: %+v", res)
	}
	if res.PlotID == uuid.Nil {
		t.Fatalf("no plot id")
	}

	// Plot, site and client addresses are distinct rows.
	var addressCount int64
	if err := tx.Model(&types.Address{}).Where("instance_id = ?", inst.InstanceID).Count(&addressCount).Error; err != nil {
		t.Fatalf("count addresses: %v", err)
	}
	if addressCount < 2 {
		t.Fatalf("expected at least 2 addresses, got %d", addressCount)
	}

	// One product row per referenced inverter/panel/roof-kit.
	var productCount int64
	if err := tx.Model(&types.Product{}).Where("instance_id = ?", inst.InstanceID).Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 3 {
		t.Fatalf("expected 3 products, got %d", productCount)
	}

	// Every written row carries the run's import_id.
	var project types.Project
	if err := tx.Where("project_id = ?", *res.ProjectID).Take(&project).Error; err != nil {
		t.Fatalf("read project: %v", err)
	}
	if project.ImportID == nil || *project.ImportID != res.ImportID {
		t.Fatalf("project import_id not stamped: %v", project.ImportID)
	}
	if project.ClientID == nil || *project.ClientID != *res.ClientID {
		t.Fatalf("project client reference wrong: %v", project.ClientID)
	}
	if project.RegionID == nil || *project.RegionID != *res.RegionID {
		t.Fatalf("project region reference wrong: %v", project.RegionID)
	}

	var plot types.Plot
	if err := tx.Where("plot_id = ?", res.PlotID).Take(&plot).Error; err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if plot.ImportID == nil || *plot.ImportID != res.ImportID {
		t.Fatalf("plot import_id not stamped: %v", plot.ImportID)
	}
	if plot.ProjectID == nil || *plot.ProjectID != *res.ProjectID {
		t.Fatalf("plot project reference wrong: %v", plot.ProjectID)
	}

	var elev types.ElevationSpec
	if err := tx.Where("plot_id = ?", res.PlotID).Take(&elev).Error; err != nil {
		t.Fatalf("read elevation: %v", err)
	}
	if elev.ImportID == nil || *elev.ImportID != res.ImportID {
		t.Fatalf("elevation import_id not stamped: %v", elev.ImportID)
	}
	if elev.PlotSpecID == nil || *elev.PlotSpecID != *res.PlotSpecID {
		t.Fatalf("elevation spec parent wrong: %v", elev.PlotSpecID)
	}
}

func TestImportPlotReimportConverges(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	eng := NewEngine(db, log, nil, nil)
	orch := NewOrchestrator(eng, NewLedger(db, log), log)

	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	testutil.SeedRegion(t, ctx, tx, inst.InstanceID, 4, "South West")

	first, err := orch.ImportPlot(ctx, tx, inst.InstanceID, fullPlotImport(), ImportOptions{Ref: "run-1", Source: "tracker"})
	if err != nil {
		t.Fatalf("ImportPlot (first): %v", err)
	}
	second, err := orch.ImportPlot(ctx, tx, inst.InstanceID, fullPlotImport(), ImportOptions{Ref: "run-2", Source: "tracker"})
	if err != nil {
		t.Fatalf("ImportPlot (second): %v", err)
	}

	if first.PlotID != second.PlotID {
		t.Fatalf("re-import created a new plot: %s then %s", first.PlotID, second.PlotID)
	}
	if *first.DnoDetailsID != *second.DnoDetailsID {
		t.Fatalf("re-import created a new dno row")
	}

	for table, model := range map[string]any{
		"plots":           &types.Plot{},
		"dno_details":     &types.DnoDetail{},
		"sites":           &types.Site{},
		"clients":         &types.Client{},
		"projects":        &types.Project{},
		"plot_spec":       &types.PlotSpec{},
		"elevations_spec": &types.ElevationSpec{},
	} {
		var count int64
		if err := tx.Model(model).Where("instance_id = ?", inst.InstanceID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected 1 row in %s after re-import, got %d", table, count)
		}
	}
	var productCount int64
	if err := tx.Model(&types.Product{}).Where("instance_id = ?", inst.InstanceID).Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 3 {
		t.Fatalf("expected 3 products after re-import, got %d", productCount)
	}

	// Each run opened its own import event; the second run's id is stamped.
	if first.ImportID == second.ImportID {
		t.Fatalf("runs shared an import event")
	}
	var plot types.Plot
	if err := tx.Where("plot_id = ?", second.PlotID).Take(&plot).Error; err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if plot.ImportID == nil || *plot.ImportID != second.ImportID {
		t.Fatalf("latest run not stamped on plot: %v", plot.ImportID)
	}
}

func TestImportPlotSkipsIncompleteSubObjects(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	eng := NewEngine(db, log, nil, nil)
	orch := NewOrchestrator(eng, NewLedger(db, log), log)

	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")

	in := &PlotImport{
		PlotNumber: "7",
		DNO:        &DnoImport{MpanPrefix: "  "}, // natural key missing
	}
	res, err := orch.ImportPlot(ctx, tx, inst.InstanceID, in, ImportOptions{Ref: "run-1", Source: "tracker"})
	if err != nil {
		t.Fatalf("ImportPlot: %v", err)
	}
	if res.DnoDetailsID != nil {
		t.Fatalf("incomplete dno should be skipped, got id %s", *res.DnoDetailsID)
	}
	if res.PlotID == uuid.Nil {
		t.Fatalf("plot import aborted on a skippable step")
	}
}

func TestImportPlotRejectsMalformedShape(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	eng := NewEngine(db, log, nil, nil)
	orch := NewOrchestrator(eng, NewLedger(db, log), log)

	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")

	_, err := orch.ImportPlot(ctx, tx, inst.InstanceID, &PlotImport{}, ImportOptions{Ref: "run-1"})
	if err == nil {
		t.Fatalf("expected validation error for empty plot import")
	}

	var count int64
	if err := tx.Model(&types.ImportEvent{}).Where("instance_id = ?", inst.InstanceID).Count(&count).Error; err != nil {
		t.Fatalf("count import events: %v", err)
	}
	if count != 0 {
		t.Fatalf("validation failure opened an import run: %d", count)
	}
}
